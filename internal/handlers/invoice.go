package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"invoiceapp/internal/httpx"
	"invoiceapp/internal/models"
	"invoiceapp/internal/pdf"
	"invoiceapp/internal/services"
	"invoiceapp/internal/view"
)

type InvoiceHandler struct {
	svc       *services.InvoiceService
	customers *services.CustomerService
	pdfDir    string
	log       *zap.Logger
}

func NewInvoiceHandler(svc *services.InvoiceService, customers *services.CustomerService, pdfDir string, log *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{svc: svc, customers: customers, pdfDir: pdfDir, log: log}
}

// List: GET /invoices.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.svc.List()
	if err != nil {
		h.log.Error("list invoices", zap.Error(err))
		view.Flash(w, "danger", "Error loading invoices")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := view.Render(w, r, "invoices/list.html", map[string]any{
		"Invoices": invoices,
	}); err != nil {
		h.log.Error("render invoice list", zap.Error(err))
	}
}

// New: GET /invoices/new. Issue date defaults to today, due date to 30 days
// out.
func (h *InvoiceHandler) New(w http.ResponseWriter, r *http.Request) {
	today := time.Now()
	h.renderForm(w, r, "invoices/new.html", map[string]any{
		"Form": services.InvoiceInput{
			IssueDate: today,
			DueDate:   today.AddDate(0, 0, 30),
		},
	})
}

// Create: POST /invoices.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := parseInvoiceForm(r)
	if v := in.Validate(); !v.Empty() {
		h.renderForm(w, r, "invoices/new.html", map[string]any{"Form": in, "Errors": v})
		return
	}
	if len(in.Items) == 0 {
		h.renderForm(w, r, "invoices/new.html", map[string]any{
			"Form":    in,
			"Flashes": view.Flashes("danger", "At least one invoice item is required"),
		})
		return
	}
	inv, err := h.svc.Create(in)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.renderForm(w, r, "invoices/new.html", map[string]any{
				"Form":    in,
				"Flashes": view.Flashes("danger", "Please select a customer"),
			})
			return
		}
		h.log.Error("create invoice", zap.Error(err))
		h.renderForm(w, r, "invoices/new.html", map[string]any{
			"Form":    in,
			"Flashes": view.Flashes("danger", "Error creating invoice"),
		})
		return
	}
	view.Flash(w, "success", "Invoice created successfully!")
	http.Redirect(w, r, fmt.Sprintf("/invoices/%d", inv.ID), http.StatusSeeOther)
}

// View: GET /invoices/{id}.
func (h *InvoiceHandler) View(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := view.Render(w, r, "invoices/view.html", map[string]any{
		"Invoice": inv,
	}); err != nil {
		h.log.Error("render invoice view", zap.Error(err))
	}
}

// Edit: GET /invoices/{id}/edit.
func (h *InvoiceHandler) Edit(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, "invoices/edit.html", map[string]any{"Invoice": inv, "Form": invoiceToInput(inv)})
}

// Update: POST /invoices/{id}. All line items are replaced by the submitted
// set and the totals recomputed.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	in := parseInvoiceForm(r)
	redisplay := func(flashes []view.FlashMessage) {
		inv, getErr := h.svc.Get(id)
		if getErr != nil {
			http.NotFound(w, r)
			return
		}
		h.renderForm(w, r, "invoices/edit.html", map[string]any{
			"Invoice": inv,
			"Form":    in,
			"Flashes": flashes,
		})
	}
	if v := in.Validate(); !v.Empty() {
		inv, getErr := h.svc.Get(id)
		if getErr != nil {
			http.NotFound(w, r)
			return
		}
		h.renderForm(w, r, "invoices/edit.html", map[string]any{"Invoice": inv, "Form": in, "Errors": v})
		return
	}
	if len(in.Items) == 0 {
		redisplay(view.Flashes("danger", "At least one invoice item is required"))
		return
	}
	if _, err := h.svc.Update(id, in); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log.Error("update invoice", zap.Uint("id", id), zap.Error(err))
		redisplay(view.Flashes("danger", "Error updating invoice"))
		return
	}
	view.Flash(w, "success", "Invoice updated successfully!")
	http.Redirect(w, r, fmt.Sprintf("/invoices/%d", id), http.StatusSeeOther)
}

// Delete: POST /invoices/{id}/delete. Removes the invoice and all its items.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	switch err := h.svc.Delete(id); {
	case err == nil:
		view.Flash(w, "success", "Invoice deleted successfully!")
	case errors.Is(err, services.ErrNotFound):
		http.NotFound(w, r)
		return
	default:
		h.log.Error("delete invoice", zap.Uint("id", id), zap.Error(err))
		view.Flash(w, "danger", "Error deleting invoice")
	}
	http.Redirect(w, r, "/invoices", http.StatusSeeOther)
}

// MarkPaid: POST /invoices/{id}/mark-paid.
func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if _, err := h.svc.MarkPaid(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log.Error("mark invoice paid", zap.Uint("id", id), zap.Error(err))
		view.Flash(w, "danger", "Error updating invoice status")
		http.Redirect(w, r, fmt.Sprintf("/invoices/%d", id), http.StatusSeeOther)
		return
	}
	view.Flash(w, "success", "Invoice marked as paid!")
	http.Redirect(w, r, fmt.Sprintf("/invoices/%d", id), http.StatusSeeOther)
}

// PDF: GET /invoices/{id}/pdf. The document is regenerated on every download
// so edits are always reflected; a copy is written to the PDF directory as a
// best-effort artifact.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	data, err := pdf.Generate(pdf.BuildInvoiceData(inv))
	if err != nil {
		h.log.Error("generate invoice pdf", zap.String("number", inv.Number), zap.Error(err))
		view.Flash(w, "danger", "Error generating PDF. Please try again.")
		http.Redirect(w, r, fmt.Sprintf("/invoices/%d", inv.ID), http.StatusSeeOther)
		return
	}

	filename := fmt.Sprintf("invoice_%s.pdf", inv.Number)
	if h.pdfDir != "" {
		if err := os.MkdirAll(h.pdfDir, 0o755); err == nil {
			if err := os.WriteFile(filepath.Join(h.pdfDir, filename), data, 0o644); err != nil {
				h.log.Warn("write pdf copy", zap.String("number", inv.Number), zap.Error(err))
			}
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		h.log.Warn("stream pdf", zap.Error(err))
	}
}

// Print: GET /invoices/{id}/print renders the print-friendly full page.
func (h *InvoiceHandler) Print(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := view.Render(w, r, "invoices/print.html", map[string]any{
		"Invoice": inv,
	}); err != nil {
		h.log.Error("render invoice print", zap.Error(err))
	}
}

// Debug: GET /invoices/{id}/debug returns a JSON summary of the loaded
// invoice for troubleshooting.
func (h *InvoiceHandler) Debug(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "not_found")
		return
	}
	inv, err := h.svc.Get(id)
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "not_found")
		return
	}
	payload := map[string]any{
		"id":             inv.ID,
		"invoice_number": inv.Number,
		"items_count":    len(inv.Items),
		"status":         inv.Status,
		"total":          inv.Total,
	}
	if inv.Customer != nil {
		payload["customer"] = map[string]any{"id": inv.Customer.ID, "name": inv.Customer.Name}
	}
	httpx.JSON(w, http.StatusOK, payload)
}

// load fetches a fully-resolved invoice for the {id} route or writes a 404.
func (h *InvoiceHandler) load(w http.ResponseWriter, r *http.Request) (*models.Invoice, bool) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	inv, err := h.svc.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		h.log.Error("load invoice", zap.Uint("id", id), zap.Error(err))
		view.Flash(w, "danger", "Error loading invoice")
		http.Redirect(w, r, "/invoices", http.StatusSeeOther)
		return nil, false
	}
	return inv, true
}

// renderForm renders a create/edit form page with the customer dropdown
// attached.
func (h *InvoiceHandler) renderForm(w http.ResponseWriter, r *http.Request, tpl string, data map[string]any) {
	customers, err := h.customers.List()
	if err != nil {
		h.log.Error("load customer choices", zap.Error(err))
		data["Flashes"] = view.Flashes("danger", "Error loading customer list")
	}
	data["Customers"] = customers
	if err := view.Render(w, r, tpl, data); err != nil {
		h.log.Error("render invoice form", zap.String("template", tpl), zap.Error(err))
	}
}
