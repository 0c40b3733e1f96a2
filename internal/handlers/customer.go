package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"invoiceapp/internal/services"
	"invoiceapp/internal/view"
)

type CustomerHandler struct {
	svc *services.CustomerService
	log *zap.Logger
}

func NewCustomerHandler(svc *services.CustomerService, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{svc: svc, log: log}
}

// List: GET /customers. The list page also hosts the create form.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.List()
	if err != nil {
		h.log.Error("list customers", zap.Error(err))
		view.Flash(w, "danger", "Error loading customer list")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := view.Render(w, r, "customers/list.html", map[string]any{
		"Customers": customers,
	}); err != nil {
		h.log.Error("render customer list", zap.Error(err))
	}
}

// Create: POST /customers.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := parseCustomerForm(r)
	if v := in.Validate(); !v.Empty() {
		customers, _ := h.svc.List()
		_ = view.Render(w, r, "customers/list.html", map[string]any{
			"Customers": customers,
			"Form":      in,
			"Errors":    v,
		})
		return
	}
	if _, err := h.svc.Create(in); err != nil {
		h.log.Error("create customer", zap.Error(err))
		view.Flash(w, "danger", "Error creating customer")
		http.Redirect(w, r, "/customers", http.StatusSeeOther)
		return
	}
	view.Flash(w, "success", "Customer created successfully!")
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}

// Edit: GET /customers/{id}/edit.
func (h *CustomerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	customer, err := h.svc.Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := view.Render(w, r, "customers/edit.html", map[string]any{
		"Customer": customer,
	}); err != nil {
		h.log.Error("render customer edit", zap.Error(err))
	}
}

// Update: POST /customers/{id}.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	in := parseCustomerForm(r)
	if v := in.Validate(); !v.Empty() {
		customer, getErr := h.svc.Get(id)
		if getErr != nil {
			http.NotFound(w, r)
			return
		}
		_ = view.Render(w, r, "customers/edit.html", map[string]any{
			"Customer": customer,
			"Form":     in,
			"Errors":   v,
		})
		return
	}
	if _, err := h.svc.Update(id, in); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log.Error("update customer", zap.Uint("id", id), zap.Error(err))
		view.Flash(w, "danger", "Error updating customer")
		http.Redirect(w, r, "/customers", http.StatusSeeOther)
		return
	}
	view.Flash(w, "success", "Customer updated successfully!")
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}

// Delete: POST /customers/{id}/delete. Deletion is refused while invoices
// still reference the customer.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	switch err := h.svc.Delete(id); {
	case err == nil:
		view.Flash(w, "success", "Customer deleted successfully!")
	case errors.Is(err, services.ErrCustomerHasInvoices):
		view.Flash(w, "danger", "Customer has invoices and cannot be deleted")
	case errors.Is(err, services.ErrNotFound):
		http.NotFound(w, r)
		return
	default:
		h.log.Error("delete customer", zap.Uint("id", id), zap.Error(err))
		view.Flash(w, "danger", "Error deleting customer")
	}
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}
