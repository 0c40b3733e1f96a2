package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"invoiceapp/internal/services"
	"invoiceapp/internal/view"
)

// PageHandler serves the landing and dashboard pages.
type PageHandler struct {
	svc *services.InvoiceService
	log *zap.Logger
}

func NewPageHandler(svc *services.InvoiceService, log *zap.Logger) *PageHandler {
	return &PageHandler{svc: svc, log: log}
}

// Index: GET /.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := view.Render(w, r, "index.html", nil); err != nil {
		h.log.Error("render index", zap.Error(err))
	}
}

// Dashboard: GET /dashboard — totals plus the five most recent invoices.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard()
	if err != nil {
		h.log.Error("load dashboard", zap.Error(err))
		view.Flash(w, "danger", "Error loading dashboard")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := view.Render(w, r, "dashboard.html", map[string]any{
		"TotalCustomers": stats.CustomerCount,
		"TotalInvoices":  stats.InvoiceCount,
		"RecentInvoices": stats.RecentInvoices,
	}); err != nil {
		h.log.Error("render dashboard", zap.Error(err))
	}
}
