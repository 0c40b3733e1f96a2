// Package server wires the HTTP routes and shared middleware.
package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"invoiceapp/internal/handlers"
	"invoiceapp/internal/httpx"
	"invoiceapp/internal/services"
)

// Options carries everything the router needs beyond the database handle.
type Options struct {
	PDFDir string
	Logger *zap.Logger
}

// New constructs the root http.Handler with all routes and middleware
// applied.
func New(db *gorm.DB, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	invoiceSvc := services.NewInvoiceService(db)
	customerSvc := services.NewCustomerService(db)

	pages := handlers.NewPageHandler(invoiceSvc, log)
	ch := handlers.NewCustomerHandler(customerSvc, log)
	ih := handlers.NewInvoiceHandler(invoiceSvc, customerSvc, opts.PDFDir, log)

	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /", pages.Index)
	mux.HandleFunc("GET /dashboard", pages.Dashboard)

	// Customers
	mux.HandleFunc("GET /customers", ch.List)
	mux.HandleFunc("POST /customers", ch.Create)
	mux.HandleFunc("GET /customers/{id}/edit", ch.Edit)
	mux.HandleFunc("POST /customers/{id}", ch.Update)
	mux.HandleFunc("POST /customers/{id}/delete", ch.Delete)

	// Invoices
	mux.HandleFunc("GET /invoices", ih.List)
	mux.HandleFunc("GET /invoices/new", ih.New)
	mux.HandleFunc("POST /invoices", ih.Create)
	mux.HandleFunc("GET /invoices/{id}", ih.View)
	mux.HandleFunc("GET /invoices/{id}/edit", ih.Edit)
	mux.HandleFunc("POST /invoices/{id}", ih.Update)
	mux.HandleFunc("POST /invoices/{id}/delete", ih.Delete)
	mux.HandleFunc("POST /invoices/{id}/mark-paid", ih.MarkPaid)
	mux.HandleFunc("GET /invoices/{id}/pdf", ih.PDF)
	mux.HandleFunc("GET /invoices/{id}/print", ih.Print)
	mux.HandleFunc("GET /invoices/{id}/debug", ih.Debug)

	// Health endpoints
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Static files (stylesheets, generated PDF copies)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	return withRecover(withLogging(mux, log), log)
}

// statusWriter records the response code for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func withRecover(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
