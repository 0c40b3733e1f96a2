package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"invoiceapp/internal/models"
	"invoiceapp/internal/view"
)

func setupServer(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	view.SetSecret([]byte("test-secret"))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Invoice{}, &models.InvoiceItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db, Options{PDFDir: t.TempDir()}), db
}

func seedCustomer(t *testing.T, db *gorm.DB) models.Customer {
	t.Helper()
	c := models.Customer{Name: "Acme Corp", Email: "billing@acme.test", Address: "1 Main St"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func invoiceForm(customerID uint) url.Values {
	return url.Values{
		"customer_id":         {fmt.Sprint(customerID)},
		"issue_date":          {"2026-03-01"},
		"due_date":            {"2026-03-31"},
		"tax_rate":            {"8.25"},
		"notes":               {"Thanks"},
		"items.0.description": {"Consulting"},
		"items.0.quantity":    {"10"},
		"items.0.unit_price":  {"150"},
		"items.1.description": {""},
		"items.1.quantity":    {""},
		"items.1.unit_price":  {""},
	}
}

func TestHealthEndpoints(t *testing.T) {
	h, _ := setupServer(t)

	w := get(t, h, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("/health = %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q", body["status"])
	}

	if w := get(t, h, "/healthz"); w.Code != http.StatusOK {
		t.Errorf("/healthz = %d", w.Code)
	}
}

func TestIndexAndNotFound(t *testing.T) {
	h, _ := setupServer(t)

	if w := get(t, h, "/"); w.Code != http.StatusOK {
		t.Errorf("/ = %d", w.Code)
	}
	if w := get(t, h, "/no-such-page"); w.Code != http.StatusNotFound {
		t.Errorf("/no-such-page = %d", w.Code)
	}
}

func TestCustomerCreateFlow(t *testing.T) {
	h, _ := setupServer(t)

	w := postForm(t, h, "/customers", url.Values{
		"name":    {"Acme Corp"},
		"email":   {"billing@acme.test"},
		"address": {"1 Main St"},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create = %d body=%s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/customers" {
		t.Errorf("redirect = %q", loc)
	}

	list := get(t, h, "/customers")
	if list.Code != http.StatusOK {
		t.Fatalf("list = %d", list.Code)
	}
	if !strings.Contains(list.Body.String(), "Acme Corp") {
		t.Error("customer missing from list page")
	}
}

func TestCustomerCreateValidation(t *testing.T) {
	h, _ := setupServer(t)

	// Missing name re-renders the list page with the violation instead of
	// redirecting.
	w := postForm(t, h, "/customers", url.Values{"email": {"a@b.test"}})
	if w.Code != http.StatusOK {
		t.Fatalf("invalid create = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "name") {
		t.Error("violation not shown")
	}
}

func TestInvoiceCreateFlow(t *testing.T) {
	h, db := setupServer(t)
	customer := seedCustomer(t, db)

	w := postForm(t, h, "/invoices", invoiceForm(customer.ID))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create = %d body=%s", w.Code, w.Body.String())
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "/invoices/") {
		t.Fatalf("redirect = %q", loc)
	}

	page := get(t, h, loc)
	if page.Code != http.StatusOK {
		t.Fatalf("view = %d", page.Code)
	}
	body := page.Body.String()
	if !strings.Contains(body, "INV-0001") {
		t.Error("invoice number missing from view page")
	}
	if !strings.Contains(body, "$1,623.75") {
		t.Error("total missing from view page")
	}
	if !strings.Contains(body, "Tax (8.25%)") {
		t.Error("tax line missing from view page")
	}
}

func TestInvoiceCreateZeroItems(t *testing.T) {
	h, db := setupServer(t)
	customer := seedCustomer(t, db)

	form := invoiceForm(customer.ID)
	form.Set("items.0.description", "")
	w := postForm(t, h, "/invoices", form)
	if w.Code != http.StatusOK {
		t.Fatalf("zero-item create = %d", w.Code)
	}
	// The business-rule message must be on the redisplayed form itself, not
	// deferred to the next page load.
	if !strings.Contains(w.Body.String(), "At least one invoice item is required") {
		t.Error("zero-item message missing from redisplayed form")
	}

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	if count != 0 {
		t.Errorf("invoices persisted = %d, want 0", count)
	}
}

func TestInvoiceCreateUnknownCustomer(t *testing.T) {
	h, db := setupServer(t)

	w := postForm(t, h, "/invoices", invoiceForm(999))
	if w.Code != http.StatusOK {
		t.Fatalf("unknown-customer create = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Please select a customer") {
		t.Error("customer message missing from redisplayed form")
	}

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	if count != 0 {
		t.Errorf("invoices persisted = %d, want 0", count)
	}
}

func TestInvoiceUpdateZeroItemsRedisplay(t *testing.T) {
	h, db := setupServer(t)
	customer := seedCustomer(t, db)

	if w := postForm(t, h, "/invoices", invoiceForm(customer.ID)); w.Code != http.StatusSeeOther {
		t.Fatalf("create = %d", w.Code)
	}

	form := invoiceForm(customer.ID)
	form.Set("items.0.description", "")
	w := postForm(t, h, "/invoices/1", form)
	if w.Code != http.StatusOK {
		t.Fatalf("zero-item update = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "At least one invoice item is required") {
		t.Error("zero-item message missing from redisplayed edit form")
	}

	var itemCount int64
	db.Model(&models.InvoiceItem{}).Count(&itemCount)
	if itemCount != 1 {
		t.Errorf("items after rejected update = %d, want 1", itemCount)
	}
}

func TestInvoiceMarkPaidFlow(t *testing.T) {
	h, db := setupServer(t)
	customer := seedCustomer(t, db)

	w := postForm(t, h, "/invoices", invoiceForm(customer.ID))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create = %d", w.Code)
	}
	loc := w.Header().Get("Location")

	if w := postForm(t, h, loc+"/mark-paid", url.Values{}); w.Code != http.StatusSeeOther {
		t.Fatalf("mark-paid = %d", w.Code)
	}

	var inv models.Invoice
	if err := db.First(&inv).Error; err != nil {
		t.Fatalf("load invoice: %v", err)
	}
	if !inv.IsPaid() || inv.PaymentDate == nil {
		t.Errorf("invoice not paid: status=%q payment_date=%v", inv.Status, inv.PaymentDate)
	}
}

func TestInvoicePDFDownload(t *testing.T) {
	h, db := setupServer(t)
	customer := seedCustomer(t, db)

	w := postForm(t, h, "/invoices", invoiceForm(customer.ID))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create = %d", w.Code)
	}
	loc := w.Header().Get("Location")

	pdfResp := get(t, h, loc+"/pdf")
	if pdfResp.Code != http.StatusOK {
		t.Fatalf("pdf = %d", pdfResp.Code)
	}
	if ct := pdfResp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := pdfResp.Header().Get("Content-Disposition"); !strings.Contains(cd, "invoice_INV-0001.pdf") {
		t.Errorf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(pdfResp.Body.String(), "%PDF") {
		t.Error("body is not a PDF")
	}
}

func TestInvoiceDebugJSON(t *testing.T) {
	h, db := setupServer(t)
	customer := seedCustomer(t, db)

	w := postForm(t, h, "/invoices", invoiceForm(customer.ID))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create = %d", w.Code)
	}
	loc := w.Header().Get("Location")

	resp := get(t, h, loc+"/debug")
	if resp.Code != http.StatusOK {
		t.Fatalf("debug = %d", resp.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["invoice_number"] != "INV-0001" {
		t.Errorf("invoice_number = %v", payload["invoice_number"])
	}
	if payload["items_count"] != float64(1) {
		t.Errorf("items_count = %v", payload["items_count"])
	}
}

func TestInvoiceNotFound(t *testing.T) {
	h, _ := setupServer(t)

	if w := get(t, h, "/invoices/999"); w.Code != http.StatusNotFound {
		t.Errorf("missing invoice = %d", w.Code)
	}
	if w := get(t, h, "/invoices/999/debug"); w.Code != http.StatusNotFound {
		t.Errorf("missing invoice debug = %d", w.Code)
	}
}

func TestCustomerDeleteRestrictedFlow(t *testing.T) {
	h, db := setupServer(t)
	customer := seedCustomer(t, db)

	if w := postForm(t, h, "/invoices", invoiceForm(customer.ID)); w.Code != http.StatusSeeOther {
		t.Fatalf("create invoice = %d", w.Code)
	}

	w := postForm(t, h, fmt.Sprintf("/customers/%d/delete", customer.ID), url.Values{})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("delete = %d", w.Code)
	}
	var count int64
	db.Model(&models.Customer{}).Count(&count)
	if count != 1 {
		t.Errorf("customer deleted despite invoices")
	}
}

func TestDashboardPage(t *testing.T) {
	h, db := setupServer(t)
	customer := seedCustomer(t, db)
	if w := postForm(t, h, "/invoices", invoiceForm(customer.ID)); w.Code != http.StatusSeeOther {
		t.Fatalf("create invoice = %d", w.Code)
	}

	w := get(t, h, "/dashboard")
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INV-0001") {
		t.Error("recent invoice missing from dashboard")
	}
}
