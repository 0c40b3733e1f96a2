package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"invoiceapp/internal/models"
	"invoiceapp/internal/services"
)

// parseID reads the {id} path segment.
func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return uint(id), nil
}

// parseCustomerForm maps the customer form onto the service input.
func parseCustomerForm(r *http.Request) services.CustomerInput {
	return services.CustomerInput{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Address: strings.TrimSpace(r.FormValue("address")),
	}
}

// parseInvoiceForm maps the invoice form onto the service input. Dates use
// the HTML date input format; unparsable values stay zero and fail
// validation.
func parseInvoiceForm(r *http.Request) services.InvoiceInput {
	customerID, _ := strconv.ParseUint(r.FormValue("customer_id"), 10, 32)
	issueDate, _ := time.Parse("2006-01-02", r.FormValue("issue_date"))
	dueDate, _ := time.Parse("2006-01-02", r.FormValue("due_date"))
	taxRate, _ := strconv.ParseFloat(r.FormValue("tax_rate"), 64)
	return services.InvoiceInput{
		CustomerID: uint(customerID),
		IssueDate:  issueDate,
		DueDate:    dueDate,
		TaxRate:    taxRate,
		Notes:      strings.TrimSpace(r.FormValue("notes")),
		Terms:      strings.TrimSpace(r.FormValue("terms")),
		Items:      parseItems(r.Form),
	}
}

// invoiceToInput turns a stored invoice back into form values for the edit
// page.
func invoiceToInput(inv *models.Invoice) services.InvoiceInput {
	in := services.InvoiceInput{
		CustomerID: inv.CustomerID,
		IssueDate:  inv.IssueDate,
		DueDate:    inv.DueDate,
		TaxRate:    inv.TaxRate,
		Notes:      inv.Notes,
		Terms:      inv.Terms,
	}
	for _, it := range inv.Items {
		in.Items = append(in.Items, services.ItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return in
}

// parseItems collects the grouped line-item fields items.N.description,
// items.N.quantity and items.N.unit_price into one record per index. A record
// whose description is blank is dropped whole; its quantity and price are
// never looked at.
//
// The scan walks indices from zero and stops at the first index with none of
// the three keys present. The form and its row script only ever emit
// contiguous indices, and stopping at the first gap keeps a stray
// out-of-sequence key from smuggling in an extra row.
func parseItems(form url.Values) []services.ItemInput {
	var items []services.ItemInput
	for i := 0; ; i++ {
		prefix := fmt.Sprintf("items.%d.", i)
		_, hasDesc := form[prefix+"description"]
		_, hasQty := form[prefix+"quantity"]
		_, hasPrice := form[prefix+"unit_price"]
		if !hasDesc && !hasQty && !hasPrice {
			break
		}
		desc := strings.TrimSpace(form.Get(prefix + "description"))
		if desc == "" {
			continue
		}
		qty, _ := strconv.ParseFloat(form.Get(prefix+"quantity"), 64)
		price, _ := strconv.ParseFloat(form.Get(prefix+"unit_price"), 64)
		items = append(items, services.ItemInput{
			Description: desc,
			Quantity:    qty,
			UnitPrice:   price,
		})
	}
	return items
}
