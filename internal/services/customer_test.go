package services

import (
	"errors"
	"testing"

	"invoiceapp/internal/models"
)

func TestCustomerCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerService(db)

	created, err := svc.Create(CustomerInput{
		Name:    "Acme Corp",
		Email:   "billing@acme.test",
		Phone:   "555-0100",
		Address: "1 Main St\nSpringfield",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Acme Corp" || got.Email != "billing@acme.test" {
		t.Errorf("unexpected customer: %+v", got)
	}
}

func TestCustomerUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerService(db)

	created, err := svc.Create(CustomerInput{Name: "Old Name"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.Update(created.ID, CustomerInput{Name: "New Name", Email: "new@test"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "New Name" || updated.Email != "new@test" {
		t.Errorf("unexpected customer after update: %+v", updated)
	}

	if _, err := svc.Update(999, CustomerInput{Name: "X"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing = %v, want ErrNotFound", err)
	}
}

func TestCustomerDeleteRestricted(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db)
	invoices := NewInvoiceService(db)
	svc := NewCustomerService(db)

	if _, err := invoices.Create(testInvoiceInput(customer.ID)); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if err := svc.Delete(customer.ID); !errors.Is(err, ErrCustomerHasInvoices) {
		t.Fatalf("delete with invoices = %v, want ErrCustomerHasInvoices", err)
	}
	if _, err := svc.Get(customer.ID); err != nil {
		t.Fatalf("customer removed despite restriction: %v", err)
	}

	// Once the invoices are gone the customer can be deleted.
	var inv models.Invoice
	if err := db.Where("customer_id = ?", customer.ID).First(&inv).Error; err != nil {
		t.Fatalf("load invoice: %v", err)
	}
	if err := invoices.Delete(inv.ID); err != nil {
		t.Fatalf("delete invoice: %v", err)
	}
	if err := svc.Delete(customer.ID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	if _, err := svc.Get(customer.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestCustomerListOrdered(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCustomerService(db)

	for _, name := range []string{"Zeta LLC", "Alpha Inc", "Midway Co"} {
		if _, err := svc.Create(CustomerInput{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	list, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list length = %d, want 3", len(list))
	}
	if list[0].Name != "Alpha Inc" || list[2].Name != "Zeta LLC" {
		t.Errorf("list not ordered by name: %v, %v, %v", list[0].Name, list[1].Name, list[2].Name)
	}
}

func TestCustomerInputValidate(t *testing.T) {
	v := CustomerInput{}.Validate()
	if _, ok := v["name"]; !ok {
		t.Errorf("missing name violation: %v", v)
	}

	v = CustomerInput{Name: "Acme", Email: "not-an-email"}.Validate()
	if _, ok := v["email"]; !ok {
		t.Errorf("missing email violation: %v", v)
	}

	if v := (CustomerInput{Name: "Acme", Email: "a@b.test"}).Validate(); !v.Empty() {
		t.Errorf("unexpected violations: %v", v)
	}
}
