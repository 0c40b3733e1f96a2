package services

import (
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"invoiceapp/internal/models"
	"invoiceapp/internal/validation"
)

// InvoiceInput carries a full invoice form submission. Create and Update both
// take the complete field set; Update replaces the line items wholesale.
type InvoiceInput struct {
	CustomerID uint
	IssueDate  time.Time
	DueDate    time.Time
	TaxRate    float64
	Notes      string
	Terms      string
	Items      []ItemInput
}

// Validate checks the field-level constraints. The zero-items business rule
// is reported separately through ErrNoItems so handlers can flash it.
func (in InvoiceInput) Validate() validation.Violations {
	v := make(validation.Violations)
	if in.CustomerID == 0 {
		v["customer_id"] = "required"
	}
	if in.IssueDate.IsZero() {
		v["issue_date"] = "required"
	}
	if in.DueDate.IsZero() {
		v["due_date"] = "required"
	}
	validation.RangeFloat("tax_rate", in.TaxRate, 0, 100, v)
	for i, it := range in.Items {
		prefix := "items." + strconv.Itoa(i) + "."
		validation.Required(prefix+"description", it.Description, v)
		validation.PositiveFloat(prefix+"quantity", it.Quantity, v)
		validation.PositiveFloat(prefix+"unit_price", it.UnitPrice, v)
	}
	return v
}

type InvoiceService struct {
	db *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

// Create persists a new DRAFT invoice with its items in one transaction.
// The invoice number is derived inside the same transaction that inserts the
// row, so a concurrent duplicate fails on the unique index and rolls back.
func (s *InvoiceService) Create(in InvoiceInput) (*models.Invoice, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	totals := CalculateTotals(in.Items, in.TaxRate)

	var inv models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, in.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		number, err := NextInvoiceNumber(tx)
		if err != nil {
			return err
		}
		inv = models.Invoice{
			Number:     number,
			CustomerID: in.CustomerID,
			IssueDate:  in.IssueDate,
			DueDate:    in.DueDate,
			Subtotal:   totals.Subtotal,
			TaxRate:    in.TaxRate,
			TaxAmount:  totals.TaxAmount,
			Total:      totals.Total,
			Notes:      in.Notes,
			Terms:      in.Terms,
			Status:     models.InvoiceStatusDraft,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		items := buildItems(inv.ID, in.Items)
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		inv.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Update replaces every field and all line items of an invoice, recomputing
// the totals. The edit flow deletes the existing items and re-inserts the
// submitted ones inside one transaction.
func (s *InvoiceService) Update(id uint, in InvoiceInput) (*models.Invoice, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	totals := CalculateTotals(in.Items, in.TaxRate)

	var inv models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		inv.CustomerID = in.CustomerID
		inv.IssueDate = in.IssueDate
		inv.DueDate = in.DueDate
		inv.TaxRate = in.TaxRate
		inv.Notes = in.Notes
		inv.Terms = in.Terms
		inv.Subtotal = totals.Subtotal
		inv.TaxAmount = totals.TaxAmount
		inv.Total = totals.Total
		if err := tx.Save(&inv).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		items := buildItems(inv.ID, in.Items)
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		inv.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Delete removes the invoice and all of its items.
func (s *InvoiceService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := tx.First(&inv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&inv).Error
	})
}

// MarkPaid transitions a DRAFT invoice to PAID and stamps the payment date.
// Marking an already-paid invoice is a no-op; the first payment date wins.
func (s *InvoiceService) MarkPaid(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if inv.IsPaid() {
			return nil
		}
		now := time.Now()
		inv.Status = models.InvoiceStatusPaid
		inv.PaymentDate = &now
		return tx.Save(&inv).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Get loads an invoice with its customer and items resolved.
func (s *InvoiceService) Get(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.Preload("Customer").Preload("Items").First(&inv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// List returns all invoices, most recently issued first.
func (s *InvoiceService) List() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.Preload("Customer").Order("issue_date DESC, id DESC").Find(&invoices).Error
	return invoices, err
}

// DashboardStats aggregates the landing numbers: customer and invoice counts
// plus the five most recently issued invoices.
type DashboardStats struct {
	CustomerCount  int64
	InvoiceCount   int64
	RecentInvoices []models.Invoice
}

func (s *InvoiceService) Dashboard() (DashboardStats, error) {
	var stats DashboardStats
	if err := s.db.Model(&models.Customer{}).Count(&stats.CustomerCount).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&models.Invoice{}).Count(&stats.InvoiceCount).Error; err != nil {
		return stats, err
	}
	err := s.db.Preload("Customer").
		Order("issue_date DESC, id DESC").
		Limit(5).
		Find(&stats.RecentInvoices).Error
	return stats, err
}

func buildItems(invoiceID uint, items []ItemInput) []models.InvoiceItem {
	rows := make([]models.InvoiceItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, models.InvoiceItem{
			InvoiceID:   invoiceID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      LineAmount(it.Quantity, it.UnitPrice),
		})
	}
	return rows
}
