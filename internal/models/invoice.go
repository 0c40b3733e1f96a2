package models

import (
	"time"
)

// InvoiceStatus represents the lifecycle status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	InvoiceStatusPaid  InvoiceStatus = "PAID"
)

// Invoice represents a billing document for one customer.
//
// Subtotal, TaxAmount and Total are derived from the items at write time and
// stored denormalized, rounded to two decimals. The invariant
// total = subtotal + tax_amount always holds for persisted rows.
type Invoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Human-facing sequential identifier, e.g. INV-0042.
	Number string `gorm:"size:20;uniqueIndex;not null" json:"invoice_number"`

	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	IssueDate time.Time `gorm:"not null" json:"issue_date"`
	DueDate   time.Time `gorm:"not null" json:"due_date"`

	Subtotal  float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxRate   float64 `gorm:"type:decimal(5,2);default:0" json:"tax_rate"`
	TaxAmount float64 `gorm:"type:decimal(10,2);default:0" json:"tax_amount"`
	Total     float64 `gorm:"type:decimal(10,2);not null" json:"total"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`
	Terms string `gorm:"type:text" json:"terms,omitempty"`

	Status      InvoiceStatus `gorm:"size:20;default:'DRAFT'" json:"status"`
	PaymentDate *time.Time    `json:"payment_date,omitempty"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// IsPaid returns true if the invoice has been marked paid.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// IsDraft returns true if the invoice is still in draft status.
func (i *Invoice) IsDraft() bool {
	return i.Status == InvoiceStatusDraft
}

// InvoiceItem represents one billable line on an invoice.
// Items are immutable once written; the edit flow replaces them wholesale.
type InvoiceItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	InvoiceID uint     `gorm:"index;not null" json:"invoice_id"`
	Invoice   *Invoice `gorm:"foreignKey:InvoiceID" json:"-"`

	Description string  `gorm:"size:255;not null" json:"description"`
	Quantity    float64 `gorm:"type:decimal(10,2);not null" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	// Amount = Quantity * UnitPrice, rounded to two decimals.
	Amount float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
}
