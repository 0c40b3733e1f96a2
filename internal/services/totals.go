package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invoiceapp/internal/models"
)

// ItemInput is one submitted line item. The three fields travel together and
// are validated as a unit; a record whose description is blank is dropped
// before it reaches the service layer.
type ItemInput struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

// Totals holds the derived money fields of an invoice, each rounded to two
// decimal places.
type Totals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// CalculateTotals computes subtotal, tax amount and total for the given items
// and tax rate (a percentage in [0, 100]).
//
// Rounding rule: half-up via decimal arithmetic, applied once at summation
// for the subtotal, then to the tax amount and the total. Items with
// non-positive quantity or price and empty item lists are rejected by the
// caller before this runs.
func CalculateTotals(items []ItemInput, taxRate float64) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Quantity).Mul(decimal.NewFromFloat(it.UnitPrice))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(tax).Round(2)
	return Totals{
		Subtotal:  subtotal.InexactFloat64(),
		TaxAmount: tax.InexactFloat64(),
		Total:     total.InexactFloat64(),
	}
}

// LineAmount computes quantity * unit price rounded to two decimals, the
// value stored on each invoice item row.
func LineAmount(quantity, unitPrice float64) float64 {
	return decimal.NewFromFloat(quantity).
		Mul(decimal.NewFromFloat(unitPrice)).
		Round(2).
		InexactFloat64()
}

// NextInvoiceNumber derives the next sequential invoice number from the
// current maximum invoice id: INV-0001 on an empty table, INV-0042 after an
// invoice with id 41 exists.
//
// Known limitation: two transactions reading the max id concurrently can
// compute the same number. The unique index on the number column makes the
// loser fail its transaction instead of persisting a duplicate.
func NextInvoiceNumber(tx *gorm.DB) (string, error) {
	var maxID int64
	err := tx.Model(&models.Invoice{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%04d", maxID+1), nil
}
