// Package pdf renders invoices into paginated PDF documents.
package pdf

import (
	"errors"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"invoiceapp/internal/format"
	"invoiceapp/internal/models"
)

// ErrGenerate is the single failure condition surfaced to callers; any
// internal layout error is wrapped into it.
var ErrGenerate = errors.New("invoice pdf generation failed")

// InvoiceData is the fully-resolved input to the renderer. All money and
// date fields are preformatted strings so the layout stays deterministic.
type InvoiceData struct {
	Number    string
	IssueDate string
	DueDate   string

	BillToName  string
	BillToLines []string
	BillToEmail string
	BillToPhone string

	Items []LineItem

	Subtotal string
	// TaxLabel is empty when the tax rate is zero; the tax line is then
	// omitted entirely.
	TaxLabel  string
	TaxAmount string
	Total     string

	Notes string
	Terms string
}

// LineItem is one row of the item table.
type LineItem struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

// BuildInvoiceData maps a loaded invoice (customer and items resolved) onto
// the renderer input.
func BuildInvoiceData(inv *models.Invoice) InvoiceData {
	data := InvoiceData{
		Number:    inv.Number,
		IssueDate: format.Date(inv.IssueDate),
		DueDate:   format.Date(inv.DueDate),
		Subtotal:  format.Money(inv.Subtotal),
		Total:     format.Money(inv.Total),
		Notes:     inv.Notes,
		Terms:     inv.Terms,
	}
	if inv.Customer != nil {
		data.BillToName = inv.Customer.Name
		data.BillToLines = inv.Customer.AddressLines()
		data.BillToEmail = inv.Customer.Email
		data.BillToPhone = inv.Customer.Phone
	}
	if inv.TaxRate > 0 {
		data.TaxLabel = TaxLabel(inv.TaxRate)
		data.TaxAmount = format.Money(inv.TaxAmount)
	}
	for _, it := range inv.Items {
		data.Items = append(data.Items, LineItem{
			Description: it.Description,
			Quantity:    format.Rate(it.Quantity),
			UnitPrice:   format.Money(it.UnitPrice),
			Amount:      format.Money(it.Amount),
		})
	}
	return data
}

// TaxLabel renders the tax line label for a non-zero rate, e.g. "Tax (8.25%):".
func TaxLabel(rate float64) string {
	return "Tax (" + format.Rate(rate) + "%):"
}

// Generate renders the invoice into an in-memory PDF, suitable for streaming
// as an HTTP download.
func Generate(data InvoiceData) ([]byte, error) {
	doc, err := build(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	return doc.GetBytes(), nil
}

// GenerateToFile renders the invoice directly to a file path.
func GenerateToFile(data InvoiceData, path string) error {
	doc, err := build(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	if err := doc.Save(path); err != nil {
		return fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	return nil
}

func build(data InvoiceData) (core.Document, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(19).
		WithRightMargin(19).
		WithTopMargin(13).
		Build()

	m := maroto.New(cfg)

	// Header: title on the left, invoice meta on the right.
	m.AddRow(24,
		text.NewCol(7, "INVOICE", props.Text{
			Size:  22,
			Style: fontstyle.Bold,
		}),
		col.New(5).Add(
			text.New("Invoice #: "+data.Number, props.Text{Size: 10}),
			text.New("Date: "+data.IssueDate, props.Text{Size: 10, Top: 5}),
			text.New("Due Date: "+data.DueDate, props.Text{Size: 10, Top: 10}),
		),
	)

	// Bill To block, optional lines omitted rather than left blank.
	m.AddRow(8, text.NewCol(12, "Bill To:", props.Text{Size: 11, Style: fontstyle.Bold}))
	m.AddRow(5, text.NewCol(12, data.BillToName, props.Text{Size: 10}))
	for _, addr := range data.BillToLines {
		m.AddRow(5, text.NewCol(12, addr, props.Text{Size: 10}))
	}
	if data.BillToEmail != "" {
		m.AddRow(5, text.NewCol(12, data.BillToEmail, props.Text{Size: 10}))
	}
	if data.BillToPhone != "" {
		m.AddRow(5, text.NewCol(12, data.BillToPhone, props.Text{Size: 10}))
	}
	m.AddRow(6, col.New(12))

	// Line-item table, numeric columns right-aligned.
	m.AddRow(8,
		text.NewCol(6, "Description", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Unit Price", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))
	for _, it := range data.Items {
		m.AddRow(7,
			text.NewCol(6, it.Description, props.Text{Size: 9}),
			text.NewCol(2, it.Quantity, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, it.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, it.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(2, line.NewCol(12))

	// Totals block; the tax line only appears for a non-zero rate.
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Subtotal:", props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, data.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	if data.TaxLabel != "" {
		m.AddRow(7,
			col.New(8),
			text.NewCol(2, data.TaxLabel, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, data.TaxAmount, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total:", props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, data.Total, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
	)

	if data.Notes != "" {
		m.AddRow(10, text.NewCol(12, "Notes:", props.Text{Size: 10, Style: fontstyle.Bold, Top: 4}))
		m.AddRow(6, text.NewCol(12, data.Notes, props.Text{Size: 9}))
	}
	if data.Terms != "" {
		m.AddRow(10, text.NewCol(12, "Terms:", props.Text{Size: 10, Style: fontstyle.Bold, Top: 4}))
		m.AddRow(6, text.NewCol(12, data.Terms, props.Text{Size: 9}))
	}

	return m.Generate()
}
