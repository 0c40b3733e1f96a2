package models

import (
	"strings"
	"time"
)

// Customer represents a billable party that invoices are issued to.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:100" json:"email,omitempty"`
	Phone   string `gorm:"size:20" json:"phone,omitempty"`
	Address string `gorm:"type:text" json:"address,omitempty"`

	Invoices []Invoice `gorm:"foreignKey:CustomerID" json:"invoices,omitempty"`
}

// AddressLines splits the free-text address into individual lines for
// rendering (PDF "Bill To" block, print view). Blank lines are dropped.
func (c *Customer) AddressLines() []string {
	if strings.TrimSpace(c.Address) == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(c.Address, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

// DisplayLabel is the customer as shown in dropdowns: "Name (email)" when an
// email is present, otherwise just the name.
func (c *Customer) DisplayLabel() string {
	if c.Email != "" {
		return c.Name + " (" + c.Email + ")"
	}
	return c.Name
}
