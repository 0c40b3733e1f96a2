package services

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoItems is returned when an invoice is submitted without any valid
	// line item. Nothing is persisted in that case.
	ErrNoItems = errors.New("invoice requires at least one line item")

	// ErrCustomerHasInvoices blocks customer deletion while invoices still
	// reference the customer.
	ErrCustomerHasInvoices = errors.New("customer has invoices and cannot be deleted")
)
