// Package validation collects per-field problems from form submissions.
package validation

import (
	"net/mail"
	"strings"
)

// Violations maps a field name to a short problem description, shown inline
// when the form is redisplayed.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Add(field, problem string) { v[field] = problem }

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v.Add(field, "must be greater than zero")
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, "is out of range")
	}
}

// Email checks an optional email field; empty values pass.
func Email(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		v.Add(field, "is not a valid email address")
	}
}
