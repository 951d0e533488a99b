// Package validation holds the rule predicates shared by catalog writes and
// bill composition, and the field error map they report through.
package validation

import (
	"errors"
	"sort"
	"strings"
	"time"

	medicinedomain "github.com/smallbiznis/pharmabill/internal/medicine/domain"
)

const dateOnlyLayout = "2006-01-02"

// Errors maps a field name to a human readable message. A non-empty Errors
// rejects the whole operation.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation error"
	}
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Add records message for field. The first message for a field wins.
func (e Errors) Add(field, message string) {
	if _, exists := e[field]; exists {
		return
	}
	e[field] = message
}

// Check records message for field when ok is false.
func (e Errors) Check(ok bool, field, message string) {
	if !ok {
		e.Add(field, message)
	}
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Merge copies other into e, prefixing each field.
func (e Errors) Merge(prefix string, other Errors) {
	for field, message := range other {
		e.Add(prefix+field, message)
	}
}

// Err returns nil when no rule failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// As extracts the field errors from err.
func As(err error) (Errors, bool) {
	var vErr Errors
	if errors.As(err, &vErr) && len(vErr) > 0 {
		return vErr, true
	}
	return nil, false
}

func NonBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Positive reports value > 0.
func Positive(value float64) bool {
	return value > 0
}

func NonNegative(value float64) bool {
	return value >= 0
}

func IsKnownCategory(value string) bool {
	return medicinedomain.Category(value).Valid()
}

// IsDate reports whether value is a YYYY-MM-DD calendar date.
func IsDate(value string) bool {
	_, err := time.Parse(dateOnlyLayout, strings.TrimSpace(value))
	return err == nil
}
