// Package http provides the HTTP handler layer for the ticket inventory API.
// It handles request parsing, validation, and response formatting.
package http

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/timeutil"
)

// ListTicketsRequest holds the query parameters of a ticket listing.
// List parameters accept repeated values (?routes=A&routes=B), comma-separated
// values (?routes=A,B), or both.
type ListTicketsRequest struct {
	// PNR is a booking reference fragment, matched case-insensitively
	PNR string `query:"pnr"`

	// Destination is a fragment of the outbound arrival city name
	Destination string `query:"destination"`

	// Date is the outbound travel date in YYYY-MM-DD format
	Date string `query:"date"`

	// Routes are route codes such as LHE-JED or LHE-JED-LHE
	Routes []string `query:"routes"`

	// Airlines are airline display names
	Airlines []string `query:"airlines"`

	// Sort lists sort keys in activation order
	Sort []string `query:"sort"`
}

// Validation regex patterns.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Maximum accepted lengths for free-text parameters.
const (
	maxTextLength = 100
	maxListLength = 50
)

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// Validate normalizes the request and returns any validation errors.
func (r *ListTicketsRequest) Validate() error {
	errs := &ValidationErrors{}

	r.PNR = strings.TrimSpace(r.PNR)
	r.Destination = strings.TrimSpace(r.Destination)
	r.Date = strings.TrimSpace(r.Date)
	r.Routes = splitList(r.Routes)
	r.Airlines = splitList(r.Airlines)
	r.Sort = splitList(r.Sort)

	r.validateText("pnr", r.PNR, errs)
	r.validateText("destination", r.Destination, errs)
	r.validateDate(errs)
	r.validateList("routes", r.Routes, errs)
	r.validateList("airlines", r.Airlines, errs)
	r.validateSort(errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (r *ListTicketsRequest) validateText(field, value string, errs *ValidationErrors) {
	if len(value) > maxTextLength {
		errs.Add(field, fmt.Sprintf("%s cannot exceed %d characters", field, maxTextLength))
	}
}

func (r *ListTicketsRequest) validateDate(errs *ValidationErrors) {
	if r.Date == "" {
		return
	}
	if !datePattern.MatchString(r.Date) {
		errs.Add("date", "date must be in YYYY-MM-DD format")
		return
	}
	if _, err := time.Parse(timeutil.DateLayout, r.Date); err != nil {
		errs.Add("date", "date is not a valid date")
	}
}

func (r *ListTicketsRequest) validateList(field string, values []string, errs *ValidationErrors) {
	if len(values) > maxListLength {
		errs.Add(field, fmt.Sprintf("%s cannot list more than %d values", field, maxListLength))
	}
}

func (r *ListTicketsRequest) validateSort(errs *ValidationErrors) {
	for i, raw := range r.Sort {
		key, ok := domain.ParseSortKey(raw)
		if !ok {
			errs.Add("sort", fmt.Sprintf("unknown sort key %q; valid keys: %s", raw, validSortKeys()))
			return
		}
		r.Sort[i] = string(key)
	}
}

func validSortKeys() string {
	names := make([]string, len(domain.AllSortKeys))
	for i, k := range domain.AllSortKeys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// splitList flattens comma-separated values and drops blanks.
func splitList(values []string) []string {
	var result []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}
