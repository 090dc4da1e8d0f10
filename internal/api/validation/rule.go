// Package validation checks request input against declarative per-endpoint
// rule tables and hands handlers the normalised values.
package validation

import (
	"fmt"
	"strings"

	"github.com/bookhive/library-api/internal/core/domain"
)

// Source says where a rule reads its field from.
type Source int

const (
	Body Source = iota
	Query
	Param
)

// Kind is the type a field must have. Values are normalised per kind:
// strings are trimmed, integers become int64 and dates domain.Date.
// Password is a string kept verbatim and never echoed in a violation.
type Kind int

const (
	String Kind = iota
	Integer
	Date
	Email
	Password
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Date:
		return "date"
	case Email:
		return "email"
	case Password:
		return "password"
	default:
		return "string"
	}
}

// Rule is one check on one field. Tag holds validator tags applied to the
// normalised value, e.g. "max=255" or "gt=0". A Required rule also rejects
// blank strings.
type Rule struct {
	Field    string
	Source   Source
	Required bool
	Kind     Kind
	Tag      string
	Message  string
}

func (r Rule) message() string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("%s must be a valid %s", r.Field, r.Kind)
}

// Violation describes a field that failed a rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error carries every violation of a rejected request, in rule order.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Result is the outcome of evaluating a rule table.
type Result struct {
	Violations []Violation
	values     map[string]any
}

func (r Result) OK() bool { return len(r.Violations) == 0 }

// Err returns an *Error when there are violations, nil otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Violations: r.Violations}
}

// Has reports whether field was present and passed its rules.
func (r Result) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}

func (r Result) String(field string) string {
	s, _ := r.values[field].(string)
	return s
}

func (r Result) StringPtr(field string) *string {
	if !r.Has(field) {
		return nil
	}
	s := r.String(field)
	return &s
}

// IntOr returns the integer value of field, or def when it is absent.
func (r Result) IntOr(field string, def int64) int64 {
	if n, ok := r.values[field].(int64); ok {
		return n
	}
	return def
}

func (r Result) IntPtr(field string) *int64 {
	n, ok := r.values[field].(int64)
	if !ok {
		return nil
	}
	return &n
}

func (r Result) Date(field string) domain.Date {
	d, _ := r.values[field].(domain.Date)
	return d
}

func (r Result) DatePtr(field string) *domain.Date {
	d, ok := r.values[field].(domain.Date)
	if !ok {
		return nil
	}
	return &d
}
