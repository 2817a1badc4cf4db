package core

import "errors"

// DateLayout is the expected form of all expense dates. Dates are stored and
// compared as plain strings, so lexicographic order matches chronological
// order only for well-formed ISO dates. The store trusts its callers here and
// performs no calendar validation.
const DateLayout = "2006-01-02"

type (
	// Expense is one recorded transaction. Subcategory and Note are always
	// plain strings: absent values are resolved to "" before they reach
	// storage, never persisted as NULL.
	Expense struct {
		ID          int64   `json:"id"`
		Date        string  `json:"date"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Subcategory string  `json:"subcategory"`
		Note        string  `json:"note"`
	}

	// CategoryTotal is one row of a summarize result: a category present in
	// the queried range and the arithmetic sum of its amounts.
	CategoryTotal struct {
		Category    string  `json:"category"`
		TotalAmount float64 `json:"total_amount"`
	}
)

var (
	ErrMissingDate     = errors.New("missing date")
	ErrMissingAmount   = errors.New("missing amount")
	ErrMissingCategory = errors.New("missing category")
	ErrNotFound        = errors.New("expense not found")
)

// ResolveOptional collapses an absent optional field to the empty string.
// This is the single place where null-vs-missing ambiguity is decided, so the
// storage layer only ever sees concrete strings.
func ResolveOptional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
