// Package model defines the records that flow through the sales pipeline.
package model

import (
	"time"
)

// DateLayout is the calendar date format used by the input log and all outputs.
const DateLayout = "2006-01-02"

// Candidate is a structurally well-formed input line that has not yet been
// checked against business rules.
type Candidate struct {
	TransactionID string
	DateText      string
	ProductID     string
	ProductName   string
	CustomerID    string
	Region        string
	UnitPrice     float64
	Quantity      int
}

// Transaction represents a single validated sales event.
// Values are immutable once produced by the validator.
type Transaction struct {
	Date          time.Time
	TransactionID string
	ProductID     string
	ProductName   string
	CustomerID    string
	Region        string
	UnitPrice     float64
	Amount        float64 // Quantity × UnitPrice, computed once during validation
	Quantity      int
}

// DateKey returns the transaction date formatted as YYYY-MM-DD.
func (t Transaction) DateKey() string {
	return t.Date.Format(DateLayout)
}

// EnrichedTransaction is a read-only copy of a Transaction augmented with
// catalog metadata. Unmatched transactions carry nil metadata and Match=false.
type EnrichedTransaction struct {
	Category *string
	Brand    *string
	Rating   *float64
	Transaction
	Match bool
}
