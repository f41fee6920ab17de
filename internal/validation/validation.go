// Package validation enforces business rules on parsed candidates and applies
// the optional region and amount filters.
package validation

import (
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/salesflow/internal/model"
)

// Reason identifies the first business rule a candidate failed.
type Reason string

// Rejection reasons, checked in this order.
const (
	ReasonNonPositive   Reason = "non_positive_quantity_or_price"
	ReasonTransactionID Reason = "transaction_id_prefix"
	ReasonProductID     Reason = "product_id_prefix"
	ReasonCustomerID    Reason = "customer_id_prefix"
	ReasonEmptyRegion   Reason = "empty_region"
	ReasonInvalidDate   Reason = "invalid_date"
)

// Required identifier prefixes.
const (
	TransactionPrefix = "T"
	ProductPrefix     = "P"
	CustomerPrefix    = "C"
)

// Filter holds the optional caller-supplied criteria.
// An empty Region and nil bounds disable the corresponding stage.
type Filter struct {
	MinAmount *float64
	MaxAmount *float64
	Region    string
}

// Summary reports the counters of one validate-and-filter pass.
// FilteredByAmount merges removals from the minimum and maximum bounds.
type Summary struct {
	Rejections       map[Reason]int
	TotalInput       int
	Invalid          int
	FilteredByRegion int
	FilteredByAmount int
	FinalCount       int
}

// AmountRange is the min/max Amount over the accepted set.
// Valid is false when the accepted set is empty.
type AmountRange struct {
	Min   float64
	Max   float64
	Valid bool
}

// Result is the output of ValidateAndFilter.
type Result struct {
	Accepted    []model.Transaction
	Filtered    []model.Transaction
	Regions     []string
	Summary     Summary
	AmountRange AmountRange
}

// InvalidCount returns the number of rejected candidates.
func (r Result) InvalidCount() int {
	return r.Summary.Invalid
}

// Validate converts a candidate into a Transaction, computing Amount once.
// It returns the first failed rule when the candidate is rejected.
func Validate(c model.Candidate) (model.Transaction, Reason, bool) {
	amount := float64(c.Quantity) * c.UnitPrice

	switch {
	case c.Quantity <= 0 || c.UnitPrice <= 0:
		return model.Transaction{}, ReasonNonPositive, false
	case !strings.HasPrefix(c.TransactionID, TransactionPrefix):
		return model.Transaction{}, ReasonTransactionID, false
	case !strings.HasPrefix(c.ProductID, ProductPrefix):
		return model.Transaction{}, ReasonProductID, false
	case !strings.HasPrefix(c.CustomerID, CustomerPrefix):
		return model.Transaction{}, ReasonCustomerID, false
	case c.Region == "":
		return model.Transaction{}, ReasonEmptyRegion, false
	}

	date, err := time.Parse(model.DateLayout, c.DateText)
	if err != nil {
		return model.Transaction{}, ReasonInvalidDate, false
	}

	return model.Transaction{
		TransactionID: c.TransactionID,
		Date:          date,
		ProductID:     c.ProductID,
		ProductName:   c.ProductName,
		Quantity:      c.Quantity,
		UnitPrice:     c.UnitPrice,
		CustomerID:    c.CustomerID,
		Region:        c.Region,
		Amount:        amount,
	}, "", true
}

// ValidateAndFilter rejects candidates that break business rules and then
// applies the region, minimum amount and maximum amount filters in that order.
// It never fails on bad data; rejections only show up in the summary.
func ValidateAndFilter(candidates []model.Candidate, filter Filter) Result {
	accepted := make([]model.Transaction, 0, len(candidates))
	summary := Summary{
		TotalInput: len(candidates),
		Rejections: make(map[Reason]int),
	}

	for _, c := range candidates {
		tx, reason, ok := Validate(c)
		if !ok {
			summary.Invalid++
			summary.Rejections[reason]++
			continue
		}
		accepted = append(accepted, tx)
	}

	result := Result{
		Accepted:    accepted,
		Regions:     distinctRegions(accepted),
		AmountRange: amountRange(accepted),
	}

	filtered := accepted

	if filter.Region != "" {
		before := len(filtered)
		filtered = keep(filtered, func(tx model.Transaction) bool {
			return tx.Region == filter.Region
		})
		summary.FilteredByRegion = before - len(filtered)
	}

	if filter.MinAmount != nil {
		minAmount := *filter.MinAmount
		before := len(filtered)
		filtered = keep(filtered, func(tx model.Transaction) bool {
			return tx.Amount >= minAmount
		})
		summary.FilteredByAmount += before - len(filtered)
	}

	if filter.MaxAmount != nil {
		maxAmount := *filter.MaxAmount
		before := len(filtered)
		filtered = keep(filtered, func(tx model.Transaction) bool {
			return tx.Amount <= maxAmount
		})
		summary.FilteredByAmount += before - len(filtered)
	}

	summary.FinalCount = len(filtered)
	result.Filtered = filtered
	result.Summary = summary

	return result
}

// keep returns a new slice with the transactions matching pred.
func keep(txns []model.Transaction, pred func(model.Transaction) bool) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, tx := range txns {
		if pred(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func distinctRegions(txns []model.Transaction) []string {
	seen := make(map[string]struct{})
	regions := make([]string, 0)
	for _, tx := range txns {
		if _, ok := seen[tx.Region]; ok {
			continue
		}
		seen[tx.Region] = struct{}{}
		regions = append(regions, tx.Region)
	}
	slices.Sort(regions)
	return regions
}

func amountRange(txns []model.Transaction) AmountRange {
	if len(txns) == 0 {
		return AmountRange{}
	}
	r := AmountRange{Min: txns[0].Amount, Max: txns[0].Amount, Valid: true}
	for _, tx := range txns[1:] {
		r.Min = min(r.Min, tx.Amount)
		r.Max = max(r.Max, tx.Amount)
	}
	return r
}
