// Package parser turns raw pipe-delimited sales lines into candidate records.
//
// The parser only checks structure: field count and numeric conversion.
// Business rules are applied later by the validation package, so a line can
// parse successfully and still be rejected.
package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/salesflow/internal/model"
)

// FieldCount is the number of '|' separated fields in a well-formed line.
const FieldCount = 8

// Field positions within a line.
const (
	fieldTransactionID = iota
	fieldDate
	fieldProductID
	fieldProductName
	fieldQuantity
	fieldUnitPrice
	fieldCustomerID
	fieldRegion
)

// ParseLine converts one raw line into a Candidate.
// It returns false when the line is structurally malformed.
func ParseLine(line string) (model.Candidate, bool) {
	parts := strings.Split(line, "|")
	if len(parts) != FieldCount {
		return model.Candidate{}, false
	}

	quantity, err := strconv.Atoi(numericText(parts[fieldQuantity]))
	if err != nil {
		return model.Candidate{}, false
	}

	unitPrice, err := strconv.ParseFloat(numericText(parts[fieldUnitPrice]), 64)
	if err != nil || math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		return model.Candidate{}, false
	}

	return model.Candidate{
		TransactionID: parts[fieldTransactionID],
		DateText:      parts[fieldDate],
		ProductID:     parts[fieldProductID],
		ProductName:   stripCommas(parts[fieldProductName]),
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CustomerID:    parts[fieldCustomerID],
		Region:        parts[fieldRegion],
	}, true
}

// ParseLines parses every line, dropping malformed ones.
// It returns the candidates in input order and the number of discarded lines.
func ParseLines(lines []string) ([]model.Candidate, int) {
	candidates := make([]model.Candidate, 0, len(lines))
	discarded := 0

	for _, line := range lines {
		candidate, ok := ParseLine(line)
		if !ok {
			discarded++
			continue
		}
		candidates = append(candidates, candidate)
	}

	return candidates, discarded
}

func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// numericText drops thousands separators and surrounding whitespace.
func numericText(s string) string {
	return strings.TrimSpace(stripCommas(s))
}
