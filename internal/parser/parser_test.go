package parser

import (
	"testing"

	"github.com/Veraticus/salesflow/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  model.Candidate
		valid bool
	}{
		{
			name: "well formed line",
			line: "T001|2024-01-05|P101|Widget|10|50.0|C001|North",
			want: model.Candidate{
				TransactionID: "T001",
				DateText:      "2024-01-05",
				ProductID:     "P101",
				ProductName:   "Widget",
				Quantity:      10,
				UnitPrice:     50.0,
				CustomerID:    "C001",
				Region:        "North",
			},
			valid: true,
		},
		{
			name: "thousands separators are stripped",
			line: "T002|2024-01-05|P102|Mouse,Wireless|1,200|1,916.50|C002|South",
			want: model.Candidate{
				TransactionID: "T002",
				DateText:      "2024-01-05",
				ProductID:     "P102",
				ProductName:   "MouseWireless",
				Quantity:      1200,
				UnitPrice:     1916.50,
				CustomerID:    "C002",
				Region:        "South",
			},
			valid: true,
		},
		{
			name: "business rules are not checked here",
			line: "X004|not-a-date|Q1|Thing|-2|0|Z9|",
			want: model.Candidate{
				TransactionID: "X004",
				DateText:      "not-a-date",
				ProductID:     "Q1",
				ProductName:   "Thing",
				Quantity:      -2,
				UnitPrice:     0,
				CustomerID:    "Z9",
				Region:        "",
			},
			valid: true,
		},
		{
			name: "space padded numbers are accepted",
			line: "T005|2024-01-05|P101|Widget| 10 | 50.0|C001|North",
			want: model.Candidate{
				TransactionID: "T005",
				DateText:      "2024-01-05",
				ProductID:     "P101",
				ProductName:   "Widget",
				Quantity:      10,
				UnitPrice:     50.0,
				CustomerID:    "C001",
				Region:        "North",
			},
			valid: true,
		},
		{
			name: "padded separated price",
			line: "T006|2024-01-05|P102|Mouse|2|\t1,916.50 |C002|South",
			want: model.Candidate{
				TransactionID: "T006",
				DateText:      "2024-01-05",
				ProductID:     "P102",
				ProductName:   "Mouse",
				Quantity:      2,
				UnitPrice:     1916.50,
				CustomerID:    "C002",
				Region:        "South",
			},
			valid: true,
		},
		{name: "blank quantity", line: "T001|2024-01-05|P101|Widget|   |50.0|C001|North"},
		{name: "too few fields", line: "T001|2024-01-05|P101|Widget|10|50.0|C001"},
		{name: "too many fields", line: "T001|2024-01-05|P101|Widget|10|50.0|C001|North|extra"},
		{name: "non numeric quantity", line: "T001|2024-01-05|P101|Widget|ten|50.0|C001|North"},
		{name: "fractional quantity", line: "T001|2024-01-05|P101|Widget|1.5|50.0|C001|North"},
		{name: "non numeric price", line: "T001|2024-01-05|P101|Widget|10|abc|C001|North"},
		{name: "non finite price", line: "T001|2024-01-05|P101|Widget|10|NaN|C001|North"},
		{name: "empty line", line: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseLines(t *testing.T) {
	lines := []string{
		"T001|2024-01-05|P101|Widget|10|50.0|C001|North",
		"broken line",
		"T002|2024-01-05|P102|Gadget|5|20.0|C002|South",
		"T003|2024-01-06|P101|Widget|x|50.0|C001|North",
	}

	candidates, discarded := ParseLines(lines)

	assert.Equal(t, 2, discarded)
	if assert.Len(t, candidates, 2) {
		assert.Equal(t, "T001", candidates[0].TransactionID)
		assert.Equal(t, "T002", candidates[1].TransactionID)
	}

	empty, n := ParseLines(nil)
	assert.Empty(t, empty)
	assert.Zero(t, n)
}
