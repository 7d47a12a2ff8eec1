package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain integer", "1000", "1000"},
		{"plain decimal", "1234.56", "1234.56"},
		{"thousands separator", "1,234.56", "1234.56"},
		{"multiple separators", "1,234,567.89", "1234567.89"},
		{"surrounding whitespace", "  250.00  ", "250"},
		{"empty string", "", "0"},
		{"non-numeric", "n/a", "0"},
		{"negative amount", "-1,500.25", "-1500.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			expected, _ := decimal.NewFromString(tt.expected)
			if !got.Equal(expected) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, expected)
			}
		})
	}
}

func TestMatchStatus_IsValid(t *testing.T) {
	valid := []MatchStatus{
		StatusMatched, StatusVariance, StatusPotentialMatch,
		StatusUnmatchedBank, StatusUnmatchedBook,
	}
	for _, status := range valid {
		if !status.IsValid() {
			t.Errorf("Expected %s to be valid", status)
		}
	}

	if MatchStatus("PENDING").IsValid() {
		t.Error("Expected unknown status to be invalid")
	}
}

func TestBankRecord_MatchingKey(t *testing.T) {
	record := &BankRecord{InvoiceNumber: "  INV001  "}
	if key := record.MatchingKey(); key != "INV001" {
		t.Errorf("Expected normalized key INV001, got %q", key)
	}
}

func TestBookRecord_MatchingKey(t *testing.T) {
	record := &BookRecord{Description: " INV002 "}
	if key := record.MatchingKey(); key != "INV002" {
		t.Errorf("Expected normalized key INV002, got %q", key)
	}
}

func TestReconciledItem_Validate(t *testing.T) {
	item := &ReconciledItem{
		Status:     StatusMatched,
		BankRecord: &BankRecord{InvoiceNumber: "INV001"},
		BookRecord: &BookRecord{DocumentNo: "DOC001"},
	}
	if err := item.Validate(); err != nil {
		t.Errorf("Expected valid item, got error: %v", err)
	}

	noRecords := &ReconciledItem{Status: StatusMatched}
	if err := noRecords.Validate(); err == nil {
		t.Error("Expected error for item without records")
	}

	badStatus := &ReconciledItem{
		Status:     MatchStatus("BOGUS"),
		BankRecord: &BankRecord{},
	}
	if err := badStatus.Validate(); err == nil {
		t.Error("Expected error for invalid status")
	}
}

func TestReconciliationStats_Totals(t *testing.T) {
	stats := &ReconciliationStats{
		MatchedCount:        3,
		VarianceCount:       2,
		PotentialMatchCount: 1,
		UnmatchedBankCount:  4,
		UnmatchedBookCount:  5,
	}

	if got := stats.TotalItems(); got != 15 {
		t.Errorf("Expected 15 total items, got %d", got)
	}

	if got := stats.FlaggedForReview(); got != 12 {
		t.Errorf("Expected 12 flagged items, got %d", got)
	}
}

func TestReconcileResult_ItemsByStatus(t *testing.T) {
	result := &ReconcileResult{
		Items: []*ReconciledItem{
			{ID: "a", Status: StatusMatched, BookRecord: &BookRecord{}},
			{ID: "b", Status: StatusVariance, BookRecord: &BookRecord{}},
			{ID: "c", Status: StatusMatched, BookRecord: &BookRecord{}},
		},
	}

	matched := result.ItemsByStatus(StatusMatched)
	if len(matched) != 2 {
		t.Fatalf("Expected 2 matched items, got %d", len(matched))
	}
	if matched[0].ID != "a" || matched[1].ID != "c" {
		t.Error("Expected items in output order")
	}

	if unmatched := result.ItemsByStatus(StatusUnmatchedBank); len(unmatched) != 0 {
		t.Errorf("Expected no unmatched bank items, got %d", len(unmatched))
	}
}
