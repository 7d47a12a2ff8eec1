package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MatchStatus represents the terminal classification of a reconciled item.
type MatchStatus string

const (
	// StatusMatched means the matching keys agree and the amounts are equal
	// within tolerance.
	StatusMatched MatchStatus = "MATCHED"
	// StatusVariance means the matching keys agree but the amounts differ.
	StatusVariance MatchStatus = "VARIANCE"
	// StatusPotentialMatch means the pair was recovered by the fuzzy
	// resolution pass.
	StatusPotentialMatch MatchStatus = "POTENTIAL_MATCH"
	// StatusUnmatchedBank means a bank record has no book counterpart.
	StatusUnmatchedBank MatchStatus = "UNMATCHED_BANK"
	// StatusUnmatchedBook means a book record has no bank counterpart.
	StatusUnmatchedBook MatchStatus = "UNMATCHED_BOOK"
)

// String returns the string representation of MatchStatus.
func (s MatchStatus) String() string {
	return string(s)
}

// IsValid checks if the match status is one of the defined values.
func (s MatchStatus) IsValid() bool {
	switch s {
	case StatusMatched, StatusVariance, StatusPotentialMatch,
		StatusUnmatchedBank, StatusUnmatchedBook:
		return true
	default:
		return false
	}
}

// Confidence is a qualitative strength indicator attached to heuristic
// classifications and fuzzy matches.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// ErrorType tags the probable cause of a mismatch.
type ErrorType string

const (
	// ErrorTransposition marks amounts whose digits were rearranged.
	ErrorTransposition ErrorType = "TRANSPOSITION"
	// ErrorKeying marks amounts that differ by a round figure, or pairs
	// recovered with both an ID and an amount discrepancy.
	ErrorKeying ErrorType = "KEYING"
	// ErrorRounding marks sub-unit differences.
	ErrorRounding ErrorType = "ROUNDING"
	// ErrorTypo marks pairs with equal amounts and a mistyped identifier.
	ErrorTypo ErrorType = "TYPO"
	// ErrorMissing marks records with no counterpart on the other side.
	ErrorMissing ErrorType = "MISSING"
	// ErrorUnknown marks variances no heuristic could explain.
	ErrorUnknown ErrorType = "UNKNOWN"
)

// BankRecord is one line of the bank-side statement feed. Records are built
// once during ingestion and never modified afterwards.
type BankRecord struct {
	AccountNo       string          `json:"account_no"`
	SettlementDate  string          `json:"settlement_date"`
	TransactionDate string          `json:"transaction_date"`
	Time            string          `json:"time"`
	InvoiceNumber   string          `json:"invoice_number"`
	Product         string          `json:"product"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	AmountBeforeTax decimal.Decimal `json:"amount_before_tax"`
	Tax             decimal.Decimal `json:"tax"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	BrandTag        string          `json:"brand_tag"`

	// OriginalRow keeps the raw column values for traceability. They are
	// never interpreted after ingestion.
	OriginalRow []string `json:"original_row,omitempty"`
}

// MatchingKey returns the normalized key used to join against book records.
func (r *BankRecord) MatchingKey() string {
	return strings.TrimSpace(r.InvoiceNumber)
}

// String returns a string representation of the BankRecord.
func (r *BankRecord) String() string {
	return fmt.Sprintf("BankRecord{Invoice: %s, Total: %s, Account: %s}",
		r.InvoiceNumber, r.TotalAmount.StringFixed(2), r.AccountNo)
}

// BookRecord is one line of the internal bookkeeping feed. The free-text
// description doubles as the matching key.
type BookRecord struct {
	DocumentNo  string          `json:"document_no"`
	PostingDate string          `json:"posting_date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`

	OriginalRow []string `json:"original_row,omitempty"`
}

// MatchingKey returns the normalized key used to join against bank records.
func (r *BookRecord) MatchingKey() string {
	return strings.TrimSpace(r.Description)
}

// String returns a string representation of the BookRecord.
func (r *BookRecord) String() string {
	return fmt.Sprintf("BookRecord{Doc: %s, Description: %s, Amount: %s}",
		r.DocumentNo, r.Description, r.Amount.StringFixed(2))
}

// ReconciledItem is the atomic output unit of the engine. At least one of
// BankRecord and BookRecord is always present. Items are created once during
// the matching passes and never mutated afterwards.
type ReconciledItem struct {
	ID             string          `json:"id"`
	Status         MatchStatus     `json:"status"`
	BankRecord     *BankRecord     `json:"bank_record,omitempty"`
	BookRecord     *BookRecord     `json:"book_record,omitempty"`
	VarianceAmount decimal.Decimal `json:"variance_amount"`
	Notes          string          `json:"notes,omitempty"`

	// Heuristic fields, present on VARIANCE and POTENTIAL_MATCH items.
	Suggestion string     `json:"suggestion,omitempty"`
	Confidence Confidence `json:"confidence,omitempty"`
	ErrorType  ErrorType  `json:"error_type,omitempty"`
}

// Validate checks the structural invariants of the item.
func (i *ReconciledItem) Validate() error {
	if !i.Status.IsValid() {
		return fmt.Errorf("invalid match status: %s", i.Status)
	}

	if i.BankRecord == nil && i.BookRecord == nil {
		return fmt.Errorf("reconciled item must reference at least one record")
	}

	return nil
}

// ReconciliationStats is the derived aggregate over a full item sequence.
type ReconciliationStats struct {
	TotalBank       int             `json:"total_bank"`
	TotalBook       int             `json:"total_book"`
	TotalBankAmount decimal.Decimal `json:"total_bank_amount"`
	TotalBookAmount decimal.Decimal `json:"total_book_amount"`

	MatchedCount        int `json:"matched_count"`
	VarianceCount       int `json:"variance_count"`
	PotentialMatchCount int `json:"potential_match_count"`
	UnmatchedBankCount  int `json:"unmatched_bank_count"`
	UnmatchedBookCount  int `json:"unmatched_book_count"`
}

// TotalItems returns the sum of all per-status counts.
func (s *ReconciliationStats) TotalItems() int {
	return s.MatchedCount + s.VarianceCount + s.PotentialMatchCount +
		s.UnmatchedBankCount + s.UnmatchedBookCount
}

// FlaggedForReview returns the number of items requiring back-office
// attention (everything that is not a clean match).
func (s *ReconciliationStats) FlaggedForReview() int {
	return s.VarianceCount + s.PotentialMatchCount +
		s.UnmatchedBankCount + s.UnmatchedBookCount
}

// InsightType tags the severity of a narrative insight.
type InsightType string

const (
	InsightSuccess  InsightType = "SUCCESS"
	InsightWarning  InsightType = "WARNING"
	InsightInfo     InsightType = "INFO"
	InsightCritical InsightType = "CRITICAL"
)

// AnalysisInsight is a single narrative finding in the analysis report.
type AnalysisInsight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// ErrorBucket is one entry of the error-type distribution.
type ErrorBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// AnalysisReport is the derived narrative consumed by the presentation layer.
type AnalysisReport struct {
	Summary           string            `json:"summary"`
	Insights          []AnalysisInsight `json:"insights"`
	Recommendations   []string          `json:"recommendations"`
	ErrorDistribution []ErrorBucket     `json:"error_distribution"`
}

// ReconcileResult is the complete engine output: the full item sequence, the
// aggregate statistics, and the narrative report.
type ReconcileResult struct {
	RunID       string               `json:"run_id"`
	Items       []*ReconciledItem    `json:"items"`
	Stats       *ReconciliationStats `json:"stats"`
	Report      *AnalysisReport      `json:"report"`
	ProcessedAt time.Time            `json:"processed_at"`
	Duration    time.Duration        `json:"duration"`
}

// ItemsByStatus returns the subset of items with the given status, in output
// order.
func (r *ReconcileResult) ItemsByStatus(status MatchStatus) []*ReconciledItem {
	var items []*ReconciledItem
	for _, item := range r.Items {
		if item.Status == status {
			items = append(items, item)
		}
	}
	return items
}

// ParseAmount converts a raw numeric field to a decimal amount. Thousands
// separators are stripped before conversion; empty or non-numeric input
// resolves to zero rather than an error, per the ingestion contract.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
