package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"bankbook-reconciliation-service/internal/models"

	"github.com/shopspring/decimal"
)

func sampleResult() *models.ReconcileResult {
	bank := &models.BankRecord{InvoiceNumber: "INV002", TotalAmount: decimal.NewFromInt(5400)}
	book := &models.BookRecord{DocumentNo: "DOC002", Description: "INV002", Amount: decimal.NewFromInt(4500)}

	items := []*models.ReconciledItem{
		{
			ID:             "match-DOC001",
			Status:         models.StatusMatched,
			BankRecord:     &models.BankRecord{InvoiceNumber: "INV001", TotalAmount: decimal.NewFromInt(1000)},
			BookRecord:     &models.BookRecord{DocumentNo: "DOC001", Amount: decimal.NewFromInt(1000)},
			VarianceAmount: decimal.Zero,
		},
		{
			ID:             "var-DOC002",
			Status:         models.StatusVariance,
			BankRecord:     bank,
			BookRecord:     book,
			VarianceAmount: decimal.NewFromInt(900),
			Suggestion:     "Digits appear transposed",
			Confidence:     models.ConfidenceHigh,
			ErrorType:      models.ErrorTransposition,
		},
		{
			ID:         "missing-book-INV999",
			Status:     models.StatusUnmatchedBank,
			BankRecord: &models.BankRecord{InvoiceNumber: "INV999", TotalAmount: decimal.NewFromInt(777)},
			Notes:      "No book entry found",
			ErrorType:  models.ErrorMissing,
		},
	}

	banks := []*models.BankRecord{items[0].BankRecord, bank, items[2].BankRecord}
	books := []*models.BookRecord{items[0].BookRecord, book}

	stats := ComputeStats(items, banks, books)
	return &models.ReconcileResult{
		RunID:       "test-run",
		Items:       items,
		Stats:       stats,
		Report:      BuildAnalysisReport(items, stats),
		ProcessedAt: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
		Duration:    25 * time.Millisecond,
	}
}

func TestNewReportGenerator(t *testing.T) {
	if _, err := NewReportGenerator(nil); err != nil {
		t.Errorf("Expected nil config to use defaults, got %v", err)
	}

	bad := &ReportConfig{Format: OutputFormat("xml")}
	if _, err := NewReportGenerator(bad); err == nil {
		t.Error("Expected error for unsupported format")
	}

	negative := &ReportConfig{Format: FormatConsole, MaxItems: -1}
	if _, err := NewReportGenerator(negative); err == nil {
		t.Error("Expected error for negative max items")
	}
}

func TestGenerate_JSON(t *testing.T) {
	generator, err := NewReportGenerator(&ReportConfig{Format: FormatJSON})
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.Generate(sampleResult(), &buf); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Expected valid JSON output: %v", err)
	}
	if decoded["run_id"] != "test-run" {
		t.Errorf("Expected run_id test-run, got %v", decoded["run_id"])
	}
	if _, ok := decoded["report"]; !ok {
		t.Error("Expected the analysis report in JSON output")
	}
}

func TestGenerate_Console(t *testing.T) {
	generator, err := NewReportGenerator(DefaultReportConfig())
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.Generate(sampleResult(), &buf); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	output := buf.String()

	for _, expected := range []string{
		"RECONCILIATION REPORT",
		"Run ID:    test-run",
		"=== SUMMARY ===",
		"=== ANALYSIS ===",
		"=== VARIANCES (1) ===",
		"=== UNMATCHED BANK RECORDS (1) ===",
		"Digits appear transposed",
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("Expected console output to contain %q", expected)
		}
	}

	// Clean matches are hidden by default.
	if strings.Contains(output, "=== MATCHED") {
		t.Error("Expected matched section to be omitted by default")
	}
}

func TestGenerate_ConsoleIncludeMatched(t *testing.T) {
	config := DefaultReportConfig()
	config.IncludeMatched = true
	generator, err := NewReportGenerator(config)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.Generate(sampleResult(), &buf); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(buf.String(), "=== MATCHED (1) ===") {
		t.Error("Expected matched section when include-matched is set")
	}
}

func TestGenerate_ConsoleMaxItemsCap(t *testing.T) {
	config := DefaultReportConfig()
	config.MaxItems = 2
	generator, err := NewReportGenerator(config)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	items := make([]*models.ReconciledItem, 0, 5)
	for i := 0; i < 5; i++ {
		items = append(items, &models.ReconciledItem{
			Status:     models.StatusUnmatchedBank,
			BankRecord: &models.BankRecord{InvoiceNumber: "INV", TotalAmount: decimal.NewFromInt(int64(i))},
		})
	}
	result := &models.ReconcileResult{
		RunID: "cap-test",
		Items: items,
		Stats: ComputeStats(items, nil, nil),
	}

	var buf bytes.Buffer
	if err := generator.Generate(result, &buf); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(buf.String(), "... and 3 more") {
		t.Error("Expected overflow marker when the section exceeds the cap")
	}
}

func TestGenerate_NilResult(t *testing.T) {
	generator, _ := NewReportGenerator(nil)

	var buf bytes.Buffer
	if err := generator.Generate(nil, &buf); err == nil {
		t.Error("Expected error for nil result")
	}
}
