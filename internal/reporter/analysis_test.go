package reporter

import (
	"strings"
	"testing"

	"bankbook-reconciliation-service/internal/models"

	"github.com/shopspring/decimal"
)

func varianceItem(errorType models.ErrorType) *models.ReconciledItem {
	return &models.ReconciledItem{
		Status:    models.StatusVariance,
		ErrorType: errorType,
	}
}

func statusItem(status models.MatchStatus) *models.ReconciledItem {
	return &models.ReconciledItem{Status: status}
}

func hasInsight(report *models.AnalysisReport, insightType models.InsightType) bool {
	for _, insight := range report.Insights {
		if insight.Type == insightType {
			return true
		}
	}
	return false
}

func TestComputeStats(t *testing.T) {
	banks := []*models.BankRecord{
		{InvoiceNumber: "INV001", TotalAmount: decimal.NewFromInt(1000)},
		{InvoiceNumber: "INV002", TotalAmount: decimal.NewFromInt(500)},
	}
	books := []*models.BookRecord{
		{DocumentNo: "DOC001", Amount: decimal.NewFromInt(1000)},
	}
	items := []*models.ReconciledItem{
		statusItem(models.StatusMatched),
		statusItem(models.StatusVariance),
		statusItem(models.StatusPotentialMatch),
		statusItem(models.StatusUnmatchedBank),
		statusItem(models.StatusUnmatchedBook),
		statusItem(models.StatusMatched),
	}

	stats := ComputeStats(items, banks, books)

	if stats.TotalBank != 2 || stats.TotalBook != 1 {
		t.Errorf("Expected record counts 2/1, got %d/%d", stats.TotalBank, stats.TotalBook)
	}
	if !stats.TotalBankAmount.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected bank total 1500, got %s", stats.TotalBankAmount)
	}
	if !stats.TotalBookAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected book total 1000, got %s", stats.TotalBookAmount)
	}
	if stats.MatchedCount != 2 {
		t.Errorf("Expected 2 matched, got %d", stats.MatchedCount)
	}
	if stats.VarianceCount != 1 || stats.PotentialMatchCount != 1 ||
		stats.UnmatchedBankCount != 1 || stats.UnmatchedBookCount != 1 {
		t.Errorf("Unexpected per-status counts: %+v", stats)
	}
	if stats.TotalItems() != len(items) {
		t.Errorf("Expected per-status counts to sum to %d, got %d", len(items), stats.TotalItems())
	}
}

func TestBuildAnalysisReport_MatchRateInsights(t *testing.T) {
	tests := []struct {
		name         string
		totalBank    int
		matched      int
		wantSuccess  bool
		wantCritical bool
	}{
		{"high rate", 100, 96, true, false},
		{"rate at upper threshold", 100, 95, false, false},
		{"middling rate", 100, 90, false, false},
		{"rate at lower threshold", 100, 80, false, false},
		{"low rate", 100, 50, false, true},
		{"no bank records", 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &models.ReconciliationStats{
				TotalBank:    tt.totalBank,
				MatchedCount: tt.matched,
			}
			report := BuildAnalysisReport(nil, stats)

			if got := hasInsight(report, models.InsightSuccess); got != tt.wantSuccess {
				t.Errorf("SUCCESS insight present = %v, want %v", got, tt.wantSuccess)
			}
			if got := hasInsight(report, models.InsightCritical); got != tt.wantCritical {
				t.Errorf("CRITICAL insight present = %v, want %v", got, tt.wantCritical)
			}
		})
	}
}

func TestBuildAnalysisReport_TranspositionInsight(t *testing.T) {
	items := []*models.ReconciledItem{varianceItem(models.ErrorTransposition)}
	stats := &models.ReconciliationStats{TotalBank: 1, VarianceCount: 1}

	report := BuildAnalysisReport(items, stats)

	if !hasInsight(report, models.InsightWarning) {
		t.Error("Expected a WARNING insight for transposition errors")
	}
	if len(report.Recommendations) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(report.Recommendations))
	}
	if !strings.Contains(report.Recommendations[0], "grand-total") {
		t.Errorf("Expected the batch-total recommendation, got %q", report.Recommendations[0])
	}
}

func TestBuildAnalysisReport_TypoInsight(t *testing.T) {
	items := []*models.ReconciledItem{statusItem(models.StatusPotentialMatch)}
	stats := &models.ReconciliationStats{TotalBank: 1, PotentialMatchCount: 1}

	report := BuildAnalysisReport(items, stats)

	if !hasInsight(report, models.InsightInfo) {
		t.Error("Expected an INFO insight for mistyped invoice numbers")
	}
	if len(report.Recommendations) != 1 {
		t.Errorf("Expected 1 recommendation, got %d", len(report.Recommendations))
	}
}

func TestBuildAnalysisReport_MissingDocsThreshold(t *testing.T) {
	atThreshold := &models.ReconciliationStats{TotalBank: 10, UnmatchedBankCount: 5}
	if report := BuildAnalysisReport(nil, atThreshold); hasInsight(report, models.InsightWarning) {
		t.Error("Expected no warning at exactly 5 unmatched bank records")
	}

	aboveThreshold := &models.ReconciliationStats{TotalBank: 10, UnmatchedBankCount: 6}
	report := BuildAnalysisReport(nil, aboveThreshold)
	if !hasInsight(report, models.InsightWarning) {
		t.Error("Expected a warning above 5 unmatched bank records")
	}
	if len(report.Recommendations) != 1 {
		t.Errorf("Expected 1 recommendation, got %d", len(report.Recommendations))
	}
}

func TestBuildAnalysisReport_Distribution(t *testing.T) {
	items := []*models.ReconciledItem{
		varianceItem(models.ErrorTransposition),
		varianceItem(models.ErrorKeying),
		varianceItem(models.ErrorRounding),
		statusItem(models.StatusPotentialMatch),
	}
	stats := &models.ReconciliationStats{
		TotalBank:           4,
		VarianceCount:       3,
		PotentialMatchCount: 1,
		UnmatchedBankCount:  2,
	}

	report := BuildAnalysisReport(items, stats)

	expected := map[string]int{
		"Digit Transposition":   1,
		"Typo / Keying Error":   3,
		"Missing Documentation": 2,
	}
	if len(report.ErrorDistribution) != len(expected) {
		t.Fatalf("Expected %d buckets, got %d: %v", len(expected), len(report.ErrorDistribution), report.ErrorDistribution)
	}
	for _, bucket := range report.ErrorDistribution {
		if expected[bucket.Name] != bucket.Value {
			t.Errorf("Bucket %s = %d, want %d", bucket.Name, bucket.Value, expected[bucket.Name])
		}
	}
}

func TestBuildAnalysisReport_DistributionDropsZeroBuckets(t *testing.T) {
	stats := &models.ReconciliationStats{TotalBank: 1, MatchedCount: 1}
	report := BuildAnalysisReport(nil, stats)

	if len(report.ErrorDistribution) != 0 {
		t.Errorf("Expected empty distribution for a clean run, got %v", report.ErrorDistribution)
	}
}

func TestBuildAnalysisReport_SummaryDominantCause(t *testing.T) {
	transpositionHeavy := []*models.ReconciledItem{
		varianceItem(models.ErrorTransposition),
		varianceItem(models.ErrorTransposition),
		varianceItem(models.ErrorKeying),
	}
	stats := &models.ReconciliationStats{TotalBank: 3, TotalBook: 3, VarianceCount: 3}

	report := BuildAnalysisReport(transpositionHeavy, stats)
	if !strings.Contains(report.Summary, "transposed digits") {
		t.Errorf("Expected transposition as dominant cause, got %q", report.Summary)
	}
	if !strings.Contains(report.Summary, "Analyzed 6 transactions") {
		t.Errorf("Expected combined record count in summary, got %q", report.Summary)
	}

	documentationHeavy := []*models.ReconciledItem{
		varianceItem(models.ErrorKeying),
	}
	report = BuildAnalysisReport(documentationHeavy, &models.ReconciliationStats{TotalBank: 1, VarianceCount: 1})
	if !strings.Contains(report.Summary, "missing or incomplete documentation") {
		t.Errorf("Expected documentation as dominant cause, got %q", report.Summary)
	}
}

func TestBuildAnalysisReport_CleanRunHasNoRecommendations(t *testing.T) {
	stats := &models.ReconciliationStats{TotalBank: 10, MatchedCount: 10}
	report := BuildAnalysisReport(nil, stats)

	if report.Recommendations == nil || len(report.Recommendations) != 0 {
		t.Errorf("Expected an empty recommendation list, got %v", report.Recommendations)
	}
	// Only the success insight should fire.
	if len(report.Insights) != 1 || report.Insights[0].Type != models.InsightSuccess {
		t.Errorf("Expected only the success insight, got %v", report.Insights)
	}
}
