// Package reporter derives aggregate statistics and the narrative analysis
// report from a reconciled item sequence, and renders complete results for
// the presentation layer.
package reporter

import (
	"fmt"

	"bankbook-reconciliation-service/internal/models"

	"github.com/shopspring/decimal"
)

// Error distribution bucket names, in emission order.
const (
	bucketTransposition = "Digit Transposition"
	bucketTypoKeying    = "Typo / Keying Error"
	bucketMissingDocs   = "Missing Documentation"
	bucketDataDelay     = "System / Data Delay"
)

// ComputeStats aggregates record counts, amount totals, and per-status
// counts over the full item sequence.
func ComputeStats(items []*models.ReconciledItem, banks []*models.BankRecord, books []*models.BookRecord) *models.ReconciliationStats {
	stats := &models.ReconciliationStats{
		TotalBank:       len(banks),
		TotalBook:       len(books),
		TotalBankAmount: decimal.Zero,
		TotalBookAmount: decimal.Zero,
	}

	for _, bank := range banks {
		stats.TotalBankAmount = stats.TotalBankAmount.Add(bank.TotalAmount)
	}
	for _, book := range books {
		stats.TotalBookAmount = stats.TotalBookAmount.Add(book.Amount)
	}

	for _, item := range items {
		switch item.Status {
		case models.StatusMatched:
			stats.MatchedCount++
		case models.StatusVariance:
			stats.VarianceCount++
		case models.StatusPotentialMatch:
			stats.PotentialMatchCount++
		case models.StatusUnmatchedBank:
			stats.UnmatchedBankCount++
		case models.StatusUnmatchedBook:
			stats.UnmatchedBookCount++
		}
	}

	return stats
}

// analysisMetrics are the derived figures the insight rules evaluate.
type analysisMetrics struct {
	stats          *models.ReconciliationStats
	matchRate      float64
	rateDefined    bool
	transpositions int
	keyingErrors   int
	typos          int
	missingDocs    int
	dataDelays     int
}

// insightRule binds a trigger condition to an insight template and an
// optional recommendation, so rule firing can be tested independently of the
// exact wording.
type insightRule struct {
	applies        func(m analysisMetrics) bool
	insight        func(m analysisMetrics) models.AnalysisInsight
	recommendation string
}

// insightRules are evaluated independently, in this fixed order; every
// applicable insight is emitted.
var insightRules = []insightRule{
	{
		applies: func(m analysisMetrics) bool { return m.rateDefined && m.matchRate > 95 },
		insight: func(m analysisMetrics) models.AnalysisInsight {
			return models.AnalysisInsight{
				Type:        models.InsightSuccess,
				Title:       "Excellent bookkeeping accuracy",
				Description: fmt.Sprintf("Matched %.1f%% of bank records, indicating a highly accurate posting process", m.matchRate),
			}
		},
	},
	{
		applies: func(m analysisMetrics) bool { return m.rateDefined && m.matchRate < 80 },
		insight: func(m analysisMetrics) models.AnalysisInsight {
			return models.AnalysisInsight{
				Type:        models.InsightCritical,
				Title:       "Bookkeeping process at risk",
				Description: fmt.Sprintf("The match rate is below 80%% (%.1f%%); review document intake and data-entry procedures urgently", m.matchRate),
			}
		},
	},
	{
		applies: func(m analysisMetrics) bool { return m.transpositions > 0 },
		insight: func(m analysisMetrics) models.AnalysisInsight {
			return models.AnalysisInsight{
				Type:        models.InsightWarning,
				Title:       "Transposed-digit entries detected",
				Description: fmt.Sprintf("%d variance(s) show the digit pattern of a transposition error; verify batch totals before posting", m.transpositions),
			}
		},
		recommendation: "Add a grand-total check of source documents before posting batches to the ledger, to catch transposed digits early",
	},
	{
		applies: func(m analysisMetrics) bool { return m.typos > 0 },
		insight: func(m analysisMetrics) models.AnalysisInsight {
			return models.AnalysisInsight{
				Type:        models.InsightInfo,
				Title:       "Mistyped invoice numbers found",
				Description: fmt.Sprintf("%d item(s) have matching amounts but a slightly mistyped document number", m.typos),
			}
		},
		recommendation: "Consider barcode scanning or OCR for invoice number entry instead of manual keying",
	},
	{
		applies: func(m analysisMetrics) bool { return m.missingDocs > 5 },
		insight: func(m analysisMetrics) models.AnalysisInsight {
			return models.AnalysisInsight{
				Type:        models.InsightWarning,
				Title:       "Large volume of undocumented bank activity",
				Description: fmt.Sprintf("%d bank statement entries have not been recorded in the ledger", m.missingDocs),
			}
		},
		recommendation: "Review the closing cycle and chase outstanding documents from the purchasing and finance teams",
	},
}

// BuildAnalysisReport derives the error-type distribution and the
// threshold-triggered narrative content from the item sequence and stats.
func BuildAnalysisReport(items []*models.ReconciledItem, stats *models.ReconciliationStats) *models.AnalysisReport {
	metrics := deriveMetrics(items, stats)

	insights := make([]models.AnalysisInsight, 0)
	recommendations := make([]string, 0)
	for _, rule := range insightRules {
		if !rule.applies(metrics) {
			continue
		}
		insights = append(insights, rule.insight(metrics))
		if rule.recommendation != "" {
			recommendations = append(recommendations, rule.recommendation)
		}
	}

	return &models.AnalysisReport{
		Summary:           buildSummary(metrics),
		Insights:          insights,
		Recommendations:   recommendations,
		ErrorDistribution: buildDistribution(metrics),
	}
}

// deriveMetrics counts the error-type populations the rules and distribution
// are built from.
func deriveMetrics(items []*models.ReconciledItem, stats *models.ReconciliationStats) analysisMetrics {
	m := analysisMetrics{
		stats:       stats,
		missingDocs: stats.UnmatchedBankCount,
		dataDelays:  stats.UnmatchedBookCount,
	}

	for _, item := range items {
		switch item.Status {
		case models.StatusVariance:
			switch item.ErrorType {
			case models.ErrorTransposition:
				m.transpositions++
			case models.ErrorKeying, models.ErrorRounding:
				m.keyingErrors++
			}
		case models.StatusPotentialMatch:
			m.typos++
		}
	}

	if stats.TotalBank > 0 {
		m.rateDefined = true
		m.matchRate = float64(stats.MatchedCount) / float64(stats.TotalBank) * 100
	}

	return m
}

// buildDistribution emits the error-type buckets in fixed order, dropping
// zero-count entries.
func buildDistribution(m analysisMetrics) []models.ErrorBucket {
	all := []models.ErrorBucket{
		{Name: bucketTransposition, Value: m.transpositions},
		{Name: bucketTypoKeying, Value: m.keyingErrors + m.typos},
		{Name: bucketMissingDocs, Value: m.missingDocs},
		{Name: bucketDataDelay, Value: m.dataDelays},
	}

	distribution := make([]models.ErrorBucket, 0, len(all))
	for _, bucket := range all {
		if bucket.Value > 0 {
			distribution = append(distribution, bucket)
		}
	}
	return distribution
}

// buildSummary states the combined record count, the flagged-for-review
// count, and the dominant root cause.
func buildSummary(m analysisMetrics) string {
	cause := "missing or incomplete documentation"
	if m.transpositions > m.keyingErrors {
		cause = "data-entry errors (transposed digits)"
	}

	return fmt.Sprintf("Analyzed %d transactions in total; %d require review. The dominant root cause is %s.",
		m.stats.TotalBank+m.stats.TotalBook, m.stats.FlaggedForReview(), cause)
}
