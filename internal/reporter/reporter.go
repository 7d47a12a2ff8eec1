package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"bankbook-reconciliation-service/internal/models"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
)

// IsValid checks if the output format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for rendering.
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// IncludeMatched also lists clean matches in console output; by default
	// only flagged items are shown.
	IncludeMatched bool `json:"include_matched"`

	// MaxItems caps each console item section. Zero means no cap.
	MaxItems int `json:"max_items"`
}

// DefaultReportConfig returns a default report configuration.
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:         FormatConsole,
		IncludeMatched: false,
		MaxItems:       50,
	}
}

// Validate validates the report configuration.
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}

	if c.MaxItems < 0 {
		return fmt.Errorf("max items cannot be negative, got %d", c.MaxItems)
	}

	return nil
}

// ReportGenerator renders a reconciliation result for the presentation
// surface. It consumes engine output only and contains no matching logic.
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a report generator with the specified
// configuration.
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{config: config}, nil
}

// Generate writes the result to the provided writer in the configured
// format.
func (rg *ReportGenerator) Generate(result *models.ReconcileResult, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("reconciliation result cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsole(result, writer)
	case FormatJSON:
		return rg.generateJSON(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

func (rg *ReportGenerator) generateJSON(result *models.ReconcileResult, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func (rg *ReportGenerator) generateConsole(result *models.ReconcileResult, writer io.Writer) error {
	stats := result.Stats

	fmt.Fprintf(writer, "RECONCILIATION REPORT\n")
	fmt.Fprintf(writer, "Run ID:    %s\n", result.RunID)
	fmt.Fprintf(writer, "Generated: %s\n", result.ProcessedAt.Format(time.RFC3339))
	fmt.Fprintf(writer, "Duration:  %v\n\n", result.Duration)

	fmt.Fprintf(writer, "=== SUMMARY ===\n")
	fmt.Fprintf(writer, "Bank records:       %d (total %s)\n", stats.TotalBank, stats.TotalBankAmount.StringFixed(2))
	fmt.Fprintf(writer, "Book records:       %d (total %s)\n", stats.TotalBook, stats.TotalBookAmount.StringFixed(2))
	fmt.Fprintf(writer, "Matched:            %d\n", stats.MatchedCount)
	fmt.Fprintf(writer, "Variances:          %d\n", stats.VarianceCount)
	fmt.Fprintf(writer, "Potential matches:  %d\n", stats.PotentialMatchCount)
	fmt.Fprintf(writer, "Unmatched (bank):   %d\n", stats.UnmatchedBankCount)
	fmt.Fprintf(writer, "Unmatched (book):   %d\n\n", stats.UnmatchedBookCount)

	if report := result.Report; report != nil {
		fmt.Fprintf(writer, "=== ANALYSIS ===\n")
		fmt.Fprintf(writer, "%s\n\n", report.Summary)

		for _, insight := range report.Insights {
			fmt.Fprintf(writer, "[%s] %s\n  %s\n", insight.Type, insight.Title, insight.Description)
		}
		if len(report.Insights) > 0 {
			fmt.Fprintf(writer, "\n")
		}

		if len(report.ErrorDistribution) > 0 {
			fmt.Fprintf(writer, "Error distribution:\n")
			for _, bucket := range report.ErrorDistribution {
				fmt.Fprintf(writer, "  %-24s %d\n", bucket.Name, bucket.Value)
			}
			fmt.Fprintf(writer, "\n")
		}

		if len(report.Recommendations) > 0 {
			fmt.Fprintf(writer, "Recommendations:\n")
			for i, rec := range report.Recommendations {
				fmt.Fprintf(writer, "  %d. %s\n", i+1, rec)
			}
			fmt.Fprintf(writer, "\n")
		}
	}

	sections := []struct {
		title  string
		status models.MatchStatus
	}{
		{"VARIANCES", models.StatusVariance},
		{"POTENTIAL MATCHES", models.StatusPotentialMatch},
		{"UNMATCHED BANK RECORDS", models.StatusUnmatchedBank},
		{"UNMATCHED BOOK RECORDS", models.StatusUnmatchedBook},
	}
	if rg.config.IncludeMatched {
		sections = append([]struct {
			title  string
			status models.MatchStatus
		}{{"MATCHED", models.StatusMatched}}, sections...)
	}

	for _, section := range sections {
		items := result.ItemsByStatus(section.status)
		if len(items) == 0 {
			continue
		}

		fmt.Fprintf(writer, "=== %s (%d) ===\n", section.title, len(items))
		rg.printItems(items, writer)
		fmt.Fprintf(writer, "\n")
	}

	return nil
}

func (rg *ReportGenerator) printItems(items []*models.ReconciledItem, writer io.Writer) {
	for i, item := range items {
		if rg.config.MaxItems > 0 && i >= rg.config.MaxItems {
			fmt.Fprintf(writer, "  ... and %d more\n", len(items)-rg.config.MaxItems)
			break
		}

		fmt.Fprintf(writer, "  %d. %s\n", i+1, rg.formatItem(item))
		if item.Suggestion != "" {
			fmt.Fprintf(writer, "     %s [%s confidence]\n", item.Suggestion, item.Confidence)
		}
	}
}

func (rg *ReportGenerator) formatItem(item *models.ReconciledItem) string {
	switch {
	case item.BankRecord != nil && item.BookRecord != nil:
		return fmt.Sprintf("Bank %s (%s) / Book %s (%s), variance %s",
			item.BankRecord.InvoiceNumber, item.BankRecord.TotalAmount.StringFixed(2),
			item.BookRecord.DocumentNo, item.BookRecord.Amount.StringFixed(2),
			item.VarianceAmount.StringFixed(2))
	case item.BankRecord != nil:
		return fmt.Sprintf("Bank %s, amount %s - %s",
			item.BankRecord.InvoiceNumber, item.BankRecord.TotalAmount.StringFixed(2), item.Notes)
	default:
		return fmt.Sprintf("Book %s (%s), amount %s - %s",
			item.BookRecord.DocumentNo, item.BookRecord.Description,
			item.BookRecord.Amount.StringFixed(2), item.Notes)
	}
}
