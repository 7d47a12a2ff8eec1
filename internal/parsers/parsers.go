// Package parsers turns raw delimited ledger text into typed records.
//
// The engine receives two already-loaded text blobs, one per ledger side, and
// performs no file I/O itself. Parsing is deliberately tolerant: quoted
// fields may contain commas, numeric fields may carry thousands separators,
// and lines with fewer than the minimum field count for their ledger type are
// dropped without surfacing an error. The column layout is fixed per ledger
// type.
package parsers

import (
	"strings"

	"bankbook-reconciliation-service/internal/models"
	"bankbook-reconciliation-service/pkg/logger"
)

const (
	// bankMinFields is the minimum column count for a bank line to be kept.
	bankMinFields = 5
	// bookMinFields is the minimum column count for a book line to be kept.
	bookMinFields = 4
)

// IngestStats records how many lines an ingestion pass saw and kept.
type IngestStats struct {
	TotalLines    int
	RecordsParsed int
	LinesSkipped  int
}

// SplitLine splits one delimited line into fields. A double quote toggles
// quoted mode, inside which commas are literal. After splitting, each field
// is stripped of a single leading and trailing quote and surrounding
// whitespace.
func SplitLine(line string) []string {
	var fields []string
	start := 0
	inQuotes := false

	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				fields = append(fields, cleanField(line[start:i]))
				start = i + 1
			}
		}
	}
	fields = append(fields, cleanField(line[start:]))

	return fields
}

// cleanField strips one leading quote, one trailing quote, and surrounding
// whitespace.
func cleanField(field string) string {
	if strings.HasPrefix(field, `"`) {
		field = field[1:]
	}
	if strings.HasSuffix(field, `"`) {
		field = field[:len(field)-1]
	}
	return strings.TrimSpace(field)
}

// splitDataLines breaks the blob into non-blank lines on any newline variant
// and drops the header row. No header validation is performed.
func splitDataLines(content string) []string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) <= 1 {
		return nil
	}
	return lines[1:]
}

// ParseBankCSV parses the bank-side statement feed. Field-to-attribute
// mapping is positional; the last column is always treated as the brand tag.
func ParseBankCSV(content string) ([]*models.BankRecord, *IngestStats) {
	log := logger.GetGlobalLogger().WithComponent("bank_parser")
	stats := &IngestStats{}

	dataLines := splitDataLines(content)
	stats.TotalLines = len(dataLines)

	var records []*models.BankRecord
	for _, line := range dataLines {
		cols := SplitLine(line)
		if len(cols) < bankMinFields {
			stats.LinesSkipped++
			continue
		}

		records = append(records, &models.BankRecord{
			AccountNo:       col(cols, 0),
			SettlementDate:  col(cols, 1),
			TransactionDate: col(cols, 2),
			Time:            col(cols, 3),
			InvoiceNumber:   col(cols, 4),
			Product:         col(cols, 5),
			Quantity:        models.ParseAmount(col(cols, 6)),
			UnitPrice:       models.ParseAmount(col(cols, 7)),
			AmountBeforeTax: models.ParseAmount(col(cols, 8)),
			Tax:             models.ParseAmount(col(cols, 9)),
			TotalAmount:     models.ParseAmount(col(cols, 10)),
			BrandTag:        cols[len(cols)-1],
			OriginalRow:     cols,
		})
	}
	stats.RecordsParsed = len(records)

	log.WithFields(logger.Fields{
		"total_lines":    stats.TotalLines,
		"records_parsed": stats.RecordsParsed,
		"lines_skipped":  stats.LinesSkipped,
	}).Debug("Parsed bank statement feed")

	return records, stats
}

// ParseBookCSV parses the internal bookkeeping feed.
func ParseBookCSV(content string) ([]*models.BookRecord, *IngestStats) {
	log := logger.GetGlobalLogger().WithComponent("book_parser")
	stats := &IngestStats{}

	dataLines := splitDataLines(content)
	stats.TotalLines = len(dataLines)

	var records []*models.BookRecord
	for _, line := range dataLines {
		cols := SplitLine(line)
		if len(cols) < bookMinFields {
			stats.LinesSkipped++
			continue
		}

		records = append(records, &models.BookRecord{
			DocumentNo:  cols[0],
			PostingDate: cols[1],
			Description: cols[2],
			Amount:      models.ParseAmount(cols[3]),
			OriginalRow: cols,
		})
	}
	stats.RecordsParsed = len(records)

	log.WithFields(logger.Fields{
		"total_lines":    stats.TotalLines,
		"records_parsed": stats.RecordsParsed,
		"lines_skipped":  stats.LinesSkipped,
	}).Debug("Parsed bookkeeping feed")

	return records, stats
}

// col returns the field at index i, or the empty string when the row is too
// short. Bank rows are only guaranteed to carry the first five columns.
func col(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}
