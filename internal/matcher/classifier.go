package matcher

import (
	"fmt"
	"sort"
	"strings"

	"bankbook-reconciliation-service/internal/models"

	"github.com/shopspring/decimal"
)

// Classification is the heuristic verdict for a matched-but-unequal pair.
type Classification struct {
	Suggestion string
	Confidence models.Confidence
	ErrorType  models.ErrorType
}

// Classifier infers a probable error category from the numeric pattern of a
// bank total and a book amount known to differ. Classification is a pure
// function of the two amounts.
type Classifier struct {
	config *Config
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(config *Config) *Classifier {
	if config == nil {
		config = DefaultConfig()
	}
	return &Classifier{config: config}
}

// Classify applies the heuristic rules in strict precedence order:
// transposition, then keying, then rounding, then unknown. Only the first
// matching rule applies; the order matters at boundary values.
func (c *Classifier) Classify(bankTotal, bookAmount decimal.Decimal) Classification {
	variance := bankTotal.Sub(bookAmount)
	absVariance := variance.Abs()

	if isTransposition(bankTotal, bookAmount) && absVariance.Mod(c.config.TranspositionModulus).IsZero() {
		return Classification{
			Suggestion: fmt.Sprintf("Digits appear transposed; the bank total %s is likely the correct figure", bankTotal.StringFixed(2)),
			Confidence: models.ConfidenceHigh,
			ErrorType:  models.ErrorTransposition,
		}
	}

	for _, offset := range c.config.KeyingOffsets {
		if absVariance.Sub(offset).Abs().LessThan(c.config.AmountTolerance) {
			return Classification{
				Suggestion: "Amounts differ by a round figure; likely a keying error during entry",
				Confidence: models.ConfidenceMedium,
				ErrorType:  models.ErrorKeying,
			}
		}
	}

	if absVariance.LessThan(c.config.RoundingThreshold) {
		return Classification{
			Suggestion: "Small difference; likely a rounding artifact",
			Confidence: models.ConfidenceHigh,
			ErrorType:  models.ErrorRounding,
		}
	}

	return Classification{
		Suggestion: fmt.Sprintf("Book amount does not agree with the bank total (difference %s)", variance.StringFixed(2)),
		Confidence: models.ConfidenceLow,
		ErrorType:  models.ErrorUnknown,
	}
}

// isTransposition reports whether the two amounts, rendered as fixed
// two-decimal strings with the point removed, are anagrams of each other.
func isTransposition(a, b decimal.Decimal) bool {
	return sortedDigits(a) == sortedDigits(b)
}

// sortedDigits renders an amount to two decimals, drops the decimal point,
// and sorts the remaining characters.
func sortedDigits(d decimal.Decimal) string {
	s := strings.ReplaceAll(d.StringFixed(2), ".", "")
	chars := strings.Split(s, "")
	sort.Strings(chars)
	return strings.Join(chars, "")
}
