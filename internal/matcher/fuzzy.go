package matcher

import (
	"fmt"

	"bankbook-reconciliation-service/internal/models"
	"bankbook-reconciliation-service/pkg/logger"
)

// FuzzyOutcome carries the results of the fuzzy resolution pass.
type FuzzyOutcome struct {
	// Items are the recovered POTENTIAL_MATCH items, in book-record order.
	Items []*models.ReconciledItem

	// ResidualBooks are book records neither strategy could pair.
	ResidualBooks []*models.BookRecord

	// ConsumedKeys holds the matching keys of bank records attached to a
	// potential match; those must not also be emitted as unmatched.
	ConsumedKeys map[string]bool
}

// Resolver recovers probable pairs from the residual unmatched sets that the
// exact-key pass missed due to data-entry errors. The greedy implementation
// is order-sensitive; an alternative assignment strategy can be substituted
// without touching the classification logic.
type Resolver interface {
	Resolve(unmatchedBooks []*models.BookRecord, unmatchedBanks []*models.BankRecord) *FuzzyOutcome
}

// GreedyResolver tries two ordered strategies per unmatched book record,
// first success wins, with no backtracking and no global optimum:
//
//   - Strategy A: candidates whose amount equals the book amount within
//     tolerance, accepted at edit distance <= 2 (High confidence, TYPO).
//   - Strategy B: candidates whose amount differs by more than the
//     tolerance, accepted at edit distance <= 1 (Medium confidence, KEYING).
//
// Candidates are scanned in bank-list order and already-consumed bank
// records are skipped, so a bank record backs at most one potential match.
type GreedyResolver struct {
	config *Config
	log    logger.Logger
}

// NewGreedyResolver creates the default greedy resolver.
func NewGreedyResolver(config *Config) *GreedyResolver {
	if config == nil {
		config = DefaultConfig()
	}

	return &GreedyResolver{
		config: config,
		log:    logger.GetGlobalLogger().WithComponent("fuzzy_resolver"),
	}
}

// Resolve runs both strategies over each unmatched book record in input
// order. Consumption is tracked in the returned outcome rather than by
// mutating the residual sets.
func (r *GreedyResolver) Resolve(unmatchedBooks []*models.BookRecord, unmatchedBanks []*models.BankRecord) *FuzzyOutcome {
	outcome := &FuzzyOutcome{
		ConsumedKeys: make(map[string]bool),
	}

	for _, book := range unmatchedBooks {
		bank, classification := r.resolveOne(book, unmatchedBanks, outcome.ConsumedKeys)
		if bank == nil {
			outcome.ResidualBooks = append(outcome.ResidualBooks, book)
			continue
		}

		outcome.ConsumedKeys[bank.MatchingKey()] = true
		outcome.Items = append(outcome.Items, &models.ReconciledItem{
			ID:             fmt.Sprintf("potential-%s", book.DocumentNo),
			Status:         models.StatusPotentialMatch,
			BankRecord:     bank,
			BookRecord:     book,
			VarianceAmount: bank.TotalAmount.Sub(book.Amount),
			Notes:          "Similarity detected by heuristic pass",
			Suggestion:     classification.Suggestion,
			Confidence:     classification.Confidence,
			ErrorType:      classification.ErrorType,
		})
	}

	r.log.WithFields(logger.Fields{
		"unmatched_books": len(unmatchedBooks),
		"unmatched_banks": len(unmatchedBanks),
		"recovered":       len(outcome.Items),
	}).Debug("Fuzzy resolution pass complete")

	return outcome
}

// resolveOne applies Strategy A then Strategy B for a single book record,
// returning the chosen bank record or nil.
func (r *GreedyResolver) resolveOne(book *models.BookRecord, banks []*models.BankRecord, consumed map[string]bool) (*models.BankRecord, Classification) {
	// Strategy A: amount exact, ID fuzzy.
	for _, bank := range banks {
		if consumed[bank.MatchingKey()] {
			continue
		}
		if !r.config.amountsEqual(bank.TotalAmount, book.Amount) {
			continue
		}

		if EditDistance(book.Description, bank.MatchingKey()) <= r.config.TypoMaxDistance {
			return bank, Classification{
				Suggestion: fmt.Sprintf("Amounts agree; the invoice number was likely mistyped (%s recorded as %s)",
					bank.InvoiceNumber, book.Description),
				Confidence: models.ConfidenceHigh,
				ErrorType:  models.ErrorTypo,
			}
		}
	}

	// Strategy B: ID very fuzzy, amount mismatched.
	for _, bank := range banks {
		if consumed[bank.MatchingKey()] {
			continue
		}
		if r.config.amountsEqual(bank.TotalAmount, book.Amount) {
			continue
		}

		if EditDistance(book.Description, bank.MatchingKey()) <= r.config.KeyingMaxDistance {
			return bank, Classification{
				Suggestion: fmt.Sprintf("Invoice number %s is very similar; the amount and the ID may both have been miskeyed",
					bank.InvoiceNumber),
				Confidence: models.ConfidenceMedium,
				ErrorType:  models.ErrorKeying,
			}
		}
	}

	return nil, Classification{}
}

// EditDistance computes the Levenshtein distance between two strings: the
// minimum number of single-character insertions, deletions, and
// substitutions to turn one into the other. The full dynamic-programming
// matrix is evaluated with no early termination and no case normalization.
func EditDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for j := 0; j <= len(a); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		for j := 1; j <= len(a); j++ {
			if b[i-1] == a[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = min(prev[j-1], curr[j-1], prev[j]) + 1
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}
