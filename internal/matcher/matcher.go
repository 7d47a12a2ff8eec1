// Package matcher implements the reconciliation matching engine: an
// exact-key pass with variance detection and classification, followed by a
// fuzzy resolution pass over the residual unmatched sets.
//
// The engine is synchronous and deterministic. Matching keys are normalized
// by trimming whitespace; on duplicate bank keys the last-seen record wins
// for exact matching. Match order follows book-record input order, and the
// fuzzy pass is first-candidate-wins in bank-list order, so results are a
// pure function of the two input sequences.
package matcher

import (
	"fmt"

	"bankbook-reconciliation-service/internal/models"
	"bankbook-reconciliation-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// Engine runs the full matching pipeline over two ingested record sets.
type Engine struct {
	config     *Config
	classifier *Classifier
	resolver   Resolver
	log        logger.Logger
}

// NewEngine creates a matching engine with the given configuration. A nil
// configuration selects the defaults, and the greedy resolver is used for
// the fuzzy pass.
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}

	return &Engine{
		config:     config,
		classifier: NewClassifier(config),
		resolver:   NewGreedyResolver(config),
		log:        logger.GetGlobalLogger().WithComponent("matcher"),
	}
}

// SetResolver substitutes the fuzzy resolution strategy. The default greedy
// resolver picks the first candidate within threshold rather than a globally
// optimal pairing.
func (e *Engine) SetResolver(resolver Resolver) {
	if resolver != nil {
		e.resolver = resolver
	}
}

// ExactOutcome carries the results of the exact-key pass: the emitted items
// and the residual sets handed to the fuzzy pass. Residuals are built as new
// collections; the input slices are never modified.
type ExactOutcome struct {
	Items          []*models.ReconciledItem
	UnmatchedBooks []*models.BookRecord
	UnmatchedBanks []*models.BankRecord
}

// Reconcile executes the exact pass, the fuzzy pass, and finalization,
// returning one reconciled item per terminal classification. Every book
// record appears in exactly one item; every bank record appears in exactly
// one item unless it was superseded by a duplicate matching key.
func (e *Engine) Reconcile(banks []*models.BankRecord, books []*models.BookRecord) []*models.ReconciledItem {
	exact := e.MatchExact(banks, books)

	fuzzy := e.resolver.Resolve(exact.UnmatchedBooks, exact.UnmatchedBanks)

	items := make([]*models.ReconciledItem, 0,
		len(exact.Items)+len(fuzzy.Items)+len(fuzzy.ResidualBooks)+len(exact.UnmatchedBanks))
	items = append(items, exact.Items...)
	items = append(items, fuzzy.Items...)

	for _, book := range fuzzy.ResidualBooks {
		items = append(items, &models.ReconciledItem{
			ID:         fmt.Sprintf("missing-bank-%s", book.DocumentNo),
			Status:     models.StatusUnmatchedBook,
			BookRecord: book,
			Notes:      "No bank statement entry found",
			ErrorType:  models.ErrorMissing,
		})
	}

	for _, bank := range exact.UnmatchedBanks {
		if fuzzy.ConsumedKeys[bank.MatchingKey()] {
			continue
		}
		items = append(items, &models.ReconciledItem{
			ID:         fmt.Sprintf("missing-book-%s", bank.InvoiceNumber),
			Status:     models.StatusUnmatchedBank,
			BankRecord: bank,
			Notes:      "No book entry found",
			ErrorType:  models.ErrorMissing,
		})
	}

	e.log.WithFields(logger.Fields{
		"bank_records": len(banks),
		"book_records": len(books),
		"items":        len(items),
	}).Debug("Reconciliation passes complete")

	return items
}

// MatchExact indexes bank records by normalized matching key (last-seen wins
// on duplicates) and performs a single pass over book records in input
// order, splitting outcomes into matched/variance items and the two residual
// sets.
func (e *Engine) MatchExact(banks []*models.BankRecord, books []*models.BookRecord) *ExactOutcome {
	index := make(map[string]*models.BankRecord, len(banks))
	for _, bank := range banks {
		index[bank.MatchingKey()] = bank
	}

	outcome := &ExactOutcome{}
	consumed := make(map[string]bool)

	for _, book := range books {
		bank, found := index[book.MatchingKey()]
		if !found {
			outcome.UnmatchedBooks = append(outcome.UnmatchedBooks, book)
			continue
		}

		consumed[bank.MatchingKey()] = true
		variance := bank.TotalAmount.Sub(book.Amount)

		if variance.Abs().LessThan(e.config.AmountTolerance) {
			outcome.Items = append(outcome.Items, &models.ReconciledItem{
				ID:             fmt.Sprintf("match-%s", book.DocumentNo),
				Status:         models.StatusMatched,
				BankRecord:     bank,
				BookRecord:     book,
				VarianceAmount: decimal.Zero,
				Notes:          "Amounts agree in full",
			})
			continue
		}

		classification := e.classifier.Classify(bank.TotalAmount, book.Amount)
		outcome.Items = append(outcome.Items, &models.ReconciledItem{
			ID:             fmt.Sprintf("var-%s", book.DocumentNo),
			Status:         models.StatusVariance,
			BankRecord:     bank,
			BookRecord:     book,
			VarianceAmount: variance,
			Notes:          "Matching key agrees but the amounts differ",
			Suggestion:     classification.Suggestion,
			Confidence:     classification.Confidence,
			ErrorType:      classification.ErrorType,
		})
	}

	for _, bank := range banks {
		if !consumed[bank.MatchingKey()] {
			outcome.UnmatchedBanks = append(outcome.UnmatchedBanks, bank)
		}
	}

	return outcome
}
