// Package reconciler orchestrates the reconciliation pipeline: ingestion,
// exact-key matching, fuzzy resolution, and statistics/report generation.
//
// The pipeline is a pure function of its two text inputs. Each stage
// consumes the prior stage's complete output; nothing runs concurrently and
// nothing persists between invocations.
package reconciler

import (
	"context"
	"fmt"
	"time"

	"bankbook-reconciliation-service/internal/matcher"
	"bankbook-reconciliation-service/internal/models"
	"bankbook-reconciliation-service/internal/parsers"
	"bankbook-reconciliation-service/internal/reporter"
	"bankbook-reconciliation-service/pkg/logger"

	"github.com/google/uuid"
)

// Config holds configuration options for the reconciliation service.
type Config struct {
	// Matching holds the threshold configuration for the engine.
	Matching *matcher.Config
}

// DefaultConfig returns a default service configuration.
func DefaultConfig() *Config {
	return &Config{
		Matching: matcher.DefaultConfig(),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Matching == nil {
		return fmt.Errorf("matching configuration is required")
	}
	return c.Matching.Validate()
}

// Service runs the complete reconciliation pipeline.
type Service struct {
	config *Config
	engine *matcher.Engine
	log    logger.Logger
}

// NewService creates a reconciliation service. A nil configuration selects
// the defaults.
func NewService(config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Service{
		config: config,
		engine: matcher.NewEngine(config.Matching),
		log:    logger.GetGlobalLogger().WithComponent("reconciler"),
	}, nil
}

// Reconcile ingests the two raw text blobs and runs the matching, fuzzy, and
// reporting stages, returning the complete result. The computation is
// synchronous; the context is only consulted between stages.
func (s *Service) Reconcile(ctx context.Context, bankCSV, bookCSV string) (*models.ReconcileResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.log.WithField("run_id", runID)

	banks, bankStats := parsers.ParseBankCSV(bankCSV)
	books, bookStats := parsers.ParseBookCSV(bookCSV)

	log.WithFields(logger.Fields{
		"bank_records":       len(banks),
		"book_records":       len(books),
		"bank_lines_skipped": bankStats.LinesSkipped,
		"book_lines_skipped": bookStats.LinesSkipped,
	}).Info("Ingestion complete")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reconciliation cancelled: %w", err)
	}

	items := s.engine.Reconcile(banks, books)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reconciliation cancelled: %w", err)
	}

	stats := reporter.ComputeStats(items, banks, books)
	report := reporter.BuildAnalysisReport(items, stats)

	result := &models.ReconcileResult{
		RunID:       runID,
		Items:       items,
		Stats:       stats,
		Report:      report,
		ProcessedAt: start,
		Duration:    time.Since(start),
	}

	log.WithFields(logger.Fields{
		"items":       len(items),
		"matched":     stats.MatchedCount,
		"flagged":     stats.FlaggedForReview(),
		"duration_ms": result.Duration.Milliseconds(),
	}).Info("Reconciliation complete")

	return result, nil
}

// GetConfiguration returns the current configuration.
func (s *Service) GetConfiguration() *Config {
	return s.config
}
