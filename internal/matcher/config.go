package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Config holds the thresholds that drive matching and classification. The
// defaults reproduce the documented reconciliation contract; they are
// exposed as configuration so tests can tighten or relax individual
// heuristics.
type Config struct {
	// AmountTolerance is the maximum absolute difference for two amounts to
	// be considered equal.
	AmountTolerance decimal.Decimal

	// TranspositionModulus is the divisor a variance must be an exact
	// multiple of for the transposition heuristic to fire.
	TranspositionModulus decimal.Decimal

	// KeyingOffsets are the round figures a variance is compared against by
	// the keying-error heuristic.
	KeyingOffsets []decimal.Decimal

	// RoundingThreshold is the exclusive upper bound for a variance to be
	// attributed to rounding.
	RoundingThreshold decimal.Decimal

	// TypoMaxDistance is the maximum edit distance accepted by the
	// amount-exact fuzzy strategy.
	TypoMaxDistance int

	// KeyingMaxDistance is the maximum edit distance accepted by the
	// amount-mismatched fuzzy strategy.
	KeyingMaxDistance int
}

// DefaultConfig returns the standard reconciliation thresholds.
func DefaultConfig() *Config {
	return &Config{
		AmountTolerance:      decimal.NewFromFloat(0.01),
		TranspositionModulus: decimal.NewFromInt(9),
		KeyingOffsets: []decimal.Decimal{
			decimal.NewFromInt(1000),
			decimal.NewFromInt(100),
		},
		RoundingThreshold: decimal.NewFromInt(1),
		TypoMaxDistance:   2,
		KeyingMaxDistance: 1,
	}
}

// Validate validates the matching configuration.
func (c *Config) Validate() error {
	if c.AmountTolerance.IsNegative() || c.AmountTolerance.IsZero() {
		return fmt.Errorf("amount tolerance must be positive, got %s", c.AmountTolerance)
	}

	if c.TranspositionModulus.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("transposition modulus must be positive, got %s", c.TranspositionModulus)
	}

	if c.RoundingThreshold.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("rounding threshold must be positive, got %s", c.RoundingThreshold)
	}

	for _, offset := range c.KeyingOffsets {
		if offset.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("keying offsets must be positive, got %s", offset)
		}
	}

	if c.TypoMaxDistance < 0 {
		return fmt.Errorf("typo max distance cannot be negative, got %d", c.TypoMaxDistance)
	}

	if c.KeyingMaxDistance < 0 {
		return fmt.Errorf("keying max distance cannot be negative, got %d", c.KeyingMaxDistance)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.KeyingOffsets = make([]decimal.Decimal, len(c.KeyingOffsets))
	copy(clone.KeyingOffsets, c.KeyingOffsets)
	return &clone
}

// amountsEqual reports whether two amounts agree within the configured
// tolerance.
func (c *Config) amountsEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(c.AmountTolerance)
}
