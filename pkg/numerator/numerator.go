// Package numerator provides document auto-numbering.
// Sale numbers are date-prefixed sequences (e.g. POS-20260829-0001)
// that reset daily; uniqueness is additionally enforced by a database
// constraint on the documents that carry them.
package numerator

import (
	"context"
	"fmt"
	"time"
)

// Generator generates sequential document numbers.
// The database-backed implementation lives in this package; tests use
// the in-memory one.
type Generator interface {
	// Next generates the next number for the prefix at the given
	// business date.
	Next(ctx context.Context, cfg Config, period time.Time) (string, error)
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g. "POS", "GRN")
	Prefix string

	// DateFormat is the reset-period layout embedded in the number.
	// "20060102" resets daily, "200601" monthly, "" disables the
	// date segment entirely.
	DateFormat string

	// PadWidth is the minimum sequence width (default 4).
	PadWidth int
}

// DefaultConfig returns a daily-reset configuration.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:     prefix,
		DateFormat: "20060102",
		PadWidth:   4,
	}
}

// Key returns the sequence key for the period, e.g. "POS_20260829".
// One database row per key carries the running counter.
func (c Config) Key(period time.Time) string {
	if c.DateFormat == "" {
		return c.Prefix
	}
	return fmt.Sprintf("%s_%s", c.Prefix, period.Format(c.DateFormat))
}

// Format renders the final number string.
func (c Config) Format(period time.Time, num int64) string {
	padWidth := c.PadWidth
	if padWidth == 0 {
		padWidth = 4
	}
	if c.DateFormat == "" {
		return fmt.Sprintf("%s-%0*d", c.Prefix, padWidth, num)
	}
	return fmt.Sprintf("%s-%s-%0*d", c.Prefix, period.Format(c.DateFormat), padWidth, num)
}
