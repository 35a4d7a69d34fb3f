package obf

import (
	"errors"
	"fmt"
)

// ErrBadConfig marks configuration errors rejected before the pipeline
// runs. Match with errors.Is.
var ErrBadConfig = errors.New("bad configuration")

// Options configures one engine invocation.
type Options struct {
	// XorKey is the string encryption key; only the low byte is used.
	XorKey int
	// BogusCount is the number of decoy functions synthesized per cycle.
	BogusCount int
	// Cycles is the number of times the full pass sequence runs.
	Cycles int
	// Seed seeds the engine-local random generator used for decoy
	// naming. A fixed seed makes the whole run reproducible.
	Seed int64
}

// DefaultOptions returns the default engine configuration.
func DefaultOptions() Options {
	return Options{
		XorKey:     170,
		BogusCount: 2,
		Cycles:     1,
	}
}

// Validate rejects configurations the pipeline must never run with.
func (o Options) Validate() error {
	if o.BogusCount < 0 {
		return fmt.Errorf("%w: bogus count must be non-negative, got %d", ErrBadConfig, o.BogusCount)
	}
	if o.Cycles < 1 {
		return fmt.Errorf("%w: cycles must be positive, got %d", ErrBadConfig, o.Cycles)
	}
	return nil
}
