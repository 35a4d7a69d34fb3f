package obf

import (
	"warpaai/internal/ir"
)

// Pass represents a single obfuscation transformation over a module.
// Passes run strictly sequentially and never retain module state
// between invocations.
type Pass interface {
	Name() string
	Description() string
	// Apply mutates the module in place and reports whether anything
	// changed. An error aborts the whole run; no-op conditions are not
	// errors.
	Apply(m *ir.Module) (bool, error)
}

// Name suffixes marking processed globals. Objects already carrying
// either suffix are skipped by the renamer, which makes it idempotent
// across cycles.
const (
	obfSuffix = "_obf"
	encSuffix = "_enc"
)

// decoyPrefix marks synthesized decoy functions. The dead-branch
// inserter excludes decoys by this name convention.
const decoyPrefix = "bogus_func_"
