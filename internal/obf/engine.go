package obf

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"warpaai/internal/ir"
)

// Engine runs the obfuscation pass sequence over a module for a
// configured number of cycles. The module is exclusively owned by the
// engine for the duration of one Run; passes execute strictly
// sequentially in fixed order: encryption, decoy insertion, renaming,
// dead-branch insertion.
type Engine struct {
	opts   Options
	passes []Pass

	strings *StringEncryptor
	bogus   *BogusSynthesizer

	log commonlog.Logger
}

// New validates the configuration and builds the engine. The random
// generator used for decoy naming is engine-local and seeded from
// Options.Seed, so a fixed seed reproduces the whole run.
func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	e := &Engine{
		opts:    opts,
		strings: NewStringEncryptor(byte(opts.XorKey & 0xFF)),
		bogus:   NewBogusSynthesizer(opts.BogusCount, rng),
		log:     commonlog.GetLogger("warpaai.engine"),
	}
	e.passes = []Pass{
		e.strings,
		e.bogus,
		NewGlobalRenamer(),
		NewDeadBranchInserter(),
	}
	return e, nil
}

// Run mutates the module in place and returns the aggregated outcome
// record. A pass failure or a verifier failure aborts the run; the
// partially mutated module must not be treated as safe output in that
// case.
func (e *Engine) Run(m *ir.Module) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:          uuid.NewString(),
		Timestamp:      start,
		XorKey:         e.opts.XorKey,
		BogusRequested: e.opts.BogusCount,
	}

	e.log.Infof("starting obfuscation of module %s", m.Name)

	for cycle := 1; cycle <= e.opts.Cycles; cycle++ {
		e.log.Infof("running cycle %d/%d", cycle, e.opts.Cycles)

		for _, pass := range e.passes {
			changed, err := pass.Apply(m)
			if err != nil {
				return nil, fmt.Errorf("pass %q: %w", pass.Name(), err)
			}
			report.Changed = report.Changed || changed
		}

		if err := ir.Verify(m); err != nil {
			return nil, fmt.Errorf("module verification after cycle %d: %w", cycle, err)
		}
		report.CyclesCompleted++
	}

	report.StringsObfuscated = e.strings.Encrypted
	report.FakeFunctionsInserted = e.bogus.Inserted
	report.DurationSeconds = time.Since(start).Seconds()

	e.log.Infof("obfuscation completed: strings=%d, bogus funcs=%d, cycles=%d",
		report.StringsObfuscated, report.FakeFunctionsInserted, report.CyclesCompleted)
	return report, nil
}
