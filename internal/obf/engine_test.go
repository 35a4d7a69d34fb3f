package obf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warpaai/internal/ir"
)

const pipelineSource = `module demo

global @msg internal constant c"ABC\00"
global @banner external constant c"KEEP\00"

declare @puts(U32) -> U32

func @main(%x: U32) -> U32 {
entry:
  %one = const U32 1
  %r = add %x, %one
  ret %r
}
`

func TestEngineRejectsBadConfiguration(t *testing.T) {
	_, err := New(Options{BogusCount: -1, Cycles: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadConfig)

	_, err = New(Options{BogusCount: 2, Cycles: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadConfig)
}

func TestEngineSingleCycle(t *testing.T) {
	m := parseModule(t, pipelineSource)

	engine, err := New(Options{XorKey: 0xAA, BogusCount: 2, Cycles: 1, Seed: 42})
	require.NoError(t, err)

	report, err := engine.Run(m)
	require.NoError(t, err)

	assert.Equal(t, 1, report.StringsObfuscated)
	assert.Equal(t, 2, report.FakeFunctionsInserted)
	assert.Equal(t, 1, report.CyclesCompleted)
	assert.Equal(t, 0xAA, report.XorKey)
	assert.Equal(t, 2, report.BogusRequested)
	assert.True(t, report.Changed)
	assert.NotEmpty(t, report.RunID)

	// The eligible string is encrypted byte-for-byte, terminator
	// included, and the name carries the processing suffix.
	msg := m.Global("msg_obf")
	require.NotNil(t, msg)
	assert.Equal(t, []byte{0xEB, 0xE8, 0xE9, 0xAA}, msg.Init)
	assert.Nil(t, m.Global("msg"))

	// External globals are untouched by encryption and renaming.
	banner := m.Global("banner")
	require.NotNil(t, banner)
	assert.Equal(t, []byte("KEEP\x00"), banner.Init)

	// Entry points keep their names.
	assert.NotNil(t, m.Function("main"))
	assert.Len(t, m.Function("main").Blocks, 3, "main gets the dead-branch split")

	assert.NoError(t, ir.Verify(m))
}

func TestEngineCountConservation(t *testing.T) {
	m := parseModule(t, pipelineSource)

	engine, err := New(Options{XorKey: 0xAA, BogusCount: 3, Cycles: 2, Seed: 7})
	require.NoError(t, err)
	report, err := engine.Run(m)
	require.NoError(t, err)

	assert.Equal(t, 6, report.FakeFunctionsInserted, "cycles * bogusCount decoys in total")
	assert.Equal(t, 2, report.CyclesCompleted)

	names := make(map[string]bool)
	decoys := 0
	for _, fn := range m.Functions {
		if strings.HasPrefix(fn.Name, "bogus_func_") {
			decoys++
			assert.False(t, names[fn.Name], "decoy names must be pairwise distinct")
			names[fn.Name] = true
		}
	}
	assert.Equal(t, 6, decoys)
}

func TestEngineZeroBogusThreeCycles(t *testing.T) {
	m := parseModule(t, pipelineSource)

	engine, err := New(Options{XorKey: 0xAA, BogusCount: 0, Cycles: 3, Seed: 1})
	require.NoError(t, err)
	report, err := engine.Run(m)
	require.NoError(t, err)

	assert.Equal(t, 3, report.CyclesCompleted)
	assert.Equal(t, 0, report.FakeFunctionsInserted)
	for _, fn := range m.Functions {
		assert.False(t, strings.HasPrefix(fn.Name, "bogus_func_"))
	}
}

func TestEngineDeclarationOnlyModule(t *testing.T) {
	m := parseModule(t, `module bare
global @data internal c"\01\02"

declare @puts(U32) -> U32
`)

	engine, err := New(Options{XorKey: 0xAA, BogusCount: 2, Cycles: 2, Seed: 3})
	require.NoError(t, err)
	report, err := engine.Run(m)
	require.NoError(t, err)

	assert.Equal(t, 0, report.StringsObfuscated, "no constant string globals to encrypt")
	assert.Equal(t, 4, report.FakeFunctionsInserted)
	assert.Equal(t, 2, report.CyclesCompleted)

	// The declaration is not an eligible dead-branch target.
	assert.True(t, m.Function("puts").IsDeclaration())

	// The renamer still picked up the internal data object.
	assert.NotNil(t, m.Global("data_obf"))
}

func TestEngineNoChangeRun(t *testing.T) {
	m := parseModule(t, `module empty
declare @puts(U32) -> U32
`)

	engine, err := New(Options{XorKey: 0xAA, BogusCount: 0, Cycles: 1})
	require.NoError(t, err)
	report, err := engine.Run(m)
	require.NoError(t, err)

	assert.False(t, report.Changed)
	assert.Equal(t, 1, report.CyclesCompleted)
}

func TestEngineSeedReproducibility(t *testing.T) {
	decoyNames := func(seed int64) []string {
		m := parseModule(t, pipelineSource)
		engine, err := New(Options{XorKey: 0xAA, BogusCount: 3, Cycles: 2, Seed: seed})
		require.NoError(t, err)
		_, err = engine.Run(m)
		require.NoError(t, err)

		var names []string
		for _, fn := range m.Functions {
			if strings.HasPrefix(fn.Name, "bogus_func_") {
				names = append(names, fn.Name)
			}
		}
		return names
	}

	assert.Equal(t, decoyNames(123), decoyNames(123), "a fixed seed reproduces the run")
}

func TestEngineDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 170, opts.XorKey)
	assert.Equal(t, 2, opts.BogusCount)
	assert.Equal(t, 1, opts.Cycles)
	assert.NoError(t, opts.Validate())
}
