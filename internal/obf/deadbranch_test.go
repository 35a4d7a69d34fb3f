package obf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warpaai/internal/ir"
	"warpaai/internal/parser"
)

const computeSource = `module demo
func @compute(%x: U32) -> U32 {
entry:
  %one = const U32 1
  %sum = add %x, %one
  %lim = const U32 10
  %big = icmp gt %sum, %lim
  br %big, over, under
over:
  %d = sub %sum, %lim
  ret %d
under:
  %m = mul %sum, %sum
  ret %m
}
`

func parseModule(t *testing.T, source string) *ir.Module {
	t.Helper()
	m, err := parser.ParseSource("test.wir", source)
	require.NoError(t, err)
	return m
}

func TestDeadBranchSplitStructure(t *testing.T) {
	m := parseModule(t, computeSource)
	fn := m.Function("compute")
	originalInstructions := fn.Entry().Instructions
	originalTerminator := fn.Entry().Terminator

	db := NewDeadBranchInserter()
	changed, err := db.Apply(m)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, db.Split)

	require.Len(t, fn.Blocks, 5, "split adds a dead block and a continuation")

	entry := fn.Entry()
	require.Len(t, entry.Instructions, 3, "guard is two constants and a compare")

	branch, ok := entry.Terminator.(*ir.BranchTerminator)
	require.True(t, ok, "entry must end in the guard branch")
	dead, cont := branch.TrueBlock, branch.FalseBlock
	assert.True(t, strings.HasPrefix(dead.Label, "dead_branch_obf"))
	assert.True(t, strings.HasPrefix(cont.Label, "continue_obf"))

	// The never-taken side only jumps into the continuation.
	require.Empty(t, dead.Instructions)
	jump, ok := dead.Terminator.(*ir.JumpTerminator)
	require.True(t, ok)
	assert.Same(t, cont, jump.Target)

	// The continuation executes exactly the original entry body and
	// keeps the original terminator, so its successors are the entry's
	// original successors, never the entry itself.
	assert.Equal(t, originalInstructions, cont.Instructions)
	assert.Same(t, originalTerminator, cont.Terminator)
	for _, succ := range cont.Terminator.GetSuccessors() {
		assert.NotSame(t, entry, succ, "continuation must not loop back to the entry")
	}
	for _, inst := range cont.Instructions {
		assert.Same(t, cont, inst.GetBlock(), "moved instructions are reparented")
	}

	assert.NoError(t, ir.Verify(m))
}

func TestDeadBranchGuardIsAlwaysFalse(t *testing.T) {
	m := parseModule(t, computeSource)
	_, err := NewDeadBranchInserter().Apply(m)
	require.NoError(t, err)

	entry := m.Function("compute").Entry()
	cmp, ok := entry.Instructions[2].(*ir.CompareInstruction)
	require.True(t, ok)
	assert.Equal(t, "eq", cmp.Pred)

	zero := entry.Instructions[0].(*ir.ConstantInstruction)
	one := entry.Instructions[1].(*ir.ConstantInstruction)
	assert.Equal(t, int64(0), zero.Value)
	assert.Equal(t, int64(1), one.Value)
}

func TestDeadBranchPreservesBehavior(t *testing.T) {
	reference := parseModule(t, computeSource)
	transformed := parseModule(t, computeSource)

	_, err := NewDeadBranchInserter().Apply(transformed)
	require.NoError(t, err)

	for _, input := range []int64{0, 3, 9, 10, 20, 100} {
		want := evalFunction(t, reference.Function("compute"), input)
		got := evalFunction(t, transformed.Function("compute"), input)
		assert.Equal(t, want, got, "input %d", input)
	}
}

func TestDeadBranchRepeatedApplicationStaysCorrect(t *testing.T) {
	reference := parseModule(t, computeSource)
	transformed := parseModule(t, computeSource)

	db := NewDeadBranchInserter()
	for i := 0; i < 3; i++ {
		changed, err := db.Apply(transformed)
		require.NoError(t, err)
		assert.True(t, changed)
		require.NoError(t, ir.Verify(transformed))
	}

	for _, input := range []int64{0, 9, 20} {
		want := evalFunction(t, reference.Function("compute"), input)
		got := evalFunction(t, transformed.Function("compute"), input)
		assert.Equal(t, want, got, "input %d", input)
	}
}

func TestDeadBranchModifiesOnlyOneFunctionPerCycle(t *testing.T) {
	source := computeSource + `
func @second(%y: U32) -> U32 {
entry:
  ret %y
}
`
	m := parseModule(t, source)
	_, err := NewDeadBranchInserter().Apply(m)
	require.NoError(t, err)

	assert.Len(t, m.Function("compute").Blocks, 5, "first eligible function is split")
	assert.Len(t, m.Function("second").Blocks, 1, "later functions are left alone")
}

func TestDeadBranchSkipsDeclarationsAndDecoys(t *testing.T) {
	m := parseModule(t, `module demo
declare @puts(U32) -> U32

func @bogus_func_0_123(%x: U32) -> U32 {
entry:
  ret %x
}
`)

	db := NewDeadBranchInserter()
	changed, err := db.Apply(m)
	require.NoError(t, err)

	assert.False(t, changed, "no eligible function means a no-op, not an error")
	assert.Equal(t, 0, db.Split)
	assert.Len(t, m.Function("bogus_func_0_123").Blocks, 1)
}
