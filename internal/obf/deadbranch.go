package obf

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"warpaai/internal/ir"
)

// DeadBranchInserter splits the entry block of one defined function per
// cycle behind an always-false conditional. The original entry
// instructions and the original terminator both move into the
// continuation block, so control falls through to the entry's original
// successors; wiring the continuation back to the entry would
// re-evaluate the guard and turn the split into an infinite loop.
type DeadBranchInserter struct {
	// Split accumulates the number of functions modified across
	// invocations.
	Split int

	log commonlog.Logger
}

// NewDeadBranchInserter creates the pass.
func NewDeadBranchInserter() *DeadBranchInserter {
	return &DeadBranchInserter{log: commonlog.GetLogger("warpaai.deadbranch")}
}

func (db *DeadBranchInserter) Name() string {
	return "Dead Branch Insertion"
}

func (db *DeadBranchInserter) Description() string {
	return "Guards one function entry with an always-false conditional into a never-taken block"
}

func (db *DeadBranchInserter) Apply(m *ir.Module) (bool, error) {
	for _, fn := range m.Functions {
		if fn.IsDeclaration() || strings.HasPrefix(fn.Name, decoyPrefix) {
			continue
		}
		entry := fn.Entry()
		if entry.Terminator == nil {
			continue
		}

		db.splitEntry(m, fn, entry)
		db.Split++
		db.log.Infof("added dead conditional to function: %s", fn.Name)

		// One function per cycle.
		return true, nil
	}
	return false, nil
}

func (db *DeadBranchInserter) splitEntry(m *ir.Module, fn *ir.Function, entry *ir.BasicBlock) {
	serial := m.NextID()

	// The continuation takes over the whole original entry body,
	// terminator included, so its successors stay exactly the entry's
	// original successors.
	cont := &ir.BasicBlock{
		Label:        fmt.Sprintf("continue_obf_%d", serial),
		Instructions: entry.Instructions,
		Terminator:   entry.Terminator,
	}
	for _, inst := range cont.Instructions {
		inst.SetBlock(cont)
	}
	cont.Terminator.SetBlock(cont)

	dead := &ir.BasicBlock{Label: fmt.Sprintf("dead_branch_obf_%d", serial)}
	dead.Terminator = &ir.JumpTerminator{ID: m.NextID(), Block: dead, Target: cont}

	// Always-false guard: 0 == 1.
	u32 := &ir.IntType{Bits: 32}
	entry.Instructions = nil
	zero := emitConst(m, entry, u32, 0)
	one := emitConst(m, entry, u32, 1)
	cond := emitCompare(m, entry, "eq", zero, one)
	entry.Terminator = &ir.BranchTerminator{
		ID: m.NextID(), Block: entry,
		Condition: cond, TrueBlock: dead, FalseBlock: cont,
	}

	fn.Blocks = append(fn.Blocks, dead, cont)
}

// emitCompare appends a comparison instruction to the block.
func emitCompare(m *ir.Module, block *ir.BasicBlock, pred string, left, right *ir.Value) *ir.Value {
	id := m.NextID()
	result := &ir.Value{ID: id, Name: fmt.Sprintf("cond%d", id), Type: &ir.BoolType{}}
	block.Instructions = append(block.Instructions, &ir.CompareInstruction{
		ID: id, Result: result, Block: block, Pred: pred, Left: left, Right: right,
	})
	return result
}
