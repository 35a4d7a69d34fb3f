package obf

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/tliron/commonlog"

	"warpaai/internal/ir"
)

// ErrNameSpaceExhausted marks the fatal condition where a fresh decoy
// name could not be drawn within the retry bound.
var ErrNameSpaceExhausted = errors.New("decoy name space exhausted")

// maxNameRetries bounds collision retries for one decoy name. Hitting
// the bound is treated as a fatal configuration error.
const maxNameRetries = 1000

// BogusSynthesizer injects decoy functions that no real code path ever
// calls. Each decoy takes one integer, runs three rounds of
// v = (v + (round + ordinal)) * 2, and returns the result.
type BogusSynthesizer struct {
	Count int
	// Inserted accumulates across invocations.
	Inserted int

	rand *rand.Rand
	log  commonlog.Logger
}

// NewBogusSynthesizer creates the pass. The generator must be owned by
// the caller so that a fixed seed makes decoy naming reproducible.
func NewBogusSynthesizer(count int, rng *rand.Rand) *BogusSynthesizer {
	return &BogusSynthesizer{
		Count: count,
		rand:  rng,
		log:   commonlog.GetLogger("warpaai.bogus"),
	}
}

func (bs *BogusSynthesizer) Name() string {
	return "Bogus Function Insertion"
}

func (bs *BogusSynthesizer) Description() string {
	return "Synthesizes uncalled decoy functions with meaningless arithmetic bodies"
}

func (bs *BogusSynthesizer) Apply(m *ir.Module) (bool, error) {
	changed := false
	for i := 0; i < bs.Count; i++ {
		name, err := bs.freshName(m, i)
		if err != nil {
			return changed, err
		}

		m.Functions = append(m.Functions, bs.synthesize(m, name, i))
		bs.Inserted++
		changed = true
		bs.log.Infof("inserted bogus function: %s", name)
	}
	return changed, nil
}

// freshName draws ordinal+random names until one is unused in the
// module.
func (bs *BogusSynthesizer) freshName(m *ir.Module, ordinal int) (string, error) {
	for attempt := 0; attempt < maxNameRetries; attempt++ {
		name := fmt.Sprintf("%s%d_%d", decoyPrefix, ordinal, bs.rand.Intn(10000))
		if !m.HasSymbol(name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: no unused name for decoy %d after %d attempts",
		ErrNameSpaceExhausted, ordinal, maxNameRetries)
}

func (bs *BogusSynthesizer) synthesize(m *ir.Module, name string, ordinal int) *ir.Function {
	u32 := &ir.IntType{Bits: 32}
	param := &ir.Parameter{
		Name:  "x",
		Type:  u32,
		Value: &ir.Value{ID: m.NextID(), Name: "x", Type: u32},
	}
	fn := &ir.Function{
		Name:       name,
		Linkage:    ir.LinkageInternal,
		Params:     []*ir.Parameter{param},
		ReturnType: u32,
	}
	entry := &ir.BasicBlock{Label: "entry"}
	fn.Blocks = []*ir.BasicBlock{entry}

	value := param.Value
	for round := 0; round < 3; round++ {
		addend := emitConst(m, entry, u32, int64(round+ordinal))
		value = emitBinary(m, entry, "add", value, addend)
		two := emitConst(m, entry, u32, 2)
		value = emitBinary(m, entry, "mul", value, two)
	}
	entry.Terminator = &ir.ReturnTerminator{ID: m.NextID(), Block: entry, Value: value}
	return fn
}

// emitConst appends a constant materialization to the block.
func emitConst(m *ir.Module, block *ir.BasicBlock, t ir.Type, value int64) *ir.Value {
	id := m.NextID()
	result := &ir.Value{ID: id, Name: fmt.Sprintf("c%d", id), Type: t}
	block.Instructions = append(block.Instructions, &ir.ConstantInstruction{
		ID: id, Result: result, Block: block, Value: value, Type: t,
	})
	return result
}

// emitBinary appends a binary arithmetic instruction to the block.
func emitBinary(m *ir.Module, block *ir.BasicBlock, op string, left, right *ir.Value) *ir.Value {
	id := m.NextID()
	result := &ir.Value{ID: id, Name: fmt.Sprintf("t%d", id), Type: left.Type}
	block.Instructions = append(block.Instructions, &ir.BinaryInstruction{
		ID: id, Result: result, Block: block, Op: op, Left: left, Right: right,
	})
	return result
}
