package ir

import (
	"fmt"
)

// IR types and structures for module transformation passes.
// The IR models a linked module as global data objects plus functions
// built from basic blocks; values are referenced by the instructions
// that use them, each value having a single defining instruction.

// Linkage classifies symbol visibility. Only internal symbols are safe
// to rename or mutate without breaking callers outside the module.
type Linkage string

const (
	LinkageInternal Linkage = "internal"
	LinkageExternal Linkage = "external"
	LinkageOther    Linkage = "other"
)

// Module represents one linked program unit. It is the single root
// passed by reference through a transformation pipeline.
type Module struct {
	Name      string
	Globals   []*Global
	Functions []*Function

	nextID int
}

// Global represents a global data object. Init is the raw initializer
// payload; a nil Init means the object has no initializer.
type Global struct {
	Name     string
	Linkage  Linkage
	Constant bool
	Init     []byte
}

// Function represents a function in the module. A function with no
// blocks is a declaration; otherwise Blocks[0] is the entry block.
type Function struct {
	Name       string
	Linkage    Linkage
	Params     []*Parameter
	ReturnType Type
	Blocks     []*BasicBlock
}

// BasicBlock represents a straight-line sequence of instructions ending
// in a single terminator. A block belongs to exactly one function;
// successors are derived from the terminator.
type BasicBlock struct {
	Label        string
	Instructions []Instruction
	Terminator   Terminator
}

// Value represents a value defined by an instruction or a parameter.
type Value struct {
	ID   int
	Name string
	Type Type
}

// Parameter represents a function parameter.
type Parameter struct {
	Name  string
	Type  Type
	Value *Value
}

// Instruction is a typed operation with operand references to values
// defined earlier in a dominating position.
type Instruction interface {
	GetID() int
	GetResult() *Value
	GetOperands() []*Value
	GetBlock() *BasicBlock
	SetBlock(b *BasicBlock)
	IsTerminator() bool
}

// Terminator ends a basic block and determines its successors.
type Terminator interface {
	Instruction
	GetSuccessors() []*BasicBlock
}

// ConstantInstruction materializes an integer constant.
type ConstantInstruction struct {
	ID     int
	Result *Value
	Block  *BasicBlock
	Value  int64
	Type   Type
}

// BinaryInstruction performs integer arithmetic ("add", "sub", "mul").
type BinaryInstruction struct {
	ID     int
	Result *Value
	Block  *BasicBlock
	Op     string
	Left   *Value
	Right  *Value
}

// CompareInstruction compares two values under a predicate
// ("eq", "ne", "lt", "le", "gt", "ge") and yields a Bool.
type CompareInstruction struct {
	ID     int
	Result *Value
	Block  *BasicBlock
	Pred   string
	Left   *Value
	Right  *Value
}

// CallInstruction calls a function in the module by name.
type CallInstruction struct {
	ID     int
	Result *Value
	Block  *BasicBlock
	Callee string
	Args   []*Value
}

// Terminators

type ReturnTerminator struct {
	ID    int
	Block *BasicBlock
	Value *Value
}

type BranchTerminator struct {
	ID         int
	Block      *BasicBlock
	Condition  *Value
	TrueBlock  *BasicBlock
	FalseBlock *BasicBlock
}

type JumpTerminator struct {
	ID     int
	Block  *BasicBlock
	Target *BasicBlock
}

// Implementation of interfaces

func (c *ConstantInstruction) GetID() int             { return c.ID }
func (c *ConstantInstruction) GetResult() *Value      { return c.Result }
func (c *ConstantInstruction) GetOperands() []*Value  { return []*Value{} }
func (c *ConstantInstruction) GetBlock() *BasicBlock  { return c.Block }
func (c *ConstantInstruction) SetBlock(b *BasicBlock) { c.Block = b }
func (c *ConstantInstruction) IsTerminator() bool     { return false }

func (b *BinaryInstruction) GetID() int             { return b.ID }
func (b *BinaryInstruction) GetResult() *Value      { return b.Result }
func (b *BinaryInstruction) GetOperands() []*Value  { return []*Value{b.Left, b.Right} }
func (b *BinaryInstruction) GetBlock() *BasicBlock  { return b.Block }
func (b *BinaryInstruction) SetBlock(bb *BasicBlock) { b.Block = bb }
func (b *BinaryInstruction) IsTerminator() bool     { return false }

func (c *CompareInstruction) GetID() int             { return c.ID }
func (c *CompareInstruction) GetResult() *Value      { return c.Result }
func (c *CompareInstruction) GetOperands() []*Value  { return []*Value{c.Left, c.Right} }
func (c *CompareInstruction) GetBlock() *BasicBlock  { return c.Block }
func (c *CompareInstruction) SetBlock(b *BasicBlock) { c.Block = b }
func (c *CompareInstruction) IsTerminator() bool     { return false }

func (c *CallInstruction) GetID() int             { return c.ID }
func (c *CallInstruction) GetResult() *Value      { return c.Result }
func (c *CallInstruction) GetOperands() []*Value  { return c.Args }
func (c *CallInstruction) GetBlock() *BasicBlock  { return c.Block }
func (c *CallInstruction) SetBlock(b *BasicBlock) { c.Block = b }
func (c *CallInstruction) IsTerminator() bool     { return false }

func (r *ReturnTerminator) GetID() int        { return r.ID }
func (r *ReturnTerminator) GetResult() *Value { return nil }
func (r *ReturnTerminator) GetOperands() []*Value {
	if r.Value != nil {
		return []*Value{r.Value}
	}
	return []*Value{}
}
func (r *ReturnTerminator) GetBlock() *BasicBlock        { return r.Block }
func (r *ReturnTerminator) SetBlock(b *BasicBlock)       { r.Block = b }
func (r *ReturnTerminator) IsTerminator() bool           { return true }
func (r *ReturnTerminator) GetSuccessors() []*BasicBlock { return []*BasicBlock{} }

func (b *BranchTerminator) GetID() int             { return b.ID }
func (b *BranchTerminator) GetResult() *Value      { return nil }
func (b *BranchTerminator) GetOperands() []*Value  { return []*Value{b.Condition} }
func (b *BranchTerminator) GetBlock() *BasicBlock  { return b.Block }
func (b *BranchTerminator) SetBlock(bb *BasicBlock) { b.Block = bb }
func (b *BranchTerminator) IsTerminator() bool     { return true }
func (b *BranchTerminator) GetSuccessors() []*BasicBlock {
	return []*BasicBlock{b.TrueBlock, b.FalseBlock}
}

func (j *JumpTerminator) GetID() int                   { return j.ID }
func (j *JumpTerminator) GetResult() *Value            { return nil }
func (j *JumpTerminator) GetOperands() []*Value        { return []*Value{} }
func (j *JumpTerminator) GetBlock() *BasicBlock        { return j.Block }
func (j *JumpTerminator) SetBlock(b *BasicBlock)       { j.Block = b }
func (j *JumpTerminator) IsTerminator() bool           { return true }
func (j *JumpTerminator) GetSuccessors() []*BasicBlock { return []*BasicBlock{j.Target} }

// Types

type Type interface {
	String() string
}

type IntType struct {
	Bits int
}

type BoolType struct{}

type VoidType struct{}

func (i *IntType) String() string  { return fmt.Sprintf("U%d", i.Bits) }
func (b *BoolType) String() string { return "Bool" }
func (v *VoidType) String() string { return "Void" }
