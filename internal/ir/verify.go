package ir

import (
	"fmt"
)

// Verify checks the structural well-formedness of a module. It is run
// after control-flow edits so a bad rewire is caught immediately
// instead of surfacing as misbehavior downstream.
//
// Checks per defined function:
//   - the function has an entry block
//   - every block ends in a terminator
//   - branch and jump targets are blocks of the same function
//   - every block is reachable from the entry block
//   - global names are unique module-wide
func Verify(m *Module) error {
	seen := make(map[string]bool)
	for _, g := range m.Globals {
		if seen[g.Name] {
			return fmt.Errorf("duplicate global name %q", g.Name)
		}
		seen[g.Name] = true
	}

	for _, fn := range m.Functions {
		if fn.IsDeclaration() {
			continue
		}
		if err := verifyFunction(fn); err != nil {
			return fmt.Errorf("function @%s: %w", fn.Name, err)
		}
	}
	return nil
}

func verifyFunction(fn *Function) error {
	owned := make(map[*BasicBlock]bool, len(fn.Blocks))
	for _, block := range fn.Blocks {
		owned[block] = true
	}

	for _, block := range fn.Blocks {
		if block.Terminator == nil {
			return fmt.Errorf("block %q has no terminator", block.Label)
		}
		for _, succ := range block.Terminator.GetSuccessors() {
			if succ == nil {
				return fmt.Errorf("block %q has a nil successor", block.Label)
			}
			if !owned[succ] {
				return fmt.Errorf("block %q targets block %q outside the function", block.Label, succ.Label)
			}
		}
	}

	reachable := make(map[*BasicBlock]bool)
	markReachable(fn.Entry(), reachable)
	for _, block := range fn.Blocks {
		if !reachable[block] {
			return fmt.Errorf("block %q is unreachable from entry", block.Label)
		}
	}
	return nil
}

func markReachable(block *BasicBlock, reachable map[*BasicBlock]bool) {
	if block == nil || reachable[block] {
		return
	}
	reachable[block] = true
	if block.Terminator == nil {
		return
	}
	for _, succ := range block.Terminator.GetSuccessors() {
		markReachable(succ, reachable)
	}
}
