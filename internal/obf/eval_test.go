package obf

import (
	"testing"

	"warpaai/internal/ir"
)

// evalFunction interprets a function over int64 values, booleans as
// 0/1. Used to check that transformations preserve observable
// behavior.
func evalFunction(t *testing.T, fn *ir.Function, arg int64) int64 {
	t.Helper()

	env := make(map[*ir.Value]int64)
	if len(fn.Params) > 0 {
		env[fn.Params[0].Value] = arg
	}

	block := fn.Entry()
	if block == nil {
		t.Fatalf("function @%s has no entry block", fn.Name)
	}

	for steps := 0; steps < 10000; steps++ {
		for _, inst := range block.Instructions {
			switch i := inst.(type) {
			case *ir.ConstantInstruction:
				env[i.Result] = i.Value
			case *ir.BinaryInstruction:
				left, right := env[i.Left], env[i.Right]
				switch i.Op {
				case "add":
					env[i.Result] = left + right
				case "sub":
					env[i.Result] = left - right
				case "mul":
					env[i.Result] = left * right
				default:
					t.Fatalf("unsupported binary op %q", i.Op)
				}
			case *ir.CompareInstruction:
				left, right := env[i.Left], env[i.Right]
				var ok bool
				switch i.Pred {
				case "eq":
					ok = left == right
				case "ne":
					ok = left != right
				case "lt":
					ok = left < right
				case "le":
					ok = left <= right
				case "gt":
					ok = left > right
				case "ge":
					ok = left >= right
				default:
					t.Fatalf("unsupported predicate %q", i.Pred)
				}
				if ok {
					env[i.Result] = 1
				} else {
					env[i.Result] = 0
				}
			default:
				t.Fatalf("unsupported instruction %T", inst)
			}
		}

		switch term := block.Terminator.(type) {
		case *ir.ReturnTerminator:
			if term.Value != nil {
				return env[term.Value]
			}
			return 0
		case *ir.JumpTerminator:
			block = term.Target
		case *ir.BranchTerminator:
			if env[term.Condition] != 0 {
				block = term.TrueBlock
			} else {
				block = term.FalseBlock
			}
		default:
			t.Fatalf("unsupported terminator %T", block.Terminator)
		}
	}

	t.Fatalf("function @%s did not terminate", fn.Name)
	return 0
}
