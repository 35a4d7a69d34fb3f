package ir

import (
	"fmt"
	"strings"
)

// Printer provides pretty-printing for IR modules. The output uses the
// same textual form the parser package accepts, so printed modules
// round-trip.
type Printer struct {
	output strings.Builder
}

// NewPrinter creates a new IR printer
func NewPrinter() *Printer {
	return &Printer{}
}

// Print returns the string representation of an IR module
func Print(m *Module) string {
	p := NewPrinter()
	p.printModule(m)
	return p.output.String()
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printModule(m *Module) {
	p.writeLine("module %s", m.Name)

	if len(m.Globals) > 0 {
		p.writeLine("")
		for _, g := range m.Globals {
			p.printGlobal(g)
		}
	}

	for _, fn := range m.Functions {
		p.writeLine("")
		if fn.IsDeclaration() {
			p.printDeclaration(fn)
		} else {
			p.printFunction(fn)
		}
	}
}

func (p *Printer) printGlobal(g *Global) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("global @%s %s", g.Name, g.Linkage))
	if g.Constant {
		sb.WriteString(" constant")
	}
	if g.HasInitializer() {
		sb.WriteString(" ")
		sb.WriteString(formatBytes(g.Init))
	}
	p.writeLine("%s", sb.String())
}

func (p *Printer) printDeclaration(fn *Function) {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = param.Type.String()
	}
	p.writeLine("declare @%s(%s) -> %s", fn.Name, strings.Join(params, ", "), fn.ReturnType)
}

func (p *Printer) printFunction(fn *Function) {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = fmt.Sprintf("%%%s: %s", param.Name, param.Type)
	}

	linkage := ""
	if fn.Linkage != "" && fn.Linkage != LinkageExternal {
		linkage = string(fn.Linkage) + " "
	}
	p.writeLine("func %s@%s(%s) -> %s {", linkage, fn.Name, strings.Join(params, ", "), fn.ReturnType)

	for _, block := range fn.Blocks {
		p.printBlock(block)
	}
	p.writeLine("}")
}

func (p *Printer) printBlock(block *BasicBlock) {
	p.writeLine("%s:", block.Label)
	for _, inst := range block.Instructions {
		p.writeLine("  %s", p.instructionString(inst))
	}
	if block.Terminator != nil {
		p.writeLine("  %s", p.terminatorString(block.Terminator))
	}
}

func (p *Printer) instructionString(inst Instruction) string {
	switch i := inst.(type) {
	case *ConstantInstruction:
		return fmt.Sprintf("%s = const %s %d", p.valueString(i.Result), i.Type, i.Value)
	case *BinaryInstruction:
		return fmt.Sprintf("%s = %s %s, %s",
			p.valueString(i.Result), i.Op, p.valueString(i.Left), p.valueString(i.Right))
	case *CompareInstruction:
		return fmt.Sprintf("%s = icmp %s %s, %s",
			p.valueString(i.Result), i.Pred, p.valueString(i.Left), p.valueString(i.Right))
	case *CallInstruction:
		args := make([]string, len(i.Args))
		for j, arg := range i.Args {
			args[j] = p.valueString(arg)
		}
		return fmt.Sprintf("%s = call @%s(%s)",
			p.valueString(i.Result), i.Callee, strings.Join(args, ", "))
	default:
		return fmt.Sprintf("; unknown instruction %T", inst)
	}
}

func (p *Printer) terminatorString(term Terminator) string {
	switch t := term.(type) {
	case *ReturnTerminator:
		if t.Value != nil {
			return fmt.Sprintf("ret %s", p.valueString(t.Value))
		}
		return "ret"
	case *BranchTerminator:
		return fmt.Sprintf("br %s, %s, %s",
			p.valueString(t.Condition), t.TrueBlock.Label, t.FalseBlock.Label)
	case *JumpTerminator:
		return fmt.Sprintf("jmp %s", t.Target.Label)
	default:
		return fmt.Sprintf("; unknown terminator %T", term)
	}
}

func (p *Printer) valueString(v *Value) string {
	if v == nil {
		return "%<nil>"
	}
	return "%" + v.Name
}

// formatBytes renders an initializer payload as a c"..." literal with
// two-digit hex escapes for everything outside printable ASCII.
func formatBytes(data []byte) string {
	var sb strings.Builder
	sb.WriteString(`c"`)
	for _, b := range data {
		if b >= 0x20 && b < 0x7F && b != '"' && b != '\\' {
			sb.WriteByte(b)
		} else {
			sb.WriteString(fmt.Sprintf("\\%02X", b))
		}
	}
	sb.WriteString(`"`)
	return sb.String()
}
