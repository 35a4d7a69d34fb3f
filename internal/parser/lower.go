package parser

import (
	"fmt"
	"strconv"
	"strings"

	"warpaai/internal/ir"
)

// Lowering from grammar structs to the IR module. Symbols are
// registered first so call sites can reference functions defined later
// in the file; bodies are lowered in a second pass.

func lower(file *File) (*ir.Module, error) {
	m := &ir.Module{Name: file.Name}

	// First pass: register globals and function signatures.
	var bodies []*FuncDecl
	for _, decl := range file.Decls {
		switch {
		case decl.Global != nil:
			g, err := lowerGlobal(m, decl.Global)
			if err != nil {
				return nil, err
			}
			m.Globals = append(m.Globals, g)
		case decl.Declare != nil:
			fn, err := lowerDeclare(m, decl.Declare)
			if err != nil {
				return nil, err
			}
			m.Functions = append(m.Functions, fn)
		case decl.Func != nil:
			fn, err := lowerSignature(m, decl.Func)
			if err != nil {
				return nil, err
			}
			m.Functions = append(m.Functions, fn)
			bodies = append(bodies, decl.Func)
		}
	}

	// Second pass: lower function bodies.
	for _, decl := range bodies {
		fn := m.Function(symbolName(decl.Name))
		if err := lowerBody(m, fn, decl); err != nil {
			return nil, fmt.Errorf("function @%s: %w", fn.Name, err)
		}
	}
	return m, nil
}

func lowerGlobal(m *ir.Module, decl *GlobalDecl) (*ir.Global, error) {
	name := symbolName(decl.Name)
	if m.HasSymbol(name) {
		return nil, fmt.Errorf("duplicate symbol @%s", name)
	}
	g := &ir.Global{
		Name:     name,
		Linkage:  ir.Linkage(decl.Linkage),
		Constant: decl.Constant,
	}
	if decl.Init != nil {
		data, err := decodeBytes(*decl.Init)
		if err != nil {
			return nil, fmt.Errorf("global @%s: %w", name, err)
		}
		g.Init = data
	}
	return g, nil
}

func lowerDeclare(m *ir.Module, decl *DeclareDecl) (*ir.Function, error) {
	name := symbolName(decl.Name)
	if m.HasSymbol(name) {
		return nil, fmt.Errorf("duplicate symbol @%s", name)
	}
	fn := &ir.Function{Name: name, Linkage: ir.LinkageExternal}
	for i, ref := range decl.Params {
		t, err := lowerType(ref)
		if err != nil {
			return nil, fmt.Errorf("declaration @%s: %w", name, err)
		}
		pname := fmt.Sprintf("arg%d", i)
		fn.Params = append(fn.Params, &ir.Parameter{
			Name:  pname,
			Type:  t,
			Value: &ir.Value{ID: m.NextID(), Name: pname, Type: t},
		})
	}
	ret, err := lowerType(decl.Return)
	if err != nil {
		return nil, fmt.Errorf("declaration @%s: %w", name, err)
	}
	fn.ReturnType = ret
	return fn, nil
}

func lowerSignature(m *ir.Module, decl *FuncDecl) (*ir.Function, error) {
	name := symbolName(decl.Name)
	if m.HasSymbol(name) {
		return nil, fmt.Errorf("duplicate symbol @%s", name)
	}
	linkage := ir.Linkage(decl.Linkage)
	if linkage == "" {
		linkage = ir.LinkageExternal
	}
	fn := &ir.Function{Name: name, Linkage: linkage}
	for _, p := range decl.Params {
		t, err := lowerType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("function @%s: %w", name, err)
		}
		pname := symbolName(p.Name)
		fn.Params = append(fn.Params, &ir.Parameter{
			Name:  pname,
			Type:  t,
			Value: &ir.Value{ID: m.NextID(), Name: pname, Type: t},
		})
	}
	ret, err := lowerType(decl.Return)
	if err != nil {
		return nil, fmt.Errorf("function @%s: %w", name, err)
	}
	fn.ReturnType = ret
	return fn, nil
}

func lowerBody(m *ir.Module, fn *ir.Function, decl *FuncDecl) error {
	if len(decl.Blocks) == 0 {
		return fmt.Errorf("defined function has no blocks")
	}

	blocks := make(map[string]*ir.BasicBlock)
	for _, b := range decl.Blocks {
		if blocks[b.Label] != nil {
			return fmt.Errorf("duplicate block label %q", b.Label)
		}
		block := &ir.BasicBlock{Label: b.Label}
		blocks[b.Label] = block
		fn.Blocks = append(fn.Blocks, block)
	}

	values := make(map[string]*ir.Value)
	for _, p := range fn.Params {
		values[p.Name] = p.Value
	}

	for _, b := range decl.Blocks {
		block := blocks[b.Label]
		for i, line := range b.Lines {
			terminator := line.Ret != nil || line.Br != nil || line.Jmp != nil
			if terminator && i != len(b.Lines)-1 {
				return fmt.Errorf("block %q: terminator before end of block", b.Label)
			}
			if err := lowerLine(m, fn, block, blocks, values, line); err != nil {
				return fmt.Errorf("block %q: %w", b.Label, err)
			}
		}
	}
	return nil
}

func lowerLine(m *ir.Module, fn *ir.Function, block *ir.BasicBlock,
	blocks map[string]*ir.BasicBlock, values map[string]*ir.Value, line *InstLine) error {
	switch {
	case line.Ret != nil:
		term := &ir.ReturnTerminator{ID: m.NextID(), Block: block}
		if line.Ret.Value != nil {
			v, err := resolveValue(values, *line.Ret.Value)
			if err != nil {
				return err
			}
			term.Value = v
		}
		block.Terminator = term

	case line.Br != nil:
		cond, err := resolveValue(values, line.Br.Cond)
		if err != nil {
			return err
		}
		trueBlock, falseBlock := blocks[line.Br.True], blocks[line.Br.False]
		if trueBlock == nil {
			return fmt.Errorf("unknown label %q", line.Br.True)
		}
		if falseBlock == nil {
			return fmt.Errorf("unknown label %q", line.Br.False)
		}
		block.Terminator = &ir.BranchTerminator{
			ID: m.NextID(), Block: block,
			Condition: cond, TrueBlock: trueBlock, FalseBlock: falseBlock,
		}

	case line.Jmp != nil:
		target := blocks[line.Jmp.Target]
		if target == nil {
			return fmt.Errorf("unknown label %q", line.Jmp.Target)
		}
		block.Terminator = &ir.JumpTerminator{ID: m.NextID(), Block: block, Target: target}

	case line.Assign != nil:
		return lowerAssign(m, block, values, line.Assign)
	}
	return nil
}

func lowerAssign(m *ir.Module, block *ir.BasicBlock, values map[string]*ir.Value, assign *AssignInst) error {
	name := symbolName(assign.Result)
	if values[name] != nil {
		return fmt.Errorf("value %%%s defined twice", name)
	}

	id := m.NextID()
	var inst ir.Instruction

	switch {
	case assign.Const != nil:
		t, err := lowerType(assign.Const.Type)
		if err != nil {
			return err
		}
		result := &ir.Value{ID: id, Name: name, Type: t}
		inst = &ir.ConstantInstruction{ID: id, Result: result, Block: block, Value: assign.Const.Value, Type: t}

	case assign.Binary != nil:
		left, err := resolveValue(values, assign.Binary.Left)
		if err != nil {
			return err
		}
		right, err := resolveValue(values, assign.Binary.Right)
		if err != nil {
			return err
		}
		result := &ir.Value{ID: id, Name: name, Type: left.Type}
		inst = &ir.BinaryInstruction{ID: id, Result: result, Block: block, Op: assign.Binary.Op, Left: left, Right: right}

	case assign.Compare != nil:
		left, err := resolveValue(values, assign.Compare.Left)
		if err != nil {
			return err
		}
		right, err := resolveValue(values, assign.Compare.Right)
		if err != nil {
			return err
		}
		result := &ir.Value{ID: id, Name: name, Type: &ir.BoolType{}}
		inst = &ir.CompareInstruction{ID: id, Result: result, Block: block, Pred: assign.Compare.Pred, Left: left, Right: right}

	case assign.Call != nil:
		callee := m.Function(symbolName(assign.Call.Callee))
		if callee == nil {
			return fmt.Errorf("call to unknown function %s", assign.Call.Callee)
		}
		var args []*ir.Value
		for _, a := range assign.Call.Args {
			v, err := resolveValue(values, a)
			if err != nil {
				return err
			}
			args = append(args, v)
		}
		result := &ir.Value{ID: id, Name: name, Type: callee.ReturnType}
		inst = &ir.CallInstruction{ID: id, Result: result, Block: block, Callee: callee.Name, Args: args}
	}

	values[name] = inst.GetResult()
	block.Instructions = append(block.Instructions, inst)
	return nil
}

func resolveValue(values map[string]*ir.Value, token string) (*ir.Value, error) {
	name := symbolName(token)
	v := values[name]
	if v == nil {
		return nil, fmt.Errorf("use of undefined value %%%s", name)
	}
	return v, nil
}

func lowerType(ref *TypeRef) (ir.Type, error) {
	switch {
	case ref.Name == "Bool":
		return &ir.BoolType{}, nil
	case ref.Name == "Void":
		return &ir.VoidType{}, nil
	case strings.HasPrefix(ref.Name, "U"):
		bits, err := strconv.Atoi(ref.Name[1:])
		if err == nil && bits > 0 {
			return &ir.IntType{Bits: bits}, nil
		}
	}
	return nil, fmt.Errorf("unknown type %q", ref.Name)
}

// symbolName strips the @ or % sigil from a symbol token.
func symbolName(token string) string {
	if len(token) > 0 && (token[0] == '@' || token[0] == '%') {
		return token[1:]
	}
	return token
}

// decodeBytes turns a c"..." literal into its raw byte payload.
func decodeBytes(token string) ([]byte, error) {
	if !strings.HasPrefix(token, `c"`) || !strings.HasSuffix(token, `"`) {
		return nil, fmt.Errorf("malformed byte string %s", token)
	}
	body := token[2 : len(token)-1]

	data := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] != '\\' {
			data = append(data, body[i])
			continue
		}
		if i+2 >= len(body) {
			return nil, fmt.Errorf("truncated escape in byte string %s", token)
		}
		b, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("bad escape in byte string %s: %w", token, err)
		}
		data = append(data, byte(b))
		i += 2
	}
	return data, nil
}
