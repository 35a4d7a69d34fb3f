package ir

// Module-level accessors and helpers shared by the front end and the
// transformation passes.

// Global returns the global data object with the given name, or nil.
func (m *Module) Global(name string) *Global {
	for _, g := range m.Globals {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Function returns the function with the given name, or nil.
func (m *Module) Function(name string) *Function {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// HasSymbol reports whether any global or function carries the name.
func (m *Module) HasSymbol(name string) bool {
	return m.Global(name) != nil || m.Function(name) != nil
}

// NextID hands out a fresh instruction/value ID, unique within the
// module. The counter is seeded lazily from the highest ID already
// present, so passes can extend modules built elsewhere.
func (m *Module) NextID() int {
	if m.nextID == 0 {
		m.nextID = m.maxID() + 1
	}
	id := m.nextID
	m.nextID++
	return id
}

func (m *Module) maxID() int {
	max := 0
	for _, fn := range m.Functions {
		for _, block := range fn.Blocks {
			for _, inst := range block.Instructions {
				if inst.GetID() > max {
					max = inst.GetID()
				}
			}
			if block.Terminator != nil && block.Terminator.GetID() > max {
				max = block.Terminator.GetID()
			}
		}
	}
	return max
}

// HasInitializer reports whether the global carries an initializer
// payload. A zero-length payload still counts as present.
func (g *Global) HasInitializer() bool {
	return g.Init != nil
}

// IsCString reports whether the initializer payload is a
// null-terminated textual constant: exactly one NUL byte, at the end.
func (g *Global) IsCString() bool {
	if len(g.Init) == 0 || g.Init[len(g.Init)-1] != 0 {
		return false
	}
	for _, b := range g.Init[:len(g.Init)-1] {
		if b == 0 {
			return false
		}
	}
	return true
}

// CString returns the textual payload without its trailing NUL. Only
// meaningful when IsCString holds.
func (g *Global) CString() string {
	if len(g.Init) == 0 {
		return ""
	}
	return string(g.Init[:len(g.Init)-1])
}

// IsDeclaration reports whether the function has no body.
func (f *Function) IsDeclaration() bool {
	return len(f.Blocks) == 0
}

// Entry returns the designated entry block, or nil for declarations.
func (f *Function) Entry() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// Block returns the block with the given label, or nil.
func (f *Function) Block(label string) *BasicBlock {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b
		}
	}
	return nil
}
