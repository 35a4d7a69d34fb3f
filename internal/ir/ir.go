package ir

// This file provides the package-level entry points for the IR system.
// The IR models one already-linked module: global data objects plus
// functions made of basic blocks, close to the shape LLVM hands a
// module pass.

// PrintModule returns a pretty-printed representation of the module.
// The output is accepted back by the textual front end.
func PrintModule(m *Module) string {
	return Print(m)
}
