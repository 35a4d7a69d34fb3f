package parser

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"warpaai/internal/ir"
)

var wirParser = participle.MustBuild[File](
	participle.Lexer(WirLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(3),
)

// ParseFile reads a .wir file and lowers it to an IR module.
func ParseFile(path string) (*ir.Module, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseSource(path, string(source))
}

// ParseSource parses textual IR and lowers it to an IR module. The
// filename is only used for error positions.
func ParseSource(filename, source string) (*ir.Module, error) {
	file, err := wirParser.ParseString(filename, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return lower(file)
}
