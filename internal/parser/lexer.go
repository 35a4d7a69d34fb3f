package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// WirLexer tokenizes the textual IR form (.wir files).
var WirLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `;[^\n]*`, nil},

		// Byte-string initializers, e.g. c"Hello\00"
		{"Bytes", `c"(\\[0-9a-fA-F]{2}|[^"\\])*"`, nil},

		// Symbol references
		{"Global", `@[a-zA-Z_][a-zA-Z0-9_.]*`, nil},
		{"Local", `%[a-zA-Z_][a-zA-Z0-9_.]*`, nil},

		// Keywords and identifiers
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_.]*`, nil},

		// Integer literals
		{"Integer", `-?[0-9]+`, nil},

		// Arrow must come before punctuation so "->" is one token
		{"Arrow", `->`, nil},

		// Punctuation
		{"Punctuation", `[{}():,=]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
