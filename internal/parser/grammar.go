package parser

// Participle grammar for the textual IR form. Symbol sigils (@, %) stay
// on the tokens here and are stripped during lowering.

type File struct {
	Name  string  `"module" @Ident`
	Decls []*Decl `@@*`
}

type Decl struct {
	Global  *GlobalDecl  `  @@`
	Declare *DeclareDecl `| @@`
	Func    *FuncDecl    `| @@`
}

type GlobalDecl struct {
	Name     string  `"global" @Global`
	Linkage  string  `@("internal" | "external" | "other")`
	Constant bool    `@"constant"?`
	Init     *string `@Bytes?`
}

type DeclareDecl struct {
	Name   string     `"declare" @Global`
	Params []*TypeRef `"(" ( @@ ( "," @@ )* )? ")"`
	Return *TypeRef   `"->" @@`
}

type FuncDecl struct {
	Linkage string       `"func" @("internal" | "external" | "other")?`
	Name    string       `@Global`
	Params  []*ParamDecl `"(" ( @@ ( "," @@ )* )? ")"`
	Return  *TypeRef     `"->" @@`
	Blocks  []*BlockDecl `"{" @@* "}"`
}

type ParamDecl struct {
	Name string   `@Local ":"`
	Type *TypeRef `@@`
}

type TypeRef struct {
	Name string `@Ident`
}

type BlockDecl struct {
	Label string      `@Ident ":"`
	Lines []*InstLine `@@*`
}

type InstLine struct {
	Ret    *RetInst    `  @@`
	Br     *BrInst     `| @@`
	Jmp    *JmpInst    `| @@`
	Assign *AssignInst `| @@`
}

type AssignInst struct {
	Result  string       `@Local "="`
	Const   *ConstExpr   `( @@`
	Compare *CompareExpr `| @@`
	Call    *CallExpr    `| @@`
	Binary  *BinaryExpr  `| @@ )`
}

type ConstExpr struct {
	Type  *TypeRef `"const" @@`
	Value int64    `@Integer`
}

type CompareExpr struct {
	Pred  string `"icmp" @("eq" | "ne" | "lt" | "le" | "gt" | "ge")`
	Left  string `@Local ","`
	Right string `@Local`
}

type CallExpr struct {
	Callee string   `"call" @Global`
	Args   []string `"(" ( @Local ( "," @Local )* )? ")"`
}

type BinaryExpr struct {
	Op    string `@("add" | "sub" | "mul")`
	Left  string `@Local ","`
	Right string `@Local`
}

type RetInst struct {
	Ret   bool    `@"ret"`
	Value *string `( @Local )?`
}

type BrInst struct {
	Cond  string `"br" @Local ","`
	True  string `@Ident ","`
	False string `@Ident`
}

type JmpInst struct {
	Target string `"jmp" @Ident`
}
