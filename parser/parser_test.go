// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/ferrum-lang/ferrum-compiler-sub000/lexer"
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

func parseSource(t *testing.T, text string) *syntax.Tree {
	t.Helper()

	tokens, err := lexer.Scan("test.fe", text)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	tree, err := Parse(syntax.NewIDGen(), "test.fe", tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return tree
}

func TestParseHelloWorld(t *testing.T) {
	tree := parseSource(t, `use ::fe::print

pub fn main()
    print("Hello, World!")
;
`)

	if len(tree.Uses) != 1 {
		t.Fatalf("got %d uses, want 1", len(tree.Uses))
	}

	use := tree.Uses[0]

	if use.Path.Pre == nil || use.Path.Pre.Kind != token.DoubleColon {
		t.Errorf("use path should be '::' anchored")
	}

	if use.Path.Name.Lexeme != "fe" {
		t.Errorf("use path root is %q, want fe", use.Path.Name.Lexeme)
	}

	if use.Path.Next == nil || use.Path.Next.Single == nil || use.Path.Next.Single.Name.Lexeme != "print" {
		t.Fatalf("use path should end in a single 'print' leaf")
	}

	if len(tree.Decls) != 1 {
		t.Fatalf("got %d decls, want 1", len(tree.Decls))
	}

	fn, ok := tree.Decls[0].(*syntax.FnDecl)
	if !ok {
		t.Fatalf("decl is %T, want *FnDecl", tree.Decls[0])
	}

	if !fn.IsPub() || fn.Name.Lexeme != "main" || len(fn.Params) != 0 || fn.Return != nil {
		t.Errorf("unexpected fn shape: pub=%t name=%q params=%d", fn.IsPub(), fn.Name.Lexeme, len(fn.Params))
	}

	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("got %d body stmts, want 1", len(fn.Body.Stmts))
	}

	exprStmt, ok := fn.Body.Stmts[0].(*syntax.ExprStmt)
	if !ok {
		t.Fatalf("stmt is %T, want *ExprStmt", fn.Body.Stmts[0])
	}

	call, ok := exprStmt.Expr.(*syntax.CallExpr)
	if !ok {
		t.Fatalf("expr is %T, want *CallExpr", exprStmt.Expr)
	}

	if len(call.Args) != 1 {
		t.Fatalf("got %d args, want 1", len(call.Args))
	}

	if _, ok := call.Args[0].Value.(*syntax.PlainStringLiteralExpr); !ok {
		t.Errorf("arg is %T, want *PlainStringLiteralExpr", call.Args[0].Value)
	}
}

func TestParseFnSignature(t *testing.T) {
	tree := parseSource(t, `fn add(a: Int, b: Int): Int
    return a + b
;
`)

	fn := tree.Decls[0].(*syntax.FnDecl)

	var params []string
	for _, param := range fn.Params {
		params = append(params, param.Name.Lexeme+":"+param.StaticType.Path.Name.Lexeme)
	}

	if diff := deep.Equal(params, []string{"a:Int", "b:Int"}); diff != nil {
		t.Errorf("params: %v", diff)
	}

	if fn.Return == nil || fn.Return.StaticType.Path.Name.Lexeme != "Int" {
		t.Errorf("missing or wrong return type")
	}

	ret, ok := fn.Body.Stmts[0].(*syntax.ReturnStmt)
	if !ok {
		t.Fatalf("stmt is %T, want *ReturnStmt", fn.Body.Stmts[0])
	}

	bin, ok := ret.Value.(*syntax.BinaryExpr)
	if !ok {
		t.Fatalf("return value is %T, want *BinaryExpr", ret.Value)
	}

	if bin.Op != syntax.BinaryAdd {
		t.Errorf("got op %d, want BinaryAdd", bin.Op)
	}
}

func TestParsePrecedenceLadder(t *testing.T) {
	tree := parseSource(t, `fn f()
    const x = 1 + 2 * 3 < 4 and 5 > 6 or not true
;
`)

	varDecl := tree.Decls[0].(*syntax.FnDecl).Body.Stmts[0].(*syntax.VarDeclStmt)

	// Top of the tree must be `or`.
	or, ok := varDecl.Value.Value.(*syntax.BinaryExpr)
	if !ok || or.Op != syntax.BinaryOr {
		t.Fatalf("top is %T, want or-expression", varDecl.Value.Value)
	}

	and, ok := or.Lhs.(*syntax.BinaryExpr)
	if !ok || and.Op != syntax.BinaryAnd {
		t.Fatalf("or lhs is not an and-expression")
	}

	less, ok := and.Lhs.(*syntax.BinaryExpr)
	if !ok || less.Op != syntax.BinaryLess {
		t.Fatalf("and lhs is not a comparison")
	}

	add, ok := less.Lhs.(*syntax.BinaryExpr)
	if !ok || add.Op != syntax.BinaryAdd {
		t.Fatalf("comparison lhs is not an addition")
	}

	mul, ok := add.Rhs.(*syntax.BinaryExpr)
	if !ok || mul.Op != syntax.BinaryMultiply {
		t.Fatalf("addition rhs is not a multiplication")
	}

	if _, ok := or.Rhs.(*syntax.UnaryExpr); !ok {
		t.Fatalf("or rhs is %T, want unary not", or.Rhs)
	}
}

func TestParseStructAndConstruct(t *testing.T) {
	tree := parseSource(t, `pub struct Point { pub x: Int, pub y: Int }

pub fn main()
    const p = Point { x: 3, y: 4 }
    print("{p.x},{p.y}")
;
`)

	st, ok := tree.Decls[0].(*syntax.StructDecl)
	if !ok {
		t.Fatalf("decl 0 is %T, want *StructDecl", tree.Decls[0])
	}

	var fields []string
	for _, field := range st.Fields {
		pub := ""
		if field.PubToken != nil {
			pub = "pub "
		}

		fields = append(fields, pub+field.Name.Lexeme+":"+field.StaticType.Path.Name.Lexeme)
	}

	if diff := deep.Equal(fields, []string{"pub x:Int", "pub y:Int"}); diff != nil {
		t.Errorf("fields: %v", diff)
	}

	fn := tree.Decls[1].(*syntax.FnDecl)

	varDecl := fn.Body.Stmts[0].(*syntax.VarDeclStmt)

	construct, ok := varDecl.Value.Value.(*syntax.ConstructExpr)
	if !ok {
		t.Fatalf("value is %T, want *ConstructExpr", varDecl.Value.Value)
	}

	if len(construct.Fields) != 2 || construct.Fields[0].Name.Lexeme != "x" || construct.Fields[1].Name.Lexeme != "y" {
		t.Errorf("unexpected construct fields")
	}

	// The fmt string interpolates two get-expressions.
	call := fn.Body.Stmts[1].(*syntax.ExprStmt).Expr.(*syntax.CallExpr)

	fmtStr, ok := call.Args[0].Value.(*syntax.FmtStringLiteralExpr)
	if !ok {
		t.Fatalf("arg is %T, want *FmtStringLiteralExpr", call.Args[0].Value)
	}

	if len(fmtStr.Rest) != 2 {
		t.Fatalf("got %d fmt parts, want 2", len(fmtStr.Rest))
	}

	for i, part := range fmtStr.Rest {
		if _, ok := part.Expr.(*syntax.GetExpr); !ok {
			t.Errorf("part %d is %T, want *GetExpr", i, part.Expr)
		}
	}
}

func TestParseLoopExprWithInlineIf(t *testing.T) {
	tree := parseSource(t, `pub fn main()
    mut i = 0
    const sum = loop
        if i > 10 then break i
        i += 1
    ;
    print("{sum}")
;
`)

	fn := tree.Decls[0].(*syntax.FnDecl)

	if len(fn.Body.Stmts) != 3 {
		t.Fatalf("got %d stmts, want 3", len(fn.Body.Stmts))
	}

	sumDecl := fn.Body.Stmts[1].(*syntax.VarDeclStmt)

	loop, ok := sumDecl.Value.Value.(*syntax.LoopExpr)
	if !ok {
		t.Fatalf("sum value is %T, want *LoopExpr", sumDecl.Value.Value)
	}

	if len(loop.Block.Stmts) != 2 {
		t.Fatalf("got %d loop stmts, want 2", len(loop.Block.Stmts))
	}

	ifStmt, ok := loop.Block.Stmts[0].(*syntax.IfStmt)
	if !ok {
		t.Fatalf("loop stmt 0 is %T, want *IfStmt", loop.Block.Stmts[0])
	}

	breakStmt, ok := ifStmt.InlineThen.(*syntax.BreakStmt)
	if !ok {
		t.Fatalf("inline then is %T, want *BreakStmt", ifStmt.InlineThen)
	}

	if breakStmt.Value == nil {
		t.Errorf("break should carry a value")
	}

	assign, ok := loop.Block.Stmts[1].(*syntax.AssignStmt)
	if !ok {
		t.Fatalf("loop stmt 1 is %T, want *AssignStmt", loop.Block.Stmts[1])
	}

	if assign.Op != syntax.AssignPlusEq {
		t.Errorf("got assign op %d, want AssignPlusEq", assign.Op)
	}
}

func TestParseLabelledLoop(t *testing.T) {
	tree := parseSource(t, `fn f()
    'outer loop
        break 'outer
    ;
;
`)

	loop, ok := tree.Decls[0].(*syntax.FnDecl).Body.Stmts[0].(*syntax.LoopStmt)
	if !ok {
		t.Fatalf("stmt is %T, want *LoopStmt", tree.Decls[0].(*syntax.FnDecl).Body.Stmts[0])
	}

	if syntax.LabelText(loop.Label) != "outer" {
		t.Errorf("got label %q, want outer", syntax.LabelText(loop.Label))
	}

	breakStmt := loop.Block.Stmts[0].(*syntax.BreakStmt)

	if syntax.LabelText(breakStmt.Label) != "outer" {
		t.Errorf("got break label %q, want outer", syntax.LabelText(breakStmt.Label))
	}
}

func TestParseUseManyBranch(t *testing.T) {
	tree := parseSource(t, "use ./util::{greet, farewell}\n")

	use := tree.Uses[0]

	if use.Path.Next == nil || len(use.Path.Next.Many) != 2 {
		t.Fatalf("expected a two-branch use path")
	}

	names := []string{
		use.Path.Next.Many[0].Name.Lexeme,
		use.Path.Next.Many[1].Name.Lexeme,
	}

	if diff := deep.Equal(names, []string{"greet", "farewell"}); diff != nil {
		t.Errorf("branches: %v", diff)
	}
}

func TestParsePubWithoutUseBacktracks(t *testing.T) {
	tree := parseSource(t, `pub fn main()
    return
;
`)

	if len(tree.Uses) != 0 {
		t.Fatalf("got %d uses, want 0", len(tree.Uses))
	}

	fn := tree.Decls[0].(*syntax.FnDecl)
	if !fn.IsPub() {
		t.Errorf("fn should still be pub after backtracking")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing newline terminator", "fn f()\n    const x = 1 const y = 2\n;\n"},
		{"missing close paren", "fn f(\n"},
		{"statement outside decl", "const x = 1\n"},
		{"generics reserved", "fn f<T>()\n;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lexer.Scan("test.fe", tt.text)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			if _, err := Parse(syntax.NewIDGen(), "test.fe", tokens); err == nil {
				t.Fatalf("expected a parse error")
			}
		})
	}
}

func TestNodeIDsAreUnique(t *testing.T) {
	tree := parseSource(t, `use ::fe::print

pub struct Point { pub x: Int, pub y: Int }

pub fn main()
    mut i = 0
    const sum = loop
        if i > 10 then break i
        i += 1
    ;
    print("{sum}")
;
`)

	seen := map[syntax.NodeID]bool{}

	record := func(id syntax.NodeID) {
		if seen[id] {
			t.Errorf("duplicate node id %s", id)
		}

		seen[id] = true
	}

	for _, use := range tree.Uses {
		record(use.ID)
	}

	var walkExpr func(e syntax.Expr)
	var walkStmt func(s syntax.Stmt)

	walkExpr = func(e syntax.Expr) {
		if e == nil {
			return
		}

		record(e.NodeID())

		switch e := e.(type) {
		case *syntax.FmtStringLiteralExpr:
			for _, part := range e.Rest {
				walkExpr(part.Expr)
			}
		case *syntax.CallExpr:
			walkExpr(e.Callee)
			for _, arg := range e.Args {
				walkExpr(arg.Value)
			}
		case *syntax.UnaryExpr:
			walkExpr(e.Value)
		case *syntax.BinaryExpr:
			walkExpr(e.Lhs)
			walkExpr(e.Rhs)
		case *syntax.ConstructExpr:
			walkExpr(e.Target)
			for _, field := range e.Fields {
				walkExpr(field.Value)
			}
		case *syntax.GetExpr:
			walkExpr(e.Target)
		case *syntax.LoopExpr:
			for _, s := range e.Block.Stmts {
				walkStmt(s)
			}
		}
	}

	walkStmt = func(s syntax.Stmt) {
		record(s.NodeID())

		switch s := s.(type) {
		case *syntax.ExprStmt:
			walkExpr(s.Expr)
		case *syntax.VarDeclStmt:
			walkExpr(s.Target)
			if s.Value != nil {
				walkExpr(s.Value.Value)
			}
		case *syntax.AssignStmt:
			walkExpr(s.Target)
			walkExpr(s.Value)
		case *syntax.IfStmt:
			walkExpr(s.Condition)
			if s.InlineThen != nil {
				walkStmt(s.InlineThen)
			}
		case *syntax.BreakStmt:
			walkExpr(s.Value)
		}
	}

	for _, decl := range tree.Decls {
		record(decl.NodeID())

		if fn, ok := decl.(*syntax.FnDecl); ok {
			for _, stmt := range fn.Body.Stmts {
				walkStmt(stmt)
			}
		}
	}

	if len(seen) < 10 {
		t.Fatalf("walk visited only %d nodes, the fixture should produce more", len(seen))
	}
}
