// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package codegen prints Rust IR as textual source. Its contract is
// that IR trees shaped by the lowering become syntactically valid Rust.
package codegen

import (
	"fmt"
	"strings"

	"github.com/ferrum-lang/ferrum-compiler-sub000/ir"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

// RustCode is the generated crate source.
type RustCode struct {
	Files []RustCodeFile
}

type RustCodeFile struct {
	Path    string
	Content string
}

// RustCodeGen prints one RustIR tree.
type RustCodeGen struct {
	sb     *strings.Builder
	indent int
}

// GenerateCode prints every file of the IR.
func GenerateCode(entry *ir.RustIR) (*RustCode, error) {
	out := &RustCode{}

	for _, file := range entry.Files {
		g := &RustCodeGen{sb: &strings.Builder{}}

		if err := g.genFile(file); err != nil {
			return nil, err
		}

		out.Files = append(out.Files, RustCodeFile{
			Path:    file.Path,
			Content: g.sb.String(),
		})
	}

	return out, nil
}

func (g *RustCodeGen) genFile(file *ir.RustIRFile) error {
	for _, mod := range file.Mods {
		g.line("mod " + mod + ";")
	}

	if len(file.Mods) > 0 {
		g.line("")
	}

	for _, use := range file.Uses {
		code, err := g.genUse(use)
		if err != nil {
			return err
		}

		g.line(code)
	}

	if len(file.Uses) > 0 {
		g.line("")
	}

	for i, decl := range file.Decls {
		if err := g.genDecl(decl); err != nil {
			return err
		}

		if i < len(file.Decls)-1 {
			g.line("")
		}
	}

	return nil
}

// ---- uses ----

func (g *RustCodeGen) genUse(use *ir.RustIRUse) (string, error) {
	sb := &strings.Builder{}

	if use.Pub {
		sb.WriteString("pub ")
	}

	sb.WriteString("use ")

	path, err := g.genUsePath(use.Path)
	if err != nil {
		return "", err
	}

	sb.WriteString(path)
	sb.WriteString(";")

	return sb.String(), nil
}

func (g *RustCodeGen) genUsePath(path *ir.RustIRUsePath) (string, error) {
	sb := &strings.Builder{}
	sb.WriteString(path.Name)

	if path.Next != nil {
		sb.WriteString("::")

		next, err := g.genUsePath(path.Next)
		if err != nil {
			return "", err
		}

		sb.WriteString(next)
	}

	if len(path.Many) > 0 {
		sb.WriteString("::{")

		for i, branch := range path.Many {
			if i > 0 {
				sb.WriteString(", ")
			}

			sub, err := g.genUsePath(branch)
			if err != nil {
				return "", err
			}

			sb.WriteString(sub)
		}

		sb.WriteString("}")
	}

	return sb.String(), nil
}

// ---- declarations ----

func (g *RustCodeGen) genDecl(decl ir.RustIRDecl) error {
	switch decl := decl.(type) {
	case *ir.RustIRFnDecl:
		return g.genFnDecl(decl)

	case *ir.RustIRStructDecl:
		return g.genStructDecl(decl)
	}

	return token.NewError(token.ErrInternal, "unknown IR decl %T", decl)
}

func (g *RustCodeGen) genFnDecl(decl *ir.RustIRFnDecl) error {
	sig := &strings.Builder{}

	if decl.Pub {
		sig.WriteString("pub ")
	}

	sig.WriteString("fn ")
	sig.WriteString(decl.Name)
	sig.WriteString("(")

	for i, param := range decl.Params {
		if i > 0 {
			sig.WriteString(", ")
		}

		sig.WriteString(param.Name)
		sig.WriteString(": ")
		sig.WriteString(genType(param.Type))
	}

	sig.WriteString(")")

	if decl.Return != nil {
		sig.WriteString(" -> ")
		sig.WriteString(genType(*decl.Return))
	}

	sig.WriteString(" {")

	g.line(sig.String())

	g.indent++

	if err := g.genStmts(decl.Body); err != nil {
		return err
	}

	g.indent--
	g.line("}")

	return nil
}

func (g *RustCodeGen) genStructDecl(decl *ir.RustIRStructDecl) error {
	head := &strings.Builder{}

	if decl.Pub {
		head.WriteString("pub ")
	}

	head.WriteString("struct ")
	head.WriteString(decl.Name)
	head.WriteString(" {")

	g.line(head.String())

	g.indent++

	for _, field := range decl.Fields {
		line := &strings.Builder{}

		if field.Pub {
			line.WriteString("pub ")
		}

		line.WriteString(field.Name)
		line.WriteString(": ")
		line.WriteString(genType(field.Type))
		line.WriteString(",")

		g.line(line.String())
	}

	g.indent--
	g.line("}")

	return nil
}

func genType(t ir.RustIRStaticType) string {
	switch t.Ref {
	case ir.RustIRRefShared:
		return "&" + t.Name
	case ir.RustIRRefMut:
		return "&mut " + t.Name
	default:
		return t.Name
	}
}

// ---- statements ----

func (g *RustCodeGen) genStmts(stmts []ir.RustIRStmt) error {
	for _, stmt := range stmts {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (g *RustCodeGen) genStmt(stmt ir.RustIRStmt) error {
	switch stmt := stmt.(type) {
	case *ir.RustIRExprStmt:
		expr, err := g.genExpr(stmt.Expr)
		if err != nil {
			return err
		}

		g.line(expr + ";")

		return nil

	case *ir.RustIRImplicitReturnStmt:
		expr, err := g.genExpr(stmt.Expr)
		if err != nil {
			return err
		}

		g.line(expr)

		return nil

	case *ir.RustIRLetStmt:
		line := &strings.Builder{}
		line.WriteString("let ")

		if stmt.Mut {
			line.WriteString("mut ")
		}

		line.WriteString(stmt.Name)

		if stmt.Type != nil {
			line.WriteString(": ")
			line.WriteString(genType(*stmt.Type))
		}

		if stmt.Value != nil {
			value, err := g.genExpr(stmt.Value)
			if err != nil {
				return err
			}

			line.WriteString(" = ")
			line.WriteString(value)
		}

		line.WriteString(";")
		g.line(line.String())

		return nil

	case *ir.RustIRReturnStmt:
		if stmt.Expr == nil {
			g.line("return;")
			return nil
		}

		expr, err := g.genExpr(stmt.Expr)
		if err != nil {
			return err
		}

		g.line("return " + expr + ";")

		return nil

	case *ir.RustIRLoopStmt:
		head := "loop {"
		if stmt.Label != "" {
			head = "'" + stmt.Label + ": loop {"
		}

		g.line(head)
		g.indent++

		if err := g.genStmts(stmt.Stmts); err != nil {
			return err
		}

		g.indent--
		g.line("}")

		return nil

	case *ir.RustIRWhileStmt:
		cond, err := g.genExpr(stmt.Condition)
		if err != nil {
			return err
		}

		g.line("while " + cond + " {")
		g.indent++

		if err := g.genStmts(stmt.Stmts); err != nil {
			return err
		}

		g.indent--
		g.line("}")

		return nil

	case *ir.RustIRBreakStmt:
		line := &strings.Builder{}
		line.WriteString("break")

		if stmt.Label != "" {
			line.WriteString(" '")
			line.WriteString(stmt.Label)
		}

		if stmt.Expr != nil {
			expr, err := g.genExpr(stmt.Expr)
			if err != nil {
				return err
			}

			line.WriteString(" ")
			line.WriteString(expr)
		}

		line.WriteString(";")
		g.line(line.String())

		return nil
	}

	return token.NewError(token.ErrInternal, "unknown IR stmt %T", stmt)
}

// ---- expressions ----

func (g *RustCodeGen) genExpr(expr ir.RustIRExpr) (string, error) {
	switch expr := expr.(type) {
	case *ir.RustIRIdentExpr:
		return expr.Name, nil

	case *ir.RustIRStringLiteralExpr:
		return expr.Literal, nil

	case *ir.RustIRBoolLiteralExpr:
		return fmt.Sprintf("%t", expr.Value), nil

	case *ir.RustIRNumberLiteralExpr:
		return expr.Literal, nil

	case *ir.RustIRStaticRefExpr:
		return strings.Join(expr.Path, "::"), nil

	case *ir.RustIRCallExpr:
		callee, err := g.genExpr(expr.Callee)
		if err != nil {
			return "", err
		}

		args, err := g.genArgs(expr.Args)
		if err != nil {
			return "", err
		}

		return callee + "(" + args + ")", nil

	case *ir.RustIRMacroFnCallExpr:
		args, err := g.genArgs(expr.Args)
		if err != nil {
			return "", err
		}

		return expr.Callee + "!(" + args + ")", nil

	case *ir.RustIRUnaryExpr:
		value, err := g.genExpr(expr.Value)
		if err != nil {
			return "", err
		}

		switch expr.Op {
		case ir.RustIRUnaryNot:
			return "!" + value, nil
		case ir.RustIRUnaryRefShared:
			return "&" + value, nil
		default:
			return "&mut " + value, nil
		}

	case *ir.RustIRBinaryExpr:
		lhs, err := g.genExpr(expr.Lhs)
		if err != nil {
			return "", err
		}

		rhs, err := g.genExpr(expr.Rhs)
		if err != nil {
			return "", err
		}

		return lhs + " " + expr.Op + " " + rhs, nil

	case *ir.RustIRAssignExpr:
		lhs, err := g.genExpr(expr.Lhs)
		if err != nil {
			return "", err
		}

		rhs, err := g.genExpr(expr.Rhs)
		if err != nil {
			return "", err
		}

		return lhs + " " + expr.Op + " " + rhs, nil

	case *ir.RustIRIfExpr:
		return g.genIfExpr(expr)

	case *ir.RustIRLoopExpr:
		return g.genBlockLike("loop", expr.Label, expr.Stmts)

	case *ir.RustIRBlockExpr:
		return g.genBlockLike("", expr.Label, expr.Stmts)

	case *ir.RustIRConstructExpr:
		sb := &strings.Builder{}
		sb.WriteString(expr.Name)
		sb.WriteString(" { ")

		for i, field := range expr.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}

			value, err := g.genExpr(field.Value)
			if err != nil {
				return "", err
			}

			sb.WriteString(field.Name)
			sb.WriteString(": ")
			sb.WriteString(value)
		}

		sb.WriteString(" }")

		return sb.String(), nil

	case *ir.RustIRGetExpr:
		target, err := g.genExpr(expr.Target)
		if err != nil {
			return "", err
		}

		return target + "." + expr.Name, nil
	}

	return "", token.NewError(token.ErrInternal, "unknown IR expr %T", expr)
}

func (g *RustCodeGen) genArgs(args []ir.RustIRExpr) (string, error) {
	parts := make([]string, 0, len(args))

	for _, arg := range args {
		code, err := g.genExpr(arg)
		if err != nil {
			return "", err
		}

		parts = append(parts, code)
	}

	return strings.Join(parts, ", "), nil
}

// genIfExpr and genBlockLike print multi-line expressions inline into
// the surrounding line by capturing the emitted block.
func (g *RustCodeGen) genIfExpr(expr *ir.RustIRIfExpr) (string, error) {
	cond, err := g.genExpr(expr.Condition)
	if err != nil {
		return "", err
	}

	sb := &strings.Builder{}
	sb.WriteString("if ")
	sb.WriteString(cond)
	sb.WriteString(" {\n")

	body, err := g.captureStmts(expr.Then)
	if err != nil {
		return "", err
	}

	sb.WriteString(body)
	sb.WriteString(g.pad())
	sb.WriteString("}")

	for _, elseIf := range expr.ElseIfs {
		cond, err := g.genExpr(elseIf.Condition)
		if err != nil {
			return "", err
		}

		sb.WriteString(" else if ")
		sb.WriteString(cond)
		sb.WriteString(" {\n")

		body, err := g.captureStmts(elseIf.Then)
		if err != nil {
			return "", err
		}

		sb.WriteString(body)
		sb.WriteString(g.pad())
		sb.WriteString("}")
	}

	if expr.HasElse {
		sb.WriteString(" else {\n")

		body, err := g.captureStmts(expr.Else)
		if err != nil {
			return "", err
		}

		sb.WriteString(body)
		sb.WriteString(g.pad())
		sb.WriteString("}")
	}

	return sb.String(), nil
}

func (g *RustCodeGen) genBlockLike(keyword, label string, stmts []ir.RustIRStmt) (string, error) {
	sb := &strings.Builder{}

	if label != "" {
		sb.WriteString("'")
		sb.WriteString(label)
		sb.WriteString(": ")
	}

	if keyword != "" {
		sb.WriteString(keyword)
		sb.WriteString(" ")
	}

	sb.WriteString("{\n")

	body, err := g.captureStmts(stmts)
	if err != nil {
		return "", err
	}

	sb.WriteString(body)
	sb.WriteString(g.pad())
	sb.WriteString("}")

	return sb.String(), nil
}

// captureStmts prints statements one indent level deeper into a string
// instead of the generator's main builder.
func (g *RustCodeGen) captureStmts(stmts []ir.RustIRStmt) (string, error) {
	sub := &RustCodeGen{sb: &strings.Builder{}, indent: g.indent + 1}

	if err := sub.genStmts(stmts); err != nil {
		return "", err
	}

	return sub.sb.String(), nil
}

func (g *RustCodeGen) pad() string {
	return strings.Repeat("    ", g.indent)
}

func (g *RustCodeGen) line(text string) {
	if text == "" {
		g.sb.WriteString("\n")
		return
	}

	g.sb.WriteString(g.pad())
	g.sb.WriteString(text)
	g.sb.WriteString("\n")
}
