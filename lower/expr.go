// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lower

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/ir"
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

func (c *RustSyntaxCompiler) lowerExpr(expr syntax.Expr) (ir.RustIRExpr, error) {
	switch expr := expr.(type) {
	case *syntax.BoolLiteralExpr:
		return &ir.RustIRBoolLiteralExpr{Value: expr.Literal.Kind == token.True}, nil

	case *syntax.NumberLiteralExpr:
		return &ir.RustIRNumberLiteralExpr{Literal: expr.Literal.Lexeme}, nil

	case *syntax.PlainStringLiteralExpr:
		// A plain literal becomes an owned host string.
		return &ir.RustIRCallExpr{
			Callee: &ir.RustIRStaticRefExpr{Path: []string{"String", "from"}},
			Args: []ir.RustIRExpr{
				&ir.RustIRStringLiteralExpr{Literal: plainLiteralToRust(expr.Literal.Lexeme)},
			},
		}, nil

	case *syntax.FmtStringLiteralExpr:
		return c.lowerFmtString(expr, "format")

	case *syntax.IdentExpr:
		return &ir.RustIRIdentExpr{Name: expr.Ident.Lexeme}, nil

	case *syntax.CallExpr:
		return c.lowerCall(expr)

	case *syntax.UnaryExpr:
		return c.lowerUnary(expr)

	case *syntax.BinaryExpr:
		return c.lowerBinary(expr)

	case *syntax.StaticRefExpr:
		return &ir.RustIRStaticRefExpr{Path: staticPathSegments(expr.Path)}, nil

	case *syntax.ConstructExpr:
		return c.lowerConstruct(expr)

	case *syntax.GetExpr:
		target, err := c.lowerExpr(expr.Target)
		if err != nil {
			return nil, err
		}

		return &ir.RustIRGetExpr{Target: target, Name: expr.Name.Lexeme}, nil

	case *syntax.IfExpr:
		return c.lowerIfExpr(expr)

	case *syntax.LoopExpr:
		stmts, err := c.lowerBlock(expr.Block)
		if err != nil {
			return nil, err
		}

		return &ir.RustIRLoopExpr{
			Label: handlerLabel(expr.ID, syntax.LabelText(expr.Label)),
			Stmts: stmts,
		}, nil

	case *syntax.WhileExpr:
		return c.lowerWhileExpr(expr)
	}

	return nil, token.NewError(token.ErrInternal, "unknown expr node %T", expr)
}

func staticPathSegments(path *syntax.StaticPath) []string {
	var segments []string

	for p := path; p != nil; p = p.Root {
		segments = append([]string{p.Name.Lexeme}, segments...)
	}

	return append([]string{"crate"}, segments...)
}

// lowerCall handles the print special case: a single plain or format
// string argument becomes a direct formatted-print intrinsic.
func (c *RustSyntaxCompiler) lowerCall(expr *syntax.CallExpr) (ir.RustIRExpr, error) {
	callee := expr.Callee.Type()

	if callable, ok := types.ActualType(callee).(*types.Callable); ok && callable.Special == types.SpecialPrint {
		return c.lowerPrintCall(expr)
	}

	calleeIR, err := c.lowerExpr(expr.Callee)
	if err != nil {
		return nil, err
	}

	var args []ir.RustIRExpr

	for _, arg := range expr.Args {
		argIR, err := c.lowerExpr(arg.Value)
		if err != nil {
			return nil, err
		}

		args = append(args, argIR)
	}

	return &ir.RustIRCallExpr{Callee: calleeIR, Args: args}, nil
}

func (c *RustSyntaxCompiler) lowerPrintCall(expr *syntax.CallExpr) (ir.RustIRExpr, error) {
	if len(expr.Args) == 1 {
		switch arg := expr.Args[0].Value.(type) {
		case *syntax.PlainStringLiteralExpr:
			return &ir.RustIRMacroFnCallExpr{
				Callee: "println",
				Args: []ir.RustIRExpr{
					&ir.RustIRStringLiteralExpr{Literal: plainLiteralToFmt(arg.Literal.Lexeme)},
				},
			}, nil

		case *syntax.FmtStringLiteralExpr:
			return c.lowerFmtString(arg, "println")
		}
	}

	args := []ir.RustIRExpr{&ir.RustIRStringLiteralExpr{Literal: `"{}"`}}

	for _, arg := range expr.Args {
		argIR, err := c.lowerExpr(arg.Value)
		if err != nil {
			return nil, err
		}

		args = append(args, argIR)
	}

	return &ir.RustIRMacroFnCallExpr{Callee: "println", Args: args}, nil
}

// lowerFmtString renders a format string chain into `macro!(fmt, args…)`.
func (c *RustSyntaxCompiler) lowerFmtString(expr *syntax.FmtStringLiteralExpr, macro string) (ir.RustIRExpr, error) {
	literal := fmtChainToRust(expr)

	args := []ir.RustIRExpr{&ir.RustIRStringLiteralExpr{Literal: literal}}

	for _, part := range expr.Rest {
		argIR, err := c.lowerExpr(part.Expr)
		if err != nil {
			return nil, err
		}

		args = append(args, argIR)
	}

	return &ir.RustIRMacroFnCallExpr{Callee: macro, Args: args}, nil
}

func (c *RustSyntaxCompiler) lowerUnary(expr *syntax.UnaryExpr) (ir.RustIRExpr, error) {
	value, err := c.lowerExpr(expr.Value)
	if err != nil {
		return nil, err
	}

	op := ir.RustIRUnaryNot

	switch expr.Op {
	case syntax.UnaryRefConst:
		op = ir.RustIRUnaryRefShared
	case syntax.UnaryRefMut:
		op = ir.RustIRUnaryRefMut
	}

	return &ir.RustIRUnaryExpr{Op: op, Value: value}, nil
}

var binaryOpText = map[syntax.BinaryOpKind]string{
	syntax.BinaryAdd:        "+",
	syntax.BinarySubtract:   "-",
	syntax.BinaryMultiply:   "*",
	syntax.BinaryDivide:     "/",
	syntax.BinaryModulo:     "%",
	syntax.BinaryLess:       "<",
	syntax.BinaryLessEq:     "<=",
	syntax.BinaryGreater:    ">",
	syntax.BinaryGreaterEq:  ">=",
	syntax.BinaryEqualEqual: "==",
	syntax.BinaryNotEqual:   "!=",
	syntax.BinaryAnd:        "&&",
	syntax.BinaryOr:         "||",
}

func (c *RustSyntaxCompiler) lowerBinary(expr *syntax.BinaryExpr) (ir.RustIRExpr, error) {
	lhs, err := c.lowerExpr(expr.Lhs)
	if err != nil {
		return nil, err
	}

	rhs, err := c.lowerExpr(expr.Rhs)
	if err != nil {
		return nil, err
	}

	op, ok := binaryOpText[expr.Op]
	if !ok {
		return nil, token.NewError(token.ErrInternal, "binary operator %d has no Rust rendering", expr.Op)
	}

	return &ir.RustIRBinaryExpr{Lhs: lhs, Op: op, Rhs: rhs}, nil
}

func (c *RustSyntaxCompiler) lowerConstruct(expr *syntax.ConstructExpr) (ir.RustIRExpr, error) {
	name := ""

	switch target := expr.Target.(type) {
	case *syntax.IdentExpr:
		name = target.Ident.Lexeme

	case *syntax.StaticRefExpr:
		segments := staticPathSegments(target.Path)
		name = segments[len(segments)-1]

	default:
		return nil, token.NewError(token.ErrInternal, "construct target %T has no Rust rendering", target)
	}

	out := &ir.RustIRConstructExpr{Name: name}

	for _, field := range expr.Fields {
		value, err := c.lowerExpr(field.Value)
		if err != nil {
			return nil, err
		}

		out.Fields = append(out.Fields, &ir.RustIRConstructField{
			Name:  field.Name.Lexeme,
			Value: value,
		})
	}

	return out, nil
}

func (c *RustSyntaxCompiler) lowerIfExpr(expr *syntax.IfExpr) (ir.RustIRExpr, error) {
	condition, err := c.lowerExpr(expr.Condition)
	if err != nil {
		return nil, err
	}

	out := &ir.RustIRIfExpr{Condition: condition}

	out.Then, err = c.lowerIfExprBranch(expr.ID, expr.Then.Expr, expr.Then.Label, expr.Then.Block)
	if err != nil {
		return nil, err
	}

	for _, elseIf := range expr.ElseIfs {
		cond, err := c.lowerExpr(elseIf.Condition)
		if err != nil {
			return nil, err
		}

		then, err := c.lowerIfExprBranch(expr.ID, elseIf.Expr, elseIf.Label, elseIf.Block)
		if err != nil {
			return nil, err
		}

		out.ElseIfs = append(out.ElseIfs, &ir.RustIRElseIf{Condition: cond, Then: then})
	}

	if expr.Else != nil {
		elseStmts, err := c.lowerIfExprBranch(expr.ID, expr.Else.Expr, expr.Else.Label, expr.Else.Block)
		if err != nil {
			return nil, err
		}

		out.Else = elseStmts
		out.HasElse = true
	}

	return out, nil
}

// lowerIfExprBranch lowers one branch: a ternary expression becomes a
// trailing expression; a labelled block branch becomes a labelled host
// block so labelled then statements can break out of it.
func (c *RustSyntaxCompiler) lowerIfExprBranch(ifID syntax.NodeID, ternary syntax.Expr, label *token.Token, block *syntax.CodeBlock) ([]ir.RustIRStmt, error) {
	if ternary != nil {
		value, err := c.lowerExpr(ternary)
		if err != nil {
			return nil, err
		}

		return []ir.RustIRStmt{&ir.RustIRImplicitReturnStmt{Expr: value}}, nil
	}

	stmts, err := c.lowerBlock(block)
	if err != nil {
		return nil, err
	}

	if label == nil {
		return stmts, nil
	}

	// The enclosing if expression's node id anchors the label, matching
	// what labelled then statements emit.
	return []ir.RustIRStmt{&ir.RustIRImplicitReturnStmt{
		Expr: &ir.RustIRBlockExpr{
			Label: handlerLabel(ifID, syntax.LabelText(label)),
			Stmts: stmts,
		},
	}}, nil
}

// lowerWhileExpr wraps the while inside a labelled loop so that valued
// breaks can reach it; a while that runs to completion without breaking
// has no value, which the resolver already rejects as unsupported.
func (c *RustSyntaxCompiler) lowerWhileExpr(expr *syntax.WhileExpr) (ir.RustIRExpr, error) {
	condition, err := c.lowerExpr(expr.Condition)
	if err != nil {
		return nil, err
	}

	body, err := c.lowerBlock(expr.Block)
	if err != nil {
		return nil, err
	}

	return &ir.RustIRLoopExpr{
		Label: handlerLabel(expr.ID, syntax.LabelText(expr.Label)),
		Stmts: []ir.RustIRStmt{
			&ir.RustIRWhileStmt{Condition: condition, Stmts: body},
			&ir.RustIRExprStmt{Expr: &ir.RustIRMacroFnCallExpr{Callee: "unreachable"}},
		},
	}, nil
}
