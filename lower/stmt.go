// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lower

import (
	"fmt"

	"github.com/ferrum-lang/ferrum-compiler-sub000/ir"
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

// handlerLabel renders the host-language label for a labelled
// control-flow construct: label_<NodeId>_<original>.
func handlerLabel(id syntax.NodeID, original string) string {
	return fmt.Sprintf("label_%d_%s", id.Num, original)
}

func (c *RustSyntaxCompiler) lowerBlock(block *syntax.CodeBlock) ([]ir.RustIRStmt, error) {
	if block == nil {
		return nil, nil
	}

	return c.lowerStmts(block.Stmts)
}

func (c *RustSyntaxCompiler) lowerStmts(stmts []syntax.Stmt) ([]ir.RustIRStmt, error) {
	var out []ir.RustIRStmt

	for _, stmt := range stmts {
		lowered, err := c.lowerStmt(stmt)
		if err != nil {
			return nil, err
		}

		out = append(out, lowered...)
	}

	return out, nil
}

func (c *RustSyntaxCompiler) lowerStmt(stmt syntax.Stmt) ([]ir.RustIRStmt, error) {
	switch stmt := stmt.(type) {
	case *syntax.ExprStmt:
		expr, err := c.lowerExpr(stmt.Expr)
		if err != nil {
			return nil, err
		}

		return []ir.RustIRStmt{&ir.RustIRExprStmt{Expr: expr}}, nil

	case *syntax.VarDeclStmt:
		return c.lowerVarDeclStmt(stmt)

	case *syntax.AssignStmt:
		return c.lowerAssignStmt(stmt)

	case *syntax.ReturnStmt:
		out := &ir.RustIRReturnStmt{}

		if stmt.Value != nil {
			expr, err := c.lowerExpr(stmt.Value)
			if err != nil {
				return nil, err
			}

			out.Expr = expr
		}

		return []ir.RustIRStmt{out}, nil

	case *syntax.IfStmt:
		return c.lowerIfStmt(stmt)

	case *syntax.LoopStmt:
		stmts, err := c.lowerBlock(stmt.Block)
		if err != nil {
			return nil, err
		}

		label := ""
		if stmt.Label != nil {
			label = handlerLabel(stmt.ID, syntax.LabelText(stmt.Label))
		}

		return []ir.RustIRStmt{&ir.RustIRLoopStmt{Label: label, Stmts: stmts}}, nil

	case *syntax.WhileStmt:
		return c.lowerWhileStmt(stmt)

	case *syntax.BreakStmt:
		return c.lowerBreakStmt(stmt)

	case *syntax.ThenStmt:
		return c.lowerThenStmt(stmt)
	}

	return nil, token.NewError(token.ErrInternal, "unknown stmt node %T", stmt)
}

func (c *RustSyntaxCompiler) lowerVarDeclStmt(stmt *syntax.VarDeclStmt) ([]ir.RustIRStmt, error) {
	out := &ir.RustIRLetStmt{
		Mut:  stmt.IsMut(),
		Name: stmt.Target.Ident.Lexeme,
	}

	if stmt.Value != nil {
		expr, err := c.lowerExpr(stmt.Value.Value)
		if err != nil {
			return nil, err
		}

		out.Value = expr
	} else if stmt.Explicit != nil {
		typ, err := rustTypeOf(stmt.Explicit.StaticType.Type())
		if err != nil {
			return nil, err
		}

		out.Type = &typ
	}

	return []ir.RustIRStmt{out}, nil
}

// lowerAssignStmt wraps the assignment expression in an expression
// statement.
func (c *RustSyntaxCompiler) lowerAssignStmt(stmt *syntax.AssignStmt) ([]ir.RustIRStmt, error) {
	lhs, err := c.lowerExpr(stmt.Target)
	if err != nil {
		return nil, err
	}

	rhs, err := c.lowerExpr(stmt.Value)
	if err != nil {
		return nil, err
	}

	op := "="

	switch stmt.Op {
	case syntax.AssignPlusEq:
		op = "+="
	case syntax.AssignMinusEq:
		op = "-="
	}

	return []ir.RustIRStmt{&ir.RustIRExprStmt{
		Expr: &ir.RustIRAssignExpr{Lhs: lhs, Op: op, Rhs: rhs},
	}}, nil
}

// lowerIfStmt renders an if statement as an implicit-return if
// expression.
func (c *RustSyntaxCompiler) lowerIfStmt(stmt *syntax.IfStmt) ([]ir.RustIRStmt, error) {
	condition, err := c.lowerExpr(stmt.Condition)
	if err != nil {
		return nil, err
	}

	ifExpr := &ir.RustIRIfExpr{Condition: condition}

	if stmt.InlineThen != nil {
		then, err := c.lowerStmt(stmt.InlineThen)
		if err != nil {
			return nil, err
		}

		ifExpr.Then = then
	} else {
		then, err := c.lowerBlock(stmt.Then)
		if err != nil {
			return nil, err
		}

		ifExpr.Then = then
	}

	for _, elseIf := range stmt.ElseIfs {
		cond, err := c.lowerExpr(elseIf.Condition)
		if err != nil {
			return nil, err
		}

		then, err := c.lowerBlock(elseIf.Then)
		if err != nil {
			return nil, err
		}

		ifExpr.ElseIfs = append(ifExpr.ElseIfs, &ir.RustIRElseIf{
			Condition: cond,
			Then:      then,
		})
	}

	if stmt.Else != nil {
		elseStmts, err := c.lowerBlock(stmt.Else.Then)
		if err != nil {
			return nil, err
		}

		ifExpr.Else = elseStmts
		ifExpr.HasElse = true
	}

	return []ir.RustIRStmt{&ir.RustIRImplicitReturnStmt{Expr: ifExpr}}, nil
}

// lowerWhileStmt renders a plain while directly. A labelled while is
// wrapped inside a labelled loop so labelled breaks reach past it.
func (c *RustSyntaxCompiler) lowerWhileStmt(stmt *syntax.WhileStmt) ([]ir.RustIRStmt, error) {
	condition, err := c.lowerExpr(stmt.Condition)
	if err != nil {
		return nil, err
	}

	body, err := c.lowerBlock(stmt.Block)
	if err != nil {
		return nil, err
	}

	while := &ir.RustIRWhileStmt{Condition: condition, Stmts: body}

	if stmt.Label == nil {
		return []ir.RustIRStmt{while}, nil
	}

	label := handlerLabel(stmt.ID, syntax.LabelText(stmt.Label))

	return []ir.RustIRStmt{&ir.RustIRLoopStmt{
		Label: label,
		Stmts: []ir.RustIRStmt{while, &ir.RustIRBreakStmt{}},
	}}, nil
}

func (c *RustSyntaxCompiler) lowerBreakStmt(stmt *syntax.BreakStmt) ([]ir.RustIRStmt, error) {
	out := &ir.RustIRBreakStmt{}

	if stmt.Value != nil {
		expr, err := c.lowerExpr(stmt.Value)
		if err != nil {
			return nil, err
		}

		out.Expr = expr
	}

	handler := stmt.Handler
	if handler == nil {
		return nil, token.NewError(token.ErrInternal, "break %s has no handler after resolution", stmt.ID)
	}

	switch handler.Kind {
	case syntax.HandlerLoopExpr, syntax.HandlerWhileExpr:
		// Expression targets are always emitted with a label.
		out.Label = handlerLabel(handler.Target, handler.Label)

	case syntax.HandlerLoopStmt, syntax.HandlerWhileStmt:
		if stmt.Label != nil {
			out.Label = handlerLabel(handler.Target, handler.Label)
		}
	}

	return []ir.RustIRStmt{out}, nil
}

// lowerThenStmt yields the branch value: as the branch's trailing
// expression when unlabelled, or as a labelled-block break when the
// then targets a labelled branch.
func (c *RustSyntaxCompiler) lowerThenStmt(stmt *syntax.ThenStmt) ([]ir.RustIRStmt, error) {
	expr, err := c.lowerExpr(stmt.Value)
	if err != nil {
		return nil, err
	}

	if stmt.Handler == nil {
		return nil, token.NewError(token.ErrInternal, "then %s has no handler after resolution", stmt.ID)
	}

	if stmt.Label != nil {
		return []ir.RustIRStmt{&ir.RustIRBreakStmt{
			Label: handlerLabel(stmt.Handler.Target, stmt.Handler.Label),
			Expr:  expr,
		}}, nil
	}

	return []ir.RustIRStmt{&ir.RustIRImplicitReturnStmt{Expr: expr}}, nil
}
