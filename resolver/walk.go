// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

// walkLabels visits every label token under a code block, in source
// order, including labels of nested expression constructs.
func walkLabels(block *syntax.CodeBlock, visit func(*token.Token)) {
	if block == nil {
		return
	}

	for _, stmt := range block.Stmts {
		walkStmtLabels(stmt, visit)
	}
}

func walkStmtLabels(stmt syntax.Stmt, visit func(*token.Token)) {
	switch stmt := stmt.(type) {
	case *syntax.ExprStmt:
		walkExprLabels(stmt.Expr, visit)

	case *syntax.VarDeclStmt:
		if stmt.Value != nil {
			walkExprLabels(stmt.Value.Value, visit)
		}

	case *syntax.AssignStmt:
		walkExprLabels(stmt.Target, visit)
		walkExprLabels(stmt.Value, visit)

	case *syntax.ReturnStmt:
		walkExprLabels(stmt.Value, visit)

	case *syntax.IfStmt:
		if stmt.ThenLabel != nil {
			visit(stmt.ThenLabel)
		}

		walkExprLabels(stmt.Condition, visit)

		if stmt.InlineThen != nil {
			walkStmtLabels(stmt.InlineThen, visit)
		}

		walkLabels(stmt.Then, visit)

		for _, elseIf := range stmt.ElseIfs {
			if elseIf.Label != nil {
				visit(elseIf.Label)
			}

			walkExprLabels(elseIf.Condition, visit)
			walkLabels(elseIf.Then, visit)
		}

		if stmt.Else != nil {
			if stmt.Else.Label != nil {
				visit(stmt.Else.Label)
			}

			walkLabels(stmt.Else.Then, visit)
		}

	case *syntax.LoopStmt:
		if stmt.Label != nil {
			visit(stmt.Label)
		}

		walkLabels(stmt.Block, visit)

	case *syntax.WhileStmt:
		if stmt.Label != nil {
			visit(stmt.Label)
		}

		walkExprLabels(stmt.Condition, visit)
		walkLabels(stmt.Block, visit)

	case *syntax.BreakStmt:
		walkExprLabels(stmt.Value, visit)

	case *syntax.ThenStmt:
		walkExprLabels(stmt.Value, visit)
	}
}

func walkExprLabels(expr syntax.Expr, visit func(*token.Token)) {
	if expr == nil {
		return
	}

	switch expr := expr.(type) {
	case *syntax.FmtStringLiteralExpr:
		for _, part := range expr.Rest {
			walkExprLabels(part.Expr, visit)
		}

	case *syntax.CallExpr:
		walkExprLabels(expr.Callee, visit)

		for _, arg := range expr.Args {
			walkExprLabels(arg.Value, visit)
		}

	case *syntax.UnaryExpr:
		walkExprLabels(expr.Value, visit)

	case *syntax.BinaryExpr:
		walkExprLabels(expr.Lhs, visit)
		walkExprLabels(expr.Rhs, visit)

	case *syntax.ConstructExpr:
		for _, field := range expr.Fields {
			walkExprLabels(field.Value, visit)
		}

	case *syntax.GetExpr:
		walkExprLabels(expr.Target, visit)

	case *syntax.IfExpr:
		walkExprLabels(expr.Condition, visit)

		if expr.Then != nil {
			if expr.Then.Label != nil {
				visit(expr.Then.Label)
			}

			walkExprLabels(expr.Then.Expr, visit)
			walkLabels(expr.Then.Block, visit)
		}

		for _, elseIf := range expr.ElseIfs {
			if elseIf.Label != nil {
				visit(elseIf.Label)
			}

			walkExprLabels(elseIf.Condition, visit)
			walkExprLabels(elseIf.Expr, visit)
			walkLabels(elseIf.Block, visit)
		}

		if expr.Else != nil {
			if expr.Else.Label != nil {
				visit(expr.Else.Label)
			}

			walkExprLabels(expr.Else.Expr, visit)
			walkLabels(expr.Else.Block, visit)
		}

	case *syntax.LoopExpr:
		if expr.Label != nil {
			visit(expr.Label)
		}

		walkLabels(expr.Block, visit)

	case *syntax.WhileExpr:
		if expr.Label != nil {
			visit(expr.Label)
		}

		walkExprLabels(expr.Condition, visit)
		walkLabels(expr.Block, visit)
	}
}

// hasValuedBreak reports whether any break under the block carries a
// value, looking through nested constructs.
func hasValuedBreak(block *syntax.CodeBlock) bool {
	found := false

	walkBreaks(block, func(b *syntax.BreakStmt) {
		if b.Value != nil {
			found = true
		}
	})

	return found
}

func walkBreaks(block *syntax.CodeBlock, visit func(*syntax.BreakStmt)) {
	if block == nil {
		return
	}

	for _, stmt := range block.Stmts {
		switch stmt := stmt.(type) {
		case *syntax.BreakStmt:
			visit(stmt)

		case *syntax.IfStmt:
			if inline, ok := stmt.InlineThen.(*syntax.BreakStmt); ok {
				visit(inline)
			}

			walkBreaks(stmt.Then, visit)

			for _, elseIf := range stmt.ElseIfs {
				walkBreaks(elseIf.Then, visit)
			}

			if stmt.Else != nil {
				walkBreaks(stmt.Else.Then, visit)
			}

		case *syntax.LoopStmt:
			walkBreaks(stmt.Block, visit)

		case *syntax.WhileStmt:
			walkBreaks(stmt.Block, visit)
		}
	}
}
