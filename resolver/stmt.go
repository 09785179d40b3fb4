// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

// resolveStmts resolves a statement list. It reports whether any
// statement changed, and returns the list's last statement when that is
// a terminal statement (break, then, return), nil otherwise.
func (r *FeTypeResolver) resolveStmts(stmts []syntax.Stmt) (bool, syntax.Stmt, error) {
	changed := false

	var terminal syntax.Stmt

	for i, stmt := range stmts {
		stmtChanged, err := r.visitStmt(stmt)
		if err != nil {
			return false, nil, err
		}

		changed = changed || stmtChanged

		if i == len(stmts)-1 {
			switch stmt.(type) {
			case *syntax.BreakStmt, *syntax.ThenStmt, *syntax.ReturnStmt:
				terminal = stmt
			}
		}
	}

	return changed, terminal, nil
}

func (r *FeTypeResolver) visitStmt(stmt syntax.Stmt) (bool, error) {
	switch stmt := stmt.(type) {
	case *syntax.ExprStmt:
		return r.visitExpr(stmt.Expr)

	case *syntax.VarDeclStmt:
		return r.visitVarDeclStmt(stmt)

	case *syntax.AssignStmt:
		return r.visitAssignStmt(stmt)

	case *syntax.ReturnStmt:
		return r.visitReturnStmt(stmt)

	case *syntax.IfStmt:
		return r.visitIfStmt(stmt)

	case *syntax.LoopStmt:
		return r.visitLoopStmt(stmt)

	case *syntax.WhileStmt:
		return r.visitWhileStmt(stmt)

	case *syntax.BreakStmt:
		return r.visitBreakStmt(stmt)

	case *syntax.ThenStmt:
		return r.visitThenStmt(stmt)
	}

	return false, token.NewError(token.ErrInternal, "unknown stmt node %T", stmt)
}

func (r *FeTypeResolver) visitVarDeclStmt(stmt *syntax.VarDeclStmt) (bool, error) {
	changed := false

	var valueType types.FeType

	if stmt.Value != nil {
		valueChanged, err := r.visitExpr(stmt.Value.Value)
		if err != nil {
			return false, err
		}

		changed = changed || valueChanged
		valueType = stmt.Value.Value.Type()
	}

	var explicitType types.FeType

	if stmt.Explicit != nil {
		typChanged, err := r.visitStaticType(stmt.Explicit.StaticType)
		if err != nil {
			return false, err
		}

		changed = changed || typChanged
		explicitType = stmt.Explicit.StaticType.Type()
	}

	if stmt.Value == nil && stmt.Explicit == nil {
		return false, r.errAt(token.ErrType, stmt.Target.Ident, "cannot infer type of %q without a value or annotation", stmt.Target.Ident.Lexeme)
	}

	// An explicit annotation is an upper bound on the value.
	if valueType != nil && explicitType != nil {
		if !canImplicitCast(valueType, explicitType) {
			return false, r.errAt(token.ErrType, stmt.Target.Ident,
				"cannot assign %s to %s", valueType, explicitType)
		}
	}

	bindType := valueType
	if explicitType != nil {
		bindType = explicitType
	}

	if stmt.Value != nil && syntax.ExprResolved(stmt.Value.Value) && valueType == nil {
		return false, r.errAt(token.ErrType, stmt.Target.Ident,
			"cannot bind %q to a value of no type", stmt.Target.Ident.Lexeme)
	}

	if bindType == nil {
		return changed, nil
	}

	ownedKind := types.OwnedConst
	if stmt.IsMut() {
		ownedKind = types.OwnedMut
	}

	inner := types.ActualType(bindType)

	// A mutable cell's value is not a compile-time fact.
	if stmt.IsMut() {
		inner = coarsen(inner)
	}

	owned := &types.Owned{Kind: ownedKind, Of: inner}

	// The binding is re-inserted every pass; body scope frames are
	// rebuilt each time the function is visited.
	r.scope.Insert(stmt.Target.Ident.Lexeme, &ScopedType{
		Type:            owned,
		ConstUnassigned: stmt.Value == nil && !stmt.IsMut(),
	})

	if stmt.Target.Type() == nil {
		stmt.Target.SetType(owned)
		r.exprLookup[stmt.Target.ID] = owned

		changed = true
	}

	return changed, nil
}

// coarsen drops known literal values from a type.
func coarsen(t types.FeType) types.FeType {
	switch t := t.(type) {
	case *types.Number:
		return &types.Number{Kind: t.Kind}

	case *types.Bool:
		return &types.Bool{}

	case *types.String:
		return &types.String{Detail: types.StringUnknown}

	default:
		return t
	}
}

func (r *FeTypeResolver) visitAssignStmt(stmt *syntax.AssignStmt) (bool, error) {
	if syntax.StmtResolved(stmt) {
		return false, nil
	}

	changed := false

	targetChanged, err := r.visitExpr(stmt.Target)
	if err != nil {
		return false, err
	}

	changed = changed || targetChanged

	targetType := stmt.Target.Type()

	if targetType != nil {
		if err := r.checkAssignable(stmt); err != nil {
			return false, err
		}
	}

	valueChanged, err := r.visitExpr(stmt.Value)
	if err != nil {
		return false, err
	}

	changed = changed || valueChanged

	valueType := stmt.Value.Type()

	if targetType != nil && valueType != nil {
		target := types.ActualType(targetType)

		if stmt.Op != syntax.AssignEq {
			// `+=`/`-=` demand numbers on both sides.
			if _, ok := target.(*types.Number); !ok {
				return false, r.errAt(token.ErrType, stmt.OpToken, "operator needs a number, found %s", target)
			}

			if _, ok := types.ActualType(valueType).(*types.Number); !ok {
				return false, r.errAt(token.ErrType, stmt.OpToken, "operator needs a number, found %s", valueType)
			}
		} else if !canImplicitCast(valueType, target) {
			return false, r.errAt(token.ErrType, stmt.OpToken, "cannot assign %s to %s", valueType, target)
		}
	}

	return changed, nil
}

// checkAssignable enforces that the assignment target is a mutable
// location: a mut reference, a mut binding, or a const binding that has
// not been assigned yet.
func (r *FeTypeResolver) checkAssignable(stmt *syntax.AssignStmt) error {
	targetType := stmt.Target.Type()

	switch target := targetType.(type) {
	case *types.Ref:
		if target.Kind != types.RefMut {
			return r.errAt(token.ErrAssign, stmt.OpToken, "reference is not mutable")
		}

		return nil

	case *types.Owned:
		if target.Kind == types.OwnedMut {
			return nil
		}

		// A const declared without an initializer may be assigned once.
		if ident, ok := stmt.Target.(*syntax.IdentExpr); ok {
			if found, ok := r.scope.Search(ident.Ident.Lexeme); ok && found.ConstUnassigned {
				if stmt.Op == syntax.AssignEq {
					found.ConstUnassigned = false
					return nil
				}
			}
		}

		return r.errAt(token.ErrAssign, stmt.OpToken, "binding is not mutable")

	default:
		return r.errAt(token.ErrAssign, stmt.OpToken, "cannot assign to %s", targetType)
	}
}

func (r *FeTypeResolver) visitReturnStmt(stmt *syntax.ReturnStmt) (bool, error) {
	if !r.inFn {
		return false, r.errAt(token.ErrScope, stmt.ReturnToken, "return statement outside of a function")
	}

	if stmt.Value == nil && r.fnHasReturn {
		return false, r.errAt(token.ErrType, stmt.ReturnToken, "function requires a return value")
	}

	if stmt.Value != nil && !r.fnHasReturn {
		return false, r.errAt(token.ErrType, stmt.ReturnToken, "function does not return a value")
	}

	if stmt.Value == nil {
		return false, nil
	}

	changed, err := r.visitExpr(stmt.Value)
	if err != nil {
		return false, err
	}

	if valueType := stmt.Value.Type(); valueType != nil && r.returnType != nil {
		if !canImplicitCast(valueType, r.returnType) {
			return false, r.errAt(token.ErrType, stmt.ReturnToken,
				"cannot return %s from a function returning %s", valueType, r.returnType)
		}
	}

	return changed, nil
}

func (r *FeTypeResolver) visitCondition(cond syntax.Expr, at *token.Token) (bool, error) {
	changed, err := r.visitExpr(cond)
	if err != nil {
		return false, err
	}

	if condType := cond.Type(); condType != nil {
		if !canImplicitCast(condType, types.UnknownBool()) {
			return false, r.errAt(token.ErrType, at, "condition must be a Bool, found %s", condType)
		}
	}

	return changed, nil
}

func (r *FeTypeResolver) visitIfStmt(stmt *syntax.IfStmt) (bool, error) {
	if syntax.StmtResolved(stmt) {
		return false, nil
	}

	changed, err := r.visitCondition(stmt.Condition, stmt.IfToken)
	if err != nil {
		return false, err
	}

	if stmt.InlineThen != nil {
		r.scope.BeginScope(&scopeCreator{
			kind:  syntax.HandlerIfStmt,
			node:  stmt,
			label: syntax.LabelText(stmt.ThenLabel),
		})

		inlineChanged, err := r.visitStmt(stmt.InlineThen)

		r.scope.EndScope()

		if err != nil {
			return false, err
		}

		return changed || inlineChanged, nil
	}

	blockChanged, err := r.resolveIfStmtBlock(stmt, stmt.ThenLabel, stmt.Then)
	if err != nil {
		return false, err
	}

	changed = changed || blockChanged

	for _, elseIf := range stmt.ElseIfs {
		condChanged, err := r.visitCondition(elseIf.Condition, elseIf.IfToken)
		if err != nil {
			return false, err
		}

		changed = changed || condChanged

		blockChanged, err := r.resolveIfStmtBlock(stmt, elseIf.Label, elseIf.Then)
		if err != nil {
			return false, err
		}

		changed = changed || blockChanged
	}

	if stmt.Else != nil {
		blockChanged, err := r.resolveIfStmtBlock(stmt, stmt.Else.Label, stmt.Else.Then)
		if err != nil {
			return false, err
		}

		changed = changed || blockChanged
	}

	return changed, nil
}

func (r *FeTypeResolver) resolveIfStmtBlock(stmt *syntax.IfStmt, label *token.Token, block *syntax.CodeBlock) (bool, error) {
	r.scope.BeginScope(&scopeCreator{
		kind:  syntax.HandlerIfStmt,
		node:  stmt,
		label: syntax.LabelText(label),
	})
	defer r.scope.EndScope()

	changed, _, err := r.resolveStmts(block.Stmts)

	return changed, err
}

func (r *FeTypeResolver) visitLoopStmt(stmt *syntax.LoopStmt) (bool, error) {
	if syntax.StmtResolved(stmt) {
		return false, nil
	}

	r.scope.BeginScope(&scopeCreator{
		kind:  syntax.HandlerLoopStmt,
		node:  stmt,
		label: syntax.LabelText(stmt.Label),
	})
	defer r.scope.EndScope()

	r.breakableCnt++
	changed, _, err := r.resolveStmts(stmt.Block.Stmts)
	r.breakableCnt--

	return changed, err
}

func (r *FeTypeResolver) visitWhileStmt(stmt *syntax.WhileStmt) (bool, error) {
	if syntax.StmtResolved(stmt) {
		return false, nil
	}

	changed, err := r.visitCondition(stmt.Condition, stmt.WhileToken)
	if err != nil {
		return false, err
	}

	r.scope.BeginScope(&scopeCreator{
		kind:  syntax.HandlerWhileStmt,
		node:  stmt,
		label: syntax.LabelText(stmt.Label),
	})
	defer r.scope.EndScope()

	r.breakableCnt++
	blockChanged, _, err := r.resolveStmts(stmt.Block.Stmts)
	r.breakableCnt--

	return changed || blockChanged, err
}

func (r *FeTypeResolver) visitBreakStmt(stmt *syntax.BreakStmt) (bool, error) {
	if r.breakableCnt == 0 {
		return false, r.errAt(token.ErrScope, stmt.BreakToken, "break outside of a loop")
	}

	if syntax.StmtResolved(stmt) {
		return false, nil
	}

	changed := false

	var valueType types.FeType

	if stmt.Value != nil {
		valueChanged, err := r.visitExpr(stmt.Value)
		if err != nil {
			return false, err
		}

		changed = changed || valueChanged

		if resolved := stmt.Value.Type(); resolved != nil {
			if stmt.Resolved == nil {
				stmt.Resolved = resolved
				changed = true
			}

			valueType = resolved
		}
	}

	creator := r.scope.handleBreak(syntax.LabelText(stmt.Label))
	if creator == nil {
		return false, r.errAt(token.ErrScope, stmt.BreakToken, "no enclosing loop matches this break")
	}

	if stmt.Handler == nil {
		stmt.Handler = &syntax.Handler{
			Kind:   creator.kind,
			Target: creator.node.NodeID(),
			Label:  creator.label,
		}
		changed = true
	}

	switch creator.kind {
	case syntax.HandlerLoopStmt, syntax.HandlerWhileStmt:
		if stmt.Value != nil {
			return false, r.errAt(token.ErrType, stmt.BreakToken, "cannot break with a value out of a loop statement")
		}

	case syntax.HandlerLoopExpr:
		if stmt.Value == nil {
			return false, r.errAt(token.ErrUnsupported, stmt.BreakToken, "break without a value inside a loop expression is not supported yet")
		}

		loop := creator.node.(*syntax.LoopExpr)

		published, err := r.publishValue(loop, valueType, stmt.BreakToken)
		if err != nil {
			return false, err
		}

		changed = changed || published

	case syntax.HandlerWhileExpr:
		if stmt.Value == nil {
			return false, r.errAt(token.ErrUnsupported, stmt.BreakToken, "break without a value inside a while expression is not supported yet")
		}

		while := creator.node.(*syntax.WhileExpr)

		published, err := r.publishValue(while, valueType, stmt.BreakToken)
		if err != nil {
			return false, err
		}

		changed = changed || published
	}

	return changed, nil
}

// publishValue unifies a break/then value type into the receiving
// expression's type.
func (r *FeTypeResolver) publishValue(target syntax.Typed, valueType types.FeType, at *token.Token) (bool, error) {
	if valueType == nil {
		return false, nil
	}

	valueType = types.ActualType(valueType)

	existing := target.Type()
	if existing != nil {
		joined, ok := joinTypes(valueType, existing)
		if !ok {
			return false, r.errAt(token.ErrType, at, "cannot unify %s with %s", valueType, existing)
		}

		if !types.Equal(joined, existing) {
			target.SetType(joined)
			return true, nil
		}

		return false, nil
	}

	target.SetType(valueType)

	return true, nil
}

func (r *FeTypeResolver) visitThenStmt(stmt *syntax.ThenStmt) (bool, error) {
	if r.thenableCnt == 0 {
		return false, r.errAt(token.ErrScope, stmt.ThenToken, "then outside of an if expression")
	}

	if syntax.StmtResolved(stmt) {
		return false, nil
	}

	changed, err := r.visitExpr(stmt.Value)
	if err != nil {
		return false, err
	}

	resolved := stmt.Value.Type()
	if resolved == nil {
		return changed, nil
	}

	if stmt.Resolved == nil {
		stmt.Resolved = resolved
		changed = true
	}

	creator := r.scope.handleThen(syntax.LabelText(stmt.Label))
	if creator == nil {
		return false, r.errAt(token.ErrScope, stmt.ThenToken, "no enclosing if matches this then")
	}

	if stmt.Handler == nil {
		stmt.Handler = &syntax.Handler{
			Kind:   creator.kind,
			Target: creator.node.NodeID(),
			Label:  creator.label,
		}
		changed = true
	}

	switch creator.kind {
	case syntax.HandlerIfStmt:
		return false, r.errAt(token.ErrType, stmt.ThenToken, "if statement cannot accept a value")

	case syntax.HandlerIfExpr:
		ifExpr := creator.node.(*syntax.IfExpr)

		published, err := r.publishValue(ifExpr, resolved, stmt.ThenToken)
		if err != nil {
			return false, err
		}

		changed = changed || published
	}

	return changed, nil
}
