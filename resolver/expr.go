// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

func (r *FeTypeResolver) visitExpr(expr syntax.Expr) (bool, error) {
	switch expr := expr.(type) {
	case *syntax.BoolLiteralExpr:
		return r.visitBoolLiteral(expr)

	case *syntax.NumberLiteralExpr:
		return r.visitNumberLiteral(expr)

	case *syntax.PlainStringLiteralExpr:
		return r.visitPlainStringLiteral(expr)

	case *syntax.CharLiteralExpr:
		return false, r.errAt(token.ErrUnsupported, expr.Literal, "char literals are not supported yet")

	case *syntax.FmtStringLiteralExpr:
		return r.visitFmtStringLiteral(expr)

	case *syntax.IdentExpr:
		return r.visitIdent(expr)

	case *syntax.CallExpr:
		return r.visitCall(expr)

	case *syntax.UnaryExpr:
		return r.visitUnary(expr)

	case *syntax.BinaryExpr:
		return r.visitBinary(expr)

	case *syntax.StaticRefExpr:
		return r.visitStaticRef(expr)

	case *syntax.ConstructExpr:
		return r.visitConstruct(expr)

	case *syntax.GetExpr:
		return r.visitGet(expr)

	case *syntax.IfExpr:
		return r.visitIfExpr(expr)

	case *syntax.LoopExpr:
		return r.visitLoopExpr(expr)

	case *syntax.WhileExpr:
		return r.visitWhileExpr(expr)
	}

	return false, token.NewError(token.ErrInternal, "unknown expr node %T", expr)
}

func (r *FeTypeResolver) visitBoolLiteral(expr *syntax.BoolLiteralExpr) (bool, error) {
	if expr.Type() != nil {
		return false, nil
	}

	expr.SetType(types.KnownBool(expr.Literal.Kind == token.True))

	return true, nil
}

func (r *FeTypeResolver) visitNumberLiteral(expr *syntax.NumberLiteralExpr) (bool, error) {
	if expr.Type() != nil {
		return false, nil
	}

	if expr.IsDecimal() {
		expr.SetType(types.KnownDec(expr.Dec))
	} else {
		expr.SetType(types.KnownInt(expr.Int))
	}

	return true, nil
}

func (r *FeTypeResolver) visitPlainStringLiteral(expr *syntax.PlainStringLiteralExpr) (bool, error) {
	if expr.Type() != nil {
		return false, nil
	}

	expr.SetType(&types.String{Detail: types.StringPlain})

	return true, nil
}

func (r *FeTypeResolver) visitFmtStringLiteral(expr *syntax.FmtStringLiteralExpr) (bool, error) {
	if expr.Type() != nil {
		return false, nil
	}

	changed := false
	allResolved := true

	for _, part := range expr.Rest {
		partChanged, err := r.visitExpr(part.Expr)
		if err != nil {
			return false, err
		}

		changed = changed || partChanged

		if !syntax.ExprResolved(part.Expr) {
			allResolved = false
		}
	}

	if allResolved {
		expr.SetType(&types.String{Detail: types.StringFormat})
		changed = true
	}

	return changed, nil
}

func (r *FeTypeResolver) visitIdent(expr *syntax.IdentExpr) (bool, error) {
	if expr.Type() != nil {
		return false, nil
	}

	found, ok := r.scope.Search(expr.Ident.Lexeme)
	if !ok {
		r.notePending(r.errAt(token.ErrName, expr.Ident, "%q is not in scope", expr.Ident.Lexeme))
		return false, nil
	}

	expr.SetType(found.Type)
	r.exprLookup[expr.ID] = found.Type

	return true, nil
}

func (r *FeTypeResolver) visitCall(expr *syntax.CallExpr) (bool, error) {
	if syntax.ExprResolved(expr) {
		return false, nil
	}

	changed, err := r.visitExpr(expr.Callee)
	if err != nil {
		return false, err
	}

	calleeType := expr.Callee.Type()
	if calleeType == nil {
		return changed, nil
	}

	callable, ok := types.ActualType(calleeType).(*types.Callable)
	if !ok {
		return false, r.errAt(token.ErrType, expr.OpenParenToken, "cannot call %s", calleeType)
	}

	if len(expr.Args) > len(callable.Params) {
		return false, r.errAt(token.ErrType, expr.OpenParenToken,
			"too many arguments for %q: expected at most %d, got %d",
			callable.Name, len(callable.Params), len(expr.Args))
	}

	for i, arg := range expr.Args {
		argChanged, err := r.visitExpr(arg.Value)
		if err != nil {
			return false, err
		}

		changed = changed || argChanged

		resolved := arg.Value.Type()
		if resolved == nil {
			continue
		}

		if arg.Resolved == nil {
			arg.Resolved = resolved
			changed = true
		}

		param := callable.Params[i]

		if !canImplicitCast(resolved, param.Type) {
			return false, r.errAt(token.ErrType, expr.OpenParenToken,
				"cannot pass %s as %q (%s)", resolved, param.Name, param.Type)
		}
	}

	if callable.Return != nil {
		if !expr.HasReturn {
			expr.HasReturn = true
			changed = true
		}

		if expr.Type() == nil {
			expr.SetType(callable.Return)
			changed = true
		}
	}

	return changed, nil
}

func (r *FeTypeResolver) visitUnary(expr *syntax.UnaryExpr) (bool, error) {
	if expr.Type() != nil {
		return false, nil
	}

	changed, err := r.visitExpr(expr.Value)
	if err != nil {
		return false, err
	}

	resolved := expr.Value.Type()
	if resolved == nil {
		return changed, nil
	}

	switch expr.Op {
	case syntax.UnaryNot:
		if !canImplicitCast(resolved, types.UnknownBool()) {
			return false, r.errAt(token.ErrType, expr.OpToken, "'not' needs a Bool, found %s", resolved)
		}

		if b, ok := types.ActualType(resolved).(*types.Bool); ok && b.Known != nil {
			expr.SetType(types.KnownBool(!*b.Known))
		} else {
			expr.SetType(types.UnknownBool())
		}

	case syntax.UnaryRefConst:
		expr.SetType(&types.Ref{Kind: types.RefConst, Of: types.ActualType(resolved)})

	case syntax.UnaryRefMut:
		if owned, ok := resolved.(*types.Owned); ok && owned.Kind != types.OwnedMut {
			return false, r.errAt(token.ErrType, expr.OpToken, "cannot borrow a const binding mutably")
		}

		if ref, ok := resolved.(*types.Ref); ok && ref.Kind != types.RefMut {
			return false, r.errAt(token.ErrType, expr.OpToken, "cannot borrow a shared reference mutably")
		}

		expr.SetType(&types.Ref{Kind: types.RefMut, Of: types.ActualType(resolved)})
	}

	return true, nil
}

func (r *FeTypeResolver) visitBinary(expr *syntax.BinaryExpr) (bool, error) {
	if expr.Type() != nil {
		return false, nil
	}

	changed, err := r.visitExpr(expr.Lhs)
	if err != nil {
		return false, err
	}

	rhsChanged, err := r.visitExpr(expr.Rhs)
	if err != nil {
		return false, err
	}

	changed = changed || rhsChanged

	lhs := expr.Lhs.Type()
	rhs := expr.Rhs.Type()

	if lhs == nil || rhs == nil {
		return changed, nil
	}

	lhsActual := types.ActualType(lhs)
	rhsActual := types.ActualType(rhs)

	switch expr.Op {
	case syntax.BinaryRange:
		return false, r.errAt(token.ErrUnsupported, expr.OpToken, "range expressions are not supported yet")

	case syntax.BinaryAdd, syntax.BinarySubtract, syntax.BinaryMultiply,
		syntax.BinaryDivide, syntax.BinaryModulo:
		result, err := r.resolveArithmetic(expr, lhsActual, rhsActual)
		if err != nil {
			return false, err
		}

		expr.SetType(result)

	case syntax.BinaryLess, syntax.BinaryLessEq, syntax.BinaryGreater, syntax.BinaryGreaterEq:
		_, lhsNum := lhsActual.(*types.Number)
		_, rhsNum := rhsActual.(*types.Number)

		if !lhsNum || !rhsNum {
			return false, r.errAt(token.ErrType, expr.OpToken, "cannot compare %s with %s", lhsActual, rhsActual)
		}

		expr.SetType(types.UnknownBool())

	case syntax.BinaryEqualEqual, syntax.BinaryNotEqual:
		_, lhsNum := lhsActual.(*types.Number)
		_, rhsNum := rhsActual.(*types.Number)
		_, lhsBool := lhsActual.(*types.Bool)
		_, rhsBool := rhsActual.(*types.Bool)

		if !(lhsNum && rhsNum) && !(lhsBool && rhsBool) {
			return false, r.errAt(token.ErrType, expr.OpToken, "cannot compare %s with %s", lhsActual, rhsActual)
		}

		expr.SetType(types.UnknownBool())

	case syntax.BinaryAnd, syntax.BinaryOr:
		lhsB, lhsOk := lhsActual.(*types.Bool)
		rhsB, rhsOk := rhsActual.(*types.Bool)

		if !lhsOk || !rhsOk {
			return false, r.errAt(token.ErrType, expr.OpToken, "logical operator needs Bools, found %s and %s", lhsActual, rhsActual)
		}

		if lhsB.Known != nil && rhsB.Known != nil {
			if expr.Op == syntax.BinaryAnd {
				expr.SetType(types.KnownBool(*lhsB.Known && *rhsB.Known))
			} else {
				expr.SetType(types.KnownBool(*lhsB.Known || *rhsB.Known))
			}
		} else {
			expr.SetType(types.UnknownBool())
		}
	}

	return true, nil
}

// resolveArithmetic types an arithmetic operator over numbers, folding
// when both operands are compile-time known. Any decimal operand makes
// the result a decimal.
func (r *FeTypeResolver) resolveArithmetic(expr *syntax.BinaryExpr, lhs, rhs types.FeType) (types.FeType, error) {
	lhsNum, ok := lhs.(*types.Number)
	if !ok {
		return nil, r.errAt(token.ErrType, expr.OpToken, "arithmetic needs numbers, found %s", lhs)
	}

	rhsNum, ok := rhs.(*types.Number)
	if !ok {
		return nil, r.errAt(token.ErrType, expr.OpToken, "arithmetic needs numbers, found %s", rhs)
	}

	anyDecimal := lhsNum.Kind == types.NumberDecimal || rhsNum.Kind == types.NumberDecimal
	anyUnknownKind := lhsNum.Kind == types.NumberUnknown || rhsNum.Kind == types.NumberUnknown

	// Integer folding.
	if lhsNum.Kind == types.NumberInteger && rhsNum.Kind == types.NumberInteger &&
		lhsNum.Int != nil && rhsNum.Int != nil {
		a, b := *lhsNum.Int, *rhsNum.Int

		switch expr.Op {
		case syntax.BinaryAdd:
			return types.KnownInt(a + b), nil
		case syntax.BinarySubtract:
			return types.KnownInt(a - b), nil
		case syntax.BinaryMultiply:
			return types.KnownInt(a * b), nil
		case syntax.BinaryDivide:
			if b == 0 {
				return nil, r.errAt(token.ErrType, expr.OpToken, "division by zero")
			}

			return types.KnownInt(a / b), nil
		case syntax.BinaryModulo:
			if b == 0 {
				return nil, r.errAt(token.ErrType, expr.OpToken, "modulo by zero")
			}

			return types.KnownInt(a % b), nil
		}
	}

	// Decimal folding: both values known, at least one decimal.
	if !anyUnknownKind && anyDecimal && knownDecValue(lhsNum) != nil && knownDecValue(rhsNum) != nil {
		a, b := *knownDecValue(lhsNum), *knownDecValue(rhsNum)

		switch expr.Op {
		case syntax.BinaryAdd:
			return types.KnownDec(a + b), nil
		case syntax.BinarySubtract:
			return types.KnownDec(a - b), nil
		case syntax.BinaryMultiply:
			return types.KnownDec(a * b), nil
		case syntax.BinaryDivide:
			if b == 0 {
				return nil, r.errAt(token.ErrType, expr.OpToken, "division by zero")
			}

			return types.KnownDec(a / b), nil
		case syntax.BinaryModulo:
			return nil, r.errAt(token.ErrType, expr.OpToken, "modulo needs integers")
		}
	}

	if expr.Op == syntax.BinaryModulo && anyDecimal {
		return nil, r.errAt(token.ErrType, expr.OpToken, "modulo needs integers")
	}

	// Coarsened result types.
	switch {
	case anyDecimal:
		return types.UnknownDec(), nil
	case anyUnknownKind:
		return &types.Number{}, nil
	default:
		return types.UnknownInt(), nil
	}
}

// knownDecValue widens a known number to its decimal value.
func knownDecValue(n *types.Number) *float64 {
	switch n.Kind {
	case types.NumberDecimal:
		return n.Dec

	case types.NumberInteger:
		if n.Int != nil {
			v := float64(*n.Int)
			return &v
		}
	}

	return nil
}

func (r *FeTypeResolver) visitStaticRef(expr *syntax.StaticRefExpr) (bool, error) {
	if expr.Type() != nil {
		return false, nil
	}

	path := expr.Path

	if path.Root == nil {
		found, ok := r.scope.Search(path.Name.Lexeme)
		if !ok {
			r.notePending(r.errAt(token.ErrName, path.Name, "%q is not in scope", path.Name.Lexeme))
			return false, nil
		}

		path.SetType(found.Type)
		expr.SetType(found.Type)

		return true, nil
	}

	exports, pendingErr := r.resolvePathPackage(path.Root)
	if exports == nil {
		if pendingErr != nil {
			r.notePending(pendingErr)
		}

		return false, nil
	}

	typ, ok := exports.Search(path.Name.Lexeme)
	if !ok {
		r.notePending(r.errAt(token.ErrName, path.Name, "%q is not exported", path.Name.Lexeme))
		return false, nil
	}

	path.SetType(typ)
	expr.SetType(typ)

	return true, nil
}

func (r *FeTypeResolver) visitConstruct(expr *syntax.ConstructExpr) (bool, error) {
	if expr.Type() != nil {
		return false, nil
	}

	changed, err := r.visitExpr(expr.Target)
	if err != nil {
		return false, err
	}

	targetType := expr.Target.Type()
	if targetType == nil {
		return changed, nil
	}

	structType, ok := targetType.(*types.Struct)
	if !ok {
		return false, r.errAt(token.ErrType, expr.OpenBraceToken, "cannot construct %s", targetType)
	}

	fieldsByName := map[string]types.StructField{}
	for _, field := range structType.Fields {
		fieldsByName[field.Name] = field
	}

	seen := map[string]bool{}
	allResolved := true

	for _, arg := range expr.Fields {
		argChanged, err := r.visitExpr(arg.Value)
		if err != nil {
			return false, err
		}

		changed = changed || argChanged

		structField, ok := fieldsByName[arg.Name.Lexeme]
		if !ok {
			return false, r.errAt(token.ErrType, arg.Name,
				"struct %q has no field %q", structType.Name, arg.Name.Lexeme)
		}

		if seen[arg.Name.Lexeme] {
			return false, r.errAt(token.ErrType, arg.Name, "duplicate field %q", arg.Name.Lexeme)
		}

		seen[arg.Name.Lexeme] = true

		resolved := arg.Value.Type()
		if resolved == nil {
			allResolved = false
			continue
		}

		if !canImplicitCast(resolved, structField.Type) {
			return false, r.errAt(token.ErrType, arg.Name,
				"cannot use %s as field %q (%s)", resolved, structField.Name, structField.Type)
		}
	}

	// Every field must be provided; default and optional fields do not
	// exist yet.
	for name := range fieldsByName {
		if !seen[name] {
			return false, r.errAt(token.ErrType, expr.OpenBraceToken,
				"field %q of %q is not initialized", name, structType.Name)
		}
	}

	if !allResolved {
		return changed, nil
	}

	instanceFields := map[string]types.StructField{}
	for _, field := range structType.Fields {
		instanceFields[field.Name] = field
	}

	expr.SetType(&types.Instance{
		Name:   structType.Name,
		Fields: instanceFields,
	})

	return true, nil
}

func (r *FeTypeResolver) visitGet(expr *syntax.GetExpr) (bool, error) {
	if expr.Type() != nil {
		return false, nil
	}

	changed, err := r.visitExpr(expr.Target)
	if err != nil {
		return false, err
	}

	resolved := expr.Target.Type()
	if resolved == nil {
		return changed, nil
	}

	instance := types.InstanceOf(resolved)
	if instance == nil {
		return false, r.errAt(token.ErrType, expr.DotToken, "cannot access a field of %s", resolved)
	}

	field, ok := instance.Fields[expr.Name.Lexeme]
	if !ok {
		return false, r.errAt(token.ErrType, expr.Name,
			"no field %q on %q", expr.Name.Lexeme, instance.Name)
	}

	// The outer wrapper's kind is preserved on the field type.
	switch outer := resolved.(type) {
	case *types.Ref:
		expr.SetType(&types.Ref{Kind: outer.Kind, Of: types.ActualType(field.Type)})

	case *types.Owned:
		expr.SetType(&types.Owned{Kind: outer.Kind, Of: types.ActualType(field.Type)})

	default:
		expr.SetType(field.Type)
	}

	return true, nil
}

func (r *FeTypeResolver) visitIfExpr(expr *syntax.IfExpr) (bool, error) {
	if syntax.ExprResolved(expr) {
		return false, nil
	}

	if err := r.checkIfExprShape(expr); err != nil {
		return false, err
	}

	changed, err := r.visitCondition(expr.Condition, expr.IfToken)
	if err != nil {
		return false, err
	}

	var ternaryType types.FeType

	if expr.Then.Expr != nil {
		thenChanged, err := r.visitExpr(expr.Then.Expr)
		if err != nil {
			return false, err
		}

		changed = changed || thenChanged
		ternaryType = expr.Then.Expr.Type()
	} else {
		blockChanged, err := r.resolveIfExprBlock(expr, expr.Then.Label, expr.Then.Block)
		if err != nil {
			return false, err
		}

		changed = changed || blockChanged
	}

	for _, elseIf := range expr.ElseIfs {
		condChanged, err := r.visitCondition(elseIf.Condition, elseIf.IfToken)
		if err != nil {
			return false, err
		}

		changed = changed || condChanged

		if elseIf.Expr != nil {
			branchChanged, err := r.visitExpr(elseIf.Expr)
			if err != nil {
				return false, err
			}

			changed = changed || branchChanged

			if resolved := elseIf.Expr.Type(); resolved != nil {
				if err := unifyTernary(r, &ternaryType, resolved, elseIf.IfToken); err != nil {
					return false, err
				}
			}
		} else {
			branchChanged, err := r.resolveIfExprBlock(expr, elseIf.Label, elseIf.Block)
			if err != nil {
				return false, err
			}

			changed = changed || branchChanged
		}
	}

	if expr.Else != nil {
		if expr.Else.Expr != nil {
			branchChanged, err := r.visitExpr(expr.Else.Expr)
			if err != nil {
				return false, err
			}

			changed = changed || branchChanged

			if resolved := expr.Else.Expr.Type(); resolved != nil {
				if err := unifyTernary(r, &ternaryType, resolved, expr.Else.ElseToken); err != nil {
					return false, err
				}
			}
		} else {
			branchChanged, err := r.resolveIfExprBlock(expr, expr.Else.Label, expr.Else.Block)
			if err != nil {
				return false, err
			}

			changed = changed || branchChanged
		}
	}

	if expr.Type() == nil && ternaryType != nil {
		published, err := r.publishValue(expr, ternaryType, expr.IfToken)
		if err != nil {
			return false, err
		}

		changed = changed || published
	}

	return changed, nil
}

// unifyTernary folds a branch value into the visit-local accumulator.
// The accumulator is not durable state, so unification never counts as
// pass progress.
func unifyTernary(r *FeTypeResolver, acc *types.FeType, resolved types.FeType, at *token.Token) error {
	resolved = types.ActualType(resolved)

	if *acc == nil {
		*acc = resolved
		return nil
	}

	joined, ok := joinTypes(resolved, *acc)
	if !ok {
		return r.errAt(token.ErrType, at, "cannot unify %s with %s", resolved, *acc)
	}

	*acc = joined

	return nil
}

// checkIfExprShape rejects the if-expression forms whose value semantics
// are still open questions: a missing else branch, and block branches
// that do not end in a terminal statement.
func (r *FeTypeResolver) checkIfExprShape(expr *syntax.IfExpr) error {
	if r.shapesChecked[expr.ID] {
		return nil
	}

	if expr.Else == nil {
		return r.errAt(token.ErrUnsupported, expr.IfToken, "if expression without an else branch is not supported yet")
	}

	checkBlock := func(block *syntax.CodeBlock, at *token.Token) error {
		if block == nil {
			return nil
		}

		if len(block.Stmts) == 0 {
			return r.errAt(token.ErrUnsupported, at, "empty if expression branch is not supported yet")
		}

		switch block.Stmts[len(block.Stmts)-1].(type) {
		case *syntax.ThenStmt, *syntax.BreakStmt, *syntax.ReturnStmt:
			return nil
		default:
			return r.errAt(token.ErrUnsupported, at, "if expression branch must end in a 'then' value")
		}
	}

	if err := checkBlock(expr.Then.Block, expr.IfToken); err != nil {
		return err
	}

	for _, elseIf := range expr.ElseIfs {
		if err := checkBlock(elseIf.Block, elseIf.IfToken); err != nil {
			return err
		}
	}

	if err := checkBlock(expr.Else.Block, expr.Else.ElseToken); err != nil {
		return err
	}

	r.shapesChecked[expr.ID] = true

	return nil
}

func (r *FeTypeResolver) resolveIfExprBlock(expr *syntax.IfExpr, label *token.Token, block *syntax.CodeBlock) (bool, error) {
	if block == nil {
		return false, nil
	}

	r.scope.BeginScope(&scopeCreator{
		kind:  syntax.HandlerIfExpr,
		node:  expr,
		label: syntax.LabelText(label),
	})
	defer r.scope.EndScope()

	r.thenableCnt++
	changed, _, err := r.resolveStmts(block.Stmts)
	r.thenableCnt--

	return changed, err
}

func (r *FeTypeResolver) visitLoopExpr(expr *syntax.LoopExpr) (bool, error) {
	if syntax.ExprResolved(expr) {
		return false, nil
	}

	if !r.shapesChecked[expr.ID] {
		if !hasValuedBreak(expr.Block) {
			return false, r.errAt(token.ErrUnsupported, expr.LoopToken, "loop expression never breaks with a value")
		}

		r.shapesChecked[expr.ID] = true
	}

	r.scope.BeginScope(&scopeCreator{
		kind:  syntax.HandlerLoopExpr,
		node:  expr,
		label: syntax.LabelText(expr.Label),
	})
	defer r.scope.EndScope()

	r.breakableCnt++
	changed, _, err := r.resolveStmts(expr.Block.Stmts)
	r.breakableCnt--

	return changed, err
}

func (r *FeTypeResolver) visitWhileExpr(expr *syntax.WhileExpr) (bool, error) {
	if syntax.ExprResolved(expr) {
		return false, nil
	}

	if !r.shapesChecked[expr.ID] {
		if !hasValuedBreak(expr.Block) {
			return false, r.errAt(token.ErrUnsupported, expr.WhileToken, "while expression never breaks with a value")
		}

		r.shapesChecked[expr.ID] = true
	}

	changed, err := r.visitCondition(expr.Condition, expr.WhileToken)
	if err != nil {
		return false, err
	}

	r.scope.BeginScope(&scopeCreator{
		kind:  syntax.HandlerWhileExpr,
		node:  expr,
		label: syntax.LabelText(expr.Label),
	})
	defer r.scope.EndScope()

	r.breakableCnt++
	blockChanged, _, err := r.resolveStmts(expr.Block.Stmts)
	r.breakableCnt--

	return changed || blockChanged, err
}
