// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

func (r *FeTypeResolver) visitDeclSignature(decl syntax.Decl) (bool, error) {
	switch decl := decl.(type) {
	case *syntax.FnDecl:
		return r.visitFnSignature(decl)

	case *syntax.StructDecl:
		return r.visitStructDecl(decl)
	}

	return false, token.NewError(token.ErrInternal, "unknown decl node %T", decl)
}

// visitFnSignature resolves parameter and return types; once all are
// known it publishes the Callable into the enclosing scope.
func (r *FeTypeResolver) visitFnSignature(decl *syntax.FnDecl) (bool, error) {
	if decl.SignatureResolved {
		return false, nil
	}

	changed := false
	allResolved := true

	var params []types.CallableParam

	for _, param := range decl.Params {
		if param.Resolved == nil {
			typChanged, err := r.visitStaticType(param.StaticType)
			if err != nil {
				return false, err
			}

			changed = changed || typChanged
			param.Resolved = param.StaticType.Type()
		}

		if param.Resolved != nil {
			params = append(params, types.CallableParam{
				Name: param.Name.Lexeme,
				Type: param.Resolved,
			})
		} else {
			allResolved = false
		}
	}

	var returnType types.FeType

	if decl.Return != nil {
		if decl.Return.Resolved == nil {
			typChanged, err := r.visitStaticType(decl.Return.StaticType)
			if err != nil {
				return false, err
			}

			changed = changed || typChanged
			decl.Return.Resolved = decl.Return.StaticType.Type()
		}

		if decl.Return.Resolved != nil {
			returnType = decl.Return.Resolved
		} else {
			allResolved = false
		}
	}

	if !allResolved {
		return changed, nil
	}

	r.scope.Insert(decl.Name.Lexeme, &ScopedType{
		IsPub: decl.IsPub(),
		Type: &types.Callable{
			Name:   decl.Name.Lexeme,
			Params: params,
			Return: returnType,
		},
	})

	decl.SignatureResolved = true

	return true, nil
}

// visitStructDecl resolves field types; once all are known it publishes
// the Struct type.
func (r *FeTypeResolver) visitStructDecl(decl *syntax.StructDecl) (bool, error) {
	if decl.Resolved {
		return false, nil
	}

	changed := false
	allDone := true

	var fields []types.StructField

	for _, field := range decl.Fields {
		typChanged, err := r.visitStaticType(field.StaticType)
		if err != nil {
			return false, err
		}

		changed = changed || typChanged

		if resolved := field.StaticType.Type(); resolved != nil {
			fields = append(fields, types.StructField{
				IsPub: field.PubToken != nil,
				Name:  field.Name.Lexeme,
				Type:  resolved,
			})
		} else {
			allDone = false
		}
	}

	if !allDone {
		return changed, nil
	}

	r.scope.Insert(decl.Name.Lexeme, &ScopedType{
		IsPub: decl.IsPub(),
		Type: &types.Struct{
			Name:   decl.Name.Lexeme,
			Fields: fields,
		},
	})

	decl.Resolved = true

	return true, nil
}

// visitStaticType resolves a written type reference, wrapping the path's
// type in a Ref when a reference modifier is present.
func (r *FeTypeResolver) visitStaticType(st *syntax.StaticType) (bool, error) {
	if st.Type() != nil {
		return false, nil
	}

	changed, err := r.visitStaticPathType(st.Path)
	if err != nil {
		return false, err
	}

	base := st.Path.Type()
	if base == nil {
		return changed, nil
	}

	if st.Ref != nil {
		kind := types.RefConst
		if st.Ref.IsMut() {
			kind = types.RefMut
		}

		st.SetType(&types.Ref{Kind: kind, Of: types.ActualType(base)})
	} else {
		st.SetType(base)
	}

	return true, nil
}

// visitStaticPathType resolves a static path in type position. Primitive
// names resolve directly; other names must be structs visible in scope
// or reachable through package exports.
func (r *FeTypeResolver) visitStaticPathType(path *syntax.StaticPath) (bool, error) {
	if path.Type() != nil {
		return false, nil
	}

	if path.Root == nil {
		if primitive := primitiveType(path.Name.Lexeme); primitive != nil {
			path.SetType(primitive)
			return true, nil
		}

		found, ok := r.scope.Search(path.Name.Lexeme)
		if !ok {
			r.notePending(r.errAt(token.ErrName, path.Name, "unknown type %q", path.Name.Lexeme))
			return false, nil
		}

		if _, isStruct := found.Type.(*types.Struct); !isStruct {
			return false, r.errAt(token.ErrType, path.Name, "%q is not a type", path.Name.Lexeme)
		}

		path.SetType(found.Type)

		return true, nil
	}

	// Qualified: resolve the root as a package chain, then look the
	// final name up in that package's exports.
	exports, pendingErr := r.resolvePathPackage(path.Root)
	if exports == nil {
		if pendingErr != nil {
			r.notePending(pendingErr)
		}

		return false, nil
	}

	typ, ok := exports.Search(path.Name.Lexeme)
	if !ok {
		r.notePending(r.errAt(token.ErrName, path.Name, "unknown type %q", path.Name.Lexeme))
		return false, nil
	}

	if _, isStruct := typ.(*types.Struct); !isStruct {
		return false, r.errAt(token.ErrType, path.Name, "%q is not a type", path.Name.Lexeme)
	}

	path.SetType(typ)

	return true, nil
}

// resolvePathPackage resolves a static path prefix to a package's
// exports, chaining through nested packages.
func (r *FeTypeResolver) resolvePathPackage(path *syntax.StaticPath) (types.Exports, *token.CompileError) {
	if path.Root == nil {
		found, ok := r.scope.Search(path.Name.Lexeme)
		if !ok {
			return nil, r.errAt(token.ErrName, path.Name, "unknown package %q", path.Name.Lexeme)
		}

		pkg, isPkg := found.Type.(*types.Package)
		if !isPkg {
			return nil, r.errAt(token.ErrName, path.Name, "%q is not a package", path.Name.Lexeme)
		}

		return pkg.Exports, nil
	}

	outer, err := r.resolvePathPackage(path.Root)
	if outer == nil {
		return nil, err
	}

	if local, ok := outer.Local(path.Name.Lexeme); ok {
		return local, nil
	}

	if typ, ok := outer.Search(path.Name.Lexeme); ok {
		if pkg, isPkg := typ.(*types.Package); isPkg {
			return pkg.Exports, nil
		}
	}

	return nil, r.errAt(token.ErrName, path.Name, "unknown package %q", path.Name.Lexeme)
}

func primitiveType(name string) types.FeType {
	switch name {
	case "Int":
		return types.UnknownInt()
	case "Dec":
		return types.UnknownDec()
	case "String":
		return &types.String{Detail: types.StringUnknown}
	case "Bool":
		return types.UnknownBool()
	default:
		return nil
	}
}

// resolveFnBody resolves a function's statements once its signature is
// published. Parameters are bound per their declarations: plain types as
// owned consts, references as themselves.
func (r *FeTypeResolver) resolveFnBody(decl *syntax.FnDecl) (bool, error) {
	if !syntax.FnSignatureResolved(decl) {
		return false, nil
	}

	if err := r.checkFnLabels(decl); err != nil {
		return false, err
	}

	r.scope.BeginScope(&scopeCreator{kind: syntax.HandlerNone, node: decl})
	defer r.scope.EndScope()

	for _, param := range decl.Params {
		bound := param.Resolved

		switch bound.(type) {
		case *types.Ref:
			// Reference parameters keep their reference type.
		default:
			bound = &types.Owned{Kind: types.OwnedConst, Of: types.ActualType(bound)}
		}

		r.scope.Insert(param.Name.Lexeme, &ScopedType{Type: bound})
	}

	prevReturn, prevHas, prevIn := r.returnType, r.fnHasReturn, r.inFn

	r.inFn = true
	r.fnHasReturn = decl.Return != nil
	if decl.Return != nil {
		r.returnType = decl.Return.Resolved
	} else {
		r.returnType = nil
	}

	defer func() {
		r.returnType, r.fnHasReturn, r.inFn = prevReturn, prevHas, prevIn
	}()

	changed, _, err := r.resolveStmts(decl.Body.Stmts)

	return changed, err
}

// checkFnLabels enforces that every label within a function body is
// textually unique.
func (r *FeTypeResolver) checkFnLabels(decl *syntax.FnDecl) error {
	if r.labelsChecked[decl.ID] {
		return nil
	}

	seen := map[string]*token.Token{}

	var err error

	walkLabels(decl.Body, func(label *token.Token) {
		if err != nil || label == nil {
			return
		}

		text := syntax.LabelText(label)

		if _, dup := seen[text]; dup {
			err = r.errAt(token.ErrScope, label, "duplicate label %q in function %q", text, decl.Name.Lexeme)
			return
		}

		seen[text] = label
	})

	if err != nil {
		return err
	}

	r.labelsChecked[decl.ID] = true

	return nil
}
