// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package resolver implements the fixed-point, multi-pass, whole-package
// type resolver.
//
// Every pass walks the complete package tree and visits every node; a
// visit reports whether it learned a new fact. Resolution finishes when
// the tree is fully resolved, and fails when a pass learns nothing while
// work remains.
package resolver

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

func sortedPackageNames(local map[string]syntax.Package) []string {
	names := make([]string, 0, len(local))
	for name := range local {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// FeTypeResolver resolves one compilation's package tree.
type FeTypeResolver struct {
	logger logrus.FieldLogger

	rootExports *ExportsDir

	// scopes persists each file's scope across passes, so bindings
	// learned in pass n are visible in pass n+1.
	scopes map[string]*Scope

	// exprLookup records resolved identifier types by node for constant
	// propagation diagnostics.
	exprLookup map[syntax.NodeID]types.FeType

	// Per-file state, swapped in by resolveFile.
	scope             *Scope
	filePath          string
	currentPkgExports *ExportsDir

	// Per-function state.
	returnType    types.FeType
	fnHasReturn   bool
	inFn          bool
	breakableCnt  int
	thenableCnt   int
	labelsChecked map[syntax.NodeID]bool
	shapesChecked map[syntax.NodeID]bool

	// pending collects the reasons the current pass could not finish
	// (unknown names, unresolved imports). If a pass stalls, the first
	// pending reason is the error.
	pending []error
}

// NewFeTypeResolver creates a resolver. logger may be nil.
func NewFeTypeResolver(logger logrus.FieldLogger) *FeTypeResolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &FeTypeResolver{
		logger:        logger,
		scopes:        map[string]*Scope{},
		exprLookup:    map[syntax.NodeID]types.FeType{},
		labelsChecked: map[syntax.NodeID]bool{},
		shapesChecked: map[syntax.NodeID]bool{},
	}
}

// ResolvePackage runs passes until the tree is fully typed. The root
// package must be the project's src directory.
func (r *FeTypeResolver) ResolvePackage(pkg syntax.Package) error {
	root, ok := pkg.(*syntax.Dir)
	if !ok {
		return token.NewError(token.ErrInternal, "project root must be a directory package, got %T", pkg)
	}

	exports := buildExports(root)

	rootDir, ok := exports.(*ExportsDir)
	if !ok {
		return token.NewError(token.ErrInternal, "exports tree root is not a directory")
	}

	r.rootExports = rootDir

	pass := 0

	for {
		pass++
		r.pending = nil

		changed, err := r.resolveDir(root, rootDir, rootDir)
		if err != nil {
			return err
		}

		resolved := syntax.PackageResolved(root)

		r.logger.WithFields(logrus.Fields{
			"pass":     pass,
			"changed":  changed,
			"resolved": resolved,
		}).Debug("resolver pass finished")

		if resolved {
			break
		}

		if !changed {
			if len(r.pending) > 0 {
				return r.pending[0]
			}

			return token.NewError(token.ErrUnresolvable, "resolver made no progress but the program is not fully resolved")
		}
	}

	return finalizePackage(root)
}

// ExprType returns the recorded type of a resolved identifier node.
func (r *FeTypeResolver) ExprType(id syntax.NodeID) (types.FeType, bool) {
	t, ok := r.exprLookup[id]
	return t, ok
}

func (r *FeTypeResolver) resolvePackage(pkg syntax.Package, exports ExportsPackage, parent *ExportsDir) (bool, error) {
	switch pkg := pkg.(type) {
	case *syntax.File:
		return r.resolveFile(pkg, exports, parent)

	case *syntax.Dir:
		dir, ok := exports.(*ExportsDir)
		if !ok {
			return false, token.NewError(token.ErrInternal, "exports tree out of shape at %q", pkg.Path)
		}

		return r.resolveDir(pkg, dir, parent)
	}

	return false, token.NewError(token.ErrInternal, "unknown syntax package node %T", pkg)
}

func (r *FeTypeResolver) resolveDir(dir *syntax.Dir, exports *ExportsDir, parent *ExportsDir) (bool, error) {
	changed, err := r.resolveFile(dir.Entry, exports, exports)
	if err != nil {
		return false, err
	}

	for _, name := range sortedPackageNames(dir.Local) {
		localExports, ok := exports.LocalPackage(name)
		if !ok {
			return false, token.NewError(token.ErrInternal, "exports tree misses package %q", name)
		}

		localChanged, err := r.resolvePackage(dir.Local[name], localExports, exports)
		if err != nil {
			return false, err
		}

		changed = changed || localChanged
	}

	return changed, nil
}

// resolveFile resolves one file within a pass: uses, then declaration
// signatures, then function bodies, then syncs public bindings into the
// file's export scope.
func (r *FeTypeResolver) resolveFile(file *syntax.File, exports ExportsPackage, pkgDir *ExportsDir) (bool, error) {
	scope, ok := r.scopes[file.Path]
	if !ok {
		scope = NewScope()
		r.seedPrelude(scope)
		r.scopes[file.Path] = scope
	}

	r.scope = scope
	r.filePath = file.Path
	r.currentPkgExports = pkgDir

	changed := false

	for _, use := range file.Tree.Uses {
		useChanged, err := r.visitUse(use)
		if err != nil {
			return false, err
		}

		changed = changed || useChanged
	}

	for _, decl := range file.Tree.Decls {
		declChanged, err := r.visitDeclSignature(decl)
		if err != nil {
			return false, err
		}

		changed = changed || declChanged
	}

	for _, decl := range file.Tree.Decls {
		fn, ok := decl.(*syntax.FnDecl)
		if !ok {
			continue
		}

		bodyChanged, err := r.resolveFnBody(fn)
		if err != nil {
			return false, err
		}

		changed = changed || bodyChanged
	}

	// Sync public top-level bindings into the export scope.
	exportScope := exports.ExportScope()

	for name, st := range scope.Base() {
		if !st.IsPub {
			continue
		}

		if _, ok := exportScope.Search(name); !ok {
			exportScope.Insert(name, &ScopedType{IsPub: true, Type: st.Type})
			changed = true
		}
	}

	return changed, nil
}

// seedPrelude binds the built-in `fe` package into a fresh file scope.
func (r *FeTypeResolver) seedPrelude(scope *Scope) {
	fe := NewExportsFile()

	fe.scope.Insert("print", &ScopedType{
		IsPub: true,
		Type: &types.Callable{
			Special: types.SpecialPrint,
			Name:    "print",
			Params: []types.CallableParam{
				{Name: "text", Type: &types.String{Detail: types.StringUnknown}},
			},
		},
	})

	scope.Insert("fe", &ScopedType{
		IsPub: false,
		Type:  &types.Package{Name: "fe", Exports: fe},
	})
}

func (r *FeTypeResolver) notePending(err error) {
	r.pending = append(r.pending, err)
}

func (r *FeTypeResolver) errAt(kind token.ErrKind, t *token.Token, format string, args ...any) *token.CompileError {
	e := &token.CompileError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		File:    r.filePath,
		Origin:  token.CallerOrigin(2),
	}

	if t != nil {
		span := t.Span
		e.Span = &span
	}

	return e
}
