// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

// finalizePackage is the optional→total conversion gate: resolution has
// claimed convergence, so any type fact still missing is an internal
// invariant violation, reported with the node that lacks it.
func finalizePackage(pkg syntax.Package) error {
	switch pkg := pkg.(type) {
	case *syntax.File:
		return finalizeFile(pkg)

	case *syntax.Dir:
		if err := finalizeFile(pkg.Entry); err != nil {
			return err
		}

		for _, local := range pkg.Local {
			if err := finalizePackage(local); err != nil {
				return err
			}
		}

		return nil
	}

	return token.NewError(token.ErrInternal, "unknown syntax package node %T", pkg)
}

func finalizeFile(file *syntax.File) error {
	for _, use := range file.Tree.Uses {
		if !syntax.UseResolved(use) {
			return token.NewError(token.ErrInternal,
				"use %s in %q survived resolution unresolved", use.ID, file.Path)
		}
	}

	for _, decl := range file.Tree.Decls {
		if !syntax.DeclResolved(decl) {
			return token.NewError(token.ErrInternal,
				"decl %s in %q survived resolution unresolved", decl.NodeID(), file.Path)
		}

		if fn, ok := decl.(*syntax.FnDecl); ok {
			if err := finalizeBlock(fn.Body, file.Path); err != nil {
				return err
			}
		}
	}

	return nil
}

func finalizeBlock(block *syntax.CodeBlock, path string) error {
	if block == nil {
		return nil
	}

	for _, stmt := range block.Stmts {
		if !syntax.StmtResolved(stmt) {
			return token.NewError(token.ErrInternal,
				"stmt %s in %q survived resolution unresolved", stmt.NodeID(), path)
		}
	}

	return nil
}
