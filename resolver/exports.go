// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

// ExportsPackage mirrors the syntax package tree; each file carries its
// own public export scope. The tree lives for the whole resolution.
type ExportsPackage interface {
	types.Exports
	// ExportScope is the file's (or dir entry file's) export scope.
	ExportScope() *Scope
}

type ExportsFile struct {
	scope *Scope
}

func NewExportsFile() *ExportsFile {
	return &ExportsFile{scope: NewScope()}
}

func (f *ExportsFile) ExportScope() *Scope {
	return f.scope
}

func (f *ExportsFile) Search(name string) (types.FeType, bool) {
	if found, ok := f.scope.Search(name); ok && found.IsPub {
		return found.Type, true
	}

	return nil, false
}

func (f *ExportsFile) Local(string) (types.Exports, bool) {
	return nil, false
}

type ExportsDir struct {
	entry *ExportsFile
	local map[string]ExportsPackage
}

func NewExportsDir() *ExportsDir {
	return &ExportsDir{
		entry: NewExportsFile(),
		local: map[string]ExportsPackage{},
	}
}

func (d *ExportsDir) ExportScope() *Scope {
	return d.entry.scope
}

func (d *ExportsDir) Search(name string) (types.FeType, bool) {
	return d.entry.Search(name)
}

func (d *ExportsDir) Local(name string) (types.Exports, bool) {
	pkg, ok := d.local[name]
	if !ok {
		return nil, false
	}

	return pkg, true
}

// LocalPackage returns the exports node of a named sub-package.
func (d *ExportsDir) LocalPackage(name string) (ExportsPackage, bool) {
	pkg, ok := d.local[name]
	return pkg, ok
}

// buildExports creates the exports tree for a syntax tree.
func buildExports(pkg syntax.Package) ExportsPackage {
	switch pkg := pkg.(type) {
	case *syntax.File:
		return NewExportsFile()

	case *syntax.Dir:
		dir := NewExportsDir()

		for name, local := range pkg.Local {
			dir.local[name] = buildExports(local)
		}

		return dir
	}

	return nil
}
