// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package lower turns the fully-typed syntax tree into Rust IR.
// Lowering is a structural walk; most constructs map one-to-one.
package lower

import (
	"path"
	"sort"

	"github.com/ferrum-lang/ferrum-compiler-sub000/ir"
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

// RustSyntaxCompiler lowers one resolved package tree.
type RustSyntaxCompiler struct {
	out *ir.RustIR

	file    *ir.RustIRFile
	modPath []string
}

// CompilePackage lowers the resolved project (rooted at its src
// directory package) into Rust IR.
func CompilePackage(root *syntax.Dir) (*ir.RustIR, error) {
	c := &RustSyntaxCompiler{out: &ir.RustIR{}}

	if err := c.compileDir(root, true); err != nil {
		return nil, err
	}

	return c.out, nil
}

func sortedNames(local map[string]syntax.Package) []string {
	names := make([]string, 0, len(local))
	for name := range local {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (c *RustSyntaxCompiler) compileDir(dir *syntax.Dir, isRoot bool) error {
	filePath := "main.rs"
	if !isRoot {
		filePath = path.Join(path.Join(c.modPath...), "mod.rs")
	}

	names := sortedNames(dir.Local)

	file := &ir.RustIRFile{Path: filePath}
	file.Mods = append(file.Mods, names...)

	c.out.Files = append(c.out.Files, file)
	c.file = file

	if err := c.compileFile(dir.Entry); err != nil {
		return err
	}

	for _, name := range names {
		sub := dir.Local[name]

		switch sub := sub.(type) {
		case *syntax.File:
			subFile := &ir.RustIRFile{
				Path: path.Join(path.Join(c.modPath...), name+".rs"),
			}

			c.out.Files = append(c.out.Files, subFile)
			c.file = subFile

			// `./` inside a file package anchors at the enclosing
			// directory, so the module path does not grow here.
			if err := c.compileFile(sub); err != nil {
				return err
			}

		case *syntax.Dir:
			prev := c.modPath
			c.modPath = append(append([]string{}, prev...), name)

			if err := c.compileDir(sub, false); err != nil {
				return err
			}

			c.modPath = prev
		}

		c.file = file
	}

	return nil
}

func (c *RustSyntaxCompiler) compileFile(file *syntax.File) error {
	for _, use := range file.Tree.Uses {
		if err := c.lowerUse(use); err != nil {
			return err
		}
	}

	for _, decl := range file.Tree.Decls {
		if err := c.lowerDecl(decl); err != nil {
			return err
		}
	}

	return nil
}

// ---- uses ----

func (c *RustSyntaxCompiler) lowerUse(use *syntax.Use) error {
	irPath := c.lowerUsePath(use.Path, true)
	if irPath == nil {
		// Nothing left after pruning built-ins.
		return nil
	}

	c.file.Uses = append(c.file.Uses, &ir.RustIRUse{
		Pub:  use.PubToken != nil,
		Path: irPath,
	})

	return nil
}

// lowerUsePath maps a Fe use path onto a crate-relative Rust use path.
// `~/` and `::` anchor at the crate root; `./` anchors at the current
// module. Leaves that resolved to built-ins (the `fe` prelude) are
// pruned.
func (c *RustSyntaxCompiler) lowerUsePath(p *syntax.UseStaticPath, first bool) *ir.RustIRUsePath {
	if first {
		tail := c.lowerUsePathSegment(p)
		if tail == nil {
			return nil
		}

		head := &ir.RustIRUsePath{Name: "crate"}
		chain := head

		if p.Pre != nil && p.Pre.Kind == token.DotSlash {
			for _, seg := range c.modPath {
				next := &ir.RustIRUsePath{Name: seg}
				chain.Next = next
				chain = next
			}
		}

		chain.Next = tail

		return head
	}

	return c.lowerUsePathSegment(p)
}

func (c *RustSyntaxCompiler) lowerUsePathSegment(p *syntax.UseStaticPath) *ir.RustIRUsePath {
	if p.IsLeaf() {
		if isBuiltinLeaf(p.Resolved) {
			return nil
		}

		return &ir.RustIRUsePath{Name: p.Name.Lexeme}
	}

	if isBuiltinPackage(p) {
		return nil
	}

	seg := &ir.RustIRUsePath{Name: p.Name.Lexeme}

	if p.Next.Single != nil {
		next := c.lowerUsePathSegment(p.Next.Single)
		if next == nil {
			return nil
		}

		seg.Next = next

		return seg
	}

	var many []*ir.RustIRUsePath

	for _, branch := range p.Next.Many {
		if lowered := c.lowerUsePathSegment(branch); lowered != nil {
			many = append(many, lowered)
		}
	}

	if len(many) == 0 {
		return nil
	}

	seg.Many = many

	return seg
}

// isBuiltinLeaf prunes imports whose binding the host language provides
// natively, such as the print callable.
func isBuiltinLeaf(t types.FeType) bool {
	callable, ok := t.(*types.Callable)
	return ok && callable.Special == types.SpecialPrint
}

func isBuiltinPackage(p *syntax.UseStaticPath) bool {
	return p.Pre == nil && p.Name.Lexeme == "fe" ||
		p.Pre != nil && p.Pre.Kind == token.DoubleColon && p.Name.Lexeme == "fe"
}

// ---- declarations ----

func (c *RustSyntaxCompiler) lowerDecl(decl syntax.Decl) error {
	switch decl := decl.(type) {
	case *syntax.FnDecl:
		return c.lowerFnDecl(decl)

	case *syntax.StructDecl:
		return c.lowerStructDecl(decl)
	}

	return token.NewError(token.ErrInternal, "unknown decl node %T", decl)
}

func (c *RustSyntaxCompiler) lowerFnDecl(decl *syntax.FnDecl) error {
	fn := &ir.RustIRFnDecl{
		Pub:  decl.IsPub(),
		Name: decl.Name.Lexeme,
	}

	for _, param := range decl.Params {
		typ, err := rustTypeOf(param.Resolved)
		if err != nil {
			return err
		}

		fn.Params = append(fn.Params, ir.RustIRFnParam{
			Name: param.Name.Lexeme,
			Type: typ,
		})
	}

	if decl.Return != nil {
		typ, err := rustTypeOf(decl.Return.Resolved)
		if err != nil {
			return err
		}

		fn.Return = &typ
	}

	body, err := c.lowerBlock(decl.Body)
	if err != nil {
		return err
	}

	fn.Body = body

	c.file.Decls = append(c.file.Decls, fn)

	return nil
}

func (c *RustSyntaxCompiler) lowerStructDecl(decl *syntax.StructDecl) error {
	st := &ir.RustIRStructDecl{
		Pub:  decl.IsPub(),
		Name: decl.Name.Lexeme,
	}

	for _, field := range decl.Fields {
		typ, err := rustTypeOf(field.StaticType.Type())
		if err != nil {
			return err
		}

		st.Fields = append(st.Fields, ir.RustIRStructField{
			Pub:  field.PubToken != nil,
			Name: field.Name.Lexeme,
			Type: typ,
		})
	}

	c.file.Decls = append(c.file.Decls, st)

	return nil
}

// rustTypeOf maps a resolved Fe type onto its printed Rust type.
func rustTypeOf(t types.FeType) (ir.RustIRStaticType, error) {
	switch t := t.(type) {
	case *types.Ref:
		inner, err := rustTypeOf(t.Of)
		if err != nil {
			return ir.RustIRStaticType{}, err
		}

		kind := ir.RustIRRefShared
		if t.Kind == types.RefMut {
			kind = ir.RustIRRefMut
		}

		return ir.RustIRStaticType{Ref: kind, Name: inner.Name}, nil

	case *types.Owned:
		return rustTypeOf(t.Of)

	case *types.Number:
		if t.Kind == types.NumberDecimal {
			return ir.RustIRStaticType{Name: "f64"}, nil
		}

		return ir.RustIRStaticType{Name: "i64"}, nil

	case *types.String:
		return ir.RustIRStaticType{Name: "String"}, nil

	case *types.Bool:
		return ir.RustIRStaticType{Name: "bool"}, nil

	case *types.Struct:
		return ir.RustIRStaticType{Name: t.Name}, nil

	case *types.Instance:
		return ir.RustIRStaticType{Name: t.Name}, nil
	}

	return ir.RustIRStaticType{}, token.NewError(token.ErrInternal, "type %s has no Rust rendering", t)
}
