// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package syntax

// Resolvable checks: a node is resolved once every type fact the
// resolver can learn about it has been learned. The fixed-point loop
// keeps running passes until the whole package tree reports resolved.

// PackageResolved reports whether every file of the tree is resolved.
func PackageResolved(pkg Package) bool {
	switch pkg := pkg.(type) {
	case *File:
		return TreeResolved(pkg.Tree)

	case *Dir:
		if !TreeResolved(pkg.Entry.Tree) {
			return false
		}

		for _, local := range pkg.Local {
			if !PackageResolved(local) {
				return false
			}
		}

		return true
	}

	return false
}

func TreeResolved(t *Tree) bool {
	for _, use := range t.Uses {
		if !UseResolved(use) {
			return false
		}
	}

	for _, decl := range t.Decls {
		if !DeclResolved(decl) {
			return false
		}
	}

	return true
}

func UseResolved(u *Use) bool {
	return usePathResolved(u.Path)
}

func usePathResolved(p *UseStaticPath) bool {
	if p.IsLeaf() {
		return p.Resolved != nil
	}

	if p.Next.Single != nil {
		return usePathResolved(p.Next.Single)
	}

	for _, branch := range p.Next.Many {
		if !usePathResolved(branch) {
			return false
		}
	}

	return true
}

func DeclResolved(d Decl) bool {
	switch d := d.(type) {
	case *FnDecl:
		return FnSignatureResolved(d) && BlockResolved(d.Body)

	case *StructDecl:
		return d.Resolved
	}

	return false
}

func FnSignatureResolved(d *FnDecl) bool {
	if !d.SignatureResolved {
		return false
	}

	for _, param := range d.Params {
		if param.Resolved == nil {
			return false
		}
	}

	if d.Return != nil && d.Return.Resolved == nil {
		return false
	}

	return true
}

func BlockResolved(b *CodeBlock) bool {
	if b == nil {
		return true
	}

	for _, stmt := range b.Stmts {
		if !StmtResolved(stmt) {
			return false
		}
	}

	return true
}

func StmtResolved(s Stmt) bool {
	switch s := s.(type) {
	case *ExprStmt:
		return ExprResolved(s.Expr)

	case *VarDeclStmt:
		if s.Value != nil && !ExprResolved(s.Value.Value) {
			return false
		}

		return s.Target.Type() != nil

	case *AssignStmt:
		return ExprResolved(s.Target) && ExprResolved(s.Value)

	case *ReturnStmt:
		if s.Value == nil {
			return true
		}

		return ExprResolved(s.Value)

	case *IfStmt:
		if !ExprResolved(s.Condition) {
			return false
		}

		if s.InlineThen != nil && !StmtResolved(s.InlineThen) {
			return false
		}

		if !BlockResolved(s.Then) {
			return false
		}

		for _, elseIf := range s.ElseIfs {
			if !ExprResolved(elseIf.Condition) || !BlockResolved(elseIf.Then) {
				return false
			}
		}

		if s.Else != nil && !BlockResolved(s.Else.Then) {
			return false
		}

		return true

	case *LoopStmt:
		return BlockResolved(s.Block)

	case *WhileStmt:
		return ExprResolved(s.Condition) && BlockResolved(s.Block)

	case *BreakStmt:
		if s.Handler == nil {
			return false
		}

		if s.Value != nil && (!ExprResolved(s.Value) || s.Resolved == nil) {
			return false
		}

		return true

	case *ThenStmt:
		if s.Handler == nil {
			return false
		}

		return ExprResolved(s.Value) && s.Resolved != nil
	}

	return false
}

func ExprResolved(e Expr) bool {
	if e == nil {
		return true
	}

	switch e := e.(type) {
	case *BoolLiteralExpr, *NumberLiteralExpr, *PlainStringLiteralExpr, *CharLiteralExpr:
		return e.Type() != nil

	case *FmtStringLiteralExpr:
		for _, part := range e.Rest {
			if !ExprResolved(part.Expr) {
				return false
			}
		}

		return e.Type() != nil

	case *IdentExpr:
		return e.Type() != nil

	case *CallExpr:
		if !ExprResolved(e.Callee) {
			return false
		}

		for _, arg := range e.Args {
			if arg.Resolved == nil || !ExprResolved(arg.Value) {
				return false
			}
		}

		if e.HasReturn && e.Type() == nil {
			return false
		}

		return true

	case *UnaryExpr:
		return e.Type() != nil && ExprResolved(e.Value)

	case *BinaryExpr:
		return e.Type() != nil && ExprResolved(e.Lhs) && ExprResolved(e.Rhs)

	case *StaticRefExpr:
		return e.Type() != nil

	case *ConstructExpr:
		if !ExprResolved(e.Target) {
			return false
		}

		for _, field := range e.Fields {
			if !ExprResolved(field.Value) {
				return false
			}
		}

		return e.Type() != nil

	case *GetExpr:
		return e.Type() != nil && ExprResolved(e.Target)

	case *IfExpr:
		if !ExprResolved(e.Condition) {
			return false
		}

		if e.Then.Expr != nil && !ExprResolved(e.Then.Expr) {
			return false
		}

		if !BlockResolved(e.Then.Block) {
			return false
		}

		for _, elseIf := range e.ElseIfs {
			if !ExprResolved(elseIf.Condition) || !ExprResolved(elseIf.Expr) || !BlockResolved(elseIf.Block) {
				return false
			}
		}

		if e.Else != nil {
			if !ExprResolved(e.Else.Expr) || !BlockResolved(e.Else.Block) {
				return false
			}
		}

		return e.Type() != nil

	case *LoopExpr:
		return e.Type() != nil && BlockResolved(e.Block)

	case *WhileExpr:
		return e.Type() != nil && ExprResolved(e.Condition) && BlockResolved(e.Block)
	}

	return false
}
