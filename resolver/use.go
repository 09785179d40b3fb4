// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

// visitUse resolves a use declaration as far as the export scopes allow
// this pass, binding resolved leaves into the current file scope. It is
// re-visited on later passes to pick up types that resolve late.
func (r *FeTypeResolver) visitUse(use *syntax.Use) (bool, error) {
	if syntax.UseResolved(use) {
		return false, nil
	}

	isPub := use.PubToken != nil

	bindings, changed, err := r.resolveUsePath(use.Path, nil)
	if err != nil {
		return false, err
	}

	for _, binding := range bindings {
		if existing, ok := r.scope.Search(binding.name); ok && types.Equal(existing.Type, binding.typ) {
			continue
		}

		r.scope.Insert(binding.name, &ScopedType{IsPub: isPub, Type: binding.typ})
		changed = true
	}

	return changed, nil
}

type useBinding struct {
	name string
	typ  types.FeType
}

// resolveUsePath walks one use path segment. searchExports is nil on the
// first segment; the prefix decides where the walk starts: `~/` at the
// root package, `./` at the current package, bare or `::` at the current
// file's scope (where the `fe` prelude package is bound).
func (r *FeTypeResolver) resolveUsePath(path *syntax.UseStaticPath, searchExports types.Exports) ([]useBinding, bool, error) {
	changed := false

	var next types.Exports

	if searchExports == nil {
		var pre *ExportsDir

		if path.Pre != nil {
			switch path.Pre.Kind {
			case token.TildeSlash:
				pre = r.rootExports
			case token.DotSlash:
				pre = r.currentPkgExports
			}
		}

		if pre != nil {
			local, ok := pre.Local(path.Name.Lexeme)
			if !ok {
				r.notePending(r.errAt(token.ErrName, path.Name, "use path resolves to nothing: no package %q", path.Name.Lexeme))
				return nil, false, nil
			}

			if path.IsLeaf() {
				// `use ./util` binds the package itself.
				typ := &types.Package{Name: path.Name.Lexeme, Exports: local}

				if !types.Equal(path.Resolved, types.FeType(typ)) {
					path.Resolved = typ
					return []useBinding{{name: path.Name.Lexeme, typ: typ}}, true, nil
				}

				return []useBinding{{name: path.Name.Lexeme, typ: typ}}, false, nil
			}

			next = local
		} else if !path.IsLeaf() {
			// Bare or `::` prefix: the first segment names a package
			// visible in the file scope.
			found, ok := r.scope.Search(path.Name.Lexeme)
			if !ok {
				r.notePending(r.errAt(token.ErrName, path.Name, "use path resolves to nothing: %q not in scope", path.Name.Lexeme))
				return nil, false, nil
			}

			pkg, ok := found.Type.(*types.Package)
			if !ok {
				return nil, false, r.errAt(token.ErrName, path.Name, "use path prefix %q is not a package", path.Name.Lexeme)
			}

			next = pkg.Exports
		}
	} else {
		if path.IsLeaf() {
			next = searchExports
		} else {
			local, ok := searchExports.Local(path.Name.Lexeme)
			if ok {
				next = local
			} else if found, ok := searchExports.Search(path.Name.Lexeme); ok {
				pkg, isPkg := found.(*types.Package)
				if !isPkg {
					return nil, false, r.errAt(token.ErrName, path.Name, "use path prefix %q is not a package", path.Name.Lexeme)
				}

				next = pkg.Exports
			} else {
				r.notePending(r.errAt(token.ErrName, path.Name, "use path resolves to nothing: no package %q", path.Name.Lexeme))
				return nil, false, nil
			}
		}
	}

	if path.IsLeaf() {
		if path.Resolved != nil {
			return []useBinding{{name: path.Name.Lexeme, typ: path.Resolved}}, false, nil
		}

		scope := next
		if scope == nil {
			r.notePending(r.errAt(token.ErrName, path.Name, "use path resolves to nothing: %q", path.Name.Lexeme))
			return nil, false, nil
		}

		typ, ok := scope.Search(path.Name.Lexeme)
		if !ok {
			// The leaf may itself name a sub-package.
			if local, isLocal := scope.Local(path.Name.Lexeme); isLocal {
				typ = &types.Package{Name: path.Name.Lexeme, Exports: local}
				ok = true
			}
		}

		if !ok {
			r.notePending(r.errAt(token.ErrName, path.Name, "use path resolves to nothing: %q", path.Name.Lexeme))
			return nil, false, nil
		}

		path.Resolved = typ

		return []useBinding{{name: path.Name.Lexeme, typ: typ}}, true, nil
	}

	var bindings []useBinding

	if path.Next.Single != nil {
		subBindings, subChanged, err := r.resolveUsePath(path.Next.Single, next)
		if err != nil {
			return nil, false, err
		}

		bindings = append(bindings, subBindings...)
		changed = changed || subChanged

		return bindings, changed, nil
	}

	for _, branch := range path.Next.Many {
		subBindings, subChanged, err := r.resolveUsePath(branch, next)
		if err != nil {
			return nil, false, err
		}

		bindings = append(bindings, subBindings...)
		changed = changed || subChanged
	}

	return bindings, changed, nil
}
