// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrum-lang/ferrum-compiler-sub000/lexer"
	"github.com/ferrum-lang/ferrum-compiler-sub000/parser"
	"github.com/ferrum-lang/ferrum-compiler-sub000/source"
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return logger
}

// resolveProject runs read → lex → parse → resolve over an in-memory
// project. files maps src-relative paths to contents.
func resolveProject(t *testing.T, files map[string]string) (*syntax.Dir, error) {
	t.Helper()

	fs := afero.NewMemMapFs()

	for path, content := range files {
		full := filepath.Join("/project/src", path)
		require.NoError(t, fs.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, afero.WriteFile(fs, full, []byte(content), 0o644))
	}

	logger := quietLogger()

	src, err := source.NewReader(fs, logger).ReadProject("/project/src")
	require.NoError(t, err)

	tokens, err := lexer.NewFeLexer(logger).ScanPackage(src)
	require.NoError(t, err)

	parsed, err := parser.NewFeSyntaxParser(syntax.NewIDGen(), logger).ParsePackage(tokens)
	require.NoError(t, err)

	root := parsed.(*syntax.Dir)

	if err := NewFeTypeResolver(logger).ResolvePackage(root); err != nil {
		return root, err
	}

	return root, nil
}

func mainFn(t *testing.T, root *syntax.Dir) *syntax.FnDecl {
	t.Helper()

	for _, decl := range root.Entry.Tree.Decls {
		if fn, ok := decl.(*syntax.FnDecl); ok && fn.Name.Lexeme == "main" {
			return fn
		}
	}

	t.Fatal("no main function in entry file")

	return nil
}

func TestResolveHelloWorld(t *testing.T) {
	root, err := resolveProject(t, map[string]string{
		"_main.fe": `use ::fe::print

pub fn main()
    print("Hello, World!")
;
`,
	})
	require.NoError(t, err)

	assert.True(t, syntax.PackageResolved(root))

	fn := mainFn(t, root)

	call := fn.Body.Stmts[0].(*syntax.ExprStmt).Expr.(*syntax.CallExpr)

	callable, ok := types.ActualType(call.Callee.Type()).(*types.Callable)
	require.True(t, ok, "print should resolve to a callable")
	assert.Equal(t, types.SpecialPrint, callable.Special)

	str, ok := call.Args[0].Value.Type().(*types.String)
	require.True(t, ok)
	assert.Equal(t, types.StringPlain, str.Detail)
}

func TestResolveConstantFolding(t *testing.T) {
	root, err := resolveProject(t, map[string]string{
		"_main.fe": `use ::fe::print

pub fn main()
    const x = 2
    const y = 3
    print("{x} + {y} = {x + y}")
;
`,
	})
	require.NoError(t, err)

	fn := mainFn(t, root)

	call := fn.Body.Stmts[2].(*syntax.ExprStmt).Expr.(*syntax.CallExpr)
	fmtStr := call.Args[0].Value.(*syntax.FmtStringLiteralExpr)

	sum := fmtStr.Rest[2].Expr.(*syntax.BinaryExpr)

	num, ok := sum.Type().(*types.Number)
	require.True(t, ok, "x + y should resolve to a number")
	require.NotNil(t, num.Int, "known operands should fold")
	assert.Equal(t, int64(5), *num.Int)
}

func TestResolveMutDropsKnownValues(t *testing.T) {
	root, err := resolveProject(t, map[string]string{
		"_main.fe": `pub fn main()
    mut i = 0
    i += 1
;
`,
	})
	require.NoError(t, err)

	fn := mainFn(t, root)

	decl := fn.Body.Stmts[0].(*syntax.VarDeclStmt)

	owned, ok := decl.Target.Type().(*types.Owned)
	require.True(t, ok)
	assert.Equal(t, types.OwnedMut, owned.Kind)

	num, ok := owned.Of.(*types.Number)
	require.True(t, ok)
	assert.Equal(t, types.NumberInteger, num.Kind)
	assert.Nil(t, num.Int, "a mutable binding must not keep a known value")
}

func TestResolveLoopBreakValue(t *testing.T) {
	root, err := resolveProject(t, map[string]string{
		"_main.fe": `use ::fe::print

pub fn main()
    mut i = 0
    const sum = loop
        if i > 10 then break i
        i += 1
    ;
    print("{sum}")
;
`,
	})
	require.NoError(t, err)

	fn := mainFn(t, root)

	sumDecl := fn.Body.Stmts[1].(*syntax.VarDeclStmt)
	loop := sumDecl.Value.Value.(*syntax.LoopExpr)

	num, ok := loop.Type().(*types.Number)
	require.True(t, ok, "loop expression takes its type from the break value")
	assert.Equal(t, types.NumberInteger, num.Kind)

	ifStmt := loop.Block.Stmts[0].(*syntax.IfStmt)
	breakStmt := ifStmt.InlineThen.(*syntax.BreakStmt)

	require.NotNil(t, breakStmt.Handler)
	assert.Equal(t, syntax.HandlerLoopExpr, breakStmt.Handler.Kind)
	assert.Equal(t, loop.ID, breakStmt.Handler.Target)
}

func TestResolveStructConstructAndGet(t *testing.T) {
	root, err := resolveProject(t, map[string]string{
		"_main.fe": `use ::fe::print

pub struct Point { pub x: Int, pub y: Int }

pub fn main()
    const p = Point { x: 3, y: 4 }
    print("{p.x},{p.y}")
;
`,
	})
	require.NoError(t, err)

	fn := mainFn(t, root)

	varDecl := fn.Body.Stmts[0].(*syntax.VarDeclStmt)

	instance, ok := varDecl.Value.Value.Type().(*types.Instance)
	require.True(t, ok)
	assert.Equal(t, "Point", instance.Name)
	assert.Len(t, instance.Fields, 2)

	call := fn.Body.Stmts[1].(*syntax.ExprStmt).Expr.(*syntax.CallExpr)
	fmtStr := call.Args[0].Value.(*syntax.FmtStringLiteralExpr)

	get := fmtStr.Rest[0].Expr.(*syntax.GetExpr)

	// p is an owned const binding; the wrapper is preserved on the
	// field type.
	owned, ok := get.Type().(*types.Owned)
	require.True(t, ok)
	assert.Equal(t, types.OwnedConst, owned.Kind)

	num, ok := owned.Of.(*types.Number)
	require.True(t, ok)
	assert.Equal(t, types.NumberInteger, num.Kind)
}

func TestResolveCrossPackageUse(t *testing.T) {
	root, err := resolveProject(t, map[string]string{
		"_main.fe": `use ::fe::print
use ./util::greet

pub fn main()
    greet()
;
`,
		"util/_pkg.fe": `use ::fe::print

pub fn greet()
    print("Hello from util!")
;
`,
	})
	require.NoError(t, err)

	assert.True(t, syntax.PackageResolved(root))

	use := root.Entry.Tree.Uses[1]
	leaf := use.Path.Next.Single

	callable, ok := leaf.Resolved.(*types.Callable)
	require.True(t, ok, "greet should resolve through the util exports")
	assert.Equal(t, "greet", callable.Name)
}

func TestResolvePrivateNotExported(t *testing.T) {
	_, err := resolveProject(t, map[string]string{
		"_main.fe": `use ./util::hidden

pub fn main()
    hidden()
;
`,
		"util/_pkg.fe": `fn hidden()
    return
;
`,
	})
	require.Error(t, err)
	assert.True(t, token.IsKind(err, token.ErrName), "got %v", err)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		main string
		kind token.ErrKind
	}{
		{
			name: "assign to const",
			main: "pub fn main()\n    const x = 1\n    x = 2\n;\n",
			kind: token.ErrAssign,
		},
		{
			name: "compound assign to const",
			main: "pub fn main()\n    const x = 1\n    x += 2\n;\n",
			kind: token.ErrAssign,
		},
		{
			name: "break outside loop",
			main: "pub fn main()\n    break\n;\n",
			kind: token.ErrScope,
		},
		{
			name: "then outside if expression",
			main: "pub fn main()\n    then 1\n;\n",
			kind: token.ErrScope,
		},
		{
			name: "unknown identifier",
			main: "pub fn main()\n    const x = nope\n;\n",
			kind: token.ErrName,
		},
		{
			name: "unknown use path",
			main: "use ./missing::thing\n\npub fn main()\n    return\n;\n",
			kind: token.ErrName,
		},
		{
			name: "call non-callable",
			main: "pub fn main()\n    const x = 1\n    x()\n;\n",
			kind: token.ErrType,
		},
		{
			name: "too many arguments",
			main: "use ::fe::print\n\npub fn main()\n    print(\"a\", \"b\")\n;\n",
			kind: token.ErrType,
		},
		{
			name: "condition must be bool",
			main: "pub fn main()\n    if 1\n        return\n    ;\n;\n",
			kind: token.ErrType,
		},
		{
			name: "unknown construct field",
			main: "pub struct P { pub x: Int }\n\npub fn main()\n    const p = P { z: 1 }\n;\n",
			kind: token.ErrType,
		},
		{
			name: "duplicate construct field",
			main: "pub struct P { pub x: Int }\n\npub fn main()\n    const p = P { x: 1, x: 2 }\n;\n",
			kind: token.ErrType,
		},
		{
			name: "missing construct field",
			main: "pub struct P { pub x: Int, pub y: Int }\n\npub fn main()\n    const p = P { x: 1 }\n;\n",
			kind: token.ErrType,
		},
		{
			name: "arg type mismatch",
			main: "use ::fe::print\n\npub fn main()\n    print(1)\n;\n",
			kind: token.ErrType,
		},
		{
			name: "duplicate labels in one function",
			main: "pub fn main()\n    'a loop\n        break 'a\n    ;\n    'a loop\n        break 'a\n    ;\n;\n",
			kind: token.ErrScope,
		},
		{
			name: "range operator unsupported",
			main: "pub fn main()\n    const r = 1 .. 10\n;\n",
			kind: token.ErrUnsupported,
		},
		{
			name: "if expression needs else",
			main: "pub fn main()\n    const x = if true then 1\n;\n",
			kind: token.ErrUnsupported,
		},
		{
			name: "return outside value context",
			main: "pub fn main()\n    return 1\n;\n",
			kind: token.ErrType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveProject(t, map[string]string{"_main.fe": tt.main})
			require.Error(t, err)
			assert.True(t, token.IsKind(err, tt.kind), "got %v, want kind %s", err, tt.kind)
		})
	}
}

func TestResolveTernaryIfExpr(t *testing.T) {
	root, err := resolveProject(t, map[string]string{
		"_main.fe": `use ::fe::print

pub fn main()
    const big = if 2 > 1 then 10 else 20
    print("{big}")
;
`,
	})
	require.NoError(t, err)

	fn := mainFn(t, root)

	varDecl := fn.Body.Stmts[0].(*syntax.VarDeclStmt)

	ifExpr, ok := varDecl.Value.Value.(*syntax.IfExpr)
	require.True(t, ok)

	num, ok := ifExpr.Type().(*types.Number)
	require.True(t, ok)
	assert.Equal(t, types.NumberInteger, num.Kind)
}

func TestResolveFnReturnTypeChecked(t *testing.T) {
	root, err := resolveProject(t, map[string]string{
		"_main.fe": `fn answer(): Int
    return 42
;

pub fn main()
    const x = answer()
;
`,
	})
	require.NoError(t, err)

	fn := mainFn(t, root)

	varDecl := fn.Body.Stmts[0].(*syntax.VarDeclStmt)

	call := varDecl.Value.Value.(*syntax.CallExpr)
	assert.True(t, call.HasReturn)

	num, ok := call.Type().(*types.Number)
	require.True(t, ok)
	assert.Equal(t, types.NumberInteger, num.Kind)
}

func TestResolveScopeBalance(t *testing.T) {
	// Nested scopes must push and pop in balance even with deep
	// nesting; a converged, fully resolved package is the observable
	// effect.
	root, err := resolveProject(t, map[string]string{
		"_main.fe": `pub fn main()
    mut i = 0
    while i < 3
        if i > 1
            i += 1
        ;
        i += 1
    ;
;
`,
	})
	require.NoError(t, err)
	assert.True(t, syntax.PackageResolved(root))
}

func TestResolveMissingPkgEntryFileFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/project/src/util", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/project/src/_main.fe", []byte("pub fn main()\n    return\n;\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/project/src/util/helper.fe", []byte("pub fn h()\n    return\n;\n"), 0o644))

	_, err := source.NewReader(fs, quietLogger()).ReadProject("/project/src")
	require.Error(t, err)
	assert.True(t, token.IsKind(err, token.ErrIO))
}
