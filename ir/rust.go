// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package ir defines the Rust-targeting intermediate representation.
// The tree mirrors the host language's surface closely enough that the
// code generator can print it without further analysis.
package ir

// RustIR is the lowered form of a whole project.
type RustIR struct {
	Files []*RustIRFile
}

// RustIRFile becomes one .rs file. Path is relative to the generated
// crate's src directory.
type RustIRFile struct {
	Path  string
	Mods  []string
	Uses  []*RustIRUse
	Decls []RustIRDecl
}

// RustIRUse is a `use …;` item.
type RustIRUse struct {
	Pub  bool
	Path *RustIRUsePath
}

// RustIRUsePath is a use path segment chain. A segment either continues
// with Next, fans out with Many, or terminates.
type RustIRUsePath struct {
	Name string
	Next *RustIRUsePath
	Many []*RustIRUsePath
}

// ---- declarations ----

type RustIRDecl interface {
	rustIRDecl()
}

type RustIRRefKind int

const (
	RustIRRefNone RustIRRefKind = iota
	RustIRRefShared
	RustIRRefMut
)

// RustIRStaticType is a printed type: an optional reference plus a name.
type RustIRStaticType struct {
	Ref  RustIRRefKind
	Name string
}

type RustIRFnParam struct {
	Name string
	Type RustIRStaticType
}

type RustIRFnDecl struct {
	Pub    bool
	Name   string
	Params []RustIRFnParam
	Return *RustIRStaticType
	Body   []RustIRStmt
}

func (*RustIRFnDecl) rustIRDecl() {}

type RustIRStructField struct {
	Pub  bool
	Name string
	Type RustIRStaticType
}

type RustIRStructDecl struct {
	Pub    bool
	Name   string
	Fields []RustIRStructField
}

func (*RustIRStructDecl) rustIRDecl() {}

// ---- statements ----

type RustIRStmt interface {
	rustIRStmt()
}

// RustIRExprStmt is `expr;`.
type RustIRExprStmt struct {
	Expr RustIRExpr
}

func (*RustIRExprStmt) rustIRStmt() {}

// RustIRImplicitReturnStmt is a trailing expression without `;`.
type RustIRImplicitReturnStmt struct {
	Expr RustIRExpr
}

func (*RustIRImplicitReturnStmt) rustIRStmt() {}

// RustIRLetStmt is `let [mut] name = value;`.
type RustIRLetStmt struct {
	Mut   bool
	Name  string
	Type  *RustIRStaticType
	Value RustIRExpr
}

func (*RustIRLetStmt) rustIRStmt() {}

// RustIRReturnStmt is `return [expr];`.
type RustIRReturnStmt struct {
	Expr RustIRExpr
}

func (*RustIRReturnStmt) rustIRStmt() {}

// RustIRLoopStmt is `['label:] loop { … }`.
type RustIRLoopStmt struct {
	Label string
	Stmts []RustIRStmt
}

func (*RustIRLoopStmt) rustIRStmt() {}

// RustIRWhileStmt is `while cond { … }`.
type RustIRWhileStmt struct {
	Condition RustIRExpr
	Stmts     []RustIRStmt
}

func (*RustIRWhileStmt) rustIRStmt() {}

// RustIRBreakStmt is `break ['label] [expr];`.
type RustIRBreakStmt struct {
	Label string
	Expr  RustIRExpr
}

func (*RustIRBreakStmt) rustIRStmt() {}

// ---- expressions ----

type RustIRExpr interface {
	rustIRExpr()
}

type RustIRIdentExpr struct {
	Name string
}

func (*RustIRIdentExpr) rustIRExpr() {}

// RustIRStringLiteralExpr holds a complete quoted Rust string literal.
type RustIRStringLiteralExpr struct {
	Literal string
}

func (*RustIRStringLiteralExpr) rustIRExpr() {}

type RustIRBoolLiteralExpr struct {
	Value bool
}

func (*RustIRBoolLiteralExpr) rustIRExpr() {}

// RustIRNumberLiteralExpr holds the literal text verbatim.
type RustIRNumberLiteralExpr struct {
	Literal string
}

func (*RustIRNumberLiteralExpr) rustIRExpr() {}

// RustIRStaticRefExpr is a `::`-joined path such as `String::from`.
type RustIRStaticRefExpr struct {
	Path []string
}

func (*RustIRStaticRefExpr) rustIRExpr() {}

type RustIRCallExpr struct {
	Callee RustIRExpr
	Args   []RustIRExpr
}

func (*RustIRCallExpr) rustIRExpr() {}

// RustIRMacroFnCallExpr is `name!(args…)`.
type RustIRMacroFnCallExpr struct {
	Callee string
	Args   []RustIRExpr
}

func (*RustIRMacroFnCallExpr) rustIRExpr() {}

type RustIRUnaryOp int

const (
	RustIRUnaryNot RustIRUnaryOp = iota
	RustIRUnaryRefShared
	RustIRUnaryRefMut
)

type RustIRUnaryExpr struct {
	Op    RustIRUnaryOp
	Value RustIRExpr
}

func (*RustIRUnaryExpr) rustIRExpr() {}

// RustIRBinaryExpr prints `lhs op rhs`; Op is the operator text.
type RustIRBinaryExpr struct {
	Lhs RustIRExpr
	Op  string
	Rhs RustIRExpr
}

func (*RustIRBinaryExpr) rustIRExpr() {}

// RustIRAssignExpr prints `lhs op rhs` where op is `=`, `+=` or `-=`.
type RustIRAssignExpr struct {
	Lhs RustIRExpr
	Op  string
	Rhs RustIRExpr
}

func (*RustIRAssignExpr) rustIRExpr() {}

type RustIRElseIf struct {
	Condition RustIRExpr
	Then      []RustIRStmt
}

type RustIRIfExpr struct {
	Condition RustIRExpr
	Then      []RustIRStmt
	ElseIfs   []*RustIRElseIf
	Else      []RustIRStmt
	HasElse   bool
}

func (*RustIRIfExpr) rustIRExpr() {}

// RustIRLoopExpr is `['label:] loop { … }` in expression position.
type RustIRLoopExpr struct {
	Label string
	Stmts []RustIRStmt
}

func (*RustIRLoopExpr) rustIRExpr() {}

// RustIRBlockExpr is `['label:] { … }`.
type RustIRBlockExpr struct {
	Label string
	Stmts []RustIRStmt
}

func (*RustIRBlockExpr) rustIRExpr() {}

type RustIRConstructField struct {
	Name  string
	Value RustIRExpr
}

// RustIRConstructExpr is `Name { field: value, … }`.
type RustIRConstructExpr struct {
	Name   string
	Fields []*RustIRConstructField
}

func (*RustIRConstructExpr) rustIRExpr() {}

// RustIRGetExpr is `target.name`.
type RustIRGetExpr struct {
	Target RustIRExpr
	Name   string
}

func (*RustIRGetExpr) rustIRExpr() {}
