// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package syntax

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

// Expr is an expression. Every expression carries its resolved type
// (nil until the resolver fills it in).
type Expr interface {
	Node
	Typed
	exprNode()
}

// BoolLiteralExpr is `true` or `false`.
type BoolLiteralExpr struct {
	typed
	ID      NodeID
	Literal *token.Token
}

func (e *BoolLiteralExpr) NodeID() NodeID { return e.ID }
func (*BoolLiteralExpr) exprNode()        {}

// NumberLiteralExpr is an integer or decimal literal. Exactly one of
// Int/Dec is meaningful, per the literal token's kind.
type NumberLiteralExpr struct {
	typed
	ID      NodeID
	Literal *token.Token
	Int     int64
	Dec     float64
}

func (e *NumberLiteralExpr) NodeID() NodeID { return e.ID }
func (*NumberLiteralExpr) exprNode()        {}

func (e *NumberLiteralExpr) IsDecimal() bool {
	return e.Literal.Kind == token.DecimalNumber
}

// PlainStringLiteralExpr is a string without interpolation. The lexeme
// includes the surrounding quotes.
type PlainStringLiteralExpr struct {
	typed
	ID      NodeID
	Literal *token.Token
}

func (e *PlainStringLiteralExpr) NodeID() NodeID { return e.ID }
func (*PlainStringLiteralExpr) exprNode()        {}

// CharLiteralExpr is a character literal.
type CharLiteralExpr struct {
	typed
	ID      NodeID
	Literal *token.Token
}

func (e *CharLiteralExpr) NodeID() NodeID { return e.ID }
func (*CharLiteralExpr) exprNode()        {}

// FmtStringPart pairs an interpolated expression with the literal text
// that follows it (a MidFmtString or the final CloseFmtString token).
type FmtStringPart struct {
	Expr   Expr
	String *token.Token
}

// FmtStringLiteralExpr is `"text {expr} text"`. First is the
// OpenFmtString token.
type FmtStringLiteralExpr struct {
	typed
	ID    NodeID
	First *token.Token
	Rest  []*FmtStringPart
}

func (e *FmtStringLiteralExpr) NodeID() NodeID { return e.ID }
func (*FmtStringLiteralExpr) exprNode()        {}

// IdentExpr is a bare identifier.
type IdentExpr struct {
	typed
	ID    NodeID
	Ident *token.Token
}

func (e *IdentExpr) NodeID() NodeID { return e.ID }
func (*IdentExpr) exprNode()        {}

// CallArg is one argument of a call.
type CallArg struct {
	Value      Expr
	CommaToken *token.Token

	Resolved types.FeType
}

// CallExpr is `callee(args…)`.
type CallExpr struct {
	ID NodeID

	Callee          Expr
	OpenParenToken  *token.Token
	PreCommaToken   *token.Token
	Args            []*CallArg
	CloseParenToken *token.Token

	// typ is the callee's return type. HasReturn distinguishes a
	// void call (no type will ever arrive) from an unresolved one.
	typed
	HasReturn bool
}

func (e *CallExpr) NodeID() NodeID { return e.ID }
func (*CallExpr) exprNode()        {}

// UnaryOpKind is the unary operator.
type UnaryOpKind int

const (
	UnaryNot UnaryOpKind = iota
	UnaryRefConst
	UnaryRefMut
)

// UnaryExpr is `not value`, `&value`, `&const value`, or `&mut value`.
type UnaryExpr struct {
	typed
	ID NodeID

	Op      UnaryOpKind
	OpToken *token.Token
	// MutToken/ConstToken qualify a `&` operator.
	MutToken   *token.Token
	ConstToken *token.Token

	Value Expr
}

func (e *UnaryExpr) NodeID() NodeID { return e.ID }
func (*UnaryExpr) exprNode()        {}

// BinaryOpKind is the binary operator.
type BinaryOpKind int

const (
	BinaryAdd BinaryOpKind = iota
	BinarySubtract
	BinaryMultiply
	BinaryDivide
	BinaryModulo
	BinaryLess
	BinaryLessEq
	BinaryGreater
	BinaryGreaterEq
	BinaryEqualEqual
	BinaryNotEqual
	BinaryAnd
	BinaryOr
	BinaryRange
)

// BinaryExpr is `lhs op rhs`.
type BinaryExpr struct {
	typed
	ID NodeID

	Lhs     Expr
	Op      BinaryOpKind
	OpToken *token.Token
	Rhs     Expr
}

func (e *BinaryExpr) NodeID() NodeID { return e.ID }
func (*BinaryExpr) exprNode()        {}

// StaticRefExpr is a `::`-qualified value reference such as
// `::pkg::value`.
type StaticRefExpr struct {
	typed
	ID NodeID

	Path *StaticPath
}

func (e *StaticRefExpr) NodeID() NodeID { return e.ID }
func (*StaticRefExpr) exprNode()        {}

// ConstructField is `name: value` inside a construct expression.
type ConstructField struct {
	Name       *token.Token
	ColonToken *token.Token
	Value      Expr
	CommaToken *token.Token
}

// ConstructExpr instantiates a struct: `Point { x: 1, y: 2 }`. Target
// is an IdentExpr or StaticRefExpr naming the struct.
type ConstructExpr struct {
	typed
	ID NodeID

	Target          Expr
	OpenBraceToken  *token.Token
	Fields          []*ConstructField
	CloseBraceToken *token.Token
}

func (e *ConstructExpr) NodeID() NodeID { return e.ID }
func (*ConstructExpr) exprNode()        {}

// GetExpr is field access: `target.name`.
type GetExpr struct {
	typed
	ID NodeID

	Target   Expr
	DotToken *token.Token
	Name     *token.Token
}

func (e *GetExpr) NodeID() NodeID { return e.ID }
func (*GetExpr) exprNode()        {}

// IfExprThen is the first branch of an if expression: either the
// ternary form `if c then expr` or a block.
type IfExprThen struct {
	// ThenToken and Expr are set for the ternary form.
	ThenToken *token.Token
	Expr      Expr

	// Label and Block are set for the block form.
	Label *token.Token
	Block *CodeBlock
}

type IfExprElseIf struct {
	ElseToken *token.Token
	IfToken   *token.Token
	Condition Expr

	ThenToken *token.Token
	Expr      Expr

	Label *token.Token
	Block *CodeBlock
}

type IfExprElse struct {
	ElseToken *token.Token

	Expr Expr

	Label *token.Token
	Block *CodeBlock
}

// IfExpr is the expression form of `if`; its value is produced by
// `then` statements in its branches (or by the ternary expressions).
type IfExpr struct {
	typed
	ID NodeID

	IfToken   *token.Token
	Condition Expr
	Then      *IfExprThen
	ElseIfs   []*IfExprElseIf
	Else      *IfExprElse

	SemicolonToken *token.Token
}

func (e *IfExpr) NodeID() NodeID { return e.ID }
func (*IfExpr) exprNode()        {}

// LoopExpr is the expression form of `loop`; its value is produced by
// `break <value>` statements.
type LoopExpr struct {
	typed
	ID NodeID

	Label     *token.Token
	LoopToken *token.Token
	Block     *CodeBlock
}

func (e *LoopExpr) NodeID() NodeID { return e.ID }
func (*LoopExpr) exprNode()        {}

// WhileExpr is the expression form of `while`.
type WhileExpr struct {
	typed
	ID NodeID

	Label      *token.Token
	WhileToken *token.Token
	Condition  Expr
	Block      *CodeBlock
}

func (e *WhileExpr) NodeID() NodeID { return e.ID }
func (*WhileExpr) exprNode()        {}

// LabelText strips the leading quote from a label token's lexeme.
func LabelText(label *token.Token) string {
	if label == nil {
		return ""
	}

	if len(label.Lexeme) > 0 && label.Lexeme[0] == '\'' {
		return label.Lexeme[1:]
	}

	return label.Lexeme
}
