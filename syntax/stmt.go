// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package syntax

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

// Stmt is a statement. Statements are newline-terminated.
type Stmt interface {
	Node
	stmtNode()
}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	ID   NodeID
	Expr Expr
}

func (s *ExprStmt) NodeID() NodeID { return s.ID }
func (*ExprStmt) stmtNode()        {}

// VarDeclStmt is `const name = …` or `mut name = …`, with an optional
// explicit type annotation.
type VarDeclStmt struct {
	ID NodeID

	// MutToken has kind Const or Mut.
	MutToken *token.Token
	Target   *IdentExpr

	// Explicit is the optional `: type` annotation.
	Explicit *VarDeclExplicitType

	// Value is nil for a declaration without an initializer.
	Value *VarDeclValue
}

func (s *VarDeclStmt) NodeID() NodeID { return s.ID }
func (*VarDeclStmt) stmtNode()        {}

func (s *VarDeclStmt) IsMut() bool {
	return s.MutToken.Kind == token.Mut
}

type VarDeclExplicitType struct {
	ColonToken *token.Token
	StaticType *StaticType
}

type VarDeclValue struct {
	EqToken *token.Token
	Value   Expr
}

// AssignOp is the assignment operator kind.
type AssignOp int

const (
	AssignEq AssignOp = iota
	AssignPlusEq
	AssignMinusEq
)

// AssignStmt assigns Value into Target.
type AssignStmt struct {
	ID NodeID

	Target  Expr
	Op      AssignOp
	OpToken *token.Token
	Value   Expr
}

func (s *AssignStmt) NodeID() NodeID { return s.ID }
func (*AssignStmt) stmtNode()        {}

// ReturnStmt returns from the enclosing function, optionally with a
// value.
type ReturnStmt struct {
	ID NodeID

	ReturnToken *token.Token
	Value       Expr
}

func (s *ReturnStmt) NodeID() NodeID { return s.ID }
func (*ReturnStmt) stmtNode()        {}

// IfStmt is the statement form of `if`. The inline form
// `if cond then <stmt>` carries the single statement in InlineThen and
// has no block, else-ifs, or else.
type IfStmt struct {
	ID NodeID

	IfToken   *token.Token
	Condition Expr

	ThenLabel *token.Token
	Then      *CodeBlock

	ThenToken  *token.Token
	InlineThen Stmt

	ElseIfs []*ElseIfBranch
	Else    *ElseBranch

	SemicolonToken *token.Token
}

func (s *IfStmt) NodeID() NodeID { return s.ID }
func (*IfStmt) stmtNode()        {}

type ElseIfBranch struct {
	ElseToken *token.Token
	IfToken   *token.Token
	Condition Expr
	Label     *token.Token
	Then      *CodeBlock
}

type ElseBranch struct {
	ElseToken *token.Token
	Label     *token.Token
	Then      *CodeBlock
}

// LoopStmt is the statement form of `loop`.
type LoopStmt struct {
	ID NodeID

	Label     *token.Token
	LoopToken *token.Token
	Block     *CodeBlock
}

func (s *LoopStmt) NodeID() NodeID { return s.ID }
func (*LoopStmt) stmtNode()        {}

// WhileStmt is the statement form of `while`.
type WhileStmt struct {
	ID NodeID

	Label      *token.Token
	WhileToken *token.Token
	Condition  Expr
	Block      *CodeBlock
}

func (s *WhileStmt) NodeID() NodeID { return s.ID }
func (*WhileStmt) stmtNode()        {}

// HandlerKind identifies what kind of construct receives a break or
// then value.
type HandlerKind int

const (
	HandlerNone HandlerKind = iota
	HandlerLoopStmt
	HandlerWhileStmt
	HandlerLoopExpr
	HandlerWhileExpr
	HandlerIfStmt
	HandlerIfExpr
)

// Handler is a weak back-reference from a break/then statement to the
// control-flow construct that catches it. Target is the construct's
// NodeID; the resolver's arena maps it back to the node.
type Handler struct {
	Kind   HandlerKind
	Target NodeID
	// Label is the construct's original label text (without the leading
	// quote), empty when unlabelled.
	Label string
}

// BreakStmt breaks out of the innermost (or labelled) loop/while,
// optionally carrying a value to a loop/while expression.
type BreakStmt struct {
	ID NodeID

	BreakToken *token.Token
	Label      *token.Token
	Value      Expr

	Resolved types.FeType
	Handler  *Handler
}

func (s *BreakStmt) NodeID() NodeID { return s.ID }
func (*BreakStmt) stmtNode()        {}

// ThenStmt yields a value from the enclosing (or labelled) if
// expression branch.
type ThenStmt struct {
	ID NodeID

	ThenToken *token.Token
	Label     *token.Token
	Value     Expr

	Resolved types.FeType
	Handler  *Handler
}

func (s *ThenStmt) NodeID() NodeID { return s.ID }
func (*ThenStmt) stmtNode()        {}
