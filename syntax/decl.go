// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package syntax

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

// Decl is a top-level declaration.
type Decl interface {
	Node
	declNode()
	// IsPub reports whether the declaration carries `pub`.
	IsPub() bool
}

// FnDecl is a function declaration.
type FnDecl struct {
	ID NodeID

	PubToken *token.Token
	// FnModToken is the reserved `pure|safe|norm|risk` modifier.
	FnModToken *token.Token
	FnToken    *token.Token
	Name       *token.Token

	OpenParenToken  *token.Token
	PreCommaToken   *token.Token
	Params          []*FnDeclParam
	CloseParenToken *token.Token

	// Return is nil for functions without a declared return type.
	Return *FnDeclReturnType

	Body *CodeBlock

	// SignatureResolved is flipped by the resolver once the Callable for
	// this function has been published into scope.
	SignatureResolved bool
}

func (d *FnDecl) NodeID() NodeID { return d.ID }
func (*FnDecl) declNode()        {}

func (d *FnDecl) IsPub() bool {
	return d.PubToken != nil
}

type FnDeclParam struct {
	Name       *token.Token
	ColonToken *token.Token
	StaticType *StaticType
	CommaToken *token.Token

	Resolved types.FeType
}

type FnDeclReturnType struct {
	ColonToken *token.Token
	StaticType *StaticType

	Resolved types.FeType
}

// StructDecl is a struct declaration.
type StructDecl struct {
	ID NodeID

	PubToken    *token.Token
	StructToken *token.Token
	Name        *token.Token

	OpenBraceToken  *token.Token
	Fields          []*StructDeclField
	CloseBraceToken *token.Token

	// Resolved is flipped once the Struct type has been published.
	Resolved bool
}

func (d *StructDecl) NodeID() NodeID { return d.ID }
func (*StructDecl) declNode()        {}

func (d *StructDecl) IsPub() bool {
	return d.PubToken != nil
}

type StructDeclField struct {
	PubToken   *token.Token
	Name       *token.Token
	ColonToken *token.Token
	StaticType *StaticType
	CommaToken *token.Token
}

// CodeBlock is a newline-separated statement list terminated by `;`.
type CodeBlock struct {
	Stmts []Stmt
	// EndSemicolonToken is nil for inner blocks that end at `else`.
	EndSemicolonToken *token.Token
}
