// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package syntax

import (
	"fmt"

	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

// NodeKind tags a NodeID with the node family it identifies.
type NodeKind int

const (
	DeclNode NodeKind = iota
	ExprNode
	StmtNode
	UseNode
)

func (k NodeKind) String() string {
	switch k {
	case DeclNode:
		return "decl"
	case ExprNode:
		return "expr"
	case StmtNode:
		return "stmt"
	case UseNode:
		return "use"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NodeID identifies an AST node for the lifetime of one compilation.
// Num is monotonic across all kinds, so IDs are unique even across
// families.
type NodeID struct {
	Kind NodeKind
	Num  uint64
}

func (id NodeID) String() string {
	return fmt.Sprintf("%s#%d", id.Kind, id.Num)
}

// IDGen issues NodeIDs. One generator is created per compilation; there
// is no process-global counter.
type IDGen struct {
	next uint64
}

func NewIDGen() *IDGen {
	return &IDGen{}
}

func (g *IDGen) gen(kind NodeKind) NodeID {
	id := NodeID{Kind: kind, Num: g.next}
	g.next++

	return id
}

func (g *IDGen) Decl() NodeID { return g.gen(DeclNode) }
func (g *IDGen) Expr() NodeID { return g.gen(ExprNode) }
func (g *IDGen) Stmt() NodeID { return g.gen(StmtNode) }
func (g *IDGen) Use() NodeID  { return g.gen(UseNode) }

// Node is anything carrying a NodeID.
type Node interface {
	NodeID() NodeID
}

// typed is embedded by every node that carries a resolved type. A nil
// type means "not resolved yet"; resolution only ever fills it in.
type typed struct {
	typ types.FeType
}

func (t *typed) Type() types.FeType {
	return t.typ
}

func (t *typed) SetType(ft types.FeType) {
	t.typ = ft
}

// Typed is the common surface of type-carrying nodes.
type Typed interface {
	Type() types.FeType
	SetType(types.FeType)
}
