// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package syntax

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

// Use is a `use` declaration.
type Use struct {
	ID NodeID
	// PubToken is non-nil for `pub use`.
	PubToken *token.Token
	UseToken *token.Token
	Path     *UseStaticPath
}

func (u *Use) NodeID() NodeID {
	return u.ID
}

// UseStaticPath is one segment of a use path. A segment either continues
// (Next non-nil) or is a leaf; leaves get their binding type filled in by
// the resolver.
type UseStaticPath struct {
	// Pre is the path prefix token (`::`, `./`, `~/`) on the first
	// segment, nil otherwise.
	Pre  *token.Token
	Name *token.Token
	Next *UseStaticPathNext

	// Resolved is the leaf's binding type; nil while unresolved and
	// always nil on non-leaf segments.
	Resolved types.FeType
}

// IsLeaf reports whether this segment terminates the path.
func (p *UseStaticPath) IsLeaf() bool {
	return p.Next == nil
}

// UseStaticPathNext continues a use path after a `::`, either with a
// single segment or a `{…}` many-branch.
type UseStaticPathNext struct {
	DoubleColonToken *token.Token

	// Exactly one of Single and Many is set.
	Single *UseStaticPath
	Many   []*UseStaticPath
}
