// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package syntax

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

// StaticPath is a `::`-separated type or value path, built left-heavy:
// `a::b::c` is {Root: {Root: a}, Name: c}.
type StaticPath struct {
	typed

	// DoubleColonToken is the leading `::` when the path is absolute,
	// or the separator before Name when Root is non-nil.
	DoubleColonToken *token.Token
	Root             *StaticPath
	Name             *token.Token
}

// RefTypeMod is the `&`/`&mut`/`&const` modifier of a static type.
type RefTypeMod struct {
	RefToken *token.Token
	// MutToken is set for `&mut`; ConstToken for the explicit `&const`.
	// Both nil means the shared `&` form.
	MutToken   *token.Token
	ConstToken *token.Token
}

func (m *RefTypeMod) IsMut() bool {
	return m.MutToken != nil
}

// StaticType is a type reference as written in source: an optional
// reference modifier plus a static path.
type StaticType struct {
	typed

	Ref  *RefTypeMod
	Path *StaticPath
}
