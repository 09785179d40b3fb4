// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lower

import (
	"testing"

	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

func TestPlainLiteralToRust(t *testing.T) {
	tests := []struct {
		lexeme string
		want   string
	}{
		{`"hello"`, `"hello"`},
		{`"a \{ b"`, `"a { b"`},
		{`""`, `""`},
	}

	for _, tt := range tests {
		if got := plainLiteralToRust(tt.lexeme); got != tt.want {
			t.Errorf("plainLiteralToRust(%q) = %q, want %q", tt.lexeme, got, tt.want)
		}
	}
}

func TestPlainLiteralToFmt(t *testing.T) {
	tests := []struct {
		lexeme string
		want   string
	}{
		{`"hello"`, `"hello"`},
		{`"a \{ b"`, `"a {{ b"`},
		{`"x } y"`, `"x }} y"`},
	}

	for _, tt := range tests {
		if got := plainLiteralToFmt(tt.lexeme); got != tt.want {
			t.Errorf("plainLiteralToFmt(%q) = %q, want %q", tt.lexeme, got, tt.want)
		}
	}
}

func TestFmtChainToRust(t *testing.T) {
	// `"{x} + {y} = {x + y}"` lexes into `"{`, `} + {`, `} = {`, `}"`;
	// the reassembled host literal replaces each interpolation with {}.
	chain := &syntax.FmtStringLiteralExpr{
		First: &token.Token{Kind: token.OpenFmtString, Lexeme: `"{`},
		Rest: []*syntax.FmtStringPart{
			{String: &token.Token{Kind: token.MidFmtString, Lexeme: `} + {`}},
			{String: &token.Token{Kind: token.MidFmtString, Lexeme: `} = {`}},
			{String: &token.Token{Kind: token.CloseFmtString, Lexeme: `}"`}},
		},
	}

	want := `"{} + {} = {}"`

	if got := fmtChainToRust(chain); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFmtChainEscapesLiteralBraces(t *testing.T) {
	// `"\{{v}"` — a literal escaped brace before an interpolation.
	chain := &syntax.FmtStringLiteralExpr{
		First: &token.Token{Kind: token.OpenFmtString, Lexeme: `"\{{`},
		Rest: []*syntax.FmtStringPart{
			{String: &token.Token{Kind: token.CloseFmtString, Lexeme: `}"`}},
		},
	}

	want := `"{{{}"`

	if got := fmtChainToRust(chain); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
