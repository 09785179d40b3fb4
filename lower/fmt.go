// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lower

import (
	"strings"

	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
)

// Fe string escapes differ from the host's in exactly one place: `\{`
// escapes an interpolation brace. In plain host strings that unescapes
// to `{`; in host format strings braces double instead.

// plainLiteralToRust translates a PlainString lexeme (quotes included)
// into a Rust string literal.
func plainLiteralToRust(lexeme string) string {
	content := stripEnds(lexeme)

	var sb strings.Builder
	sb.WriteByte('"')

	for i := 0; i < len(content); i++ {
		if content[i] == '\\' && i+1 < len(content) && content[i+1] == '{' {
			sb.WriteByte('{')
			i++

			continue
		}

		sb.WriteByte(content[i])
	}

	sb.WriteByte('"')

	return sb.String()
}

// plainLiteralToFmt translates a PlainString lexeme into a Rust format
// string (for the direct println intrinsic), where literal braces must
// be doubled.
func plainLiteralToFmt(lexeme string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	writeFmtText(&sb, stripEnds(lexeme))
	sb.WriteByte('"')

	return sb.String()
}

// fmtChainToRust assembles a format-string chain into one Rust format
// literal: the literal text between interpolations is brace-escaped,
// and each interpolation becomes `{}`.
func fmtChainToRust(expr *syntax.FmtStringLiteralExpr) string {
	var sb strings.Builder
	sb.WriteByte('"')

	// First lexeme: `"text{`.
	writeFmtText(&sb, stripEnds(expr.First.Lexeme))

	for _, part := range expr.Rest {
		sb.WriteString("{}")

		// Mid lexemes are `}text{`; the close lexeme is `}text"`.
		writeFmtText(&sb, stripEnds(part.String.Lexeme))
	}

	sb.WriteByte('"')

	return sb.String()
}

// stripEnds drops a lexeme's first and last byte: the quote or brace
// boundary characters of string tokens.
func stripEnds(lexeme string) string {
	if len(lexeme) < 2 {
		return ""
	}

	return lexeme[1 : len(lexeme)-1]
}

func writeFmtText(sb *strings.Builder, text string) {
	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case c == '\\' && i+1 < len(text) && text[i+1] == '{':
			sb.WriteString("{{")
			i++

		case c == '{':
			sb.WriteString("{{")

		case c == '}':
			sb.WriteString("}}")

		default:
			sb.WriteByte(c)
		}
	}
}
