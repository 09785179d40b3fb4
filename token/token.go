// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import "fmt"

// A Token is a single lexeme of Fe source, together with the source
// span it was read from.
type Token struct {
	Kind   Kind
	Lexeme string
	Span   Span
}

func (t *Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
}

// Kind discriminates tokens. Newlines are significant in Fe and are
// emitted as their own kind.
type Kind int

const (
	Unknown Kind = iota

	// Symbols
	Comma
	Semicolon
	Colon
	DoubleColon
	OpenParen
	CloseParen
	OpenBrace
	CloseBrace
	OpenSquareBracket
	CloseSquareBracket
	Newline

	Equal
	EqualEqual
	BangEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	Plus
	PlusEqual
	Minus
	MinusEqual
	Asterisk
	Slash
	Percent
	Amp
	Dot
	DotDot
	DotSlash
	Tilde
	TildeSlash

	// Keywords
	Break
	Const
	Else
	False
	Fn
	If
	Loop
	Mut
	Not
	Pub
	Return
	Struct
	Then
	True
	Use
	While

	// Reserved keywords, recognized but unused by the grammar.
	And
	As
	Crash
	For
	Impl
	In
	Match
	Norm
	Or
	Pure
	Risk
	Safe
	SelfVal
	SelfType
	Trait
	Type
	Yield

	// Literals
	PlainString
	OpenFmtString
	MidFmtString
	CloseFmtString
	Char
	Label
	IntegerNumber
	DecimalNumber
	Ident
)

var kindNames = map[Kind]string{
	Unknown:            "Unknown",
	Comma:              "Comma",
	Semicolon:          "Semicolon",
	Colon:              "Colon",
	DoubleColon:        "DoubleColon",
	OpenParen:          "OpenParen",
	CloseParen:         "CloseParen",
	OpenBrace:          "OpenBrace",
	CloseBrace:         "CloseBrace",
	OpenSquareBracket:  "OpenSquareBracket",
	CloseSquareBracket: "CloseSquareBracket",
	Newline:            "Newline",
	Equal:              "Equal",
	EqualEqual:         "EqualEqual",
	BangEqual:          "BangEqual",
	Less:               "Less",
	LessEqual:          "LessEqual",
	Greater:            "Greater",
	GreaterEqual:       "GreaterEqual",
	Plus:               "Plus",
	PlusEqual:          "PlusEqual",
	Minus:              "Minus",
	MinusEqual:         "MinusEqual",
	Asterisk:           "Asterisk",
	Slash:              "Slash",
	Percent:            "Percent",
	Amp:                "Amp",
	Dot:                "Dot",
	DotDot:             "DotDot",
	DotSlash:           "DotSlash",
	Tilde:              "Tilde",
	TildeSlash:         "TildeSlash",
	Break:              "Break",
	Const:              "Const",
	Else:               "Else",
	False:              "False",
	Fn:                 "Fn",
	If:                 "If",
	Loop:               "Loop",
	Mut:                "Mut",
	Not:                "Not",
	Pub:                "Pub",
	Return:             "Return",
	Struct:             "Struct",
	Then:               "Then",
	True:               "True",
	Use:                "Use",
	While:              "While",
	And:                "And",
	As:                 "As",
	Crash:              "Crash",
	For:                "For",
	Impl:               "Impl",
	In:                 "In",
	Match:              "Match",
	Norm:               "Norm",
	Or:                 "Or",
	Pure:               "Pure",
	Risk:               "Risk",
	Safe:               "Safe",
	SelfVal:            "SelfVal",
	SelfType:           "SelfType",
	Trait:              "Trait",
	Type:               "Type",
	Yield:              "Yield",
	PlainString:        "PlainString",
	OpenFmtString:      "OpenFmtString",
	MidFmtString:       "MidFmtString",
	CloseFmtString:     "CloseFmtString",
	Char:               "Char",
	Label:              "Label",
	IntegerNumber:      "IntegerNumber",
	DecimalNumber:      "DecimalNumber",
	Ident:              "Ident",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved words to their kinds. Everything here is
// recognized by the lexer as distinct from Ident, even the entries the
// grammar does not use yet.
var Keywords = map[string]Kind{
	"and":    And,
	"as":     As,
	"break":  Break,
	"const":  Const,
	"else":   Else,
	"false":  False,
	"fn":     Fn,
	"for":    For,
	"if":     If,
	"impl":   Impl,
	"in":     In,
	"loop":   Loop,
	"match":  Match,
	"mut":    Mut,
	"norm":   Norm,
	"not":    Not,
	"or":     Or,
	"pub":    Pub,
	"pure":   Pure,
	"return": Return,
	"risk":   Risk,
	"safe":   Safe,
	"self":   SelfVal,
	"Self":   SelfType,
	"struct": Struct,
	"then":   Then,
	"trait":  Trait,
	"true":   True,
	"type":   Type,
	"use":    Use,
	"while":  While,
	"yield":  Yield,
}
