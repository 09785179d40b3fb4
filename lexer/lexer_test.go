// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"testing"

	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

type want struct {
	kind   token.Kind
	lexeme string
}

func w(kind token.Kind, lexeme string) want {
	return want{kind: kind, lexeme: lexeme}
}

func TestScan(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []want
		wantErr bool
	}{
		{
			name: "empty",
			text: "",
		},

		{
			name: "whitespace only",
			text: "  \t  ",
		},

		{
			name: "newlines are significant",
			text: "\n\n",
			want: []want{
				w(token.Newline, "\n"),
				w(token.Newline, "\n"),
			},
		},

		{
			name: "comment runs to end of line",
			text: "// hello\nfn",
			want: []want{
				w(token.Newline, "\n"),
				w(token.Fn, "fn"),
			},
		},

		{
			name: "comment at end of file",
			text: "fn // trailing",
			want: []want{
				w(token.Fn, "fn"),
			},
		},

		{
			name: "keywords lex distinct from idents",
			text: "fn pub use const mut if else loop while break then return struct true false not",
			want: []want{
				w(token.Fn, "fn"), w(token.Pub, "pub"), w(token.Use, "use"),
				w(token.Const, "const"), w(token.Mut, "mut"), w(token.If, "if"),
				w(token.Else, "else"), w(token.Loop, "loop"), w(token.While, "while"),
				w(token.Break, "break"), w(token.Then, "then"), w(token.Return, "return"),
				w(token.Struct, "struct"), w(token.True, "true"), w(token.False, "false"),
				w(token.Not, "not"),
			},
		},

		{
			name: "reserved keywords lex distinct from idents",
			text: "and as for impl in match norm or pure risk safe self Self trait type yield",
			want: []want{
				w(token.And, "and"), w(token.As, "as"), w(token.For, "for"),
				w(token.Impl, "impl"), w(token.In, "in"), w(token.Match, "match"),
				w(token.Norm, "norm"), w(token.Or, "or"), w(token.Pure, "pure"),
				w(token.Risk, "risk"), w(token.Safe, "safe"), w(token.SelfVal, "self"),
				w(token.SelfType, "Self"), w(token.Trait, "trait"), w(token.Type, "type"),
				w(token.Yield, "yield"),
			},
		},

		{
			name: "crash bang",
			text: "CRASH!",
			want: []want{
				w(token.Crash, "CRASH!"),
			},
		},

		{
			name: "identifiers",
			text: "foo _bar baz42",
			want: []want{
				w(token.Ident, "foo"),
				w(token.Ident, "_bar"),
				w(token.Ident, "baz42"),
			},
		},

		{
			name: "integer by default",
			text: "42",
			want: []want{
				w(token.IntegerNumber, "42"),
			},
		},

		{
			name: "decimal needs digit after dot",
			text: "3.14",
			want: []want{
				w(token.DecimalNumber, "3.14"),
			},
		},

		{
			name: "dot without digit stays a dot",
			text: "3.x",
			want: []want{
				w(token.IntegerNumber, "3"),
				w(token.Dot, "."),
				w(token.Ident, "x"),
			},
		},

		{
			name: "operators",
			text: "= == != < <= > >= + += - -= * / % & .. :: : . ./ ~ ~/",
			want: []want{
				w(token.Equal, "="), w(token.EqualEqual, "=="), w(token.BangEqual, "!="),
				w(token.Less, "<"), w(token.LessEqual, "<="), w(token.Greater, ">"),
				w(token.GreaterEqual, ">="), w(token.Plus, "+"), w(token.PlusEqual, "+="),
				w(token.Minus, "-"), w(token.MinusEqual, "-="), w(token.Asterisk, "*"),
				w(token.Slash, "/"), w(token.Percent, "%"), w(token.Amp, "&"),
				w(token.DotDot, ".."), w(token.DoubleColon, "::"), w(token.Colon, ":"),
				w(token.Dot, "."), w(token.DotSlash, "./"), w(token.Tilde, "~"),
				w(token.TildeSlash, "~/"),
			},
		},

		{
			name: "plain string",
			text: `"Hello, World!"`,
			want: []want{
				w(token.PlainString, `"Hello, World!"`),
			},
		},

		{
			name: "escaped brace stays plain",
			text: `"a \{ b"`,
			want: []want{
				w(token.PlainString, `"a \{ b"`),
			},
		},

		{
			name: "format string splits at interpolations",
			text: `"{x} + {y} = {x + y}"`,
			want: []want{
				w(token.OpenFmtString, `"{`),
				w(token.Ident, "x"),
				w(token.MidFmtString, `} + {`),
				w(token.Ident, "y"),
				w(token.MidFmtString, `} = {`),
				w(token.Ident, "x"),
				w(token.Plus, "+"),
				w(token.Ident, "y"),
				w(token.CloseFmtString, `}"`),
			},
		},

		{
			name: "char literal",
			text: "'a'",
			want: []want{
				w(token.Char, "'a'"),
			},
		},

		{
			name: "escaped char literal",
			text: `'\n'`,
			want: []want{
				w(token.Char, `'\n'`),
			},
		},

		{
			name: "label decided by lookahead",
			text: "'outer loop",
			want: []want{
				w(token.Label, "'outer"),
				w(token.Loop, "loop"),
			},
		},

		{
			name: "single letter label",
			text: "'a loop",
			want: []want{
				w(token.Label, "'a"),
				w(token.Loop, "loop"),
			},
		},

		{
			name:    "unterminated string is fatal",
			text:    `"oops`,
			wantErr: true,
		},

		{
			name:    "unknown character is fatal",
			text:    "fn @",
			wantErr: true,
		},

		{
			name:    "bare bang is fatal",
			text:    "a ! b",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Scan("test.fe", tt.text)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got tokens %v", tokens)
				}

				if !token.IsKind(err, token.ErrLex) {
					t.Fatalf("expected a LexError, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(tokens) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(tt.want), tokens)
			}

			for i, tok := range tokens {
				if tok.Kind != tt.want[i].kind {
					t.Errorf("token %d: got kind %s, want %s", i, tok.Kind, tt.want[i].kind)
				}

				if tok.Lexeme != tt.want[i].lexeme {
					t.Errorf("token %d: got lexeme %q, want %q", i, tok.Lexeme, tt.want[i].lexeme)
				}
			}
		})
	}
}

func TestScanPositions(t *testing.T) {
	tokens, err := Scan("test.fe", "fn\nmain")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}

	fn := tokens[0]
	if fn.Span.Start.Line != 1 || fn.Span.Start.Column != 1 {
		t.Errorf("fn starts at %d:%d, want 1:1", fn.Span.Start.Line, fn.Span.Start.Column)
	}

	main := tokens[2]
	if main.Span.Start.Line != 2 || main.Span.Start.Column != 1 {
		t.Errorf("main starts at %d:%d, want 2:1", main.Span.Start.Line, main.Span.Start.Column)
	}

	if main.Span.Start.Index != 3 {
		t.Errorf("main starts at index %d, want 3", main.Span.Start.Index)
	}
}

func TestFmtStringNesting(t *testing.T) {
	// A format string inside a format string's interpolation.
	tokens, err := Scan("test.fe", `"a{"b"}c"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kinds := make([]token.Kind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}

	want := []token.Kind{token.OpenFmtString, token.PlainString, token.CloseFmtString}

	if len(kinds) != len(want) {
		t.Fatalf("got kinds %v, want %v", kinds, want)
	}

	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("got kinds %v, want %v", kinds, want)
		}
	}
}
