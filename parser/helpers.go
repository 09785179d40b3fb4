// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"

	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

func (p *treeParser) consume(kind token.Kind, msg string) (*token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}

	t := p.peek()
	if t == nil {
		return nil, p.eofErr()
	}

	return nil, p.errorAt(t, "%s, found %s", msg, t)
}

func (p *treeParser) eofErr() error {
	span := token.ZeroSpan()
	if prev := p.previous(); prev != nil {
		span = prev.Span
	}

	return &token.CompileError{
		Kind:    token.ErrParse,
		Message: "Unexpected end of file",
		File:    p.path,
		Span:    &span,
		Origin:  token.CallerOrigin(2),
	}
}

// errorAt raises a ParseError carrying both the offending source span
// and the parser source location that rejected it.
func (p *treeParser) errorAt(t *token.Token, format string, args ...any) error {
	span := t.Span

	return &token.CompileError{
		Kind:    token.ErrParse,
		Message: fmt.Sprintf(format, args...),
		File:    p.path,
		Span:    &span,
		Origin:  token.CallerOrigin(2),
	}
}

func (p *treeParser) allowManyNewlines() int {
	count := 0

	for p.allowOneNewline() {
		count++
	}

	return count
}

func (p *treeParser) allowOneNewline() bool {
	return p.matchAny([]token.Kind{token.Newline}, NewlinesNone) != nil
}

// matchAny consumes and returns the next token if its kind is wanted,
// optionally skipping newlines first. Newlines consumed for a failed
// match are backtracked.
func (p *treeParser) matchAny(kinds []token.Kind, withNewlines WithNewlines) *token.Token {
	newlines := 0

	switch withNewlines {
	case NewlinesNone:
	case NewlinesOne:
		if p.allowOneNewline() {
			newlines = 1
		}
	case NewlinesMany:
		newlines = p.allowManyNewlines()
	}

	for _, kind := range kinds {
		if p.check(kind) {
			return p.advance()
		}
	}

	for i := 0; i < newlines; i++ {
		p.backtrack()
	}

	return nil
}

func (p *treeParser) check(kind token.Kind) bool {
	return p.checkOffset(0, kind)
}

func (p *treeParser) checkOffset(offset int, kind token.Kind) bool {
	t := p.peekOffset(offset)
	return t != nil && t.Kind == kind
}

func (p *treeParser) advance() *token.Token {
	if !p.isAtEnd() {
		p.idx++
	}

	return p.previous()
}

func (p *treeParser) backtrack() *token.Token {
	if p.idx == 0 {
		return nil
	}

	p.idx--

	return p.peek()
}

func (p *treeParser) isAtEnd() bool {
	return p.idx >= len(p.tokens)
}

func (p *treeParser) peek() *token.Token {
	return p.peekOffset(0)
}

func (p *treeParser) peekOffset(offset int) *token.Token {
	idx := p.idx + offset
	if idx < 0 || idx >= len(p.tokens) {
		return nil
	}

	return p.tokens[idx]
}

func (p *treeParser) previous() *token.Token {
	if p.idx == 0 {
		return nil
	}

	return p.tokens[p.idx-1]
}
