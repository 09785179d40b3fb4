// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/ferrum-lang/ferrum-compiler-sub000/source"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

func sortedPackageNames(local map[string]source.Package) []string {
	names := make([]string, 0, len(local))
	for name := range local {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// FeLexer turns a source tree into the parallel token tree.
type FeLexer struct {
	logger logrus.FieldLogger
}

// NewFeLexer creates a lexer. logger may be nil.
func NewFeLexer(logger logrus.FieldLogger) *FeLexer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &FeLexer{logger: logger}
}

// ScanPackage scans every file of the source tree.
func (l *FeLexer) ScanPackage(src source.Package) (token.Package, error) {
	switch pkg := src.(type) {
	case *source.File:
		file, err := l.scanFile(pkg)
		if err != nil {
			return nil, err
		}

		return file, nil

	case *source.Dir:
		dir, err := l.scanDir(pkg)
		if err != nil {
			return nil, err
		}

		return dir, nil
	}

	return nil, token.NewError(token.ErrInternal, "unknown source package node %T", src)
}

func (l *FeLexer) scanDir(dir *source.Dir) (*token.Dir, error) {
	entry, err := l.scanFile(dir.Entry)
	if err != nil {
		return nil, err
	}

	local := map[string]token.Package{}

	for _, name := range sortedPackageNames(dir.Local) {
		scanned, err := l.ScanPackage(dir.Local[name])
		if err != nil {
			return nil, err
		}

		local[name] = scanned
	}

	return &token.Dir{
		Name:  dir.Name,
		Path:  dir.Path,
		Entry: entry,
		Local: local,
	}, nil
}

func (l *FeLexer) scanFile(file *source.File) (*token.File, error) {
	tokens, err := Scan(file.Path, file.Content)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"file":   file.Path,
		"tokens": len(tokens),
	}).Debug("scanned source file")

	return &token.File{
		Name:   file.Name,
		Path:   file.Path,
		Tokens: tokens,
	}, nil
}

// Scan lexes a single file's content into tokens.
func Scan(path, content string) ([]*token.Token, error) {
	s := newScanner(path, content)

	if err := s.scan(); err != nil {
		return nil, err
	}

	return s.out, nil
}

type scanner struct {
	path string
	src  []rune

	out []*token.Token

	cursor  int
	span    token.Span
	fmtNest int
}

func newScanner(path, content string) *scanner {
	return &scanner{
		path: path,
		src:  []rune(content),
		span: token.ZeroSpan(),
	}
}

func (s *scanner) scan() error {
	for !s.isEnd() {
		if err := s.scanToken(); err != nil {
			return err
		}

		s.span.Start = s.span.End
	}

	return nil
}

// scanToken consumes exactly one token (or skippable run) starting at the
// cursor. The span's end tracks the last rune of the token while it is
// being read; addToken slices the lexeme out of that range.
func (s *scanner) scanToken() error {
	c, ok := s.current()
	if !ok {
		return nil
	}

	var kind token.Kind
	emit := true

	switch {
	case c == '/' && s.peekNextIs('/'):
		for {
			next, ok := s.peekNext()
			if !ok || next == '\n' {
				break
			}

			s.advanceCol()
		}

		emit = false

	case c == '"':
		k, err := s.lexString(false)
		if err != nil {
			return err
		}

		kind = k

	case c == '}' && s.fmtNest > 0:
		k, err := s.lexString(true)
		if err != nil {
			return err
		}

		kind = k

	case c == '\'':
		k, err := s.lexLabelOrChar()
		if err != nil {
			return err
		}

		kind = k

	case c == ' ' || c == '\r' || c == '\t':
		emit = false

	case c == ',':
		kind = token.Comma
	case c == ';':
		kind = token.Semicolon
	case c == '(':
		kind = token.OpenParen
	case c == ')':
		kind = token.CloseParen
	case c == '{':
		kind = token.OpenBrace
	case c == '}':
		kind = token.CloseBrace
	case c == '[':
		kind = token.OpenSquareBracket
	case c == ']':
		kind = token.CloseSquareBracket
	case c == '\n':
		kind = token.Newline

	case c == '=':
		if s.peekNextIs('=') {
			s.advanceCol()
			kind = token.EqualEqual
		} else {
			kind = token.Equal
		}

	case c == '!':
		if s.peekNextIs('=') {
			s.advanceCol()
			kind = token.BangEqual
		} else {
			return s.errorf("unexpected character %q", c)
		}

	case c == '&':
		kind = token.Amp

	case c == '<':
		if s.peekNextIs('=') {
			s.advanceCol()
			kind = token.LessEqual
		} else {
			kind = token.Less
		}

	case c == '>':
		if s.peekNextIs('=') {
			s.advanceCol()
			kind = token.GreaterEqual
		} else {
			kind = token.Greater
		}

	case c == '+':
		if s.peekNextIs('=') {
			s.advanceCol()
			kind = token.PlusEqual
		} else {
			kind = token.Plus
		}

	case c == '-':
		if s.peekNextIs('=') {
			s.advanceCol()
			kind = token.MinusEqual
		} else {
			kind = token.Minus
		}

	case c == '*':
		kind = token.Asterisk

	case c == '/':
		kind = token.Slash

	case c == '%':
		kind = token.Percent

	case c == ':':
		if s.peekNextIs(':') {
			s.advanceCol()
			kind = token.DoubleColon
		} else {
			kind = token.Colon
		}

	case c == '.':
		if s.peekNextIs('/') {
			s.advanceCol()
			kind = token.DotSlash
		} else if s.peekNextIs('.') {
			s.advanceCol()
			kind = token.DotDot
		} else {
			kind = token.Dot
		}

	case c == '~':
		if s.peekNextIs('/') {
			s.advanceCol()
			kind = token.TildeSlash
		} else {
			kind = token.Tilde
		}

	case isDigit(c):
		kind = s.lexNumber()

	case isLetter(c):
		kind = s.lexIdentifier()

	default:
		return s.errorf("unexpected character %q", c)
	}

	if emit {
		s.addToken(kind)
	}

	if c == '\n' {
		s.advanceLine()
	} else {
		s.advanceCol()
	}

	return nil
}

// lexString is entered with the cursor on the opening '"' of a plain or
// format string, or on the '}' that resumes a format string after an
// interpolated expression. Which of the four string kinds comes out
// depends on whether the scan stops at '"' or at an unescaped '{'.
func (s *scanner) lexString(isContinuing bool) (token.Kind, error) {
	isStarting := false

scan:
	for {
		next, ok := s.peekNext()
		if !ok {
			return 0, s.errorf("unterminated string")
		}

		switch next {
		case '"':
			s.advanceCol()
			break scan

		case '{':
			isStarting = true
			s.advanceCol()

			break scan

		case '\\':
			s.advanceCol()

			if _, ok := s.peekNext(); !ok {
				return 0, s.errorf("unterminated string")
			}

			s.advanceCol()

		case '\n':
			s.advanceLine()

		default:
			s.advanceCol()
		}
	}

	switch {
	case !isContinuing && !isStarting:
		return token.PlainString, nil

	case !isContinuing && isStarting:
		s.fmtNest++
		return token.OpenFmtString, nil

	case isContinuing && isStarting:
		return token.MidFmtString, nil

	default:
		s.fmtNest--
		return token.CloseFmtString, nil
	}
}

// lexLabelOrChar disambiguates 'x' (char), '\n' (escaped char) and 'name
// (label) purely by lookahead, as the grammar demands.
func (s *scanner) lexLabelOrChar() (token.Kind, error) {
	if s.peekNextIs('\\') {
		s.advanceCol() // the backslash

		if _, ok := s.peekNext(); !ok {
			return 0, s.errorf("unterminated character literal")
		}

		s.advanceCol() // the escaped rune

		if !s.peekNextIs('\'') {
			return 0, s.errorf("unterminated character literal")
		}

		s.advanceCol()

		return token.Char, nil
	}

	c, ok := s.peekNext()
	if !ok {
		return token.Label, nil
	}

	if (!isWhitespace(c) || c == ' ') && s.peekOffsetIs(2, '\'') {
		s.advanceCol()
		s.advanceCol()

		return token.Char, nil
	}

	if isAlpha(c) {
		s.advanceCol()

		for {
			c, ok := s.peekNext()
			if !ok || !isAlphaNumeric(c) {
				break
			}

			s.advanceCol()
		}
	}

	return token.Label, nil
}

func (s *scanner) lexNumber() token.Kind {
	for {
		c, ok := s.peekNext()
		if !ok || !isDigit(c) {
			break
		}

		s.advanceCol()
	}

	if s.peekNextIs('.') {
		if next, ok := s.peekOffset(2); ok && isDigit(next) {
			s.advanceCol() // the '.'

			for {
				c, ok := s.peekNext()
				if !ok || !isDigit(c) {
					break
				}

				s.advanceCol()
			}

			return token.DecimalNumber
		}
	}

	return token.IntegerNumber
}

func (s *scanner) lexIdentifier() token.Kind {
	for {
		c, ok := s.peekNext()
		if !ok || !isLetterOrDigit(c) {
			break
		}

		s.advanceCol()
	}

	text := string(s.src[s.span.Start.Index : s.span.End.Index+1])

	if text == "CRASH" && s.peekNextIs('!') {
		s.advanceCol()

		return token.Crash
	}

	if kind, ok := token.Keywords[text]; ok {
		return kind
	}

	return token.Ident
}

func (s *scanner) addToken(kind token.Kind) {
	text := string(s.src[s.span.Start.Index : s.span.End.Index+1])

	s.out = append(s.out, &token.Token{
		Kind:   kind,
		Lexeme: text,
		Span:   s.span,
	})
}

func (s *scanner) current() (rune, bool) {
	return s.peekOffset(0)
}

func (s *scanner) peekNext() (rune, bool) {
	return s.peekOffset(1)
}

func (s *scanner) peekNextIs(want rune) bool {
	c, ok := s.peekNext()
	return ok && c == want
}

func (s *scanner) peekOffset(offset int) (rune, bool) {
	idx := s.cursor + offset
	if idx >= len(s.src) {
		return 0, false
	}

	return s.src[idx], true
}

func (s *scanner) peekOffsetIs(offset int, want rune) bool {
	c, ok := s.peekOffset(offset)
	return ok && c == want
}

func (s *scanner) advanceCol() {
	s.cursor++

	s.span.End.Index++
	s.span.End.Column++
}

func (s *scanner) advanceLine() {
	s.cursor++

	s.span.End.Index++
	s.span.End.Line++
	s.span.End.Column = 1
}

func (s *scanner) isEnd() bool {
	return s.cursor >= len(s.src)
}

func (s *scanner) errorf(format string, args ...any) error {
	span := s.span

	return &token.CompileError{
		Kind:    token.ErrLex,
		Message: fmt.Sprintf(format, args...),
		File:    s.path,
		Span:    &span,
		Origin:  token.CallerOrigin(2),
	}
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlphaNumeric(c rune) bool {
	return isAlpha(c) || isDigit(c)
}

func isLetterOrDigit(c rune) bool {
	return isLetter(c) || isDigit(c)
}

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
