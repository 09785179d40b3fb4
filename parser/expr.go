// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"strconv"

	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

// The precedence ladder, loosest first:
// or, and, equality, comparison, range, term, factor, modulo, unary,
// call-or-get, primary.

func (p *treeParser) expression() (syntax.Expr, error) {
	return p.or()
}

func (p *treeParser) binaryLadder(
	next func() (syntax.Expr, error),
	ops map[token.Kind]syntax.BinaryOpKind,
	kinds ...token.Kind,
) (syntax.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}

	for {
		opToken := p.matchAny(kinds, NewlinesOne)
		if opToken == nil {
			return expr, nil
		}

		rhs, err := next()
		if err != nil {
			return nil, err
		}

		expr = &syntax.BinaryExpr{
			ID:      p.gen.Expr(),
			Lhs:     expr,
			Op:      ops[opToken.Kind],
			OpToken: opToken,
			Rhs:     rhs,
		}
	}
}

func (p *treeParser) or() (syntax.Expr, error) {
	return p.binaryLadder(p.and,
		map[token.Kind]syntax.BinaryOpKind{token.Or: syntax.BinaryOr},
		token.Or)
}

func (p *treeParser) and() (syntax.Expr, error) {
	return p.binaryLadder(p.equality,
		map[token.Kind]syntax.BinaryOpKind{token.And: syntax.BinaryAnd},
		token.And)
}

func (p *treeParser) equality() (syntax.Expr, error) {
	return p.binaryLadder(p.comparison,
		map[token.Kind]syntax.BinaryOpKind{
			token.EqualEqual: syntax.BinaryEqualEqual,
			token.BangEqual:  syntax.BinaryNotEqual,
		},
		token.EqualEqual, token.BangEqual)
}

func (p *treeParser) comparison() (syntax.Expr, error) {
	return p.binaryLadder(p.rangeExpr,
		map[token.Kind]syntax.BinaryOpKind{
			token.Greater:      syntax.BinaryGreater,
			token.GreaterEqual: syntax.BinaryGreaterEq,
			token.Less:         syntax.BinaryLess,
			token.LessEqual:    syntax.BinaryLessEq,
		},
		token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *treeParser) rangeExpr() (syntax.Expr, error) {
	return p.binaryLadder(p.term,
		map[token.Kind]syntax.BinaryOpKind{token.DotDot: syntax.BinaryRange},
		token.DotDot)
}

func (p *treeParser) term() (syntax.Expr, error) {
	return p.binaryLadder(p.factor,
		map[token.Kind]syntax.BinaryOpKind{
			token.Plus:  syntax.BinaryAdd,
			token.Minus: syntax.BinarySubtract,
		},
		token.Plus, token.Minus)
}

func (p *treeParser) factor() (syntax.Expr, error) {
	return p.binaryLadder(p.modulo,
		map[token.Kind]syntax.BinaryOpKind{
			token.Asterisk: syntax.BinaryMultiply,
			token.Slash:    syntax.BinaryDivide,
		},
		token.Asterisk, token.Slash)
}

func (p *treeParser) modulo() (syntax.Expr, error) {
	return p.binaryLadder(p.unary,
		map[token.Kind]syntax.BinaryOpKind{token.Percent: syntax.BinaryModulo},
		token.Percent)
}

func (p *treeParser) unary() (syntax.Expr, error) {
	if notToken := p.matchAny([]token.Kind{token.Not}, NewlinesOne); notToken != nil {
		value, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &syntax.UnaryExpr{
			ID:      p.gen.Expr(),
			Op:      syntax.UnaryNot,
			OpToken: notToken,
			Value:   value,
		}, nil
	}

	if ampToken := p.matchAny([]token.Kind{token.Amp}, NewlinesOne); ampToken != nil {
		expr := &syntax.UnaryExpr{
			ID:      p.gen.Expr(),
			Op:      syntax.UnaryRefConst,
			OpToken: ampToken,
		}

		if mutToken := p.matchAny([]token.Kind{token.Mut}, NewlinesNone); mutToken != nil {
			expr.Op = syntax.UnaryRefMut
			expr.MutToken = mutToken
		} else {
			expr.ConstToken = p.matchAny([]token.Kind{token.Const}, NewlinesNone)
		}

		value, err := p.unary()
		if err != nil {
			return nil, err
		}

		expr.Value = value

		return expr, nil
	}

	return p.callOrGet()
}

func (p *treeParser) callOrGet() (syntax.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		if openParen := p.matchAny([]token.Kind{token.OpenParen}, NewlinesNone); openParen != nil {
			expr, err = p.finishCall(expr, openParen)
			if err != nil {
				return nil, err
			}

			continue
		}

		if dotToken := p.matchAny([]token.Kind{token.Dot}, NewlinesNone); dotToken != nil {
			name, err := p.consume(token.Ident, "Expect property name after '.'")
			if err != nil {
				return nil, err
			}

			expr = &syntax.GetExpr{
				ID:       p.gen.Expr(),
				Target:   expr,
				DotToken: dotToken,
				Name:     name,
			}

			continue
		}

		if p.check(token.OpenBrace) && constructTarget(expr) {
			openBrace := p.advance()

			expr, err = p.finishConstruct(expr, openBrace)
			if err != nil {
				return nil, err
			}

			continue
		}

		return expr, nil
	}
}

// constructTarget limits `expr { … }` construct syntax to struct names.
func constructTarget(expr syntax.Expr) bool {
	switch expr.(type) {
	case *syntax.IdentExpr, *syntax.StaticRefExpr:
		return true
	default:
		return false
	}
}

func (p *treeParser) finishCall(callee syntax.Expr, openParen *token.Token) (syntax.Expr, error) {
	preComma := p.matchAny([]token.Kind{token.Comma}, NewlinesMany)
	p.allowManyNewlines()

	var args []*syntax.CallArg

	if !p.check(token.CloseParen) {
		for {
			if len(args) >= 255 {
				t := p.peek()
				if t == nil {
					return nil, p.eofErr()
				}

				return nil, p.errorAt(t, "Can't have more than 255 arguments")
			}

			value, err := p.expression()
			if err != nil {
				return nil, err
			}

			p.allowManyNewlines()

			comma := p.matchAny([]token.Kind{token.Comma}, NewlinesMany)

			p.allowManyNewlines()

			args = append(args, &syntax.CallArg{
				Value:      value,
				CommaToken: comma,
			})

			if comma == nil {
				break
			}

			if p.check(token.CloseParen) {
				break
			}
		}
	}

	closeParen, err := p.consume(token.CloseParen, "Expect ')' after arguments")
	if err != nil {
		return nil, err
	}

	return &syntax.CallExpr{
		ID:              p.gen.Expr(),
		Callee:          callee,
		OpenParenToken:  openParen,
		PreCommaToken:   preComma,
		Args:            args,
		CloseParenToken: closeParen,
	}, nil
}

func (p *treeParser) finishConstruct(target syntax.Expr, openBrace *token.Token) (syntax.Expr, error) {
	var fields []*syntax.ConstructField

	p.allowManyNewlines()

	for !p.check(token.CloseBrace) {
		name, err := p.consume(token.Ident, "Expect field name")
		if err != nil {
			return nil, err
		}

		colon, err := p.consume(token.Colon, "Expect ':' after field name")
		if err != nil {
			return nil, err
		}

		value, err := p.expression()
		if err != nil {
			return nil, err
		}

		comma := p.matchAny([]token.Kind{token.Comma}, NewlinesMany)

		fields = append(fields, &syntax.ConstructField{
			Name:       name,
			ColonToken: colon,
			Value:      value,
			CommaToken: comma,
		})

		p.allowManyNewlines()

		if comma == nil {
			break
		}
	}

	closeBrace, err := p.consume(token.CloseBrace, "Expect '}' after fields")
	if err != nil {
		return nil, err
	}

	return &syntax.ConstructExpr{
		ID:              p.gen.Expr(),
		Target:          target,
		OpenBraceToken:  openBrace,
		Fields:          fields,
		CloseBraceToken: closeBrace,
	}, nil
}

func (p *treeParser) primary() (syntax.Expr, error) {
	t := p.advance()
	if t == nil {
		return nil, p.eofErr()
	}

	switch t.Kind {
	case token.PlainString:
		return &syntax.PlainStringLiteralExpr{
			ID:      p.gen.Expr(),
			Literal: t,
		}, nil

	case token.OpenFmtString:
		return p.fmtStringChain(t)

	case token.True, token.False:
		return &syntax.BoolLiteralExpr{
			ID:      p.gen.Expr(),
			Literal: t,
		}, nil

	case token.IntegerNumber:
		v, err := strconv.ParseInt(t.Lexeme, 10, 64)
		if err != nil {
			return nil, p.errorAt(t, "Invalid integer literal %q", t.Lexeme)
		}

		return &syntax.NumberLiteralExpr{
			ID:      p.gen.Expr(),
			Literal: t,
			Int:     v,
		}, nil

	case token.DecimalNumber:
		v, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			return nil, p.errorAt(t, "Invalid decimal literal %q", t.Lexeme)
		}

		return &syntax.NumberLiteralExpr{
			ID:      p.gen.Expr(),
			Literal: t,
			Dec:     v,
		}, nil

	case token.Char:
		return &syntax.CharLiteralExpr{
			ID:      p.gen.Expr(),
			Literal: t,
		}, nil

	case token.Ident:
		if p.check(token.DoubleColon) {
			return p.staticRefExpr(t, nil)
		}

		return &syntax.IdentExpr{
			ID:    p.gen.Expr(),
			Ident: t,
		}, nil

	case token.DoubleColon:
		name, err := p.consume(token.Ident, "Expect name after '::'")
		if err != nil {
			return nil, err
		}

		return p.staticRefExpr(name, t)

	case token.If:
		return p.ifExpr(t)

	case token.Loop:
		return p.loopExpr(t, nil)

	case token.While:
		return p.whileExpr(t, nil)

	case token.Label:
		return p.labelledExpr(t)

	case token.OpenParen:
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.consume(token.CloseParen, "Expect ')' after expression"); err != nil {
			return nil, err
		}

		return expr, nil

	case token.Crash:
		return nil, token.NewErrorAt(token.ErrUnsupported, p.path, t.Span, "CRASH! expressions are not supported yet")
	}

	return nil, p.errorAt(t, "Expect some expression, found %s", t)
}

func (p *treeParser) labelledExpr(label *token.Token) (syntax.Expr, error) {
	if t := p.matchAny([]token.Kind{token.Loop}, NewlinesNone); t != nil {
		return p.loopExpr(t, label)
	}

	if t := p.matchAny([]token.Kind{token.While}, NewlinesNone); t != nil {
		return p.whileExpr(t, label)
	}

	return nil, p.errorAt(label, "Expect 'loop' or 'while' after label")
}

// staticRefExpr continues `name::…` into a static value path. The first
// segment (and optional leading '::') has already been consumed.
func (p *treeParser) staticRefExpr(first *token.Token, leading *token.Token) (syntax.Expr, error) {
	path := &syntax.StaticPath{
		DoubleColonToken: leading,
		Name:             first,
	}

	for {
		sep := p.matchAny([]token.Kind{token.DoubleColon}, NewlinesNone)
		if sep == nil {
			break
		}

		name, err := p.consume(token.Ident, "Expect name after '::'")
		if err != nil {
			return nil, err
		}

		path = &syntax.StaticPath{
			DoubleColonToken: sep,
			Root:             path,
			Name:             name,
		}
	}

	return &syntax.StaticRefExpr{
		ID:   p.gen.Expr(),
		Path: path,
	}, nil
}

func (p *treeParser) fmtStringChain(first *token.Token) (syntax.Expr, error) {
	expr := &syntax.FmtStringLiteralExpr{
		ID:    p.gen.Expr(),
		First: first,
	}

	for {
		part, err := p.expression()
		if err != nil {
			return nil, err
		}

		str := p.matchAny([]token.Kind{token.MidFmtString}, NewlinesNone)
		done := false

		if str == nil {
			str, err = p.consume(token.CloseFmtString, "Expected format string to be closed")
			if err != nil {
				return nil, err
			}

			done = true
		}

		expr.Rest = append(expr.Rest, &syntax.FmtStringPart{
			Expr:   part,
			String: str,
		})

		if done {
			return expr, nil
		}
	}
}

func (p *treeParser) ifExpr(ifToken *token.Token) (syntax.Expr, error) {
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}

	expr := &syntax.IfExpr{
		ID:        p.gen.Expr(),
		IfToken:   ifToken,
		Condition: condition,
	}

	// The ternary form: `if c then a else b`.
	if thenToken := p.matchAny([]token.Kind{token.Then}, NewlinesNone); thenToken != nil {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}

		expr.Then = &syntax.IfExprThen{ThenToken: thenToken, Expr: value}

		for {
			elseToken := p.matchAny([]token.Kind{token.Else}, NewlinesOne)
			if elseToken == nil {
				break
			}

			if ifTok := p.matchAny([]token.Kind{token.If}, NewlinesNone); ifTok != nil {
				cond, err := p.expression()
				if err != nil {
					return nil, err
				}

				thenTok, err := p.consume(token.Then, "Expect 'then' after else-if condition")
				if err != nil {
					return nil, err
				}

				value, err := p.expression()
				if err != nil {
					return nil, err
				}

				expr.ElseIfs = append(expr.ElseIfs, &syntax.IfExprElseIf{
					ElseToken: elseToken,
					IfToken:   ifTok,
					Condition: cond,
					ThenToken: thenTok,
					Expr:      value,
				})

				continue
			}

			value, err := p.expression()
			if err != nil {
				return nil, err
			}

			expr.Else = &syntax.IfExprElse{ElseToken: elseToken, Expr: value}

			break
		}

		return expr, nil
	}

	// The block form.
	if _, err := p.consume(token.Newline, "Expect newline after if condition"); err != nil {
		return nil, err
	}

	stmts, endToken, err := p.codeBlockWithAnyEnd(token.Semicolon, token.Else)
	if err != nil {
		return nil, err
	}

	expr.Then = &syntax.IfExprThen{Block: &syntax.CodeBlock{Stmts: stmts}}

	if endToken != nil && endToken.Kind == token.Semicolon {
		expr.SemicolonToken = endToken
		return expr, nil
	}

	elseToken := endToken

	for {
		ifTok := p.matchAny([]token.Kind{token.If}, NewlinesOne)
		if ifTok == nil {
			break
		}

		cond, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.consume(token.Newline, "Expect newline after else-if condition"); err != nil {
			return nil, err
		}

		stmts, endToken, err = p.codeBlockWithAnyEnd(token.Semicolon, token.Else)
		if err != nil {
			return nil, err
		}

		expr.ElseIfs = append(expr.ElseIfs, &syntax.IfExprElseIf{
			ElseToken: elseToken,
			IfToken:   ifTok,
			Condition: cond,
			Block:     &syntax.CodeBlock{Stmts: stmts},
		})

		if endToken != nil && endToken.Kind == token.Semicolon {
			expr.SemicolonToken = endToken
			return expr, nil
		}

		elseToken = endToken
	}

	if _, err := p.consume(token.Newline, "Expect newline after else"); err != nil {
		return nil, err
	}

	stmts, semicolon, err := p.codeBlockWithAnyEnd(token.Semicolon)
	if err != nil {
		return nil, err
	}

	expr.Else = &syntax.IfExprElse{
		ElseToken: elseToken,
		Block:     &syntax.CodeBlock{Stmts: stmts},
	}
	expr.SemicolonToken = semicolon

	return expr, nil
}

func (p *treeParser) loopExpr(loopToken *token.Token, label *token.Token) (syntax.Expr, error) {
	if _, err := p.consume(token.Newline, "Expect newline after loop"); err != nil {
		return nil, err
	}

	block, err := p.codeBlock()
	if err != nil {
		return nil, err
	}

	return &syntax.LoopExpr{
		ID:        p.gen.Expr(),
		Label:     label,
		LoopToken: loopToken,
		Block:     block,
	}, nil
}

func (p *treeParser) whileExpr(whileToken *token.Token, label *token.Token) (syntax.Expr, error) {
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.Newline, "Expect newline after while condition"); err != nil {
		return nil, err
	}

	block, err := p.codeBlock()
	if err != nil {
		return nil, err
	}

	return &syntax.WhileExpr{
		ID:         p.gen.Expr(),
		Label:      label,
		WhileToken: whileToken,
		Condition:  condition,
		Block:      block,
	}, nil
}
