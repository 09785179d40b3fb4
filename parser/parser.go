// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

func sortedPackageNames(local map[string]token.Package) []string {
	names := make([]string, 0, len(local))
	for name := range local {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// WithNewlines states how many newlines a token match may speculatively
// consume before the wanted token. Newlines consumed for a failed match
// are un-consumed.
type WithNewlines int

const (
	NewlinesNone WithNewlines = iota
	NewlinesOne
	NewlinesMany
)

// FeSyntaxParser turns the token tree into the parallel syntax tree.
type FeSyntaxParser struct {
	gen    *syntax.IDGen
	logger logrus.FieldLogger
}

// NewFeSyntaxParser creates a parser issuing NodeIDs from gen. logger
// may be nil.
func NewFeSyntaxParser(gen *syntax.IDGen, logger logrus.FieldLogger) *FeSyntaxParser {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &FeSyntaxParser{gen: gen, logger: logger}
}

// ParsePackage parses every file of the token tree.
func (p *FeSyntaxParser) ParsePackage(pkg token.Package) (syntax.Package, error) {
	switch pkg := pkg.(type) {
	case *token.File:
		file, err := p.parseFile(pkg)
		if err != nil {
			return nil, err
		}

		return file, nil

	case *token.Dir:
		entry, err := p.parseFile(pkg.Entry)
		if err != nil {
			return nil, err
		}

		local := map[string]syntax.Package{}

		for _, name := range sortedPackageNames(pkg.Local) {
			parsed, err := p.ParsePackage(pkg.Local[name])
			if err != nil {
				return nil, err
			}

			local[name] = parsed
		}

		return &syntax.Dir{
			Name:  pkg.Name,
			Path:  pkg.Path,
			Entry: entry,
			Local: local,
		}, nil
	}

	return nil, token.NewError(token.ErrInternal, "unknown token package node %T", pkg)
}

func (p *FeSyntaxParser) parseFile(file *token.File) (*syntax.File, error) {
	tree, err := Parse(p.gen, file.Path, file.Tokens)
	if err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"file":  file.Path,
		"uses":  len(tree.Uses),
		"decls": len(tree.Decls),
	}).Debug("parsed file")

	return &syntax.File{
		Name: file.Name,
		Path: file.Path,
		Tree: tree,
	}, nil
}

// Parse parses a single file's token stream.
func Parse(gen *syntax.IDGen, path string, tokens []*token.Token) (*syntax.Tree, error) {
	tp := &treeParser{
		gen:    gen,
		path:   path,
		tokens: tokens,
		out:    &syntax.Tree{},
	}

	if err := tp.parse(); err != nil {
		return nil, err
	}

	return tp.out, nil
}

type treeParser struct {
	gen    *syntax.IDGen
	path   string
	tokens []*token.Token
	out    *syntax.Tree

	idx int
}

func (p *treeParser) parse() error {
	for !p.isAtEnd() {
		if p.allowManyNewlines() > 0 {
			continue
		}

		use, err := p.useDeclaration()
		if err != nil {
			return err
		}

		if use == nil {
			break
		}

		p.out.Uses = append(p.out.Uses, use)

		if !p.isAtEnd() {
			if _, err := p.consume(token.Newline, "Expect newline after use"); err != nil {
				return err
			}
		}
	}

	for !p.isAtEnd() {
		if p.allowManyNewlines() > 0 {
			continue
		}

		decl, err := p.declaration()
		if err != nil {
			return err
		}

		p.out.Decls = append(p.out.Decls, decl)

		if !p.isAtEnd() {
			if _, err := p.consume(token.Newline, "Expect newline after declaration"); err != nil {
				return err
			}
		}
	}

	return nil
}

// ---- uses ----

func (p *treeParser) useDeclaration() (*syntax.Use, error) {
	pubToken := p.matchAny([]token.Kind{token.Pub}, NewlinesNone)

	useToken := p.matchAny([]token.Kind{token.Use}, NewlinesNone)
	if useToken == nil {
		if pubToken != nil {
			p.backtrack()
		}

		return nil, nil
	}

	path, err := p.useStaticPath(true)
	if err != nil {
		return nil, err
	}

	return &syntax.Use{
		ID:       p.gen.Use(),
		PubToken: pubToken,
		UseToken: useToken,
		Path:     path,
	}, nil
}

func (p *treeParser) useStaticPath(allowPre bool) (*syntax.UseStaticPath, error) {
	var pre *token.Token

	if allowPre {
		pre = p.matchAny([]token.Kind{token.DoubleColon, token.DotSlash, token.TildeSlash}, NewlinesNone)
	}

	name, err := p.consume(token.Ident, "Expect name of import")
	if err != nil {
		return nil, err
	}

	path := &syntax.UseStaticPath{
		Pre:  pre,
		Name: name,
	}

	doubleColon := p.matchAny([]token.Kind{token.DoubleColon}, NewlinesNone)
	if doubleColon == nil {
		return path, nil
	}

	next := &syntax.UseStaticPathNext{DoubleColonToken: doubleColon}
	path.Next = next

	if p.matchAny([]token.Kind{token.OpenBrace}, NewlinesNone) == nil {
		single, err := p.useStaticPath(false)
		if err != nil {
			return nil, err
		}

		next.Single = single

		return path, nil
	}

	// The `{a, b::c, …}` many-branch.
	for {
		p.allowManyNewlines()

		branch, err := p.useStaticPath(false)
		if err != nil {
			return nil, err
		}

		next.Many = append(next.Many, branch)

		p.allowManyNewlines()

		if p.matchAny([]token.Kind{token.Comma}, NewlinesMany) == nil {
			break
		}

		p.allowManyNewlines()

		if p.check(token.CloseBrace) {
			break
		}
	}

	if _, err := p.consume(token.CloseBrace, "Expect '}' to close use branches"); err != nil {
		return nil, err
	}

	return path, nil
}

// ---- declarations ----

func (p *treeParser) declaration() (syntax.Decl, error) {
	pubToken := p.matchAny([]token.Kind{token.Pub}, NewlinesMany)

	fnModToken := p.matchAny(
		[]token.Kind{token.Pure, token.Safe, token.Norm, token.Risk},
		NewlinesNone,
	)

	var fnToken *token.Token

	if fnModToken != nil {
		t, err := p.consume(token.Fn, "Expect 'fn' after fn modifier")
		if err != nil {
			return nil, err
		}

		fnToken = t
	} else {
		fnToken = p.matchAny([]token.Kind{token.Fn}, NewlinesMany)
	}

	if fnToken != nil {
		return p.function(pubToken, fnModToken, fnToken)
	}

	if structToken := p.matchAny([]token.Kind{token.Struct}, NewlinesMany); structToken != nil {
		return p.structDecl(pubToken, structToken)
	}

	t := p.peek()
	if t == nil {
		return nil, p.eofErr()
	}

	return nil, p.errorAt(t, "Expect declaration, found %s", t)
}

func (p *treeParser) function(pubToken, fnModToken, fnToken *token.Token) (syntax.Decl, error) {
	name, err := p.consume(token.Ident, "Expect function name")
	if err != nil {
		return nil, err
	}

	if p.check(token.Less) {
		t := p.peek()
		return nil, token.NewErrorAt(token.ErrUnsupported, p.path, t.Span, "generic functions are not supported yet")
	}

	openParen, err := p.consume(token.OpenParen, "Expect '(' after function name")
	if err != nil {
		return nil, err
	}

	preComma := p.matchAny([]token.Kind{token.Comma}, NewlinesMany)

	var params []*syntax.FnDeclParam

	for p.check(token.Ident) {
		if len(params) >= 255 {
			t := p.peek()
			return nil, p.errorAt(t, "Can't have more than 255 parameters")
		}

		paramName, err := p.consume(token.Ident, "Expect parameter name")
		if err != nil {
			return nil, err
		}

		colon, err := p.consume(token.Colon, "Expect ':' after param name")
		if err != nil {
			return nil, err
		}

		staticType, err := p.staticTypeRef()
		if err != nil {
			return nil, err
		}

		comma := p.matchAny([]token.Kind{token.Comma}, NewlinesMany)

		params = append(params, &syntax.FnDeclParam{
			Name:       paramName,
			ColonToken: colon,
			StaticType: staticType,
			CommaToken: comma,
		})

		if comma == nil {
			break
		}
	}

	p.allowManyNewlines()

	closeParen, err := p.consume(token.CloseParen, "Expect ')' after parameters")
	if err != nil {
		return nil, err
	}

	var returnType *syntax.FnDeclReturnType

	if colon := p.matchAny([]token.Kind{token.Colon}, NewlinesOne); colon != nil {
		staticType, err := p.staticTypeRef()
		if err != nil {
			return nil, err
		}

		returnType = &syntax.FnDeclReturnType{
			ColonToken: colon,
			StaticType: staticType,
		}
	}

	if _, err := p.consume(token.Newline, "Expect newline after function signature"); err != nil {
		return nil, err
	}

	body, err := p.codeBlock()
	if err != nil {
		return nil, err
	}

	return &syntax.FnDecl{
		ID:              p.gen.Decl(),
		PubToken:        pubToken,
		FnModToken:      fnModToken,
		FnToken:         fnToken,
		Name:            name,
		OpenParenToken:  openParen,
		PreCommaToken:   preComma,
		Params:          params,
		CloseParenToken: closeParen,
		Return:          returnType,
		Body:            body,
	}, nil
}

func (p *treeParser) structDecl(pubToken, structToken *token.Token) (syntax.Decl, error) {
	name, err := p.consume(token.Ident, "Expect struct name")
	if err != nil {
		return nil, err
	}

	openBrace, err := p.consume(token.OpenBrace, "Expect '{' after struct name")
	if err != nil {
		return nil, err
	}

	var fields []*syntax.StructDeclField

	p.allowManyNewlines()

	for !p.check(token.CloseBrace) {
		fieldPub := p.matchAny([]token.Kind{token.Pub}, NewlinesMany)

		fieldName, err := p.consume(token.Ident, "Expect field name")
		if err != nil {
			return nil, err
		}

		colon, err := p.consume(token.Colon, "Expect ':' after field name")
		if err != nil {
			return nil, err
		}

		staticType, err := p.staticTypeRef()
		if err != nil {
			return nil, err
		}

		comma := p.matchAny([]token.Kind{token.Comma}, NewlinesMany)

		fields = append(fields, &syntax.StructDeclField{
			PubToken:   fieldPub,
			Name:       fieldName,
			ColonToken: colon,
			StaticType: staticType,
			CommaToken: comma,
		})

		p.allowManyNewlines()

		if comma == nil {
			break
		}
	}

	closeBrace, err := p.consume(token.CloseBrace, "Expect '}' after struct fields")
	if err != nil {
		return nil, err
	}

	return &syntax.StructDecl{
		ID:              p.gen.Decl(),
		PubToken:        pubToken,
		StructToken:     structToken,
		Name:            name,
		OpenBraceToken:  openBrace,
		Fields:          fields,
		CloseBraceToken: closeBrace,
	}, nil
}

// ---- static types ----

func (p *treeParser) staticTypeRef() (*syntax.StaticType, error) {
	var refMod *syntax.RefTypeMod

	if refToken := p.matchAny([]token.Kind{token.Amp}, NewlinesNone); refToken != nil {
		refMod = &syntax.RefTypeMod{RefToken: refToken}

		if mutToken := p.matchAny([]token.Kind{token.Mut}, NewlinesNone); mutToken != nil {
			refMod.MutToken = mutToken
		} else {
			refMod.ConstToken = p.matchAny([]token.Kind{token.Const}, NewlinesNone)
		}
	}

	path, err := p.staticPath()
	if err != nil {
		return nil, err
	}

	st := &syntax.StaticType{
		Ref:  refMod,
		Path: path,
	}

	return st, nil
}

func (p *treeParser) staticPath() (*syntax.StaticPath, error) {
	doubleColon := p.matchAny([]token.Kind{token.DoubleColon}, NewlinesNone)

	name, err := p.consume(token.Ident, "Expect type reference")
	if err != nil {
		return nil, err
	}

	path := &syntax.StaticPath{
		DoubleColonToken: doubleColon,
		Name:             name,
	}

	for {
		sep := p.matchAny([]token.Kind{token.DoubleColon}, NewlinesNone)
		if sep == nil {
			break
		}

		name, err := p.consume(token.Ident, "Expect type reference")
		if err != nil {
			return nil, err
		}

		path = &syntax.StaticPath{
			DoubleColonToken: sep,
			Root:             path,
			Name:             name,
		}
	}

	return path, nil
}

// ---- blocks & statements ----

func (p *treeParser) codeBlock() (*syntax.CodeBlock, error) {
	stmts, end, err := p.codeBlockWithAnyEnd(token.Semicolon)
	if err != nil {
		return nil, err
	}

	return &syntax.CodeBlock{
		Stmts:             stmts,
		EndSemicolonToken: end,
	}, nil
}

func (p *treeParser) codeBlockWithAnyEnd(anyEnd ...token.Kind) ([]syntax.Stmt, *token.Token, error) {
	var block []syntax.Stmt

	for {
		if end := p.matchAny(anyEnd, NewlinesMany); end != nil {
			return block, end, nil
		}

		if p.isAtEnd() {
			break
		}

		if p.allowManyNewlines() > 0 {
			continue
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, nil, err
		}

		block = append(block, stmt)

		if !p.isAtEnd() {
			if _, err := p.consume(token.Newline, "Expect newline after statement"); err != nil {
				return nil, nil, err
			}
		}
	}

	end := p.previous()
	if end == nil && len(p.tokens) > 0 {
		end = p.tokens[0]
	}

	return block, end, nil
}

func (p *treeParser) statement() (syntax.Stmt, error) {
	if t := p.matchAny([]token.Kind{token.Const, token.Mut}, NewlinesMany); t != nil {
		return p.varDeclStatement(t)
	}

	if label := p.matchAny([]token.Kind{token.Label}, NewlinesMany); label != nil {
		return p.labelledStatement(label)
	}

	if t := p.matchAny([]token.Kind{token.If}, NewlinesMany); t != nil {
		return p.ifStatement(t, nil)
	}

	if t := p.matchAny([]token.Kind{token.Return}, NewlinesMany); t != nil {
		return p.returnStatement(t)
	}

	if t := p.matchAny([]token.Kind{token.Loop}, NewlinesMany); t != nil {
		return p.loopStatement(t, nil)
	}

	if t := p.matchAny([]token.Kind{token.While}, NewlinesMany); t != nil {
		return p.whileStatement(t, nil)
	}

	if t := p.matchAny([]token.Kind{token.Break}, NewlinesMany); t != nil {
		return p.breakStatement(t)
	}

	if t := p.matchAny([]token.Kind{token.Then}, NewlinesMany); t != nil {
		return p.thenStatement(t)
	}

	return p.exprOrAssignStatement()
}

func (p *treeParser) labelledStatement(label *token.Token) (syntax.Stmt, error) {
	if t := p.matchAny([]token.Kind{token.Loop}, NewlinesNone); t != nil {
		return p.loopStatement(t, label)
	}

	if t := p.matchAny([]token.Kind{token.While}, NewlinesNone); t != nil {
		return p.whileStatement(t, label)
	}

	if t := p.matchAny([]token.Kind{token.If}, NewlinesNone); t != nil {
		return p.ifStatement(t, label)
	}

	return nil, p.errorAt(label, "Expect 'loop', 'while', or 'if' after label")
}

func (p *treeParser) varDeclStatement(mutToken *token.Token) (syntax.Stmt, error) {
	targetName, err := p.consume(token.Ident, "Expect variable name")
	if err != nil {
		return nil, err
	}

	target := &syntax.IdentExpr{
		ID:    p.gen.Expr(),
		Ident: targetName,
	}

	var explicit *syntax.VarDeclExplicitType

	if colon := p.matchAny([]token.Kind{token.Colon}, NewlinesNone); colon != nil {
		staticType, err := p.staticTypeRef()
		if err != nil {
			return nil, err
		}

		explicit = &syntax.VarDeclExplicitType{
			ColonToken: colon,
			StaticType: staticType,
		}
	}

	var value *syntax.VarDeclValue

	if eq := p.matchAny([]token.Kind{token.Equal}, NewlinesOne); eq != nil {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		value = &syntax.VarDeclValue{EqToken: eq, Value: expr}
	}

	return &syntax.VarDeclStmt{
		ID:       p.gen.Stmt(),
		MutToken: mutToken,
		Target:   target,
		Explicit: explicit,
		Value:    value,
	}, nil
}

func (p *treeParser) ifStatement(ifToken *token.Token, label *token.Token) (syntax.Stmt, error) {
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}

	// The inline form: `if cond then <stmt>`.
	if thenToken := p.matchAny([]token.Kind{token.Then}, NewlinesNone); thenToken != nil {
		inline, err := p.statement()
		if err != nil {
			return nil, err
		}

		return &syntax.IfStmt{
			ID:         p.gen.Stmt(),
			IfToken:    ifToken,
			Condition:  condition,
			ThenLabel:  label,
			ThenToken:  thenToken,
			InlineThen: inline,
		}, nil
	}

	if _, err := p.consume(token.Newline, "Expect newline after if condition"); err != nil {
		return nil, err
	}

	stmts, endToken, err := p.codeBlockWithAnyEnd(token.Semicolon, token.Else)
	if err != nil {
		return nil, err
	}

	stmt := &syntax.IfStmt{
		ID:        p.gen.Stmt(),
		IfToken:   ifToken,
		Condition: condition,
		ThenLabel: label,
		Then:      &syntax.CodeBlock{Stmts: stmts},
	}

	if endToken != nil && endToken.Kind == token.Semicolon {
		stmt.SemicolonToken = endToken
		return stmt, nil
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

		stmt.ElseIfs = append(stmt.ElseIfs, &syntax.ElseIfBranch{
			ElseToken: elseToken,
			IfToken:   ifTok,
			Condition: cond,
			Then:      &syntax.CodeBlock{Stmts: stmts},
		})

		if endToken != nil && endToken.Kind == token.Semicolon {
			stmt.SemicolonToken = endToken
			return stmt, nil
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

	stmt.Else = &syntax.ElseBranch{
		ElseToken: elseToken,
		Then:      &syntax.CodeBlock{Stmts: stmts},
	}
	stmt.SemicolonToken = semicolon

	return stmt, nil
}

func (p *treeParser) returnStatement(returnToken *token.Token) (syntax.Stmt, error) {
	stmt := &syntax.ReturnStmt{
		ID:          p.gen.Stmt(),
		ReturnToken: returnToken,
	}

	if !p.check(token.Newline) && !p.check(token.Semicolon) && !p.isAtEnd() {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}

		stmt.Value = value
	}

	return stmt, nil
}

func (p *treeParser) loopStatement(loopToken *token.Token, label *token.Token) (syntax.Stmt, error) {
	if _, err := p.consume(token.Newline, "Expect newline after loop"); err != nil {
		return nil, err
	}

	block, err := p.codeBlock()
	if err != nil {
		return nil, err
	}

	return &syntax.LoopStmt{
		ID:        p.gen.Stmt(),
		Label:     label,
		LoopToken: loopToken,
		Block:     block,
	}, nil
}

func (p *treeParser) whileStatement(whileToken *token.Token, label *token.Token) (syntax.Stmt, error) {
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

	return &syntax.WhileStmt{
		ID:         p.gen.Stmt(),
		Label:      label,
		WhileToken: whileToken,
		Condition:  condition,
		Block:      block,
	}, nil
}

func (p *treeParser) breakStatement(breakToken *token.Token) (syntax.Stmt, error) {
	stmt := &syntax.BreakStmt{
		ID:         p.gen.Stmt(),
		BreakToken: breakToken,
	}

	stmt.Label = p.matchAny([]token.Kind{token.Label}, NewlinesNone)

	if !p.check(token.Newline) && !p.check(token.Semicolon) && !p.isAtEnd() {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}

		stmt.Value = value
	}

	return stmt, nil
}

func (p *treeParser) thenStatement(thenToken *token.Token) (syntax.Stmt, error) {
	stmt := &syntax.ThenStmt{
		ID:        p.gen.Stmt(),
		ThenToken: thenToken,
	}

	stmt.Label = p.matchAny([]token.Kind{token.Label}, NewlinesNone)

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	stmt.Value = value

	return stmt, nil
}

func (p *treeParser) exprOrAssignStatement() (syntax.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	opToken := p.matchAny(
		[]token.Kind{token.Equal, token.PlusEqual, token.MinusEqual},
		NewlinesOne,
	)

	if opToken == nil {
		return &syntax.ExprStmt{
			ID:   p.gen.Stmt(),
			Expr: expr,
		}, nil
	}

	var op syntax.AssignOp

	switch opToken.Kind {
	case token.Equal:
		op = syntax.AssignEq
	case token.PlusEqual:
		op = syntax.AssignPlusEq
	case token.MinusEqual:
		op = syntax.AssignMinusEq
	}

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	return &syntax.AssignStmt{
		ID:      p.gen.Stmt(),
		Target:  expr,
		Op:      op,
		OpToken: opToken,
		Value:   value,
	}, nil
}
