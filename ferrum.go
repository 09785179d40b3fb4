// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package ferrum wires the compiler pipeline together: read → lex →
// parse → resolve → lower → emit → generate. Each pass consumes the
// prior pass's output and owns the next representation.
package ferrum

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/ferrum-lang/ferrum-compiler-sub000/codegen"
	"github.com/ferrum-lang/ferrum-compiler-sub000/lexer"
	"github.com/ferrum-lang/ferrum-compiler-sub000/lower"
	"github.com/ferrum-lang/ferrum-compiler-sub000/manifest"
	"github.com/ferrum-lang/ferrum-compiler-sub000/parser"
	"github.com/ferrum-lang/ferrum-compiler-sub000/project"
	"github.com/ferrum-lang/ferrum-compiler-sub000/resolver"
	"github.com/ferrum-lang/ferrum-compiler-sub000/source"
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

// Result carries everything a successful compilation produced.
type Result struct {
	Config   *project.Config
	Manifest *manifest.Manifest
	Code     *codegen.RustCode
}

// Compile runs the core pipeline for the project at root, producing the
// emitted host source without writing anything to disk.
func Compile(fs afero.Fs, root string, logger logrus.FieldLogger) (*Result, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	cfg := project.DefaultConfig(root)

	mf, err := manifest.Load(fs, root)
	if err != nil {
		return nil, err
	}

	src, err := source.NewReader(fs, logger).ReadProject(cfg.SrcDir)
	if err != nil {
		return nil, err
	}

	tokens, err := lexer.NewFeLexer(logger).ScanPackage(src)
	if err != nil {
		return nil, err
	}

	gen := syntax.NewIDGen()

	parsed, err := parser.NewFeSyntaxParser(gen, logger).ParsePackage(tokens)
	if err != nil {
		return nil, err
	}

	if err := resolver.NewFeTypeResolver(logger).ResolvePackage(parsed); err != nil {
		return nil, err
	}

	pkgRoot, ok := parsed.(*syntax.Dir)
	if !ok {
		return nil, token.NewError(token.ErrInternal, "parsed project root is not a directory package")
	}

	rustIR, err := lower.CompilePackage(pkgRoot)
	if err != nil {
		return nil, err
	}

	code, err := codegen.GenerateCode(rustIR)
	if err != nil {
		return nil, err
	}

	return &Result{Config: cfg, Manifest: mf, Code: code}, nil
}

// Build compiles the project and writes the generated crate under the
// project's output directory. Output files are only produced when the
// whole compilation succeeded.
func Build(fs afero.Fs, root string, logger logrus.FieldLogger) (*Result, error) {
	result, err := Compile(fs, root, logger)
	if err != nil {
		return nil, err
	}

	gen := project.NewGenerator(fs, logger)

	if err := gen.WriteCrate(result.Config, result.Manifest.Name, result.Manifest.Version, result.Code); err != nil {
		return nil, err
	}

	return result, nil
}
