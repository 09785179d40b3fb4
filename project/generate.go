// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/ferrum-lang/ferrum-compiler-sub000/codegen"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

// Generator writes the emitted host source as a cargo crate under the
// configured output directory. Nothing is written unless the whole
// pipeline succeeded.
type Generator struct {
	fs     afero.Fs
	logger logrus.FieldLogger
}

// NewGenerator creates a generator over fs. logger may be nil.
func NewGenerator(fs afero.Fs, logger logrus.FieldLogger) *Generator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Generator{fs: fs, logger: logger}
}

// WriteCrate lays out Cargo.toml plus src/ files for the generated
// code, under cfg.RustGenDir.
func (g *Generator) WriteCrate(cfg *Config, crateName, crateVersion string, code *codegen.RustCode) error {
	srcDir := filepath.Join(cfg.RustGenDir, "src")

	if err := g.fs.MkdirAll(srcDir, 0o755); err != nil {
		return token.WrapIO(err, "unable to create %q", srcDir)
	}

	cargoToml := fmt.Sprintf(
		"[package]\nname = %q\nversion = %q\nedition = \"2021\"\n\n[dependencies]\n",
		crateName, crateVersion,
	)

	cargoPath := filepath.Join(cfg.RustGenDir, "Cargo.toml")

	if err := afero.WriteFile(g.fs, cargoPath, []byte(cargoToml), 0o644); err != nil {
		return token.WrapIO(err, "unable to write %q", cargoPath)
	}

	for _, file := range code.Files {
		path := filepath.Join(srcDir, filepath.FromSlash(file.Path))

		if err := g.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return token.WrapIO(err, "unable to create %q", filepath.Dir(path))
		}

		if err := afero.WriteFile(g.fs, path, []byte(file.Content), 0o644); err != nil {
			return token.WrapIO(err, "unable to write %q", path)
		}

		g.logger.WithField("file", path).Debug("wrote generated source")
	}

	return nil
}
