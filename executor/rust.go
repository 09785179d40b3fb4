// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package executor drives the external host-language toolchain over a
// generated crate. The compiler core never depends on it; the CLI wires
// it in at the end of the pipeline.
package executor

import (
	"bytes"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ferrum-lang/ferrum-compiler-sub000/project"
	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

// Runner builds and runs a generated crate, returning the program's
// standard output.
type Runner interface {
	BuildAndRun(cfg *project.Config) (string, error)
}

// CargoRunner shells out to cargo.
type CargoRunner struct {
	logger logrus.FieldLogger
}

// NewCargoRunner creates a runner. logger may be nil.
func NewCargoRunner(logger logrus.FieldLogger) *CargoRunner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &CargoRunner{logger: logger}
}

// BuildAndRun invokes `cargo run` on the generated crate, keeping build
// artifacts under the project's builds directory. Every invocation is
// tagged with a build id for log correlation.
func (r *CargoRunner) BuildAndRun(cfg *project.Config) (string, error) {
	buildID := uuid.NewString()

	logger := r.logger.WithFields(logrus.Fields{
		"build": buildID,
		"crate": cfg.RustGenDir,
	})

	targetDir := filepath.Join(cfg.BuildsDir, "dev")

	cmd := exec.Command("cargo", "run", "--quiet", "--target-dir", targetDir)
	cmd.Dir = cfg.RustGenDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("invoking cargo")

	if err := cmd.Run(); err != nil {
		return "", token.NewError(token.ErrIO, "cargo run failed: %v\n%s", err, stderr.String()).SetCause(err)
	}

	logger.WithField("bytes", stdout.Len()).Debug("cargo run finished")

	return stdout.String(), nil
}
