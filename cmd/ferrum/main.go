// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mstoykov/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	ferrum "github.com/ferrum-lang/ferrum-compiler-sub000"
	"github.com/ferrum-lang/ferrum-compiler-sub000/executor"
)

type envOptions struct {
	LogLevel string `envconfig:"FERRUM_LOG_LEVEL" default:"warn"`
	NoRun    bool   `envconfig:"FERRUM_NO_RUN" default:"false"`
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ferrum <project-root>",
		Short:         "Compile a Fe project to Rust and run it",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts envOptions
			if err := envconfig.Process("", &opts); err != nil {
				return err
			}

			logger := logrus.New()
			logger.SetOutput(os.Stderr)

			level, err := logrus.ParseLevel(opts.LogLevel)
			if err != nil {
				level = logrus.WarnLevel
			}

			logger.SetLevel(level)

			fs := afero.NewOsFs()

			result, err := ferrum.Build(fs, args[0], logger)
			if err != nil {
				return err
			}

			logger.WithField("crate", result.Config.RustGenDir).Info("wrote generated crate")

			if opts.NoRun {
				return nil
			}

			stdout, err := executor.NewCargoRunner(logger).BuildAndRun(result.Config)
			if err != nil {
				return err
			}

			fmt.Print(stdout)

			return nil
		},
	}

	return cmd
}
