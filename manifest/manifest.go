// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package manifest reads the optional fe.project file at a project
// root:
//
//	project hello_world
//	version "0.1.0"
//	target rust
//
// Every entry is optional; a missing file yields defaults with the
// project name derived from the root directory.
package manifest

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/spf13/afero"
	"golang.org/x/mod/semver"

	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

// FileName is the manifest file looked up at the project root.
const FileName = "fe.project"

// DefaultTarget is the only host target this compiler emits.
const DefaultTarget = "rust"

// Manifest describes a Fe project.
type Manifest struct {
	Name    string
	Version string
	Target  string
}

type manifestFile struct {
	Entries []*manifestEntry `@@*`
}

type manifestEntry struct {
	Project string `  "project" @Ident`
	Version string `| "version" @String`
	Target  string `| "target" @Ident`
}

var parser = participle.MustBuild[manifestFile](
	participle.Unquote("String"),
)

// Load reads the manifest from projectRoot, falling back to defaults
// when no manifest file exists.
func Load(fs afero.Fs, projectRoot string) (*Manifest, error) {
	m := &Manifest{
		Name:    defaultName(projectRoot),
		Version: "0.1.0",
		Target:  DefaultTarget,
	}

	path := filepath.Join(projectRoot, FileName)

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, token.WrapIO(err, "unable to inspect %q", path)
	}

	if !exists {
		return m, nil
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, token.WrapIO(err, "unable to read %q", path)
	}

	parsed, err := parser.ParseString(path, string(content))
	if err != nil {
		return nil, token.NewError(token.ErrParse, "invalid manifest %q: %v", path, err)
	}

	for _, entry := range parsed.Entries {
		switch {
		case entry.Project != "":
			m.Name = entry.Project
		case entry.Version != "":
			m.Version = entry.Version
		case entry.Target != "":
			m.Target = entry.Target
		}
	}

	if !semver.IsValid("v" + m.Version) {
		return nil, token.NewError(token.ErrParse, "invalid manifest version %q", m.Version)
	}

	if m.Target != DefaultTarget {
		return nil, token.NewError(token.ErrUnsupported, "unknown target %q, only %q is supported", m.Target, DefaultTarget)
	}

	return m, nil
}

func defaultName(projectRoot string) string {
	base := filepath.Base(projectRoot)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "ferrum_project"
	}

	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == '-', r == ' ', r == '.':
			return '_'
		default:
			return -1
		}
	}, base)

	if name == "" {
		return "ferrum_project"
	}

	return name
}
