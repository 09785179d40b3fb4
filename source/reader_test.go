// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()

	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %q: %v", path, err)
		}
	}

	return fs
}

func TestReadProject(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/p/src/_main.fe":      "pub fn main()\n;\n",
		"/p/src/helpers.fe":    "pub fn help()\n;\n",
		"/p/src/util/_pkg.fe":  "pub fn greet()\n;\n",
		"/p/src/util/extra.fe": "pub fn extra()\n;\n",
		"/p/src/notes.txt":     "not fe source",
	})

	dir, err := NewReader(fs, nil).ReadProject("/p/src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir.Entry == nil || dir.Entry.Name != "_main" {
		t.Fatalf("entry file should be _main, got %+v", dir.Entry)
	}

	if len(dir.Local) != 2 {
		t.Fatalf("got %d local packages, want 2 (helpers, util): %v", len(dir.Local), dir.Local)
	}

	helpers, ok := dir.Local["helpers"].(*File)
	if !ok {
		t.Fatalf("helpers should be a file package")
	}

	if helpers.Content != "pub fn help()\n;\n" {
		t.Errorf("unexpected helpers content %q", helpers.Content)
	}

	util, ok := dir.Local["util"].(*Dir)
	if !ok {
		t.Fatalf("util should be a dir package")
	}

	if util.Entry.Name != "_pkg" {
		t.Errorf("util entry should be _pkg, got %q", util.Entry.Name)
	}

	if _, ok := util.Local["extra"]; !ok {
		t.Errorf("util should contain the extra file package")
	}
}

func TestReadProjectMissingMain(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/p/src/helpers.fe": "pub fn help()\n;\n",
	})

	_, err := NewReader(fs, nil).ReadProject("/p/src")
	if err == nil {
		t.Fatal("expected an error for a missing _main.fe")
	}

	if !token.IsKind(err, token.ErrIO) {
		t.Errorf("expected an IO error, got %v", err)
	}
}

func TestReadProjectMissingPkgEntry(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/p/src/_main.fe":      "pub fn main()\n;\n",
		"/p/src/util/loose.fe": "pub fn loose()\n;\n",
	})

	_, err := NewReader(fs, nil).ReadProject("/p/src")
	if err == nil {
		t.Fatal("expected an error for a package without _pkg.fe")
	}

	if !token.IsKind(err, token.ErrIO) {
		t.Errorf("expected an IO error, got %v", err)
	}
}

func TestReadProjectMissingSrcDir(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := NewReader(fs, nil).ReadProject("/p/src")
	if err == nil {
		t.Fatal("expected an error for a missing src dir")
	}
}
