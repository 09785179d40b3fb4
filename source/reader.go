// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

const (
	// MainFile is the mandatory entry file at the project's src root.
	MainFile = "_main.fe"
	// PkgFile is the mandatory entry file of every sub-package directory.
	PkgFile = "_pkg.fe"

	feExt = ".fe"
)

// Reader walks a src directory on an afero filesystem and produces the
// source tree the rest of the pipeline consumes.
type Reader struct {
	fs     afero.Fs
	logger logrus.FieldLogger
}

// NewReader creates a Reader over fs. logger may be nil.
func NewReader(fs afero.Fs, logger logrus.FieldLogger) *Reader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Reader{fs: fs, logger: logger}
}

// ReadProject reads srcDir (the project's "src" directory) into a source
// tree. The root entry file is _main.fe; every directory below must carry
// a _pkg.fe entry file.
func (r *Reader) ReadProject(srcDir string) (*Dir, error) {
	isDir, err := afero.DirExists(r.fs, srcDir)
	if err != nil {
		return nil, token.WrapIO(err, "unable to inspect %q", srcDir)
	}

	if !isDir {
		return nil, token.NewError(token.ErrIO, "expected the project root to contain a %q directory", srcDir)
	}

	dir, err := r.readDir(srcDir, "src", MainFile)
	if err != nil {
		return nil, err
	}

	return dir, nil
}

func (r *Reader) readDir(dir, name, entryName string) (*Dir, error) {
	entryPath := filepath.Join(dir, entryName)

	exists, err := afero.Exists(r.fs, entryPath)
	if err != nil {
		return nil, token.WrapIO(err, "unable to inspect %q", entryPath)
	}

	if !exists {
		return nil, token.NewError(token.ErrIO, "expected package %q to contain a %q file", dir, entryName)
	}

	entry, err := r.readFile(entryPath)
	if err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		return nil, token.WrapIO(err, "unable to list %q", dir)
	}

	local := map[string]Package{}

	for _, info := range infos {
		path := filepath.Join(dir, info.Name())

		if info.IsDir() {
			sub, err := r.readDir(path, info.Name(), PkgFile)
			if err != nil {
				return nil, err
			}

			local[sub.Name] = sub

			continue
		}

		if !strings.HasSuffix(info.Name(), feExt) {
			continue
		}

		stem := strings.TrimSuffix(info.Name(), feExt)
		if info.Name() == entryName {
			continue
		}

		file, err := r.readFile(path)
		if err != nil {
			return nil, err
		}

		local[stem] = file
	}

	r.logger.WithFields(logrus.Fields{
		"dir":      dir,
		"packages": len(local),
	}).Debug("read source package")

	return &Dir{
		Name:  name,
		Path:  dir,
		Entry: entry,
		Local: local,
	}, nil
}

func (r *Reader) readFile(path string) (*File, error) {
	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, token.WrapIO(err, "unable to read %q", path)
	}

	stem := strings.TrimSuffix(filepath.Base(path), feExt)

	return &File{
		Name:    stem,
		Path:    path,
		Content: string(content),
	}, nil
}
