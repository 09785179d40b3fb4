// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package source

// Package is one node of the source tree read from disk.
type Package interface {
	sourcePackage()
}

// File is a single .fe source file. Name is the file stem, which doubles
// as the package name for top-level files.
type File struct {
	Name    string
	Path    string
	Content string
}

func (*File) sourcePackage() {}

// Dir is a source directory package: an entry file (_pkg.fe, or _main.fe
// at the project root) plus named sub-packages.
type Dir struct {
	Name  string
	Path  string
	Entry *File
	Local map[string]Package
}

func (*Dir) sourcePackage() {}
