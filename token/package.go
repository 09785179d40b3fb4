// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

// Package is one node of the token tree. The tree mirrors the source
// tree: a File holds the token stream of one .fe file, a Dir holds an
// entry file plus named sub-packages.
type Package interface {
	tokenPackage()
}

type File struct {
	Name   string
	Path   string
	Tokens []*Token
}

func (*File) tokenPackage() {}

type Dir struct {
	Name  string
	Path  string
	Entry *File
	Local map[string]Package
}

func (*Dir) tokenPackage() {}
