// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/syntax"
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

// ScopedType is one name binding.
type ScopedType struct {
	IsPub bool
	Type  types.FeType

	// ConstUnassigned marks a const binding declared without an
	// initializer; assigning to it once is allowed.
	ConstUnassigned bool
}

// scopeCreator records which AST node introduced a scope frame, so that
// break/then statements can find their handler by walking the stack.
type scopeCreator struct {
	kind syntax.HandlerKind
	node syntax.Node
	// label is the construct's (or if-branch's) label text, "" if none.
	label string
}

type flatScope struct {
	creator *scopeCreator
	names   map[string]*ScopedType
}

// Scope is a stack of flat frames. Lookups walk from the innermost
// frame outward.
type Scope struct {
	stack []*flatScope
}

func NewScope() *Scope {
	return &Scope{
		stack: []*flatScope{{names: map[string]*ScopedType{}}},
	}
}

func (s *Scope) BeginScope(creator *scopeCreator) {
	s.stack = append(s.stack, &flatScope{
		creator: creator,
		names:   map[string]*ScopedType{},
	})
}

func (s *Scope) EndScope() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *Scope) Insert(name string, st *ScopedType) {
	s.stack[len(s.stack)-1].names[name] = st
}

// Search returns the innermost binding for name.
func (s *Scope) Search(name string) (*ScopedType, bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if found, ok := s.stack[i].names[name]; ok {
			return found, true
		}
	}

	return nil, false
}

// Base returns the bottom frame's bindings; the file's top-level names
// live there, and public ones are synced into the export scope.
func (s *Scope) Base() map[string]*ScopedType {
	return s.stack[0].names
}

// handleBreak finds the loop/while construct a break targets. An
// unlabelled break matches the innermost one; a labelled break matches
// the innermost construct carrying that label.
func (s *Scope) handleBreak(label string) *scopeCreator {
	for i := len(s.stack) - 1; i >= 0; i-- {
		creator := s.stack[i].creator
		if creator == nil {
			continue
		}

		switch creator.kind {
		case syntax.HandlerLoopStmt, syntax.HandlerLoopExpr,
			syntax.HandlerWhileStmt, syntax.HandlerWhileExpr:
			if label == "" || label == creator.label {
				return creator
			}
		}
	}

	return nil
}

// handleThen finds the if construct a then targets. An unlabelled then
// matches the innermost if; a labelled then only matches an if
// expression branch carrying that label.
func (s *Scope) handleThen(label string) *scopeCreator {
	for i := len(s.stack) - 1; i >= 0; i-- {
		creator := s.stack[i].creator
		if creator == nil {
			continue
		}

		switch creator.kind {
		case syntax.HandlerIfStmt:
			if label == "" {
				return creator
			}

		case syntax.HandlerIfExpr:
			if label == "" || label == creator.label {
				return creator
			}
		}
	}

	return nil
}
