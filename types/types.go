// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package types defines the semantic-type lattice of Fe.
//
// A nil FeType means "not resolved yet"; the resolver only ever replaces
// nil with a concrete type, never the other way around.
package types

import (
	"fmt"
	"reflect"
	"strings"
)

// FeType is one inhabitant of the type lattice.
type FeType interface {
	feType()
	String() string
}

// ActualType unwraps a Ref or Owned to the type it carries.
func ActualType(t FeType) FeType {
	switch t := t.(type) {
	case *Ref:
		return t.Of
	case *Owned:
		return t.Of
	default:
		return t
	}
}

// InstanceOf digs an Instance out of t, looking through Ref and Owned.
func InstanceOf(t FeType) *Instance {
	switch t := t.(type) {
	case *Instance:
		return t
	case *Ref:
		return InstanceOf(t.Of)
	case *Owned:
		return InstanceOf(t.Of)
	default:
		return nil
	}
}

// Equal reports structural equality, including known literal values.
func Equal(a, b FeType) bool {
	return reflect.DeepEqual(a, b)
}

// SpecialCallable marks callables the lowering treats specially.
type SpecialCallable int

const (
	SpecialNone SpecialCallable = iota
	SpecialPrint
)

type CallableParam struct {
	Name string
	Type FeType
}

// Callable is the type of a function value.
type Callable struct {
	Special SpecialCallable
	Name    string
	Params  []CallableParam
	// Return is nil for functions without a return type.
	Return FeType
}

func (*Callable) feType() {}

func (c *Callable) String() string {
	params := make([]string, 0, len(c.Params))
	for _, p := range c.Params {
		params = append(params, fmt.Sprintf("%s: %s", p.Name, p.Type))
	}

	if c.Return == nil {
		return fmt.Sprintf("fn %s(%s)", c.Name, strings.Join(params, ", "))
	}

	return fmt.Sprintf("fn %s(%s): %s", c.Name, strings.Join(params, ", "), c.Return)
}

type StructField struct {
	IsPub bool
	Name  string
	Type  FeType
}

// Struct is the type of a struct declaration.
type Struct struct {
	Name   string
	Fields []StructField
}

func (*Struct) feType() {}

func (s *Struct) String() string {
	return "struct " + s.Name
}

// Instance is the type of a value inhabiting a struct.
type Instance struct {
	Name   string
	Fields map[string]StructField
}

func (*Instance) feType() {}

func (i *Instance) String() string {
	return i.Name
}

type StringDetail int

const (
	StringUnknown StringDetail = iota
	StringPlain
	StringFormat
)

type String struct {
	Detail StringDetail
}

func (*String) feType() {}

func (s *String) String() string {
	return "String"
}

// Bool carries its value when it is a compile-time fact.
type Bool struct {
	Known *bool
}

func (*Bool) feType() {}

func (b *Bool) String() string {
	if b.Known != nil {
		return fmt.Sprintf("Bool(%t)", *b.Known)
	}

	return "Bool"
}

type NumberKind int

const (
	NumberUnknown NumberKind = iota
	NumberInteger
	NumberDecimal
)

// Number is integer, decimal, or not-yet-known, optionally carrying a
// compile-time value.
type Number struct {
	Kind NumberKind
	Int  *int64
	Dec  *float64
}

func (*Number) feType() {}

func (n *Number) String() string {
	switch n.Kind {
	case NumberInteger:
		if n.Int != nil {
			return fmt.Sprintf("Int(%d)", *n.Int)
		}

		return "Int"

	case NumberDecimal:
		if n.Dec != nil {
			return fmt.Sprintf("Dec(%v)", *n.Dec)
		}

		return "Dec"

	default:
		return "Number"
	}
}

type RefKind int

const (
	RefConst RefKind = iota
	RefMut
)

// Ref is a borrow. Of must not itself be a Ref or Owned.
type Ref struct {
	Kind RefKind
	Of   FeType
}

func (*Ref) feType() {}

func (r *Ref) String() string {
	if r.Kind == RefMut {
		return "&mut " + r.Of.String()
	}

	return "&" + r.Of.String()
}

type OwnedKind int

const (
	OwnedConst OwnedKind = iota
	OwnedMut
)

// Owned is a value binding. Of must not itself be a Ref or Owned.
type Owned struct {
	Kind OwnedKind
	Of   FeType
}

func (*Owned) feType() {}

func (o *Owned) String() string {
	if o.Kind == OwnedMut {
		return "mut " + o.Of.String()
	}

	return "const " + o.Of.String()
}

// Exports is the public-visible scope of a package, seen from the type
// lattice. The resolver's export tree implements it.
type Exports interface {
	// Search returns the public binding for name.
	Search(name string) (FeType, bool)
	// Local returns the exports of a named sub-package.
	Local(name string) (Exports, bool)
}

// Package is the type of a resolved use-path prefix.
type Package struct {
	Name    string
	Exports Exports
}

func (*Package) feType() {}

func (p *Package) String() string {
	return "package " + p.Name
}

// Convenience constructors for the literal-heavy resolver code.

func KnownInt(v int64) *Number {
	return &Number{Kind: NumberInteger, Int: &v}
}

func UnknownInt() *Number {
	return &Number{Kind: NumberInteger}
}

func KnownDec(v float64) *Number {
	return &Number{Kind: NumberDecimal, Dec: &v}
}

func UnknownDec() *Number {
	return &Number{Kind: NumberDecimal}
}

func KnownBool(v bool) *Bool {
	return &Bool{Known: &v}
}

func UnknownBool() *Bool {
	return &Bool{}
}
