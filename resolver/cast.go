// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"github.com/ferrum-lang/ferrum-compiler-sub000/types"
)

// joinTypes finds the common type two branch values unify into: one
// side widens into the other, or both coarsen away their known values
// and meet in the middle. ok is false when no common type exists.
func joinTypes(a, b types.FeType) (types.FeType, bool) {
	if canImplicitCast(a, b) {
		return b, true
	}

	if canImplicitCast(b, a) {
		return a, true
	}

	ca, cb := coarsen(types.ActualType(a)), coarsen(types.ActualType(b))

	if canImplicitCast(ca, cb) {
		return cb, true
	}

	if canImplicitCast(cb, ca) {
		return ca, true
	}

	return nil, false
}

// canImplicitCast reports whether a value of type `from` may appear
// where `to` is expected without an explicit conversion. The relation
// permits widening only:
//
//   - identical types;
//   - dropping known literal values (a known Int is still an Int);
//   - a known integer into a decimal when representable;
//   - a naturally dereferenced Owned;
//   - a mut reference where a const reference is expected.
func canImplicitCast(from, to types.FeType) bool {
	if from == nil || to == nil {
		return false
	}

	if types.Equal(from, to) {
		return true
	}

	// Owned values deref naturally.
	if owned, ok := from.(*types.Owned); ok {
		return canImplicitCast(owned.Of, to)
	}

	switch to := to.(type) {
	case *types.Ref:
		ref, ok := from.(*types.Ref)
		if !ok {
			return false
		}

		// &mut T casts to &T; never the other way.
		if ref.Kind == types.RefConst && to.Kind == types.RefMut {
			return false
		}

		return canImplicitCast(ref.Of, to.Of)

	case *types.Owned:
		return canImplicitCast(from, to.Of)

	case *types.String:
		fromStr, ok := from.(*types.String)
		if !ok {
			return false
		}

		return to.Detail == types.StringUnknown || fromStr.Detail == to.Detail

	case *types.Bool:
		fromBool, ok := from.(*types.Bool)
		if !ok {
			return false
		}

		if to.Known == nil {
			return true
		}

		return fromBool.Known != nil && *fromBool.Known == *to.Known

	case *types.Number:
		return canCastNumber(from, to)

	case *types.Instance:
		fromInst, ok := from.(*types.Instance)
		if !ok {
			return false
		}

		return fromInst.Name == to.Name

	default:
		return false
	}
}

func canCastNumber(from types.FeType, to *types.Number) bool {
	fromNum, ok := from.(*types.Number)
	if !ok {
		return false
	}

	switch to.Kind {
	case types.NumberUnknown:
		return true

	case types.NumberInteger:
		if fromNum.Kind != types.NumberInteger {
			return false
		}

		if to.Int == nil {
			return true
		}

		return fromNum.Int != nil && *fromNum.Int == *to.Int

	case types.NumberDecimal:
		switch fromNum.Kind {
		case types.NumberDecimal:
			if to.Dec == nil {
				return true
			}

			return fromNum.Dec != nil && *fromNum.Dec == *to.Dec

		case types.NumberInteger:
			// A known integer widens into a decimal when the value is
			// exactly representable.
			if fromNum.Int == nil {
				return false
			}

			v := *fromNum.Int
			if int64(float64(v)) != v {
				return false
			}

			if to.Dec == nil {
				return true
			}

			return float64(v) == *to.Dec
		}
	}

	return false
}
