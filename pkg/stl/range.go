// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package stl

import (
	gomath "math"

	"github.com/consensys/go-stl/pkg/util"
	"github.com/consensys/go-stl/pkg/util/math"
)

// This file holds the interval-arithmetic rule for each node kind.  Ranges
// are computed once at construction and memoised on the node; an unknown
// range on any input makes the result unknown.

type valueRange = util.Option[math.Interval]

// Range of a sum is the sum of the bounds.
func sumRange(lhs Formula, rhs Formula) valueRange {
	l, r := lhs.ValueRange(), rhs.ValueRange()
	//
	if l.IsEmpty() || r.IsEmpty() {
		return util.None[math.Interval]()
	}
	//
	values := l.Unwrap()
	values.Add(r.Unwrap())
	//
	return util.Some(values)
}

// Range of a difference is the difference of the bounds.
func subtractRange(lhs Formula, rhs Formula) valueRange {
	l, r := lhs.ValueRange(), rhs.ValueRange()
	//
	if l.IsEmpty() || r.IsEmpty() {
		return util.None[math.Interval]()
	}
	//
	values := l.Unwrap()
	values.Sub(r.Unwrap())
	//
	return util.Some(values)
}

// Range of a product is only known when both operand ranges are known and
// sign determinate.
func multiplyRange(lhs Formula, rhs Formula) valueRange {
	l, r := lhs.ValueRange(), rhs.ValueRange()
	//
	if !signDeterminate(l) || !signDeterminate(r) {
		return util.None[math.Interval]()
	}
	//
	values := l.Unwrap()
	values.Mul(r.Unwrap())
	//
	return util.Some(values)
}

// Range of a quotient is only known when both operand ranges are known and
// sign determinate, and the divisor cannot be zero.
func divideRange(lhs Formula, rhs Formula) valueRange {
	l, r := lhs.ValueRange(), rhs.ValueRange()
	//
	if !signDeterminate(l) || !signDeterminate(r) {
		return util.None[math.Interval]()
	}
	//
	if rv := r.Unwrap(); rv.Contains(0) {
		return util.None[math.Interval]()
	}
	//
	values := l.Unwrap()
	values.Div(r.Unwrap())
	//
	return util.Some(values)
}

// Range of a negation is the negated range.
func negRange(f Formula) valueRange {
	v := f.ValueRange()
	//
	if v.IsEmpty() {
		return v
	}
	//
	values := v.Unwrap()
	values.Neg()
	//
	return util.Some(values)
}

// Range of an absolute value maps both bounds through abs, noting that any
// interval straddling zero has a lower bound of zero.
func absRange(f Formula) valueRange {
	v := f.ValueRange()
	//
	if v.IsEmpty() {
		return v
	}
	//
	values := v.Unwrap()
	a := gomath.Abs(values.MinValue())
	b := gomath.Abs(values.MaxValue())
	lower := min(a, b)
	//
	if values.Contains(0) {
		lower = 0
	}
	//
	return util.Some(math.NewInterval(lower, max(a, b)))
}

// Range of a greater-than predicate, derived by subtracting corresponding
// bounds and canonicalising their order.
func greaterThanRange(lhs Formula, rhs Formula) valueRange {
	l, r := lhs.ValueRange(), rhs.ValueRange()
	//
	if l.IsEmpty() || r.IsEmpty() {
		return util.None[math.Interval]()
	}
	//
	lv, rv := l.Unwrap(), r.Unwrap()
	//
	return util.Some(math.Enclosing(lv.MinValue()-rv.MinValue(), lv.MaxValue()-rv.MaxValue()))
}

// Range of a less-than predicate is the greater-than range with the operands
// swapped.
func lessThanRange(lhs Formula, rhs Formula) valueRange {
	return greaterThanRange(rhs, lhs)
}

// Range of an equality predicate, whose robustness is -|lhs-rhs| with exact
// matches remapped to +1.
func equalsRange(lhs Formula, rhs Formula) valueRange {
	l, r := lhs.ValueRange(), rhs.ValueRange()
	//
	if l.IsEmpty() || r.IsEmpty() {
		return util.None[math.Interval]()
	}
	//
	lv, rv := l.Unwrap(), r.Unwrap()
	worst := max(gomath.Abs(lv.MinValue()-rv.MaxValue()), gomath.Abs(lv.MaxValue()-rv.MinValue()))
	// Gap between the operand ranges, when they are disjoint.
	gap := max(lv.MinValue()-rv.MaxValue(), rv.MinValue()-lv.MaxValue())
	//
	if gap > 0 {
		return util.Some(math.NewInterval(-worst, -gap))
	}
	// Overlapping ranges admit an exact match, which reads as +1.
	return util.Some(math.NewInterval(-worst, 1))
}

// Range of a conjunction is the elementwise minimum of the children's
// bounds, when all are known.
func andRange(formulas []Formula) valueRange {
	var (
		lower = gomath.Inf(1)
		upper = gomath.Inf(1)
	)
	//
	for _, f := range formulas {
		v := f.ValueRange()
		//
		if v.IsEmpty() {
			return util.None[math.Interval]()
		}
		//
		values := v.Unwrap()
		lower = min(lower, values.MinValue())
		upper = min(upper, values.MaxValue())
	}
	//
	return util.Some(math.NewInterval(lower, upper))
}

// Range of an implication l => r, which matches the range of or(not(l), r).
func implicationRange(lhs Formula, rhs Formula) valueRange {
	l, r := lhs.ValueRange(), rhs.ValueRange()
	//
	if l.IsEmpty() || r.IsEmpty() {
		return util.None[math.Interval]()
	}
	//
	lv, rv := l.Unwrap(), r.Unwrap()
	a := max(-lv.MaxValue(), rv.MinValue())
	b := max(-lv.MinValue(), rv.MaxValue())
	//
	return util.Some(math.Enclosing(a, b))
}

// Range of an until is the union of the operand ranges.
func untilRange(lhs Formula, rhs Formula) valueRange {
	l, r := lhs.ValueRange(), rhs.ValueRange()
	//
	if l.IsEmpty() || r.IsEmpty() {
		return util.None[math.Interval]()
	}
	//
	lv := l.Unwrap()
	//
	return util.Some(lv.Union(r.Unwrap()))
}

// Check whether a given (optional) range is known and contains values of one
// sign only.
func signDeterminate(v valueRange) bool {
	if v.IsEmpty() {
		return false
	}
	//
	values := v.Unwrap()
	//
	return values.SignDeterminate()
}
