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
package math

import "fmt"

// Interval provides a closed range of reals, such as 0..1, -5..18, etc.  An
// interval is used to approximate the possible values that a given expression
// could evaluate to, and consumers use it to normalise robustness values onto
// a bounded scale.
type Interval struct {
	min float64
	max float64
}

// NewInterval creates an interval representing a given range.
func NewInterval(lower float64, upper float64) Interval {
	// sanity check
	if lower > upper {
		panic("invalid interval")
	}
	//
	return Interval{lower, upper}
}

// Enclosing creates the smallest interval containing two given values, which
// may arrive in either order.
func Enclosing(a float64, b float64) Interval {
	return Interval{min(a, b), max(a, b)}
}

// MinValue returns the minimum value that this interval includes.
func (p *Interval) MinValue() float64 {
	return p.min
}

// MaxValue returns the maximum value that this interval includes.
func (p *Interval) MaxValue() float64 {
	return p.max
}

// Contains checks whether a given value is contained within this interval.
func (p *Interval) Contains(val float64) bool {
	return p.min <= val && val <= p.max
}

// SignDeterminate checks whether all values in this interval have the same
// sign (with zero counting as either).
func (p *Interval) SignDeterminate() bool {
	return p.min >= 0 || p.max <= 0
}

// Add two intervals together.
func (p *Interval) Add(q Interval) {
	p.min = p.min + q.min
	p.max = p.max + q.max
}

// Sub subtracts another interval from this.
func (p *Interval) Sub(q Interval) {
	p.min = p.min - q.max
	p.max = p.max - q.min
}

// Mul multiplies this interval by another.
func (p *Interval) Mul(q Interval) {
	x1 := p.min * q.min
	x2 := p.min * q.max
	x3 := p.max * q.min
	x4 := p.max * q.max
	//
	p.min = min(min(x1, x2), min(x3, x4))
	p.max = max(max(x1, x2), max(x3, x4))
}

// Div divides this interval by another.  The divisor must not contain zero.
func (p *Interval) Div(q Interval) {
	if q.Contains(0) {
		panic("division by interval containing zero")
	}
	//
	x1 := p.min / q.min
	x2 := p.min / q.max
	x3 := p.max / q.min
	x4 := p.max / q.max
	//
	p.min = min(min(x1, x2), min(x3, x4))
	p.max = max(max(x1, x2), max(x3, x4))
}

// Neg negates this interval.
func (p *Interval) Neg() {
	p.min, p.max = -p.max, -p.min
}

// Union returns the set union of two intervals.
func (p *Interval) Union(other Interval) Interval {
	return Interval{min(p.min, other.min), max(p.max, other.max)}
}

func (p *Interval) String() string {
	return fmt.Sprintf("(%g..%g)", p.min, p.max)
}
