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
	"fmt"
	gomath "math"

	"github.com/consensys/go-stl/pkg/trace"
	"github.com/consensys/go-stl/pkg/util"
	"github.com/consensys/go-stl/pkg/util/math"
)

// GreaterThan represents the predicate lhs >= rhs (or lhs > rhs for the
// strict variant).  Its robustness is the margin lhs - rhs: the sign is the
// satisfaction indicator, the magnitude is the margin.  Strictness does not
// affect the quantitative semantics, only the textual form.
type GreaterThan struct {
	lhs        Formula
	rhs        Formula
	strict     bool
	valueRange valueRange
}

// NewGreaterThan constructs the predicate lhs >= rhs.
func NewGreaterThan(lhs Formula, rhs Formula) *GreaterThan {
	return &GreaterThan{lhs, rhs, false, greaterThanRange(lhs, rhs)}
}

// NewStrictGreaterThan constructs the predicate lhs > rhs.
func NewStrictGreaterThan(lhs Formula, rhs Formula) *GreaterThan {
	return &GreaterThan{lhs, rhs, true, greaterThanRange(lhs, rhs)}
}

// Variables implementation for the Formula interface.
func (p *GreaterThan) Variables() []string { return variablesOf(p.lhs, p.rhs) }

// Horizon implementation for the Formula interface.
func (p *GreaterThan) Horizon() float64 { return horizonOf(p.lhs, p.rhs) }

// ValueRange implementation for the Formula interface.
func (p *GreaterThan) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *GreaterThan) Eval(tr *trace.Trace) ([]float64, error) {
	return evalBinary(tr, p.lhs, p.rhs, func(l float64, r float64) float64 { return l - r })
}

func (p *GreaterThan) String() string {
	if p.strict {
		return fmt.Sprintf("%s > %s", p.lhs, p.rhs)
	}
	//
	return fmt.Sprintf("%s >= %s", p.lhs, p.rhs)
}

// LessThan represents the predicate lhs <= rhs (or lhs < rhs for the strict
// variant).  Its robustness is the margin rhs - lhs.
type LessThan struct {
	lhs        Formula
	rhs        Formula
	strict     bool
	valueRange valueRange
}

// NewLessThan constructs the predicate lhs <= rhs.
func NewLessThan(lhs Formula, rhs Formula) *LessThan {
	return &LessThan{lhs, rhs, false, lessThanRange(lhs, rhs)}
}

// NewStrictLessThan constructs the predicate lhs < rhs.
func NewStrictLessThan(lhs Formula, rhs Formula) *LessThan {
	return &LessThan{lhs, rhs, true, lessThanRange(lhs, rhs)}
}

// Variables implementation for the Formula interface.
func (p *LessThan) Variables() []string { return variablesOf(p.lhs, p.rhs) }

// Horizon implementation for the Formula interface.
func (p *LessThan) Horizon() float64 { return horizonOf(p.lhs, p.rhs) }

// ValueRange implementation for the Formula interface.
func (p *LessThan) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *LessThan) Eval(tr *trace.Trace) ([]float64, error) {
	return evalBinary(tr, p.lhs, p.rhs, func(l float64, r float64) float64 { return r - l })
}

func (p *LessThan) String() string {
	if p.strict {
		return fmt.Sprintf("%s < %s", p.lhs, p.rhs)
	}
	//
	return fmt.Sprintf("%s <= %s", p.lhs, p.rhs)
}

// Equals represents the predicate lhs == rhs.  Its robustness is -|lhs-rhs|,
// except that exact-zero samples are remapped to +1 so that equality holding
// exactly reads as (trivially) satisfied rather than as a zero margin.
type Equals struct {
	lhs        Formula
	rhs        Formula
	valueRange valueRange
}

// NewEquals constructs the predicate lhs == rhs.
func NewEquals(lhs Formula, rhs Formula) *Equals {
	return &Equals{lhs, rhs, equalsRange(lhs, rhs)}
}

// Variables implementation for the Formula interface.
func (p *Equals) Variables() []string { return variablesOf(p.lhs, p.rhs) }

// Horizon implementation for the Formula interface.
func (p *Equals) Horizon() float64 { return horizonOf(p.lhs, p.rhs) }

// ValueRange implementation for the Formula interface.
func (p *Equals) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *Equals) Eval(tr *trace.Trace) ([]float64, error) {
	return evalBinary(tr, p.lhs, p.rhs, func(l float64, r float64) float64 {
		if l == r {
			return 1
		}
		//
		return -gomath.Abs(l - r)
	})
}

func (p *Equals) String() string {
	return fmt.Sprintf("%s == %s", p.lhs, p.rhs)
}

// NewNotEquals constructs the predicate lhs != rhs, which desugars to
// not(lhs == rhs).
func NewNotEquals(lhs Formula, rhs Formula) *Not {
	return NewNot(NewEquals(lhs, rhs))
}
