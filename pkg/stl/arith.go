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

// Sum represents the elementwise sum of two formulas.
type Sum struct {
	lhs        Formula
	rhs        Formula
	valueRange valueRange
}

// NewSum constructs the sum of two formulas.
func NewSum(lhs Formula, rhs Formula) *Sum {
	return &Sum{lhs, rhs, sumRange(lhs, rhs)}
}

// Variables implementation for the Formula interface.
func (p *Sum) Variables() []string { return variablesOf(p.lhs, p.rhs) }

// Horizon implementation for the Formula interface.
func (p *Sum) Horizon() float64 { return horizonOf(p.lhs, p.rhs) }

// ValueRange implementation for the Formula interface.
func (p *Sum) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *Sum) Eval(tr *trace.Trace) ([]float64, error) {
	return evalBinary(tr, p.lhs, p.rhs, func(l float64, r float64) float64 { return l + r })
}

func (p *Sum) String() string {
	return fmt.Sprintf("(%s + %s)", p.lhs, p.rhs)
}

// Subtract represents the elementwise difference of two formulas.
type Subtract struct {
	lhs        Formula
	rhs        Formula
	valueRange valueRange
}

// NewSubtract constructs the difference of two formulas.
func NewSubtract(lhs Formula, rhs Formula) *Subtract {
	return &Subtract{lhs, rhs, subtractRange(lhs, rhs)}
}

// Variables implementation for the Formula interface.
func (p *Subtract) Variables() []string { return variablesOf(p.lhs, p.rhs) }

// Horizon implementation for the Formula interface.
func (p *Subtract) Horizon() float64 { return horizonOf(p.lhs, p.rhs) }

// ValueRange implementation for the Formula interface.
func (p *Subtract) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *Subtract) Eval(tr *trace.Trace) ([]float64, error) {
	return evalBinary(tr, p.lhs, p.rhs, func(l float64, r float64) float64 { return l - r })
}

func (p *Subtract) String() string {
	return fmt.Sprintf("(%s - %s)", p.lhs, p.rhs)
}

// Multiply represents the elementwise product of two formulas.
type Multiply struct {
	lhs        Formula
	rhs        Formula
	valueRange valueRange
}

// NewMultiply constructs the product of two formulas.
func NewMultiply(lhs Formula, rhs Formula) *Multiply {
	return &Multiply{lhs, rhs, multiplyRange(lhs, rhs)}
}

// Variables implementation for the Formula interface.
func (p *Multiply) Variables() []string { return variablesOf(p.lhs, p.rhs) }

// Horizon implementation for the Formula interface.
func (p *Multiply) Horizon() float64 { return horizonOf(p.lhs, p.rhs) }

// ValueRange implementation for the Formula interface.
func (p *Multiply) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *Multiply) Eval(tr *trace.Trace) ([]float64, error) {
	return evalBinary(tr, p.lhs, p.rhs, func(l float64, r float64) float64 { return l * r })
}

func (p *Multiply) String() string {
	return fmt.Sprintf("(%s * %s)", p.lhs, p.rhs)
}

// Divide represents the elementwise quotient of two formulas.
type Divide struct {
	lhs        Formula
	rhs        Formula
	valueRange valueRange
}

// NewDivide constructs the quotient of two formulas.
func NewDivide(lhs Formula, rhs Formula) *Divide {
	return &Divide{lhs, rhs, divideRange(lhs, rhs)}
}

// Variables implementation for the Formula interface.
func (p *Divide) Variables() []string { return variablesOf(p.lhs, p.rhs) }

// Horizon implementation for the Formula interface.
func (p *Divide) Horizon() float64 { return horizonOf(p.lhs, p.rhs) }

// ValueRange implementation for the Formula interface.
func (p *Divide) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *Divide) Eval(tr *trace.Trace) ([]float64, error) {
	return evalBinary(tr, p.lhs, p.rhs, func(l float64, r float64) float64 { return l / r })
}

func (p *Divide) String() string {
	return fmt.Sprintf("(%s / %s)", p.lhs, p.rhs)
}

// Abs represents the elementwise absolute value of a formula.
type Abs struct {
	formula    Formula
	valueRange valueRange
}

// NewAbs constructs the absolute value of a formula.
func NewAbs(formula Formula) *Abs {
	return &Abs{formula, absRange(formula)}
}

// Variables implementation for the Formula interface.
func (p *Abs) Variables() []string { return p.formula.Variables() }

// Horizon implementation for the Formula interface.
func (p *Abs) Horizon() float64 { return p.formula.Horizon() }

// ValueRange implementation for the Formula interface.
func (p *Abs) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *Abs) Eval(tr *trace.Trace) ([]float64, error) {
	out, err := p.formula.Eval(tr)
	//
	if err != nil {
		return nil, err
	}
	//
	for i := range out {
		out[i] = gomath.Abs(out[i])
	}
	//
	return out, nil
}

func (p *Abs) String() string {
	return fmt.Sprintf("|%s|", p.formula)
}
