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
	"strings"

	"github.com/consensys/go-stl/pkg/trace"
	"github.com/consensys/go-stl/pkg/util"
	"github.com/consensys/go-stl/pkg/util/math"
)

// DefaultNu is the smoothing parameter used when a consumer does not request
// a specific one.
const DefaultNu = 1.0

// Not represents the negation of a formula, which simply negates every
// sample of the child's robustness vector.
type Not struct {
	formula    Formula
	valueRange valueRange
}

// NewNot constructs the negation of a formula.
func NewNot(formula Formula) *Not {
	return &Not{formula, negRange(formula)}
}

// Variables implementation for the Formula interface.
func (p *Not) Variables() []string { return p.formula.Variables() }

// Horizon implementation for the Formula interface.
func (p *Not) Horizon() float64 { return p.formula.Horizon() }

// ValueRange implementation for the Formula interface.
func (p *Not) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *Not) Eval(tr *trace.Trace) ([]float64, error) {
	out, err := p.formula.Eval(tr)
	//
	if err != nil {
		return nil, err
	}
	//
	for i := range out {
		out[i] = -out[i]
	}
	//
	return out, nil
}

func (p *Not) String() string {
	return "not (" + p.formula.String() + ")"
}

// And represents an n-ary conjunction.  Two semantics are supported: the
// classic elementwise minimum across the children's robustness vectors, and
// a smoothed alternative which degenerates towards the minimum as the
// smoothing parameter nu grows.  The smoothed form trades exactness for a
// gradient that optimisation-driven search can follow.
type And struct {
	formulas []Formula
	// Smoothing parameter; strictly positive.
	nu float64
	// Selects the classic minimum semantics over the smoothed one.
	classic    bool
	valueRange valueRange
}

// NewAnd constructs an n-ary conjunction with smoothed semantics.  This fails
// with a ConfigurationError unless nu is strictly positive.
func NewAnd(nu float64, formulas ...Formula) (*And, error) {
	if nu <= 0 {
		return nil, &ConfigurationError{"and", "smoothing parameter must be strictly positive"}
	} else if len(formulas) == 0 {
		return nil, &ConfigurationError{"and", "requires at least one operand"}
	}
	//
	return &And{formulas, nu, false, andRange(formulas)}, nil
}

// NewClassicAnd constructs an n-ary conjunction with the classic elementwise
// minimum semantics.
func NewClassicAnd(formulas ...Formula) *And {
	if len(formulas) == 0 {
		panic("conjunction requires at least one operand")
	}
	//
	return &And{formulas, DefaultNu, true, andRange(formulas)}
}

// Formulas returns the operands of this conjunction.
func (p *And) Formulas() []Formula {
	return p.formulas
}

// Nu returns the smoothing parameter of this conjunction.
func (p *And) Nu() float64 {
	return p.nu
}

// Variables implementation for the Formula interface.
func (p *And) Variables() []string { return variablesOf(p.formulas...) }

// Horizon implementation for the Formula interface.
func (p *And) Horizon() float64 { return horizonOf(p.formulas...) }

// ValueRange implementation for the Formula interface.
func (p *And) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *And) Eval(tr *trace.Trace) ([]float64, error) {
	rho, err := evalAll(tr, p.formulas)
	//
	if err != nil {
		return nil, err
	}
	//
	if p.classic {
		return evalMin(rho, tr.Len()), nil
	}
	//
	return p.evalSmooth(rho, tr.Len()), nil
}

// Classic conjunction: the elementwise minimum across all children.
func evalMin(rho [][]float64, n int) []float64 {
	out := make([]float64, n)
	//
	for i := 0; i < n; i++ {
		r := gomath.Inf(1)
		//
		for _, robustness := range rho {
			r = min(r, robustness[i])
		}
		//
		out[i] = r
	}
	//
	return out
}

// Smoothed conjunction.  Writing m for the elementwise minimum and
// q_j = rho_j/m - 1, each sample is computed as
//
//	m < 0:  m * sum_j exp((1+nu)*q_j) / sum_j exp(nu*q_j)
//	m > 0:  sum_j rho_j*exp(-nu*q_j) / sum_j exp(-nu*q_j)
//	m == 0: 0
//
// Both branches degenerate towards the classic minimum as nu grows.
func (p *And) evalSmooth(rho [][]float64, n int) []float64 {
	out := make([]float64, n)
	//
	for i := 0; i < n; i++ {
		rhoMin := gomath.Inf(1)
		//
		for _, robustness := range rho {
			rhoMin = min(rhoMin, robustness[i])
		}
		//
		var numerator, denominator float64
		//
		switch {
		case rhoMin < 0:
			for _, robustness := range rho {
				rhoTilde := robustness[i]/rhoMin - 1
				numerator += gomath.Exp((1 + p.nu) * rhoTilde)
				denominator += gomath.Exp(p.nu * rhoTilde)
			}
			//
			out[i] = rhoMin * numerator / denominator
		case rhoMin > 0:
			for _, robustness := range rho {
				rhoTilde := robustness[i]/rhoMin - 1
				numerator += robustness[i] * gomath.Exp(-p.nu*rhoTilde)
				denominator += gomath.Exp(-p.nu * rhoTilde)
			}
			//
			out[i] = numerator / denominator
		default:
			out[i] = 0
		}
	}
	//
	return out
}

func (p *And) String() string {
	return stringOfConnective("and", p.formulas)
}

// Or represents an n-ary disjunction, defined by De Morgan duality as
// not(and(not(f1), ..., not(fn))).  Under the classic semantics this is
// exactly the elementwise maximum across the children.
type Or struct {
	formulas []Formula
	// Desugared De Morgan form, evaluated in place of this node.
	inner Formula
}

// NewOr constructs an n-ary disjunction with smoothed semantics.  This fails
// with a ConfigurationError unless nu is strictly positive.
func NewOr(nu float64, formulas ...Formula) (*Or, error) {
	negated := make([]Formula, len(formulas))
	for i, f := range formulas {
		negated[i] = NewNot(f)
	}
	//
	conjunction, err := NewAnd(nu, negated...)
	if err != nil {
		return nil, &ConfigurationError{"or", err.(*ConfigurationError).Msg}
	}
	//
	return &Or{formulas, NewNot(conjunction)}, nil
}

// NewClassicOr constructs an n-ary disjunction with the classic elementwise
// maximum semantics.
func NewClassicOr(formulas ...Formula) *Or {
	negated := make([]Formula, len(formulas))
	for i, f := range formulas {
		negated[i] = NewNot(f)
	}
	//
	return &Or{formulas, NewNot(NewClassicAnd(negated...))}
}

// Formulas returns the operands of this disjunction.
func (p *Or) Formulas() []Formula {
	return p.formulas
}

// Variables implementation for the Formula interface.
func (p *Or) Variables() []string { return p.inner.Variables() }

// Horizon implementation for the Formula interface.
func (p *Or) Horizon() float64 { return p.inner.Horizon() }

// ValueRange implementation for the Formula interface.
func (p *Or) ValueRange() util.Option[math.Interval] { return p.inner.ValueRange() }

// Eval implementation for the Formula interface.
func (p *Or) Eval(tr *trace.Trace) ([]float64, error) {
	return p.inner.Eval(tr)
}

func (p *Or) String() string {
	return stringOfConnective("or", p.formulas)
}

// Implication represents lhs implies rhs, which desugars to
// or(not(lhs), rhs).
type Implication struct {
	lhs Formula
	rhs Formula
	// Desugared form, evaluated in place of this node.
	inner      Formula
	valueRange valueRange
}

// NewImplication constructs an implication with smoothed semantics.  This
// fails with a ConfigurationError unless nu is strictly positive.
func NewImplication(nu float64, lhs Formula, rhs Formula) (*Implication, error) {
	inner, err := NewOr(nu, NewNot(lhs), rhs)
	//
	if err != nil {
		return nil, err
	}
	//
	return &Implication{lhs, rhs, inner, implicationRange(lhs, rhs)}, nil
}

// Variables implementation for the Formula interface.
func (p *Implication) Variables() []string { return variablesOf(p.lhs, p.rhs) }

// Horizon implementation for the Formula interface.
func (p *Implication) Horizon() float64 { return horizonOf(p.lhs, p.rhs) }

// ValueRange implementation for the Formula interface.
func (p *Implication) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *Implication) Eval(tr *trace.Trace) ([]float64, error) {
	return p.inner.Eval(tr)
}

func (p *Implication) String() string {
	return "(" + p.lhs.String() + " implies " + p.rhs.String() + ")"
}

func stringOfConnective(connective string, formulas []Formula) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	for i, f := range formulas {
		if i != 0 {
			builder.WriteString(" ")
			builder.WriteString(connective)
			builder.WriteString(" ")
		}
		//
		builder.WriteString(f.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
