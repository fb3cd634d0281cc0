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

// Next represents the next-state operator, whose robustness at a given
// sample is the child's robustness at the following sample.  The final
// sample repeats the last available value, since no lookahead beyond the
// trace end is possible.
type Next struct {
	formula    Formula
	valueRange valueRange
}

// NewNext constructs the next-state operator.
func NewNext(formula Formula) *Next {
	return &Next{formula, formula.ValueRange()}
}

// Variables implementation for the Formula interface.
func (p *Next) Variables() []string { return p.formula.Variables() }

// Horizon implementation for the Formula interface.  The next-state operator
// looks ahead one sample, which is counted as one time unit.
func (p *Next) Horizon() float64 { return 1 + p.formula.Horizon() }

// ValueRange implementation for the Formula interface.
func (p *Next) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *Next) Eval(tr *trace.Trace) ([]float64, error) {
	robustness, err := p.formula.Eval(tr)
	//
	if err != nil {
		return nil, err
	}
	//
	n := len(robustness)
	out := make([]float64, n)
	copy(out, robustness[1:])
	// No lookahead beyond the trace end.
	if n > 1 {
		out[n-1] = out[n-2]
	} else if n == 1 {
		out[0] = robustness[0]
	}
	//
	return out, nil
}

func (p *Next) String() string {
	return fmt.Sprintf("X (%s)", p.formula)
}

// Global represents the bounded always operator G[a,b].  Its robustness at
// instant t is the minimum of the child's robustness over the window
// [t+a, t+b].  Window ends are located by exact timestamp match: when no
// sample lies exactly at t+a the window is treated as vacuously
// unconstrained (+inf), and when no sample lies exactly at t+b the window
// extends to the trace end.  On irregularly sampled traces this exact-match
// rule can be surprising; it is nonetheless the intended semantics, so do
// not silently substitute nearest-sample matching.
type Global struct {
	lowerBound float64
	upperBound float64
	formula    Formula
	valueRange valueRange
}

// NewGlobal constructs the bounded always operator.  This fails with a
// ConfigurationError unless 0 <= lb <= ub.
func NewGlobal(lowerBound float64, upperBound float64, formula Formula) (*Global, error) {
	if err := checkTimeBounds("globally", lowerBound, upperBound); err != nil {
		return nil, err
	}
	//
	return &Global{lowerBound, upperBound, formula, formula.ValueRange()}, nil
}

// Variables implementation for the Formula interface.
func (p *Global) Variables() []string { return p.formula.Variables() }

// Horizon implementation for the Formula interface.
func (p *Global) Horizon() float64 { return p.upperBound + p.formula.Horizon() }

// ValueRange implementation for the Formula interface.
func (p *Global) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *Global) Eval(tr *trace.Trace) ([]float64, error) {
	robustness, err := p.formula.Eval(tr)
	//
	if err != nil {
		return nil, err
	}
	//
	n := tr.Len()
	out := make([]float64, n)
	//
	for i := n - 1; i >= 0; i-- {
		// Window ends for the current instant.
		lower := tr.Time(i) + p.lowerBound
		upper := tr.Time(i) + p.upperBound
		// Locate corresponding sample positions.
		lowerPos := tr.IndexOf(lower, i)
		upperPos := tr.IndexOf(upper, lowerPos)
		//
		if lowerPos < 0 {
			// Window start off the grid: vacuously unconstrained.
			out[i] = gomath.Inf(1)
			continue
		}
		// Window end off the grid extends to the trace end.
		end := n
		if upperPos >= 0 {
			end = upperPos + 1
		}
		//
		r := gomath.Inf(1)
		for j := lowerPos; j < end; j++ {
			r = min(r, robustness[j])
		}
		//
		out[i] = r
	}
	//
	return out, nil
}

func (p *Global) String() string {
	return fmt.Sprintf("G[%g,%g] (%s)", p.lowerBound, p.upperBound, p.formula)
}

// Finally represents the bounded eventually operator F[a,b], defined by
// duality as not(G[a,b](not(f))).
type Finally struct {
	lowerBound float64
	upperBound float64
	formula    Formula
	// Desugared dual form, evaluated in place of this node.
	inner      Formula
	valueRange valueRange
}

// NewFinally constructs the bounded eventually operator.  This fails with a
// ConfigurationError unless 0 <= lb <= ub.
func NewFinally(lowerBound float64, upperBound float64, formula Formula) (*Finally, error) {
	dual, err := NewGlobal(lowerBound, upperBound, NewNot(formula))
	//
	if err != nil {
		return nil, &ConfigurationError{"finally", err.(*ConfigurationError).Msg}
	}
	//
	return &Finally{lowerBound, upperBound, formula, NewNot(dual), formula.ValueRange()}, nil
}

// Variables implementation for the Formula interface.
func (p *Finally) Variables() []string { return p.formula.Variables() }

// Horizon implementation for the Formula interface.
func (p *Finally) Horizon() float64 { return p.upperBound + p.formula.Horizon() }

// ValueRange implementation for the Formula interface.
func (p *Finally) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *Finally) Eval(tr *trace.Trace) ([]float64, error) {
	return p.inner.Eval(tr)
}

func (p *Finally) String() string {
	return fmt.Sprintf("F[%g,%g] (%s)", p.lowerBound, p.upperBound, p.formula)
}

// Until represents the bounded until operator lhs U[a,b] rhs, along with its
// weak variant.  At instant t the evaluator scans forward from the first
// sample at or after t+a, accumulating the running minimum of the left
// robustness while the right robustness remains negative and the time bound
// is not exceeded.  When the right operand becomes satisfied within the
// window, the result is the minimum of that running minimum and the right
// robustness at the point of satisfaction.  When it never does, the strong
// variant yields the largest right robustness observed (a violation), whilst
// the weak variant yields the accumulated left minimum without requiring
// eventual satisfaction.
type Until struct {
	lowerBound float64
	upperBound float64
	lhs        Formula
	rhs        Formula
	weak       bool
	valueRange valueRange
}

// NewUntil constructs the bounded until operator.  This fails with a
// ConfigurationError unless 0 <= lb <= ub.
func NewUntil(lowerBound float64, upperBound float64, lhs Formula, rhs Formula) (*Until, error) {
	if err := checkTimeBounds("until", lowerBound, upperBound); err != nil {
		return nil, err
	}
	//
	return &Until{lowerBound, upperBound, lhs, rhs, false, untilRange(lhs, rhs)}, nil
}

// NewWeakUntil constructs the weak variant of the bounded until operator,
// which does not require the right operand to ever become satisfied.
func NewWeakUntil(lowerBound float64, upperBound float64, lhs Formula, rhs Formula) (*Until, error) {
	if err := checkTimeBounds("until", lowerBound, upperBound); err != nil {
		return nil, err
	}
	//
	return &Until{lowerBound, upperBound, lhs, rhs, true, lhs.ValueRange()}, nil
}

// Variables implementation for the Formula interface.
func (p *Until) Variables() []string { return variablesOf(p.lhs, p.rhs) }

// Horizon implementation for the Formula interface.
func (p *Until) Horizon() float64 { return p.upperBound + horizonOf(p.lhs, p.rhs) }

// ValueRange implementation for the Formula interface.
func (p *Until) ValueRange() util.Option[math.Interval] { return p.valueRange }

// Eval implementation for the Formula interface.
func (p *Until) Eval(tr *trace.Trace) ([]float64, error) {
	left, err := p.lhs.Eval(tr)
	if err != nil {
		return nil, err
	}
	//
	right, err := p.rhs.Eval(tr)
	if err != nil {
		return nil, err
	}
	//
	n := tr.Len()
	out := make([]float64, n)
	//
	for i := 0; i < n; i++ {
		t := tr.Time(i)
		// Advance to the first sample at or after t+lb.
		j := i
		for j < n && tr.Time(j) < t+p.lowerBound {
			j++
		}
		//
		minLeft := gomath.Inf(1)
		maxRight := gomath.Inf(-1)
		satisfied := false
		//
		for ; j < n && tr.Time(j) <= t+p.upperBound; j++ {
			if right[j] >= 0 {
				out[i] = min(minLeft, right[j])
				satisfied = true
				//
				break
			}
			//
			minLeft = min(minLeft, left[j])
			maxRight = max(maxRight, right[j])
		}
		//
		if !satisfied {
			if p.weak {
				out[i] = minLeft
			} else {
				out[i] = maxRight
			}
		}
	}
	//
	return out, nil
}

func (p *Until) String() string {
	operator := "U"
	if p.weak {
		operator = "W"
	}
	//
	return fmt.Sprintf("(%s %s[%g,%g] %s)", p.lhs, operator, p.lowerBound, p.upperBound, p.rhs)
}

// Check the time bounds of a bounded temporal operator are sane.
func checkTimeBounds(operator string, lowerBound float64, upperBound float64) error {
	if lowerBound < 0 {
		return &ConfigurationError{operator, fmt.Sprintf("lower time bound %g is negative", lowerBound)}
	} else if lowerBound > upperBound {
		return &ConfigurationError{operator,
			fmt.Sprintf("lower time bound %g exceeds upper time bound %g", lowerBound, upperBound)}
	}
	//
	return nil
}
