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

// Package stl implements the quantitative semantics of Signal Temporal Logic.
// A Formula is evaluated against a trace to yield a robustness signal: one
// real value per trace instant, whose sign indicates satisfaction (>= 0) or
// violation (< 0) of the formula at that instant, and whose magnitude
// indicates the margin.
package stl

import (
	"fmt"

	"github.com/consensys/go-stl/pkg/trace"
	"github.com/consensys/go-stl/pkg/util"
	"github.com/consensys/go-stl/pkg/util/math"
)

// Formula represents a node of an STL formula.  Formulas are immutable values
// built once (by the parser, or directly by a consumer) and never mutated;
// evaluation allocates a fresh robustness vector and never touches the node.
// Hence a single formula may be shared freely across concurrent evaluations.
type Formula interface {
	// Variables returns the (sorted, unique) set of signal names referenced
	// by this formula.
	Variables() []string
	// Horizon returns the maximum future time offset required to evaluate
	// this formula at a given instant.
	Horizon() float64
	// ValueRange returns the static interval of values this formula can
	// evaluate to, where derivable.
	ValueRange() util.Option[math.Interval]
	// Eval computes the robustness vector of this formula over the given
	// trace, one value per trace timestamp.
	Eval(tr *trace.Trace) ([]float64, error)
	// String returns a textual representation of this formula which can be
	// parsed back into an identical formula.
	String() string
}

// ConfigurationError indicates a formula was constructed with an invalid
// parameter, such as a non-positive smoothing parameter or an inverted time
// interval.
type ConfigurationError struct {
	// Operator being constructed.
	Operator string
	// Description of the offending parameter.
	Msg string
}

func (p *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", p.Operator, p.Msg)
}

// Determine the (sorted, unique) union of variables over a set of formulas.
func variablesOf(formulas ...Formula) []string {
	var vars []string
	//
	for _, f := range formulas {
		vars = util.SortedUnion(vars, f.Variables())
	}
	//
	return vars
}

// Determine the maximum horizon over a set of formulas.
func horizonOf(formulas ...Formula) float64 {
	horizon := 0.0
	//
	for _, f := range formulas {
		horizon = max(horizon, f.Horizon())
	}
	//
	return horizon
}

// Evaluate all formulas in a given set against the same trace.
func evalAll(tr *trace.Trace, formulas []Formula) ([][]float64, error) {
	rho := make([][]float64, len(formulas))
	//
	for i, f := range formulas {
		var err error
		//
		if rho[i], err = f.Eval(tr); err != nil {
			return nil, err
		}
	}
	//
	return rho, nil
}

// Evaluate two formulas against the same trace and combine their robustness
// vectors elementwise.
func evalBinary(tr *trace.Trace, lhs Formula, rhs Formula,
	fn func(float64, float64) float64) ([]float64, error) {
	//
	left, err := lhs.Eval(tr)
	if err != nil {
		return nil, err
	}
	//
	right, err := rhs.Eval(tr)
	if err != nil {
		return nil, err
	}
	//
	out := make([]float64, len(left))
	for i := range out {
		out[i] = fn(left[i], right[i])
	}
	//
	return out, nil
}
