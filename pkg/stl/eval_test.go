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
package stl_test

import (
	gomath "math"
	"testing"

	"github.com/consensys/go-stl/pkg/stl"
	"github.com/consensys/go-stl/pkg/trace"
	"github.com/consensys/go-stl/pkg/util/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Eval_Predicate_01(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1, 2, 3}, map[string][]float64{"x": {1, -1, 2, -2}})
	// The robustness of x > 0 is simply the margin x - 0.
	checkEval(t, tr, stl.NewStrictGreaterThan(x(), zero()), []float64{1, -1, 2, -2})
	// Strictness does not affect the quantitative semantics.
	checkEval(t, tr, stl.NewGreaterThan(x(), zero()), []float64{1, -1, 2, -2})
}

func Test_Eval_Predicate_02(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1, 2, 3}, map[string][]float64{"x": {1, -1, 2, -2}})
	// The robustness of x < 0 is the margin 0 - x.
	checkEval(t, tr, stl.NewStrictLessThan(x(), zero()), []float64{-1, 1, -2, 2})
	checkEval(t, tr, stl.NewLessThan(x(), zero()), []float64{-1, 1, -2, 2})
}

func Test_Eval_Predicate_03(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1}, map[string][]float64{"x": {3, 5}})
	// Exact equality reads as satisfied with margin one.
	checkEval(t, tr, stl.NewEquals(x(), x()), []float64{1, 1})
	// Otherwise the robustness is the negated distance.
	checkEval(t, tr, stl.NewEquals(x(), stl.NewConstant(4)), []float64{-1, -1})
	checkEval(t, tr, stl.NewNotEquals(x(), stl.NewConstant(4)), []float64{1, 1})
	checkEval(t, tr, stl.NewNotEquals(x(), x()), []float64{-1, -1})
}

func Test_Eval_Arith_01(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1}, map[string][]float64{
		"x": {6, -4},
		"y": {2, 2},
	})
	//
	checkEval(t, tr, stl.NewSum(x(), y()), []float64{8, -2})
	checkEval(t, tr, stl.NewSubtract(x(), y()), []float64{4, -6})
	checkEval(t, tr, stl.NewMultiply(x(), y()), []float64{12, -8})
	checkEval(t, tr, stl.NewDivide(x(), y()), []float64{3, -2})
	checkEval(t, tr, stl.NewAbs(x()), []float64{6, 4})
}

func Test_Eval_Not_01(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1}, map[string][]float64{"x": {1, -2}})
	f := stl.NewStrictGreaterThan(x(), zero())
	//
	checkEval(t, tr, stl.NewNot(f), []float64{-1, 2})
	// Double negation restores the original robustness.
	checkEval(t, tr, stl.NewNot(stl.NewNot(f)), []float64{1, -2})
}

func Test_Eval_Classic_01(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1, 2}, map[string][]float64{
		"x": {1, -1, 3},
		"y": {2, 2, -2},
	})
	fx := stl.NewStrictGreaterThan(x(), zero())
	fy := stl.NewStrictGreaterThan(y(), zero())
	// Classic conjunction is the elementwise minimum, in either order.
	checkEval(t, tr, stl.NewClassicAnd(fx, fy), []float64{1, -1, -2})
	checkEval(t, tr, stl.NewClassicAnd(fy, fx), []float64{1, -1, -2})
	// Classic disjunction is the elementwise maximum.
	checkEval(t, tr, stl.NewClassicOr(fx, fy), []float64{2, 2, 3})
}

func Test_Eval_Smooth_01(t *testing.T) {
	tr := mustTrace(t, []float64{0}, map[string][]float64{
		"x": {1},
		"y": {2},
	})
	f := mustAnd(t, 1, gt(x()), gt(y()))
	// All children positive: a softmin weighted towards the minimum.
	expected := (1 + 2*gomath.Exp(-1)) / (1 + gomath.Exp(-1))
	//
	out, err := f.Eval(tr)
	require.NoError(t, err)
	assert.InDelta(t, expected, out[0], 1e-12)
}

func Test_Eval_Smooth_02(t *testing.T) {
	tr := mustTrace(t, []float64{0}, map[string][]float64{
		"x": {-1},
		"y": {-2},
	})
	f := mustAnd(t, 1, gt(x()), gt(y()))
	// Minimum negative: scaled by exponentially weighted ratios.
	expected := -2 * (1 + gomath.Exp(-1)) / (1 + gomath.Exp(-0.5))
	//
	out, err := f.Eval(tr)
	require.NoError(t, err)
	assert.InDelta(t, expected, out[0], 1e-12)
}

func Test_Eval_Smooth_03(t *testing.T) {
	tr := mustTrace(t, []float64{0}, map[string][]float64{
		"x": {0},
		"y": {5},
	})
	f := mustAnd(t, 1, gt(x()), gt(y()))
	// Minimum exactly zero.
	checkEval(t, tr, f, []float64{0})
}

func Test_Eval_Smooth_04(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1}, map[string][]float64{
		"x": {1, -1},
		"y": {2, -3},
	})
	// As nu grows, the smoothed semantics degenerates to the minimum.
	f := mustAnd(t, 1000, gt(x()), gt(y()))
	//
	out, err := f.Eval(tr)
	require.NoError(t, err)
	assert.InDelta(t, 1, out[0], 1e-9)
	assert.InDelta(t, -3, out[1], 1e-9)
}

func Test_Eval_Smooth_05(t *testing.T) {
	// Invalid smoothing parameters are rejected.
	_, err := stl.NewAnd(0, gt(x()))
	assert.Error(t, err)
	_, err = stl.NewAnd(-1, gt(x()))
	assert.Error(t, err)
	_, err = stl.NewAnd(1)
	assert.Error(t, err)
}

func Test_Eval_Global_01(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1, 2, 3}, map[string][]float64{"x": {1, -1, 2, -2}})
	f := mustGlobal(t, 0, 2, gt(x()))
	// Windows overrunning the trace end are truncated at the end.
	checkEval(t, tr, f, []float64{-1, -2, -2, -2})
}

func Test_Eval_Global_02(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1, 2, 3}, map[string][]float64{"x": {1, -1, 2, -2}})
	// A degenerate window holds just the current instant.
	f := mustGlobal(t, 0, 0, gt(x()))
	checkEval(t, tr, f, []float64{1, -1, 2, -2})
}

func Test_Eval_Global_03(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1, 2, 3}, map[string][]float64{"x": {1, -1, 2, -2}})
	// A window start which never lands on the sampling grid is vacuous.
	f := mustGlobal(t, 0.5, 1.5, gt(x()))
	inf := gomath.Inf(1)
	checkEval(t, tr, f, []float64{inf, inf, inf, inf})
}

func Test_Eval_Global_04(t *testing.T) {
	// Inverted or negative time bounds are rejected.
	_, err := stl.NewGlobal(2, 1, gt(x()))
	assert.Error(t, err)
	_, err = stl.NewGlobal(-1, 1, gt(x()))
	assert.Error(t, err)
}

func Test_Eval_Finally_01(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1, 2, 3}, map[string][]float64{"x": {1, -1, 2, -2}})
	f, err := stl.NewFinally(0, 2, gt(x()))
	require.NoError(t, err)
	// The dual of globally: the maximum over the window.
	checkEval(t, tr, f, []float64{2, 2, 2, -2})
}

func Test_Eval_Next_01(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1, 2}, map[string][]float64{"x": {1, -1, 2}})
	f := stl.NewNext(gt(x()))
	// Shift left, repeating the final sample.
	checkEval(t, tr, f, []float64{-1, 2, 2})
}

func Test_Eval_Next_02(t *testing.T) {
	tr := mustTrace(t, []float64{0}, map[string][]float64{"x": {3}})
	f := stl.NewNext(gt(x()))
	// A single-sample trace has no next instant to shift in.
	checkEval(t, tr, f, []float64{3})
}

func Test_Eval_Until_01(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1, 2}, map[string][]float64{
		"x": {1, 2, 3},
		"y": {-1, -2, 5},
	})
	f := mustUntil(t, 0, 2, gt(x()), gt(y()))
	// The right operand becomes satisfied at the final instant.
	checkEval(t, tr, f, []float64{1, 2, 5})
}

func Test_Eval_Until_02(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1, 2}, map[string][]float64{
		"x": {1, 2, 3},
		"y": {-1, -2, -3},
	})
	// The right operand never becomes satisfied: the strong variant reports
	// the least bad right margin, whilst the weak variant only requires the
	// left operand to hold throughout.
	f := mustUntil(t, 0, 2, gt(x()), gt(y()))
	checkEval(t, tr, f, []float64{-1, -2, -3})
	//
	w, err := stl.NewWeakUntil(0, 2, gt(x()), gt(y()))
	require.NoError(t, err)
	checkEval(t, tr, w, []float64{1, 2, 3})
}

func Test_Eval_Until_03(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1, 2}, map[string][]float64{
		"x": {1, 2, 3},
		"y": {-1, -2, -3},
	})
	// A window beyond the trace end is empty.
	f := mustUntil(t, 10, 11, gt(x()), gt(y()))
	checkEval(t, tr, f, []float64{gomath.Inf(-1), gomath.Inf(-1), gomath.Inf(-1)})
	//
	w, err := stl.NewWeakUntil(10, 11, gt(x()), gt(y()))
	require.NoError(t, err)
	checkEval(t, tr, w, []float64{gomath.Inf(1), gomath.Inf(1), gomath.Inf(1)})
}

func Test_Eval_Implication_01(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1}, map[string][]float64{
		"x": {1, -1},
		"y": {5, -2},
	})
	f, err := stl.NewImplication(stl.DefaultNu, gt(x()), gt(y()))
	require.NoError(t, err)
	// An implication evaluates exactly as its disjunctive desugaring.
	desugared, err := stl.NewOr(stl.DefaultNu, stl.NewNot(gt(x())), gt(y()))
	require.NoError(t, err)
	//
	expected, err := desugared.Eval(tr)
	require.NoError(t, err)
	checkEval(t, tr, f, expected)
}

func Test_Eval_Metadata_01(t *testing.T) {
	f := mustUntil(t, 0, 5, gt(x()), stl.NewStrictGreaterThan(y(), x()))
	// Variables are reported sorted and without duplicates.
	assert.Equal(t, []string{"x", "y"}, f.Variables())
}

func Test_Eval_Metadata_02(t *testing.T) {
	g := mustGlobal(t, 0, 2, stl.NewNext(gt(x())))
	// The next-state operator counts as one time unit of lookahead.
	assert.Equal(t, 3.0, g.Horizon())
	assert.Equal(t, 0.0, gt(x()).Horizon())
}

func Test_Eval_Metadata_03(t *testing.T) {
	ranged := stl.NewRangedSignal("x", math.NewInterval(0, 120))
	f := stl.NewStrictGreaterThan(ranged, stl.NewConstant(50))
	// Range inference over a ranged signal.
	r := f.ValueRange()
	require.True(t, r.HasValue())
	interval := r.Unwrap()
	assert.Equal(t, -50.0, interval.MinValue())
	assert.Equal(t, 70.0, interval.MaxValue())
	// No range can be inferred for a bare signal.
	assert.True(t, gt(x()).ValueRange().IsEmpty())
}

func Test_Eval_Unknown_01(t *testing.T) {
	tr := mustTrace(t, []float64{0}, map[string][]float64{"x": {1}})
	//
	_, err := gt(y()).Eval(tr)
	//
	var unknown *trace.UnknownSignalError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "y", unknown.Signal)
}

func Test_EvalAll_01(t *testing.T) {
	f := gt(x())
	//
	traces := make([]*trace.Trace, 10)
	for i := range traces {
		traces[i] = mustTrace(t, []float64{0, 1}, map[string][]float64{
			"x": {float64(i), -float64(i)},
		})
	}
	//
	results, err := stl.EvalAll(f, traces)
	require.NoError(t, err)
	require.Len(t, results, 10)
	//
	for i, robustness := range results {
		assert.Equal(t, []float64{float64(i), -float64(i)}, robustness)
	}
}

func Test_EvalAll_02(t *testing.T) {
	f := gt(y())
	traces := []*trace.Trace{
		mustTrace(t, []float64{0}, map[string][]float64{"x": {1}}),
	}
	//
	_, err := stl.EvalAll(f, traces)
	assert.Error(t, err)
}

// ==================================================================
// Framework
// ==================================================================

func x() *stl.Signal { return stl.NewSignal("x") }
func y() *stl.Signal { return stl.NewSignal("y") }

func zero() *stl.Constant { return stl.NewConstant(0) }

func gt(f stl.Formula) stl.Formula {
	return stl.NewStrictGreaterThan(f, zero())
}

func mustAnd(t *testing.T, nu float64, formulas ...stl.Formula) stl.Formula {
	f, err := stl.NewAnd(nu, formulas...)
	require.NoError(t, err)
	//
	return f
}

func mustGlobal(t *testing.T, lb float64, ub float64, f stl.Formula) stl.Formula {
	g, err := stl.NewGlobal(lb, ub, f)
	require.NoError(t, err)
	//
	return g
}

func mustUntil(t *testing.T, lb float64, ub float64, lhs stl.Formula, rhs stl.Formula) stl.Formula {
	u, err := stl.NewUntil(lb, ub, lhs, rhs)
	require.NoError(t, err)
	//
	return u
}

func mustTrace(t *testing.T, timestamps []float64, signals map[string][]float64) *trace.Trace {
	tr, err := trace.New(timestamps, signals)
	require.NoError(t, err)
	//
	return tr
}

func checkEval(t *testing.T, tr *trace.Trace, f stl.Formula, expected []float64) {
	actual, err := f.Eval(tr)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}
