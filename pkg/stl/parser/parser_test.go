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
package parser_test

import (
	"testing"

	"github.com/consensys/go-stl/pkg/stl"
	"github.com/consensys/go-stl/pkg/stl/parser"
	"github.com/consensys/go-stl/pkg/trace"
	"github.com/consensys/go-stl/pkg/util/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parser_01(t *testing.T) {
	f := mustParse(t, "x > 0")
	//
	assert.IsType(t, &stl.GreaterThan{}, f)
	assert.Equal(t, []string{"x"}, f.Variables())
	assert.Equal(t, "x > 0", f.String())
}

func Test_Parser_02(t *testing.T) {
	checkRoundTrip(t, "x > 0")
	checkRoundTrip(t, "x >= 0")
	checkRoundTrip(t, "x < 0")
	checkRoundTrip(t, "x <= 0")
	checkRoundTrip(t, "x == 0")
	checkRoundTrip(t, "x != 0")
	checkRoundTrip(t, "not (x > 0)")
	checkRoundTrip(t, "(x > 0 and y > 0)")
	checkRoundTrip(t, "(x > 0 or y > 0)")
	checkRoundTrip(t, "(x > 0 implies y > 0)")
	checkRoundTrip(t, "G[0,2] (x > 0)")
	checkRoundTrip(t, "F[1,2.5] (x > 0)")
	checkRoundTrip(t, "X (x > 0)")
	checkRoundTrip(t, "(x > 0 U[0,5] y > 0)")
	checkRoundTrip(t, "(x > 0 W[0,5] y > 0)")
	checkRoundTrip(t, "|(x - y)| < 3")
	checkRoundTrip(t, "(x + (y * 2)) > 0")
}

// A chain written without parentheses flattens into a single n-ary node.
func Test_Parser_03(t *testing.T) {
	f := mustParse(t, "a > 0 and b > 0 and c > 0")
	//
	conjunction, ok := f.(*stl.And)
	require.True(t, ok)
	assert.Len(t, conjunction.Formulas(), 3)
	assert.Equal(t, "(a > 0 and b > 0 and c > 0)", f.String())
}

// Explicit parentheses are a barrier to flattening.
func Test_Parser_04(t *testing.T) {
	f := mustParse(t, "(a > 0 and b > 0) and c > 0")
	//
	conjunction, ok := f.(*stl.And)
	require.True(t, ok)
	require.Len(t, conjunction.Formulas(), 2)
	//
	nested, ok := conjunction.Formulas()[0].(*stl.And)
	require.True(t, ok)
	assert.Len(t, nested.Formulas(), 2)
	assert.Equal(t, "((a > 0 and b > 0) and c > 0)", f.String())
}

func Test_Parser_05(t *testing.T) {
	f := mustParse(t, "a > 0 or b > 0 or c > 0")
	//
	disjunction, ok := f.(*stl.Or)
	require.True(t, ok)
	assert.Len(t, disjunction.Formulas(), 3)
}

// Implication associates to the right.
func Test_Parser_06(t *testing.T) {
	f := mustParse(t, "a > 0 -> b > 0 -> c > 0")
	assert.Equal(t, "(a > 0 implies (b > 0 implies c > 0))", f.String())
	// The keyword form is interchangeable with the arrow.
	g := mustParse(t, "a > 0 implies b > 0 implies c > 0")
	assert.Equal(t, f.String(), g.String())
}

// Multiplication binds tighter than addition, addition tighter than
// comparison.
func Test_Parser_07(t *testing.T) {
	f := mustParse(t, "x + y * 2 > 0")
	assert.Equal(t, "(x + (y * 2)) > 0", f.String())
}

// Unary minus folds into the literal.
func Test_Parser_08(t *testing.T) {
	f := mustParse(t, "x > -5")
	assert.Equal(t, "x > -5", f.String())
	// Negating a non-literal subtracts from zero.
	g := mustParse(t, "-x > 0")
	assert.Equal(t, "(0 - x) > 0", g.String())
}

func Test_Parser_09(t *testing.T) {
	f := mustParse(t, "|x - y| < 3")
	assert.Equal(t, "|(x - y)| < 3", f.String())
}

// Redundant parentheses collapse harmlessly.
func Test_Parser_10(t *testing.T) {
	f := mustParse(t, "((x > 0))")
	assert.IsType(t, &stl.GreaterThan{}, f)
	assert.Equal(t, "x > 0", f.String())
}

// Single uppercase letters only act as operators when they stand alone.
func Test_Parser_11(t *testing.T) {
	f := mustParse(t, "Gap > 0 and Fuel > 0")
	assert.Equal(t, []string{"Fuel", "Gap"}, f.Variables())
}

// The smoothing parameter is plumbed through to connectives.
func Test_Parser_12(t *testing.T) {
	f, errs := parser.ParseWithNu(2, "x > 0 and y > 0", nil)
	require.Empty(t, errs)
	//
	conjunction, ok := f.(*stl.And)
	require.True(t, ok)
	assert.Equal(t, 2.0, conjunction.Nu())
}

// Declared signal ranges enable range inference.
func Test_Parser_13(t *testing.T) {
	ranges := map[string]math.Interval{"x": math.NewInterval(0, 120)}
	//
	f, errs := parser.Parse("x > 50", ranges)
	require.Empty(t, errs)
	//
	r := f.ValueRange()
	require.True(t, r.HasValue())
	interval := r.Unwrap()
	assert.Equal(t, -50.0, interval.MinValue())
	assert.Equal(t, 70.0, interval.MaxValue())
}

func Test_Parser_14(t *testing.T) {
	checkSyntaxError(t, "G x > 0", "temporal operator requires a time interval")
	checkSyntaxError(t, "F x > 0", "temporal operator requires a time interval")
	checkSyntaxError(t, "x > 0 U y > 0", "until operator requires a time interval")
}

func Test_Parser_15(t *testing.T) {
	checkSyntaxError(t, "x $ y", "unknown character")
	checkSyntaxError(t, "x > ", "unknown expression")
	checkSyntaxError(t, "x > 0 y", "unknown token")
	checkSyntaxError(t, "(x > 0", "unexpected token")
	checkSyntaxError(t, "G[2 1] x > 0", "unexpected token")
}

// Invalid operator parameters surface as positioned syntax errors.
func Test_Parser_16(t *testing.T) {
	_, errs := parser.Parse("G[2,1] x > 0", nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message(), "exceeds upper time bound")
	// The error is anchored on the offending interval.
	span := errs[0].Span()
	assert.Equal(t, 1, span.Start())
	assert.Equal(t, 6, span.End())
}

// End-to-end: parse then evaluate.
func Test_Parser_17(t *testing.T) {
	tr, err := trace.New([]float64{0, 1, 2, 3}, map[string][]float64{"x": {1, -1, 2, -2}})
	require.NoError(t, err)
	//
	f := mustParse(t, "G[0,2] x > 0")
	//
	robustness, err := f.Eval(tr)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -2, -2, -2}, robustness)
}

// ==================================================================
// Framework
// ==================================================================

func mustParse(t *testing.T, input string) stl.Formula {
	f, errs := parser.Parse(input, nil)
	//
	if len(errs) > 0 {
		t.Fatalf("parsing %q failed: %v", input, errs[0].Error())
	}
	//
	return f
}

// Check that printing a formula and parsing it back yields the same formula.
func checkRoundTrip(t *testing.T, input string) {
	f := mustParse(t, input)
	g := mustParse(t, f.String())
	//
	if f.String() != g.String() {
		t.Errorf("round trip of %q changed %q into %q", input, f.String(), g.String())
	}
}

func checkSyntaxError(t *testing.T, input string, msg string) {
	_, errs := parser.Parse(input, nil)
	//
	require.NotEmpty(t, errs, "parsing %q should have failed", input)
	assert.Equal(t, msg, errs[0].Message())
}
