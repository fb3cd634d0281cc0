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
package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Trace_01(t *testing.T) {
	tr, err := New([]float64{0, 1, 2}, map[string][]float64{
		"y": {4, 5, 6},
		"x": {1, 2, 3},
	})
	//
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, 1.0, tr.Time(1))
	// Names are reported in sorted order regardless of insertion order.
	assert.Equal(t, []string{"x", "y"}, tr.SignalNames())
	assert.True(t, tr.HasSignal("x"))
	assert.False(t, tr.HasSignal("z"))
}

func Test_Trace_02(t *testing.T) {
	tr, err := New([]float64{0, 1, 2}, map[string][]float64{"x": {1, 2, 3}})
	require.NoError(t, err)
	//
	data, err := tr.Signal("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, data)
	//
	_, err = tr.Signal("z")
	//
	var unknown *UnknownSignalError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "z", unknown.Signal)
}

func Test_Trace_03(t *testing.T) {
	_, err := New([]float64{0, 1, 2}, map[string][]float64{"x": {1, 2}})
	//
	var mismatch *LengthMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "x", mismatch.Signal)
	assert.Equal(t, 3, mismatch.Expected)
	assert.Equal(t, 2, mismatch.Actual)
}

func Test_Trace_04(t *testing.T) {
	tr, err := New([]float64{0, 0.5, 1, 1.5}, map[string][]float64{"x": {1, 2, 3, 4}})
	require.NoError(t, err)
	// Exact matches
	assert.Equal(t, 0, tr.IndexOf(0, 0))
	assert.Equal(t, 2, tr.IndexOf(1, 0))
	assert.Equal(t, 3, tr.IndexOf(1.5, 2))
	// Search starts at the given index, not before it
	assert.Equal(t, -1, tr.IndexOf(0.5, 2))
	// Off-grid times are not found
	assert.Equal(t, -1, tr.IndexOf(0.75, 0))
	assert.Equal(t, -1, tr.IndexOf(2, 0))
}

func Test_Trace_Merge_01(t *testing.T) {
	// Two signals recorded at different rates.
	tr, err := Merge([]MixedSignal{
		{"x", []float64{0, 1, 2}, []float64{1, 2, 3}},
		{"y", []float64{0, 0.5, 1}, []float64{10, 11, 12}},
	}, 0)
	require.NoError(t, err)
	// Period inferred as the smallest gap (0.5)
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, tr.Timestamps())
	//
	x, _ := tr.Signal("x")
	y, _ := tr.Signal("y")
	// Values are held until the next sample arrives
	assert.Equal(t, []float64{1, 1, 2, 2, 3}, x)
	assert.Equal(t, []float64{10, 11, 12, 12, 12}, y)
}

func Test_Trace_Merge_02(t *testing.T) {
	// Explicit period overrides inference.
	tr, err := Merge([]MixedSignal{
		{"x", []float64{0, 1, 2}, []float64{1, 2, 3}},
	}, 1)
	require.NoError(t, err)
	//
	assert.Equal(t, []float64{0, 1, 2}, tr.Timestamps())
	//
	x, _ := tr.Signal("x")
	assert.Equal(t, []float64{1, 2, 3}, x)
}

func Test_Trace_Merge_03(t *testing.T) {
	// Signals must start at time zero.
	_, err := Merge([]MixedSignal{
		{"x", []float64{1, 2}, []float64{1, 2}},
	}, 1)
	assert.Error(t, err)
}

func Test_Trace_Merge_04(t *testing.T) {
	// Empty signals are rejected.
	_, err := Merge([]MixedSignal{
		{"x", nil, nil},
	}, 1)
	assert.Error(t, err)
}

func Test_Trace_Merge_05(t *testing.T) {
	// Mismatched lengths are rejected.
	_, err := Merge([]MixedSignal{
		{"x", []float64{0, 1}, []float64{1}},
	}, 1)
	//
	var mismatch *LengthMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func Test_Trace_Merge_06(t *testing.T) {
	// Single-sample signals leave no gap to infer a period from.
	_, err := Merge([]MixedSignal{
		{"x", []float64{0}, []float64{1}},
	}, 0)
	assert.Error(t, err)
}
