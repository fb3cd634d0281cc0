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
	"strconv"

	"github.com/consensys/go-stl/pkg/trace"
	"github.com/consensys/go-stl/pkg/util"
	"github.com/consensys/go-stl/pkg/util/math"
)

// Constant represents a formula which evaluates to the same value at every
// trace instant.
type Constant struct {
	value float64
}

// NewConstant constructs a constant formula.
func NewConstant(value float64) *Constant {
	return &Constant{value}
}

// Value returns the value of this constant.
func (p *Constant) Value() float64 {
	return p.value
}

// Variables implementation for the Formula interface.
func (p *Constant) Variables() []string {
	return nil
}

// Horizon implementation for the Formula interface.
func (p *Constant) Horizon() float64 {
	return 0
}

// ValueRange implementation for the Formula interface.
func (p *Constant) ValueRange() util.Option[math.Interval] {
	return util.Some(math.NewInterval(p.value, p.value))
}

// Eval implementation for the Formula interface.
func (p *Constant) Eval(tr *trace.Trace) ([]float64, error) {
	out := make([]float64, tr.Len())
	//
	for i := range out {
		out[i] = p.value
	}
	//
	return out, nil
}

func (p *Constant) String() string {
	return strconv.FormatFloat(p.value, 'g', -1, 64)
}

// Signal represents a reference to a named signal of the trace under
// evaluation, optionally annotated with a static value range provided by the
// caller.
type Signal struct {
	name       string
	valueRange util.Option[math.Interval]
}

// NewSignal constructs a signal reference without a static range.
func NewSignal(name string) *Signal {
	return &Signal{name, util.None[math.Interval]()}
}

// NewRangedSignal constructs a signal reference carrying a static range of
// values the signal is known to stay within.
func NewRangedSignal(name string, values math.Interval) *Signal {
	return &Signal{name, util.Some(values)}
}

// Name returns the name of the referenced signal.
func (p *Signal) Name() string {
	return p.name
}

// Variables implementation for the Formula interface.
func (p *Signal) Variables() []string {
	return []string{p.name}
}

// Horizon implementation for the Formula interface.
func (p *Signal) Horizon() float64 {
	return 0
}

// ValueRange implementation for the Formula interface.
func (p *Signal) ValueRange() util.Option[math.Interval] {
	return p.valueRange
}

// Eval implementation for the Formula interface.  This fails with an
// UnknownSignalError if the trace has no signal of the given name.
func (p *Signal) Eval(tr *trace.Trace) ([]float64, error) {
	data, err := tr.Signal(p.name)
	//
	if err != nil {
		return nil, err
	}
	// Copy, since robustness vectors are owned by the caller.
	out := make([]float64, len(data))
	copy(out, data)
	//
	return out, nil
}

func (p *Signal) String() string {
	return p.name
}
