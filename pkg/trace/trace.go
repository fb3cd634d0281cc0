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
	"fmt"
	"slices"
	"strings"
)

// Trace describes a recorded run of a system under test.  It consists of an
// ordered timeline of strictly increasing timestamps, along with one or more
// named signals sampled on that timeline.  A trace is immutable after
// construction, and hence can be shared across concurrent evaluations.
type Trace struct {
	// Ordered timeline shared by all signals.
	timestamps []float64
	// Signals, stored in name order for determinism.
	columns []column
}

type column struct {
	name string
	data []float64
}

// New constructs a trace from a given timeline and a mapping of signal names
// to sampled values.  Every signal must have exactly as many samples as there
// are timestamps, otherwise a LengthMismatchError is returned.
func New(timestamps []float64, signals map[string][]float64) (*Trace, error) {
	columns := make([]column, 0, len(signals))
	// Sanity check signal lengths
	for name, data := range signals {
		if len(data) != len(timestamps) {
			return nil, &LengthMismatchError{name, len(timestamps), len(data)}
		}
		//
		columns = append(columns, column{name, data})
	}
	// Impose deterministic column order
	slices.SortFunc(columns, func(l column, r column) int {
		return strings.Compare(l.name, r.name)
	})
	//
	return &Trace{timestamps, columns}, nil
}

// Len returns the number of samples in this trace, which is defined as the
// number of timestamps.
func (p *Trace) Len() int {
	return len(p.timestamps)
}

// Timestamps returns the timeline of this trace.  The returned slice must not
// be modified.
func (p *Trace) Timestamps() []float64 {
	return p.timestamps
}

// Time returns the timestamp of the ith sample.
func (p *Trace) Time(i int) float64 {
	return p.timestamps[i]
}

// HasSignal checks whether the trace has a given signal or not.
func (p *Trace) HasSignal(name string) bool {
	_, ok := p.signal(name)
	return ok
}

// SignalNames returns the (sorted) names of all signals in this trace.
func (p *Trace) SignalNames() []string {
	names := make([]string, len(p.columns))
	for i, c := range p.columns {
		names[i] = c.name
	}
	//
	return names
}

// Signal returns the samples of a given signal.  The returned slice must not
// be modified.  An UnknownSignalError is returned if no such signal exists.
func (p *Trace) Signal(name string) ([]float64, error) {
	if c, ok := p.signal(name); ok {
		return c.data, nil
	}
	//
	return nil, &UnknownSignalError{name}
}

// IndexOf returns the index i >= start such that the ith timestamp matches
// the given time exactly, or -1 if no such index exists.  Observe that this
// is a deliberate simplification: time bounds which fall off the sampling
// grid are simply not found, rather than snapped to the nearest sample.
func (p *Trace) IndexOf(t float64, start int) int {
	for i := max(start, 0); i < len(p.timestamps); i++ {
		if p.timestamps[i] == t {
			return i
		}
	}
	//
	return -1
}

func (p *Trace) signal(name string) (column, bool) {
	for _, c := range p.columns {
		if c.name == name {
			return c, true
		}
	}
	//
	return column{}, false
}

// LengthMismatchError indicates an attempt to construct a trace in which some
// signal has a different number of samples than there are timestamps.
type LengthMismatchError struct {
	// Name of the offending signal.
	Signal string
	// Number of timestamps in the trace under construction.
	Expected int
	// Number of samples the signal actually has.
	Actual int
}

func (p *LengthMismatchError) Error() string {
	return fmt.Sprintf("signal %s has %d samples, but trace has %d timestamps",
		p.Signal, p.Actual, p.Expected)
}

// UnknownSignalError indicates an attempt to read a signal which is not part
// of the trace.
type UnknownSignalError struct {
	// Name of the missing signal.
	Signal string
}

func (p *UnknownSignalError) Error() string {
	return fmt.Sprintf("trace has no signal named %s", p.Signal)
}
