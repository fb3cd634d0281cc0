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
	"math"
)

// Tolerance used when matching source timestamps against the generated
// timeline during a merge.
const mergeEpsilon = 1e-5

// MixedSignal describes a signal recorded on its own timeline, possibly at a
// different rate than other signals being merged into the same trace.
type MixedSignal struct {
	// Name of this signal.
	Name string
	// Timeline on which this signal was recorded.  Must start at time zero.
	Timestamps []float64
	// Recorded samples, one per timestamp.
	Values []float64
}

// Merge builds a trace from several signals recorded at different rates, by
// resampling all of them onto a common uniform timeline.  The timeline runs
// from zero up to the duration of the longest signal, in steps of the given
// sampling period.  A period of zero requests inference, whereby the smallest
// gap observed between any two consecutive source timestamps is used.  New
// samples are filled with the most recent prior observed value (zero-order
// hold), which is only well defined when every source signal starts at time
// zero.
func Merge(signals []MixedSignal, samplingPeriod float64) (*Trace, error) {
	var duration float64
	// Sanity check sources
	for _, s := range signals {
		if len(s.Timestamps) != len(s.Values) {
			return nil, &LengthMismatchError{s.Name, len(s.Timestamps), len(s.Values)}
		} else if len(s.Timestamps) == 0 {
			return nil, fmt.Errorf("signal %s has no samples", s.Name)
		} else if s.Timestamps[0] != 0 {
			return nil, fmt.Errorf("signal %s starts at time %g, not zero", s.Name, s.Timestamps[0])
		}
		//
		duration = max(duration, s.Timestamps[len(s.Timestamps)-1])
	}
	// Infer sampling period (if requested)
	if samplingPeriod <= 0 {
		samplingPeriod = smallestGap(signals)
		//
		if samplingPeriod <= 0 {
			return nil, fmt.Errorf("sampling period not given and cannot be inferred")
		}
	}
	// Generate common timeline
	n := int(math.Floor(duration/samplingPeriod+mergeEpsilon)) + 1
	timestamps := make([]float64, n)
	//
	for i := range timestamps {
		timestamps[i] = float64(i) * samplingPeriod
	}
	// Resample each signal with a zero-order hold
	resampled := make(map[string][]float64, len(signals))
	//
	for _, s := range signals {
		data := make([]float64, n)
		pos := 0
		//
		for i, t := range timestamps {
			// Consume all source samples at or before the target time
			for pos < len(s.Timestamps) && s.Timestamps[pos] <= t+mergeEpsilon {
				pos++
			}
			// Hold last consumed value
			data[i] = s.Values[pos-1]
		}
		//
		resampled[s.Name] = data
	}
	//
	return New(timestamps, resampled)
}

// Determine the smallest gap between any two consecutive timestamps across
// all source signals, or zero if no signal has two samples.
func smallestGap(signals []MixedSignal) float64 {
	gap := math.Inf(1)
	//
	for _, s := range signals {
		for i := 1; i < len(s.Timestamps); i++ {
			gap = min(gap, s.Timestamps[i]-s.Timestamps[i-1])
		}
	}
	//
	if math.IsInf(gap, 1) {
		return 0
	}
	//
	return gap
}
