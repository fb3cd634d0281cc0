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
package json

import (
	"encoding/json"
	"fmt"

	"github.com/consensys/go-stl/pkg/trace"
)

// FromBytes parses a trace expressed in JSON notation.  For example,
// {"timestamps": [0, 1], "signals": {"x": [0.5, -0.5]}} is a trace containing
// two samples of a single signal "x".
func FromBytes(data []byte) (*trace.Trace, error) {
	var rawTrace struct {
		Timestamps []float64            `json:"timestamps"`
		Signals    map[string][]float64 `json:"signals"`
	}
	// Attempt to unmarshall
	if err := json.Unmarshal(data, &rawTrace); err != nil {
		return nil, err
	}
	// Sanity check timeline given
	if len(rawTrace.Timestamps) == 0 {
		return nil, fmt.Errorf("trace has no timestamps")
	}
	//
	return trace.New(rawTrace.Timestamps, rawTrace.Signals)
}

// FromMixedBytes parses a trace whose signals were sampled on independent
// timelines, expressed in JSON notation.  For example, {"signals": [{"name":
// "x", "timestamps": [0, 2], "values": [1, 3]}]} contains a single signal "x"
// sampled at times 0 and 2.  The signals are resampled onto a shared timeline
// with the given period (or, when the period is zero, one inferred from the
// data) by holding each signal at its most recent sample.
func FromMixedBytes(data []byte, period float64) (*trace.Trace, error) {
	var rawTrace struct {
		Period  float64 `json:"period"`
		Signals []struct {
			Name       string    `json:"name"`
			Timestamps []float64 `json:"timestamps"`
			Values     []float64 `json:"values"`
		} `json:"signals"`
	}
	// Attempt to unmarshall
	if err := json.Unmarshal(data, &rawTrace); err != nil {
		return nil, err
	}
	// An explicit argument overrides the period given in the file
	if period <= 0 {
		period = rawTrace.Period
	}
	//
	signals := make([]trace.MixedSignal, len(rawTrace.Signals))
	for i, s := range rawTrace.Signals {
		signals[i] = trace.MixedSignal{Name: s.Name, Timestamps: s.Timestamps, Values: s.Values}
	}
	//
	return trace.Merge(signals, period)
}
