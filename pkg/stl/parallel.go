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
	"runtime"
	"sync"

	"github.com/consensys/go-stl/pkg/trace"
)

// EvalAll evaluates a formula against a batch of traces, using one worker
// goroutine per available CPU.  Since formulas and traces are immutable, the
// workers require no coordination beyond distributing the work.  The result
// holds one robustness vector per trace, in trace order; the first error
// encountered (in trace order) is returned, if any.
func EvalAll(formula Formula, traces []*trace.Trace) ([][]float64, error) {
	var (
		wg      sync.WaitGroup
		results = make([][]float64, len(traces))
		errors  = make([]error, len(traces))
		jobs    = make(chan int, len(traces))
	)
	// Enqueue all jobs upfront
	for i := range traces {
		jobs <- i
	}
	//
	close(jobs)
	// Spawn workers
	for w := 0; w < min(runtime.NumCPU(), len(traces)); w++ {
		wg.Add(1)
		//
		go func() {
			defer wg.Done()
			//
			for i := range jobs {
				results[i], errors[i] = formula.Eval(traces[i])
			}
		}()
	}
	//
	wg.Wait()
	// Report first error (if any)
	for _, err := range errors {
		if err != nil {
			return nil, err
		}
	}
	//
	return results, nil
}
