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
package cmd

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/consensys/go-stl/pkg/trace"
	"github.com/consensys/go-stl/pkg/trace/json"
	"github.com/consensys/go-stl/pkg/util/math"
	"github.com/consensys/go-stl/pkg/util/source"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetFloat64 gets an expected float64 flag, or panic if an error arises.
func GetFloat64(cmd *cobra.Command, flag string) float64 {
	r, err := cmd.Flags().GetFloat64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringSlice gets an expected string-slice flag, or panic if an error
// arises.
func GetStringSlice(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringSlice(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Parse a trace file using a parser based on the extension of the filename.
// Both the shared-timeline and mixed-rate formats are accepted, with the
// latter resampled using the given period.
func readTraceFile(filename string, period float64) *trace.Trace {
	bytes, err := os.ReadFile(filename)
	if err == nil {
		// Check file extension
		ext := path.Ext(filename)
		//
		switch ext {
		case ".json":
			tr, err := json.FromBytes(bytes)
			if err != nil {
				// Fall back on the mixed-rate format
				tr, err = json.FromMixedBytes(bytes, period)
			}
			//
			if err == nil {
				return tr
			}
			//
			fmt.Printf("%s: %s\n", filename, err)
			os.Exit(2)
		default:
			err = fmt.Errorf("unknown trace file format: %s", ext)
		}
	}
	// Handle error
	fmt.Println(err)
	os.Exit(2)
	// unreachable
	return nil
}

// Parse any signal ranges declared on the command line, each of which has the
// form "name=lower:upper".
func readRangeFlags(cmd *cobra.Command) map[string]math.Interval {
	ranges := make(map[string]math.Interval)
	//
	for _, flag := range GetStringSlice(cmd, "range") {
		name, bounds, ok := strings.Cut(flag, "=")
		if !ok {
			exitRangeError(flag)
		}
		//
		low, high, ok := strings.Cut(bounds, ":")
		if !ok {
			exitRangeError(flag)
		}
		//
		lower, err1 := strconv.ParseFloat(low, 64)
		upper, err2 := strconv.ParseFloat(high, 64)
		//
		if err1 != nil || err2 != nil || lower > upper {
			exitRangeError(flag)
		}
		//
		ranges[name] = math.NewInterval(lower, upper)
	}
	//
	return ranges
}

func exitRangeError(flag string) {
	fmt.Printf("malformed range declaration: %s\n", flag)
	os.Exit(2)
}

// Print syntax errors with appropriate highlighting, then exit.
func reportSyntaxErrors(errs []source.SyntaxError) {
	for _, err := range errs {
		printSyntaxError(&err)
	}
	//
	os.Exit(3)
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	line := err.FirstEnclosingLine()
	span := err.Span()
	// Determine column of error within line
	col := span.Start() - line.Start()
	// Determine how much of the error fits on this line
	width := max(1, min(span.Length(), line.Length()-col))
	// Print error + line number
	fmt.Printf("%s:%d:%d: %s\n", err.SourceFile().Filename(), line.Number(), col+1, err.Message())
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", col))
	// Print highlight
	fmt.Println(strings.Repeat("^", width))
}
