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
	"strings"

	"github.com/consensys/go-stl/pkg/stl/parser"
	"github.com/consensys/go-stl/pkg/trace"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval [flags] formula trace_file",
	Short: "Evaluate the robustness of a formula against a trace.",
	Long: `Evaluate the robustness of a formula against a trace.
	Traces are given as JSON files mapping signal names to sampled
	values over a shared timeline.  A non-negative robustness means
	the trace satisfies the formula, and its magnitude indicates the
	margin by which it does so.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		nu := GetFloat64(cmd, "nu")
		all := GetFlag(cmd, "all")
		// Parse formula
		formula, errs := parser.ParseWithNu(nu, args[0], readRangeFlags(cmd))
		if len(errs) > 0 {
			reportSyntaxErrors(errs)
		}
		// Parse trace
		tr := readTraceFile(args[1], GetFloat64(cmd, "period"))
		//
		log.Debugf("evaluating %s over signals %v", formula, formula.Variables())
		log.Debugf("trace has %d samples, formula has horizon %.6g", tr.Len(), formula.Horizon())
		// Sanity check signal coverage before evaluating
		if tr.Len() == 0 {
			fmt.Println("trace is empty")
			os.Exit(2)
		}
		//
		if horizon := formula.Horizon(); horizon > tr.Time(tr.Len()-1) {
			log.Warnf("formula horizon %.6g exceeds trace end %.6g", horizon, tr.Time(tr.Len()-1))
		}
		// Go!
		robustness, err := formula.Eval(tr)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		if all {
			printRobustness(tr, robustness)
		}
		// Report the verdict at the initial time
		if robustness[0] >= 0 {
			fmt.Printf("satisfied (robustness %g)\n", robustness[0])
		} else {
			fmt.Printf("violated (robustness %g)\n", robustness[0])
		}
	},
}

// Print the full robustness vector, using as many columns as fit the
// terminal's width.
func printRobustness(tr *trace.Trace, robustness []float64) {
	cells := make([]string, len(robustness))
	width := 0
	//
	for i, r := range robustness {
		cells[i] = fmt.Sprintf("%g: %g", tr.Time(i), r)
		width = max(width, len(cells[i]))
	}
	// Two spaces of padding between columns
	width += 2
	ncols := max(1, terminalWidth()/width)
	//
	for i, cell := range cells {
		fmt.Print(cell, strings.Repeat(" ", width-len(cell)))
		//
		if i%ncols == ncols-1 {
			fmt.Println()
		}
	}
	//
	if len(cells)%ncols != 0 {
		fmt.Println()
	}
}

// Determine the width of the terminal, falling back on a sensible default when
// output is not a terminal (e.g. piped to a file).
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	//
	if term.IsTerminal(fd) {
		if width, _, err := term.GetSize(fd); err == nil {
			return width
		}
	}
	//
	return 80
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Bool("all", false, "Print the robustness at every sampled instant")
	evalCmd.Flags().Float64("period", 0, "Sampling period for resampling mixed-rate traces")
}
