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

	"github.com/consensys/go-stl/pkg/stl"
	"github.com/consensys/go-stl/pkg/stl/parser"
	"github.com/consensys/go-stl/pkg/trace"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [flags] formula trace_file(s)",
	Short: "Evaluate the robustness of a formula against several traces.",
	Long: `Evaluate the robustness of a formula against several traces,
	spreading the work across the available cores.  The verdict for
	each trace is reported on its own line, followed by a summary.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		nu := GetFloat64(cmd, "nu")
		period := GetFloat64(cmd, "period")
		// Parse formula
		formula, errs := parser.ParseWithNu(nu, args[0], readRangeFlags(cmd))
		if len(errs) > 0 {
			reportSyntaxErrors(errs)
		}
		// Parse traces
		traces := make([]*trace.Trace, len(args)-1)
		for i, filename := range args[1:] {
			traces[i] = readTraceFile(filename, period)
		}
		// Go!
		results, err := stl.EvalAll(formula, traces)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		satisfied := 0
		//
		for i, robustness := range results {
			if robustness[0] >= 0 {
				fmt.Printf("%s: satisfied (robustness %g)\n", args[i+1], robustness[0])
				satisfied++
			} else {
				fmt.Printf("%s: violated (robustness %g)\n", args[i+1], robustness[0])
			}
		}
		//
		fmt.Printf("%d / %d traces satisfied\n", satisfied, len(results))
		// Signal overall failure for scripting purposes
		if satisfied != len(results) {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().Float64("period", 0, "Sampling period for resampling mixed-rate traces")
}
