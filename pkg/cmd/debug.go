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

	"github.com/consensys/go-stl/pkg/stl/parser"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// debugCmd represents the debug command
var debugCmd = &cobra.Command{
	Use:   "debug [flags] formula",
	Short: "print information about a formula without evaluating it.",
	Long: `Print a given formula after parsing, along with the signals it
	reads, its temporal horizon and (where it can be inferred) the
	range of values its robustness can take.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		nu := GetFloat64(cmd, "nu")
		// Parse formula
		formula, errs := parser.ParseWithNu(nu, args[0], readRangeFlags(cmd))
		if len(errs) > 0 {
			reportSyntaxErrors(errs)
		}
		//
		fmt.Println(formula)
		fmt.Printf("signals: %v\n", formula.Variables())
		fmt.Printf("horizon: %g\n", formula.Horizon())
		//
		if r := formula.ValueRange(); r.HasValue() {
			interval := r.Unwrap()
			fmt.Printf("range: %s\n", interval.String())
		} else {
			fmt.Println("range: unknown")
		}
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
}
