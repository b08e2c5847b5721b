/**
 * Copyright 2025 Payroll Standard. All rights reserved.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License. You may obtain a copy
 * of the License at http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under
 * the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR REPRESENTATIONS
 * OF ANY KIND, either express or implied. See the License for the specific language
 * governing permissions and limitations under the License.
 */

// Starting point for payroll-e2e cmd
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/payrollstandard/payroll-e2e/lib/build"
	"github.com/payrollstandard/payroll-e2e/lib/log"
)

type rootOptions struct {
	logVerbosity    string
	logTimestamp    bool
	verbosityForced bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "payroll-e2e",
		Short:         "Payroll Standard e2e",
		Long:          `Browser end-to-end checks of the Payroll Standard web application`,
		Version:       fmt.Sprintf("%s (%s)", build.Version, build.Time),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ /*args*/ []string) error {
			opts.verbosityForced = cmd.Flags().Changed("verbosity")
			logCfg := log.DefaultConfig()
			logCfg.Level = opts.logVerbosity
			logCfg.UseTimestamp = opts.logTimestamp
			return log.Initialize(logCfg)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.logVerbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.logTimestamp, "timestamp", true, "prepend timestamps for each log line")
	flags.Lookup("timestamp").NoOptDefVal = "false"

	cmd.AddCommand(newSmokeCmd(opts), newSelectorsCmd(), newInstallCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
