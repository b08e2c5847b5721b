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

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"

	"github.com/payrollstandard/payroll-e2e/lib/browser"
)

func newSelectorsCmd() *cobra.Command {
	var engineName string
	var file string

	cmd := &cobra.Command{
		Use:   "selectors",
		Short: "Print the element selectors used for the browser",
		RunE: func(cmd *cobra.Command, _ /*args*/ []string) error {
			engine, err := browser.ParseEngine(engineName)
			if err != nil {
				return err
			}

			table := browser.DefaultSelectors()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				if table, err = browser.LoadSelectors(f); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range table.Names() {
				fmt.Fprintf(w, "%s\t%s\n", name, table.Lookup(name, engine))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&engineName, "browser", "b", string(browser.Chromium), "browser engine")
	cmd.Flags().StringVarP(&file, "file", "f", "", "yaml file with the selectors table")
	return cmd
}

func newInstallCmd() *cobra.Command {
	var browsers []string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install playwright driver and the browsers",
		RunE: func(_ /*cmd*/ *cobra.Command, _ /*args*/ []string) error {
			engines := make([]string, 0, len(browsers))
			for _, name := range browsers {
				engine, err := browser.ParseEngine(name)
				if err != nil {
					return err
				}
				engines = append(engines, string(engine))
			}
			return playwright.Install(&playwright.RunOptions{Browsers: engines})
		},
	}

	cmd.Flags().StringSliceVarP(&browsers, "browser", "b", []string{"chromium", "firefox", "webkit"}, "browsers to install")
	return cmd
}
