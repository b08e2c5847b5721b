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
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"

	"github.com/payrollstandard/payroll-e2e/lib/config"
	"github.com/payrollstandard/payroll-e2e/lib/element"
	"github.com/payrollstandard/payroll-e2e/lib/fixtures"
	"github.com/payrollstandard/payroll-e2e/lib/log"
	"github.com/payrollstandard/payroll-e2e/lib/monitoring"
	"github.com/payrollstandard/payroll-e2e/lib/smoke"
)

type smokeOptions struct {
	cfgPath        string
	env            string
	browsers       []string
	account        string
	repeatEvery    time.Duration
	metricsAddress string
	parallelism    int
}

func newSmokeCmd(root *rootOptions) *cobra.Command {
	opts := &smokeOptions{}

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run login smoke check in the browsers",
		RunE: func(cmd *cobra.Command, _ /*args*/ []string) error {
			cfg, err := opts.config(root)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSmoke(ctx, cmd.OutOrStdout(), cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.cfgPath, "cfg", "c", "", "yaml configuration file")
	flags.StringVarP(&opts.env, "env", "e", "", "target environment (dev, staging, prod)")
	flags.StringSliceVarP(&opts.browsers, "browser", "b", nil, "browsers to run (chromium, firefox, webkit)")
	flags.StringVar(&opts.account, "account", "sca", "account to login with (sca, emp)")
	flags.DurationVar(&opts.repeatEvery, "repeat-every", 0, "keep running the check with the interval, 0 runs once")
	flags.StringVar(&opts.metricsAddress, "metrics-address", "", "address to expose prometheus /metrics on")
	flags.IntVar(&opts.parallelism, "parallel", 0, "max browsers running at once, 0 runs all of them")

	return cmd
}

// config merges the file, the environment and the flags in this order
func (o *smokeOptions) config(root *rootOptions) (*config.Config, error) {
	cfg := config.Default()
	if err := cfg.ReadConfigFile(o.cfgPath); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if o.env != "" {
		cfg.Env = o.env
	}
	if len(o.browsers) > 0 {
		cfg.Browsers = o.browsers
	}
	// Verbosity flag wins over the config file only when set explicitly
	if root.verbosityForced {
		cfg.Log.Level = root.logVerbosity
	}
	cfg.Log.UseTimestamp = root.logTimestamp
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (o *smokeOptions) credentials() (fixtures.Credentials, error) {
	accounts := fixtures.Auth()
	switch o.account {
	case "sca":
		return accounts.SingleClientAdmin, nil
	case "emp":
		return accounts.Employee, nil
	}
	return fixtures.Credentials{}, fmt.Errorf("unknown account %q", o.account)
}

func runSmoke(ctx context.Context, out io.Writer, cfg *config.Config, opts *smokeOptions) error {
	creds, err := opts.credentials()
	if err != nil {
		return err
	}

	if err := log.Initialize(&cfg.Log); err != nil {
		return err
	}
	logger := log.WithFunc("main", "runSmoke")

	cfg.Monitoring.RunID = uuid.NewString()
	cfg.Monitoring.Environment = cfg.Env
	monitor, err := monitoring.Initialize(ctx, &cfg.Monitoring)
	if err != nil {
		return fmt.Errorf("unable to initialize monitoring: %w", err)
	}
	if cfg.Monitoring.Enabled && cfg.Log.OtelEnabled {
		log.SetupOtelIntegration()
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := monitor.Shutdown(sctx); err != nil {
			logger.Error("Error shutting down monitoring", "err", err)
		}
	}()

	if opts.metricsAddress != "" {
		ln, err := net.Listen("tcp", opts.metricsAddress)
		if err != nil {
			return fmt.Errorf("unable to listen for metrics: %w", err)
		}
		srv := serveMetrics(ln, monitor)
		defer stopMetrics(srv)
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("unable to start playwright, try the install command: %w", err)
	}
	defer pw.Stop()

	runner := &smoke.Runner{
		Launcher: &smoke.PlaywrightLauncher{
			PW:       pw,
			Headless: cfg.Headless,
			Timeout:  cfg.Timeouts.Navigation.Milliseconds(),
		},
		Config:      cfg,
		Credentials: creds,
		Parallelism: opts.parallelism,
		Observer:    element.Observers(element.LogObserver{}, monitor.Metrics()),
		Recorder:    monitor.Metrics(),
	}

	logger.Info("Starting smoke", "run_id", cfg.Monitoring.RunID, "url", cfg.URL(), "browsers", cfg.Browsers)
	for {
		results, err := runner.Run(ctx)
		printResults(out, results)
		if opts.repeatEvery <= 0 {
			return err
		}
		if err != nil {
			logger.Warn("Smoke run failed, will repeat", "err", err)
		}

		select {
		case <-ctx.Done():
			logger.Info("Smoke stopped")
			return nil
		case <-time.After(opts.repeatEvery):
		}
	}
}

func serveMetrics(ln net.Listener, monitor *monitoring.Monitor) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitor.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger := log.WithFunc("main", "serveMetrics")
		logger.Info("Serving metrics", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "err", err)
		}
	}()
	return srv
}

func stopMetrics(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithFunc("main", "stopMetrics").Warn("Unable to stop metrics server", "err", err)
	}
}

func printResults(out io.Writer, results []smoke.Result) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BROWSER\tRESULT\tDURATION\tDETAILS")
	for _, res := range results {
		status, details := "PASS", ""
		if !res.Passed {
			status = "FAIL"
			details = res.Err.Error()
			if res.Screenshot != "" {
				details += " (screenshot: " + res.Screenshot + ")"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.Engine, status, res.Duration.Round(time.Millisecond), details)
	}
	w.Flush()
}
