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

// Package smoke runs the login scenario against the deployed application in
// all the configured browsers
package smoke

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/payrollstandard/payroll-e2e/lib/browser"
	"github.com/payrollstandard/payroll-e2e/lib/config"
	"github.com/payrollstandard/payroll-e2e/lib/debug"
	"github.com/payrollstandard/payroll-e2e/lib/element"
	"github.com/payrollstandard/payroll-e2e/lib/fixtures"
	"github.com/payrollstandard/payroll-e2e/lib/log"
	"github.com/payrollstandard/payroll-e2e/lib/pages"
)

// DashboardURL is the glob of the page opened after successful login
const DashboardURL = "**/dashboard"

// ErrDashboardNotLoaded is returned when login redirected but no dashboard is shown
var ErrDashboardNotLoaded = errors.New("dashboard is not loaded")

// Recorder receives the result of every scenario run
type Recorder interface {
	SmokeRun(ctx context.Context, browser string, passed bool)
}

// Result of the scenario in one browser
type Result struct {
	Engine     browser.Engine
	Passed     bool
	Duration   time.Duration
	Err        error
	Screenshot string
}

// Runner executes the scenario in parallel, one browser per engine
type Runner struct {
	Launcher    Launcher
	Config      *config.Config
	Credentials fixtures.Credentials

	// Number of browsers running at once, 0 runs all the engines together
	Parallelism int

	// Optional hooks
	Observer element.Observer
	Recorder Recorder
}

// Run executes the scenario for every configured engine. Results are in the
// order of the engines, the error joins the failures of all of them.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	engines, err := r.Config.Engines()
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(engines))
	var g errgroup.Group
	if r.Parallelism > 0 {
		g.SetLimit(r.Parallelism)
	}
	for i, engine := range engines {
		g.Go(func() error {
			results[i] = r.runEngine(ctx, engine)
			return nil
		})
	}
	// Workers never fail the group, the failures are in results
	_ = g.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Engine, res.Err))
		}
	}
	return results, errors.Join(errs...)
}

func (r *Runner) runEngine(ctx context.Context, engine browser.Engine) (res Result) {
	logger := log.WithFunc("smoke", "runEngine").With("browser", engine)
	res.Engine = engine
	started := time.Now()
	defer func() {
		res.Duration = time.Since(started)
		res.Passed = res.Err == nil
		if r.Recorder != nil {
			r.Recorder.SmokeRun(ctx, string(engine), res.Passed)
		}
		if res.Passed {
			logger.InfoContext(ctx, "Smoke passed", "duration", res.Duration)
		} else {
			logger.ErrorContext(ctx, "Smoke failed", "duration", res.Duration, "err", res.Err)
		}
	}()

	page, closer, err := r.Launcher.NewPage(ctx, engine)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.WarnContext(ctx, "Unable to close browser", "err", err)
		}
	}()

	waits := browser.WaitTimesFor(engine)
	base := pages.NewBase(page, r.Config.URL(),
		pages.WithEngine(engine),
		pages.WithScreenshotDir(r.Config.Screenshots.Path),
		pages.WithNavigationTimeout(max(r.Config.Timeouts.Navigation.Std(), waits.Navigation)),
		pages.WithAnimationDelay(max(r.Config.Timeouts.Animation.Std(), waits.Animation)),
		pages.WithActionTimeout(max(r.Config.Timeouts.Element.Std(), waits.Action)),
		pages.WithAccessorOptions(
			element.WithDefaultPolicy(r.Config.Policy()),
			element.WithObserver(r.Observer),
		),
	)

	if res.Err = r.scenario(ctx, base); res.Err != nil && r.Config.Screenshots.TakeOnFailure {
		res.Screenshot = r.capture(ctx, base, engine)
	}
	return res
}

// scenario logs in and checks the dashboard is shown
func (r *Runner) scenario(ctx context.Context, base *pages.Base) error {
	login := pages.NewLoginPage(base)
	if err := login.NavigateToLogin(ctx); err != nil {
		return err
	}
	if err := login.Login(ctx, r.Credentials.Username, r.Credentials.Password); err != nil {
		return err
	}
	if err := base.WaitForURL(ctx, DashboardURL); err != nil {
		return err
	}

	dashboard := pages.NewDashboardPage(base)
	if err := dashboard.WaitUntilLoaded(ctx, r.Config.Timeouts.Element.Std()); err != nil {
		return fmt.Errorf("%w: %w", ErrDashboardNotLoaded, err)
	}
	return nil
}

// capture stores the failure state of the page, it never fails the run
func (r *Runner) capture(ctx context.Context, base *pages.Base, engine browser.Engine) string {
	logger := log.WithFunc("smoke", "capture")
	// Html logs are placed next to the screenshots dir
	h := debug.New(base.Page(), filepath.Dir(r.Config.Screenshots.Path))
	if err := h.LogPageInfo(ctx); err != nil {
		logger.WarnContext(ctx, "Unable to get page info", "err", err)
	}
	if _, err := h.LogPageHTML("smoke-" + string(engine)); err != nil {
		logger.WarnContext(ctx, "Unable to dump page html", "err", err)
	}
	path, err := base.TakeScreenshot(fmt.Sprintf("smoke-%s-failure", engine))
	if err != nil {
		logger.WarnContext(ctx, "Unable to take screenshot", "err", err)
		return ""
	}
	return path
}
