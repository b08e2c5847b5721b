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

// Package helper runs playwright WebUI tests against the deployed payroll application
package helper

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	"github.com/payrollstandard/payroll-e2e/lib/browser"
	"github.com/payrollstandard/payroll-e2e/lib/config"
	"github.com/payrollstandard/payroll-e2e/lib/pages"
	"github.com/payrollstandard/payroll-e2e/lib/util"
)

const (
	// EnableEnv needs to be set to 1 to run the suites, they hit the real application
	EnableEnv = "PAYROLL_E2E"
	// WorkspaceEnv points to the dir where the captures are stored
	WorkspaceEnv = "PAYROLL_E2E_WORKSPACE"

	defaultWorkspace = "reports"
)

// Session keeps state of the browser running for particular test
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	Config *config.Config
	Engine browser.Engine
	RunID  string

	tb         testing.TB
	captureDir string

	// Automatic tests screenshoting
	stepMu sync.Mutex
	step   int
}

// SkipUnlessEnabled skips the test when the suite was not requested explicitly
func SkipUnlessEnabled(tb testing.TB) {
	tb.Helper()
	if os.Getenv(EnableEnv) != "1" {
		tb.Skipf("Set %s=1 to run the browser suites", EnableEnv)
	}
}

// Workspace returns the dir for the captures, it outlives the test so the
// captures of the failed tests could be checked
func Workspace() string {
	if dir := os.Getenv(WorkspaceEnv); dir != "" {
		return dir
	}
	return defaultWorkspace
}

// NewSession starts playwright, one browser of the BROWSER engine and a page in
// a fresh context. Captures are stored in the workspace and kept if test fails.
func NewSession(tb testing.TB, workspace string) (*Session, playwright.Page) {
	tb.Helper()

	cfg := config.Default()
	require.NoError(tb, cfg.ReadConfigFile(os.Getenv("PAYROLL_E2E_CONFIG")))
	cfg.ApplyEnv()
	require.NoError(tb, cfg.Validate())
	engines, err := cfg.Engines()
	require.NoError(tb, err)

	s := &Session{
		Config: cfg,
		// Suites run one engine at a time, the first one of the list is used
		Engine: engines[0],
		RunID:  uuid.NewString(),
		tb:     tb,
	}
	s.captureDir = filepath.Join(workspace, "playwright", util.FormatDate(time.Now(), ""), s.RunID)

	s.pw, err = playwright.Run()
	require.NoError(tb, err, "Could not start Playwright")

	s.browser, err = browser.Launch(s.pw, s.Engine, cfg.Headless)
	require.NoError(tb, err)

	tb.Cleanup(func() {
		if err := s.browser.Close(); err != nil {
			tb.Errorf("Could not close browser: %v", err)
		}
		if err := s.pw.Stop(); err != nil {
			tb.Errorf("Could not stop Playwright: %v", err)
		}
		s.Cleanup(tb)
	})

	s.newBrowserContext(tb)
	s.page, err = s.context.NewPage()
	require.NoError(tb, err, "Could not create page")
	require.NoError(tb, browser.ApplyWorkarounds(s.page, s.Engine))

	tb.Logf("Started %s session %s against %s", s.Engine, s.RunID, cfg.URL())
	return s, s.page
}

// Base creates the page object base configured for the session engine
func (s *Session) Base() *pages.Base {
	wait := browser.WaitTimesFor(s.Engine)
	return pages.NewBase(s.page, s.Config.URL(),
		pages.WithEngine(s.Engine),
		pages.WithScreenshotDir(s.CaptureDir("screenshots")),
		pages.WithNavigationTimeout(max(s.Config.Timeouts.Navigation.Std(), wait.Navigation)),
		pages.WithAnimationDelay(max(s.Config.Timeouts.Animation.Std(), wait.Animation)),
		pages.WithActionTimeout(max(s.Config.Timeouts.Element.Std(), wait.Action)),
	)
}

// Context returns context limited by the navigation timeout of the config
func (s *Session) Context(tb testing.TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 4*s.Config.Timeouts.Navigation.Std())
	tb.Cleanup(cancel)
	return ctx
}

// Run executes subtest with screenshots taken at the start and at the end
func (s *Session) Run(t *testing.T, name string, fn func(t *testing.T)) {
	t.Helper()

	t.Run(name, func(t *testing.T) {
		s.Screenshot(t, "start")
		defer s.Screenshot(t, "end")

		fn(t)
	})
}

// Screenshot takes a screenshot with automatic naming
func (s *Session) Screenshot(t testing.TB, phase string) {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	s.step++
	filename := fmt.Sprintf("%02d-%s-%s.png", s.step, path.Base(t.Name()), phase)

	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(s.CaptureDir("screenshots", filename)),
	}); err != nil {
		t.Logf("WARNING: Could not take screenshot %s: %v", filename, err)
	}
}

// CaptureDir returns path where to store the test data, parent dir is created
func (s *Session) CaptureDir(parts ...string) string {
	out := filepath.Join(append([]string{s.captureDir}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		s.tb.Errorf("Could not create capture dir for %s: %v", out, err)
	}
	return out
}

// Cleanup removes the captures unless the test failed
func (s *Session) Cleanup(tb testing.TB) {
	tb.Helper()
	if tb.Failed() {
		tb.Log("Keeping captures for checking:", s.captureDir)
		return
	}
	if err := os.RemoveAll(s.captureDir); err != nil {
		tb.Logf("WARNING: Could not remove captures %s: %v", s.captureDir, err)
	}
}

func (s *Session) newBrowserContext(tb testing.TB) {
	tb.Helper()

	options := browser.ContextOptions(s.Engine)
	options.RecordVideo = &playwright.RecordVideo{
		Dir: s.CaptureDir("video"),
	}

	var err error
	s.context, err = s.browser.NewContext(options)
	require.NoError(tb, err, "Could not create new context")
	s.context.SetDefaultTimeout(s.Config.Timeouts.Element.Milliseconds())
	s.context.SetDefaultNavigationTimeout(s.Config.Timeouts.Navigation.Milliseconds())

	tb.Cleanup(func() {
		if err := s.context.Close(); err != nil {
			tb.Errorf("Could not close context: %v", err)
		}
	})
}

