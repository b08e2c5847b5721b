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

// Package debug captures the page state to investigate failed runs
package debug

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/payrollstandard/payroll-e2e/lib/element"
	"github.com/payrollstandard/payroll-e2e/lib/log"
)

const (
	screenshotsDir = "screenshots"
	htmlLogsDir    = "html_logs"

	// ISO-8601 in UTC, ':' and '.' are replaced to be safe for file names
	stampFormat = "2006-01-02T15:04:05.000Z"
)

var stampReplacer = strings.NewReplacer(":", "-", ".", "-")

func stamp(t time.Time) string {
	return stampReplacer.Replace(t.UTC().Format(stampFormat))
}

// Helper writes screenshots and html dumps of the page to the capture dir
type Helper struct {
	page playwright.Page
	el   *element.Accessor
	dir  string

	now func() time.Time
}

// New creates Helper, the captures go to <dir>/screenshots and <dir>/html_logs
func New(page playwright.Page, dir string) *Helper {
	return &Helper{
		page: page,
		el:   element.New(element.FromPlaywright(page)),
		dir:  dir,
		now:  time.Now,
	}
}

func (h *Helper) stamped(sub, name, ext string) (string, error) {
	dir := filepath.Join(h.dir, sub)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("unable to create %s: %w", dir, err)
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.%s", name, stamp(h.now()), ext)), nil
}

// TakeScreenshot stores the full page image and returns its path
func (h *Helper) TakeScreenshot(name string) (string, error) {
	path, err := h.stamped(screenshotsDir, name, "png")
	if err != nil {
		return "", err
	}
	_, err = h.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("unable to take screenshot: %w", err)
	}
	log.WithFunc("debug", "TakeScreenshot").Info("Screenshot saved", "path", path)
	return path, nil
}

// LogPageHTML dumps the current page markup and returns the file path
func (h *Helper) LogPageHTML(name string) (string, error) {
	html, err := h.page.Content()
	if err != nil {
		return "", fmt.Errorf("unable to get page content: %w", err)
	}
	path, err := h.stamped(htmlLogsDir, name, "html")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(html), 0o640); err != nil {
		return "", fmt.Errorf("unable to write html log: %w", err)
	}
	log.WithFunc("debug", "LogPageHTML").Info("HTML logged", "path", path)
	return path, nil
}

// LogPageInfo logs url and title of the page
func (h *Helper) LogPageInfo(ctx context.Context) error {
	title, err := h.page.Title()
	if err != nil {
		return fmt.Errorf("unable to get page title: %w", err)
	}
	log.WithFunc("debug", "LogPageInfo").InfoContext(ctx, "Current page", "url", h.page.URL(), "title", title)
	return nil
}

// CheckElementExists reports and logs if the selector matches anything
func (h *Helper) CheckElementExists(ctx context.Context, selector string) (bool, error) {
	ok, err := h.el.Exists(ctx, selector)
	if err != nil {
		return false, err
	}
	log.WithFunc("debug", "CheckElementExists").InfoContext(ctx, "Element check", "selector", selector, "exists", ok)
	return ok, nil
}
