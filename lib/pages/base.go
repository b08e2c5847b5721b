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

// Package pages contains page objects of the Payroll Standard web application
package pages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/payrollstandard/payroll-e2e/lib/browser"
	"github.com/payrollstandard/payroll-e2e/lib/element"
	"github.com/payrollstandard/payroll-e2e/lib/log"
)

const (
	// DefaultNavigationTimeout is used for the page loads and url waits
	DefaultNavigationTimeout = 30 * time.Second
	// DefaultActionTimeout is how long the UI gets to react to an action
	DefaultActionTimeout = 5 * time.Second

	attributePollInterval = 100 * time.Millisecond
)

// ErrNoBoundingBox is returned when the element is not rendered on the page
var ErrNoBoundingBox = errors.New("element has no bounding box")

// Base holds the page and the things common for all the page objects
type Base struct {
	page          playwright.Page
	el            *element.Accessor
	baseURL       string
	screenshotDir string
	navTimeout    time.Duration
	actionTimeout time.Duration
	animation     time.Duration
	engine        browser.Engine
	selectors     browser.Selectors
	resolved      map[string]string

	accessorOpts []element.Option
}

// Option configures the Base
type Option func(*Base)

// WithScreenshotDir sets where TakeScreenshot puts the images
func WithScreenshotDir(dir string) Option {
	return func(b *Base) { b.screenshotDir = dir }
}

// WithNavigationTimeout overrides DefaultNavigationTimeout
func WithNavigationTimeout(d time.Duration) Option {
	return func(b *Base) { b.navTimeout = d }
}

// WithActionTimeout overrides DefaultActionTimeout
func WithActionTimeout(d time.Duration) Option {
	return func(b *Base) { b.actionTimeout = d }
}

// WithAnimationDelay sets the pause given to the UI animations after the
// canvas actions
func WithAnimationDelay(d time.Duration) Option {
	return func(b *Base) { b.animation = d }
}

// WithEngine selects the engine specific selectors
func WithEngine(engine browser.Engine) Option {
	return func(b *Base) { b.engine = engine }
}

// WithSelectors replaces the built-in selectors table
func WithSelectors(s browser.Selectors) Option {
	return func(b *Base) { b.selectors = s }
}

// WithAccessorOptions passes the options to the element accessor
func WithAccessorOptions(opts ...element.Option) Option {
	return func(b *Base) { b.accessorOpts = append(b.accessorOpts, opts...) }
}

// NewBase binds the page to the application url
func NewBase(page playwright.Page, baseURL string, opts ...Option) *Base {
	b := &Base{
		page:          page,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		screenshotDir: filepath.Join("reports", "screenshots"),
		navTimeout:    DefaultNavigationTimeout,
		actionTimeout: DefaultActionTimeout,
		engine:        browser.Chromium,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.selectors == nil {
		b.selectors = browser.DefaultSelectors()
	}
	b.resolved = b.selectors.For(b.engine)
	b.el = element.New(element.FromPlaywright(page), b.accessorOpts...)
	return b
}

// Page returns the underlying playwright page
func (b *Base) Page() playwright.Page {
	return b.page
}

// Accessor returns the retrying element accessor of the page
func (b *Base) Accessor() *element.Accessor {
	return b.el
}

// Engine returns the browser engine the page is running in
func (b *Base) Engine() browser.Engine {
	return b.engine
}

// URL joins the path with the application base url
func (b *Base) URL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b.baseURL + path
}

// Navigate opens the path of the application
func (b *Base) Navigate(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	url := b.URL(path)
	log.WithFunc("pages", "Navigate").DebugContext(ctx, "Opening page", "url", url)
	if _, err := b.page.Goto(url, playwright.PageGotoOptions{Timeout: b.timeoutMs()}); err != nil {
		return fmt.Errorf("unable to navigate to %s: %w", url, err)
	}
	return nil
}

// WaitForPageLoad waits for the network to become idle
func (b *Base) WaitForPageLoad(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: b.timeoutMs(),
	})
	if err != nil {
		return fmt.Errorf("page load wait failed: %w", err)
	}
	return nil
}

// WaitForURL waits until the page url matches the glob pattern
func (b *Base) WaitForURL(ctx context.Context, pattern string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.page.WaitForURL(pattern, playwright.PageWaitForURLOptions{Timeout: b.timeoutMs()}); err != nil {
		return fmt.Errorf("url %q was not reached: %w", pattern, err)
	}
	return nil
}

// Title returns the page title
func (b *Base) Title() (string, error) {
	return b.page.Title()
}

// IsVisible checks the first match of selector is visible right now
func (b *Base) IsVisible(selector string) (bool, error) {
	return b.page.Locator(selector).First().IsVisible()
}

// WaitForElement waits for the element to become visible
func (b *Base) WaitForElement(ctx context.Context, selector string, timeout time.Duration) error {
	_, err := b.el.WaitVisible(ctx, selector, timeout)
	return err
}

// Click the element with retry
func (b *Base) Click(ctx context.Context, selector string) error {
	return b.el.ClickWithRetry(ctx, selector)
}

// Fill the input with retry
func (b *Base) Fill(ctx context.Context, selector, value string) error {
	return b.el.FillWithRetry(ctx, selector, value)
}

// GetText reads the rendered text with retry
func (b *Base) GetText(ctx context.Context, selector string) (string, error) {
	return b.el.GetTextWithRetry(ctx, selector)
}

// TakeScreenshot stores the page image as <name>.png and returns the path
func (b *Base) TakeScreenshot(name string) (string, error) {
	if err := os.MkdirAll(b.screenshotDir, 0o750); err != nil {
		return "", fmt.Errorf("unable to create screenshot dir: %w", err)
	}
	path := filepath.Join(b.screenshotDir, name+".png")
	if _, err := b.page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path)}); err != nil {
		return "", fmt.Errorf("unable to take screenshot %q: %w", name, err)
	}
	return path, nil
}

// textIfExists returns the element text or empty string if nothing matches
func (b *Base) textIfExists(ctx context.Context, selector string) (string, error) {
	ok, err := b.el.Exists(ctx, selector)
	if err != nil || !ok {
		return "", err
	}
	return b.el.GetTextWithRetry(ctx, selector)
}

// linkTexts collects trimmed non-empty text of every match
func (b *Base) linkTexts(selector string) ([]string, error) {
	loc := b.page.Locator(selector)
	count, err := loc.Count()
	if err != nil {
		return nil, err
	}
	var out []string
	for i := 0; i < count; i++ {
		text, err := loc.Nth(i).TextContent()
		if err != nil {
			return nil, fmt.Errorf("unable to read %q #%d: %w", selector, i, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, text)
		}
	}
	return out, nil
}

// isShown waits up to the action timeout for the element to become visible,
// not showing up in time is a valid answer
func (b *Base) isShown(ctx context.Context, selector string) (bool, error) {
	_, err := b.el.WaitVisible(ctx, selector, b.actionTimeout)
	var notVisible *element.ElementNotVisibleError
	if errors.As(err, &notVisible) {
		return false, nil
	}
	return err == nil, err
}

// waitAttribute polls the attribute of the first match until it has the wanted
// value or the action timeout passes. The last seen value is returned.
func (b *Base) waitAttribute(ctx context.Context, selector, name, want string) (string, error) {
	loc := b.page.Locator(selector).First()
	timeout := time.NewTimer(b.actionTimeout)
	defer timeout.Stop()
	poll := time.NewTicker(attributePollInterval)
	defer poll.Stop()

	for {
		value, err := loc.GetAttribute(name)
		if err != nil {
			return "", fmt.Errorf("unable to read %s of %q: %w", name, selector, err)
		}
		if value == want {
			return value, nil
		}
		select {
		case <-ctx.Done():
			return value, ctx.Err()
		case <-timeout.C:
			return value, nil
		case <-poll.C:
		}
	}
}

// clickAndWait is the common navigation step of the pages
func (b *Base) clickAndWait(ctx context.Context, selector, what string) error {
	if err := b.el.ClickWithRetry(ctx, selector); err != nil {
		return fmt.Errorf("unable to open %s: %w", what, err)
	}
	return b.WaitForPageLoad(ctx)
}

// selector returns the engine specific selector from the table or the fallback
func (b *Base) selector(name, fallback string) string {
	if s := b.resolved[name]; s != "" {
		return s
	}
	return fallback
}

// settle waits for the animation delay or the context to be done
func (b *Base) settle(ctx context.Context) error {
	if b.animation <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(b.animation)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (b *Base) timeoutMs() *float64 {
	return playwright.Float(float64(b.navTimeout.Milliseconds()))
}
