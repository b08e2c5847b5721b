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

package smoke

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"

	"github.com/payrollstandard/payroll-e2e/lib/browser"
)

// Launcher opens a fresh page in its own browser for the engine, the closer
// releases everything that was started for it
type Launcher interface {
	NewPage(ctx context.Context, engine browser.Engine) (playwright.Page, io.Closer, error)
}

// PlaywrightLauncher starts real browsers with playwright
type PlaywrightLauncher struct {
	PW       *playwright.Playwright
	Headless bool
	// Default timeout of the page actions
	Timeout float64
}

func (l *PlaywrightLauncher) NewPage(ctx context.Context, engine browser.Engine) (playwright.Page, io.Closer, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	b, err := browser.Launch(l.PW, engine, l.Headless)
	if err != nil {
		return nil, nil, err
	}
	closer := closeFunc(func() error { return b.Close() })

	bctx, err := b.NewContext(browser.ContextOptions(engine))
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("unable to create %s context: %w", engine, err), closer.Close())
	}
	if l.Timeout > 0 {
		bctx.SetDefaultTimeout(l.Timeout)
	}

	page, err := bctx.NewPage()
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("unable to open %s page: %w", engine, err), closer.Close())
	}
	if err := browser.ApplyWorkarounds(page, engine); err != nil {
		return nil, nil, errors.Join(err, closer.Close())
	}
	return page, closer, nil
}

type closeFunc func() error

func (f closeFunc) Close() error {
	return f()
}
