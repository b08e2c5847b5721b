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

package element

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// FromPlaywright adapts playwright page to the Page used by the Accessor
func FromPlaywright(page playwright.Page) Page {
	return &pwPage{page: page}
}

type pwPage struct {
	page playwright.Page
}

func (p *pwPage) Locator(selector string) Locator {
	return &pwLocator{loc: p.page.Locator(selector)}
}

type pwLocator struct {
	loc playwright.Locator
}

func (l *pwLocator) WaitFor(state State, timeout time.Duration) error {
	// Zero means "no timeout" for playwright, so keep at least 1ms
	ms := max(timeout.Milliseconds(), 1)
	err := l.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   waitState(state),
		Timeout: playwright.Float(float64(ms)),
	})
	return translate(err)
}

func (l *pwLocator) Click() error {
	return translate(l.loc.Click())
}

func (l *pwLocator) Fill(value string) error {
	return translate(l.loc.Fill(value))
}

func (l *pwLocator) InnerText() (string, error) {
	text, err := l.loc.InnerText()
	return text, translate(err)
}

func (l *pwLocator) Count() (int, error) {
	return l.loc.Count()
}

func waitState(state State) *playwright.WaitForSelectorState {
	switch state {
	case StateHidden:
		return playwright.WaitForSelectorStateHidden
	case StateAttached:
		return playwright.WaitForSelectorStateAttached
	case StateDetached:
		return playwright.WaitForSelectorStateDetached
	default:
		return playwright.WaitForSelectorStateVisible
	}
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %w", ErrWaitTimeout, err)
	}
	return err
}
