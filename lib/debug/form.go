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

package debug

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/payrollstandard/payroll-e2e/lib/log"
)

// Input describes the form input found on the page
type Input struct {
	Type        string
	Name        string
	ID          string
	Placeholder string
}

// Button describes the button found on the page
type Button struct {
	Text string
	Type string
	ID   string
}

// Form lists the inputs and buttons of the page
type Form struct {
	Inputs  []Input
	Buttons []Button
}

// FormElements collects the attributes of all inputs and buttons, missing
// values are replaced with placeholders like "no-id"
func (h *Helper) FormElements(ctx context.Context) (Form, error) {
	var form Form

	inputs := h.page.Locator("input")
	count, err := inputs.Count()
	if err != nil {
		return form, fmt.Errorf("unable to count inputs: %w", err)
	}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return form, err
		}
		in := inputs.Nth(i)
		form.Inputs = append(form.Inputs, Input{
			Type:        attrOr(in, "type", "unknown"),
			Name:        attrOr(in, "name", "unnamed"),
			ID:          attrOr(in, "id", "no-id"),
			Placeholder: attrOr(in, "placeholder", "no-placeholder"),
		})
	}

	buttons := h.page.Locator("button")
	if count, err = buttons.Count(); err != nil {
		return form, fmt.Errorf("unable to count buttons: %w", err)
	}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return form, err
		}
		btn := buttons.Nth(i)
		text, err := btn.TextContent()
		if text = strings.TrimSpace(text); err != nil || text == "" {
			text = "no-text"
		}
		form.Buttons = append(form.Buttons, Button{
			Text: text,
			Type: attrOr(btn, "type", "unknown"),
			ID:   attrOr(btn, "id", "no-id"),
		})
	}

	return form, nil
}

// LogFormElements writes every input and button of the page to the log
func (h *Helper) LogFormElements(ctx context.Context) error {
	form, err := h.FormElements(ctx)
	if err != nil {
		return err
	}

	logger := log.WithFunc("debug", "LogFormElements")
	logger.InfoContext(ctx, "Found input elements", "count", len(form.Inputs))
	for i, in := range form.Inputs {
		logger.InfoContext(ctx, "Input", "index", i, "type", in.Type, "name", in.Name, "id", in.ID, "placeholder", in.Placeholder)
	}
	logger.InfoContext(ctx, "Found button elements", "count", len(form.Buttons))
	for i, btn := range form.Buttons {
		logger.InfoContext(ctx, "Button", "index", i, "text", btn.Text, "type", btn.Type, "id", btn.ID)
	}
	return nil
}

// attrOr returns the attribute value or the fallback when it's empty
func attrOr(loc playwright.Locator, name, fallback string) string {
	v, err := loc.GetAttribute(name)
	if err != nil || v == "" {
		return fallback
	}
	return v
}
