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

package pages

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

const (
	payflowsTitle      = `h1:has-text("Payflows"), .payflows-title, [data-testid="payflows-title"]`
	payflowsCanvas     = `canvas, .canvas, [data-testid="canvas"]`
	payflowsToolbar    = `.toolbar, .tools, [data-testid="toolbar"]`
	payflowsShapes     = `.shape-button, button[title*="shape" i], [data-testid*="shape"]`
	payflowsConnect    = `button:has-text("Connect"), button[title*="connect" i], [data-testid="connect-button"]`
	payflowsStickyNote = `button:has-text("Note"), button[title*="note" i], [data-testid="note-button"]`
	payflowsExport     = `button:has-text("Export"), button[title*="export" i], [data-testid="export-button"]`
	payflowsSave       = `button:has-text("Save"), button[title*="save" i], [data-testid="save-button"]`
	payflowsScenarios  = `.scenarios-list, .list, [data-testid="scenarios-list"]`
	payflowsGherkin    = `.gherkin, .output, [data-testid="gherkin-output"]`
)

// PayflowsPage is the workflow canvas editor. Coordinates are relative to
// the top left corner of the canvas.
type PayflowsPage struct {
	*Base
}

func NewPayflowsPage(b *Base) *PayflowsPage {
	return &PayflowsPage{Base: b}
}

// IsLoaded checks the canvas is on the page
func (p *PayflowsPage) IsLoaded(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, payflowsCanvas)
}

func (p *PayflowsPage) GetTitle(ctx context.Context) (string, error) {
	return p.textIfExists(ctx, payflowsTitle)
}

func (p *PayflowsPage) IsCanvasVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, payflowsCanvas)
}

func (p *PayflowsPage) IsToolbarVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, payflowsToolbar)
}

// ClickShapeButton selects the shape tool by its position in the toolbar
func (p *PayflowsPage) ClickShapeButton(ctx context.Context, i int) error {
	count, err := p.page.Locator(payflowsShapes).Count()
	if err != nil {
		return fmt.Errorf("unable to count shape buttons: %w", err)
	}
	if i < 0 || i >= count {
		return fmt.Errorf("shape button at index %d not found, there are %d", i, count)
	}
	if err := p.el.ClickWithRetry(ctx, nth(payflowsShapes, i)); err != nil {
		return err
	}
	return p.settle(ctx)
}

// ClickCanvas clicks the point of the canvas
func (p *PayflowsPage) ClickCanvas(ctx context.Context, x, y float64) error {
	box, err := p.canvasBox(ctx)
	if err != nil {
		return err
	}
	if err := p.page.Mouse().Click(box.X+x, box.Y+y); err != nil {
		return fmt.Errorf("unable to click canvas: %w", err)
	}
	return p.settle(ctx)
}

// CreateShape places the shape from the toolbar on the canvas
func (p *PayflowsPage) CreateShape(ctx context.Context, shape int, x, y float64) error {
	if err := p.ClickShapeButton(ctx, shape); err != nil {
		return err
	}
	return p.ClickCanvas(ctx, x, y)
}

// ConnectPoints drags the connection from the first point to the second one
func (p *PayflowsPage) ConnectPoints(ctx context.Context, x1, y1, x2, y2 float64) error {
	box, err := p.canvasBox(ctx)
	if err != nil {
		return err
	}
	if err := p.el.ClickWithRetry(ctx, payflowsConnect); err != nil {
		return err
	}

	mouse := p.page.Mouse()
	if err := mouse.Move(box.X+x1, box.Y+y1); err != nil {
		return err
	}
	if err := mouse.Down(); err != nil {
		return err
	}
	if err := mouse.Move(box.X+x2, box.Y+y2); err != nil {
		return err
	}
	if err := mouse.Up(); err != nil {
		return err
	}
	return p.settle(ctx)
}

// AddStickyNote puts the note with text at the point of the canvas
func (p *PayflowsPage) AddStickyNote(ctx context.Context, x, y float64, text string) error {
	if err := p.el.ClickWithRetry(ctx, payflowsStickyNote); err != nil {
		return err
	}
	if err := p.ClickCanvas(ctx, x, y); err != nil {
		return err
	}
	if err := p.page.Keyboard().Type(text); err != nil {
		return fmt.Errorf("unable to type the note: %w", err)
	}
	return p.page.Keyboard().Press("Enter")
}

func (p *PayflowsPage) Export(ctx context.Context) error {
	return p.el.ClickWithRetry(ctx, payflowsExport)
}

func (p *PayflowsPage) Save(ctx context.Context) error {
	return p.el.ClickWithRetry(ctx, payflowsSave)
}

func (p *PayflowsPage) IsScenariosListVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, payflowsScenarios)
}

func (p *PayflowsPage) IsGherkinOutputVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, payflowsGherkin)
}

// GetGherkinOutputText returns the generated gherkin scenarios
func (p *PayflowsPage) GetGherkinOutputText(ctx context.Context) (string, error) {
	return p.textIfExists(ctx, payflowsGherkin)
}

func (p *PayflowsPage) canvasBox(ctx context.Context) (*playwright.Rect, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	box, err := p.page.Locator(payflowsCanvas).First().BoundingBox()
	if err != nil {
		return nil, fmt.Errorf("unable to locate canvas: %w", err)
	}
	if box == nil {
		return nil, fmt.Errorf("canvas: %w", ErrNoBoundingBox)
	}
	return box, nil
}
