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
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/payrollstandard/payroll-e2e/lib/element"
)

// node is one matched element of the fake DOM
type node struct {
	text   string
	attrs  map[string]string
	box    *playwright.Rect
	hidden bool
}

// fakePage implements only the part of playwright.Page used by the pages
type fakePage struct {
	playwright.Page

	mu       sync.Mutex
	nodes    map[string][]*node
	title    string
	url      string
	gotoErr  error
	visited  []string
	loads    int
	clicks   []string
	fills    map[string]string
	mouse    []string
	keys     []string
	shotPath string

	// onClick lets the fake UI react to the clicks
	onClick func(selector string)
}

func newFakePage(nodes map[string][]*node) *fakePage {
	if nodes == nil {
		nodes = map[string][]*node{}
	}
	return &fakePage{nodes: nodes, fills: map[string]string{}, title: "Payroll Standard"}
}

// update changes the fake DOM while the page objects may be reading it
func (p *fakePage) update(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}

func (p *fakePage) record(dst *[]string, v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	*dst = append(*dst, v)
}

func (p *fakePage) Locator(selector string, _ ...playwright.PageLocatorOptions) playwright.Locator {
	return &fakeLocator{page: p, selector: selector}
}

func (p *fakePage) Goto(url string, _ ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.record(&p.visited, url)
	if p.gotoErr != nil {
		return nil, p.gotoErr
	}
	p.url = url
	return nil, nil
}

func (p *fakePage) WaitForLoadState(_ ...playwright.PageWaitForLoadStateOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loads++
	return nil
}

func (p *fakePage) WaitForURL(url interface{}, _ ...playwright.PageWaitForURLOptions) error {
	if fmt.Sprint(url) != p.url {
		return fmt.Errorf("%w: waiting for url %v", playwright.ErrTimeout, url)
	}
	return nil
}

func (p *fakePage) URL() string {
	return p.url
}

func (p *fakePage) Title() (string, error) {
	return p.title, nil
}

func (p *fakePage) Content() (string, error) {
	return "<html><body>" + p.title + "</body></html>", nil
}

func (p *fakePage) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	if len(options) > 0 && options[0].Path != nil {
		p.shotPath = *options[0].Path
	}
	return []byte("png"), nil
}

func (p *fakePage) Mouse() playwright.Mouse {
	return &fakeMouse{page: p}
}

func (p *fakePage) Keyboard() playwright.Keyboard {
	return &fakeKeyboard{page: p}
}

type fakeMouse struct {
	playwright.Mouse
	page *fakePage
}

func (m *fakeMouse) Click(x, y float64, _ ...playwright.MouseClickOptions) error {
	m.page.record(&m.page.mouse, fmt.Sprintf("click %v,%v", x, y))
	return nil
}

func (m *fakeMouse) Move(x, y float64, _ ...playwright.MouseMoveOptions) error {
	m.page.record(&m.page.mouse, fmt.Sprintf("move %v,%v", x, y))
	return nil
}

func (m *fakeMouse) Down(_ ...playwright.MouseDownOptions) error {
	m.page.record(&m.page.mouse, "down")
	return nil
}

func (m *fakeMouse) Up(_ ...playwright.MouseUpOptions) error {
	m.page.record(&m.page.mouse, "up")
	return nil
}

type fakeKeyboard struct {
	playwright.Keyboard
	page *fakePage
}

func (k *fakeKeyboard) Type(text string, _ ...playwright.KeyboardTypeOptions) error {
	k.page.record(&k.page.keys, "type "+text)
	return nil
}

func (k *fakeKeyboard) Press(key string, _ ...playwright.KeyboardPressOptions) error {
	k.page.record(&k.page.keys, "press "+key)
	return nil
}

// Embedded through the alias, the field named Locator would hide the method
type playwrightLocator = playwright.Locator

var _ playwright.Locator = (*fakeLocator)(nil)

type fakeLocator struct {
	playwrightLocator

	page     *fakePage
	selector string
	index    int
}

func (l *fakeLocator) node() *node {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	nodes := l.page.nodes[l.selector]
	if l.index < len(nodes) {
		return nodes[l.index]
	}
	return nil
}

func (l *fakeLocator) notFound() error {
	return fmt.Errorf("%w: locator(%q) not found", playwright.ErrTimeout, l.selector)
}

func (l *fakeLocator) visible() bool {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	nodes := l.page.nodes[l.selector]
	return l.index < len(nodes) && !nodes[l.index].hidden
}

// WaitFor polls the fake DOM until the timeout like the real locator does
func (l *fakeLocator) WaitFor(options ...playwright.LocatorWaitForOptions) error {
	var timeout time.Duration
	if len(options) > 0 && options[0].Timeout != nil {
		timeout = time.Duration(*options[0].Timeout) * time.Millisecond
	}
	deadline := time.Now().Add(timeout)
	for !l.visible() {
		if time.Now().After(deadline) {
			return l.notFound()
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

func (l *fakeLocator) Click(_ ...playwright.LocatorClickOptions) error {
	if l.node() == nil {
		return l.notFound()
	}
	l.page.record(&l.page.clicks, l.selector)
	if l.page.onClick != nil {
		l.page.onClick(l.selector)
	}
	return nil
}

func (l *fakeLocator) Fill(value string, _ ...playwright.LocatorFillOptions) error {
	if l.node() == nil {
		return l.notFound()
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	l.page.fills[l.selector] = value
	return nil
}

func (l *fakeLocator) InnerText(_ ...playwright.LocatorInnerTextOptions) (string, error) {
	n := l.node()
	if n == nil {
		return "", l.notFound()
	}
	return n.text, nil
}

func (l *fakeLocator) TextContent(_ ...playwright.LocatorTextContentOptions) (string, error) {
	return l.InnerText()
}

func (l *fakeLocator) GetAttribute(name string, _ ...playwright.LocatorGetAttributeOptions) (string, error) {
	n := l.node()
	if n == nil {
		return "", l.notFound()
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	return n.attrs[name], nil
}

func (l *fakeLocator) IsVisible(_ ...playwright.LocatorIsVisibleOptions) (bool, error) {
	n := l.node()
	return n != nil && !n.hidden, nil
}

func (l *fakeLocator) BoundingBox(_ ...playwright.LocatorBoundingBoxOptions) (*playwright.Rect, error) {
	n := l.node()
	if n == nil {
		return nil, l.notFound()
	}
	return n.box, nil
}

func (l *fakeLocator) Count() (int, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	return len(l.page.nodes[l.selector]), nil
}

func (l *fakeLocator) Nth(i int) playwright.Locator {
	return &fakeLocator{page: l.page, selector: l.selector, index: i}
}

func (l *fakeLocator) First() playwright.Locator {
	return l.Nth(0)
}

func (l *fakeLocator) All() ([]playwright.Locator, error) {
	count, _ := l.Count()
	out := make([]playwright.Locator, count)
	for i := range out {
		out[i] = l.Nth(i)
	}
	return out, nil
}

// newTestBase creates the page objects base with fast retry policy
func newTestBase(t *testing.T, page *fakePage, opts ...Option) *Base {
	t.Helper()
	policy := element.RetryPolicy{
		TimeoutPerAttempt: 20 * time.Millisecond,
		MaxAttempts:       2,
		InterAttemptDelay: time.Millisecond,
	}
	opts = append([]Option{
		WithScreenshotDir(t.TempDir()),
		WithAccessorOptions(element.WithDefaultPolicy(policy)),
	}, opts...)
	return NewBase(page, "https://app.test/", opts...)
}

func texts(values ...string) []*node {
	out := make([]*node, len(values))
	for i, v := range values {
		out[i] = &node{text: v}
	}
	return out
}
