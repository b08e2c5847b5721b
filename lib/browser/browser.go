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

// Package browser keeps the per-engine differences: launch and context
// options, wait times, selectors and init script workarounds
package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Engine is the browser engine playwright drives
type Engine string

const (
	Chromium Engine = "chromium"
	Firefox  Engine = "firefox"
	WebKit   Engine = "webkit"
)

// Engines lists all the supported engines
var Engines = []Engine{Chromium, Firefox, WebKit}

// ParseEngine converts the browser name to Engine, "safari" is accepted as webkit
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chromium", "chrome":
		return Chromium, nil
	case "firefox":
		return Firefox, nil
	case "webkit", "safari":
		return WebKit, nil
	}
	return "", fmt.Errorf("unknown browser %q", name)
}

// DefaultTimeout for the browser launch
const DefaultTimeout = 60 * time.Second

// ContextOptions returns the browser context options for the engine
func ContextOptions(engine Engine) playwright.BrowserNewContextOptions {
	opts := playwright.BrowserNewContextOptions{
		Viewport:          &playwright.Size{Width: 1280, Height: 720},
		IgnoreHttpsErrors: playwright.Bool(true),
		AcceptDownloads:   playwright.Bool(true),
		BypassCSP:         playwright.Bool(true),
	}
	if engine == WebKit {
		// Touch events are needed to cover Safari behavior
		opts.HasTouch = playwright.Bool(true)
		opts.IsMobile = playwright.Bool(false)
		opts.ColorScheme = playwright.ColorSchemeLight
	}
	return opts
}

// LaunchOptions returns the browser launch options for the engine
func LaunchOptions(engine Engine, headless bool) playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Timeout:  playwright.Float(float64(DefaultTimeout.Milliseconds())),
	}
	switch engine {
	case Chromium:
		opts.Args = []string{"--disable-dev-shm-usage", "--no-sandbox"}
	case Firefox:
		opts.FirefoxUserPrefs = map[string]any{
			"browser.cache.disk.enable":   false,
			"browser.cache.memory.enable": false,
		}
	}
	return opts
}

// WaitTimes are the engine specific pauses used by the pages
type WaitTimes struct {
	Navigation time.Duration
	Animation  time.Duration
	Action     time.Duration
}

// WaitTimesFor returns the wait times for the engine, webkit is the slowest one
func WaitTimesFor(engine Engine) WaitTimes {
	switch engine {
	case WebKit:
		return WaitTimes{Navigation: 8 * time.Second, Animation: 2 * time.Second, Action: 3 * time.Second}
	case Firefox:
		return WaitTimes{Navigation: 6 * time.Second, Animation: 1500 * time.Millisecond, Action: 2500 * time.Millisecond}
	default:
		return WaitTimes{Navigation: 5 * time.Second, Animation: 1 * time.Second, Action: 2 * time.Second}
	}
}

var workarounds = map[Engine]string{
	// Safari shadow DOM handling
	WebKit: "window.safariShadowDomWorkaround = true;",
	// Firefox handling of some of the events
	Firefox: "window.firefoxEventWorkaround = true;",
}

// ScriptAdder is the part of playwright.Page needed to apply workarounds
type ScriptAdder interface {
	AddInitScript(script playwright.Script) error
}

// ApplyWorkarounds registers the engine init script on the page
func ApplyWorkarounds(page ScriptAdder, engine Engine) error {
	script, ok := workarounds[engine]
	if !ok {
		return nil
	}
	if err := page.AddInitScript(playwright.Script{Content: playwright.String(script)}); err != nil {
		return fmt.Errorf("unable to apply %s workaround: %w", engine, err)
	}
	return nil
}

// BrowserType picks the playwright browser type for the engine
func BrowserType(pw *playwright.Playwright, engine Engine) playwright.BrowserType {
	switch engine {
	case Firefox:
		return pw.Firefox
	case WebKit:
		return pw.WebKit
	default:
		return pw.Chromium
	}
}

// Launch starts the browser for the engine
func Launch(pw *playwright.Playwright, engine Engine, headless bool) (playwright.Browser, error) {
	b, err := BrowserType(pw, engine).Launch(LaunchOptions(engine, headless))
	if err != nil {
		return nil, fmt.Errorf("unable to launch %s: %w", engine, err)
	}
	return b, nil
}
