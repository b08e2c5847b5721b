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

package browser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
)

func TestParseEngine(t *testing.T) {
	cases := map[string]Engine{
		"chromium": Chromium,
		"Chrome":   Chromium,
		"firefox":  Firefox,
		" WebKit ": WebKit,
		"safari":   WebKit,
	}
	for in, want := range cases {
		if got, err := ParseEngine(in); err != nil || got != want {
			t.Errorf("ParseEngine(%q) = %q, %v; want: %q", in, got, err, want)
		}
	}
	if _, err := ParseEngine("netscape"); err == nil {
		t.Errorf("Unknown engine should fail")
	}
}

func TestContextOptions(t *testing.T) {
	for _, engine := range Engines {
		opts := ContextOptions(engine)
		if opts.Viewport == nil || opts.Viewport.Width != 1280 || opts.Viewport.Height != 720 {
			t.Errorf("%s: unexpected viewport %+v", engine, opts.Viewport)
		}
		if !*opts.IgnoreHttpsErrors || !*opts.AcceptDownloads || !*opts.BypassCSP {
			t.Errorf("%s: base options are not set", engine)
		}
	}

	webkit := ContextOptions(WebKit)
	if webkit.HasTouch == nil || !*webkit.HasTouch || webkit.IsMobile == nil || *webkit.IsMobile {
		t.Errorf("Webkit should have touch and be non-mobile")
	}
	if webkit.ColorScheme != playwright.ColorSchemeLight {
		t.Errorf("Webkit should use light color scheme")
	}
	if ContextOptions(Chromium).HasTouch != nil {
		t.Errorf("Chromium should not enable touch")
	}
}

func TestLaunchOptions(t *testing.T) {
	chromium := LaunchOptions(Chromium, true)
	if !*chromium.Headless || strings.Join(chromium.Args, " ") != "--disable-dev-shm-usage --no-sandbox" {
		t.Errorf("Unexpected chromium options: %+v", chromium)
	}
	if *chromium.Timeout != 60000 {
		t.Errorf("Unexpected launch timeout: %v", *chromium.Timeout)
	}

	firefox := LaunchOptions(Firefox, false)
	if *firefox.Headless || len(firefox.Args) != 0 {
		t.Errorf("Unexpected firefox options: %+v", firefox)
	}
	if firefox.FirefoxUserPrefs["browser.cache.disk.enable"] != false || firefox.FirefoxUserPrefs["browser.cache.memory.enable"] != false {
		t.Errorf("Firefox cache should be disabled: %v", firefox.FirefoxUserPrefs)
	}

	if webkit := LaunchOptions(WebKit, true); webkit.FirefoxUserPrefs != nil || webkit.Args != nil {
		t.Errorf("Webkit has no extra launch options")
	}
}

func TestWaitTimesFor(t *testing.T) {
	cases := map[Engine]WaitTimes{
		Chromium: {5 * time.Second, time.Second, 2 * time.Second},
		Firefox:  {6 * time.Second, 1500 * time.Millisecond, 2500 * time.Millisecond},
		WebKit:   {8 * time.Second, 2 * time.Second, 3 * time.Second},
	}
	for engine, want := range cases {
		if got := WaitTimesFor(engine); got != want {
			t.Errorf("WaitTimesFor(%s) = %+v; want: %+v", engine, got, want)
		}
	}
}

type fakeScriptAdder struct {
	scripts []string
	err     error
}

func (f *fakeScriptAdder) AddInitScript(script playwright.Script) error {
	f.scripts = append(f.scripts, *script.Content)
	return f.err
}

func TestApplyWorkarounds(t *testing.T) {
	page := &fakeScriptAdder{}
	if err := ApplyWorkarounds(page, Chromium); err != nil || len(page.scripts) != 0 {
		t.Fatalf("Chromium needs no workarounds: %v %v", page.scripts, err)
	}
	if err := ApplyWorkarounds(page, WebKit); err != nil || !strings.Contains(page.scripts[0], "safariShadowDomWorkaround") {
		t.Fatalf("Webkit workaround not applied: %v %v", page.scripts, err)
	}
	if err := ApplyWorkarounds(page, Firefox); err != nil || !strings.Contains(page.scripts[1], "firefoxEventWorkaround") {
		t.Fatalf("Firefox workaround not applied: %v %v", page.scripts, err)
	}

	failing := &fakeScriptAdder{err: errors.New("page closed")}
	if err := ApplyWorkarounds(failing, WebKit); err == nil {
		t.Fatalf("Error should be returned")
	}
}
