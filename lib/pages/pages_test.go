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
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/payrollstandard/payroll-e2e/lib/browser"
	"github.com/payrollstandard/payroll-e2e/lib/element"
)

func TestLoginPage(t *testing.T) {
	page := newFakePage(map[string][]*node{
		"#username-email":           {{}},
		"#password":                 {{attrs: map[string]string{"type": "password"}}},
		`button:has-text("Log in")`: {{}},
		loginEyeIcon:                {{}},
		loginSignUp:                 {{}},
		loginError:                  texts("Invalid credentials"),
	})
	p := NewLoginPage(newTestBase(t, page))
	ctx := context.Background()

	if err := p.NavigateToLogin(ctx); err != nil {
		t.Fatalf("Unable to open login: %v", err)
	}
	if page.url != "https://app.test/login" || page.loads != 1 {
		t.Fatalf("Login page was not loaded: %q %d", page.url, page.loads)
	}

	if err := p.Login(ctx, "admin@example.com", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if page.fills["#username-email"] != "admin@example.com" || page.fills["#password"] != "secret" {
		t.Fatalf("Credentials are not filled: %v", page.fills)
	}
	if len(page.clicks) != 1 || page.clicks[0] != `button:has-text("Log in")` {
		t.Fatalf("Login button is not clicked: %v", page.clicks)
	}

	if visible, err := p.IsPasswordVisible(); err != nil || visible {
		t.Fatalf("Password should be hidden: %v", err)
	}
	if err := p.TogglePasswordVisibility(ctx); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	page.nodes["#password"][0].attrs["type"] = "text"
	if visible, _ := p.IsPasswordVisible(); !visible {
		t.Fatalf("Password should be visible")
	}

	if msg, err := p.GetErrorMessage(ctx); err != nil || msg != "Invalid credentials" {
		t.Fatalf("Unexpected error message: %q %v", msg, err)
	}
	if ok, _ := p.HasSignUp(ctx); !ok {
		t.Fatalf("Sign up link should be found")
	}
	if ok, _ := p.HasForgotPassword(ctx); ok {
		t.Fatalf("Forgot password link is not on the page")
	}
	if err := p.ClickForgotPassword(ctx); !element.IsExhausted(err) {
		t.Fatalf("Missing link should exhaust the retries: %v", err)
	}
	if path, err := p.TakeLoginScreenshot(); err != nil || !strings.HasSuffix(path, "login-page.png") {
		t.Fatalf("Unexpected screenshot: %q %v", path, err)
	}
}

func TestLoginPageWaitsForUI(t *testing.T) {
	page := newFakePage(map[string][]*node{
		"#password":         {{attrs: map[string]string{"type": "password"}}},
		loginEyeIcon:        {{}},
		loginForgotPassword: {{}},
	})
	p := NewLoginPage(newTestBase(t, page, WithActionTimeout(2*time.Second)))
	ctx := context.Background()

	// The form reacts to the clicks with a delay
	page.onClick = func(selector string) {
		time.AfterFunc(150*time.Millisecond, func() {
			page.update(func() {
				switch selector {
				case loginEyeIcon:
					page.nodes["#password"][0].attrs["type"] = "text"
				case loginForgotPassword:
					page.nodes[loginResetPassword] = []*node{{}}
				}
			})
		})
	}

	if visible, err := p.WaitForPasswordVisible(ctx, false); err != nil || visible {
		t.Fatalf("Password should be hidden: %v", err)
	}
	if err := p.TogglePasswordVisibility(ctx); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if visible, _ := p.IsPasswordVisible(); visible {
		t.Fatalf("Password can't be shown before the form reacted")
	}
	if visible, err := p.WaitForPasswordVisible(ctx, true); err != nil || !visible {
		t.Fatalf("Password should become visible: %v", err)
	}

	if err := p.ClickForgotPassword(ctx); err != nil {
		t.Fatalf("Forgot password click failed: %v", err)
	}
	if visible, err := p.IsResetPasswordVisible(ctx); err != nil || !visible {
		t.Fatalf("Reset password should be shown: %v", err)
	}
}

func TestLoginPageUIDoesNotReact(t *testing.T) {
	page := newFakePage(map[string][]*node{
		"#password": {{attrs: map[string]string{"type": "password"}}},
	})
	p := NewLoginPage(newTestBase(t, page, WithActionTimeout(50*time.Millisecond)))
	ctx := context.Background()

	started := time.Now()
	if visible, err := p.WaitForPasswordVisible(ctx, true); err != nil || visible {
		t.Fatalf("Password should stay hidden: %v", err)
	}
	if time.Since(started) < 50*time.Millisecond {
		t.Fatalf("Action timeout is not respected")
	}
	if visible, err := p.IsResetPasswordVisible(ctx); err != nil || visible {
		t.Fatalf("Reset password is not on the page: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := p.WaitForPasswordVisible(cancelled, true); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected cancel, got: %v", err)
	}
	if _, err := p.IsResetPasswordVisible(cancelled); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected cancel, got: %v", err)
	}
}

func TestLoginPageWebkitSelectors(t *testing.T) {
	p := NewLoginPage(newTestBase(t, newFakePage(nil), WithEngine(browser.WebKit)))
	if !strings.Contains(p.UsernameInput, `input[type="email"]`) || !strings.Contains(p.LoginButton, `button[type="submit"]`) {
		t.Fatalf("Webkit selectors are not used: %q %q", p.UsernameInput, p.LoginButton)
	}
}

func TestLoginFailsWithoutForm(t *testing.T) {
	p := NewLoginPage(newTestBase(t, newFakePage(nil)))
	err := p.Login(context.Background(), "user", "pass")

	var ex *element.InteractionExhaustedError
	if !errors.As(err, &ex) || ex.Op != element.OpFill || ex.Selector != "#username-email" {
		t.Fatalf("Expected exhausted fill of the username, got: %v", err)
	}
}

func TestDashboardPage(t *testing.T) {
	page := newFakePage(map[string][]*node{
		dashboardTitle:                    texts("Profiles"),
		dashboardSidebar:                  {{}},
		descendant(dashboardSidebar, "a"): texts("Profiles", " Settings ", "Recycle Bin"),
		dashboardSettings:                 {{}},
		dashboardUserRole:                 texts("Single Client Admin"),
	})
	p := NewDashboardPage(newTestBase(t, page))
	ctx := context.Background()

	if ok, err := p.IsDashboardLoaded(ctx); err != nil || !ok {
		t.Fatalf("Dashboard should be loaded: %v", err)
	}
	if title, _ := p.GetDashboardTitle(ctx); title != "Profiles" {
		t.Fatalf("Unexpected title: %q", title)
	}
	if role, _ := p.GetUserRole(ctx); role != "Single Client Admin" {
		t.Fatalf("Unexpected role: %q", role)
	}
	if count, err := p.GetPayflowsCount(ctx); err != nil || count != "" {
		t.Fatalf("Absent counter should be empty: %q %v", count, err)
	}
	links, err := p.GetSidebarLinks(ctx)
	if err != nil || strings.Join(links, ",") != "Profiles,Settings,Recycle Bin" {
		t.Fatalf("Unexpected sidebar links: %q %v", links, err)
	}

	if err := p.NavigateToSettings(ctx); err != nil || page.loads != 1 {
		t.Fatalf("Settings navigation failed: %v", err)
	}
	err = p.NavigateToRecycleBin(ctx)
	if !element.IsExhausted(err) || !strings.Contains(err.Error(), "recycle bin") {
		t.Fatalf("Missing link should be reported with context: %v", err)
	}
}

func TestDashboardNoSidebar(t *testing.T) {
	p := NewDashboardPage(newTestBase(t, newFakePage(nil)))
	links, err := p.GetSidebarLinks(context.Background())
	if err != nil || links != nil {
		t.Fatalf("No links expected without sidebar: %v %v", links, err)
	}
}

func TestProfilePage(t *testing.T) {
	page := newFakePage(map[string][]*node{
		profileDetails:                         texts("Acme Ltd"),
		profileTabItems:                        texts("Details", "Documents"),
		withText(profileTabItems, "Documents"): {{}},
		nth(profileTabItems, 1):                {{}},
		profileEdit:                            {{}},
	})
	p := NewProfilePage(newTestBase(t, page))
	ctx := context.Background()

	if ok, _ := p.IsLoaded(ctx); !ok {
		t.Fatalf("Profile should be loaded")
	}
	if tabs, _ := p.GetAvailableTabs(ctx); strings.Join(tabs, ",") != "Details,Documents" {
		t.Fatalf("Unexpected tabs: %v", tabs)
	}
	if err := p.ClickTabByName(ctx, "Documents"); err != nil {
		t.Fatalf("Unable to click the tab: %v", err)
	}
	if err := p.ClickTabByIndex(ctx, 1); err != nil {
		t.Fatalf("Unable to click the tab: %v", err)
	}
	if err := p.ClickTabByIndex(ctx, 5); err == nil {
		t.Fatalf("Tab out of range should fail")
	}

	if ok, _ := p.IsEditModeActive(ctx); ok {
		t.Fatalf("Edit mode should not be active")
	}
	if err := p.ClickEdit(ctx); err != nil {
		t.Fatalf("Unable to click edit: %v", err)
	}
	page.nodes[profileSave] = []*node{{}}
	if ok, _ := p.IsEditModeActive(ctx); !ok {
		t.Fatalf("Edit mode should be active")
	}
	if err := p.ClickSave(ctx); err != nil {
		t.Fatalf("Unable to save: %v", err)
	}
	if text, _ := p.GetProfileDetailsText(ctx); text != "Acme Ltd" {
		t.Fatalf("Unexpected details: %q", text)
	}
	if title, _ := p.GetProfileTitle(ctx); title != "" {
		t.Fatalf("Absent title should be empty: %q", title)
	}
	for name, check := range map[string]func(context.Context) (bool, error){
		"history":   p.IsVersionHistoryVisible,
		"children":  p.IsChildProfilesVisible,
		"documents": p.IsDocumentsSectionVisible,
	} {
		if ok, err := check(ctx); err != nil || ok {
			t.Errorf("Section %s should be absent: %v", name, err)
		}
	}
	if strings.Join(page.clicks, "|") != strings.Join([]string{withText(profileTabItems, "Documents"), nth(profileTabItems, 1), profileEdit, profileSave}, "|") {
		t.Fatalf("Unexpected clicks: %v", page.clicks)
	}
}

func TestProfilesListPage(t *testing.T) {
	page := newFakePage(map[string][]*node{
		profilesList:          {{}},
		profilesItems:         texts("Acme ", "Globex"),
		nth(profilesItems, 1): {{}},
		profilesNext:          {{}},
	})
	p := NewProfilesListPage(newTestBase(t, page))
	ctx := context.Background()

	if ok, _ := p.IsLoaded(ctx); !ok {
		t.Fatalf("List should be loaded")
	}
	if n, _ := p.GetProfileItemsCount(ctx); n != 2 {
		t.Fatalf("Unexpected count: %d", n)
	}
	if items, _ := p.GetProfileItemsText(ctx); strings.Join(items, ",") != "Acme,Globex" {
		t.Fatalf("Unexpected items: %v", items)
	}

	if ok, err := p.SearchProfiles(ctx, "Acme"); err != nil || ok {
		t.Fatalf("Search without input should be skipped: %v %v", ok, err)
	}
	page.nodes[profilesSearch] = []*node{{}}
	if ok, err := p.SearchProfiles(ctx, "Acme"); err != nil || !ok {
		t.Fatalf("Search failed: %v %v", ok, err)
	}
	if page.fills[profilesSearch] != "Acme" || strings.Join(page.keys, ",") != "press Enter" {
		t.Fatalf("Search is not submitted: %v %v", page.fills, page.keys)
	}

	if ok, err := p.GoToNextPage(ctx); err != nil || !ok {
		t.Fatalf("Next page failed: %v %v", ok, err)
	}
	if ok, err := p.GoToPreviousPage(ctx); err != nil || ok {
		t.Fatalf("Previous page is absent: %v %v", ok, err)
	}
	if err := p.ClickProfileItem(ctx, 1); err != nil {
		t.Fatalf("Unable to open profile: %v", err)
	}
	if err := p.ClickFilterButton(ctx); !element.IsExhausted(err) {
		t.Fatalf("Missing filter should exhaust: %v", err)
	}
}

func TestPayflowsPage(t *testing.T) {
	page := newFakePage(map[string][]*node{
		payflowsCanvas:         {{box: &playwright.Rect{X: 100, Y: 50, Width: 800, Height: 600}}},
		payflowsShapes:         {{}, {}},
		nth(payflowsShapes, 1): {{}},
		payflowsConnect:        {{}},
		payflowsStickyNote:     {{}},
		payflowsGherkin:        texts("Feature: Payroll"),
	})
	p := NewPayflowsPage(newTestBase(t, page))
	ctx := context.Background()

	if ok, _ := p.IsLoaded(ctx); !ok {
		t.Fatalf("Canvas should be loaded")
	}
	if err := p.CreateShape(ctx, 1, 10, 20); err != nil {
		t.Fatalf("Unable to create shape: %v", err)
	}
	if err := p.ClickShapeButton(ctx, 2); err == nil || !strings.Contains(err.Error(), "index 2") {
		t.Fatalf("Out of range shape should fail: %v", err)
	}
	if err := p.ConnectPoints(ctx, 0, 0, 30, 40); err != nil {
		t.Fatalf("Unable to connect: %v", err)
	}
	if err := p.AddStickyNote(ctx, 5, 5, "check"); err != nil {
		t.Fatalf("Unable to add note: %v", err)
	}

	want := "click 110,70|move 100,50|down|move 130,90|up|click 105,55"
	if got := strings.Join(page.mouse, "|"); got != want {
		t.Fatalf("Unexpected mouse actions:\n%s\nwant:\n%s", got, want)
	}
	if got := strings.Join(page.keys, "|"); got != "type check|press Enter" {
		t.Fatalf("Unexpected keys: %s", got)
	}
	if text, _ := p.GetGherkinOutputText(ctx); text != "Feature: Payroll" {
		t.Fatalf("Unexpected gherkin: %q", text)
	}
	if err := p.Export(ctx); !element.IsExhausted(err) {
		t.Fatalf("Missing export should exhaust: %v", err)
	}
}

func TestPayflowsCanvasWithoutBox(t *testing.T) {
	page := newFakePage(map[string][]*node{payflowsCanvas: {{}}})
	p := NewPayflowsPage(newTestBase(t, page))

	if err := p.ClickCanvas(context.Background(), 1, 1); !errors.Is(err, ErrNoBoundingBox) {
		t.Fatalf("Expected no bounding box error, got: %v", err)
	}
	if len(page.mouse) != 0 {
		t.Fatalf("Mouse should not be used")
	}
}

func TestParentChildFlowPage(t *testing.T) {
	page := newFakePage(map[string][]*node{
		flowChild:   {{}},
		flowState:   texts("Pending approval"),
		flowApprove: {{}},
	})
	p := NewParentChildFlowPage(newTestBase(t, page))
	ctx := context.Background()

	if ok, _ := p.IsLoaded(ctx); !ok {
		t.Fatalf("Child section should be enough to be loaded")
	}
	if ok, _ := p.IsParentSectionVisible(ctx); ok {
		t.Fatalf("Parent section is absent")
	}
	if state, _ := p.GetStateIndicatorText(ctx); state != "Pending approval" {
		t.Fatalf("Unexpected state: %q", state)
	}
	if err := p.ClickApprove(ctx); err != nil || page.loads != 1 {
		t.Fatalf("Approve failed: %v", err)
	}
	if err := p.ClickReject(ctx); !element.IsExhausted(err) {
		t.Fatalf("Missing reject should exhaust: %v", err)
	}

	empty := NewParentChildFlowPage(newTestBase(t, newFakePage(nil)))
	if ok, _ := empty.IsLoaded(ctx); ok {
		t.Fatalf("Empty page should not be loaded")
	}
}
