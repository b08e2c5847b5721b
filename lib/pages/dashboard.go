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
	"time"
)

const (
	dashboardTitle    = `h1:has-text("Profiles"), .dashboard-title`
	dashboardSidebar  = `.sidebar-menu, .side-nav`
	dashboardProfiles = `a:has-text("Profiles"), a[href*="profiles"]`
	dashboardSettings = `a:has-text("Settings"), a[href*="settings"]`
	dashboardRecycle  = `a:has-text("Recycle Bin"), a[href*="recycle"]`
	dashboardUserRole = `.user-role, .role-indicator`
	dashboardLogout   = `button.logout-button, button:has-text("Logout"), button:has-text("Log out")`
	dashboardPayflows = `.payflows-counter, .counter:has-text("Payflows")`
	dashboardUsers    = `.users-counter, .counter:has-text("Users")`
)

// DashboardPage is the landing page after login
type DashboardPage struct {
	*Base
}

func NewDashboardPage(b *Base) *DashboardPage {
	return &DashboardPage{Base: b}
}

// IsDashboardLoaded checks the dashboard title is on the page
func (p *DashboardPage) IsDashboardLoaded(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, dashboardTitle)
}

// WaitUntilLoaded waits for the dashboard title to be shown
func (p *DashboardPage) WaitUntilLoaded(ctx context.Context, timeout time.Duration) error {
	return p.WaitForElement(ctx, dashboardTitle, timeout)
}

func (p *DashboardPage) GetDashboardTitle(ctx context.Context) (string, error) {
	return p.textIfExists(ctx, dashboardTitle)
}

func (p *DashboardPage) NavigateToProfiles(ctx context.Context) error {
	return p.clickAndWait(ctx, dashboardProfiles, "profiles")
}

func (p *DashboardPage) NavigateToSettings(ctx context.Context) error {
	return p.clickAndWait(ctx, dashboardSettings, "settings")
}

func (p *DashboardPage) NavigateToRecycleBin(ctx context.Context) error {
	return p.clickAndWait(ctx, dashboardRecycle, "recycle bin")
}

func (p *DashboardPage) GetUserRole(ctx context.Context) (string, error) {
	return p.textIfExists(ctx, dashboardUserRole)
}

func (p *DashboardPage) Logout(ctx context.Context) error {
	return p.clickAndWait(ctx, dashboardLogout, "logout")
}

// GetPayflowsCount returns the payflows counter text as shown
func (p *DashboardPage) GetPayflowsCount(ctx context.Context) (string, error) {
	return p.textIfExists(ctx, dashboardPayflows)
}

// GetUsersCount returns the users counter text as shown
func (p *DashboardPage) GetUsersCount(ctx context.Context) (string, error) {
	return p.textIfExists(ctx, dashboardUsers)
}

func (p *DashboardPage) IsSidebarVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, dashboardSidebar)
}

// GetSidebarLinks returns the text of the sidebar navigation links
func (p *DashboardPage) GetSidebarLinks(ctx context.Context) ([]string, error) {
	ok, err := p.el.Exists(ctx, dashboardSidebar)
	if err != nil || !ok {
		return nil, err
	}
	return p.linkTexts(descendant(dashboardSidebar, "a"))
}
