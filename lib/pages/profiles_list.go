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

	"github.com/payrollstandard/payroll-e2e/lib/log"
)

const (
	profilesTitle      = `h1:has-text("Profiles"), .profiles-title, [data-testid="profiles-title"]`
	profilesList       = `.profiles-list, .list-container, table, [data-testid="profiles-list"]`
	profilesItems      = `.profile-item, tr, .list-item, [data-testid="profile-item"]`
	profilesSearch     = `input[type="search"], input[placeholder*="Search"], [data-testid="search-input"]`
	profilesFilter     = `button:has-text("Filter"), [data-testid="filter-button"]`
	profilesSort       = `button:has-text("Sort"), [data-testid="sort-button"]`
	profilesPagination = `.pagination, nav[aria-label="pagination"], [data-testid="pagination"]`
	profilesNext       = `button:has-text("Next"), [aria-label="next page"], [data-testid="next-page"]`
	profilesPrev       = `button:has-text("Previous"), [aria-label="previous page"], [data-testid="prev-page"]`
)

// ProfilesListPage is the searchable list of profiles
type ProfilesListPage struct {
	*Base
}

func NewProfilesListPage(b *Base) *ProfilesListPage {
	return &ProfilesListPage{Base: b}
}

func (p *ProfilesListPage) IsLoaded(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, profilesList)
}

func (p *ProfilesListPage) GetTitle(ctx context.Context) (string, error) {
	return p.textIfExists(ctx, profilesTitle)
}

func (p *ProfilesListPage) GetProfileItemsCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return p.page.Locator(profilesItems).Count()
}

// SearchProfiles submits the search, returns false if there is no search input
func (p *ProfilesListPage) SearchProfiles(ctx context.Context, text string) (bool, error) {
	ok, err := p.el.Exists(ctx, profilesSearch)
	if err != nil {
		return false, err
	}
	if !ok {
		log.WithFunc("pages", "SearchProfiles").WarnContext(ctx, "Search input not found")
		return false, nil
	}
	if err := p.el.FillWithRetry(ctx, profilesSearch, text); err != nil {
		return false, err
	}
	if err := p.page.Keyboard().Press("Enter"); err != nil {
		return false, fmt.Errorf("unable to submit search: %w", err)
	}
	return true, p.WaitForPageLoad(ctx)
}

func (p *ProfilesListPage) ClickFilterButton(ctx context.Context) error {
	return p.el.ClickWithRetry(ctx, profilesFilter)
}

func (p *ProfilesListPage) ClickSortButton(ctx context.Context) error {
	return p.el.ClickWithRetry(ctx, profilesSort)
}

func (p *ProfilesListPage) IsPaginationVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, profilesPagination)
}

// GoToNextPage returns false when there is no next page button
func (p *ProfilesListPage) GoToNextPage(ctx context.Context) (bool, error) {
	return p.clickIfExists(ctx, profilesNext, "next page")
}

// GoToPreviousPage returns false when there is no previous page button
func (p *ProfilesListPage) GoToPreviousPage(ctx context.Context) (bool, error) {
	return p.clickIfExists(ctx, profilesPrev, "previous page")
}

// ClickProfileItem opens the profile by its position in the list
func (p *ProfilesListPage) ClickProfileItem(ctx context.Context, i int) error {
	ok, err := p.el.Exists(ctx, profilesItems)
	if err != nil || !ok {
		return err
	}
	return p.clickAndWait(ctx, nth(profilesItems, i), fmt.Sprintf("profile #%d", i))
}

func (p *ProfilesListPage) GetProfileItemsText(ctx context.Context) ([]string, error) {
	ok, err := p.el.Exists(ctx, profilesItems)
	if err != nil || !ok {
		return nil, err
	}
	return p.linkTexts(profilesItems)
}

func (p *ProfilesListPage) IsSearchInputVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, profilesSearch)
}

func (p *ProfilesListPage) clickIfExists(ctx context.Context, selector, what string) (bool, error) {
	ok, err := p.el.Exists(ctx, selector)
	if err != nil || !ok {
		return false, err
	}
	return true, p.clickAndWait(ctx, selector, what)
}
