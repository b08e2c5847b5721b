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
)

const (
	profileTitle     = `h1:has-text("Profile"), .profile-title, [data-testid="profile-title"]`
	profileDetails   = `.profile-details, .details-container, [data-testid="profile-details"]`
	profileTabItems  = `[role="tab"], .tab, .tab-item, [data-testid="tab"]`
	profileEdit      = `button:has-text("Edit"), [aria-label="edit"], [data-testid="edit-button"]`
	profileSave      = `button:has-text("Save"), [aria-label="save"], [data-testid="save-button"]`
	profileCancel    = `button:has-text("Cancel"), [aria-label="cancel"], [data-testid="cancel-button"]`
	profileHistory   = `.version-history, .history, [data-testid="version-history"]`
	profileChildren  = `.child-profiles, .children, [data-testid="child-profiles"]`
	profileDocuments = `.documents, .attachments, [data-testid="documents"]`
)

// ProfilePage shows the single profile with its tabs
type ProfilePage struct {
	*Base
}

func NewProfilePage(b *Base) *ProfilePage {
	return &ProfilePage{Base: b}
}

// IsLoaded checks the profile details are on the page
func (p *ProfilePage) IsLoaded(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, profileDetails)
}

func (p *ProfilePage) GetProfileTitle(ctx context.Context) (string, error) {
	return p.textIfExists(ctx, profileTitle)
}

// GetAvailableTabs returns the names of the profile tabs
func (p *ProfilePage) GetAvailableTabs(ctx context.Context) ([]string, error) {
	ok, err := p.el.Exists(ctx, profileTabItems)
	if err != nil || !ok {
		return nil, err
	}
	return p.linkTexts(profileTabItems)
}

func (p *ProfilePage) ClickTabByName(ctx context.Context, name string) error {
	return p.clickAndWait(ctx, withText(profileTabItems, name), fmt.Sprintf("tab %q", name))
}

func (p *ProfilePage) ClickTabByIndex(ctx context.Context, i int) error {
	return p.clickAndWait(ctx, nth(profileTabItems, i), fmt.Sprintf("tab #%d", i))
}

func (p *ProfilePage) ClickEdit(ctx context.Context) error {
	return p.clickAndWait(ctx, profileEdit, "edit mode")
}

func (p *ProfilePage) ClickSave(ctx context.Context) error {
	return p.clickAndWait(ctx, profileSave, "saved profile")
}

func (p *ProfilePage) ClickCancel(ctx context.Context) error {
	return p.clickAndWait(ctx, profileCancel, "profile view")
}

func (p *ProfilePage) IsVersionHistoryVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, profileHistory)
}

func (p *ProfilePage) IsChildProfilesVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, profileChildren)
}

func (p *ProfilePage) IsDocumentsSectionVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, profileDocuments)
}

func (p *ProfilePage) GetProfileDetailsText(ctx context.Context) (string, error) {
	return p.textIfExists(ctx, profileDetails)
}

// IsEditModeActive is true when the save button is shown
func (p *ProfilePage) IsEditModeActive(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, profileSave)
}
