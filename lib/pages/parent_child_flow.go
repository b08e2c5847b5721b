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
)

const (
	flowTitle        = `h1:has-text("Parent"), h1:has-text("Child"), .parent-child-title, [data-testid="parent-child-title"]`
	flowParent       = `.parent-section, [data-testid="parent-section"]`
	flowChild        = `.child-section, [data-testid="child-section"]`
	flowRelationship = `.relationship, .connection, [data-testid="relationship"]`
	flowControls     = `.workflow-controls, .controls, [data-testid="workflow-controls"]`
	flowState        = `.state, .status, [data-testid="state"]`
	flowApprove      = `button:has-text("Approve"), [aria-label="approve"], [data-testid="approve-button"]`
	flowReject       = `button:has-text("Reject"), [aria-label="reject"], [data-testid="reject-button"]`
	flowTransition   = `button:has-text("Transition"), [aria-label="transition"], [data-testid="transition-button"]`
)

// ParentChildFlowPage shows the relation between parent and child profiles
// along with the approval workflow
type ParentChildFlowPage struct {
	*Base
}

func NewParentChildFlowPage(b *Base) *ParentChildFlowPage {
	return &ParentChildFlowPage{Base: b}
}

// IsLoaded is true when either the parent or the child section is present
func (p *ParentChildFlowPage) IsLoaded(ctx context.Context) (bool, error) {
	ok, err := p.el.Exists(ctx, flowParent)
	if err != nil || ok {
		return ok, err
	}
	return p.el.Exists(ctx, flowChild)
}

func (p *ParentChildFlowPage) GetTitle(ctx context.Context) (string, error) {
	return p.textIfExists(ctx, flowTitle)
}

func (p *ParentChildFlowPage) IsParentSectionVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, flowParent)
}

func (p *ParentChildFlowPage) IsChildSectionVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, flowChild)
}

func (p *ParentChildFlowPage) IsRelationshipIndicatorVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, flowRelationship)
}

// GetStateIndicatorText returns the current workflow state
func (p *ParentChildFlowPage) GetStateIndicatorText(ctx context.Context) (string, error) {
	return p.textIfExists(ctx, flowState)
}

func (p *ParentChildFlowPage) ClickApprove(ctx context.Context) error {
	return p.clickAndWait(ctx, flowApprove, "approval")
}

func (p *ParentChildFlowPage) ClickReject(ctx context.Context) error {
	return p.clickAndWait(ctx, flowReject, "rejection")
}

func (p *ParentChildFlowPage) ClickTransition(ctx context.Context) error {
	return p.clickAndWait(ctx, flowTransition, "transition")
}

func (p *ParentChildFlowPage) AreWorkflowControlsVisible(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, flowControls)
}
