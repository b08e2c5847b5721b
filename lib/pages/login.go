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
	loginUsernameFallback = `input[placeholder="Username"], input[type="text"]`
	loginPasswordFallback = `input[placeholder="Password"], input[type="password"]`
	loginButtonFallback   = `button:has-text("Log in"), button[type="submit"]`

	loginForgotPassword = `button:has-text("Forgot your Password?"), a:has-text("Forgot")`
	loginSignUp         = `a:has-text("Sign up")`
	loginEyeIcon        = `button.eye-icon, button.password-toggle, div.cursor-pointer.right-4`
	loginError          = `.error-message, .alert-error, [role="alert"], .notification, .toast`
	loginResetPassword  = `button:has-text("Reset password")`
)

// LoginPage is the application sign in form
type LoginPage struct {
	*Base

	UsernameInput string
	PasswordInput string
	LoginButton   string
}

// NewLoginPage uses the engine specific selectors for the form fields
func NewLoginPage(b *Base) *LoginPage {
	return &LoginPage{
		Base:          b,
		UsernameInput: b.selector("username", loginUsernameFallback),
		PasswordInput: b.selector("password", loginPasswordFallback),
		LoginButton:   b.selector("loginButton", loginButtonFallback),
	}
}

// NavigateToLogin opens the login page and waits for it to load
func (p *LoginPage) NavigateToLogin(ctx context.Context) error {
	if err := p.Navigate(ctx, "/login"); err != nil {
		return err
	}
	return p.WaitForPageLoad(ctx)
}

// Login fills the credentials and submits the form
func (p *LoginPage) Login(ctx context.Context, username, password string) error {
	logger := log.WithFunc("pages", "Login")
	logger.InfoContext(ctx, "Attempting to login", "username", username)

	if err := p.el.FillWithRetry(ctx, p.UsernameInput, username); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := p.el.FillWithRetry(ctx, p.PasswordInput, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := p.el.ClickWithRetry(ctx, p.LoginButton); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	logger.DebugContext(ctx, "Login form submitted")
	return nil
}

func (p *LoginPage) ClickForgotPassword(ctx context.Context) error {
	return p.el.ClickWithRetry(ctx, loginForgotPassword)
}

// HasForgotPassword checks the link is present on the form
func (p *LoginPage) HasForgotPassword(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, loginForgotPassword)
}

// IsResetPasswordVisible waits for the forgot password form to be shown
func (p *LoginPage) IsResetPasswordVisible(ctx context.Context) (bool, error) {
	return p.isShown(ctx, loginResetPassword)
}

func (p *LoginPage) ClickSignUp(ctx context.Context) error {
	return p.el.ClickWithRetry(ctx, loginSignUp)
}

// HasSignUp checks the sign up link is present on the form
func (p *LoginPage) HasSignUp(ctx context.Context) (bool, error) {
	return p.el.Exists(ctx, loginSignUp)
}

func (p *LoginPage) TogglePasswordVisibility(ctx context.Context) error {
	return p.el.ClickWithRetry(ctx, loginEyeIcon)
}

// IsPasswordVisible is true when the password input shows plain text right now
func (p *LoginPage) IsPasswordVisible() (bool, error) {
	kind, err := p.page.Locator(p.PasswordInput).First().GetAttribute("type")
	if err != nil {
		return false, fmt.Errorf("unable to read password input type: %w", err)
	}
	return kind == "text", nil
}

// WaitForPasswordVisible waits for the password input to show or hide the
// text and returns the state it ended up in
func (p *LoginPage) WaitForPasswordVisible(ctx context.Context, visible bool) (bool, error) {
	want := "password"
	if visible {
		want = "text"
	}
	kind, err := p.waitAttribute(ctx, p.PasswordInput, "type", want)
	if err != nil {
		return false, err
	}
	return kind == "text", nil
}

// GetErrorMessage returns the error shown by the form or empty string
func (p *LoginPage) GetErrorMessage(ctx context.Context) (string, error) {
	return p.textIfExists(ctx, loginError)
}

func (p *LoginPage) TakeLoginScreenshot() (string, error) {
	return p.TakeScreenshot("login-page")
}
