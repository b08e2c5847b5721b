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

// Package fixtures provides the test accounts of the dev environment
package fixtures

import (
	"os"
	"strings"
)

// Credentials of the application user
type Credentials struct {
	Username string
	Password string
	Role     string
}

// Accounts used by the authentication scenarios
type Accounts struct {
	SingleClientAdmin Credentials
	Employee          Credentials
	Invalid           Credentials
}

// Auth returns the accounts, the passwords could be overridden with
// PAYROLL_E2E_<ACCOUNT>_PASSWORD like PAYROLL_E2E_SCA_PASSWORD
func Auth() Accounts {
	return Accounts{
		SingleClientAdmin: override("sca", Credentials{
			Username: "saqibpayrollstandard+sca@proton.me",
			Password: "A1b2c3d4x@1234",
			Role:     "Single Client Admin",
		}),
		Employee: override("emp", Credentials{
			Username: "saqibpayrollstandard+emp@proton.me",
			Password: "Test-123456!!@",
			Role:     "Employee",
		}),
		Invalid: Credentials{
			Username: "invalid@example.com",
			Password: "wrongpassword",
		},
	}
}

func override(account string, c Credentials) Credentials {
	prefix := "PAYROLL_E2E_" + strings.ToUpper(account)
	if v := os.Getenv(prefix + "_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv(prefix + "_PASSWORD"); v != "" {
		c.Password = v
	}
	return c
}
