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

// Package config describes the e2e run: target environment, browsers,
// timeouts and retry policy
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ghodss/yaml"

	"github.com/payrollstandard/payroll-e2e/lib/browser"
	"github.com/payrollstandard/payroll-e2e/lib/element"
	"github.com/payrollstandard/payroll-e2e/lib/log"
	"github.com/payrollstandard/payroll-e2e/lib/monitoring"
	"github.com/payrollstandard/payroll-e2e/lib/util"
)

// Known environments of the application
const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

var baseURLs = map[string]string{
	EnvDev:     "https://dev.app.payrollstandard.org",
	EnvStaging: "https://staging.app.payrollstandard.org",
	EnvProd:    "https://app.payrollstandard.org",
}

// BaseURL returns the application URL for the environment, unknown
// environments are pointed to dev
func BaseURL(env string) string {
	if url, ok := baseURLs[strings.ToLower(env)]; ok {
		return url
	}
	return baseURLs[EnvDev]
}

// Config of the e2e run
type Config struct {
	Env      string   `json:"env"`      // dev, staging or prod
	BaseURL  string   `json:"base_url"` // Overrides the environment URL
	Browsers []string `json:"browsers"` // chromium, firefox, webkit
	Headless bool     `json:"headless"`

	Timeouts    Timeouts    `json:"timeouts"`
	Retry       Retry       `json:"retry"`
	Screenshots Screenshots `json:"screenshots"`

	Log        log.Config        `json:"log"`
	Monitoring monitoring.Config `json:"monitoring"`
}

// Timeouts used by the pages
type Timeouts struct {
	Navigation util.Duration `json:"navigation"`
	Element    util.Duration `json:"element"`
	Animation  util.Duration `json:"animation"`
}

// Retry is the default policy of the element accessor
type Retry struct {
	TimeoutPerAttempt util.Duration `json:"timeout_per_attempt"`
	MaxAttempts       int           `json:"max_attempts"`
	InterAttemptDelay util.Duration `json:"inter_attempt_delay"`
}

// Screenshots configuration
type Screenshots struct {
	Path          string `json:"path"`
	TakeOnFailure bool   `json:"take_on_failure"`
}

// Default returns configuration to run chromium headless against dev
func Default() *Config {
	return &Config{
		Env:      EnvDev,
		Browsers: []string{string(browser.Chromium)},
		Headless: true,
		Timeouts: Timeouts{
			Navigation: util.Duration(30 * time.Second),
			Element:    util.Duration(5 * time.Second),
			Animation:  util.Duration(1 * time.Second),
		},
		Retry: Retry{
			TimeoutPerAttempt: util.Duration(element.DefaultTimeoutPerAttempt),
			MaxAttempts:       element.DefaultMaxAttempts,
			InterAttemptDelay: util.Duration(element.DefaultInterAttemptDelay),
		},
		Screenshots: Screenshots{
			Path:          "./reports/screenshots",
			TakeOnFailure: true,
		},
		Log:        *log.DefaultConfig(),
		Monitoring: *monitoring.DefaultConfig(),
	}
}

// ReadConfigFile applies yaml file on top of the current values, empty path
// keeps the config untouched
func (c *Config) ReadConfigFile(cfgPath string) error {
	if cfgPath == "" {
		return nil
	}

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return fmt.Errorf("unable to read config file %q: %w", cfgPath, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("unable to parse config file %q: %w", cfgPath, err)
	}
	return nil
}

// ApplyEnv overrides values from the environment variables:
// PAYROLL_E2E_ENV, PAYROLL_E2E_BASE_URL, BROWSER (comma separated) and HEADFUL
func (c *Config) ApplyEnv() {
	if env := os.Getenv("PAYROLL_E2E_ENV"); env != "" {
		c.Env = env
	}
	if url := os.Getenv("PAYROLL_E2E_BASE_URL"); url != "" {
		c.BaseURL = url
	}
	if browsers := os.Getenv("BROWSER"); browsers != "" {
		c.Browsers = nil
		for _, name := range strings.Split(browsers, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Browsers = append(c.Browsers, name)
			}
		}
	}
	// By default tests are running headless, but there could be a need to see the UI
	if os.Getenv("HEADFUL") != "" {
		c.Headless = false
	}
}

// Validate checks the values are usable
func (c *Config) Validate() error {
	if len(c.Browsers) == 0 {
		return fmt.Errorf("at least one browser is required")
	}
	for _, name := range c.Browsers {
		if _, err := browser.ParseEngine(name); err != nil {
			return err
		}
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max_attempts should be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.TimeoutPerAttempt <= 0 {
		return fmt.Errorf("retry timeout_per_attempt should be positive")
	}
	if c.Retry.InterAttemptDelay < 0 {
		return fmt.Errorf("retry inter_attempt_delay can't be negative")
	}
	if c.Timeouts.Navigation <= 0 || c.Timeouts.Element <= 0 {
		return fmt.Errorf("navigation and element timeouts should be positive")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if err := c.Monitoring.Validate(); err != nil {
		return fmt.Errorf("monitoring: %w", err)
	}
	return nil
}

// URL returns the application base URL
func (c *Config) URL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return BaseURL(c.Env)
}

// Engines returns parsed list of browsers
func (c *Config) Engines() ([]browser.Engine, error) {
	out := make([]browser.Engine, 0, len(c.Browsers))
	for _, name := range c.Browsers {
		engine, err := browser.ParseEngine(name)
		if err != nil {
			return nil, err
		}
		out = append(out, engine)
	}
	return out, nil
}

// Policy converts retry configuration to the accessor policy
func (c *Config) Policy() element.RetryPolicy {
	return element.RetryPolicy{
		TimeoutPerAttempt: c.Retry.TimeoutPerAttempt.Std(),
		MaxAttempts:       c.Retry.MaxAttempts,
		InterAttemptDelay: c.Retry.InterAttemptDelay.Std(),
	}
}
