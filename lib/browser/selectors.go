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
	_ "embed"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed selectors.yaml
var defaultSelectors []byte

// Selectors maps element name to the selector for each engine
type Selectors map[string]map[Engine]string

// DefaultSelectors returns the built-in selector table
func DefaultSelectors() Selectors {
	s, err := parseSelectors(defaultSelectors)
	if err != nil {
		panic(fmt.Sprintf("browser: invalid embedded selectors: %v", err))
	}
	return s
}

// LoadSelectors reads the selector table from yaml
func LoadSelectors(r io.Reader) (Selectors, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseSelectors(data)
}

func parseSelectors(data []byte) (Selectors, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unable to parse selectors: %w", err)
	}
	out := make(Selectors, len(raw))
	for name, perEngine := range raw {
		out[name] = make(map[Engine]string, len(perEngine))
		for engineName, selector := range perEngine {
			engine, err := ParseEngine(engineName)
			if err != nil {
				return nil, fmt.Errorf("selector %q: %w", name, err)
			}
			out[name][engine] = selector
		}
	}
	return out, nil
}

// Lookup returns the selector of the element for the engine or empty string
// if the element is unknown
func (s Selectors) Lookup(name string, engine Engine) string {
	return s[name][engine]
}

// Names returns sorted list of known elements
func (s Selectors) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// For resolves the whole table for one engine, it's done once per context
func (s Selectors) For(engine Engine) map[string]string {
	out := make(map[string]string, len(s))
	for name, perEngine := range s {
		out[name] = perEngine[engine]
	}
	return out
}
