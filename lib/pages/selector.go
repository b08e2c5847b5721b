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
	"fmt"
	"strings"
)

// eachPart applies fn to every alternative of the comma separated selector,
// so the suffix does not end up only on the last one
func eachPart(selector string, fn func(string) string) string {
	parts := splitSelector(selector)
	for i, p := range parts {
		parts[i] = fn(strings.TrimSpace(p))
	}
	return strings.Join(parts, ", ")
}

// splitSelector splits the selector list on the commas which are not inside
// quotes, brackets or parentheses like in :has-text("a, b")
func splitSelector(selector string) []string {
	var parts []string
	var quote rune
	escaped := false
	depth, start := 0, 0
	for i, r := range selector {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			depth--
		case r == ',' && depth == 0:
			parts = append(parts, selector[start:i])
			start = i + 1
		}
	}
	return append(parts, selector[start:])
}

// withText narrows the selector to the elements containing the text
func withText(selector, text string) string {
	return eachPart(selector, func(p string) string {
		return fmt.Sprintf("%s:has-text(%q)", p, text)
	})
}

// descendant selects the child elements of any of the selector matches
func descendant(selector, child string) string {
	return eachPart(selector, func(p string) string {
		return p + " " + child
	})
}

// nth picks the match by index among all the alternatives
func nth(selector string, i int) string {
	return fmt.Sprintf("%s >> nth=%d", selector, i)
}
