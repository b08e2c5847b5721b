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

package util

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration that can be read from the configuration. Numbers
// are milliseconds (the way playwright counts timeouts), strings are parsed by
// ParseDuration
type Duration time.Duration

var (
	durationPart = regexp.MustCompile(`(\d*\.\d+|\d+)([a-zA-Zµ]*)`)
	extraUnits   = map[string]time.Duration{
		"d": 24 * time.Hour,
		"w": 7 * 24 * time.Hour,
	}
)

// ParseDuration extends time.ParseDuration with days (d) and weeks (w):
// "1500ms", "2s", "1d12h"
func ParseDuration(s string) (Duration, error) {
	orig := s
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	parts := durationPart.FindAllStringSubmatchIndex(s, -1)
	var total time.Duration
	pos := 0
	for _, p := range parts {
		if p[0] != pos {
			return 0, fmt.Errorf("invalid duration %q", orig)
		}
		pos = p[1]
		chunk, unit := s[p[0]:p[1]], s[p[4]:p[5]]
		if mult, ok := extraUnits[strings.ToLower(unit)]; ok {
			val, err := strconv.ParseFloat(s[p[2]:p[3]], 64)
			if err != nil {
				return 0, err
			}
			total += time.Duration(val * float64(mult))
			continue
		}
		val, err := time.ParseDuration(chunk)
		if err != nil {
			return 0, err
		}
		total += val
	}
	if pos != len(s) {
		return 0, fmt.Errorf("invalid duration %q", orig)
	}

	if neg {
		total = -total
	}
	return Duration(total), nil
}

// Std returns the time.Duration value
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Milliseconds in the float form used by playwright options
func (d Duration) Milliseconds() float64 {
	return float64(time.Duration(d).Milliseconds())
}

// String representation of the duration
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON represents Duration as JSON string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses JSON number of milliseconds or duration string
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value * float64(time.Millisecond)))
		return nil
	case string:
		parsed, err := ParseDuration(value)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("incorrect duration type %T", v)
	}
}
