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

package element

import (
	"errors"
	"fmt"
	"time"
)

// ErrWaitTimeout is reported by a Locator when the wait for a state was not
// satisfied in time. Adapters wrap the engine error with it.
var ErrWaitTimeout = errors.New("wait timeout")

// ElementNotVisibleError means the selector did not reach the visible state
// within a single attempt
type ElementNotVisibleError struct {
	Selector string
	Timeout  time.Duration
	Err      error
}

func (e *ElementNotVisibleError) Error() string {
	return fmt.Sprintf("element %q not visible within %s: %v", e.Selector, e.Timeout, e.Err)
}

func (e *ElementNotVisibleError) Unwrap() error {
	return e.Err
}

// InteractionExhaustedError is returned when every attempt of a retrying
// operation failed. LastErr holds the error of the final attempt.
type InteractionExhaustedError struct {
	Op       Op
	Selector string
	Attempts int
	LastErr  error
}

func (e *InteractionExhaustedError) Error() string {
	return fmt.Sprintf("failed to %s element %q after %d attempts: %v", e.Op, e.Selector, e.Attempts, e.LastErr)
}

func (e *InteractionExhaustedError) Unwrap() error {
	return e.LastErr
}

// IsExhausted reports whether err carries an InteractionExhaustedError
func IsExhausted(err error) bool {
	var ex *InteractionExhaustedError
	return errors.As(err, &ex)
}
