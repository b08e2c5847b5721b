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
	"context"
	"time"
)

// Default retry policy values
const (
	DefaultTimeoutPerAttempt = 5 * time.Second
	DefaultMaxAttempts       = 3
	DefaultInterAttemptDelay = 1 * time.Second
)

// RetryPolicy describes how a single interaction is retried
type RetryPolicy struct {
	TimeoutPerAttempt time.Duration
	MaxAttempts       int
	InterAttemptDelay time.Duration
}

// DefaultPolicy returns 3 attempts of 5s each with 1s pause in between
func DefaultPolicy() RetryPolicy {
	return RetryPolicy{
		TimeoutPerAttempt: DefaultTimeoutPerAttempt,
		MaxAttempts:       DefaultMaxAttempts,
		InterAttemptDelay: DefaultInterAttemptDelay,
	}
}

// PolicyOption overrides part of the policy for one call
type PolicyOption func(*RetryPolicy)

// WithTimeout sets the per-attempt visibility timeout
func WithTimeout(d time.Duration) PolicyOption {
	return func(p *RetryPolicy) { p.TimeoutPerAttempt = d }
}

// WithAttempts sets the maximum amount of attempts
func WithAttempts(n int) PolicyOption {
	return func(p *RetryPolicy) { p.MaxAttempts = n }
}

// WithDelay sets the pause between attempts
func WithDelay(d time.Duration) PolicyOption {
	return func(p *RetryPolicy) { p.InterAttemptDelay = d }
}

// WithPolicy replaces the whole policy
func WithPolicy(policy RetryPolicy) PolicyOption {
	return func(p *RetryPolicy) { *p = policy }
}

func (p RetryPolicy) apply(opts []PolicyOption) RetryPolicy {
	for _, opt := range opts {
		opt(&p)
	}
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.InterAttemptDelay < 0 {
		p.InterAttemptDelay = 0
	}
	return p
}

// counter repeats an operation a given number of times and waits between
// subsequent attempts. The wait is interrupted by the context.
type counter struct {
	Count int
	Wait  time.Duration

	done int
}

// Next reports whether another attempt is allowed, sleeping before every
// attempt but the first one
func (c *counter) Next(ctx context.Context) (bool, error) {
	if c.done >= c.Count {
		return false, nil
	}
	if c.done > 0 {
		if err := sleep(ctx, c.Wait); err != nil {
			return false, err
		}
	}
	c.done++
	return true, nil
}

// Attempt returns the number of the current attempt, starting from 1
func (c *counter) Attempt() int {
	return c.done
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
