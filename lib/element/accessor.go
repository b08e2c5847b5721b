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

// Package element wraps raw locator operations with bounded retry so page
// objects can survive asynchronous rendering of the application UI
package element

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/payrollstandard/payroll-e2e/lib/element"

// State of the element to wait for
type State string

const (
	StateVisible  State = "visible"
	StateHidden   State = "hidden"
	StateAttached State = "attached"
	StateDetached State = "detached"
)

// Op identifies the retrying operation in errors, logs and metrics
type Op string

const (
	OpClick Op = "click"
	OpFill  Op = "fill"
	OpRead  Op = "read"
)

// Page is the browsing context capability the accessor needs
type Page interface {
	Locator(selector string) Locator
}

// Locator is a live reference to zero or more matched elements
type Locator interface {
	WaitFor(state State, timeout time.Duration) error
	Click() error
	Fill(value string) error
	InnerText() (string, error)
	Count() (int, error)
}

// Accessor is the retrying element accessor bound to one page. It is not
// safe for concurrent use: every parallel worker owns its own page and accessor.
type Accessor struct {
	page     Page
	policy   RetryPolicy
	observer Observer
	tracer   trace.Tracer
}

// Option configures the Accessor
type Option func(*Accessor)

// WithDefaultPolicy replaces the policy used when a call has no overrides
func WithDefaultPolicy(policy RetryPolicy) Option {
	return func(a *Accessor) { a.policy = policy }
}

// WithObserver sets the hook receiving attempt outcomes
func WithObserver(observer Observer) Option {
	return func(a *Accessor) {
		if observer != nil {
			a.observer = observer
		}
	}
}

// WithTracer sets the tracer used for operation spans
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Accessor) {
		if tracer != nil {
			a.tracer = tracer
		}
	}
}

// New creates accessor for the page
func New(page Page, opts ...Option) *Accessor {
	a := &Accessor{
		page:     page,
		policy:   DefaultPolicy(),
		observer: LogObserver{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Policy returns the default policy of the accessor
func (a *Accessor) Policy() RetryPolicy {
	return a.policy
}

// WaitVisible waits for the selector to become visible and returns its locator
func (a *Accessor) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (Locator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The attempt can't outlive the caller
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	loc := a.page.Locator(selector)
	if err := loc.WaitFor(StateVisible, timeout); err != nil {
		if errors.Is(err, ErrWaitTimeout) {
			return nil, &ElementNotVisibleError{Selector: selector, Timeout: timeout, Err: err}
		}
		return nil, err
	}
	return loc, nil
}

// ClickWithRetry waits for the element and clicks it, retrying on failure
func (a *Accessor) ClickWithRetry(ctx context.Context, selector string, opts ...PolicyOption) error {
	return a.retry(ctx, OpClick, selector, opts, func(loc Locator) error {
		return loc.Click()
	})
}

// FillWithRetry waits for the element and sets its value, retrying on failure
func (a *Accessor) FillWithRetry(ctx context.Context, selector, value string, opts ...PolicyOption) error {
	return a.retry(ctx, OpFill, selector, opts, func(loc Locator) error {
		return loc.Fill(value)
	})
}

// GetTextWithRetry waits for the element and returns its rendered text as is
func (a *Accessor) GetTextWithRetry(ctx context.Context, selector string, opts ...PolicyOption) (string, error) {
	var text string
	err := a.retry(ctx, OpRead, selector, opts, func(loc Locator) (err error) {
		text, err = loc.InnerText()
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// Exists checks if at least one element matches the selector. It's a single
// query: absence is a valid answer and is never retried.
func (a *Accessor) Exists(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	count, err := a.page.Locator(selector).Count()
	if err != nil {
		return false, fmt.Errorf("unable to count elements %q: %w", selector, err)
	}
	return count > 0, nil
}

func (a *Accessor) retry(ctx context.Context, op Op, selector string, opts []PolicyOption, step func(Locator) error) error {
	policy := a.policy.apply(opts)

	ctx, span := a.tracer.Start(ctx, "element."+string(op), trace.WithAttributes(
		attribute.String("selector", selector),
		attribute.Int("max_attempts", policy.MaxAttempts),
	))
	defer span.End()

	started := time.Now()
	c := &counter{Count: policy.MaxAttempts, Wait: policy.InterAttemptDelay}
	var lastErr error
	for {
		ok, err := c.Next(ctx)
		if err != nil {
			return a.interrupted(span, op, selector, err)
		}
		if !ok {
			break
		}

		lastErr = a.attempt(ctx, selector, policy.TimeoutPerAttempt, step)
		if lastErr == nil {
			span.SetAttributes(attribute.Int("attempts", c.Attempt()))
			a.observer.Succeeded(ctx, op, selector, c.Attempt(), time.Since(started))
			return nil
		}
		if err := ctx.Err(); err != nil {
			return a.interrupted(span, op, selector, err)
		}
		// The last failure is reported as exhaustion
		if c.Attempt() < policy.MaxAttempts {
			a.observer.AttemptFailed(ctx, op, selector, c.Attempt(), lastErr)
		}
	}

	exhausted := &InteractionExhaustedError{
		Op:       op,
		Selector: selector,
		Attempts: c.Attempt(),
		LastErr:  lastErr,
	}
	span.SetAttributes(attribute.Int("attempts", c.Attempt()))
	span.RecordError(exhausted)
	span.SetStatus(codes.Error, "exhausted")
	a.observer.Exhausted(ctx, op, selector, c.Attempt(), lastErr)
	return exhausted
}

func (a *Accessor) attempt(ctx context.Context, selector string, timeout time.Duration, step func(Locator) error) error {
	loc, err := a.WaitVisible(ctx, selector, timeout)
	if err != nil {
		return err
	}
	return step(loc)
}

func (*Accessor) interrupted(span trace.Span, op Op, selector string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "interrupted")
	return fmt.Errorf("%s %q interrupted: %w", op, selector, err)
}
