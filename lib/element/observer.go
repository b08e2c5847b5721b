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

	"github.com/payrollstandard/payroll-e2e/lib/log"
)

// Observer receives the outcome of every attempt made by the Accessor
type Observer interface {
	// AttemptFailed is called for each failed attempt that will be retried
	AttemptFailed(ctx context.Context, op Op, selector string, attempt int, err error)
	// Succeeded is called once the operation completed
	Succeeded(ctx context.Context, op Op, selector string, attempts int, elapsed time.Duration)
	// Exhausted is called when no attempts are left
	Exhausted(ctx context.Context, op Op, selector string, attempts int, err error)
}

// LogObserver writes attempt outcomes to the structured log
type LogObserver struct{}

func (LogObserver) AttemptFailed(ctx context.Context, op Op, selector string, attempt int, err error) {
	log.WithFunc("element", "retry").DebugContext(ctx, "Attempt failed, retrying", "op", op, "selector", selector, "attempt", attempt, "err", err)
}

func (LogObserver) Succeeded(ctx context.Context, op Op, selector string, attempts int, elapsed time.Duration) {
	if attempts > 1 {
		log.WithFunc("element", "retry").InfoContext(ctx, "Succeeded after retry", "op", op, "selector", selector, "attempts", attempts, "elapsed", elapsed)
	}
}

func (LogObserver) Exhausted(ctx context.Context, op Op, selector string, attempts int, err error) {
	log.WithFunc("element", "retry").WarnContext(ctx, "Attempts exhausted", "op", op, "selector", selector, "attempts", attempts, "err", err)
}

type multiObserver []Observer

// Observers combines several observers into one
func Observers(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) AttemptFailed(ctx context.Context, op Op, selector string, attempt int, err error) {
	for _, o := range m {
		o.AttemptFailed(ctx, op, selector, attempt, err)
	}
}

func (m multiObserver) Succeeded(ctx context.Context, op Op, selector string, attempts int, elapsed time.Duration) {
	for _, o := range m {
		o.Succeeded(ctx, op, selector, attempts, elapsed)
	}
}

func (m multiObserver) Exhausted(ctx context.Context, op Op, selector string, attempts int, err error) {
	for _, o := range m {
		o.Exhausted(ctx, op, selector, attempts, err)
	}
}
