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

package monitoring

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/payrollstandard/payroll-e2e/lib/element"
)

// Metrics holds the e2e run instruments, it's also an element.Observer
type Metrics struct {
	attempts  metric.Int64Counter
	failures  metric.Int64Counter
	exhausted metric.Int64Counter
	duration  metric.Float64Histogram
	smokeRuns metric.Int64Counter
}

var _ element.Observer = (*Metrics)(nil)

// NewMetrics creates the instruments on the meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var err error
	m := &Metrics{}

	if m.attempts, err = meter.Int64Counter("e2e_element_attempts",
		metric.WithDescription("Element interaction attempts made")); err != nil {
		return nil, err
	}
	if m.failures, err = meter.Int64Counter("e2e_element_failures",
		metric.WithDescription("Failed element interaction attempts")); err != nil {
		return nil, err
	}
	if m.exhausted, err = meter.Int64Counter("e2e_element_exhausted",
		metric.WithDescription("Element operations failed after all the attempts")); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram("e2e_element_operation_duration",
		metric.WithDescription("Duration of the successful element operations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30)); err != nil {
		return nil, err
	}
	if m.smokeRuns, err = meter.Int64Counter("e2e_smoke_runs",
		metric.WithDescription("Smoke scenario runs per browser")); err != nil {
		return nil, err
	}

	return m, nil
}

func opAttrs(op element.Op) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("op", string(op)))
}

func (m *Metrics) AttemptFailed(ctx context.Context, op element.Op, _ string, _ int, _ error) {
	m.failures.Add(ctx, 1, opAttrs(op))
}

func (m *Metrics) Succeeded(ctx context.Context, op element.Op, _ string, attempts int, elapsed time.Duration) {
	m.attempts.Add(ctx, int64(attempts), opAttrs(op))
	m.duration.Record(ctx, elapsed.Seconds(), opAttrs(op))
}

func (m *Metrics) Exhausted(ctx context.Context, op element.Op, _ string, attempts int, _ error) {
	m.attempts.Add(ctx, int64(attempts), opAttrs(op))
	// The last failed attempt is reported only here
	m.failures.Add(ctx, 1, opAttrs(op))
	m.exhausted.Add(ctx, 1, opAttrs(op))
}

// SmokeRun counts the smoke scenario result for the browser
func (m *Metrics) SmokeRun(ctx context.Context, browser string, passed bool) {
	result := "pass"
	if !passed {
		result = "fail"
	}
	m.smokeRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("browser", browser),
		attribute.String("result", result),
	))
}
