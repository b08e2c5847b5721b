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
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestAccessor_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { provider.Shutdown(context.Background()) })

	page := fakePage{"#save": &fakeLocator{waitErrs: []error{ErrWaitTimeout}}}
	a := New(page, WithDefaultPolicy(fastPolicy()), WithTracer(provider.Tracer("test")))

	if err := a.ClickWithRetry(context.Background(), "#save"); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if err := a.FillWithRetry(context.Background(), "#absent", "x", WithAttempts(1)); err == nil {
		t.Fatalf("Fill of absent element should fail")
	}
	// Exists is not traced
	if _, err := a.Exists(context.Background(), "#save"); err != nil {
		t.Fatalf("Exists failed: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("Expected 2 spans, got %d", len(spans))
	}

	click := spans[0]
	if click.Name() != "element.click" {
		t.Fatalf("Unexpected span name: %s", click.Name())
	}
	if v, ok := spanAttr(click, "selector"); !ok || v.AsString() != "#save" {
		t.Fatalf("Selector attribute is missing: %v", click.Attributes())
	}
	if v, ok := spanAttr(click, "attempts"); !ok || v.AsInt64() != 2 {
		t.Fatalf("Attempts attribute should be 2: %v", click.Attributes())
	}

	fill := spans[1]
	if fill.Name() != "element.fill" || fill.Status().Code != codes.Error {
		t.Fatalf("Fill span should have error status: %s %v", fill.Name(), fill.Status())
	}
	if v, ok := spanAttr(fill, "attempts"); !ok || v.AsInt64() != 1 {
		t.Fatalf("Attempts attribute should be 1: %v", fill.Attributes())
	}
}
