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

// Package monitoring provides OpenTelemetry-based observability for the e2e runs
package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	otellog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/payrollstandard/payroll-e2e/lib/build"
	"github.com/payrollstandard/payroll-e2e/lib/log"
	"github.com/payrollstandard/payroll-e2e/lib/util"
)

const serviceName = "payroll-e2e"

// Config defines monitoring configuration
type Config struct {
	Enabled         bool          `json:"enabled"`          // Enable/disable monitoring
	OTLPEndpoint    string        `json:"otlp_endpoint"`    // OTLP endpoint for traces, metrics, logs, empty to skip export
	PyroscopeURL    string        `json:"pyroscope_url"`    // Pyroscope URL for profiling
	ServiceName     string        `json:"service_name"`     // Service name for telemetry
	RunID           string        `json:"run_id"`           // Identifier of the test run, set by the runner
	Environment     string        `json:"environment"`      // Target environment of the run
	SampleRate      float64       `json:"sample_rate"`      // Trace sampling rate (0.0 to 1.0)
	MetricsInterval util.Duration `json:"metrics_interval"` // Metrics export interval
	EnableProfiling bool          `json:"enable_profiling"` // Enable profiling
	EnableTracing   bool          `json:"enable_tracing"`   // Enable tracing
	EnableMetrics   bool          `json:"enable_metrics"`   // Enable metrics
	EnableLogs      bool          `json:"enable_logs"`      // Enable logs
}

// DefaultConfig returns default monitoring configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled:         false,
		OTLPEndpoint:    "localhost:4317",
		PyroscopeURL:    "http://localhost:4040",
		ServiceName:     serviceName,
		SampleRate:      1.0,
		MetricsInterval: util.Duration(15 * time.Second),
		EnableProfiling: false,
		EnableTracing:   true,
		EnableMetrics:   true,
		EnableLogs:      true,
	}
}

// Validate checks the config values
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate should be in range 0.0-1.0: %v", c.SampleRate)
	}
	if c.Enabled && c.EnableMetrics && c.OTLPEndpoint != "" && c.MetricsInterval <= 0 {
		return fmt.Errorf("metrics_interval should be positive: %v", c.MetricsInterval)
	}
	return nil
}

// Monitor represents the monitoring system
type Monitor struct {
	config        *Config
	registry      *prom.Registry
	metrics       *Metrics
	shutdownFuncs []func(context.Context) error
}

// Initialize sets up OpenTelemetry monitoring, disabled monitor still provides
// Metrics backed by the global (noop) meter
func Initialize(ctx context.Context, config *Config) (*Monitor, error) {
	logger := log.WithFunc("monitoring", "Initialize")
	m := &Monitor{config: config}

	if !config.Enabled {
		logger.Debug("Monitoring disabled")
		return m, m.initMetricsCollection()
	}

	logger.Info("Initializing OpenTelemetry", "endpoint", config.OTLPEndpoint, "run_id", config.RunID)

	res, err := m.createResource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var conn *grpc.ClientConn
	if config.OTLPEndpoint != "" {
		conn, err = grpc.NewClient(config.OTLPEndpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
		}
		m.shutdownFuncs = append(m.shutdownFuncs, func(context.Context) error { return conn.Close() })
	}

	if config.EnableTracing && conn != nil {
		if err := m.initTracing(ctx, conn, res); err != nil {
			return nil, m.abort(ctx, fmt.Errorf("failed to initialize tracing: %w", err))
		}
		logger.Debug("Tracing initialized")
	}

	if config.EnableMetrics {
		if err := m.initMetrics(ctx, conn, res); err != nil {
			return nil, m.abort(ctx, fmt.Errorf("failed to initialize metrics: %w", err))
		}
		logger.Debug("Metrics initialized")
	}

	if config.EnableLogs && conn != nil {
		if err := m.initLogging(ctx, conn, res); err != nil {
			return nil, m.abort(ctx, fmt.Errorf("failed to initialize logging: %w", err))
		}
		logger.Debug("Logging initialized")
	}

	if config.EnableProfiling {
		if err := m.initProfiling(); err != nil {
			return nil, m.abort(ctx, fmt.Errorf("failed to initialize profiling: %w", err))
		}
		logger.Debug("Profiling initialized")
	}

	if err := m.initMetricsCollection(); err != nil {
		return nil, m.abort(ctx, err)
	}

	logger.Info("OpenTelemetry initialization complete")
	return m, nil
}

func (m *Monitor) abort(ctx context.Context, err error) error {
	return errors.Join(err, m.Shutdown(ctx))
}

func (m *Monitor) createResource() (*resource.Resource, error) {
	return resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(m.config.ServiceName),
		semconv.ServiceVersion(build.Version),
		semconv.DeploymentEnvironmentName(m.config.Environment),
		attribute.String("e2e.run_id", m.config.RunID),
	))
}

func (m *Monitor) initTracing(ctx context.Context, conn *grpc.ClientConn, res *resource.Resource) error {
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(m.config.SampleRate)),
	)

	// Profiles get linked to the spans when pyroscope is running
	var provider oteltrace.TracerProvider = tracerProvider
	if m.config.EnableProfiling {
		provider = otelpyroscope.NewTracerProvider(tracerProvider)
	}
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	m.shutdownFuncs = append(m.shutdownFuncs, tracerProvider.Shutdown)
	return nil
}

func (m *Monitor) initMetrics(ctx context.Context, conn *grpc.ClientConn, res *resource.Resource) error {
	// Separate registry to not mix with the go runtime collectors of the default one
	m.registry = prom.NewRegistry()
	promExporter, err := prometheus.New(prometheus.WithRegisterer(m.registry))
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	opts := []metric.Option{
		metric.WithResource(res),
		metric.WithReader(promExporter),
	}
	if conn != nil {
		metricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
		if err != nil {
			return fmt.Errorf("failed to create metrics exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(metric.NewPeriodicReader(metricExporter,
			metric.WithInterval(m.config.MetricsInterval.Std()))))
	}

	meterProvider := metric.NewMeterProvider(opts...)
	otel.SetMeterProvider(meterProvider)

	m.shutdownFuncs = append(m.shutdownFuncs, meterProvider.Shutdown)
	return nil
}

func (m *Monitor) initLogging(ctx context.Context, conn *grpc.ClientConn, res *resource.Resource) error {
	logExporter, err := otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(conn))
	if err != nil {
		return fmt.Errorf("failed to create log exporter: %w", err)
	}

	loggerProvider := otellog.NewLoggerProvider(
		otellog.WithProcessor(otellog.NewBatchProcessor(logExporter)),
		otellog.WithResource(res),
	)
	global.SetLoggerProvider(loggerProvider)

	m.shutdownFuncs = append(m.shutdownFuncs, loggerProvider.Shutdown)
	return nil
}

func (m *Monitor) initProfiling() error {
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: m.config.ServiceName,
		ServerAddress:   m.config.PyroscopeURL,
		Tags: map[string]string{
			"run_id":      m.config.RunID,
			"environment": m.config.Environment,
			"version":     build.Version,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start pyroscope: %w", err)
	}

	m.shutdownFuncs = append(m.shutdownFuncs, func(context.Context) error {
		return profiler.Stop()
	})
	return nil
}

func (m *Monitor) initMetricsCollection() (err error) {
	m.metrics, err = NewMetrics(otel.Meter(m.config.ServiceName))
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}
	return nil
}

// Metrics returns the e2e metrics collection
func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

// Handler serves the collected metrics in Prometheus format
func (m *Monitor) Handler() http.Handler {
	var h http.Handler
	if m.registry == nil {
		h = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "metrics are disabled", http.StatusServiceUnavailable)
		})
	} else {
		h = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	}
	return otelhttp.NewHandler(h, "metrics")
}

// Shutdown flushes and stops the telemetry providers in reverse order
func (m *Monitor) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(m.shutdownFuncs) - 1; i >= 0; i-- {
		if err := m.shutdownFuncs[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	m.shutdownFuncs = nil

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("shutdown errors: %w", err)
	}
	return nil
}

// IsEnabled returns whether monitoring is enabled
func (m *Monitor) IsEnabled() bool {
	return m.config.Enabled
}
