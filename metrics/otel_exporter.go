package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/marcelsud/pingback/pingback"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

var _ pingback.Observer = (*OTelExporter)(nil)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *prom.Registry
	collector     Collector

	// OTel meters and instruments
	meter             metric.Meter
	receivedCounter   metric.Int64Counter
	discoveryCounter  metric.Int64Counter
	dispatchedCounter metric.Int64Counter
	storedGauge       metric.Int64ObservableGauge
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format, collector may be nil
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	registry := prom.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Create Prometheus exporter
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	// Create meter with service info
	meter := meterProvider.Meter(
		"pingback",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		meter:         meter,
	}

	// Register metrics instruments
	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.receivedCounter, err = oe.meter.Int64Counter(
		"pingback.received",
		metric.WithDescription("Inbound pingback calls by outcome"),
		metric.WithUnit("{pingbacks}"),
	)
	if err != nil {
		return fmt.Errorf("creating received counter: %w", err)
	}

	oe.discoveryCounter, err = oe.meter.Int64Counter(
		"pingback.discovery",
		metric.WithDescription("Endpoint discoveries by result"),
		metric.WithUnit("{lookups}"),
	)
	if err != nil {
		return fmt.Errorf("creating discovery counter: %w", err)
	}

	oe.dispatchedCounter, err = oe.meter.Int64Counter(
		"pingback.dispatched",
		metric.WithDescription("Outbound pingbacks sent"),
		metric.WithUnit("{pingbacks}"),
	)
	if err != nil {
		return fmt.Errorf("creating dispatched counter: %w", err)
	}

	if oe.collector == nil {
		return nil
	}

	// Stored gauge (verified pingbacks held by the sink)
	oe.storedGauge, err = oe.meter.Int64ObservableGauge(
		"pingback.verified.stored",
		metric.WithDescription("Number of verified pingbacks in the sink"),
		metric.WithUnit("{pingbacks}"),
		metric.WithInt64Callback(oe.observeStored),
	)
	if err != nil {
		return fmt.Errorf("creating stored gauge: %w", err)
	}

	return nil
}

// observeStored is a callback that reports the sink size
func (oe *OTelExporter) observeStored(ctx context.Context, observer metric.Int64Observer) error {
	stored, err := oe.collector.GetStoredCount(ctx)
	if err != nil {
		return err
	}
	observer.Observe(stored)
	return nil
}

// Received counts the outcome of a Listen call
func (oe *OTelExporter) Received(code int, verified bool) {
	attrs := []attribute.KeyValue{attribute.Bool("pingback.verified", verified)}
	if !verified {
		attrs = append(attrs, attribute.Int("pingback.fault_code", code))
	}
	oe.receivedCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// Discovered counts an endpoint discovery
func (oe *OTelExporter) Discovered(found bool) {
	oe.discoveryCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.Bool("pingback.endpoint_found", found),
	))
}

// Dispatched counts an outbound ping
func (oe *OTelExporter) Dispatched() {
	oe.dispatchedCounter.Add(context.Background(), 1)
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
