package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

var ErrUnknownExporter = errors.New("[observability] unknown metrics exporter")

type ExporterKind uint8

const (
	ConsoleExporter ExporterKind = iota
	PrometheusExporter
)

func (kind ExporterKind) String() string {
	switch kind {
	case ConsoleExporter:
		return "console"
	case PrometheusExporter:
		return "prometheus"
	default:
	}
	return "unknown"
}

const (
	defaultExportInterval = 10 * time.Second
	defaultExportTimeout  = 5 * time.Second
)

type Config struct {
	Exporter ExporterKind
	// Console exporter only.
	Interval time.Duration
	Timeout  time.Duration
	Writer   io.Writer
	// Prometheus exporter only. A nil Registerer means the prometheus
	// default registerer.
	Namespace  string
	Registerer promclient.Registerer
	// IsGlobal installs the provider as the otel global meter provider,
	// which the sets created by tree.WithXSetStats use.
	IsGlobal bool
}

// Serves for test/dev environment.
func newConsoleMeterProvider(interval, timeout time.Duration, opts ...stdoutmetric.Option) (*metric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	))), nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func newPrometheusMeterProvider(opts ...prometheus.Option) (*metric.MeterProvider, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(metric.WithReader(exporter)), nil
}

// NewMeterProvider builds a SDK meter provider by the exporter kind.
// The caller owns the provider and has to shut it down.
func NewMeterProvider(cfg Config) (*metric.MeterProvider, error) {
	var (
		mp  *metric.MeterProvider
		err error
	)
	switch cfg.Exporter {
	case ConsoleExporter:
		w := lo.Ternary[io.Writer](cfg.Writer != nil, cfg.Writer, os.Stdout)
		mp, err = newConsoleMeterProvider(
			lo.Ternary(cfg.Interval > 0, cfg.Interval, defaultExportInterval),
			lo.Ternary(cfg.Timeout > 0, cfg.Timeout, defaultExportTimeout),
			stdoutmetric.WithEncoder(json.NewEncoder(w)),
		)
	case PrometheusExporter:
		opts := make([]prometheus.Option, 0, 2)
		if len(cfg.Namespace) > 0 {
			opts = append(opts, prometheus.WithNamespace(cfg.Namespace))
		}
		if cfg.Registerer != nil {
			opts = append(opts, prometheus.WithRegisterer(cfg.Registerer))
		}
		mp, err = newPrometheusMeterProvider(opts...)
	default:
		return nil, ErrUnknownExporter
	}
	if err != nil {
		return nil, err
	}
	if cfg.IsGlobal {
		otel.SetMeterProvider(mp)
	}
	return mp, nil
}
