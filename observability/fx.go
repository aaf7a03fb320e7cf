package observability

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/benz9527/xset/lib/xlog"
)

type meterProviderParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Logger    xlog.XLogger `optional:"true"`
}

func newFxMeterProvider(params meterProviderParams) (metric.MeterProvider, error) {
	logger := params.Logger
	if logger == nil {
		logger = xlog.NewNopXLogger()
	}
	logger = logger.Named("observability")

	mp, err := NewMeterProvider(params.Config)
	if err != nil {
		logger.Error(err, "[observability] unable to build meter provider",
			zap.String("exporter", params.Config.Exporter.String()),
		)
		return nil, err
	}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("[observability] meter provider started",
				zap.String("exporter", params.Config.Exporter.String()),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := mp.Shutdown(ctx); err != nil {
				logger.Error(err, "[observability] meter provider shutdown failed")
				return err
			}
			logger.Info("[observability] meter provider stopped")
			return nil
		},
	})
	return mp, nil
}

// Module provides an otel metric.MeterProvider, which is shut down (and
// flushed) when the fx application stops. An xlog.XLogger in the graph is
// used if present.
func Module(cfg Config) fx.Option {
	return fx.Module("observability",
		fx.Supply(cfg),
		fx.Provide(newFxMeterProvider),
	)
}
