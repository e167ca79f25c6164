package logger_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"wayfinder/internal/config"
	"wayfinder/pkg/logger"
)

var Module = fx.Options(
	fx.Provide(provideLogger),
	fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: l.Named("fx")}
	}),
)

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	restore := zap.ReplaceGlobals(l)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			restore()
			_ = l.Sync()
			return nil
		},
	})
	return l, nil
}
