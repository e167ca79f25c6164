package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"wayfinder/cmd/fx/chat_fx"
	"wayfinder/cmd/fx/config_fx"
	"wayfinder/cmd/fx/controllers_fx"
	"wayfinder/cmd/fx/db_fx"
	"wayfinder/cmd/fx/geocode_fx"
	"wayfinder/cmd/fx/logger_fx"
	"wayfinder/cmd/fx/memcache_fx"
	"wayfinder/cmd/fx/recommendation_fx"
	"wayfinder/cmd/fx/session_fx"
	"wayfinder/internal/api"
	"wayfinder/internal/config"
	"wayfinder/pkg/middleware"
	"wayfinder/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		geocode_fx.Module,
		recommendation_fx.Module,
		session_fx.Module,
		chat_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	logger *zap.Logger,
	signer *utils.SessionSigner,
	ctl api.Controllers) *gin.Engine {

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	api.RegisterRoutes(r, signer, ctl)

	return r
}
