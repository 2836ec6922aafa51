package main

import (
	"context"
	"expvar"
	"log"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/dev-date/media-service/internal/infrastructure/configs"
	"github.com/dev-date/media-service/internal/infrastructure/ratelimiter"
	"github.com/dev-date/media-service/internal/infrastructure/registry"
	"github.com/dev-date/media-service/internal/infrastructure/tracing"
	"github.com/dev-date/media-service/internal/infrastructure/ws"
	"github.com/dev-date/media-service/internal/presentation/api"
	"github.com/dev-date/media-service/internal/presentation/handler/health"
	"github.com/dev-date/media-service/internal/presentation/handler/rooms"
	"github.com/dev-date/media-service/internal/presentation/handler/signaling"
)

func main() {
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(tracing.NewDefaultConfig(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint))
		if err != nil {
			logger.Fatalw("failed to init tracer", "error", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	roomRegistry := registry.NewRoomRegistry(cfg.RoomStore.Capacity)
	relay := ws.NewRelay(roomRegistry, logger)

	roomHandler := rooms.NewHandler(roomRegistry)
	healthHandler := health.NewHandler()
	signalingHandler := signaling.NewHandler(relay, cfg.HTTP.AllowedOrigins, logger)

	rateLimiter := ratelimiter.NewFixedWindowRateLimiter(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame)
	defer rateLimiter.Close()

	app := api.NewApplication(*cfg, roomHandler, healthHandler, signalingHandler, logger, rateLimiter)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	logger.Fatal(app.Run(mux))
}
