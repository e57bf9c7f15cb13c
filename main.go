package main

import (
	"context"
	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/hyperdxio/otel-config-go/otelconfig"
	"go.uber.org/zap"
	"imagetools/api/rest"
	"imagetools/cache"
	"imagetools/config"
	"imagetools/converter"
	"imagetools/service"
	"imagetools/shared/log"
	"imagetools/shared/trace"
	"imagetools/stats"
	"log/slog"
	"strings"
)

// multipart framing and the options field on top of the image itself
const bodyOverhead = 1024 * 1024

//	@title			Image tools
//	@version		1.0
//	@description	Convert, resize and compress images

// @BasePath	/
func main() {
	serviceConfig := config.New()

	ctx := context.Background()

	tp := trace.InitTrace()
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			slog.Error("Error shutting down tracer provider", "error", err)
		}
	}()

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry()
	if err != nil {
		slog.Error("Error configuring OpenTelemetry", "error", err)
	}
	defer otelShutdown()

	logger := log.InitLogger(ctx, serviceConfig.LogLevel)
	defer func() {
		if err = logger.Sync(); err != nil {
			slog.Error("Error syncing logger", "error", err)
		}
	}()

	codec, err := converter.New(serviceConfig.Conversion.CodecBackend, logger)
	if err != nil {
		logger.Panic(err.Error())
	}

	resultCache, err := cache.New(serviceConfig.Cache)
	if err != nil {
		logger.Error(err.Error())
		panic("Failed to create conversion cache")
	}
	if err = cache.Check(ctx, resultCache); err != nil {
		logger.Error(err.Error())
		panic("Failed to reach conversion cache")
	}
	defer func() {
		if err := cache.Close(resultCache); err != nil {
			logger.Error("Error closing conversion cache", zap.Error(err))
		}
	}()

	recorder, err := stats.New(serviceConfig.Mongo)
	if err != nil {
		logger.Error(err.Error())
		panic("Failed to connect to mongo")
	}
	if m, ok := recorder.(*stats.Mongo); ok {
		defer func() {
			if err := m.Close(ctx); err != nil {
				logger.Error("Error disconnecting from mongo", zap.Error(err))
			}
		}()
	}

	logger.Info("Starting image tools",
		zap.String("env", serviceConfig.Env),
		zap.String("codec", serviceConfig.Conversion.CodecBackend),
		zap.String("cache", serviceConfig.Cache.Backend),
		zap.String("cors_origin", serviceConfig.AllowedOrigin()),
	)

	app := fiber.New(fiber.Config{
		AppName:      serviceConfig.AppName,
		BodyLimit:    serviceConfig.Conversion.MaxUploadBytes() + bodyOverhead,
		ErrorHandler: rest.ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(
		recover.New(),
		requestid.New(requestid.Config{Generator: uuid.NewString}),
		otelfiber.Middleware(),
		fiberzap.New(fiberzap.Config{Logger: logger, Fields: []string{"requestId", "latency", "status", "method", "url", "ip"}}),
		cors.New(cors.Config{
			AllowOrigins: serviceConfig.AllowedOrigin(),
			AllowMethods: strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions}, ","),
			AllowHeaders: fiber.HeaderContentType,
		}),
		compress.New(compress.Config{Level: compress.LevelBestSpeed}),
		etag.New(),
		limiter.New(limiter.Config{
			Next: func(c *fiber.Ctx) bool {
				return c.IP() == "127.0.0.1"
			},
			Max:        serviceConfig.RateLimitMaxRequests,
			Expiration: serviceConfig.RateLimitDuration,
		}),
		swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: serviceConfig.SwaggerFile,
			Path:     "docs",
			Title:    "Image tools",
		}),
	)

	imageService := service.NewImageService(codec, resultCache, recorder, serviceConfig.Conversion, logger)

	rest.NewConversionController(app, serviceConfig, imageService, logger)
	rest.NewStaticController(app, serviceConfig.StaticDir)

	if err = app.Listen(":" + serviceConfig.Port); err != nil {
		logger.Panic(err.Error())
		return
	}
}
