package main

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	_ "filemeta/docs"
	"filemeta/internal/config"
	"filemeta/internal/database"
	handlers "filemeta/internal/http/handler"
	"filemeta/internal/http/middleware"
	"filemeta/internal/logger"
	"filemeta/internal/otel"
	"filemeta/internal/repository"
	mongorepo "filemeta/internal/repository/mongo"
	"filemeta/internal/repository/postgres"
	"filemeta/internal/service"
	"filemeta/internal/storage"
	"filemeta/internal/upload"
	"filemeta/web"
)

// multipartOverhead is the body-limit headroom for boundaries and part headers.
const multipartOverhead = 64 << 10

// @title File Metadata API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		logger.Init(os.Stdout, "info", nil)
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(os.Stdout, cfg.LogLevel, cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	// Connect before serving; the store is handed to everything that needs it.
	store, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to connect to document store")
	}
	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare document store")
	}

	var repo repository.FileMetadataRepository
	if store.Mongo != nil {
		repo = mongorepo.NewFileMetadataMongo(store.Collection())
	} else {
		repo = postgres.NewFileMetadataPostgres(store.SQL)
	}

	stager, err := newStager(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("staging", cfg.Upload.Staging).Msg("failed to initialize upload staging")
	}

	recv := upload.NewReceiver(handlers.UploadField, cfg.Upload.MaxBytes, stager)
	svc := service.NewFileMetadataService(repo)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             int(cfg.Upload.MaxBytes) + multipartOverhead,
		DisableStartupMessage: true,
	})

	// RequestID first so every log line and error body can carry it.
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger())
	app.Use(promMiddleware.Handler())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	var assets fs.FS = web.Assets
	if cfg.StaticDir != "" {
		assets = os.DirFS(cfg.StaticDir)
	}
	if err := handlers.RegisterRoutes(app, assets, recv, svc); err != nil {
		log.Fatal().Err(err).Msg("failed to register routes")
	}

	var ops *fiber.App
	if cfg.OpsPort != "" {
		ops = fiber.New(fiber.Config{
			ErrorHandler:          handlers.ErrorHandler(),
			DisableStartupMessage: true,
		})
		handlers.RegisterOpsRoutes(ops, store.Ping, reg)
		go func() {
			log.Info().Str("addr", ":"+cfg.OpsPort).Msg("starting ops server")
			if err := ops.Listen(":" + cfg.OpsPort); err != nil {
				log.Error().Err(err).Msg("ops server stopped")
			}
		}()
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.Port).Str("driver", store.Driver).Msg("your app is listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	log.Warn().Msg("shutting down http server")

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("failed to shutdown http server gracefully")
	}
	if ops != nil {
		if err := ops.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Error().Err(err).Msg("failed to shutdown ops server gracefully")
		}
	}

	// In-flight requests are done; only now is it safe to drop the store.
	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := store.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("failed to disconnect document store")
	}
	if err := shutdownTracing(closeCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown tracer provider")
	}
	log.Warn().Msg("http server gracefully stopped")
}

func newStager(ctx context.Context, cfg *config.AppConfig) (upload.Stager, error) {
	if cfg.Upload.Staging == config.StagingMinIO {
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return upload.NewObjectStager(objStore), nil
	}
	return upload.NewDiskStager(cfg.Upload.TempDir), nil
}
