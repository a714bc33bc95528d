package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"solemate/docs"
	"solemate/internal/auth"
	"solemate/internal/config"
	"solemate/internal/database"
	"solemate/internal/database/migration"
	handlers "solemate/internal/http/handler"
	"solemate/internal/http/middleware"
	"solemate/internal/logger"
	"solemate/internal/otel"
	"solemate/internal/repository/postgres"
	"solemate/internal/service"
	"solemate/internal/storage"
)

// @title SoleMate API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "solemate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from the optional TOML file and environment (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("tracing shutdown", "error", err)
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		dsn, err := database.BuildPostgresDSN(cfg.Database)
		if err != nil {
			return err
		}
		if err := migration.NewRunner(log, dsn, cfg.Database.Host).Up(ctx); err != nil {
			return err
		}
	}

	var redisClient *redis.Client
	checks := []handlers.Check{}
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		checks = append(checks, handlers.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	} else {
		log.Warn("REDIS_ADDR not set, refresh token denylist is process-local")
	}

	// S3-compatible object storage for shoe images
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		return fmt.Errorf("initialize object storage: %w", err)
	}
	checks = append(checks, handlers.Check{Name: "storage", Ping: objStore.Ping})

	users := postgres.NewUserPostgres(db)
	inventory := postgres.NewInventoryPostgres(db)
	sales := postgres.NewSalePostgres(db)

	authSvc := service.NewAuthService(users, auth.NewIssuer(cfg.JWT), auth.NewDenylist(redisClient), service.AuthOptions{
		RotateRefreshTokens:    cfg.JWT.RotateRefreshTokens,
		BlacklistAfterRotation: cfg.JWT.BlacklistAfterRotation,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, cfg.Database.Name),
	)
	metrics, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	app := newApp(cfg, log, metrics, handlers.Deps{
		DB:            db,
		HealthChecks:  checks,
		Gatherer:      registry,
		MaxUploadSize: cfg.MinIO.MaxUploadSizeBytes(),
		Auth:          authSvc,
		Inventory:     service.NewInventoryService(objStore, inventory),
		Sales:         service.NewSaleService(objStore, inventory, sales),
		Dashboard:     service.NewDashboardService(postgres.NewDashboardPostgres(db)),
		Admin:         service.NewAdminService(objStore, users, inventory, sales),
	})

	return serve(ctx, app, cfg, log)
}

func newApp(cfg *config.AppConfig, log *slog.Logger, metrics *middleware.PrometheusMiddleware, deps handlers.Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "solemate",
		ErrorHandler: handlers.ErrorHandler(),
		// Multipart overhead on top of the image itself.
		BodyLimit:             int(deps.MaxUploadSize) + 1<<20,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())

	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	return app
}

func serve(ctx context.Context, app *fiber.App, cfg *config.AppConfig, log *slog.Logger) error {
	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

