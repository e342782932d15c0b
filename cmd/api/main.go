package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/partner-portal/internal/api/http"
	"github.com/spec-kit/partner-portal/internal/api/http/handlers"
	"github.com/spec-kit/partner-portal/internal/auth"
	"github.com/spec-kit/partner-portal/internal/config"
	"github.com/spec-kit/partner-portal/internal/events"
	"github.com/spec-kit/partner-portal/internal/observability"
	"github.com/spec-kit/partner-portal/internal/partnerapi"
	"github.com/spec-kit/partner-portal/internal/persistence"
	"github.com/spec-kit/partner-portal/internal/repository"
	"github.com/spec-kit/partner-portal/internal/service"
	"github.com/spec-kit/partner-portal/internal/signup"
	"github.com/spec-kit/partner-portal/internal/tokenstore"
	"github.com/spec-kit/partner-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dependencies := map[string]handlers.Pinger{}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var attempts repository.SignupAttemptRepository
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		attempts = repository.NewSignupAttemptRepository(pg.PoolHandle())
		dependencies["postgres"] = pg
	} else {
		dependencies["postgres"] = nil
	}

	var tokens tokenstore.Store
	switch cfg.Tokens.Backend {
	case config.TokenBackendMemory:
		logger.Warn("partner tokens are kept in memory and lost on restart")
		tokens = tokenstore.NewMemoryStore()
	default:
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		tokens = tokenstore.NewRedisStore(redis.Client, cfg.Tokens.TTL())
		dependencies["redis"] = redis
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, attempts, metrics, logger))

	client := partnerapi.NewClient(cfg.Upstream.SignupURL(), cfg.Upstream.Timeout())
	registry := signup.NewRegistry(func(sessionID string) *signup.Machine {
		return signup.NewMachine(client, tokenstore.Scoped(tokens, sessionID),
			signup.WithRequireToken(cfg.Signup.RequireToken),
			signup.WithLogger(logger.With(zap.String("session_id", sessionID))),
		)
	})
	signupService := service.NewSignupService(registry, dispatcher, logger)

	go worker.RunSessionSweeper(ctx, registry, cfg.Session.SweepInterval(), cfg.Session.IdleTTL(), logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, metrics),
		Signup:            handlers.NewSignupHandler(signupService),
		Settings:          handlers.NewSettingsHandler(),
		SessionMiddleware: auth.NewSessionMiddleware(cfg.Session),
		AuthMiddleware:    auth.NewAuthMiddleware(tokens, auth.NewTokenInspector(cfg.Auth.JWTSecret), logger),
	})

	go func() {
		logger.Info("partner portal listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("signup_url", client.URL()),
			zap.String("token_store", cfg.Tokens.Backend),
		)
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
