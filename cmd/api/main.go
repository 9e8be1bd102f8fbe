package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Juliussaint/gmianugerah/internal/api/http"
	"github.com/Juliussaint/gmianugerah/internal/api/http/handlers"
	"github.com/Juliussaint/gmianugerah/internal/auth"
	"github.com/Juliussaint/gmianugerah/internal/cache"
	"github.com/Juliussaint/gmianugerah/internal/config"
	"github.com/Juliussaint/gmianugerah/internal/events"
	"github.com/Juliussaint/gmianugerah/internal/observability"
	"github.com/Juliussaint/gmianugerah/internal/persistence"
	"github.com/Juliussaint/gmianugerah/internal/repository"
	"github.com/Juliussaint/gmianugerah/internal/service"
	"github.com/Juliussaint/gmianugerah/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	store := repository.NewStore(pg.PoolHandle())
	memberCache := cache.NewMemberCache(redis, cfg.Redis.CacheTTL(), logger)
	allocator := service.NewIdentifierAllocator(logger, metrics)

	memberService := service.NewMemberService(service.MemberDependencies{
		Store:          store,
		Allocator:      allocator,
		Cache:          memberCache,
		Dispatcher:     dispatcher,
		SystemOperator: cfg.Registry.SystemOperatorUsername,
	})
	sectorService := service.NewSectorService(store)
	familyService := service.NewFamilyService(store, dispatcher)
	authService := service.NewAuthService(cfg.Auth, store.Operators())

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), store.Operators())

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Members:        handlers.NewMembersHandler(memberService),
		Sectors:        handlers.NewSectorsHandler(sectorService),
		Families:       handlers.NewFamiliesHandler(familyService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
