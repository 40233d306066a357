package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/logistics-console/internal/api/http"
	"github.com/spec-kit/logistics-console/internal/api/http/handlers"
	"github.com/spec-kit/logistics-console/internal/assignment"
	"github.com/spec-kit/logistics-console/internal/auth"
	"github.com/spec-kit/logistics-console/internal/config"
	"github.com/spec-kit/logistics-console/internal/events"
	"github.com/spec-kit/logistics-console/internal/observability"
	"github.com/spec-kit/logistics-console/internal/persistence"
	"github.com/spec-kit/logistics-console/internal/repository"
	"github.com/spec-kit/logistics-console/internal/service"
	"github.com/spec-kit/logistics-console/internal/worker"
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

	rdb := persistence.NewRedis(cfg.Redis, logger)
	defer rdb.Close()

	pool := pg.PoolHandle()
	roleRepo := repository.NewCachedRoleRepository(repository.NewRoleRepository(pool), rdb.Client)
	collaboratorRepo := repository.NewCollaboratorRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	deliveryPointRepo := repository.NewDeliveryPointRepository(pool)
	auditRepo := repository.NewReviewAuditRepository(pool)
	invitationRepo := repository.NewInvitationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	companyService := service.NewCompanyService(companyRepo, deliveryPointRepo)
	resolver := assignment.NewResolver(companyService)

	authService := service.NewAuthService(*cfg, collaboratorRepo)
	collaboratorService := service.NewCollaboratorService(*cfg, service.CollaboratorDependencies{
		CollaboratorRepo: collaboratorRepo,
		RoleRepo:         roleRepo,
		InvitationRepo:   invitationRepo,
		Resolver:         resolver,
		Dispatcher:       dispatcher,
	})
	reviewService := service.NewReviewService(service.ReviewDependencies{
		CollaboratorRepo:  collaboratorRepo,
		CompanyRepo:       companyRepo,
		DeliveryPointRepo: deliveryPointRepo,
		AuditRepo:         auditRepo,
		Dispatcher:        dispatcher,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), collaboratorRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rdb, metrics),
		Auth:           handlers.NewAuthHandler(authService, collaboratorService),
		Collaborators:  handlers.NewCollaboratorsHandler(collaboratorService),
		Companies:      handlers.NewCompaniesHandler(companyService),
		Reviews:        handlers.NewReviewsHandler(reviewService),
		AuthMiddleware: authMiddleware,
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
