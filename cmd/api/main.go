package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-api/internal/api/http"
	"github.com/spec-kit/helpdesk-api/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-api/internal/auth"
	"github.com/spec-kit/helpdesk-api/internal/authz"
	"github.com/spec-kit/helpdesk-api/internal/config"
	"github.com/spec-kit/helpdesk-api/internal/events"
	"github.com/spec-kit/helpdesk-api/internal/notify"
	"github.com/spec-kit/helpdesk-api/internal/observability"
	"github.com/spec-kit/helpdesk-api/internal/persistence"
	"github.com/spec-kit/helpdesk-api/internal/repository"
	"github.com/spec-kit/helpdesk-api/internal/service"
	"github.com/spec-kit/helpdesk-api/internal/storage"
	"github.com/spec-kit/helpdesk-api/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	conversationRepo := repository.NewConversationRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)

	gate := authz.NewDefaultGate()
	dispatcher := events.NewInMemoryDispatcher()

	var mailer notify.Mailer
	if cfg.Notification.SendGridAPIKey != "" {
		mailer = notify.NewSendGridMailer(cfg.Notification.SendGridAPIKey, cfg.Notification.EmailFrom, cfg.Notification.FromName)
	} else {
		logger.Warn("SENDGRID_API_KEY not set; emails will be logged only")
		mailer = notify.NewLogMailer(logger)
	}

	userService := service.NewUserService(service.UserDependencies{
		UserRepo: userRepo,
		Gate:     gate,
	})
	categoryService := service.NewCategoryService(categoryRepo, gate)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		HistoryRepo: historyRepo,
		UserRepo:    userRepo,
		Gate:        gate,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	conversationService := service.NewConversationService(service.ConversationDependencies{
		ConversationRepo: conversationRepo,
		MessageRepo:      messageRepo,
		TicketRepo:       ticketRepo,
		Gate:             gate,
		Dispatcher:       dispatcher,
	})
	attachmentService := service.NewAttachmentService(service.AttachmentDependencies{
		AttachmentRepo: attachmentRepo,
		TicketRepo:     ticketRepo,
		Uploader:       storage.NewClient(cfg.Storage.BaseURL, cfg.Storage.ServiceKey, cfg.Storage.Bucket),
		Gate:           gate,
		Logger:         logger,
		MaxFileSize:    cfg.Upload.MaxFileSizeBytes,
		MaxFiles:       cfg.Upload.MaxFilesPerTicket,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		UserRepo: userRepo,
		Mailer:   mailer,
		Logger:   logger,
	})
	worker.StartNotificationWorker(dispatcher, notificationService)

	verifier := auth.NewTokenVerifier(cfg.Auth.IdentityJWTSecret)
	authMiddleware := auth.NewAuthMiddleware(verifier, userService)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Upload.MaxFileSizeBytes)*cfg.Upload.MaxFilesPerTicket + 1024*1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(userService),
		Tickets:        handlers.NewTicketsHandler(ticketService, attachmentService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Conversations:  handlers.NewConversationsHandler(conversationService),
		Files:          handlers.NewFilesHandler(attachmentService),
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
