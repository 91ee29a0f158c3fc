package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/tmnegociosdigitais/crmdesk/internal/api/http"
	"github.com/tmnegociosdigitais/crmdesk/internal/api/http/handlers"
	"github.com/tmnegociosdigitais/crmdesk/internal/auth"
	"github.com/tmnegociosdigitais/crmdesk/internal/bootstrap"
	"github.com/tmnegociosdigitais/crmdesk/internal/cache"
	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/config"
	"github.com/tmnegociosdigitais/crmdesk/internal/events"
	"github.com/tmnegociosdigitais/crmdesk/internal/observability"
	"github.com/tmnegociosdigitais/crmdesk/internal/persistence"
	"github.com/tmnegociosdigitais/crmdesk/internal/service"
	"github.com/tmnegociosdigitais/crmdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var redisCache *cache.Redis
	if redis != nil {
		redisCache = cache.New(redis.Client, logger)
	}

	clk := clock.Real()
	metrics := observability.NewMetrics(cfg.Metrics.Namespace, prometheus.DefaultRegisterer)
	dispatcher := events.NewInMemoryDispatcher()
	policy := service.PolicyFor(cfg.Tickets.StrictTransitions)

	notifications := service.NewNotificationService(dispatcher, redisCache, logger, cfg.Notification)
	worker.StartNotificationWorker(notifications, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      store,
		Policy:     policy,
		Clock:      clk,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	messageService := service.NewMessageService(service.MessageDependencies{
		Store:         store,
		Policy:        policy,
		Clock:         clk,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
		DefaultSender: cfg.Tickets.DefaultSender,
	})
	kanbanService := service.NewKanbanService(service.KanbanDependencies{
		Store:      store,
		Cache:      cache.NewKanbanConfigCache(redisCache, cfg.Redis.KanbanCacheTTL(), logger),
		Clock:      clk,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(cfg.Auth, store.Users(), tokens, clk)
	userService := service.NewUserService(store.Users(), cfg.Auth.BcryptCost, clk)

	probes := map[string]handlers.Pinger{"store": store}
	if redis != nil {
		probes["redis"] = redis
	}

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout(), httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, probes),
		Tickets:        handlers.NewTicketsHandler(ticketService, messageService),
		Kanban:         handlers.NewKanbanHandler(kanbanService, service.NewPlanService(store.Plans())),
		Contacts:       handlers.NewContactsHandler(service.NewContactService(store, clk), service.NewQueueService(store, clk)),
		Users:          handlers.NewUsersHandler(authService, userService),
		Updates:        handlers.NewUpdatesHandler(service.NewUpdateService(store.Updates(), clk)),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, store.Users()),
		Gatherer:       prometheus.DefaultGatherer,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
