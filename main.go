package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend_trainerhub/api"
	"backend_trainerhub/config"
	"backend_trainerhub/database"
	"backend_trainerhub/logging"
	"backend_trainerhub/middleware"
	"backend_trainerhub/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 15 * time.Second

// initDB инициализирует подключение к базе данных
func initDB(cfg *config.Config) {
	log.Info().Str("driver", cfg.Database.Driver).Msg("initializing database")

	// Создаем базу данных, если она не существует
	if err := database.CreateDatabaseIfNotExists(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to create database")
	}

	// Подключаемся к базе данных
	if err := database.ConnectDatabase(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	log.Info().Msg("database initialized")
}

// newNotifier возвращает Telegram уведомления, если бот настроен
func newNotifier(cfg *config.Config) services.TaskNotifier {
	if cfg.Telegram.BotToken == "" {
		return services.NoopNotifier{}
	}
	notifier, err := services.NewTelegramTaskNotifier(cfg.Telegram)
	if err != nil {
		log.Error().Err(err).Msg("telegram notifier disabled")
		return services.NoopNotifier{}
	}
	return notifier
}

func newRouter(cfg *config.Config, handlers *api.Handlers, registry *prometheus.Registry) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.GinLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{logging.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}))

	// Базовые роуты
	r.GET("/ping", api.Ping)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	auth := middleware.NewAuthMiddleware(cfg.JWT)
	group := r.Group("/api", auth.RequireAuth(), middleware.TrainerRateLimit(database.GetRedis(), cfg.RateLimit))
	handlers.RegisterRoutes(group)

	return r
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := logging.Init(cfg.Logging); err != nil {
		log.Fatal().Err(err).Msg("failed to init logging")
	}
	defer logging.Close()
	cfg.LogConfig()

	initDB(cfg)
	defer database.Close()
	db := database.GetDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var locker services.Locker = services.NewMemoryLocker()
	redisClient, err := database.InitRedis(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
		locker = services.NewRedisLocker(redisClient, cfg.Redis.LockTTL)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(registry)

	ledger := services.NewLedgerService(db, metrics)
	suppression := services.NewSuppressionService(db)
	generator := services.NewTaskGeneratorService(db, suppression, locker, newNotifier(cfg), metrics)
	subscriptions := services.NewSubscriptionService(db, services.NewPriceResolver(cfg.Billing), ledger, generator, locker, metrics)
	reconciler := services.NewLedgerReconciler(db, ledger)

	handlers := api.NewHandlers(
		subscriptions,
		services.NewTaskService(db, suppression, locker),
		generator,
		ledger,
		services.NewLedgerExportService(ledger),
	)

	scheduler := services.NewSchedulerService(cfg.Scheduler, generator, reconciler)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	server := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           newRouter(cfg, handlers, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	scheduler.Stop()
}
