package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"homecare-rental/internal/analytics"
	"homecare-rental/internal/config"
	"homecare-rental/internal/handlers"
	"homecare-rental/internal/middleware"
	"homecare-rental/internal/notifier"
	"homecare-rental/internal/repository"
	"homecare-rental/internal/routes"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	logger := config.GetLogger()

	// 1. Env
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}
	config.SetLogLevel(config.GetEnv("LOG_LEVEL", "info"))
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := utils.CheckJWTSecret(); err != nil {
		logger.WithError(err).Fatal("refusing to start")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	config.ConnectDB()
	config.ConnectRedis(ctx)
	if err := handlers.EnsureAdmin(ctx, config.DB); err != nil {
		config.LogError(logger, "main", "main", "seed admin", nil, err)
	}

	// 3. Push
	if err := utils.InitFCM(ctx); err != nil {
		config.LogError(logger, "main", "main", "init fcm", nil, err)
	}
	utils.RegisterValidators()

	store := repository.NewGormStore(config.DB)

	if utils.FCMEnabled() {
		digest := notifier.New(store)
		scheduler, err := digest.Start(config.IntFromEnv("NOTIFIER_INTERVAL_MINUTES", 60))
		if err != nil {
			config.LogError(logger, "main", "main", "start notifier", nil, err)
		} else {
			defer scheduler.Stop()
		}
	}

	// 4. Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware())

	cacheTTL := time.Duration(config.IntFromEnv("ANALYTICS_CACHE_SECONDS", 60)) * time.Second
	svc := analytics.NewService(store, analytics.RedisCache{}, cacheTTL)
	routes.SetupRoutes(r, handlers.NewTimelineHandler(store), handlers.NewAnalyticsHandler(svc))

	// 5. Serve
	srv := &http.Server{
		Addr:              ":" + config.GetEnv("PORT", "8080"),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.LogError(logger, "main", "main", "listen", srv.Addr, err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.LogError(logger, "main", "main", "shutdown", nil, err)
	}
	logger.Info("server stopped")
}
