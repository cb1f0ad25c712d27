package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"college-erp/config"
	"college-erp/internal/api/handler"
	"college-erp/internal/api/middleware"
	"college-erp/internal/api/router"
	"college-erp/internal/repository"
	"college-erp/internal/service"
	"college-erp/pkg/database"
	"college-erp/pkg/events"
	"college-erp/pkg/jwt"
	applogger "college-erp/pkg/logger"
	"college-erp/pkg/mailer"
	"college-erp/pkg/redis"
	"college-erp/pkg/storage"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("ERP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log, "college-erp")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting college-erp",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. redis is optional: without it OTPs live in memory and
	// token revocation and rate limiting are disabled
	deps := service.Deps{}
	infra := router.Infra{}
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running degraded", zap.Error(err))
		deps.OTP = service.NewMemoryOTPStore()
	} else {
		deps.OTP = rdb
		deps.Blacklist = rdb
		infra.Tokens = rdb
		infra.Limiter = rdb
	}

	// 5. storage, mail, events
	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		logger.Fatal("init storage", zap.Error(err))
	}
	if local, ok := store.(*storage.Local); ok {
		infra.UploadsDir = local.Dir()
	}
	publisher := events.New(&cfg.Kafka, logger)

	jwtMgr := jwt.NewManager(&cfg.Auth)
	deps.JWT = jwtMgr
	deps.Storage = store
	deps.Mailer = mailer.New(&cfg.Mail, logger)
	deps.Events = publisher

	// 6. repository → service → handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, deps, logger)

	if err := handler.RegisterValidators(); err != nil {
		logger.Fatal("register validators", zap.Error(err))
	}
	h := handler.NewHandler(svc, cfg.Storage.MaxFileBytes)

	// 7. error reporting
	if rb := middleware.NewRollbar(&cfg.Rollbar, version); rb != nil {
		infra.Reporter = rb
		defer rb.Close()
	}

	// 8. router
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.Setup(cfg, h, jwtMgr, infra, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	// 9. graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if err := publisher.Close(); err != nil {
		logger.Warn("close event publisher", zap.Error(err))
	}
	sqlDB.Close()
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
