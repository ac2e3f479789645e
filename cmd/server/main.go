package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/rbac-admin/config"
	"github.com/ErlanBelekov/rbac-admin/internal/health"
	"github.com/ErlanBelekov/rbac-admin/internal/infrastructure/mongo"
	ctxlog "github.com/ErlanBelekov/rbac-admin/internal/log"
	"github.com/ErlanBelekov/rbac-admin/internal/metrics"
	"github.com/ErlanBelekov/rbac-admin/internal/notify"
	httptransport "github.com/ErlanBelekov/rbac-admin/internal/transport/http"
	"github.com/ErlanBelekov/rbac-admin/internal/transport/http/handler"
	"github.com/ErlanBelekov/rbac-admin/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	conn, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}

	userRepo := mongo.NewUserRepository(conn)
	roleRepo := mongo.NewRoleRepository(conn)
	permissionRepo := mongo.NewPermissionRepository(conn)
	tokenRepo := mongo.NewTokenRepository(conn)

	accessKey := []byte(cfg.JWTAccessSecret)
	refreshKey := []byte(cfg.JWTRefreshSecret)

	// Auth
	ledger := usecase.NewTokenLedger(tokenRepo)
	notifier := notify.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	authUsecase := usecase.NewAuthUsecase(userRepo, ledger, notifier, logger, accessKey, refreshKey)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Authorization
	authzUsecase := usecase.NewAuthzUsecase(roleRepo, permissionRepo)
	meHandler := handler.NewMeHandler(authzUsecase, logger)

	// Admin resources
	userUsecase := usecase.NewUserUsecase(userRepo, roleRepo, permissionRepo, tokenRepo)
	userHandler := handler.NewUserHandler(userUsecase, logger)
	roleUsecase := usecase.NewRoleUsecase(roleRepo, permissionRepo)
	roleHandler := handler.NewRoleHandler(roleUsecase, logger)
	permissionUsecase := usecase.NewPermissionUsecase(permissionRepo)
	permissionHandler := handler.NewPermissionHandler(permissionUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(conn, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(httptransport.Deps{
			Logger:      logger,
			Auth:        authHandler,
			Me:          meHandler,
			Users:       userHandler,
			Roles:       roleHandler,
			Permissions: permissionHandler,
			UserRepo:    userRepo,
			Authz:       authzUsecase,
			AccessKey:   accessKey,
		}),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
	if err := conn.Close(shutdownCtx); err != nil {
		logger.Error("mongo close", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
