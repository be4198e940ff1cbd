package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"gatehouse/internal/config"
	apphttp "gatehouse/internal/http"
	"gatehouse/internal/repository/sqlite"
	"gatehouse/internal/service"
	"gatehouse/internal/session"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Session.Secret) == "" {
		logger.Fatalf("session secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}

	userService := service.NewUserService(userRepo, cfg.Auth.HashCost)

	store, closeStore, err := buildSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup session store: %v", err)
	}
	defer closeStore()

	sessions := session.NewManager(store, cfg.Session.Secret)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handler := apphttp.NewHandler(userService, sessions, logger, cfg.Production())
	defer handler.Close()
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s (%s)", cfg.Server.Addr, cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// buildSessionStore picks redis when configured, otherwise the in-process
// store that fits single-instance local runs.
func buildSessionStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (session.Store, func(), error) {
	if cfg.Redis.Addr == "" {
		logger.Info("using in-memory session store")
		mem := session.NewMemoryStore(time.Hour)
		return mem, mem.Close, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, nil, err
	}

	logger.Infof("using redis session store at %s", cfg.Redis.Addr)
	return session.NewRedisStore(client), func() { _ = client.Close() }, nil
}
