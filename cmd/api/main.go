package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "github.com/Br34th7aking/pingo/cmd/api/router/v1"
	cacheAdapter "github.com/Br34th7aking/pingo/internal/infrastructure/cache/adapter"
	cport "github.com/Br34th7aking/pingo/internal/infrastructure/cache/port"
	"github.com/Br34th7aking/pingo/internal/infrastructure/database"
	queueAdapter "github.com/Br34th7aking/pingo/internal/infrastructure/queue/adapter"
	qport "github.com/Br34th7aking/pingo/internal/infrastructure/queue/port"
	"github.com/Br34th7aking/pingo/internal/infrastructure/realtime"
	"github.com/Br34th7aking/pingo/internal/infrastructure/token"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/task"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found or could not be loaded", slog.Any("error", err))
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(connectCtx)
	if err != nil {
		logger.Error("database connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	tokens, err := token.NewJWTFromEnv()
	if err != nil {
		logger.Error("token setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	// With Redis the gateway spans nodes: broadcasts cross process boundaries
	// and unread counters survive restarts. Without it everything degrades to
	// single-process in-memory mode.
	var (
		groups realtime.Broadcaster
		cache  cport.Cache
		queue  qport.Client
	)
	if os.Getenv("REDIS_URL") != "" {
		redisCache, err := cacheAdapter.NewRedisAdapter()
		if err != nil {
			logger.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisCache.Close()
		cache = redisCache
		groups = realtime.NewRedisBroadcaster(redisCache.Client(), logger)

		queueClient, err := queueAdapter.NewAsynqClientFromEnv()
		if err != nil {
			logger.Error("queue client setup failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer queueClient.Close()
		queue = queueClient

		queueServer, err := queueAdapter.NewAsynqServer()
		if err != nil {
			logger.Error("queue server setup failed", slog.Any("error", err))
			os.Exit(1)
		}
		task.RegisterFlagUnreadTask(queueServer, pool, cache)
		go func() {
			if err := queueServer.Run(ctx); err != nil {
				logger.Error("queue server stopped", slog.Any("error", err))
			}
		}()
	} else {
		logger.Warn("REDIS_URL not set, running single-node without queue workers")
		groups = realtime.NewGroupHub()
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, pool, tokens, groups, queue, cache, logger)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info("listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", slog.Any("error", err))
	}
}
