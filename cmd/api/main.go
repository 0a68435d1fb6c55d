package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "github.com/akbolaji-04/Prolink-clone/cmd/api/router/v1"
	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/auth"
	cacheadapter "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/adapter"
	cacheport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/port"
	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/database"
	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/logging"
	queueadapter "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/queue/adapter"
	qport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/queue/port"
	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/realtime"
	repoadapter "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/adapter"
	httpHandler "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/presentation/http"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/moderation"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger := logging.L()
		logger.Warn().Err(err).Msg(".env file not found or could not be loaded")
	}

	logging.Init(logging.FromEnv("chat-api"))
	log := logging.L()

	// Connect to the database on startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	verifier, err := auth.NewVerifierFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure auth")
	}

	sanitizer, err := moderation.NewSanitizerFromConfig(os.Getenv("MODERATION_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load moderation block-list")
	}

	// Cache and queue are optional collaborators: the chat core degrades to
	// uncached lookups and no offline notifications without them.
	var cache cacheport.Cache
	if redisCache, err := cacheadapter.NewRedisAdapter(); err != nil {
		log.Warn().Err(err).Msg("cache disabled")
	} else {
		cache = redisCache
		defer redisCache.Close()
	}

	var queue qport.Client
	if asynqClient, err := queueadapter.NewAsynqClientFromEnv(); err != nil {
		log.Warn().Err(err).Msg("offline notifications disabled")
	} else {
		queue = asynqClient
		defer asynqClient.Close()
	}

	hub := realtime.NewHub()
	defer hub.Close()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, httpHandler.Deps{
		Repo:      repoadapter.NewPgChatRepository(pool),
		Cache:     cache,
		Queue:     queue,
		Sanitizer: sanitizer,
		Hub:       hub,
		Verifier:  verifier,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("chat api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
