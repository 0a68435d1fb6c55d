package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	cacheadapter "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/adapter"
	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/logging"
	queueadapter "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/queue/adapter"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/application/task"
)

// The worker consumes chat background tasks: currently only the
// offline-notification counter bumps enqueued by the realtime send path.
func main() {
	if err := godotenv.Load(); err != nil {
		logger := logging.L()
		logger.Warn().Err(err).Msg(".env file not found or could not be loaded")
	}

	logging.Init(logging.FromEnv("chat-worker"))
	log := logging.L()

	cache, err := cacheadapter.NewRedisAdapter()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer cache.Close()

	srv, err := queueadapter.NewAsynqServer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure task server")
	}

	task.RegisterNotifyOfflineTask(srv, cache)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("chat worker running")
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("worker error")
	}
	log.Info().Msg("chat worker stopped")
}
