package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/GoFutureTeam/gofomentos/internal/api"
	"github.com/GoFutureTeam/gofomentos/internal/db"
	"github.com/GoFutureTeam/gofomentos/pkg/logging"
)

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	srv := api.NewServer(pool, logger)
	logger.Info("server starting", zap.String("port", port))
	if err := srv.Start(port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
