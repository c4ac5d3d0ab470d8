package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/GoFutureTeam/gofomentos/internal/chat"
	"github.com/GoFutureTeam/gofomentos/internal/db"
	"github.com/GoFutureTeam/gofomentos/internal/upstream"
	"github.com/GoFutureTeam/gofomentos/pkg/logging"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull notices from the configured upstream sources into the catalog",
	Run: func(cmd *cobra.Command, _ []string) {
		runSync(cmd)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringP("source", "s", "", "sync only this source ID")
	syncCmd.Flags().String("sources-file", "", "override the embedded sources registry")
	syncCmd.Flags().Bool("embeddings", true, "refresh semantic embeddings after syncing")
}

func runSync(cmd *cobra.Command) {
	logger := logging.New(viper.GetString("log-level"))
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	sourcesFile, _ := cmd.Flags().GetString("sources-file")
	registry, err := upstream.LoadRegistry(sourcesFile)
	if err != nil {
		logger.Fatal("failed to load source registry", zap.Error(err))
	}

	if sourceID, _ := cmd.Flags().GetString("source"); sourceID != "" {
		var filtered []upstream.SourceConfig
		for _, src := range registry.Sources {
			if src.ID == sourceID {
				filtered = append(filtered, src)
			}
		}
		if len(filtered) == 0 {
			logger.Fatal("unknown source", zap.String("source", sourceID))
		}
		registry = &upstream.Registry{Sources: filtered}
	}

	var embedder chat.Embedder
	if withEmbeddings, _ := cmd.Flags().GetBool("embeddings"); withEmbeddings {
		embedder = chat.NewClient(os.Getenv("CHAT_HOST"), os.Getenv("CHAT_EMBED_MODEL"), os.Getenv("CHAT_GEN_MODEL"))
	}

	syncer := upstream.NewSyncer(registry, db.NewStore(pool), embedder, logger)
	if _, err := syncer.Run(ctx); err != nil {
		logger.Fatal("sync failed", zap.Error(err))
	}
}
