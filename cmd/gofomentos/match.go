package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/GoFutureTeam/gofomentos/internal/db"
	"github.com/GoFutureTeam/gofomentos/internal/match"
	"github.com/GoFutureTeam/gofomentos/internal/models"
	"github.com/GoFutureTeam/gofomentos/pkg/logging"
)

var matchCmd = &cobra.Command{
	Use:   "match <projeto.json>",
	Short: "Rank the open notices by compatibility with a project profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMatch(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().IntP("limit", "n", 500, "maximum number of open notices to score")
}

func runMatch(cmd *cobra.Command, projetoFile string) {
	logger := logging.New(viper.GetString("log-level"))
	defer logger.Sync()

	data, err := os.ReadFile(projetoFile)
	if err != nil {
		logger.Fatal("failed to read projeto file", zap.Error(err))
	}

	var projeto models.Projeto
	if err := json.Unmarshal(data, &projeto); err != nil {
		logger.Fatal("invalid projeto file", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	list, err := db.NewStore(pool).ListEditais(ctx, db.ListParams{
		Status: "open",
		Limit:  limit,
	})
	if err != nil {
		logger.Fatal("failed to list editais", zap.Error(err))
	}

	matcher := match.NewMatcher(0)
	results, err := matcher.FindMatches(ctx, &projeto, list.Editais)
	if err != nil {
		logger.Fatal("match failed", zap.Error(err))
	}

	if len(results) == 0 {
		logger.Info("no compatible notices found", zap.String("projeto", projeto.Titulo))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Score", "Apelido", "Financiador", "Motivos"})

	for _, r := range results {
		t.AppendRow(table.Row{r.Score, r.Edital.Apelido, r.Edital.Financiador1, strings.Join(r.Reasons, "; ")})
	}
	t.Render()
}
