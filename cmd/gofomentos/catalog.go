package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/GoFutureTeam/gofomentos/internal/db"
	"github.com/GoFutureTeam/gofomentos/pkg/logging"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the funding notices currently in the catalog",
	Run: func(cmd *cobra.Command, _ []string) {
		runCatalog(cmd)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringP("query", "q", "", "keyword search over the catalog")
	catalogCmd.Flags().String("status", "open", "open, closed or all")
	catalogCmd.Flags().IntP("limit", "n", 20, "maximum number of notices to show")
}

func runCatalog(cmd *cobra.Command) {
	logger := logging.New(viper.GetString("log-level"))
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	query, _ := cmd.Flags().GetString("query")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	store := db.NewStore(pool)
	result, err := store.ListEditais(ctx, db.ListParams{
		Query:  query,
		Status: status,
		SortBy: "deadline",
		Limit:  limit,
	})
	if err != nil {
		logger.Fatal("failed to list editais", zap.Error(err))
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Apelido", "Financiador", "Área", "Valor Máx", "Prazo Final"})

	for _, e := range result.Editais {
		valor := "-"
		if e.ValorMax != nil {
			valor = fmt.Sprintf("R$ %.0f", *e.ValorMax)
		}
		prazo := "-"
		if e.DataFimSubmissao != nil {
			prazo = e.DataFimSubmissao.Format("02/01/2006")
		}
		t.AppendRow(table.Row{e.Apelido, e.Financiador1, e.Area, valor, prazo})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", result.Total})
	t.Render()
}
