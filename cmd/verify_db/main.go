package main

import (
	"context"
	"fmt"
	"log"

	"github.com/GoFutureTeam/gofomentos/internal/db"
)

// Quick integrity check for the editais catalog: how many notices are
// stored and how many carry the fields the filter sidebar and the
// scorer depend on.
func main() {
	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	var total, comArea, comRecurso, comPrazo, comPDF, comEmbedding int
	err = pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE area_foco IS NOT NULL AND area_foco <> ''),
			count(tipo_recurso),
			count(data_final_submissao),
			count(*) FILTER (WHERE link_pdf IS NOT NULL AND link_pdf <> ''),
			count(embedding)
		FROM editais
	`).Scan(&total, &comArea, &comRecurso, &comPrazo, &comPDF, &comEmbedding)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	fmt.Printf("editais:        %d\n", total)
	fmt.Printf("com área:       %d\n", comArea)
	fmt.Printf("com recurso:    %d\n", comRecurso)
	fmt.Printf("com prazo:      %d\n", comPrazo)
	fmt.Printf("com PDF:        %d\n", comPDF)
	fmt.Printf("com embedding:  %d\n", comEmbedding)

	var semPrazo int
	if err := pool.QueryRow(ctx, `
		SELECT count(*) FROM editais WHERE data_final_submissao IS NULL
	`).Scan(&semPrazo); err == nil && semPrazo > 0 {
		fmt.Printf("\nAVISO: %d editais sem prazo final nunca aparecem como abertos\n", semPrazo)
	}
}
