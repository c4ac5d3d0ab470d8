package models

import (
	"time"

	"github.com/google/uuid"
)

// Projeto is a submitted project profile used as match input.
// Immutable after creation; persisted when submitted by a logged-in user.
type Projeto struct {
	ID               uuid.UUID `json:"uuid"`
	UserID           uuid.UUID `json:"user_uuid"`
	Titulo           string    `json:"titulo_projeto"`
	Objetivo         string    `json:"objetivo_principal"`
	Empresa          string    `json:"nome_empresa"`
	AtividadeEmpresa string    `json:"resumo_atividades"`
	CNAE             string    `json:"cnae"`
	CreatedAt        time.Time `json:"created_at"`
}

// MatchResult is one scored notice: heuristic 0-100 fit plus the
// human-readable reasons that produced the score.
type MatchResult struct {
	Edital  Edital   `json:"edital"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}
