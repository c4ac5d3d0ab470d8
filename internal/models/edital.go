package models

import (
	"time"

	"github.com/google/uuid"
)

// Edital is a published funding notice (call for proposals).
// JSON tags follow the backend contract: Portuguese snake_case.
type Edital struct {
	ID                 uuid.UUID  `json:"uuid"`
	Apelido            string     `json:"apelido_edital"`
	Descricao          string     `json:"descricao_resumida"`
	DescricaoCompleta  string     `json:"descricao_completa"`
	Financiador1       string     `json:"financiador_1"`
	Financiador2       string     `json:"financiador_2"`
	Area               string     `json:"area_foco"` // comma-separated free text tags
	TipoProponente     string     `json:"tipo_proponente"`
	EmpresasElegiveis  string     `json:"empresas_que_podem_submeter"`
	Origem             string     `json:"origem"`
	ValorMin           *float64   `json:"valor_min_R"`
	ValorMax           *float64   `json:"valor_max_R"`
	TipoRecurso        *string    `json:"tipo_recurso"`
	PermiteCusteio     bool       `json:"recepcao_recursos"`
	PermiteCapital     bool       `json:"custos_capital"`
	TipoContrapartida  *string    `json:"tipo_contrapartida"`
	ContrapartidaMin   *float64   `json:"contrapartida_min_pct"`
	ContrapartidaMax   *float64   `json:"contrapartida_max_pct"`
	DuracaoMinMeses    *int       `json:"duracao_min_meses"`
	DuracaoMaxMeses    *int       `json:"duracao_max_meses"`
	DataInicioSubmissao *time.Time `json:"data_inicial_submissao"`
	DataFimSubmissao   *time.Time `json:"data_final_submissao"`
	DataResultado      *time.Time `json:"data_resultado"`
	LinkPDF            string     `json:"link_pdf"`
	Observacoes        string     `json:"observacoes"`
	Embedding          []float32  `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Aberto reports whether the notice is currently accepting submissions.
// A notice without a submission-window end date is never considered open;
// end date is mandatory for listing purposes.
func (e *Edital) Aberto(now time.Time) bool {
	if e.DataFimSubmissao == nil {
		return false
	}
	if e.DataInicioSubmissao != nil && e.DataInicioSubmissao.After(now) {
		return false
	}
	return !e.DataFimSubmissao.Before(now)
}
