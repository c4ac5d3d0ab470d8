package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/GoFutureTeam/gofomentos/internal/match"
	"github.com/GoFutureTeam/gofomentos/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type ListParams struct {
	Query          string
	QueryEmbedding []float32
	Area           string
	Financiador    string
	Limit          int
	Offset         int
	SortBy         string
	Status         string // "open" (default), "closed" or "all"
}

type ListResult struct {
	Editais []models.Edital `json:"editais"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// selectCols is the comprehensive column list for all edital queries.
const selectCols = `uuid, apelido_edital, descricao_resumida, descricao_completa,
	financiador_1, financiador_2, area_foco, tipo_proponente, empresas_que_podem_submeter,
	origem, valor_min_r, valor_max_r, tipo_recurso, recepcao_recursos, custos_capital,
	tipo_contrapartida, contrapartida_min_pct, contrapartida_max_pct,
	duracao_min_meses, duracao_max_meses,
	data_inicial_submissao, data_final_submissao, data_resultado,
	link_pdf, observacoes, created_at, updated_at`

func scanEdital(scan func(dest ...interface{}) error) (models.Edital, error) {
	var e models.Edital
	var descricao, descricaoCompleta, fin1, fin2, area *string
	var tipoProponente, empresas, origem, linkPDF, observacoes *string

	err := scan(
		&e.ID, &e.Apelido, &descricao, &descricaoCompleta,
		&fin1, &fin2, &area, &tipoProponente, &empresas,
		&origem, &e.ValorMin, &e.ValorMax, &e.TipoRecurso, &e.PermiteCusteio, &e.PermiteCapital,
		&e.TipoContrapartida, &e.ContrapartidaMin, &e.ContrapartidaMax,
		&e.DuracaoMinMeses, &e.DuracaoMaxMeses,
		&e.DataInicioSubmissao, &e.DataFimSubmissao, &e.DataResultado,
		&linkPDF, &observacoes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return e, err
	}

	if descricao != nil {
		e.Descricao = *descricao
	}
	if descricaoCompleta != nil {
		e.DescricaoCompleta = *descricaoCompleta
	}
	if fin1 != nil {
		e.Financiador1 = *fin1
	}
	if fin2 != nil {
		e.Financiador2 = *fin2
	}
	if area != nil {
		e.Area = *area
	}
	if tipoProponente != nil {
		e.TipoProponente = *tipoProponente
	}
	if empresas != nil {
		e.EmpresasElegiveis = *empresas
	}
	if origem != nil {
		e.Origem = *origem
	}
	if linkPDF != nil {
		e.LinkPDF = *linkPDF
	}
	if observacoes != nil {
		e.Observacoes = *observacoes
	}

	return e, nil
}

// statusConstraint builds the submission-window clause. A notice
// without an end date is never listed as open.
func statusConstraint(status string) string {
	switch status {
	case "all":
		return ""
	case "closed":
		return " AND data_final_submissao IS NOT NULL AND data_final_submissao < NOW()"
	default: // "open"
		return " AND data_final_submissao IS NOT NULL AND data_final_submissao >= NOW()" +
			" AND (data_inicial_submissao IS NULL OR data_inicial_submissao <= NOW())"
	}
}

func (s *Store) ListEditais(ctx context.Context, params ListParams) (*ListResult, error) {
	where := "WHERE 1=1"
	var args []interface{}
	argIdx := 1

	if params.Query != "" {
		where += fmt.Sprintf(" AND (search_vector @@ plainto_tsquery('portuguese', $%d) OR apelido_edital ILIKE '%%' || $%d || '%%')", argIdx, argIdx)
		args = append(args, params.Query)
		argIdx++
	}
	if params.Area != "" {
		where += fmt.Sprintf(" AND area_foco ILIKE '%%' || $%d || '%%'", argIdx)
		args = append(args, params.Area)
		argIdx++
	}
	if params.Financiador != "" {
		where += fmt.Sprintf(" AND (financiador_1 ILIKE '%%' || $%d || '%%' OR financiador_2 ILIKE '%%' || $%d || '%%')", argIdx, argIdx)
		args = append(args, params.Financiador)
		argIdx++
	}

	where += statusConstraint(params.Status)

	var total int
	countSQL := "SELECT COUNT(*) FROM editais " + where
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count failed: %w", err)
	}

	selectSQL := fmt.Sprintf("SELECT %s FROM editais %s", selectCols, where)

	switch params.SortBy {
	case "deadline":
		selectSQL += " ORDER BY data_final_submissao ASC NULLS LAST, created_at DESC"
	case "valor":
		selectSQL += " ORDER BY valor_max_r DESC NULLS LAST, created_at DESC"
	default: // relevance
		if len(params.QueryEmbedding) > 0 {
			vectorArg := argIdx
			args = append(args, pgvector.NewVector(params.QueryEmbedding))
			argIdx++
			selectSQL += fmt.Sprintf(`
				ORDER BY
					CASE WHEN embedding IS NULL THEN 1 ELSE 0 END ASC,
					COALESCE(1 - (embedding <=> $%d), -1) DESC,
					updated_at DESC NULLS LAST,
					created_at DESC
			`, vectorArg)
		} else if params.Query != "" {
			queryArg := argIdx
			args = append(args, params.Query)
			argIdx++
			selectSQL += fmt.Sprintf(" ORDER BY ts_rank(search_vector, plainto_tsquery('portuguese', $%d::text)) DESC, updated_at DESC NULLS LAST, created_at DESC", queryArg)
		} else {
			selectSQL += " ORDER BY updated_at DESC NULLS LAST, created_at DESC"
		}
	}

	if params.Limit <= 0 {
		params.Limit = 20
	}
	selectSQL += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := s.pool.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var editais []models.Edital
	for rows.Next() {
		e, err := scanEdital(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		editais = append(editais, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	if editais == nil {
		editais = []models.Edital{}
	}

	return &ListResult{
		Editais: editais,
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
	}, nil
}

func (s *Store) GetEdital(ctx context.Context, id uuid.UUID) (*models.Edital, error) {
	sql := fmt.Sprintf("SELECT %s FROM editais WHERE uuid = $1", selectCols)
	row := s.pool.QueryRow(ctx, sql, id)

	e, err := scanEdital(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("edital %s: %w", id, err)
	}
	return &e, nil
}

// UpsertEdital inserts or refreshes a notice keyed by (apelido,
// primary funder), the identity the upstream sources expose.
func (s *Store) UpsertEdital(ctx context.Context, e *models.Edital) error {
	query := `
		INSERT INTO editais (
			apelido_edital, descricao_resumida, descricao_completa,
			financiador_1, financiador_2, area_foco, tipo_proponente,
			empresas_que_podem_submeter, origem, valor_min_r, valor_max_r,
			tipo_recurso, recepcao_recursos, custos_capital, tipo_contrapartida,
			contrapartida_min_pct, contrapartida_max_pct,
			duracao_min_meses, duracao_max_meses,
			data_inicial_submissao, data_final_submissao, data_resultado,
			link_pdf, observacoes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
		ON CONFLICT (apelido_edital, financiador_1) DO UPDATE SET
			descricao_resumida = EXCLUDED.descricao_resumida,
			descricao_completa = EXCLUDED.descricao_completa,
			financiador_2 = EXCLUDED.financiador_2,
			area_foco = EXCLUDED.area_foco,
			tipo_proponente = EXCLUDED.tipo_proponente,
			empresas_que_podem_submeter = EXCLUDED.empresas_que_podem_submeter,
			origem = EXCLUDED.origem,
			valor_min_r = EXCLUDED.valor_min_r,
			valor_max_r = EXCLUDED.valor_max_r,
			tipo_recurso = EXCLUDED.tipo_recurso,
			recepcao_recursos = EXCLUDED.recepcao_recursos,
			custos_capital = EXCLUDED.custos_capital,
			tipo_contrapartida = EXCLUDED.tipo_contrapartida,
			contrapartida_min_pct = EXCLUDED.contrapartida_min_pct,
			contrapartida_max_pct = EXCLUDED.contrapartida_max_pct,
			duracao_min_meses = EXCLUDED.duracao_min_meses,
			duracao_max_meses = EXCLUDED.duracao_max_meses,
			data_inicial_submissao = EXCLUDED.data_inicial_submissao,
			data_final_submissao = EXCLUDED.data_final_submissao,
			data_resultado = EXCLUDED.data_resultado,
			link_pdf = EXCLUDED.link_pdf,
			observacoes = EXCLUDED.observacoes,
			updated_at = NOW()
		RETURNING uuid
	`
	return s.pool.QueryRow(ctx, query,
		e.Apelido, e.Descricao, e.DescricaoCompleta,
		e.Financiador1, e.Financiador2, e.Area, e.TipoProponente,
		e.EmpresasElegiveis, e.Origem, e.ValorMin, e.ValorMax,
		e.TipoRecurso, e.PermiteCusteio, e.PermiteCapital, e.TipoContrapartida,
		e.ContrapartidaMin, e.ContrapartidaMax,
		e.DuracaoMinMeses, e.DuracaoMaxMeses,
		e.DataInicioSubmissao, e.DataFimSubmissao, e.DataResultado,
		e.LinkPDF, e.Observacoes,
	).Scan(&e.ID)
}

func (s *Store) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	_, err := s.pool.Exec(ctx,
		"UPDATE editais SET embedding = $2, updated_at = NOW() WHERE uuid = $1",
		id, pgvector.NewVector(embedding),
	)
	return err
}

// ListEditaisSemEmbedding returns notices whose embedding has not been
// computed yet, for the background embedding job.
func (s *Store) ListEditaisSemEmbedding(ctx context.Context, limit int) ([]models.Edital, error) {
	if limit <= 0 {
		limit = 50
	}
	sql := fmt.Sprintf("SELECT %s FROM editais WHERE embedding IS NULL ORDER BY created_at ASC LIMIT $1", selectCols)
	rows, err := s.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var editais []models.Edital
	for rows.Next() {
		e, err := scanEdital(rows.Scan)
		if err != nil {
			return nil, err
		}
		editais = append(editais, e)
	}
	return editais, rows.Err()
}

// Projects

func (s *Store) CreateProjeto(ctx context.Context, p *models.Projeto) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO projetos (user_uuid, titulo_projeto, objetivo_principal, nome_empresa, resumo_atividades, cnae)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING uuid, created_at
	`, p.UserID, p.Titulo, p.Objetivo, p.Empresa, p.AtividadeEmpresa, p.CNAE).Scan(&p.ID, &p.CreatedAt)
}

func (s *Store) GetProjeto(ctx context.Context, id, userID uuid.UUID) (*models.Projeto, error) {
	var p models.Projeto
	err := s.pool.QueryRow(ctx, `
		SELECT uuid, user_uuid, titulo_projeto, objetivo_principal, nome_empresa, resumo_atividades, cnae, created_at
		FROM projetos WHERE uuid = $1 AND user_uuid = $2
	`, id, userID).Scan(&p.ID, &p.UserID, &p.Titulo, &p.Objetivo, &p.Empresa, &p.AtividadeEmpresa, &p.CNAE, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("projeto %s: %w", id, err)
	}
	return &p, nil
}

func (s *Store) ListProjetos(ctx context.Context, userID uuid.UUID) ([]models.Projeto, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT uuid, user_uuid, titulo_projeto, objetivo_principal, nome_empresa, resumo_atividades, cnae, created_at
		FROM projetos WHERE user_uuid = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projetos []models.Projeto
	for rows.Next() {
		var p models.Projeto
		if err := rows.Scan(&p.ID, &p.UserID, &p.Titulo, &p.Objetivo, &p.Empresa, &p.AtividadeEmpresa, &p.CNAE, &p.CreatedAt); err != nil {
			return nil, err
		}
		projetos = append(projetos, p)
	}
	return projetos, rows.Err()
}

func (s *Store) DeleteProjeto(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM projetos WHERE uuid = $1 AND user_uuid = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("projeto %s not found", id)
	}
	return nil
}

// Saved notices

func (s *Store) SaveEdital(ctx context.Context, userID, editalID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO editais_salvos (user_uuid, edital_uuid)
		VALUES ($1, $2)
		ON CONFLICT (user_uuid, edital_uuid) DO NOTHING
	`, userID, editalID)
	return err
}

func (s *Store) UnsaveEdital(ctx context.Context, userID, editalID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM editais_salvos WHERE user_uuid = $1 AND edital_uuid = $2
	`, userID, editalID)
	return err
}

func (s *Store) ListEditaisSalvos(ctx context.Context, userID uuid.UUID) ([]models.Edital, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM editais e
		JOIN editais_salvos es ON e.uuid = es.edital_uuid
		WHERE es.user_uuid = $1
		ORDER BY es.saved_at DESC
	`, qualifyCols("e"))

	rows, err := s.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var editais []models.Edital
	for rows.Next() {
		e, err := scanEdital(rows.Scan)
		if err != nil {
			return nil, err
		}
		editais = append(editais, e)
	}
	return editais, rows.Err()
}

// qualifyCols prefixes every column in selectCols with a table alias
// for join queries.
func qualifyCols(alias string) string {
	cols := strings.Split(selectCols, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

// Stats and filter options

type Stats struct {
	TotalEditais  int `json:"total_editais"`
	Abertos       int `json:"editais_abertos"`
	Financiadores int `json:"financiadores"`
	Projetos      int `json:"projetos"`
}

func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var st Stats
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM editais").Scan(&st.TotalEditais); err != nil {
		return nil, err
	}
	if err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM editais
		WHERE data_final_submissao IS NOT NULL AND data_final_submissao >= NOW()
	`).Scan(&st.Abertos); err != nil {
		return nil, err
	}
	if err := s.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT financiador_1) FROM editais WHERE financiador_1 <> ''
	`).Scan(&st.Financiadores); err != nil {
		return nil, err
	}
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM projetos").Scan(&st.Projetos); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetFilterOptions aggregates the distinct values behind each of the
// four filter dimensions, with counts for the sidebar. Option IDs are
// assigned by descending frequency within each dimension.
func (s *Store) GetFilterOptions(ctx context.Context) (map[match.FilterCategory][]match.FilterOption, error) {
	queries := map[match.FilterCategory]string{
		match.CategoryArea: `
			SELECT TRIM(tag) AS v, COUNT(*)
			FROM editais, unnest(string_to_array(COALESCE(area_foco, ''), ',')) AS tag
			WHERE TRIM(tag) <> ''
			GROUP BY v ORDER BY COUNT(*) DESC, v`,
		match.CategoryRecurso: `
			SELECT tipo_recurso, COUNT(*)
			FROM editais
			WHERE tipo_recurso IS NOT NULL AND tipo_recurso <> ''
			GROUP BY tipo_recurso ORDER BY COUNT(*) DESC, tipo_recurso`,
		match.CategoryContrapartida: `
			SELECT tipo_contrapartida, COUNT(*)
			FROM editais
			WHERE tipo_contrapartida IS NOT NULL AND tipo_contrapartida <> ''
			GROUP BY tipo_contrapartida ORDER BY COUNT(*) DESC, tipo_contrapartida`,
		match.CategoryFinanciador: `
			SELECT v, COUNT(*) FROM (
				SELECT financiador_1 AS v FROM editais
				UNION ALL
				SELECT financiador_2 FROM editais
			) t
			WHERE v IS NOT NULL AND v <> ''
			GROUP BY v ORDER BY COUNT(*) DESC, v`,
	}

	result := make(map[match.FilterCategory][]match.FilterOption, len(queries))
	for cat, q := range queries {
		rows, err := s.pool.Query(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("filter options for %s: %w", cat, err)
		}

		var options []match.FilterOption
		for rows.Next() {
			var label string
			var count int
			if err := rows.Scan(&label, &count); err != nil {
				rows.Close()
				return nil, err
			}
			options = append(options, match.FilterOption{
				ID:    match.OptionID(cat, len(options), label),
				Label: label,
				Count: count,
			})
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
		result[cat] = options
	}

	return result, nil
}
