// Package adapter translates the loosely-typed backend payloads into
// the strongly-typed domain model. The backend serves Portuguese
// snake_case fields, with older records still carrying legacy names;
// every field goes through one defaulting rule here instead of ad hoc
// coercions at call sites.
package adapter

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GoFutureTeam/gofomentos/internal/models"
)

const resumoMaxLen = 280

// EditalFromRaw converts one raw backend record into an Edital.
// Missing, null or legacy-named fields degrade to zero values; the
// function never fails, matching the "missing data excludes" policy of
// the listing filters.
func EditalFromRaw(raw map[string]interface{}) models.Edital {
	e := models.Edital{
		Apelido:           cleanText(stringField(raw, "apelido_edital", "nome", "titulo")),
		DescricaoCompleta: SanitizeHTML(stringField(raw, "descricao_completa", "descricao_longa")),
		Financiador1:      cleanText(stringField(raw, "financiador_1", "financiador")),
		Financiador2:      cleanText(stringField(raw, "financiador_2")),
		Area:              cleanText(stringField(raw, "area_foco", "area")),
		TipoProponente:    cleanText(stringField(raw, "tipo_proponente")),
		EmpresasElegiveis: cleanText(stringField(raw, "empresas_que_podem_submeter", "empresas_elegiveis")),
		Origem:            cleanText(stringField(raw, "origem")),
		Observacoes:       cleanText(stringField(raw, "observacoes")),
		LinkPDF:           strings.TrimSpace(stringField(raw, "link_pdf", "pdf_url")),
		PermiteCusteio:    boolField(raw, "recepcao_recursos", "permite_custeio"),
		PermiteCapital:    boolField(raw, "custos_capital", "permite_capital"),
	}

	if id := stringField(raw, "uuid", "id"); id != "" {
		if parsed, err := uuid.Parse(id); err == nil {
			e.ID = parsed
		}
	}

	e.Descricao = cleanText(stringField(raw, "descricao_resumida", "descricao"))
	if e.Descricao == "" && e.DescricaoCompleta != "" {
		e.Descricao = Truncate(FlattenHTML(e.DescricaoCompleta), resumoMaxLen)
	}

	e.ValorMin = floatField(raw, "valor_min_R", "valor_min")
	e.ValorMax = floatField(raw, "valor_max_R", "valor_max")
	e.ContrapartidaMin = floatField(raw, "contrapartida_min_pct", "contrapartida_min")
	e.ContrapartidaMax = floatField(raw, "contrapartida_max_pct", "contrapartida_max")
	e.DuracaoMinMeses = intField(raw, "duracao_min_meses", "duracao_min")
	e.DuracaoMaxMeses = intField(raw, "duracao_max_meses", "duracao_max")

	if v := stringField(raw, "tipo_recurso"); v != "" {
		clean := cleanText(v)
		e.TipoRecurso = &clean
	}
	if v := stringField(raw, "tipo_contrapartida"); v != "" {
		clean := cleanText(v)
		e.TipoContrapartida = &clean
	}

	e.DataInicioSubmissao = dateField(raw, "data_inicial_submissao", "data_inicio_submissao")
	e.DataFimSubmissao = dateField(raw, "data_final_submissao", "data_fim_submissao")
	e.DataResultado = dateField(raw, "data_resultado")

	return e
}

// stringField returns the first present, non-null key rendered as a
// trimmed string. Numbers are formatted rather than dropped: legacy
// records store some codes as JSON numbers.
func stringField(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if s := strings.TrimSpace(val); s != "" {
				return s
			}
		case json.Number:
			return val.String()
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64)
		}
	}
	return ""
}

// floatField parses numeric fields that arrive as JSON numbers or as
// strings, including Brazilian "1.500,50" formatting. Unparseable
// values yield nil.
func floatField(raw map[string]interface{}, keys ...string) *float64 {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case float64:
			f := val
			return &f
		case json.Number:
			if f, err := val.Float64(); err == nil {
				return &f
			}
		case string:
			s := strings.TrimSpace(val)
			if s == "" {
				continue
			}
			s = strings.TrimPrefix(s, "R$")
			s = strings.TrimSpace(s)
			if strings.Contains(s, ",") {
				s = strings.ReplaceAll(s, ".", "")
				s = strings.ReplaceAll(s, ",", ".")
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func intField(raw map[string]interface{}, keys ...string) *int {
	if f := floatField(raw, keys...); f != nil {
		n := int(*f)
		return &n
	}
	return nil
}

// boolField accepts JSON booleans plus the string spellings legacy
// records use.
func boolField(raw map[string]interface{}, keys ...string) bool {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case bool:
			return val
		case string:
			s := strings.ToLower(strings.TrimSpace(val))
			return s == "true" || s == "sim" || s == "1"
		case float64:
			return val != 0
		}
	}
	return false
}

func dateField(raw map[string]interface{}, keys ...string) *time.Time {
	if s := stringField(raw, keys...); s != "" {
		if t, err := ParseData(s); err == nil {
			return &t
		}
	}
	return nil
}
