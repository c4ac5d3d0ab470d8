package adapter

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEditalFromRawFullPayload(t *testing.T) {
	payload := `{
		"uuid": "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"apelido_edital": "FINEP Subvenção 2026",
		"descricao_resumida": "Subvenção econômica para inovação",
		"descricao_completa": "<p>Apoio a <b>empresas</b> inovadoras</p><script>alert(1)</script>",
		"financiador_1": "FINEP",
		"financiador_2": "BNDES",
		"area_foco": "Tecnologia, Inovação",
		"tipo_proponente": "Empresas",
		"valor_min_R": 100000,
		"valor_max_R": "1.500.000,00",
		"tipo_recurso": "Subvenção Econômica",
		"recepcao_recursos": true,
		"custos_capital": "sim",
		"tipo_contrapartida": "Financeira",
		"contrapartida_min_pct": 5,
		"contrapartida_max_pct": 20,
		"duracao_min_meses": 12,
		"duracao_max_meses": 36,
		"data_inicial_submissao": "2026-01-10",
		"data_final_submissao": "15/03/2026",
		"data_resultado": "2026-06-01T12:00:00Z",
		"link_pdf": "https://finep.gov.br/edital.pdf"
	}`

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatal(err)
	}

	e := EditalFromRaw(raw)
	if e.ID.String() != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Fatalf("uuid not parsed: %s", e.ID)
	}
	if e.Apelido != "FINEP Subvenção 2026" {
		t.Fatalf("apelido: %q", e.Apelido)
	}
	if e.Financiador2 != "BNDES" {
		t.Fatalf("financiador_2: %q", e.Financiador2)
	}
	if e.ValorMin == nil || *e.ValorMin != 100000 {
		t.Fatalf("valor_min: %v", e.ValorMin)
	}
	if e.ValorMax == nil || *e.ValorMax != 1500000 {
		t.Fatalf("valor_max should parse Brazilian formatting: %v", e.ValorMax)
	}
	if !e.PermiteCusteio || !e.PermiteCapital {
		t.Fatal("boolean fields not parsed")
	}
	if e.TipoRecurso == nil || *e.TipoRecurso != "Subvenção Econômica" {
		t.Fatalf("tipo_recurso: %v", e.TipoRecurso)
	}
	if e.DuracaoMaxMeses == nil || *e.DuracaoMaxMeses != 36 {
		t.Fatalf("duracao_max: %v", e.DuracaoMaxMeses)
	}
	if e.DataFimSubmissao == nil {
		t.Fatal("data_final_submissao not parsed")
	}
	want := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	if !e.DataFimSubmissao.Equal(want) {
		t.Fatalf("data_final_submissao = %s, want %s", e.DataFimSubmissao, want)
	}
}

func TestEditalFromRawSanitizesDescription(t *testing.T) {
	e := EditalFromRaw(map[string]interface{}{
		"descricao_completa": `<p>ok</p><script>alert("x")</script>`,
	})
	if e.DescricaoCompleta != "<p>ok</p>" {
		t.Fatalf("script not stripped: %q", e.DescricaoCompleta)
	}
	// No short description supplied: derived from the flattened HTML.
	if e.Descricao != "ok" {
		t.Fatalf("derived descricao: %q", e.Descricao)
	}
}

func TestEditalFromRawLegacyFieldNames(t *testing.T) {
	e := EditalFromRaw(map[string]interface{}{
		"nome":               "Edital Legado",
		"descricao":          "resumo antigo",
		"financiador":        "CNPq",
		"area":               "Saúde",
		"valor_min":          50000.0,
		"pdf_url":            "https://cnpq.br/chamada.pdf",
		"data_fim_submissao": "2026-12-01",
	})

	if e.Apelido != "Edital Legado" {
		t.Fatalf("legacy nome: %q", e.Apelido)
	}
	if e.Descricao != "resumo antigo" {
		t.Fatalf("legacy descricao: %q", e.Descricao)
	}
	if e.Financiador1 != "CNPq" {
		t.Fatalf("legacy financiador: %q", e.Financiador1)
	}
	if e.ValorMin == nil || *e.ValorMin != 50000 {
		t.Fatalf("legacy valor_min: %v", e.ValorMin)
	}
	if e.LinkPDF != "https://cnpq.br/chamada.pdf" {
		t.Fatalf("legacy pdf_url: %q", e.LinkPDF)
	}
	if e.DataFimSubmissao == nil {
		t.Fatal("legacy data_fim_submissao not parsed")
	}
}

func TestEditalFromRawAbsentAndNullFields(t *testing.T) {
	e := EditalFromRaw(map[string]interface{}{
		"apelido_edital": "Edital Mínimo",
		"valor_min_R":    nil,
		"tipo_recurso":   nil,
		"data_final_submissao": "não definida",
	})

	if e.ValorMin != nil {
		t.Fatalf("null valor_min should stay nil: %v", e.ValorMin)
	}
	if e.TipoRecurso != nil {
		t.Fatalf("null tipo_recurso should stay nil: %v", e.TipoRecurso)
	}
	if e.DataFimSubmissao != nil {
		t.Fatal("unparseable date should stay nil")
	}
	if e.PermiteCusteio {
		t.Fatal("absent boolean should default to false")
	}
}

func TestParseDataFormats(t *testing.T) {
	cases := map[string]time.Time{
		"2026-03-15":             time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC),
		"15/03/2026":             time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC),
		"2026-06-01T12:00:00Z":   time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		"15 de março de 2026":    time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC),
		"1 de dezembro de 2026":  time.Date(2026, 12, 1, 23, 59, 59, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseData(in)
		if err != nil {
			t.Fatalf("ParseData(%q): %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseData(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseData(""); err == nil {
		t.Fatal("empty date should error")
	}
}
