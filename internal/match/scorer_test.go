package match

import (
	"strings"
	"testing"

	"github.com/GoFutureTeam/gofomentos/internal/models"
)

func TestScoreKeywordStepProportional(t *testing.T) {
	// Keywords {saneamento, agua, rural}; the notice text contains
	// "saneamento" and "rural" but not "agua". Keyword contribution is
	// min(40, 2/3*40) = 26.67. The notice has a proponent type without
	// a corporate indicator (0) and the project no CNAE, so the rounded
	// total equals the keyword step alone: 27.
	p := &models.Projeto{Titulo: "saneamento agua rural"}
	e := &models.Edital{
		Apelido:        "Programa de saneamento para comunidades do meio rural",
		TipoProponente: "universidades públicas",
	}

	score, reasons := Score(p, e)
	if score != 27 {
		t.Fatalf("expected score 27, got %d", score)
	}
	if len(reasons) == 0 || !strings.Contains(reasons[0], "2 palavra") {
		t.Fatalf("expected keyword reason citing 2 matches, got %v", reasons)
	}
}

func TestScoreEmptyKeywordSetContributesZero(t *testing.T) {
	// Every token is too short to count as a keyword, so the keyword
	// step must not divide by zero.
	p := &models.Projeto{Titulo: "app web", Objetivo: "dar o bem"}
	e := &models.Edital{
		Apelido:        "Edital sem relação",
		TipoProponente: "órgãos públicos",
	}

	score, _ := Score(p, e)
	if score != 0 {
		t.Fatalf("expected 0, got %d", score)
	}
}

func TestScoreCategoryOverlapIsFlat(t *testing.T) {
	// Two shared categories award the same flat 25 as one would.
	p := &models.Projeto{
		Objetivo:         "levar tecnologia e inovação ao campo",
		AtividadeEmpresa: "consultoria",
	}
	e := &models.Edital{
		Apelido:        "Chamada tecnologia e inovação agro",
		TipoProponente: "cooperativas",
	}

	score, reasons := Score(p, e)
	// Keyword step: keywords {levar, tecnologia, inovação, campo,
	// consultoria}; "tecnologia" and "inovação" appear: 2/5*40 = 16.
	// Category step: flat 25. Total 41.
	if score != 41 {
		t.Fatalf("expected 41, got %d", score)
	}
	foundCats := false
	for _, r := range reasons {
		if strings.Contains(r, "tecnologia") && strings.Contains(r, "inovação") {
			foundCats = true
		}
	}
	if !foundCats {
		t.Fatalf("expected category reason listing both matches, got %v", reasons)
	}
}

func TestScoreProponentTypeAbsentAwardsFifteen(t *testing.T) {
	p := &models.Projeto{Titulo: "projeto qualquer"}
	e := &models.Edital{Apelido: "Edital sem tipo de proponente"}

	score, reasons := Score(p, e)
	if score != 15 {
		t.Fatalf("expected 15, got %d", score)
	}
	found := false
	for _, r := range reasons {
		if strings.Contains(r, "não especificado") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unspecified-proponent reason, got %v", reasons)
	}
}

func TestScoreProponentTypeCorporateAwardsTwenty(t *testing.T) {
	p := &models.Projeto{Titulo: "xyzw"}
	e := &models.Edital{
		Apelido:        "Edital abcd",
		TipoProponente: "Empresas de base tecnológica com CNPJ ativo",
	}

	score, _ := Score(p, e)
	if score != 20 {
		t.Fatalf("expected 20, got %d", score)
	}
}

func TestScoreProponentTypeNonCorporateAwardsZero(t *testing.T) {
	p := &models.Projeto{Titulo: "xyzw"}
	e := &models.Edital{
		Apelido:        "Edital abcd",
		TipoProponente: "ICTs e universidades",
	}

	score, _ := Score(p, e)
	if score != 0 {
		t.Fatalf("expected 0, got %d", score)
	}
}

func TestScoreCNAEPrefix(t *testing.T) {
	e := &models.Edital{Apelido: "Edital abcd", TipoProponente: "universidades"}

	score, _ := Score(&models.Projeto{Titulo: "xyzw", CNAE: "6201-5/01"}, e)
	if score != 15 {
		t.Fatalf("CNAE 62 should award 15, got %d", score)
	}

	score, _ = Score(&models.Projeto{Titulo: "xyzw", CNAE: "4711-3/02"}, e)
	if score != 0 {
		t.Fatalf("CNAE 47 should award 0, got %d", score)
	}
}

func TestScoreBounds(t *testing.T) {
	projects := []*models.Projeto{
		{},
		{Titulo: "tecnologia inovação pesquisa desenvolvimento", Objetivo: "saúde educação social sustentabilidade", CNAE: "6201"},
		{Titulo: strings.Repeat("palavra ", 50)},
	}
	editais := []models.Edital{
		{},
		{Apelido: "tecnologia inovação pesquisa desenvolvimento saúde educação social sustentabilidade", TipoProponente: "empresa"},
		{TipoProponente: "pessoa física"},
	}

	for _, p := range projects {
		for i := range editais {
			score, _ := Score(p, &editais[i])
			if score < 0 || score > 100 {
				t.Fatalf("score out of bounds: %d", score)
			}
		}
	}
}

func TestRankThresholdAndOrdering(t *testing.T) {
	p := &models.Projeto{
		Titulo:           "plataforma de tecnologia para saúde",
		Objetivo:         "desenvolver tecnologia de monitoramento em saúde",
		AtividadeEmpresa: "software médico",
		CNAE:             "6201-5/01",
	}
	editais := []models.Edital{
		{Apelido: "Edital tecnologia e saúde para empresas", TipoProponente: "empresas com CNPJ"},
		{Apelido: "Edital sem nenhuma relação", TipoProponente: "pessoa física"},
		{Apelido: "Chamada saúde digital"},
	}

	results := Rank(p, editais)
	if len(results) == 0 {
		t.Fatal("expected at least one match")
	}
	for i, r := range results {
		if r.Score < MinScore {
			t.Fatalf("result %d below threshold: %d", i, r.Score)
		}
		if i > 0 && results[i-1].Score < r.Score {
			t.Fatalf("results not in descending order at %d", i)
		}
	}
	for _, r := range results {
		if r.Edital.Apelido == "Edital sem nenhuma relação" {
			t.Fatal("unrelated edital passed the threshold")
		}
	}
}

func TestRankStableOnTies(t *testing.T) {
	// Two notices with identical searchable text score identically;
	// the original collection order must break the tie.
	p := &models.Projeto{
		Titulo:   "pesquisa em saúde",
		Objetivo: "pesquisa aplicada em saúde",
		CNAE:     "8610",
	}
	editais := []models.Edital{
		{Apelido: "Edital pesquisa saúde A", TipoProponente: "empresas"},
		{Apelido: "Edital pesquisa saúde B", TipoProponente: "empresas"},
	}

	results := Rank(p, editais)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Score != results[1].Score {
		t.Fatalf("expected a tie, got %d vs %d", results[0].Score, results[1].Score)
	}
	if !strings.HasSuffix(results[0].Edital.Apelido, "A") {
		t.Fatal("tie did not preserve original order")
	}
}
