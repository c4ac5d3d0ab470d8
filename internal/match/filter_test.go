package match

import (
	"testing"

	"github.com/GoFutureTeam/gofomentos/internal/models"
)

func strPtr(s string) *string { return &s }

func sampleEditais() []models.Edital {
	return []models.Edital{
		{
			Apelido:           "FINEP Saneamento Rural",
			Descricao:         "Apoio a projetos de saneamento básico em áreas rurais",
			Financiador1:      "FINEP",
			Area:              "Saneamento, Meio Ambiente",
			TipoRecurso:       strPtr("Subvenção Econômica"),
			TipoContrapartida: strPtr("Financeira"),
		},
		{
			Apelido:      "FAPESP PIPE Saúde",
			Descricao:    "Pesquisa inovativa em pequenas empresas de saúde",
			Financiador1: "FAPESP",
			Area:         "Saúde",
			TipoRecurso:  strPtr("Não Reembolsável"),
		},
		{
			Apelido:      "CNPq Educação Básica",
			Descricao:    "Bolsas para projetos de educação",
			Financiador1: "CNPq",
			Financiador2: "CAPES",
			Area:         "Educação",
		},
	}
}

func TestApplyEmptyStateReturnsFullList(t *testing.T) {
	editais := sampleEditais()
	got := Apply(editais, FilterState{}, "")
	if len(got) != len(editais) {
		t.Fatalf("expected %d editais, got %d", len(editais), len(got))
	}
	for i := range got {
		if got[i].Apelido != editais[i].Apelido {
			t.Fatalf("order changed at %d: %s", i, got[i].Apelido)
		}
	}
}

func TestApplySearchSubstring(t *testing.T) {
	got := Apply(sampleEditais(), FilterState{}, "saneamento")
	if len(got) != 1 {
		t.Fatalf("expected 1 edital, got %d", len(got))
	}
	if got[0].Apelido != "FINEP Saneamento Rural" {
		t.Fatalf("unexpected edital: %s", got[0].Apelido)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	editais := sampleEditais()
	state := FilterState{CategoryArea: {OptionID(CategoryArea, 0, "Saúde")}}

	first := Apply(editais, state, "")
	second := Apply(editais, state, "")
	if len(first) != len(second) {
		t.Fatalf("idempotence broken: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Apelido != second[i].Apelido {
			t.Fatalf("idempotence broken at %d", i)
		}
	}
}

func TestApplyPreservesInputOrder(t *testing.T) {
	editais := sampleEditais()
	got := Apply(editais, FilterState{}, "e")

	// Output must be a subsequence of the input.
	pos := 0
	for _, e := range got {
		found := false
		for ; pos < len(editais); pos++ {
			if editais[pos].Apelido == e.Apelido {
				found = true
				pos++
				break
			}
		}
		if !found {
			t.Fatalf("output is not an in-order subsequence: %s", e.Apelido)
		}
	}
}

func TestApplyWideningSelectionNeverShrinks(t *testing.T) {
	editais := sampleEditais()

	narrow := Apply(editais, FilterState{
		CategoryArea: {OptionID(CategoryArea, 0, "Saúde")},
	}, "")
	wide := Apply(editais, FilterState{
		CategoryArea: {
			OptionID(CategoryArea, 0, "Saúde"),
			OptionID(CategoryArea, 1, "Educação"),
		},
	}, "")

	if len(wide) < len(narrow) {
		t.Fatalf("widening shrank results: %d -> %d", len(narrow), len(wide))
	}
	for _, n := range narrow {
		found := false
		for _, w := range wide {
			if w.Apelido == n.Apelido {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("widened result lost %s", n.Apelido)
		}
	}
}

func TestApplyANDAcrossCategories(t *testing.T) {
	editais := sampleEditais()
	areaOnly := Apply(editais, FilterState{
		CategoryArea: {OptionID(CategoryArea, 0, "Saneamento")},
	}, "")
	both := Apply(editais, FilterState{
		CategoryArea:    {OptionID(CategoryArea, 0, "Saneamento")},
		CategoryRecurso: {OptionID(CategoryRecurso, 0, "Subvenção Econômica")},
	}, "")

	if len(both) > len(areaOnly) {
		t.Fatalf("AND across categories produced a superset: %d > %d", len(both), len(areaOnly))
	}
	for _, b := range both {
		found := false
		for _, a := range areaOnly {
			if a.Apelido == b.Apelido {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("AND result %s not present in single-filter result", b.Apelido)
		}
	}
}

func TestApplyMissingFieldExcludes(t *testing.T) {
	// Third edital has no TipoContrapartida: once that filter is
	// active it must never match.
	got := Apply(sampleEditais(), FilterState{
		CategoryContrapartida: {OptionID(CategoryContrapartida, 0, "Financeira")},
	}, "")
	if len(got) != 1 {
		t.Fatalf("expected 1 edital, got %d", len(got))
	}
	if got[0].TipoContrapartida == nil {
		t.Fatal("edital without contrapartida leaked through the filter")
	}
}

func TestApplyBidirectionalContainment(t *testing.T) {
	editais := []models.Edital{
		{Apelido: "A", Financiador1: "Financiadora de Estudos e Projetos"},
	}

	// Abbreviation selected, full text in data: the normalized option
	// is a substring of the field.
	got := Apply(editais, FilterState{
		CategoryFinanciador: {OptionID(CategoryFinanciador, 0, "Financiadora")},
	}, "")
	if len(got) != 1 {
		t.Fatal("option-in-field containment failed")
	}

	// Full text selected, abbreviated text in data.
	editais[0].Financiador1 = "FINEP"
	got = Apply(editais, FilterState{
		CategoryFinanciador: {OptionID(CategoryFinanciador, 0, "FINEP - Financiadora de Estudos e Projetos")},
	}, "")
	if len(got) != 1 {
		// "finep" alone is a substring of the full option value.
		t.Fatal("expected field-in-option containment to match")
	}
}

func TestApplySecondaryFunderSatisfiesFilter(t *testing.T) {
	got := Apply(sampleEditais(), FilterState{
		CategoryFinanciador: {OptionID(CategoryFinanciador, 0, "CAPES")},
	}, "")
	if len(got) != 1 || got[0].Financiador2 != "CAPES" {
		t.Fatalf("secondary funder did not satisfy the filter: %d results", len(got))
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Subvenção Econômica": "subvenoeconmica",
		"Não-Reembolsável":    "noreembolsvel",
		"FINEP 2024":          "finep2024",
		"":                    "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
