package upstream

import (
	"testing"
	"time"
)

func TestParsePrazosFromText(t *testing.T) {
	text := `CRONOGRAMA
	Lançamento da chamada: 10/01/2026
	Encerramento das submissões: 30 de junho de 2026
	Divulgação do resultado: 2026-09-15`

	prazos := parsePrazosFromText(text)
	if len(prazos) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(prazos))
	}

	// Chronological order.
	for i := 1; i < len(prazos); i++ {
		if prazos[i].Data.Before(prazos[i-1].Data) {
			t.Errorf("candidates out of order: %v after %v", prazos[i].Data, prazos[i-1].Data)
		}
	}

	last := prazos[len(prazos)-1]
	if last.Data.Year() != 2026 || last.Data.Month() != time.September {
		t.Errorf("last candidate = %v, want september 2026", last.Data)
	}

	if prazos[1].Label != "encerramento das submissões" {
		t.Errorf("label = %q, want calendar hint", prazos[1].Label)
	}
}

func TestParsePrazosFromTextNoDates(t *testing.T) {
	if got := parsePrazosFromText("edital sem calendário definido"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestParsePrazosDeduplicates(t *testing.T) {
	text := "prazo 30/06/2026 confirmado, repetindo: prazo final 30/06/2026"
	prazos := parsePrazosFromText(text)
	if len(prazos) != 1 {
		t.Fatalf("expected 1 distinct candidate, got %d", len(prazos))
	}
}
