package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GoFutureTeam/gofomentos/internal/models"
)

func TestFindMatchesCompletes(t *testing.T) {
	m := NewMatcher(time.Second)
	p := &models.Projeto{Titulo: "pesquisa em saúde", Objetivo: "pesquisa em saúde", CNAE: "8610"}
	editais := []models.Edital{
		{Apelido: "Edital pesquisa saúde", TipoProponente: "empresas"},
	}

	results, err := m.FindMatches(context.Background(), p, editais)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestFindMatchesEmptyIsNotAnError(t *testing.T) {
	m := NewMatcher(time.Second)
	p := &models.Projeto{Titulo: "xyzw"}
	editais := []models.Edital{
		{Apelido: "Edital abcd", TipoProponente: "pessoa física"},
	}

	results, err := m.FindMatches(context.Background(), p, editais)
	if err != nil {
		t.Fatalf("zero matches must not be an error, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestFindMatchesTimeoutIsDistinct(t *testing.T) {
	// An already-expired context forces the timeout branch before the
	// scoring goroutine can deliver.
	m := NewMatcher(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := m.FindMatches(ctx, &models.Projeto{}, nil)
	if !errors.Is(err, ErrMatchTimeout) {
		t.Fatalf("expected ErrMatchTimeout, got %v", err)
	}
}

func TestNewMatcherDefaultTimeout(t *testing.T) {
	if m := NewMatcher(0); m.Timeout != DefaultMatchTimeout {
		t.Fatalf("expected default timeout, got %s", m.Timeout)
	}
}
