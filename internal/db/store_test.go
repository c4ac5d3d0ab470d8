package db

import (
	"strings"
	"testing"
)

func TestStatusConstraint_OpenIsStrict(t *testing.T) {
	clause := statusConstraint("open")

	mustContain := []string{
		"data_final_submissao IS NOT NULL",
		"data_final_submissao >= NOW()",
		"data_inicial_submissao IS NULL OR data_inicial_submissao <= NOW()",
	}

	for _, token := range mustContain {
		if !strings.Contains(clause, token) {
			t.Fatalf("open clause missing token %q: %s", token, clause)
		}
	}

	if strings.Contains(clause, "data_final_submissao IS NULL OR") {
		t.Fatalf("open clause must not allow null deadlines: %s", clause)
	}
}

func TestStatusConstraint_Closed(t *testing.T) {
	clause := statusConstraint("closed")
	if !strings.Contains(clause, "data_final_submissao < NOW()") {
		t.Fatalf("closed clause wrong: %s", clause)
	}
}

func TestStatusConstraint_All(t *testing.T) {
	if clause := statusConstraint("all"); clause != "" {
		t.Fatalf("all must add no constraint, got %s", clause)
	}
}

func TestQualifyCols(t *testing.T) {
	qualified := qualifyCols("e")

	cols := strings.Split(qualified, ",")
	if len(cols) != 27 {
		t.Fatalf("expected 27 columns, got %d", len(cols))
	}
	for _, col := range cols {
		if !strings.HasPrefix(strings.TrimSpace(col), "e.") {
			t.Fatalf("column not qualified: %q", col)
		}
	}
}
