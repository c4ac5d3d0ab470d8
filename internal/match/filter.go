package match

import (
	"fmt"
	"strings"

	"github.com/GoFutureTeam/gofomentos/internal/models"
)

// FilterCategory is one of the four independent filter dimensions.
type FilterCategory string

const (
	CategoryArea          FilterCategory = "area"
	CategoryRecurso       FilterCategory = "recurso"
	CategoryContrapartida FilterCategory = "contrapartida"
	CategoryFinanciador   FilterCategory = "financiador"
)

// Categories lists every filter dimension in display order.
var Categories = []FilterCategory{
	CategoryArea,
	CategoryRecurso,
	CategoryContrapartida,
	CategoryFinanciador,
}

// FilterState maps each category to the set of selected option IDs.
// An empty (or absent) set means no filter on that dimension.
type FilterState map[FilterCategory][]string

// FilterOption is a selectable value offered for one category. The ID
// embeds the category tag, an ordinal and the normalized display value,
// e.g. "area-3-saudepublica".
type FilterOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// OptionID builds the canonical option identifier for a display value.
func OptionID(cat FilterCategory, ordinal int, label string) string {
	return fmt.Sprintf("%s-%d-%s", cat, ordinal, Normalize(label))
}

// Normalize lowercases and strips every character outside [a-z0-9].
// Punctuation, spacing and accented letters are all dropped, matching
// how filter option IDs embed their normalized display value.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripOptionPrefix removes the "<category>-<ordinal>-" prefix from an
// option ID, leaving the embedded normalized value. IDs without the
// prefix are returned unchanged.
func stripOptionPrefix(id string) string {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) == 3 {
		return parts[2]
	}
	return id
}

// fieldFor returns the notice field matched against the given category.
// Funder matching concatenates both funder fields so either satisfies
// the filter. A nil optional field yields "" and therefore never
// matches while that filter is active.
func fieldFor(e *models.Edital, cat FilterCategory) string {
	switch cat {
	case CategoryArea:
		return e.Area
	case CategoryRecurso:
		if e.TipoRecurso != nil {
			return *e.TipoRecurso
		}
	case CategoryContrapartida:
		if e.TipoContrapartida != nil {
			return *e.TipoContrapartida
		}
	case CategoryFinanciador:
		return strings.TrimSpace(e.Financiador1 + " " + e.Financiador2)
	}
	return ""
}

// optionMatches tests bidirectional substring containment between the
// normalized notice field and the normalized option value. This covers
// both "abbreviation selected, full text in data" and the reverse.
func optionMatches(fieldNorm, optionID string) bool {
	optNorm := Normalize(stripOptionPrefix(optionID))
	if fieldNorm == "" || optNorm == "" {
		return false
	}
	return strings.Contains(fieldNorm, optNorm) || strings.Contains(optNorm, fieldNorm)
}

// searchableText concatenates the free-text searchable fields of a
// notice, lowercased. Missing optional fields are skipped.
func searchableText(e *models.Edital) string {
	fields := []string{
		e.Apelido,
		e.Descricao,
		e.DescricaoCompleta,
		e.Financiador1,
		e.Financiador2,
		e.Area,
	}
	if e.TipoRecurso != nil {
		fields = append(fields, *e.TipoRecurso)
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// Apply derives the visible notice list from the full collection, the
// active filter state and a free-text query. The result is a stable
// subsequence of the input: relative order is preserved and the input
// slice is never mutated. Apply is pure and never fails; malformed or
// missing data degrades to "no match".
func Apply(editais []models.Edital, state FilterState, query string) []models.Edital {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Edital, 0, len(editais))
	for i := range editais {
		e := &editais[i]

		if query != "" && !strings.Contains(searchableText(e), query) {
			continue
		}

		keep := true
		for _, cat := range Categories {
			selected := state[cat]
			if len(selected) == 0 {
				continue
			}
			fieldNorm := Normalize(fieldFor(e, cat))
			matched := false
			for _, opt := range selected {
				if optionMatches(fieldNorm, opt) {
					matched = true
					break
				}
			}
			if !matched {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, *e)
		}
	}
	return out
}
