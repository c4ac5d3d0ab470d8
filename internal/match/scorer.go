package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/GoFutureTeam/gofomentos/internal/models"
)

// MinScore is the compatibility threshold: notices scoring below it are
// dropped from the ranked result.
const MinScore = 50

// categoryVocab is the fixed vocabulary of domain categories used for
// the flat category-overlap award. Matched as lowercase substrings on
// both the project and the notice side.
var categoryVocab = []string{
	"tecnologia",
	"inovação",
	"pesquisa",
	"desenvolvimento",
	"sustentabilidade",
	"educação",
	"saúde",
	"social",
}

// proponentIndicators signal that a notice accepts companies / legal
// entities as proponents.
var proponentIndicators = []string{
	"empresa",
	"pessoa jurídica",
	"pessoa juridica",
	"cnpj",
}

// cnaeAllowedPrefixes lists the two-digit CNAE divisions considered
// technology, education or health adjacent.
var cnaeAllowedPrefixes = map[string]bool{
	"26": true, // electronics manufacturing
	"62": true, // software development
	"63": true, // information services
	"70": true, // management consulting
	"71": true, // architecture and engineering
	"72": true, // scientific R&D
	"74": true, // other professional/technical
	"85": true, // education
	"86": true, // health care
}

// projectKeywords tokenizes the project's title, objective and activity
// text on whitespace, lowercased, keeping unique tokens longer than
// three characters.
func projectKeywords(p *models.Projeto) []string {
	text := strings.ToLower(p.Titulo + " " + p.Objetivo + " " + p.AtividadeEmpresa)
	seen := make(map[string]struct{})
	var keywords []string
	for _, tok := range strings.Fields(text) {
		if len([]rune(tok)) <= 3 {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}

// categoriesIn returns the vocabulary entries appearing as substrings
// of the given lowercased text, in vocabulary order.
func categoriesIn(text string) []string {
	var found []string
	for _, cat := range categoryVocab {
		if strings.Contains(text, cat) {
			found = append(found, cat)
		}
	}
	return found
}

func intersect(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}
	var common []string
	for _, v := range a {
		if _, ok := inB[v]; ok {
			common = append(common, v)
		}
	}
	return common
}

// cnaePrefix extracts the first two digit characters of a CNAE code,
// tolerating formatted codes like "62.01-5/01".
func cnaePrefix(cnae string) string {
	var digits []byte
	for i := 0; i < len(cnae) && len(digits) < 2; i++ {
		if cnae[i] >= '0' && cnae[i] <= '9' {
			digits = append(digits, cnae[i])
		}
	}
	if len(digits) < 2 {
		return ""
	}
	return string(digits)
}

// Score computes the heuristic 0-100 compatibility between a project
// and a notice, returning the rounded score and the reasons that
// produced it. Pure string and arithmetic work; it cannot fail.
//
// Additive steps: keyword overlap (0-40), category overlap (flat 25),
// proponent-type compatibility (0, 15 or 20) and CNAE affinity (0 or
// 15). Each step is bounded, so the sum never exceeds 100.
func Score(p *models.Projeto, e *models.Edital) (int, []string) {
	var total float64
	var reasons []string

	// 1. Keyword overlap against the notice's searchable text.
	keywords := projectKeywords(p)
	noticeText := strings.ToLower(strings.Join([]string{
		e.Apelido,
		e.Financiador1,
		e.Financiador2,
		e.TipoProponente,
		e.Origem,
	}, " "))

	if len(keywords) > 0 {
		matched := 0
		for _, kw := range keywords {
			if strings.Contains(noticeText, kw) {
				matched++
			}
		}
		total += math.Min(40, float64(matched)/float64(len(keywords))*40)
		if matched > 0 {
			reasons = append(reasons, fmt.Sprintf("%d palavra(s)-chave do projeto encontrada(s) no edital", matched))
		}
	}

	// 2. Category overlap: flat award when the vocabularies intersect.
	projectCats := categoriesIn(strings.ToLower(p.Objetivo + " " + p.AtividadeEmpresa))
	noticeCats := categoriesIn(strings.ToLower(e.Apelido + " " + e.Financiador1 + " " + e.Financiador2 + " " + e.TipoProponente))
	if common := intersect(projectCats, noticeCats); len(common) > 0 {
		total += 25
		reasons = append(reasons, "Áreas em comum: "+strings.Join(common, ", "))
	}

	// 3. Proponent-type compatibility. Absent field gets the
	// benefit-of-the-doubt default.
	tipoProponente := strings.ToLower(strings.TrimSpace(e.TipoProponente))
	if tipoProponente == "" {
		total += 15
		reasons = append(reasons, "Tipo de proponente não especificado no edital")
	} else {
		for _, indicator := range proponentIndicators {
			if strings.Contains(tipoProponente, indicator) {
				total += 20
				reasons = append(reasons, "Edital aceita empresas como proponentes")
				break
			}
		}
	}

	// 4. CNAE affinity by two-digit division prefix.
	if prefix := cnaePrefix(p.CNAE); prefix != "" && cnaeAllowedPrefixes[prefix] {
		total += 15
		reasons = append(reasons, "CNAE "+prefix+" em área de afinidade do programa")
	}

	return int(math.Round(total)), reasons
}

// Rank scores every notice against the project, keeps those at or
// above MinScore and sorts descending by score. The sort is stable:
// ties preserve the original collection order.
func Rank(p *models.Projeto, editais []models.Edital) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(editais))
	for i := range editais {
		score, reasons := Score(p, &editais[i])
		if score < MinScore {
			continue
		}
		results = append(results, models.MatchResult{
			Edital:  editais[i],
			Score:   score,
			Reasons: reasons,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
