package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	rpdf "rsc.io/pdf"

	"github.com/GoFutureTeam/gofomentos/internal/adapter"
)

var prazoLabelHints = []string{
	"encerramento das submissões", "prazo final", "data limite", "data-limite",
	"submissão de propostas", "cronograma", "calendário", "divulgação do resultado",
}

var dataSnippetRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d{1,2}/\d{1,2}/20\d{2}\b`),
	regexp.MustCompile(`(?i)\b20\d{2}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}\s+de\s+(janeiro|fevereiro|março|marco|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\s+de\s+20\d{2}\b`),
}

func extractPDFText(content []byte) (text string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("pdf parser panic: %v", recovered)
			text = ""
		}
	}()

	reader, err := rpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		for _, fragment := range page.Content().Text {
			builder.WriteString(fragment.S)
			builder.WriteString(" ")
		}
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// PrazoCandidate is a dated snippet found in a notice PDF, usually a
// row of the submission calendar.
type PrazoCandidate struct {
	Data    time.Time
	Snippet string
	Label   string
}

// parsePrazosFromText scans text for Brazilian date tokens and returns
// the distinct candidates in chronological order.
func parsePrazosFromText(text string) []PrazoCandidate {
	matches := make(map[string]PrazoCandidate)

	for _, expr := range dataSnippetRegexes {
		for _, loc := range expr.FindAllStringIndex(text, -1) {
			token := strings.TrimSpace(text[loc[0]:loc[1]])
			parsed, err := adapter.ParseData(token)
			if err != nil {
				continue
			}

			start := loc[0] - 80
			if start < 0 {
				start = 0
			}
			end := loc[1] + 80
			if end > len(text) {
				end = len(text)
			}
			snippet := cleanSpace(strings.ReplaceAll(text[start:end], "\n", " "))

			label := "prazo"
			snippetLower := strings.ToLower(snippet)
			for _, hint := range prazoLabelHints {
				if strings.Contains(snippetLower, hint) {
					label = hint
					break
				}
			}

			key := parsed.UTC().Format(time.RFC3339)
			matches[key] = PrazoCandidate{Data: parsed, Snippet: snippet, Label: label}
		}
	}

	if len(matches) == 0 {
		return nil
	}

	ordered := make([]PrazoCandidate, 0, len(matches))
	for _, c := range matches {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Data.Before(ordered[j].Data)
	})

	return ordered
}

// ExtractPrazosFromPDF downloads a notice PDF and extracts the dated
// calendar entries from its text.
func ExtractPrazosFromPDF(ctx context.Context, fetcher Fetcher, pdfURL string) ([]PrazoCandidate, error) {
	doc, err := fetcher.Fetch(ctx, pdfURL)
	if err != nil {
		return nil, err
	}
	defer doc.Body.Close()

	content, err := io.ReadAll(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("pdf read failed: %w", err)
	}

	text, err := extractPDFText(content)
	if err != nil {
		return nil, fmt.Errorf("pdf text extraction failed: %w", err)
	}

	return parsePrazosFromText(text), nil
}
