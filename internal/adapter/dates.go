package adapter

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var mesesPortugues = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"março":     time.March,
	"marco":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
}

var dataExtensoRegex = regexp.MustCompile(`(?i)\b(\d{1,2})\s+de\s+([a-zç]+)\s+de\s+(20\d{2})\b`)

// ParseData parses the date formats the backend and funder portals
// actually emit: RFC3339, ISO date, Brazilian dd/mm/yyyy and the
// written-out "2 de janeiro de 2026" form. Date-only values resolve to
// end of day UTC, since submission deadlines are inclusive.
func ParseData(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return endOfDay(t), nil
	}
	if t, err := time.Parse("02/01/2006", raw); err == nil {
		return endOfDay(t), nil
	}
	if t, err := time.Parse("2/1/2006", raw); err == nil {
		return endOfDay(t), nil
	}

	if m := dataExtensoRegex.FindStringSubmatch(raw); len(m) == 4 {
		if month, ok := mesesPortugues[strings.ToLower(m[2])]; ok {
			t, err := time.Parse("2 1 2006", fmt.Sprintf("%s %d %s", m[1], int(month), m[3]))
			if err == nil {
				return endOfDay(t), nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", raw)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}
