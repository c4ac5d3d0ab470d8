package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

func cleanSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// apiListResponse covers the two shapes the backend API exposes: a
// bare JSON array and an object wrapping the array in "editais".
type apiListResponse struct {
	Editais []map[string]interface{} `json:"editais"`
}

// FetchAPINotices pulls the raw notice list from an API source. Each
// element is an untyped map; the adapter package turns it into the
// domain model.
func FetchAPINotices(ctx context.Context, fetcher Fetcher, src SourceConfig) ([]map[string]interface{}, error) {
	if src.BaseURL == "" {
		return nil, fmt.Errorf("source %s has no base_url", src.ID)
	}

	endpoint := strings.TrimRight(src.BaseURL, "/") + "/editais"
	if src.APIKey != "" {
		endpoint += "?api_key=" + src.APIKey
	}

	doc, err := fetcher.Fetch(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.ID, err)
	}
	defer doc.Body.Close()

	data, err := io.ReadAll(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.ID, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []map[string]interface{}
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode %s: %w", src.ID, err)
		}
		return list, nil
	}

	var wrapped apiListResponse
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode %s: %w", src.ID, err)
	}
	return wrapped.Editais, nil
}
