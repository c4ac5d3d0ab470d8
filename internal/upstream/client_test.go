package upstream

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

type stubFetcher struct {
	body string
	url  string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (*FetchedDocument, error) {
	f.url = url
	return &FetchedDocument{
		URL:         url,
		StatusCode:  200,
		ContentType: "application/json",
		Body:        io.NopCloser(strings.NewReader(f.body)),
		FetchedAt:   time.Now(),
	}, nil
}

func TestFetchAPINoticesBareArray(t *testing.T) {
	f := &stubFetcher{body: `[{"apelido_edital": "FINEP IoT"}, {"apelido_edital": "FAPESP PIPE"}]`}
	src := SourceConfig{ID: "api", BaseURL: "https://api.example.com/"}

	raws, err := FetchAPINotices(context.Background(), f, src)
	if err != nil {
		t.Fatalf("FetchAPINotices: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(raws))
	}
	if raws[0]["apelido_edital"] != "FINEP IoT" {
		t.Errorf("first notice = %v", raws[0])
	}
	if f.url != "https://api.example.com/editais" {
		t.Errorf("endpoint = %q", f.url)
	}
}

func TestFetchAPINoticesWrappedObject(t *testing.T) {
	f := &stubFetcher{body: `{"editais": [{"apelido_edital": "CNPq Universal"}], "total": 1}`}
	src := SourceConfig{ID: "api", BaseURL: "https://api.example.com"}

	raws, err := FetchAPINotices(context.Background(), f, src)
	if err != nil {
		t.Fatalf("FetchAPINotices: %v", err)
	}
	if len(raws) != 1 || raws[0]["apelido_edital"] != "CNPq Universal" {
		t.Errorf("unexpected result %v", raws)
	}
}

func TestFetchAPINoticesMissingBaseURL(t *testing.T) {
	if _, err := FetchAPINotices(context.Background(), &stubFetcher{}, SourceConfig{ID: "x"}); err == nil {
		t.Fatal("expected error for missing base_url")
	}
}

func TestLoadRegistryEmbedded(t *testing.T) {
	reg, err := LoadRegistry("")
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.Sources) == 0 {
		t.Fatal("expected embedded sources")
	}
	for _, src := range reg.Sources {
		if src.ID == "" || src.Kind == "" {
			t.Errorf("source missing id or kind: %+v", src)
		}
	}
}
