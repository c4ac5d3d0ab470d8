package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher implements Fetcher using Colly. It provides rate
// limiting, retries and respects robots.txt, which matters for the
// public funder portals.
type CollyFetcher struct {
	UserAgent         string
	MaxRetries        int
	RequestTimeout    time.Duration
	DomainDelay       time.Duration
	RandomDelayFactor float64
	MaxBodySize       int // bytes, 0 = unlimited
	ParallelThreads   int
}

func NewCollyFetcher() *CollyFetcher {
	return &CollyFetcher{
		UserAgent:         browserUserAgent,
		MaxRetries:        3,
		RequestTimeout:    30 * time.Second,
		DomainDelay:       1 * time.Second,
		RandomDelayFactor: 0.5,
		MaxBodySize:       10 * 1024 * 1024,
		ParallelThreads:   2,
	}
}

// CollyFetcherWithConfig creates a CollyFetcher from a FetchConfig.
func CollyFetcherWithConfig(cfg FetchConfig) *CollyFetcher {
	f := NewCollyFetcher()

	if cfg.TimeoutSeconds > 0 {
		f.RequestTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.RateLimitRPS > 0 {
		f.DomainDelay = time.Duration(float64(time.Second) / cfg.RateLimitRPS)
	}
	if cfg.MaxRetries > 0 {
		f.MaxRetries = cfg.MaxRetries
	}

	return f
}

func (f *CollyFetcher) buildCollector(allowedDomains []string) *colly.Collector {
	opts := []colly.CollectorOption{
		colly.UserAgent(f.UserAgent),
		colly.MaxBodySize(f.MaxBodySize),
		colly.AllowURLRevisit(),
		colly.DetectCharset(),
	}

	if len(allowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(allowedDomains...))
	}

	c := colly.NewCollector(opts...)

	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: f.ParallelThreads,
		Delay:       f.DomainDelay,
		RandomDelay: time.Duration(float64(f.DomainDelay) * f.RandomDelayFactor),
	})

	c.SetRequestTimeout(f.RequestTimeout)

	c.OnError(func(r *colly.Response, err error) {
		if r.Request.Ctx.GetAny("retries") == nil {
			r.Request.Ctx.Put("retries", 0)
		}
		retries := r.Request.Ctx.GetAny("retries").(int)
		if retries < f.MaxRetries {
			r.Request.Ctx.Put("retries", retries+1)
			log.Printf("[colly] retry %d/%d for %s: %v", retries+1, f.MaxRetries, r.Request.URL, err)
			time.Sleep(time.Duration(retries+1) * time.Second)
			r.Request.Retry()
		}
	})

	return c
}

// Fetch implements the Fetcher interface, returning a FetchedDocument.
func (f *CollyFetcher) Fetch(ctx context.Context, targetURL string) (*FetchedDocument, error) {
	parsedURL, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	c := f.buildCollector([]string{parsedURL.Host})

	var result *FetchedDocument
	var fetchErr error
	var wg sync.WaitGroup
	wg.Add(1)

	c.OnResponse(func(r *colly.Response) {
		defer wg.Done()
		result = &FetchedDocument{
			URL:         r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        io.NopCloser(bytes.NewReader(r.Body)),
			FetchedAt:   time.Now(),
			Headers:     map[string][]string(r.Headers.Clone()),
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		retries := 0
		if r.Request.Ctx.GetAny("retries") != nil {
			retries = r.Request.Ctx.GetAny("retries").(int)
		}
		if retries >= f.MaxRetries {
			fetchErr = fmt.Errorf("fetch failed after %d retries: %w", f.MaxRetries, err)
			wg.Done()
		}
	})

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			fetchErr = ctx.Err()
			wg.Done()
		case <-done:
		}
	}()

	if err := c.Visit(targetURL); err != nil {
		close(done)
		return nil, fmt.Errorf("visit failed: %w", err)
	}

	wg.Wait()
	close(done)

	if fetchErr != nil {
		return nil, fetchErr
	}
	if result == nil {
		return nil, fmt.Errorf("no response received for %s", targetURL)
	}

	return result, nil
}

// PortalItem is a notice reference scraped from a funder portal list
// page. Title and Link are mandatory; the PDF link, when present,
// feeds the deadline extractor.
type PortalItem struct {
	Title   string
	Link    string
	Summary string
	PDFLink string
}

// ScrapePortal walks a portal source's seed pages and extracts notice
// references using the configured selectors.
func (f *CollyFetcher) ScrapePortal(ctx context.Context, src SourceConfig) ([]PortalItem, error) {
	if src.Selectors.Container == "" {
		return nil, fmt.Errorf("source %s has no container selector", src.ID)
	}

	var items []PortalItem
	var mu sync.Mutex

	var domains []string
	for _, seed := range src.Seeds {
		if u, err := url.Parse(seed); err == nil {
			domains = append(domains, u.Host)
		}
	}
	c := f.buildCollector(domains)

	c.OnHTML(src.Selectors.Container, func(e *colly.HTMLElement) {
		item := PortalItem{}

		if src.Selectors.Title != "" {
			item.Title = cleanSpace(e.ChildText(src.Selectors.Title))
		} else {
			item.Title = cleanSpace(e.Text)
		}

		if src.Selectors.Link != "" && src.Selectors.Link != "." {
			item.Link = e.Request.AbsoluteURL(e.ChildAttr(src.Selectors.Link, "href"))
		} else {
			item.Link = e.Request.AbsoluteURL(e.Attr("href"))
		}

		if src.Selectors.Summary != "" {
			item.Summary = cleanSpace(e.ChildText(src.Selectors.Summary))
		}
		if src.Selectors.PDFLink != "" {
			item.PDFLink = e.Request.AbsoluteURL(e.ChildAttr(src.Selectors.PDFLink, "href"))
		}

		if item.Title != "" && item.Link != "" {
			mu.Lock()
			items = append(items, item)
			mu.Unlock()
		}
	})

	maxPages := src.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	visited := 0
	for _, seed := range src.Seeds {
		if err := ctx.Err(); err != nil {
			return items, err
		}
		if visited >= maxPages {
			break
		}
		if err := c.Visit(seed); err != nil {
			return items, fmt.Errorf("visit %s: %w", seed, err)
		}
		visited++
	}
	c.Wait()

	return items, nil
}
