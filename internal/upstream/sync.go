package upstream

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GoFutureTeam/gofomentos/internal/adapter"
	"github.com/GoFutureTeam/gofomentos/internal/chat"
	"github.com/GoFutureTeam/gofomentos/internal/models"
)

// Catalog is the storage surface the synchronizer writes to.
type Catalog interface {
	UpsertEdital(ctx context.Context, e *models.Edital) error
	ListEditaisSemEmbedding(ctx context.Context, limit int) ([]models.Edital, error)
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
}

// Syncer pulls notices from every configured source, adapts them to
// the domain model and upserts them into the catalog. Embeddings are
// refreshed afterwards when an embedder is available.
type Syncer struct {
	registry *Registry
	catalog  Catalog
	embedder chat.Embedder
	logger   *zap.Logger
}

func NewSyncer(registry *Registry, catalog Catalog, embedder chat.Embedder, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		registry: registry,
		catalog:  catalog,
		embedder: embedder,
		logger:   logger,
	}
}

func (s *Syncer) Run(ctx context.Context) (*SyncStats, error) {
	stats := &SyncStats{
		Sources:   len(s.registry.Sources),
		StartedAt: time.Now(),
	}

	for _, src := range s.registry.Sources {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var err error
		switch src.Kind {
		case "api":
			err = s.syncAPISource(ctx, src, stats)
		case "portal":
			err = s.syncPortalSource(ctx, src, stats)
		default:
			s.logger.Warn("unknown source kind, skipping",
				zap.String("source", src.ID), zap.String("kind", src.Kind))
			stats.Skipped++
			continue
		}
		if err != nil {
			s.logger.Error("source sync failed", zap.String("source", src.ID), zap.Error(err))
			stats.Errors++
		}
	}

	if s.embedder != nil {
		if err := s.refreshEmbeddings(ctx); err != nil {
			s.logger.Warn("embedding refresh failed", zap.Error(err))
		}
	}

	stats.Duration = time.Since(stats.StartedAt)
	s.logger.Info("sync finished",
		zap.Int("sources", stats.Sources),
		zap.Int("fetched", stats.Fetched),
		zap.Int("upserted", stats.Upserted),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
		zap.Duration("duration", stats.Duration))

	return stats, nil
}

func (s *Syncer) syncAPISource(ctx context.Context, src SourceConfig, stats *SyncStats) error {
	fetcher := NewHTTPFetcher(src.Fetch)

	raws, err := FetchAPINotices(ctx, fetcher, src)
	if err != nil {
		return err
	}
	stats.Fetched += len(raws)

	for _, raw := range raws {
		e := adapter.EditalFromRaw(raw)
		if e.Apelido == "" || e.Financiador1 == "" {
			stats.Skipped++
			continue
		}
		if e.Origem == "" {
			e.Origem = src.Origem
		}
		if err := s.catalog.UpsertEdital(ctx, &e); err != nil {
			s.logger.Warn("upsert failed",
				zap.String("source", src.ID), zap.String("apelido", e.Apelido), zap.Error(err))
			stats.Errors++
			continue
		}
		stats.Upserted++
	}

	return nil
}

func (s *Syncer) syncPortalSource(ctx context.Context, src SourceConfig, stats *SyncStats) error {
	scraper := CollyFetcherWithConfig(src.Fetch)

	items, err := scraper.ScrapePortal(ctx, src)
	if err != nil {
		return err
	}
	stats.Fetched += len(items)

	for _, item := range items {
		e := models.Edital{
			Apelido:      item.Title,
			Descricao:    item.Summary,
			Financiador1: src.Name,
			Origem:       src.Origem,
			LinkPDF:      item.PDFLink,
			Observacoes:  item.Link,
		}

		if item.PDFLink != "" {
			prazos, err := ExtractPrazosFromPDF(ctx, scraper, item.PDFLink)
			if err != nil {
				s.logger.Debug("pdf deadline extraction failed",
					zap.String("source", src.ID), zap.String("url", item.PDFLink), zap.Error(err))
			} else if len(prazos) > 0 {
				// The latest calendar entry is the submission deadline.
				last := prazos[len(prazos)-1].Data
				e.DataFimSubmissao = &last
			}
		}

		if err := s.catalog.UpsertEdital(ctx, &e); err != nil {
			s.logger.Warn("upsert failed",
				zap.String("source", src.ID), zap.String("apelido", e.Apelido), zap.Error(err))
			stats.Errors++
			continue
		}
		stats.Upserted++
	}

	return nil
}

// refreshEmbeddings computes vectors for notices that do not have one
// yet. Failures are logged and skipped so one bad notice does not
// abort the batch.
func (s *Syncer) refreshEmbeddings(ctx context.Context) error {
	editais, err := s.catalog.ListEditaisSemEmbedding(ctx, 100)
	if err != nil {
		return err
	}

	for _, e := range editais {
		if err := ctx.Err(); err != nil {
			return err
		}
		text := e.Apelido + "\n" + e.Descricao + "\n" + e.Area
		vec, err := s.embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			s.logger.Debug("embedding failed", zap.String("apelido", e.Apelido), zap.Error(err))
			continue
		}
		if err := s.catalog.UpdateEmbedding(ctx, e.ID, vec); err != nil {
			s.logger.Warn("embedding update failed", zap.String("apelido", e.Apelido), zap.Error(err))
		}
	}

	return nil
}
