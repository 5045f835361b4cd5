package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dp-wu/bookradar-backend/internal/apperr"
	"github.com/dp-wu/bookradar-backend/internal/jobs/runtime"
	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/services"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

const TypeIngestBatch = "ingest_batch"

// IngestItem is one crawled post inside a batch.
type IngestItem struct {
	Book          BookAttrs  `json:"book"`
	SourceURL     string     `json:"source_url"`
	Summary       string     `json:"summary"`
	RecommendedAt *time.Time `json:"recommended_at,omitempty"`
}

type BookAttrs struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Publisher  string `json:"publisher"`
	URL        string `json:"url"`
	CoverImage string `json:"cover_image"`
}

type SourceUserAttrs struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
}

// IngestBatchPayload is what the crawler enqueues once it has fetched a feed:
// one source user plus the posts found on it.
type IngestBatchPayload struct {
	SourceUser SourceUserAttrs `json:"source_user"`
	Items      []IngestItem    `json:"items"`
}

// IngestBatchHandler writes a crawled batch through the ledger. Parents are
// upserted before each recommendation, so the ingestion contract ordering
// holds; created=false results are normal, not errors.
type IngestBatchHandler struct {
	log    *logger.Logger
	ledger services.LedgerService
}

func NewIngestBatchHandler(log *logger.Logger, ledger services.LedgerService) *IngestBatchHandler {
	return &IngestBatchHandler{
		log:    log.With("task", TypeIngestBatch),
		ledger: ledger,
	}
}

func (h *IngestBatchHandler) Type() string { return TypeIngestBatch }

func (h *IngestBatchHandler) Run(jc *runtime.Context) error {
	var payload IngestBatchPayload
	if err := json.Unmarshal(jc.Job.Payload, &payload); err != nil {
		jc.Fail("decode", fmt.Errorf("malformed payload: %w", err))
		return nil
	}
	if payload.SourceUser.ExternalID == "" {
		jc.Fail("validate", fmt.Errorf("source_user.external_id is required"))
		return nil
	}

	su, err := h.ledger.UpsertSourceUser(jc.Ctx, payload.SourceUser.ExternalID, payload.SourceUser.Name, payload.SourceUser.ProfileURL)
	if err != nil {
		jc.Fail("upsert_source_user", err)
		return nil
	}

	ingested := 0
	skipped := 0
	for _, item := range payload.Items {
		book, err := h.ledger.UpsertBook(jc.Ctx, &types.Book{
			ExternalID: item.Book.ExternalID,
			Title:      item.Book.Title,
			Author:     item.Book.Author,
			Publisher:  item.Book.Publisher,
			URL:        item.Book.URL,
			CoverImage: item.Book.CoverImage,
		})
		if err != nil {
			jc.Fail("upsert_book", err)
			return nil
		}

		_, created, err := h.ledger.IngestRecommendation(jc.Ctx, services.IngestInput{
			SourceURL:     item.SourceURL,
			SourceUserID:  su.ID,
			BookID:        book.ID,
			Summary:       item.Summary,
			RecommendedAt: item.RecommendedAt,
		})
		if errors.Is(err, apperr.ErrForeignKeyViolation) {
			// Parent rows were just upserted, so this is a pipeline
			// bug. Fatal to this attempt, not to the worker.
			jc.Fail("ingest", err)
			return nil
		}
		if err != nil {
			jc.Fail("ingest", err)
			return nil
		}
		if created {
			ingested++
		} else {
			skipped++
		}
		jc.Heartbeat()
	}

	h.log.Info("Ingest batch finished",
		"source_user", payload.SourceUser.ExternalID,
		"ingested", ingested,
		"skipped", skipped,
	)
	jc.Succeed(map[string]any{
		"ingested": ingested,
		"skipped":  skipped,
	})
	return nil
}
