package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dp-wu/bookradar-backend/internal/apperr"
	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/normalization"
	"github.com/dp-wu/bookradar-backend/internal/repos"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

// IngestInput is one crawled post. Both parent ids must already exist: the
// pipeline upserts SourceUser and Book before ingesting.
type IngestInput struct {
	SourceURL     string
	SourceUserID  uuid.UUID
	BookID        uuid.UUID
	Summary       string
	RecommendedAt *time.Time
}

// LedgerService is the write-path contract every ingestion job must go
// through. Each operation runs as one transaction; concurrent workers racing
// on the same external id or source URL resolve through the storage
// uniqueness constraints, with the loser observing created=false rather than
// an error.
type LedgerService interface {
	UpsertSourceUser(ctx context.Context, externalID, name, profileURL string) (*types.SourceUser, error)
	UpsertBook(ctx context.Context, book *types.Book) (*types.Book, error)
	IngestRecommendation(ctx context.Context, in IngestInput) (*types.Recommendation, bool, error)
	Classify(ctx context.Context, recommendationID uuid.UUID, tagName string, confidence float64) error
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
	DeleteSourceUser(ctx context.Context, sourceUserID uuid.UUID) error
}

type ledgerService struct {
	db                 *gorm.DB
	log                *logger.Logger
	sourceUserRepo     repos.SourceUserRepo
	bookRepo           repos.BookRepo
	recommendationRepo repos.RecommendationRepo
	tagRepo            repos.TagRepo
	classificationRepo repos.ClassificationRepo
}

func NewLedgerService(
	db *gorm.DB,
	log *logger.Logger,
	sourceUserRepo repos.SourceUserRepo,
	bookRepo repos.BookRepo,
	recommendationRepo repos.RecommendationRepo,
	tagRepo repos.TagRepo,
	classificationRepo repos.ClassificationRepo,
) LedgerService {
	serviceLog := log.With("service", "LedgerService")
	return &ledgerService{
		db:                 db,
		log:                serviceLog,
		sourceUserRepo:     sourceUserRepo,
		bookRepo:           bookRepo,
		recommendationRepo: recommendationRepo,
		tagRepo:            tagRepo,
		classificationRepo: classificationRepo,
	}
}

func (ls *ledgerService) UpsertSourceUser(ctx context.Context, externalID, name, profileURL string) (*types.SourceUser, error) {
	externalID = normalization.TrimInputString(externalID)
	if externalID == "" {
		return nil, fmt.Errorf("%w: source user external id is required", apperr.ErrInvalidArgument)
	}

	var out *types.SourceUser
	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		su, err := ls.sourceUserRepo.Upsert(ctx, tx, &types.SourceUser{
			ExternalID: externalID,
			Name:       normalization.TrimInputString(name),
			ProfileURL: normalization.TrimInputString(profileURL),
		})
		if err != nil {
			return apperr.Translate(err)
		}
		out = su
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ls *ledgerService) UpsertBook(ctx context.Context, book *types.Book) (*types.Book, error) {
	if book == nil {
		return nil, fmt.Errorf("%w: book is required", apperr.ErrInvalidArgument)
	}
	book.ExternalID = normalization.TrimInputString(book.ExternalID)
	if book.ExternalID == "" {
		return nil, fmt.Errorf("%w: book external id is required", apperr.ErrInvalidArgument)
	}

	var out *types.Book
	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := ls.bookRepo.Upsert(ctx, tx, book)
		if err != nil {
			return apperr.Translate(err)
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IngestRecommendation is idempotent per source URL. The first call inserts
// and returns created=true; any later call (or the loser of a concurrent
// race) returns the existing row with created=false and changes nothing; the
// summary and timestamps of the first write stay as they were.
func (ls *ledgerService) IngestRecommendation(ctx context.Context, in IngestInput) (*types.Recommendation, bool, error) {
	sourceURL := normalization.TrimInputString(in.SourceURL)
	if sourceURL == "" {
		return nil, false, fmt.Errorf("%w: source url is required", apperr.ErrInvalidArgument)
	}
	if in.SourceUserID == uuid.Nil || in.BookID == uuid.Nil {
		return nil, false, fmt.Errorf("%w: source user id and book id are required", apperr.ErrInvalidArgument)
	}

	var out *types.Recommendation
	var created bool
	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := &types.Recommendation{
			Summary:       in.Summary,
			RecommendedAt: in.RecommendedAt,
			CrawledAt:     time.Now().UTC(),
			SourceURL:     sourceURL,
			SourceUserID:  in.SourceUserID,
			BookID:        in.BookID,
		}
		inserted, err := ls.recommendationRepo.InsertIfAbsent(ctx, tx, rec)
		if err != nil {
			return apperr.Translate(err)
		}
		if inserted {
			out = rec
			created = true
			return nil
		}
		existing, err := ls.recommendationRepo.GetBySourceURL(ctx, tx, sourceURL)
		if err != nil {
			return apperr.Translate(err)
		}
		if existing == nil {
			return fmt.Errorf("recommendation vanished after conflict on %s", sourceURL)
		}
		out = existing
		created = false
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

// Classify resolves or creates the tag and writes the confidence for the
// (recommendation, tag) pair. Reclassification overwrites; scores are never
// summed or averaged. A confidence outside [0, 1] is stored as given but
// flagged, since it signals a classifier defect rather than data corruption.
func (ls *ledgerService) Classify(ctx context.Context, recommendationID uuid.UUID, tagName string, confidence float64) error {
	tagName = normalization.ParseInputString(tagName)
	if tagName == "" {
		return fmt.Errorf("%w: tag name is required", apperr.ErrInvalidArgument)
	}
	if recommendationID == uuid.Nil {
		return fmt.Errorf("%w: recommendation id is required", apperr.ErrInvalidArgument)
	}
	if confidence < 0 || confidence > 1 {
		ls.log.Warn("Confidence outside [0, 1]",
			"recommendation_id", recommendationID,
			"tag", tagName,
			"confidence", confidence,
		)
	}

	return ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tag, err := ls.tagRepo.GetOrCreate(ctx, tx, tagName)
		if err != nil {
			return apperr.Translate(err)
		}
		if tag == nil {
			return fmt.Errorf("tag %q could not be resolved", tagName)
		}
		row := &types.Classification{
			RecommendationID: recommendationID,
			TagID:            tag.ID,
			Confidence:       confidence,
			UpdatedAt:        time.Now().UTC(),
		}
		if err := ls.classificationRepo.Upsert(ctx, tx, row); err != nil {
			return apperr.Translate(err)
		}
		return nil
	})
}

func (ls *ledgerService) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	return ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return apperr.Translate(ls.bookRepo.Delete(ctx, tx, bookID))
	})
}

func (ls *ledgerService) DeleteSourceUser(ctx context.Context, sourceUserID uuid.UUID) error {
	return ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return apperr.Translate(ls.sourceUserRepo.Delete(ctx, tx, sourceUserID))
	})
}
