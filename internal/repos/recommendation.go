package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

// RecommendationFilter narrows List results. Zero values mean "no filter".
type RecommendationFilter struct {
	TagName            string
	SourceUserExternal string
	BookExternal       string
	Limit              int
	Offset             int
}

type RecommendationRepo interface {
	// InsertIfAbsent inserts keyed by source_url. On a conflict nothing is
	// written and created=false is returned: re-crawls are no-ops, first
	// write wins.
	InsertIfAbsent(ctx context.Context, tx *gorm.DB, rec *types.Recommendation) (created bool, err error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Recommendation, error)
	GetBySourceURL(ctx context.Context, tx *gorm.DB, sourceURL string) (*types.Recommendation, error)
	List(ctx context.Context, tx *gorm.DB, filter RecommendationFilter) ([]*types.Recommendation, error)
	CountByBook(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) (int64, error)
}

type recommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
	repoLog := baseLog.With("repo", "RecommendationRepo")
	return &recommendationRepo{db: db, log: repoLog}
}

func (r *recommendationRepo) InsertIfAbsent(ctx context.Context, tx *gorm.DB, rec *types.Recommendation) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_url"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *recommendationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Recommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rec types.Recommendation
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationRepo) GetBySourceURL(ctx context.Context, tx *gorm.DB, sourceURL string) (*types.Recommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rec types.Recommendation
	err := transaction.WithContext(ctx).
		Where("source_url = ?", sourceURL).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationRepo) List(ctx context.Context, tx *gorm.DB, filter RecommendationFilter) ([]*types.Recommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.Recommendation{}).
		Preload("SourceUser").
		Preload("Book").
		Preload("Tags")

	if filter.TagName != "" {
		q = q.Joins("JOIN classifications ON classifications.recommendation_id = recommendations.id").
			Joins("JOIN tags ON tags.id = classifications.tag_id").
			Where("tags.name = ?", filter.TagName)
	}
	if filter.SourceUserExternal != "" {
		q = q.Joins("JOIN source_users ON source_users.id = recommendations.source_user_id").
			Where("source_users.external_id = ?", filter.SourceUserExternal)
	}
	if filter.BookExternal != "" {
		q = q.Joins("JOIN books ON books.id = recommendations.book_id").
			Where("books.external_id = ?", filter.BookExternal)
	}

	q = q.Order("recommendations.recommended_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var recs []*types.Recommendation
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *recommendationRepo) CountByBook(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Recommendation{}).
		Where("book_id = ?", bookID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
