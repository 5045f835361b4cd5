package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

type ClassificationRepo interface {
	// Upsert writes the confidence for a (recommendation, tag) pair. On
	// conflict the confidence is overwritten, not accumulated.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.Classification) error
	GetByRecommendationID(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) ([]*types.Classification, error)
	CountByRecommendationID(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) (int64, error)
}

type classificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassificationRepo(db *gorm.DB, baseLog *logger.Logger) ClassificationRepo {
	repoLog := baseLog.With("repo", "ClassificationRepo")
	return &classificationRepo{db: db, log: repoLog}
}

func (r *classificationRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.Classification) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "recommendation_id"}, {Name: "tag_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"confidence", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *classificationRepo) GetByRecommendationID(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) ([]*types.Classification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []*types.Classification
	if err := transaction.WithContext(ctx).
		Where("recommendation_id = ?", recommendationID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *classificationRepo) CountByRecommendationID(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Classification{}).
		Where("recommendation_id = ?", recommendationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
