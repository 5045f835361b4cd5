package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

type QueryHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.QueryHistory) ([]*types.QueryHistory, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.QueryHistory, error)
}

type queryHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQueryHistoryRepo(db *gorm.DB, baseLog *logger.Logger) QueryHistoryRepo {
	repoLog := baseLog.With("repo", "QueryHistoryRepo")
	return &queryHistoryRepo{db: db, log: repoLog}
}

func (r *queryHistoryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.QueryHistory) ([]*types.QueryHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.QueryHistory{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *queryHistoryRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.QueryHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []*types.QueryHistory
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
