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

type SourceUserRepo interface {
	// Upsert matches by external_id. When the row exists the display
	// attributes are refreshed and the primary key is preserved; the
	// canonical row is returned either way.
	Upsert(ctx context.Context, tx *gorm.DB, su *types.SourceUser) (*types.SourceUser, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SourceUser, error)
	GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*types.SourceUser, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type sourceUserRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSourceUserRepo(db *gorm.DB, baseLog *logger.Logger) SourceUserRepo {
	repoLog := baseLog.With("repo", "SourceUserRepo")
	return &sourceUserRepo{db: db, log: repoLog}
}

func (r *sourceUserRepo) Upsert(ctx context.Context, tx *gorm.DB, su *types.SourceUser) (*types.SourceUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if su.ID == uuid.Nil {
		su.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "profile_url", "updated_at",
			}),
		}).
		Create(su).Error; err != nil {
		return nil, err
	}

	// Re-read so the caller sees the surviving primary key on conflict.
	return r.GetByExternalID(ctx, transaction, su.ExternalID)
}

func (r *sourceUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SourceUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var su types.SourceUser
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&su).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &su, nil
}

func (r *sourceUserRepo) GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*types.SourceUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var su types.SourceUser
	err := transaction.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&su).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &su, nil
}

func (r *sourceUserRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.SourceUser{}).Error
}
