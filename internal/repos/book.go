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

type BookRepo interface {
	// Upsert matches by external_id, refreshing mutable display attributes
	// on conflict while preserving the primary key.
	Upsert(ctx context.Context, tx *gorm.DB, book *types.Book) (*types.Book, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Book, error)
	GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*types.Book, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Book, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type bookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo {
	repoLog := baseLog.With("repo", "BookRepo")
	return &bookRepo{db: db, log: repoLog}
}

func (r *bookRepo) Upsert(ctx context.Context, tx *gorm.DB, book *types.Book) (*types.Book, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "author", "publisher", "url", "cover_image", "updated_at",
			}),
		}).
		Create(book).Error; err != nil {
		return nil, err
	}

	return r.GetByExternalID(ctx, transaction, book.ExternalID)
}

func (r *bookRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Book, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var book types.Book
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepo) GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*types.Book, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var book types.Book
	err := transaction.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Book, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var books []*types.Book
	q := transaction.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Book{}).Error
}
