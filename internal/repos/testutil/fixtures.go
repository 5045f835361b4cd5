package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dp-wu/bookradar-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		Role:         "system_user",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSourceUser(tb testing.TB, ctx context.Context, tx *gorm.DB, externalID string) *types.SourceUser {
	tb.Helper()
	su := &types.SourceUser{
		ID:         uuid.New(),
		ExternalID: externalID,
		Name:       "reader",
		ProfileURL: "https://example.com/people/" + externalID,
	}
	if err := tx.WithContext(ctx).Create(su).Error; err != nil {
		tb.Fatalf("seed source user: %v", err)
	}
	return su
}

func SeedBook(tb testing.TB, ctx context.Context, tx *gorm.DB, externalID string) *types.Book {
	tb.Helper()
	b := &types.Book{
		ID:         uuid.New(),
		ExternalID: externalID,
		Title:      "title " + externalID,
		Author:     "author",
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed book: %v", err)
	}
	return b
}

func SeedRecommendation(tb testing.TB, ctx context.Context, tx *gorm.DB, sourceUserID, bookID uuid.UUID, sourceURL string) *types.Recommendation {
	tb.Helper()
	now := time.Now().UTC()
	rec := &types.Recommendation{
		ID:            uuid.New(),
		Summary:       "worth reading",
		RecommendedAt: &now,
		CrawledAt:     now,
		SourceURL:     sourceURL,
		SourceUserID:  sourceUserID,
		BookID:        bookID,
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed recommendation: %v", err)
	}
	return rec
}

func SeedTag(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Tag {
	tb.Helper()
	tag := &types.Tag{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(tag).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return tag
}
