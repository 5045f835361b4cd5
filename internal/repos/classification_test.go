package repos

import (
	"context"
	"testing"
	"time"

	"github.com/dp-wu/bookradar-backend/internal/repos/testutil"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

func TestClassificationUpsertOverwritesConfidence(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewClassificationRepo(testutil.DB(t), testutil.Logger(t))

	su := testutil.SeedSourceUser(t, ctx, tx, "douban-4001")
	book := testutil.SeedBook(t, ctx, tx, "isbn-4001")
	rec := testutil.SeedRecommendation(t, ctx, tx, su.ID, book.ID, "https://example.com/posts/4001")
	tag := testutil.SeedTag(t, ctx, tx, "sci-fi-4001")

	if err := repo.Upsert(ctx, tx, &types.Classification{
		RecommendationID: rec.ID,
		TagID:            tag.ID,
		Confidence:       0.8,
		UpdatedAt:        time.Now().UTC(),
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.Upsert(ctx, tx, &types.Classification{
		RecommendationID: rec.ID,
		TagID:            tag.ID,
		Confidence:       0.95,
		UpdatedAt:        time.Now().UTC(),
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := repo.GetByRecommendationID(ctx, tx, rec.ID)
	if err != nil {
		t.Fatalf("GetByRecommendationID: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("composite key must dedupe: want=1 got=%d", len(rows))
	}
	if rows[0].Confidence != 0.95 {
		t.Fatalf("latest classification must win: want=0.95 got=%v", rows[0].Confidence)
	}

	count, err := repo.CountByRecommendationID(ctx, tx, rec.ID)
	if err != nil {
		t.Fatalf("CountByRecommendationID: %v", err)
	}
	if count != 1 {
		t.Fatalf("want=1 got=%d", count)
	}
}

func TestClassificationDistinctTagsCoexist(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewClassificationRepo(testutil.DB(t), testutil.Logger(t))

	su := testutil.SeedSourceUser(t, ctx, tx, "douban-4002")
	book := testutil.SeedBook(t, ctx, tx, "isbn-4002")
	rec := testutil.SeedRecommendation(t, ctx, tx, su.ID, book.ID, "https://example.com/posts/4002")
	tagA := testutil.SeedTag(t, ctx, tx, "sci-fi-4002")
	tagB := testutil.SeedTag(t, ctx, tx, "classics-4002")

	for _, tag := range []*types.Tag{tagA, tagB} {
		if err := repo.Upsert(ctx, tx, &types.Classification{
			RecommendationID: rec.ID,
			TagID:            tag.ID,
			Confidence:       0.5,
			UpdatedAt:        time.Now().UTC(),
		}); err != nil {
			t.Fatalf("upsert tag %s: %v", tag.Name, err)
		}
	}

	rows, err := repo.GetByRecommendationID(ctx, tx, rec.ID)
	if err != nil {
		t.Fatalf("GetByRecommendationID: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("distinct tags must coexist: want=2 got=%d", len(rows))
	}
}
