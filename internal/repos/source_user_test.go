package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/dp-wu/bookradar-backend/internal/repos/testutil"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

func TestSourceUserUpsertRefreshesWithoutNewRow(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSourceUserRepo(testutil.DB(t), testutil.Logger(t))

	first, err := repo.Upsert(ctx, tx, &types.SourceUser{
		ExternalID: "douban-1001",
		Name:       "old name",
		ProfileURL: "https://example.com/people/1001",
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := repo.Upsert(ctx, tx, &types.SourceUser{
		ExternalID: "douban-1001",
		Name:       "new name",
		ProfileURL: "https://example.com/people/1001-renamed",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("primary key must survive the upsert: first=%s second=%s", first.ID, second.ID)
	}
	if second.Name != "new name" {
		t.Fatalf("display attributes must be refreshed: got name=%q", second.Name)
	}

	var count int64
	if err := tx.Model(&types.SourceUser{}).
		Where("external_id = ?", "douban-1001").
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("want exactly one row, got %d", count)
	}
}

func TestSourceUserGetByIDMiss(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSourceUserRepo(testutil.DB(t), testutil.Logger(t))

	su, err := repo.GetByID(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if su != nil {
		t.Fatalf("want nil for unknown id, got %+v", su)
	}
}

func TestSourceUserDelete(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSourceUserRepo(testutil.DB(t), testutil.Logger(t))

	su := testutil.SeedSourceUser(t, ctx, tx, "douban-1002")
	if err := repo.Delete(ctx, tx, su.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := repo.GetByID(ctx, tx, su.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("row should be gone, got %+v", got)
	}
}
