package repos

import (
	"context"
	"testing"

	"github.com/dp-wu/bookradar-backend/internal/repos/testutil"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

func TestQueryHistoryCreateAndList(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewQueryHistoryRepo(testutil.DB(t), testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "reader-6001", "reader-6001@example.com")

	rows := []*types.QueryHistory{
		{UserID: user.ID, Query: "tag=sci-fi"},
		{UserID: user.ID, Query: "book=isbn-123"},
	}
	if _, err := repo.Create(ctx, tx, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ListByUserID(ctx, tx, user.ID, 10)
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want=2 got=%d", len(got))
	}

	limited, err := repo.ListByUserID(ctx, tx, user.ID, 1)
	if err != nil {
		t.Fatalf("ListByUserID limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit ignored: want=1 got=%d", len(limited))
	}
}
