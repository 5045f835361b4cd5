package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/dp-wu/bookradar-backend/internal/repos"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

func newQuery(env *serviceEnv) QueryService {
	return NewQueryService(env.db, env.log, env.recommendationRepo, env.bookRepo, env.tagRepo, env.queryHistoryRepo)
}

func TestRecommendationsRecordsHistoryForSignedInUsers(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t)
	ledger := env.ledger()
	query := newQuery(env)

	rec := ingestOne(t, ctx, env, ledger)
	su, err := env.sourceUserRepo.GetByID(ctx, nil, rec.SourceUserID)
	if err != nil || su == nil {
		t.Fatalf("load source user: %v", err)
	}

	seeded := &types.User{
		ID:           uuid.New(),
		Username:     "reader-" + uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Role:         "system_user",
	}
	if _, err := env.userRepo.Create(ctx, nil, []*types.User{seeded}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	recs, err := query.Recommendations(ctx, seeded.ID, repos.RecommendationFilter{
		SourceUserExternal: su.ExternalID,
	})
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != rec.ID {
		t.Fatalf("filter by source user: want one row %s, got %d rows", rec.ID, len(recs))
	}

	history, err := query.History(ctx, seeded.ID, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history rows: want=1 got=%d", len(history))
	}
	if history[0].Query != "source_user="+su.ExternalID {
		t.Fatalf("history query text: got %q", history[0].Query)
	}
}

func TestRecommendationsSkipsHistoryForAnonymous(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t)
	ledger := env.ledger()
	query := newQuery(env)

	rec := ingestOne(t, ctx, env, ledger)
	su, err := env.sourceUserRepo.GetByID(ctx, nil, rec.SourceUserID)
	if err != nil || su == nil {
		t.Fatalf("load source user: %v", err)
	}

	if _, err := query.Recommendations(ctx, uuid.Nil, repos.RecommendationFilter{
		SourceUserExternal: su.ExternalID,
	}); err != nil {
		t.Fatalf("Recommendations: %v", err)
	}

	history, err := query.History(ctx, uuid.Nil, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("anonymous queries must not be recorded: got %d rows", len(history))
	}
}
