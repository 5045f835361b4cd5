package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/dp-wu/bookradar-backend/internal/types"
)

func TestLoadUserIsTotal(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t)
	identity := NewIdentityService(env.db, env.log, env.userRepo)

	// Malformed identifier.
	user, err := identity.LoadUser(ctx, "definitely-not-a-uuid")
	if err != nil || user != nil {
		t.Fatalf("malformed id: want (nil, nil) got (%+v, %v)", user, err)
	}

	// Well formed but unknown.
	user, err = identity.LoadUser(ctx, uuid.NewString())
	if err != nil || user != nil {
		t.Fatalf("unknown id: want (nil, nil) got (%+v, %v)", user, err)
	}

	// Nil uuid.
	user, err = identity.LoadUserByID(ctx, uuid.Nil)
	if err != nil || user != nil {
		t.Fatalf("nil id: want (nil, nil) got (%+v, %v)", user, err)
	}
}

func TestLoadUserFindsExisting(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t)
	identity := NewIdentityService(env.db, env.log, env.userRepo)

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

	user, err := identity.LoadUser(ctx, seeded.ID.String())
	if err != nil {
		t.Fatalf("LoadUser: %v", err)
	}
	if user == nil || user.ID != seeded.ID {
		t.Fatalf("LoadUser returned wrong user: %+v", user)
	}
}
