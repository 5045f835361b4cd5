package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/repos"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

// IdentityService resolves an opaque session identifier to a User. LoadUser is
// total: unknown or malformed identifiers return (nil, nil), never an error
// into the caller's context, so the web layer decides what a missing identity
// means for the request.
type IdentityService interface {
	LoadUser(ctx context.Context, id string) (*types.User, error)
	LoadUserByID(ctx context.Context, id uuid.UUID) (*types.User, error)
}

type identityService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewIdentityService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) IdentityService {
	serviceLog := log.With("service", "IdentityService")
	return &identityService{db: db, log: serviceLog, userRepo: userRepo}
}

func (is *identityService) LoadUser(ctx context.Context, id string) (*types.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		is.log.Debug("Malformed identity, treating as anonymous", "id", id)
		return nil, nil
	}
	return is.LoadUserByID(ctx, parsed)
}

func (is *identityService) LoadUserByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	user, err := is.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		// Storage failure, not a miss: swallow into "no identity" but
		// keep a trace of it.
		is.log.Warn("Identity lookup failed", "id", id, "error", err)
		return nil, nil
	}
	return user, nil
}
