package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/repos"
	"github.com/dp-wu/bookradar-backend/internal/types"
	"github.com/dp-wu/bookradar-backend/internal/utils"
)

// UserService carries the credential capability of a User: setting a password
// always stores a salted hash, checking compares against it. Identity lookup
// lives on IdentityService; the two are composed, not inherited.
type UserService interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	SetPassword(ctx context.Context, userID uuid.UUID, password string) error
	CheckPassword(user *types.User, password string) bool
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return us.userRepo.GetByID(ctx, nil, userID)
}

func (us *userService) SetPassword(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if err := us.userRepo.UpdatePasswordHash(ctx, nil, userID, hash); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return nil
}

func (us *userService) CheckPassword(user *types.User, password string) bool {
	if user == nil {
		return false
	}
	return utils.CheckPassword(user.PasswordHash, password)
}
