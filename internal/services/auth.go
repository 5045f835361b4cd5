package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dp-wu/bookradar-backend/internal/apperr"
	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/normalization"
	"github.com/dp-wu/bookradar-backend/internal/repos"
	"github.com/dp-wu/bookradar-backend/internal/requestdata"
	"github.com/dp-wu/bookradar-backend/internal/types"
	"github.com/dp-wu/bookradar-backend/internal/utils"
)

type AuthService interface {
	RegisterUser(ctx context.Context, username, email, password string) (*types.User, error)
	LoginUser(ctx context.Context, username, password string) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	secretKey string
	accessTTL time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	secretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:        db,
		log:       serviceLog,
		userRepo:  userRepo,
		secretKey: secretKey,
		accessTTL: accessTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, username, email, password string) (*types.User, error) {
	username = normalization.ParseInputString(username)
	email = normalization.ParseInputString(email)

	if username == "" {
		return nil, fmt.Errorf("a username is required to register")
	}
	if email == "" {
		return nil, fmt.Errorf("an email is required to register")
	}
	if password == "" {
		return nil, fmt.Errorf("a password is required to register")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &types.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         "system_user",
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		usernameExists, err := as.userRepo.UsernameExists(ctx, tx, username)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if usernameExists {
			return fmt.Errorf("username is already in use")
		}
		emailExists, err := as.userRepo.EmailExists(ctx, tx, email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if emailExists {
			return fmt.Errorf("email is already in use")
		}
		if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			return apperr.Translate(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, username, password string) (string, error) {
	username = normalization.ParseInputString(username)
	if username == "" || password == "" {
		return "", fmt.Errorf("username and password are required to login")
	}

	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return "", fmt.Errorf("error retrieving user: %w", err)
	}
	if user == nil {
		return "", fmt.Errorf("invalid username or password")
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return "", fmt.Errorf("invalid username or password")
	}

	return as.generateAccessToken(user)
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(as.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// SetContextFromToken validates the signed token and attaches the caller's
// identity to the request context.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.secretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, apperr.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, apperr.ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, apperr.ErrUnauthorized
	}
	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
