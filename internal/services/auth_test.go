package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dp-wu/bookradar-backend/internal/apperr"
	"github.com/dp-wu/bookradar-backend/internal/requestdata"
)

func newAuth(t *testing.T, env *serviceEnv, secret string) AuthService {
	t.Helper()
	return NewAuthService(env.db, env.log, env.userRepo, secret, time.Hour)
}

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t)
	auth := newAuth(t, env, "test-secret")

	username := "reader-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	user, err := auth.RegisterUser(ctx, username, username+"@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.PasswordHash == "hunter2hunter2" {
		t.Fatalf("stored credential must be a hash, not the plaintext")
	}

	token, err := auth.LoginUser(ctx, username, "hunter2hunter2")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if token == "" {
		t.Fatalf("LoginUser returned an empty token")
	}

	authedCtx, err := auth.SetContextFromToken(ctx, token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil {
		t.Fatalf("request data missing from authed context")
	}
	if rd.UserID != user.ID {
		t.Fatalf("token subject: want=%s got=%s", user.ID, rd.UserID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t)
	auth := newAuth(t, env, "test-secret")

	username := "reader-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if _, err := auth.RegisterUser(ctx, username, username+"@example.com", "right password"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if _, err := auth.LoginUser(ctx, username, "wrong password"); err == nil {
		t.Fatalf("want error for wrong password")
	}
	if _, err := auth.LoginUser(ctx, "no-such-user-"+uuid.NewString(), "whatever"); err == nil {
		t.Fatalf("want error for unknown user")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t)
	auth := newAuth(t, env, "test-secret")

	username := "reader-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if _, err := auth.RegisterUser(ctx, username, username+"@example.com", "password1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := auth.RegisterUser(ctx, username, "other-"+username+"@example.com", "password2"); err == nil {
		t.Fatalf("want error for duplicate username")
	}
	if _, err := auth.RegisterUser(ctx, "other-"+username, username+"@example.com", "password3"); err == nil {
		t.Fatalf("want error for duplicate email")
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t)
	auth := newAuth(t, env, "test-secret")

	if _, err := auth.SetContextFromToken(ctx, "not-a-jwt"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized got %v", err)
	}
}

func TestSetContextFromTokenRejectsForeignSecret(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t)
	signer := newAuth(t, env, "secret-a")
	verifier := newAuth(t, env, "secret-b")

	username := "reader-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if _, err := signer.RegisterUser(ctx, username, username+"@example.com", "password"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	token, err := signer.LoginUser(ctx, username, "password")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if _, err := verifier.SetContextFromToken(ctx, token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("token signed with another secret: want ErrUnauthorized got %v", err)
	}
}
