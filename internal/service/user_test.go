package service

import (
	"context"
	"testing"
	"time"

	"storefront-api/internal/apperr"
	"storefront-api/internal/auth"
	"storefront-api/internal/config"
	"storefront-api/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegister(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.users.Register(ctx, dto.RegisterRequest{Name: "  Asha ", Email: " Asha@Example.COM ", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	claims, err := e.tokens.ParseUser(res.Token)
	require.NoError(t, err)

	u, err := e.userRepo.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.ID)
	assert.Equal(t, "Asha", u.Name)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "taken")

	tests := []struct {
		name string
		req  dto.RegisterRequest
		kind apperr.Kind
	}{
		{"missing name", dto.RegisterRequest{Email: "a@b.co", Password: "12345678"}, apperr.KindValidation},
		{"bad email", dto.RegisterRequest{Name: "A", Email: "not-an-email", Password: "12345678"}, apperr.KindValidation},
		{"short password", dto.RegisterRequest{Name: "A", Email: "a@b.co", Password: "1234567"}, apperr.KindValidation},
		{"duplicate", dto.RegisterRequest{Name: "A", Email: "TAKEN@example.com", Password: "12345678"}, apperr.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.users.Register(ctx, tt.req)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id := e.register(t, "ravi")

	res, err := e.users.Login(ctx, dto.LoginRequest{Email: "RAVI@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, id, res.User.ID)
	assert.Equal(t, "ravi@example.com", res.User.Email)

	_, err = e.users.Login(ctx, dto.LoginRequest{Email: "ravi@example.com", Password: "wrong-horse"})
	requireKind(t, err, apperr.KindValidation)
	wrongPass := err.Error()

	_, err = e.users.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, wrongPass, err.Error())
}

func TestAdminLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.users.AdminLogin(ctx, dto.LoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	require.NoError(t, err)

	claims, err := e.tokens.ParseAdmin(res.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
	assert.Equal(t, testAdminEmail, claims.Email)

	_, err = e.users.AdminLogin(ctx, dto.LoginRequest{Email: testAdminEmail, Password: "nope"})
	requireKind(t, err, apperr.KindUnauthenticated)

	_, err = e.users.AdminLogin(ctx, dto.LoginRequest{Email: "x@shop.test", Password: testAdminPassword})
	requireKind(t, err, apperr.KindUnauthenticated)
}

func TestMissingSigningSecret(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	users := NewUserService(e.userRepo, auth.NewTokenManager("", time.Hour), config.Auth{
		AdminEmail:    testAdminEmail,
		AdminPassword: testAdminPassword,
	}, zap.NewNop())

	_, err := users.Register(ctx, dto.RegisterRequest{Name: "A", Email: "a@b.co", Password: "12345678"})
	requireKind(t, err, apperr.KindInternal)

	_, err = users.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "12345678"})
	requireKind(t, err, apperr.KindInternal)

	_, err = users.AdminLogin(ctx, dto.LoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	requireKind(t, err, apperr.KindInternal)

	// nothing was written
	_, err = e.userRepo.FindByEmail(ctx, "a@b.co")
	require.Error(t, err)
}
