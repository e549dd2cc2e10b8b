package services

import (
	"context"
	"testing"

	"caseportal/internal/adapters/persistence/models"
	"caseportal/internal/adapters/persistence/repositories"
	"caseportal/internal/core/domain"
	"caseportal/internal/pkg/jwt"
	"caseportal/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *repositories.MemoryStore) {
	t.Helper()
	store := repositories.NewMemoryStore()
	return NewAuthService(store.Applications(), store.Admins(), testConfig()), store
}

func TestApplicantLoginMintsTempToken(t *testing.T) {
	svc, store := newAuthFixture(t)
	cfg := testConfig()
	seedApplication(store, "alice")

	tempToken, app, err := svc.LoginApplicant(context.Background(), "alice", "secret123")
	require.NoError(t, err)
	require.NotNil(t, app)

	claims, err := jwt.ValidateTempToken(tempToken, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, app.ID, claims.ApplicationID)

	// The temp token is not a session token
	_, err = jwt.ValidateSessionToken(tempToken, cfg.JWT.Secret)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestApplicantLoginRejectsBadCredentials(t *testing.T) {
	svc, store := newAuthFixture(t)
	seedApplication(store, "alice")

	_, _, err := svc.LoginApplicant(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.LoginApplicant(context.Background(), "nobody", "secret123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAdminLoginUsesBcrypt(t *testing.T) {
	svc, store := newAuthFixture(t)
	cfg := testConfig()

	hash, err := password.Hash("admin-pass-1")
	require.NoError(t, err)
	require.NoError(t, store.Admins().Create(context.Background(), &models.Admin{
		UserName: "root",
		Email:    "root@example.com",
		Password: hash,
	}))

	token, admin, err := svc.LoginAdmin(context.Background(), "root@example.com", "admin-pass-1")
	require.NoError(t, err)
	require.NotNil(t, admin)

	claims, err := jwt.ValidateAdminToken(token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.Equal(t, "ADMIN", claims.Role)

	// The stored hash is never accepted as the password itself
	_, _, err = svc.LoginAdmin(context.Background(), "root@example.com", hash)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.LoginAdmin(context.Background(), "root@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestGetApplicant(t *testing.T) {
	svc, store := newAuthFixture(t)
	app := seedApplication(store, "alice")

	got, err := svc.GetApplicant(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)

	_, err = svc.GetApplicant(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}
