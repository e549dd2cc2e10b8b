package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTempTokenRoundTrip(t *testing.T) {
	token, err := GenerateTempToken(7, "alice", testSecret, 10)
	require.NoError(t, err)

	claims, err := ValidateTempToken(token, testSecret)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.ApplicationID)
	assert.Equal(t, "alice", claims.UserName)
}

func TestTokenClassesAreNotInterchangeable(t *testing.T) {
	tempToken, err := GenerateTempToken(7, "alice", testSecret, 10)
	require.NoError(t, err)
	sessionToken, err := GenerateSessionToken(7, "alice", testSecret, 7)
	require.NoError(t, err)
	adminToken, err := GenerateAdminToken(1, "root@example.com", testSecret, 7)
	require.NoError(t, err)

	// Each validator accepts only its own class
	_, err = ValidateSessionToken(tempToken, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = ValidateAdminToken(tempToken, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ValidateTempToken(sessionToken, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = ValidateAdminToken(sessionToken, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ValidateTempToken(adminToken, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = ValidateSessionToken(adminToken, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateTempToken(7, "alice", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateTempToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := GenerateSessionToken(7, "alice", testSecret, 7)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAdminTokenCarriesRole(t *testing.T) {
	token, err := GenerateAdminToken(3, "root@example.com", testSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateAdminToken(token, testSecret)
	require.NoError(t, err)
	assert.EqualValues(t, 3, claims.AdminID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.NotEmpty(t, claims.ID, "admin tokens carry a jti")
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := ValidateTempToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
