package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/P3chys/studyshare-api/internal/models"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: "u1", Name: "Alex Student", Role: models.RoleStudent}

	token, err := GenerateAccessToken(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "Alex Student", claims.Name)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: "u1", Role: models.RoleAdmin}

	token, err := GenerateAccessToken(user, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "other")
	assert.Error(t, err)
	_, err = ParseAccessToken("not-a-token", "secret")
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	claims := Claims{
		UserID: "u1",
		Role:   models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "secret")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
