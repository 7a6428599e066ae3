package util_test

import (
	"testing"
	"time"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *model.User {
	u := &model.User{
		Username: "ada",
		Role:     model.RoleUser,
	}
	u.ID = 42
	return u
}

func TestGenerateAndParseJWT(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"

	token, err := util.GenerateJWT(testUser(), secret, time.Hour)
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	token, err := util.GenerateJWT(testUser(), "0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	_, err = util.ParseJWT(token, "another-secret-another-secret-ab")
	assert.Error(t, err)
}

func TestParseJWTRejectsExpiredToken(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"

	token, err := util.GenerateJWT(testUser(), secret, -time.Minute)
	require.NoError(t, err)

	_, err = util.ParseJWT(token, secret)
	assert.Error(t, err)
}
