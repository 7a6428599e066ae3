package service_test

import (
	"testing"
	"time"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/service"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput(username, email string) *service.RegisterInput {
	return &service.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  username,
		Email:     email,
		Password:  "correct-horse-battery",
	}
}

// fetchOTP reads the stored code straight from the database, standing in
// for the email the user would receive.
func fetchOTP(t *testing.T, env *testEnv, userID uint) string {
	t.Helper()
	var otp string
	require.NoError(t, env.db.Raw("SELECT verification_otp FROM users WHERE id = ?", userID).Scan(&otp).Error)
	require.Len(t, otp, 6)
	return otp
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(registerInput("Ada_1", "ADA@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ada_1", user.Username)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.False(t, user.IsVerified)

	// Unverified accounts cannot log in.
	_, _, err = env.auth.Login(&service.LoginInput{Login: "ada_1", Password: "correct-horse-battery"})
	assert.ErrorIs(t, err, util.ErrNotVerified)

	otp := fetchOTP(t, env, user.ID)
	assert.ErrorIs(t, env.auth.VerifyOTP(user.Email, "000000"), util.ErrInvalidOTP)
	require.NoError(t, env.auth.VerifyOTP(user.Email, otp))

	// Login works by username and by email.
	token, logged, err := env.auth.Login(&service.LoginInput{Login: "ada_1", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)

	_, _, err = env.auth.Login(&service.LoginInput{Login: "ada@example.com", Password: "correct-horse-battery"})
	require.NoError(t, err)

	_, _, err = env.auth.Login(&service.LoginInput{Login: "ada_1", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicatesAndBadUsernames(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(registerInput("ada", "ada@example.com"))
	require.NoError(t, err)

	_, err = env.auth.Register(registerInput("ada", "other@example.com"))
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	_, err = env.auth.Register(registerInput("other", "ada@example.com"))
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	for _, bad := range []string{"ab", "has space", "semi;colon", "héllo"} {
		_, err = env.auth.Register(registerInput(bad, "new@example.com"))
		assert.ErrorIs(t, err, util.ErrInvalidUsername, "username %q", bad)
	}
}

func TestVerifyOTPExpiry(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(registerInput("ada", "ada@example.com"))
	require.NoError(t, err)
	otp := fetchOTP(t, env, user.ID)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, env.userRepo.UpdateFields(user.ID, map[string]interface{}{"otp_expiry": expired}))

	assert.ErrorIs(t, env.auth.VerifyOTP(user.Email, otp), util.ErrInvalidOTP)
}

func TestResendOTPRotatesCode(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(registerInput("ada", "ada@example.com"))
	require.NoError(t, err)
	first := fetchOTP(t, env, user.ID)

	require.NoError(t, env.auth.ResendOTP(user.Email))
	second := fetchOTP(t, env, user.ID)

	// The old code stops working once rotated.
	if first != second {
		assert.ErrorIs(t, env.auth.VerifyOTP(user.Email, first), util.ErrInvalidOTP)
	}
	require.NoError(t, env.auth.VerifyOTP(user.Email, second))

	// Verified accounts ignore further verification calls.
	require.NoError(t, env.auth.ResendOTP(user.Email))
	require.NoError(t, env.auth.VerifyOTP(user.Email, "123456"))

	assert.ErrorIs(t, env.auth.ResendOTP("missing@example.com"), util.ErrUserNotFound)
}

func TestBannedUserCannotLogin(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(registerInput("ada", "ada@example.com"))
	require.NoError(t, err)
	require.NoError(t, env.auth.VerifyOTP(user.Email, fetchOTP(t, env, user.ID)))

	admin := env.createAdmin(t, model.RoleAdmin)
	_, err = env.admin.Ban(admin.ID, user.ID, "spam")
	require.NoError(t, err)

	_, _, err = env.auth.Login(&service.LoginInput{Login: "ada", Password: "correct-horse-battery"})
	assert.ErrorIs(t, err, util.ErrBanned)

	_, err = env.admin.Unban(admin.ID, user.ID)
	require.NoError(t, err)
	_, _, err = env.auth.Login(&service.LoginInput{Login: "ada", Password: "correct-horse-battery"})
	require.NoError(t, err)
}
