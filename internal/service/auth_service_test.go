package service

import (
	"testing"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, rotate bool) *AuthService {
	cfg := &config.Config{JWT: config.JWTConfig{
		Secret:             "test-secret-that-is-long-enough-for-hs256",
		AccessTTL:          time.Hour,
		RefreshTTL:         24 * time.Hour,
		RotateRefreshToken: rotate,
	}}
	return NewAuthService(repository.NewUserRepository(newTestDB(t)), cfg)
}

func registration(username string) RegisterInput {
	return RegisterInput{
		Username:        username,
		Email:           username + "@Example.com",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
		UserType:        model.Mentor,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t, true)

	res, err := svc.Register(registration("ana"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Access)
	assert.NotEmpty(t, res.Refresh)
	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.Equal(t, "UTC", res.User.Timezone)

	claims, err := util.ParseJWT(res.Access, util.AccessToken, svc.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	_, err = svc.Login("ana", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = svc.Login("nobody", "s3cret-pass")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	logged, err := svc.Login("ana", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, logged.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t, true)
	_, err := svc.Register(registration("ana"))
	require.NoError(t, err)

	in := registration("bob")
	in.PasswordConfirm = "other"
	_, err = svc.Register(in)
	assert.ErrorIs(t, err, util.ErrPasswordMismatch)

	in = registration("bob")
	in.UserType = "ADMIN"
	_, err = svc.Register(in)
	assert.ErrorIs(t, err, util.ErrInvalidUserType)

	_, err = svc.Register(registration("ana"))
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	in = registration("bob")
	in.Email = "ANA@example.com"
	_, err = svc.Register(in)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestRefresh(t *testing.T) {
	svc := newAuthService(t, false)
	res, err := svc.Register(registration("ana"))
	require.NoError(t, err)

	pair, err := svc.Refresh(res.Refresh)
	require.NoError(t, err)
	assert.Equal(t, res.Refresh, pair.Refresh, "refresh token kept without rotation")
	assert.NotEmpty(t, pair.Access)

	_, err = svc.Refresh(res.Access)
	assert.ErrorIs(t, err, util.ErrInvalidToken, "access tokens cannot refresh")

	svc.Cfg.JWT.RotateRefreshToken = true
	pair, err = svc.Refresh(res.Refresh)
	require.NoError(t, err)
	_, err = util.ParseJWT(pair.Refresh, util.RefreshToken, svc.Cfg.JWT.Secret)
	assert.NoError(t, err)
}
