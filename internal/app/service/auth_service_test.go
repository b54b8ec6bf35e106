package service

import (
	"testing"
	"time"

	"github.com/nobarid/nobar-backend/config"
	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/internal/app/repository"
	"github.com/nobarid/nobar-backend/internal/db"
	"github.com/nobarid/nobar-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	return NewAuthService(userRepo, config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
	})
}

func TestAuthRegister_Success(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, tokens, err := authService.Register(RegisterInput{
		Email:    "merchant@example.com",
		Password: "supersecret1",
		Name:     "Merchant",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleMerchant, user.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(model.RoleMerchant), claims.Role)
}

func TestAuthRegister_DuplicateEmail(t *testing.T) {
	authService := setupAuthServiceTest(t)

	input := RegisterInput{Email: "merchant@example.com", Password: "supersecret1", Name: "Merchant"}
	_, _, err := authService.Register(input)
	require.NoError(t, err)

	_, _, err = authService.Register(input)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthLogin(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register(RegisterInput{
		Email:    "merchant@example.com",
		Password: "supersecret1",
		Name:     "Merchant",
	})
	require.NoError(t, err)

	user, tokens, err := authService.Login(LoginInput{Email: "merchant@example.com", Password: "supersecret1"})
	require.NoError(t, err)
	assert.Equal(t, "merchant@example.com", user.Email)
	assert.NotEmpty(t, tokens.AccessToken)

	_, _, err = authService.Login(LoginInput{Email: "merchant@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login(LoginInput{Email: "nobody@example.com", Password: "supersecret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthGetUser(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, _, err := authService.Register(RegisterInput{
		Email:    "merchant@example.com",
		Password: "supersecret1",
		Name:     "Merchant",
	})
	require.NoError(t, err)

	found, err := authService.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = authService.GetUser(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
