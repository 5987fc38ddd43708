package middleware

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"svault/config"
	"svault/models"
)

func setupTokenTest(t *testing.T) (*gorm.DB, *models.User) {
	t.Helper()

	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RevokedToken{}))

	user := &models.User{Email: "a@x.com", Password: "x", Role: "USER"}
	require.NoError(t, db.Create(user).Error)
	return db, user
}

func TestGenerateTokenPair(t *testing.T) {
	db, user := setupTokenTest(t)

	access, refresh, err := GenerateTokenPair(user)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	require.NotEqual(t, access, refresh)

	userID, err := VerifyRefreshToken(db, refresh)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)

	// The access token must not pass as a refresh token.
	_, err = VerifyRefreshToken(db, access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeRefreshToken(t *testing.T) {
	db, user := setupTokenTest(t)

	_, refresh, err := GenerateTokenPair(user)
	require.NoError(t, err)

	require.NoError(t, RevokeRefreshToken(db, refresh))

	// Reuse after revocation fails, for verification and revocation alike.
	_, err = VerifyRefreshToken(db, refresh)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.ErrorIs(t, RevokeRefreshToken(db, refresh), ErrInvalidToken)
}

func TestRevokeRejectsGarbage(t *testing.T) {
	db, user := setupTokenTest(t)

	require.ErrorIs(t, RevokeRefreshToken(db, "not-a-token"), ErrInvalidToken)

	access, _, err := GenerateTokenPair(user)
	require.NoError(t, err)
	require.ErrorIs(t, RevokeRefreshToken(db, access), ErrInvalidToken)
}

func TestResetToken(t *testing.T) {
	_, user := setupTokenTest(t)

	token, err := GenerateResetToken(user)
	require.NoError(t, err)

	userID, err := VerifyResetToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)

	// Access tokens are not valid for password resets.
	access, _, err := GenerateTokenPair(user)
	require.NoError(t, err)
	_, err = VerifyResetToken(access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetTokenExpiry(t *testing.T) {
	_, user := setupTokenTest(t)

	saved := config.AppConfig.ResetTokenMinutes
	config.AppConfig.ResetTokenMinutes = -1
	token, err := GenerateResetToken(user)
	config.AppConfig.ResetTokenMinutes = saved
	require.NoError(t, err)

	_, err = VerifyResetToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
