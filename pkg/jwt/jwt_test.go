package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(7, "reader", "admin")
	require.NoError(t, err)
	assert.EqualValues(t, 3600, pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "reader", claims.Login)
	assert.Equal(t, "admin", claims.Role)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.EqualValues(t, 7, refresh.UserID)
	assert.Empty(t, refresh.Login)
}

func TestParseToken_Errors(t *testing.T) {
	t.Run("过期Token", func(t *testing.T) {
		m := NewManager("test-secret", -time.Minute, time.Hour)
		pair, err := m.GenerateToken(1, "reader", "user")
		require.NoError(t, err)

		_, err = m.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("签名不匹配", func(t *testing.T) {
		pair, err := NewManager("secret-a", time.Hour, time.Hour).GenerateToken(1, "reader", "user")
		require.NoError(t, err)

		_, err = NewManager("secret-b", time.Hour, time.Hour).ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := NewManager("s", time.Hour, time.Hour).ParseToken("not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(3, "reader", "user")
	require.NoError(t, err)

	access, err := m.RefreshAccessToken(pair.RefreshToken, "reader", "admin")
	require.NoError(t, err)

	claims, err := m.ParseToken(access)
	require.NoError(t, err)
	assert.EqualValues(t, 3, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}
