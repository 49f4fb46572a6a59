package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleHolder string

func (r roleHolder) RoleName() string { return string(r) }

func TestHasRole(t *testing.T) {
	tests := []struct {
		stored string
		check  Role
		want   bool
	}{
		{"admin", RoleAdmin, true},
		{"Admin", RoleAdmin, false},
		{"admin ", RoleAdmin, false},
		{"moderator", RoleAdmin, false},
		{"admin", RoleModerator, false},
		{"moderator", RoleModerator, true},
		{"user", RoleUser, true},
		{"", RoleUser, false},
		{"superuser", Role("superuser"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HasRole(roleHolder(tt.stored), tt.check), "stored=%q check=%q", tt.stored, tt.check)
	}

	assert.False(t, HasRole(nil, RoleAdmin))
	var nilClaims *Claims
	assert.False(t, IsAdmin(nilClaims))

	assert.True(t, IsAdmin(roleHolder("admin")))
	assert.False(t, IsModerator(roleHolder("admin")))
	assert.True(t, IsModerator(roleHolder("moderator")))
	assert.True(t, HasAnyRole(roleHolder("moderator"), RoleAdmin, RoleModerator))
	assert.False(t, HasAnyRole(roleHolder("user"), RoleAdmin, RoleModerator))
}

func TestTokens(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	signed, issued, err := tokens.Issue(42, "Jane", "jane@example.com", "moderator")
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID())
	assert.Equal(t, "moderator", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.True(t, IsModerator(claims))

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokens("other-secret", time.Hour)
		require.NoError(t, err)
		_, err = other.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { tokens.now = time.Now }()
		_, err := tokens.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	_, err = NewTokens("", time.Hour)
	assert.Error(t, err)
}

func TestTokens_TTL(t *testing.T) {
	tokens, err := NewTokens("test-secret", 90*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, tokens.TTL())

	_, issued, err := tokens.Issue(1, "Jane", "jane@example.com", "user")
	require.NoError(t, err)
	assert.Equal(t, tokens.TTL(), issued.ExpiresAt.Sub(issued.IssuedAt.Time))

	fallback, err := NewTokens("test-secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, fallback.TTL())
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "Secret123"))
	assert.False(t, CheckPassword(hash, "secret123"))

	assert.True(t, StrongPassword("Secret123"))
	assert.False(t, StrongPassword("Sec12"))
	assert.False(t, StrongPassword("secret123"))
	assert.False(t, StrongPassword("SECRET123"))
	assert.False(t, StrongPassword("SecretPass"))
}
