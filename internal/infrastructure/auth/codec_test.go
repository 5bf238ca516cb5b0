package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec([]byte("secret"), 24*time.Hour)

	token, err := codec.Issue("u1", true)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestCodec_Issue(t *testing.T) {
	t.Run("empty secret", func(t *testing.T) {
		codec := NewCodec(nil, time.Hour)
		_, err := codec.Issue("u1", false)
		assert.Error(t, err)
	})

	t.Run("non-admin claims survive round trip", func(t *testing.T) {
		codec := NewCodec([]byte("secret"), time.Hour)
		token, err := codec.Issue("u2", false)
		assert.NoError(t, err)

		claims, err := codec.Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, "u2", claims.UserID)
		assert.False(t, claims.IsAdmin)
	})
}

func TestCodec_Verify(t *testing.T) {
	codec := NewCodec([]byte("secret"), time.Hour)

	t.Run("expired token", func(t *testing.T) {
		expiredCodec := NewCodec([]byte("secret"), -time.Hour)
		token, err := expiredCodec.Issue("u1", true)
		assert.NoError(t, err)

		claims, err := codec.Verify(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.Nil(t, claims)
	})

	t.Run("wrong secret", func(t *testing.T) {
		otherCodec := NewCodec([]byte("other"), time.Hour)
		token, err := otherCodec.Issue("u1", true)
		assert.NoError(t, err)

		claims, err := codec.Verify(token)
		assert.ErrorIs(t, err, ErrSignatureMismatch)
		assert.Nil(t, claims)
	})

	t.Run("garbage token", func(t *testing.T) {
		claims, err := codec.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrTokenMalformed)
		assert.Nil(t, claims)
	})
}
