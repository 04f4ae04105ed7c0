package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("create and resolve", func(t *testing.T) {
		token, err := store.Create(ctx, 42)
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		userID, err := store.Get(ctx, token)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("tokens are unique per session", func(t *testing.T) {
		a, err := store.Create(ctx, 1)
		assert.NoError(t, err)
		b, err := store.Create(ctx, 1)
		assert.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := store.Get(ctx, "no-such-token")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("destroy revokes the token", func(t *testing.T) {
		token, err := store.Create(ctx, 42)
		assert.NoError(t, err)

		assert.NoError(t, store.Destroy(ctx, token))

		_, err = store.Get(ctx, token)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("destroying an unknown token is not an error", func(t *testing.T) {
		assert.NoError(t, store.Destroy(ctx, "no-such-token"))
	})
}
