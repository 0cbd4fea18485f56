package sessions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfest/web/models"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := &models.Session{
		Token:    "tok-123",
		Username: "asha",
		Role:     "user",
		Email:    "asha@example.com",
		UserID:   7,
	}

	sid, err := store.Save(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	got, err := store.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sid, err := store.Save(ctx, &models.Session{Token: "tok", Username: "asha"})
	require.NoError(t, err)

	first, err := store.Get(ctx, sid)
	require.NoError(t, err)
	first.Username = "mutated"

	second, err := store.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "asha", second.Username)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sid, err := store.Save(ctx, &models.Session{Token: "tok"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, sid))

	_, err = store.Get(ctx, sid)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUnknownID(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionIsAdmin(t *testing.T) {
	assert.True(t, (&models.Session{Role: "admin"}).IsAdmin())
	assert.False(t, (&models.Session{Role: "user"}).IsAdmin())

	var nilSess *models.Session
	assert.False(t, nilSess.IsAdmin())
}
