package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/quiz-signup/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	require.NoError(t, store.Create(ctx, &domain.User{UserID: "u1", Email: "ann@x.com", Name: "Ann"}))

	byID, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", byID.Name)

	byEmail, err := store.GetByEmail(ctx, "ANN@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.UserID)
}

func TestUserStore_DuplicateEmailConflicts(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	require.NoError(t, store.Create(ctx, &domain.User{UserID: "u1", Email: "ann@x.com"}))

	err := store.Create(ctx, &domain.User{UserID: "u2", Email: "ann@x.com"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestUserStore_NotFound(t *testing.T) {
	_, err := NewUserStore().GetByEmail(context.Background(), "nobody@x.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
