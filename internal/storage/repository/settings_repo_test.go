package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepository_SetAndGetTyped(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "currentDeck", int64(42)))

	var deck int64
	require.NoError(t, repo.GetTyped(ctx, "currentDeck", &deck))
	assert.Equal(t, int64(42), deck)

	raw, err := repo.Get(ctx, "currentDeck")
	require.NoError(t, err)
	assert.Equal(t, "42", raw)
}

func TestSettingsRepository_Overwrite(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "lastSaveDir.stats", "/tmp/a"))
	require.NoError(t, repo.Set(ctx, "lastSaveDir.stats", "/tmp/b"))

	var dir string
	require.NoError(t, repo.GetTyped(ctx, "lastSaveDir.stats", &dir))
	assert.Equal(t, "/tmp/b", dir)
}

func TestSettingsRepository_NotFound(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestSettingsRepository_Delete(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", true))
	require.NoError(t, repo.Delete(ctx, "k"))
	require.NoError(t, repo.Delete(ctx, "k"))

	_, err := repo.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}
