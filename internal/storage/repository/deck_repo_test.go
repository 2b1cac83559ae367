package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

func TestDeckRepository_CreateGetList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	spanish := f.deck(t, "Spanish")
	f.deck(t, "Anatomy")

	got, err := f.decks.Get(ctx, spanish.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spanish", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	byName, err := f.decks.GetByName(ctx, "Spanish")
	require.NoError(t, err)
	assert.Equal(t, spanish.ID, byName.ID)

	all, err := f.decks.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Anatomy", all[0].Name)
}

func TestDeckRepository_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.decks.Get(context.Background(), 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeckRepository_DuplicateName(t *testing.T) {
	f := newFixture(t)
	f.deck(t, "Spanish")

	err := f.decks.Create(context.Background(), &models.Deck{Name: "Spanish"})
	assert.Error(t, err)
}
