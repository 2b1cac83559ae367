package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

func TestCardRepository_GetJoinsDeckAndNote(t *testing.T) {
	f := newFixture(t)
	d := f.deck(t, "Spanish")
	c := f.card(t, d.ID, models.CardReview)

	got, err := f.cards.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spanish", got.DeckName)
	assert.Equal(t, "Basic", got.NoteType)
	assert.Equal(t, models.CardReview, got.Type)
	assert.Equal(t, 2500, got.EaseFactor)
	assert.Nil(t, got.Due)
}

func TestCardRepository_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.cards.Get(context.Background(), 12345)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCardRepository_CreateRequiresDeck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n := &models.Note{NoteType: "Basic"}
	require.NoError(t, f.cards.CreateNote(ctx, n))
	err := f.cards.Create(ctx, &models.Card{NoteID: n.ID, DeckID: 77})
	assert.Error(t, err)
}

func TestCardRepository_ListIDsAndCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.deck(t, "A")
	b := f.deck(t, "B")

	c1 := f.card(t, a.ID, models.CardNew)
	c2 := f.card(t, a.ID, models.CardReview)
	f.card(t, b.ID, models.CardLearning)

	ids, err := f.cards.ListIDsByDeck(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c1.ID, c2.ID}, ids)

	counts, err := f.cards.Counts(ctx, []int64{a.ID})
	require.NoError(t, err)
	assert.Equal(t, models.CardCounts{New: 1, Review: 1}, counts)

	all, err := f.cards.Counts(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total())
	assert.Equal(t, 1, all.Learning)
}
