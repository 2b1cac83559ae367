package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

func TestReviewRepository_ListByCardNewestFirst(t *testing.T) {
	f := newFixture(t)
	d := f.deck(t, "Spanish")
	c := f.card(t, d.ID, models.CardReview)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	f.review(t, c.ID, base, 3, 4*time.Second)
	f.review(t, c.ID, base.Add(48*time.Hour), 1, 9*time.Second)

	reviews, err := f.reviews.ListByCard(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 1, reviews[0].Ease)
	assert.Equal(t, 9*time.Second, reviews[0].Duration)
	assert.True(t, reviews[1].ReviewedAt.Equal(base))
}

func TestReviewRepository_RejectsInvalidEase(t *testing.T) {
	f := newFixture(t)
	d := f.deck(t, "Spanish")
	c := f.card(t, d.ID, models.CardReview)

	err := f.reviews.Add(context.Background(), &models.Review{CardID: c.ID, Ease: 5, ReviewedAt: time.Now()})
	assert.Error(t, err)
}

func TestReviewSchema_RejectsInvalidEase(t *testing.T) {
	f := newFixture(t)
	d := f.deck(t, "Spanish")
	c := f.card(t, d.ID, models.CardReview)

	_, err := f.db.Exec(`INSERT INTO revlog (card_id, reviewed_at, ease) VALUES (?, ?, ?)`, c.ID, time.Now().Unix(), 0)
	assert.Error(t, err)
}

func TestReviewRepository_SummaryFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.deck(t, "A")
	b := f.deck(t, "B")
	ca := f.card(t, a.ID, models.CardReview)
	cb := f.card(t, b.ID, models.CardReview)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	f.review(t, ca.ID, base, 3, 2*time.Second)
	f.review(t, ca.ID, base.Add(24*time.Hour), 1, 3*time.Second)
	f.review(t, cb.ID, base.Add(24*time.Hour), 4, 5*time.Second)

	all, err := f.reviews.Summary(ctx, models.ReviewFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Reviews)
	assert.Equal(t, 2, all.Cards)
	assert.Equal(t, 10*time.Second, all.Duration)
	assert.Equal(t, [4]int{1, 0, 1, 1}, all.EaseCounts)

	deckA, err := f.reviews.Summary(ctx, models.ReviewFilter{DeckIDs: []int64{a.ID}})
	require.NoError(t, err)
	assert.Equal(t, 2, deckA.Reviews)

	recent, err := f.reviews.Summary(ctx, models.ReviewFilter{Since: base.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 2, recent.Reviews)

	empty, err := f.reviews.Summary(ctx, models.ReviewFilter{Until: base})
	require.NoError(t, err)
	assert.Zero(t, empty.Reviews)
}

func TestReviewRepository_DailyCounts(t *testing.T) {
	f := newFixture(t)
	d := f.deck(t, "Spanish")
	c := f.card(t, d.ID, models.CardReview)
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	f.review(t, c.ID, base, 3, time.Second)
	f.review(t, c.ID, base.Add(2*time.Hour), 3, time.Second)
	f.review(t, c.ID, base.Add(72*time.Hour), 2, time.Second)

	days, err := f.reviews.DailyCounts(context.Background(), models.ReviewFilter{}, time.UTC)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 2, days[0].Reviews)
	assert.Equal(t, 2*time.Second, days[0].Duration)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), days[1].Day)
}
