package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

func TestNewCardStats(t *testing.T) {
	added := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	card := &models.Card{
		ID: 777, NoteID: 70, CreatedAt: added, Due: &due,
		Type: models.CardReview, IntervalDays: 21, EaseFactor: 2350,
		Reps: 1, Lapses: 1, DeckName: "Spanish", NoteType: "Basic",
	}
	first := added.Add(24 * time.Hour)
	last := first.Add(72 * time.Hour)
	reviews := []*models.Review{
		{ReviewedAt: last, Duration: 6 * time.Second},
		{ReviewedAt: first, Duration: 4 * time.Second},
	}

	cs := NewCardStats(card, reviews)

	assert.Equal(t, int64(777), cs.CardID)
	assert.Equal(t, first, cs.FirstReview)
	assert.Equal(t, last, cs.LatestReview)
	assert.InDelta(t, 235.0, cs.EasePercent, 0.001)
	assert.Equal(t, 2, cs.Reviews)
	assert.Equal(t, 10*time.Second, cs.TotalTime)
	assert.Equal(t, 5*time.Second, cs.AverageTime)
	assert.Equal(t, "Review", cs.CardType)
	assert.Equal(t, &due, cs.Due)
}

func TestNewCardStats_NewCard(t *testing.T) {
	cs := NewCardStats(&models.Card{ID: 1, Type: models.CardNew, EaseFactor: 2500}, nil)

	assert.Zero(t, cs.EasePercent)
	assert.True(t, cs.FirstReview.IsZero())
	assert.Zero(t, cs.AverageTime)
}

func TestNewCardStats_SuspendedHasNoDue(t *testing.T) {
	due := time.Now()
	cs := NewCardStats(&models.Card{Type: models.CardReview, Suspended: true, Due: &due}, nil)

	assert.Nil(t, cs.Due)
}
