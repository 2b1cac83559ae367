package stats

import (
	"time"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

// CardStats is the per-card information shown by the card info report.
type CardStats struct {
	CardID       int64
	NoteID       int64
	Added        time.Time
	FirstReview  time.Time // Zero when never reviewed
	LatestReview time.Time
	Due          *time.Time
	IntervalDays int
	EasePercent  float64 // Zero for new cards
	Reviews      int
	Lapses       int
	AverageTime  time.Duration
	TotalTime    time.Duration
	CardType     string
	NoteType     string
	Deck         string
	Template     string
	SortField    string
}

// NewCardStats derives card statistics from a card and its reviews.
// Reviews may be in any order.
func NewCardStats(card *models.Card, reviews []*models.Review) CardStats {
	cs := CardStats{
		CardID:       card.ID,
		NoteID:       card.NoteID,
		Added:        card.CreatedAt,
		Due:          card.Due,
		IntervalDays: card.IntervalDays,
		Reviews:      card.Reps,
		Lapses:       card.Lapses,
		CardType:     card.Type.String(),
		NoteType:     card.NoteType,
		Deck:         card.DeckName,
		Template:     card.Template,
		SortField:    card.SortField,
	}
	if card.Type != models.CardNew {
		cs.EasePercent = float64(card.EaseFactor) / 10
	}
	if card.Suspended {
		cs.Due = nil
	}

	for _, r := range reviews {
		if cs.FirstReview.IsZero() || r.ReviewedAt.Before(cs.FirstReview) {
			cs.FirstReview = r.ReviewedAt
		}
		if r.ReviewedAt.After(cs.LatestReview) {
			cs.LatestReview = r.ReviewedAt
		}
		cs.TotalTime += r.Duration
	}
	if n := len(reviews); n > 0 {
		cs.AverageTime = cs.TotalTime / time.Duration(n)
		if cs.Reviews < n {
			cs.Reviews = n
		}
	}
	return cs
}
