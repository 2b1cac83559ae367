package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ramonehamilton/deckstats/internal/selection"
	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	tr := PeriodRange(selection.PeriodMonth, now)
	reviews := models.ReviewSummary{Reviews: 60, Cards: 12, Duration: 5 * time.Minute, EaseCounts: [4]int{6, 4, 40, 10}}
	days := []models.DayCount{day(2024, 3, 9, 30), day(2024, 3, 10, 30)}

	s := Summarize(tr, models.CardCounts{New: 3, Review: 9}, reviews, days, now)

	assert.Equal(t, 2, s.DaysStudied)
	assert.InDelta(t, 2.0, s.AveragePerDay, 0.001)
	assert.InDelta(t, 0.9, s.Retention, 0.001)
	assert.Equal(t, 5*time.Second, s.TimePerReview)
	assert.Equal(t, Streaks{Current: 2, Longest: 2}, s.Streaks)
}

func TestSummarize_LifeAveragesOverStudiedDays(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	days := []models.DayCount{day(2023, 1, 1, 10), day(2024, 3, 10, 20)}

	s := Summarize(PeriodRange(selection.PeriodLife, now), models.CardCounts{}, models.ReviewSummary{Reviews: 30}, days, now)

	assert.InDelta(t, 15.0, s.AveragePerDay, 0.001)
}

func TestSummarize_Empty(t *testing.T) {
	now := time.Now()
	s := Summarize(PeriodRange(selection.PeriodYear, now), models.CardCounts{}, models.ReviewSummary{}, nil, now)

	assert.Zero(t, s.Retention)
	assert.Zero(t, s.AveragePerDay)
	assert.Zero(t, s.TimePerReview)
}
