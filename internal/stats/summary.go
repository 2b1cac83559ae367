package stats

import (
	"time"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

// Summary is the aggregate statistics of a deck or the whole collection
// over one period.
type Summary struct {
	Range         TimeRange
	Counts        models.CardCounts
	Reviews       models.ReviewSummary
	Days          []models.DayCount
	DaysStudied   int
	Streaks       Streaks
	AveragePerDay float64 // Over the days of the period, or over studied days when unbounded
	Retention     float64 // Share of reviews not answered "again", 0..1
	TimePerReview time.Duration
}

// Summarize computes the period summary from the stored aggregates.
func Summarize(tr TimeRange, counts models.CardCounts, reviews models.ReviewSummary, days []models.DayCount, now time.Time) Summary {
	s := Summary{
		Range:   tr,
		Counts:  counts,
		Reviews: reviews,
		Days:    days,
		Streaks: CalculateStreaks(days, now),
	}
	for _, d := range days {
		if d.Reviews > 0 {
			s.DaysStudied++
		}
	}

	span := tr.Days()
	if span == 0 {
		span = s.DaysStudied
	}
	if span > 0 {
		s.AveragePerDay = float64(reviews.Reviews) / float64(span)
	}
	if reviews.Reviews > 0 {
		s.Retention = 1 - float64(reviews.EaseCounts[0])/float64(reviews.Reviews)
		s.TimePerReview = reviews.Duration / time.Duration(reviews.Reviews)
	}
	return s
}
