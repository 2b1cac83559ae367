package stats

import (
	"time"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

// Streaks holds study streaks counted in consecutive calendar days.
type Streaks struct {
	Current int
	Longest int
}

// CalculateStreaks computes study streaks from per-day activity ordered
// oldest first. The current streak survives an unstudied today as long as
// yesterday was studied.
func CalculateStreaks(days []models.DayCount, now time.Time) Streaks {
	var (
		s    Streaks
		run  int
		prev time.Time
	)
	for _, d := range days {
		if d.Reviews == 0 {
			continue
		}
		day := StartOfDay(d.Day)
		if run > 0 && day.Equal(prev.AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		prev = day
		if run > s.Longest {
			s.Longest = run
		}
	}

	if run > 0 {
		today := StartOfDay(now.In(prev.Location()))
		if prev.Equal(today) || prev.Equal(today.AddDate(0, 0, -1)) {
			s.Current = run
		}
	}
	return s
}
