package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

func day(y int, m time.Month, d, reviews int) models.DayCount {
	return models.DayCount{Day: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Reviews: reviews}
}

func TestCalculateStreaks(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days []models.DayCount
		want Streaks
	}{
		{
			name: "no activity",
			want: Streaks{},
		},
		{
			name: "studied today",
			days: []models.DayCount{day(2024, 3, 10, 5)},
			want: Streaks{Current: 1, Longest: 1},
		},
		{
			name: "run ending yesterday is still current",
			days: []models.DayCount{day(2024, 3, 8, 1), day(2024, 3, 9, 2)},
			want: Streaks{Current: 2, Longest: 2},
		},
		{
			name: "run broken before yesterday",
			days: []models.DayCount{day(2024, 3, 5, 1), day(2024, 3, 6, 1), day(2024, 3, 7, 1)},
			want: Streaks{Current: 0, Longest: 3},
		},
		{
			name: "gap resets the run",
			days: []models.DayCount{
				day(2024, 3, 1, 1), day(2024, 3, 2, 1), day(2024, 3, 3, 1),
				day(2024, 3, 9, 1), day(2024, 3, 10, 1),
			},
			want: Streaks{Current: 2, Longest: 3},
		},
		{
			name: "empty days are ignored",
			days: []models.DayCount{day(2024, 3, 9, 0), day(2024, 3, 10, 4)},
			want: Streaks{Current: 1, Longest: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStreaks(tt.days, now))
		})
	}
}
