package stats

import (
	"fmt"
	"time"

	"github.com/ramonehamilton/deckstats/internal/selection"
	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

// Rolling window lengths, in days, of the bounded periods.
const (
	MonthDays = 30
	YearDays  = 365
)

// TimeRange is a half-open interval [Start, End). A zero Start means unbounded.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// PeriodRange returns the review window of p ending with the day containing now.
func PeriodRange(p selection.Period, now time.Time) TimeRange {
	end := StartOfDay(now).AddDate(0, 0, 1)
	switch p {
	case selection.PeriodMonth:
		return TimeRange{Start: end.AddDate(0, 0, -MonthDays), End: end}
	case selection.PeriodYear:
		return TimeRange{Start: end.AddDate(0, 0, -YearDays), End: end}
	default:
		return TimeRange{End: end}
	}
}

// Bounded reports whether the range has a start.
func (tr TimeRange) Bounded() bool {
	return !tr.Start.IsZero()
}

// Days returns the number of calendar days the range covers, or 0 when unbounded.
func (tr TimeRange) Days() int {
	if !tr.Bounded() {
		return 0
	}
	return int(tr.End.Sub(tr.Start).Round(24*time.Hour) / (24 * time.Hour))
}

// Filter converts the range into a revlog filter over deckIDs.
func (tr TimeRange) Filter(deckIDs []int64) models.ReviewFilter {
	return models.ReviewFilter{DeckIDs: deckIDs, Since: tr.Start, Until: tr.End}
}

// FormatPeriod returns a human-readable description of the range.
func (tr TimeRange) FormatPeriod() string {
	end := tr.End.AddDate(0, 0, -1).Format("2006-01-02") // End is exclusive
	if !tr.Bounded() {
		return "up to " + end
	}
	return fmt.Sprintf("%s to %s", tr.Start.Format("2006-01-02"), end)
}
