package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/ramonehamilton/deckstats/internal/charts"
	"github.com/ramonehamilton/deckstats/internal/i18n"
	"github.com/ramonehamilton/deckstats/internal/selection"
	"github.com/ramonehamilton/deckstats/internal/stats"
	"github.com/ramonehamilton/deckstats/internal/storage/models"
	"github.com/ramonehamilton/deckstats/internal/storage/repository"
)

// Store is the collection access the reports need. *storage.Service satisfies it.
type Store interface {
	Decks() repository.DeckRepository
	Cards() repository.CardRepository
	Reviews() repository.ReviewRepository
}

// Source renders reports from the collection.
type Source struct {
	store  Store
	tr     *i18n.Translator
	now    func() time.Time
	charts charts.Config
}

// NewSource creates a report source.
func NewSource(store Store, tr *i18n.Translator) *Source {
	return &Source{
		store:  store,
		tr:     tr,
		now:    time.Now,
		charts: charts.DefaultConfig(),
	}
}

// WithClock replaces the clock used for period windows.
func (s *Source) WithClock(now func() time.Time) *Source {
	s.now = now
	return s
}

type row struct {
	Label string
	Value string
}

type revlogRow struct {
	Date       string
	Ease       int
	Answer     string
	Interval   string
	EaseFactor string
	Time       string
}

type view struct {
	tr *i18n.Translator

	// card
	Stats  stats.CardStats
	Rows   []row
	Revlog []revlogRow

	// aggregate
	Title       string
	Period      string
	PeriodLabel string
	Range       string
	Counts      []row
	Charts      []template.HTML
}

// SingleCard renders the card info report. The review history is included
// only when includeRevlog is set.
func (s *Source) SingleCard(ctx context.Context, cardID int64, includeRevlog bool) (*Report, error) {
	card, err := s.store.Cards().Get(ctx, cardID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrCardNotFound, cardID)
		}
		return nil, err
	}
	reviews, err := s.store.Reviews().ListByCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	cs := stats.NewCardStats(card, reviews)
	v := &view{tr: s.tr, Stats: cs, Rows: s.cardRows(cs)}
	if includeRevlog {
		v.Revlog = s.revlogRows(reviews)
	}

	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("failed to render card %d: %w", cardID, err)
	}
	return &Report{
		HTML:    buf.String(),
		Scripts: append([]string(nil), CardInfoScripts...),
		Styles:  append([]string(nil), CardInfoStyles...),
	}, nil
}

func (s *Source) cardRows(cs stats.CardStats) []row {
	t := s.tr.T
	rows := []row{{t(i18n.Added), formatDate(cs.Added)}}
	if !cs.FirstReview.IsZero() {
		rows = append(rows,
			row{t(i18n.FirstReview), formatDate(cs.FirstReview)},
			row{t(i18n.LatestReview), formatDate(cs.LatestReview)},
		)
	}
	due := t(i18n.Never)
	if cs.Due != nil {
		due = formatDate(*cs.Due)
	}
	rows = append(rows, row{t(i18n.Due), due})
	if cs.IntervalDays > 0 {
		rows = append(rows, row{t(i18n.Interval), t(i18n.Days, strconv.Itoa(cs.IntervalDays))})
	}
	if cs.EasePercent > 0 {
		rows = append(rows, row{t(i18n.Ease), fmt.Sprintf("%.0f%%", cs.EasePercent)})
	}
	rows = append(rows,
		row{t(i18n.Reviews), strconv.Itoa(cs.Reviews)},
		row{t(i18n.Lapses), strconv.Itoa(cs.Lapses)},
	)
	if cs.TotalTime > 0 {
		rows = append(rows,
			row{t(i18n.AverageTime), formatDuration(cs.AverageTime)},
			row{t(i18n.TotalTime), formatDuration(cs.TotalTime)},
		)
	}
	return append(rows,
		row{t(i18n.CardType), cs.CardType},
		row{t(i18n.NoteType), cs.NoteType},
		row{t(i18n.Deck), cs.Deck},
		row{t(i18n.CardID), strconv.FormatInt(cs.CardID, 10)},
		row{t(i18n.NoteID), strconv.FormatInt(cs.NoteID, 10)},
	)
}

func (s *Source) revlogRows(reviews []*models.Review) []revlogRow {
	answers := [4]string{s.tr.T(i18n.Again), s.tr.T(i18n.Hard), s.tr.T(i18n.Good), s.tr.T(i18n.Easy)}
	out := make([]revlogRow, 0, len(reviews))
	for _, r := range reviews {
		answer := strconv.Itoa(r.Ease)
		if r.Ease >= 1 && r.Ease <= len(answers) {
			answer = answers[r.Ease-1]
		}
		out = append(out, revlogRow{
			Date:       r.ReviewedAt.Format("2006-01-02 15:04"),
			Ease:       r.Ease,
			Answer:     answer,
			Interval:   s.tr.T(i18n.Days, strconv.Itoa(r.IntervalDays)),
			EaseFactor: fmt.Sprintf("%d%%", r.EaseFactor/10),
			Time:       formatDuration(r.Duration),
		})
	}
	return out
}

// Aggregate renders the deck or collection report for period.
func (s *Source) Aggregate(ctx context.Context, subject selection.Subject, period selection.Period) (*Report, error) {
	var (
		deckIDs []int64
		title   = s.tr.T(i18n.CollectionStat)
	)
	if !subject.WholeCollection {
		deck, err := s.store.Decks().Get(ctx, subject.DeckID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, fmt.Errorf("%w: %d", ErrDeckNotFound, subject.DeckID)
			}
			return nil, err
		}
		deckIDs = []int64{deck.ID}
		title = s.tr.T(i18n.DeckStats, deck.Name)
	}

	now := s.now()
	tr := stats.PeriodRange(period, now)
	counts, err := s.store.Cards().Counts(ctx, deckIDs)
	if err != nil {
		return nil, err
	}
	summary, err := s.store.Reviews().Summary(ctx, tr.Filter(deckIDs))
	if err != nil {
		return nil, err
	}
	days, err := s.store.Reviews().DailyCounts(ctx, tr.Filter(deckIDs), now.Location())
	if err != nil {
		return nil, err
	}
	sum := stats.Summarize(tr, counts, summary, days, now)

	v := &view{
		tr:          s.tr,
		Title:       title,
		Period:      period.String(),
		PeriodLabel: s.periodLabel(period),
		Range:       tr.FormatPeriod(),
		Counts:      s.countRows(sum.Counts),
		Rows:        s.summaryRows(sum),
	}
	if v.Charts, err = s.aggregateCharts(sum); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := aggregateTemplate.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("failed to render %s report: %w", subject, err)
	}
	return &Report{
		HTML:    buf.String(),
		Scripts: append(append([]string(nil), GraphsScripts...), charts.EChartsScript),
		Styles:  append([]string(nil), GraphsStyles...),
	}, nil
}

func (s *Source) periodLabel(p selection.Period) string {
	switch p {
	case selection.PeriodYear:
		return s.tr.T(i18n.PeriodYear)
	case selection.PeriodLife:
		return s.tr.T(i18n.PeriodLife)
	default:
		return s.tr.T(i18n.PeriodMonth)
	}
}

func (s *Source) countRows(c models.CardCounts) []row {
	t := s.tr.T
	return []row{
		{t(i18n.NewCards), strconv.Itoa(c.New)},
		{t(i18n.Learning), strconv.Itoa(c.Learning)},
		{t(i18n.Young), strconv.Itoa(c.Review)},
		{t(i18n.Suspended), strconv.Itoa(c.Suspended)},
	}
}

func (s *Source) summaryRows(sum stats.Summary) []row {
	t := s.tr.T
	return []row{
		{t(i18n.Reviews), strconv.Itoa(sum.Reviews.Reviews)},
		{t(i18n.TotalTime), formatDuration(sum.Reviews.Duration)},
		{t(i18n.DaysStudied), strconv.Itoa(sum.DaysStudied)},
		{t(i18n.PerDay), fmt.Sprintf("%.1f", sum.AveragePerDay)},
		{t(i18n.Retention), fmt.Sprintf("%.1f%%", sum.Retention*100)},
		{t(i18n.CurrentStreak), t(i18n.Days, strconv.Itoa(sum.Streaks.Current))},
		{t(i18n.LongestStreak), t(i18n.Days, strconv.Itoa(sum.Streaks.Longest))},
	}
}

func (s *Source) aggregateCharts(sum stats.Summary) ([]template.HTML, error) {
	reviews, minutes := dailyPoints(sum)

	cfg := s.charts
	cfg.Title = s.tr.T(i18n.ReviewsPerDay)
	perDay, err := charts.Bar("reviews-per-day", cfg.Title, reviews, cfg)
	if err != nil {
		return nil, err
	}

	cfg.Title = s.tr.T(i18n.MinutesPerDay)
	timePerDay, err := charts.Line("minutes-per-day", cfg.Title, minutes, cfg)
	if err != nil {
		return nil, err
	}

	cfg.Title = s.tr.T(i18n.Answers)
	answers := []charts.DataPoint{
		{Label: s.tr.T(i18n.Again), Value: float64(sum.Reviews.EaseCounts[0])},
		{Label: s.tr.T(i18n.Hard), Value: float64(sum.Reviews.EaseCounts[1])},
		{Label: s.tr.T(i18n.Good), Value: float64(sum.Reviews.EaseCounts[2])},
		{Label: s.tr.T(i18n.Easy), Value: float64(sum.Reviews.EaseCounts[3])},
	}
	buttons, err := charts.Bar("answer-buttons", cfg.Title, answers, cfg)
	if err != nil {
		return nil, err
	}

	// Snippets are generated markup, not user content.
	return []template.HTML{
		template.HTML(perDay.HTML),
		template.HTML(timePerDay.HTML),
		template.HTML(buttons.HTML),
	}, nil
}

// dailyPoints lays out per-day reviews and minutes. Bounded periods get a
// point for every day, unbounded ones only for studied days.
func dailyPoints(sum stats.Summary) (reviews, minutes []charts.DataPoint) {
	byDay := make(map[string]models.DayCount, len(sum.Days))
	for _, d := range sum.Days {
		byDay[d.Day.Format("2006-01-02")] = d
	}

	var keys []time.Time
	if sum.Range.Bounded() {
		for d := sum.Range.Start; d.Before(sum.Range.End); d = d.AddDate(0, 0, 1) {
			keys = append(keys, d)
		}
	} else {
		for _, d := range sum.Days {
			keys = append(keys, d.Day)
		}
	}

	for _, k := range keys {
		d := byDay[k.Format("2006-01-02")]
		label := k.Format("01-02")
		reviews = append(reviews, charts.DataPoint{Label: label, Value: float64(d.Reviews)})
		minutes = append(minutes, charts.DataPoint{Label: label, Value: d.Duration.Minutes()})
	}
	return reviews, minutes
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
