package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

// ReviewRepository provides access to the review log.
type ReviewRepository interface {
	Add(ctx context.Context, review *models.Review) error
	ListByCard(ctx context.Context, cardID int64) ([]*models.Review, error)
	Summary(ctx context.Context, filter models.ReviewFilter) (models.ReviewSummary, error)
	DailyCounts(ctx context.Context, filter models.ReviewFilter, loc *time.Location) ([]models.DayCount, error)
}

type reviewRepository struct {
	db Querier
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db Querier) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Add(ctx context.Context, review *models.Review) error {
	if review.Ease < 1 || review.Ease > 4 {
		return fmt.Errorf("invalid ease %d", review.Ease)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO revlog (card_id, reviewed_at, ease, interval_days, last_interval_days,
			ease_factor, duration_ms, kind)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		review.CardID, toUnix(review.ReviewedAt), review.Ease, review.IntervalDays,
		review.LastIntervalDays, review.EaseFactor, review.Duration.Milliseconds(), int(review.Kind))
	if err != nil {
		return fmt.Errorf("failed to add review for card %d: %w", review.CardID, err)
	}
	if review.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get review id: %w", err)
	}
	return nil
}

// ListByCard returns the reviews of a card, newest first.
func (r *reviewRepository) ListByCard(ctx context.Context, cardID int64) ([]*models.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, card_id, reviewed_at, ease, interval_days, last_interval_days,
			ease_factor, duration_ms, kind
		FROM revlog WHERE card_id = ? ORDER BY reviewed_at DESC, id DESC`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for card %d: %w", cardID, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var reviews []*models.Review
	for rows.Next() {
		var (
			rv     models.Review
			at, ms int64
			kind   int
		)
		if err := rows.Scan(&rv.ID, &rv.CardID, &at, &rv.Ease, &rv.IntervalDays,
			&rv.LastIntervalDays, &rv.EaseFactor, &ms, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		rv.ReviewedAt = fromUnix(at)
		rv.Duration = time.Duration(ms) * time.Millisecond
		rv.Kind = models.ReviewKind(kind)
		reviews = append(reviews, &rv)
	}
	return reviews, rows.Err()
}

func whereFilter(filter models.ReviewFilter) (string, []any) {
	where := " WHERE 1 = 1"
	var args []any
	if len(filter.DeckIDs) > 0 {
		in, inArgs := inClause(filter.DeckIDs)
		where += " AND c.deck_id IN " + in
		args = append(args, inArgs...)
	}
	if !filter.Since.IsZero() {
		where += " AND r.reviewed_at >= ?"
		args = append(args, filter.Since.Unix())
	}
	if !filter.Until.IsZero() {
		where += " AND r.reviewed_at < ?"
		args = append(args, filter.Until.Unix())
	}
	return where, args
}

func (r *reviewRepository) Summary(ctx context.Context, filter models.ReviewFilter) (models.ReviewSummary, error) {
	where, args := whereFilter(filter)
	var (
		s  models.ReviewSummary
		ms int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT r.card_id),
			COALESCE(SUM(r.duration_ms), 0),
			COALESCE(SUM(CASE WHEN r.ease = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN r.ease = 2 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN r.ease = 3 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN r.ease = 4 THEN 1 ELSE 0 END), 0)
		FROM revlog r JOIN cards c ON c.id = r.card_id`+where, args...).Scan(
		&s.Reviews, &s.Cards, &ms,
		&s.EaseCounts[0], &s.EaseCounts[1], &s.EaseCounts[2], &s.EaseCounts[3])
	if err != nil {
		return models.ReviewSummary{}, fmt.Errorf("failed to summarize reviews: %w", err)
	}
	s.Duration = time.Duration(ms) * time.Millisecond
	return s, nil
}

// DailyCounts buckets reviews by calendar day in loc, oldest day first.
// Days without reviews are omitted.
func (r *reviewRepository) DailyCounts(ctx context.Context, filter models.ReviewFilter, loc *time.Location) ([]models.DayCount, error) {
	if loc == nil {
		loc = time.Local
	}
	where, args := whereFilter(filter)
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.reviewed_at, r.duration_ms
		FROM revlog r JOIN cards c ON c.id = r.card_id`+where+`
		ORDER BY r.reviewed_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily reviews: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var days []models.DayCount
	for rows.Next() {
		var at, ms int64
		if err := rows.Scan(&at, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan review time: %w", err)
		}
		t := time.Unix(at, 0).In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if n := len(days); n == 0 || !days[n-1].Day.Equal(day) {
			days = append(days, models.DayCount{Day: day})
		}
		last := &days[len(days)-1]
		last.Reviews++
		last.Duration += time.Duration(ms) * time.Millisecond
	}
	return days, rows.Err()
}
