package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

// CardRepository provides access to notes and cards.
type CardRepository interface {
	CreateNote(ctx context.Context, note *models.Note) error
	Create(ctx context.Context, card *models.Card) error
	Get(ctx context.Context, id int64) (*models.Card, error)
	ListIDsByDeck(ctx context.Context, deckID int64) ([]int64, error)
	Counts(ctx context.Context, deckIDs []int64) (models.CardCounts, error)
}

type cardRepository struct {
	db Querier
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db Querier) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) CreateNote(ctx context.Context, note *models.Note) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO notes (notetype, sort_field, tags, created_at) VALUES (?, ?, ?, ?)",
		note.NoteType, note.SortField, note.Tags, toUnix(note.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	if note.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get note id: %w", err)
	}
	return nil
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now()
	}
	var due sql.NullInt64
	if card.Due != nil {
		due = sql.NullInt64{Int64: card.Due.Unix(), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO cards (note_id, deck_id, template, ctype, suspended, due_at,
			interval_days, ease_factor, reps, lapses, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.NoteID, card.DeckID, card.Template, int(card.Type), card.Suspended, due,
		card.IntervalDays, card.EaseFactor, card.Reps, card.Lapses, toUnix(card.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	if card.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get card id: %w", err)
	}
	return nil
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	var (
		c       models.Card
		ctype   int
		due     sql.NullInt64
		created int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT c.id, c.note_id, c.deck_id, c.template, c.ctype, c.suspended, c.due_at,
			c.interval_days, c.ease_factor, c.reps, c.lapses, c.created_at,
			d.name, n.notetype, n.sort_field
		FROM cards c
		JOIN decks d ON d.id = c.deck_id
		JOIN notes n ON n.id = c.note_id
		WHERE c.id = ?`, id).Scan(
		&c.ID, &c.NoteID, &c.DeckID, &c.Template, &ctype, &c.Suspended, &due,
		&c.IntervalDays, &c.EaseFactor, &c.Reps, &c.Lapses, &created,
		&c.DeckName, &c.NoteType, &c.SortField,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("card %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get card %d: %w", id, err)
	}
	c.Type = models.CardType(ctype)
	c.CreatedAt = fromUnix(created)
	if due.Valid {
		t := time.Unix(due.Int64, 0)
		c.Due = &t
	}
	return &c, nil
}

func (r *cardRepository) ListIDsByDeck(ctx context.Context, deckID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM cards WHERE deck_id = ? ORDER BY id", deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards for deck %d: %w", deckID, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan card id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Counts counts cards in deckIDs, or in the whole collection when deckIDs is empty.
func (r *cardRepository) Counts(ctx context.Context, deckIDs []int64) (models.CardCounts, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN suspended = 0 AND ctype = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN suspended = 0 AND ctype IN (1, 3) THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN suspended = 0 AND ctype = 2 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN suspended = 1 THEN 1 ELSE 0 END), 0)
		FROM cards`
	var args []any
	if len(deckIDs) > 0 {
		in, inArgs := inClause(deckIDs)
		query += " WHERE deck_id IN " + in
		args = inArgs
	}

	var counts models.CardCounts
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&counts.New, &counts.Learning, &counts.Review, &counts.Suspended)
	if err != nil {
		return models.CardCounts{}, fmt.Errorf("failed to count cards: %w", err)
	}
	return counts, nil
}
