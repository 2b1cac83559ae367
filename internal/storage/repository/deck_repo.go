package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

// DeckRepository provides access to decks.
type DeckRepository interface {
	Create(ctx context.Context, deck *models.Deck) error
	Get(ctx context.Context, id int64) (*models.Deck, error)
	GetByName(ctx context.Context, name string) (*models.Deck, error)
	List(ctx context.Context) ([]*models.Deck, error)
}

type deckRepository struct {
	db Querier
}

// NewDeckRepository creates a new deck repository.
func NewDeckRepository(db Querier) DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Create(ctx context.Context, deck *models.Deck) error {
	if deck.CreatedAt.IsZero() {
		deck.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO decks (name, filtered, created_at) VALUES (?, ?, ?)",
		deck.Name, deck.Filtered, toUnix(deck.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create deck %q: %w", deck.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get deck id: %w", err)
	}
	deck.ID = id
	return nil
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT id, name, filtered, created_at FROM decks WHERE id = ?", id), fmt.Sprintf("deck %d", id))
}

func (r *deckRepository) GetByName(ctx context.Context, name string) (*models.Deck, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT id, name, filtered, created_at FROM decks WHERE name = ?", name), fmt.Sprintf("deck %q", name))
}

func (r *deckRepository) scanOne(row *sql.Row, what string) (*models.Deck, error) {
	var (
		d       models.Deck
		created int64
	)
	if err := row.Scan(&d.ID, &d.Name, &d.Filtered, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", what, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	d.CreatedAt = fromUnix(created)
	return &d, nil
}

func (r *deckRepository) List(ctx context.Context) ([]*models.Deck, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, filtered, created_at FROM decks ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var decks []*models.Deck
	for rows.Next() {
		var (
			d       models.Deck
			created int64
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Filtered, &created); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		d.CreatedAt = fromUnix(created)
		decks = append(decks, &d)
	}
	return decks, rows.Err()
}
