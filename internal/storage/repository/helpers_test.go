package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

// setupTestDB opens a private in-memory database with the real schema applied.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "migrations", "000001_initial_schema.up.sql"))
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

type fixture struct {
	db      *sql.DB
	decks   DeckRepository
	cards   CardRepository
	reviews ReviewRepository
}

func newFixture(t *testing.T) fixture {
	db := setupTestDB(t)
	return fixture{
		db:      db,
		decks:   NewDeckRepository(db),
		cards:   NewCardRepository(db),
		reviews: NewReviewRepository(db),
	}
}

func (f fixture) deck(t *testing.T, name string) *models.Deck {
	t.Helper()
	d := &models.Deck{Name: name}
	require.NoError(t, f.decks.Create(context.Background(), d))
	return d
}

func (f fixture) card(t *testing.T, deckID int64, ctype models.CardType) *models.Card {
	t.Helper()
	ctx := context.Background()
	n := &models.Note{NoteType: "Basic", SortField: "front"}
	require.NoError(t, f.cards.CreateNote(ctx, n))
	c := &models.Card{NoteID: n.ID, DeckID: deckID, Template: "Card 1", Type: ctype, EaseFactor: 2500}
	require.NoError(t, f.cards.Create(ctx, c))
	return c
}

func (f fixture) review(t *testing.T, cardID int64, at time.Time, ease int, dur time.Duration) {
	t.Helper()
	r := &models.Review{CardID: cardID, ReviewedAt: at, Ease: ease, Duration: dur, Kind: models.ReviewReview}
	require.NoError(t, f.reviews.Add(context.Background(), r))
}
