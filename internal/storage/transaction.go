package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ramonehamilton/deckstats/internal/storage/repository"
)

// Repos groups repositories bound to a single transaction.
type Repos struct {
	Decks    repository.DeckRepository
	Cards    repository.CardRepository
	Reviews  repository.ReviewRepository
	Settings repository.SettingsRepository
}

func reposFor(q repository.Querier) Repos {
	return Repos{
		Decks:    repository.NewDeckRepository(q),
		Cards:    repository.NewCardRepository(q),
		Reviews:  repository.NewReviewRepository(q),
		Settings: repository.NewSettingsRepository(q),
	}
}

// WithTransaction runs fn with repositories bound to one transaction.
// It commits when fn returns nil and rolls back otherwise, including on panic.
func (db *DB) WithTransaction(ctx context.Context, fn func(Repos) error) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				err = fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
			}
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("failed to commit transaction: %w", err)
		}
	}()

	return fn(reposFor(tx))
}
