package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ramonehamilton/deckstats/internal/storage/models"
	"github.com/ramonehamilton/deckstats/internal/storage/repository"
)

// Setting keys.
const (
	KeyCurrentDeck     = "currentDeck"
	keyGeometryPrefix  = "geometry."
	keyLastSaveDirPref = "lastSaveDir."
)

// Service provides collection-level operations on top of the repositories.
type Service struct {
	db       *DB
	decks    repository.DeckRepository
	cards    repository.CardRepository
	reviews  repository.ReviewRepository
	settings repository.SettingsRepository
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	r := reposFor(db.Conn())
	return &Service{
		db:       db,
		decks:    r.Decks,
		cards:    r.Cards,
		reviews:  r.Reviews,
		settings: r.Settings,
	}
}

// Decks returns the deck repository.
func (s *Service) Decks() repository.DeckRepository { return s.decks }

// Cards returns the card repository.
func (s *Service) Cards() repository.CardRepository { return s.cards }

// Reviews returns the review log repository.
func (s *Service) Reviews() repository.ReviewRepository { return s.reviews }

// Settings returns the settings repository.
func (s *Service) Settings() repository.SettingsRepository { return s.settings }

// SetCurrentDeck records deckID as the collection's current deck.
func (s *Service) SetCurrentDeck(ctx context.Context, deckID int64) error {
	if _, err := s.decks.Get(ctx, deckID); err != nil {
		return err
	}
	return s.settings.Set(ctx, KeyCurrentDeck, deckID)
}

// CurrentDeck returns the current deck, falling back to the first deck by
// name when none was recorded or the recorded one no longer exists.
func (s *Service) CurrentDeck(ctx context.Context) (*models.Deck, error) {
	var id int64
	err := s.settings.GetTyped(ctx, KeyCurrentDeck, &id)
	switch {
	case err == nil:
		deck, getErr := s.decks.Get(ctx, id)
		if getErr == nil {
			return deck, nil
		}
		if !errors.Is(getErr, models.ErrNotFound) {
			return nil, getErr
		}
	case !errors.Is(err, repository.ErrSettingNotFound):
		return nil, err
	}

	decks, err := s.decks.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(decks) == 0 {
		return nil, fmt.Errorf("no decks: %w", models.ErrNotFound)
	}
	return decks[0], nil
}

// SaveGeometry stores the geometry of the named window.
func (s *Service) SaveGeometry(ctx context.Context, name string, g models.WindowGeometry) error {
	return s.settings.Set(ctx, keyGeometryPrefix+name, g)
}

// Geometry returns the stored geometry of the named window, or the zero
// value when none was saved.
func (s *Service) Geometry(ctx context.Context, name string) (models.WindowGeometry, error) {
	var g models.WindowGeometry
	err := s.settings.GetTyped(ctx, keyGeometryPrefix+name, &g)
	if errors.Is(err, repository.ErrSettingNotFound) {
		return models.WindowGeometry{}, nil
	}
	return g, err
}

// LastSaveDir returns the directory last used for the given save key, or "".
func (s *Service) LastSaveDir(ctx context.Context, key string) (string, error) {
	var dir string
	err := s.settings.GetTyped(ctx, keyLastSaveDirPref+key, &dir)
	if errors.Is(err, repository.ErrSettingNotFound) {
		return "", nil
	}
	return dir, err
}

// SetLastSaveDir remembers dir for the given save key.
func (s *Service) SetLastSaveDir(ctx context.Context, key, dir string) error {
	return s.settings.Set(ctx, keyLastSaveDirPref+key, dir)
}

// AddCard stores a note, its card and the card's review history atomically.
// IDs are written back into the arguments.
func (s *Service) AddCard(ctx context.Context, note *models.Note, card *models.Card, reviews []*models.Review) error {
	return s.db.WithTransaction(ctx, func(r Repos) error {
		if err := r.Cards.CreateNote(ctx, note); err != nil {
			return err
		}
		card.NoteID = note.ID
		if err := r.Cards.Create(ctx, card); err != nil {
			return err
		}
		for _, rv := range reviews {
			rv.CardID = card.ID
			if err := r.Reviews.Add(ctx, rv); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}
