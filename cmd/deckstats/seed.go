package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/deckstats/internal/storage"
	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

func newSeedCommand() *cobra.Command {
	var decks, cards int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the collection with demo decks, cards and reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if decks < 1 || cards < 1 {
				return fmt.Errorf("--decks and --cards must be at least 1")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, closeFn, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			ids, err := seedCollection(cmd.Context(), svc, time.Now(), decks, cards)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created %d decks with %d cards each: %v\n", len(ids), cards, ids)
			return err
		},
	}

	cmd.Flags().IntVar(&decks, "decks", 2, "number of decks")
	cmd.Flags().IntVar(&cards, "cards", 20, "cards per deck")

	return cmd
}

var seedWords = []string{"hola", "gato", "perro", "casa", "libro", "agua", "sol", "luna", "mesa", "flor"}

// seedCollection creates decks with cards and a plausible review history
// ending at now. It returns the new deck ids.
func seedCollection(ctx context.Context, svc *storage.Service, now time.Time, decks, cards int) ([]int64, error) {
	rng := rand.New(rand.NewPCG(uint64(decks), uint64(cards)))
	ids := make([]int64, 0, decks)

	for d := 0; d < decks; d++ {
		deck := &models.Deck{
			Name:      fmt.Sprintf("Demo %d (%s)", d+1, now.Format("2006-01-02 15:04:05")),
			CreatedAt: now.AddDate(0, -6, 0),
		}
		if err := svc.Decks().Create(ctx, deck); err != nil {
			return nil, fmt.Errorf("create deck: %w", err)
		}
		ids = append(ids, deck.ID)

		for c := 0; c < cards; c++ {
			note := &models.Note{
				NoteType:  "Basic",
				SortField: fmt.Sprintf("%s %d", seedWords[c%len(seedWords)], c),
				CreatedAt: now.AddDate(0, 0, -rng.IntN(180)-1),
			}
			card, reviews := seedCard(rng, deck.ID, note.CreatedAt, now)
			if err := svc.AddCard(ctx, note, card, reviews); err != nil {
				return nil, fmt.Errorf("add card: %w", err)
			}
		}
	}

	if len(ids) > 0 {
		if err := svc.SetCurrentDeck(ctx, ids[0]); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// seedCard simulates reviews between created and now. Intervals grow by the
// ease factor on success and reset on "again".
func seedCard(rng *rand.Rand, deckID int64, created, now time.Time) (*models.Card, []*models.Review) {
	card := &models.Card{DeckID: deckID, Type: models.CardNew, EaseFactor: 2500, CreatedAt: created}
	var reviews []*models.Review

	at := created.Add(time.Duration(rng.IntN(48)) * time.Hour)
	interval := 0
	for at.Before(now) {
		ease := 3
		switch r := rng.IntN(10); {
		case r == 0:
			ease = 1
		case r == 1:
			ease = 2
		case r == 9:
			ease = 4
		}

		last := interval
		kind := models.ReviewReview
		switch {
		case interval == 0:
			kind = models.ReviewLearn
			interval = 1
		case ease == 1:
			kind = models.ReviewRelearn
			interval = 1
			card.Lapses++
			card.EaseFactor = max(1300, card.EaseFactor-200)
		default:
			interval = max(interval+1, interval*card.EaseFactor/1000)
		}
		reviews = append(reviews, &models.Review{
			ReviewedAt:       at,
			Ease:             ease,
			IntervalDays:     interval,
			LastIntervalDays: last,
			EaseFactor:       card.EaseFactor,
			Duration:         time.Duration(2+rng.IntN(15)) * time.Second,
			Kind:             kind,
		})
		card.Reps++
		at = at.AddDate(0, 0, interval)
	}

	if len(reviews) > 0 {
		card.Type = models.CardReview
		card.IntervalDays = interval
		due := at
		card.Due = &due
	}
	return card, reviews
}
