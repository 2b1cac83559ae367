package models

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// Deck is a named group of cards. Filtered decks are temporary study decks.
type Deck struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Filtered  bool      `json:"filtered"`
	CreatedAt time.Time `json:"createdAt"`
}

// CardType is the scheduling stage of a card.
type CardType int

const (
	CardNew CardType = iota
	CardLearning
	CardReview
	CardRelearning
)

func (t CardType) String() string {
	switch t {
	case CardNew:
		return "New"
	case CardLearning:
		return "Learning"
	case CardReview:
		return "Review"
	case CardRelearning:
		return "Relearning"
	default:
		return "Unknown"
	}
}

// Note is the content a card is generated from.
type Note struct {
	ID        int64
	NoteType  string
	SortField string
	Tags      string
	CreatedAt time.Time
}

// Card is one reviewable prompt, joined with its note and deck names.
type Card struct {
	ID           int64
	NoteID       int64
	DeckID       int64
	Template     string
	Type         CardType
	Suspended    bool
	Due          *time.Time // Nullable: new cards have no due date
	IntervalDays int
	EaseFactor   int // Permille: 2500 is 250%
	Reps         int
	Lapses       int
	CreatedAt    time.Time

	// Populated via JOIN
	DeckName  string
	NoteType  string
	SortField string
}

// ReviewKind is what kind of study produced a review.
type ReviewKind int

const (
	ReviewLearn ReviewKind = iota
	ReviewReview
	ReviewRelearn
	ReviewFiltered
	ReviewManual
)

func (k ReviewKind) String() string {
	switch k {
	case ReviewLearn:
		return "Learn"
	case ReviewReview:
		return "Review"
	case ReviewRelearn:
		return "Relearn"
	case ReviewFiltered:
		return "Filtered"
	case ReviewManual:
		return "Manual"
	default:
		return "Unknown"
	}
}

// Review is one revlog entry.
type Review struct {
	ID               int64
	CardID           int64
	ReviewedAt       time.Time
	Ease             int // Answer button, 1 (again) to 4 (easy)
	IntervalDays     int
	LastIntervalDays int
	EaseFactor       int
	Duration         time.Duration
	Kind             ReviewKind
}

// ReviewFilter selects revlog entries for aggregate reports.
type ReviewFilter struct {
	DeckIDs []int64   // Empty means the whole collection
	Since   time.Time // Zero means from the beginning
	Until   time.Time // Zero means up to now
}

// ReviewSummary aggregates revlog entries.
type ReviewSummary struct {
	Reviews    int
	Cards      int
	Duration   time.Duration
	EaseCounts [4]int // Indexed by ease-1
}

// DayCount is the review activity of one local calendar day.
type DayCount struct {
	Day      time.Time
	Reviews  int
	Duration time.Duration
}

// CardCounts counts cards by scheduling stage.
type CardCounts struct {
	New       int
	Learning  int
	Review    int
	Suspended int
}

// Total returns the number of counted cards.
func (c CardCounts) Total() int {
	return c.New + c.Learning + c.Review + c.Suspended
}

// WindowGeometry is a saved window position and size.
type WindowGeometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsZero reports whether no geometry was recorded.
func (g WindowGeometry) IsZero() bool {
	return g.Width == 0 && g.Height == 0
}
