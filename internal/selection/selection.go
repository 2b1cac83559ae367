// Package selection holds what the statistics dialog is currently asked to show.
package selection

import (
	"fmt"
	"strings"
)

// SubjectKind says whether the selection is a deck/collection or a single card.
type SubjectKind int

const (
	// KindAggregate is a deck or the whole collection.
	KindAggregate SubjectKind = iota + 1
	// KindSingleCard is one card.
	KindSingleCard
)

func (k SubjectKind) String() string {
	switch k {
	case KindAggregate:
		return "aggregate"
	case KindSingleCard:
		return "single-card"
	default:
		return fmt.Sprintf("SubjectKind(%d)", int(k))
	}
}

// Period is the reporting window of the legacy aggregate report.
// The numeric values match the legacy report "type" argument.
type Period int

const (
	PeriodMonth Period = iota
	PeriodYear
	PeriodLife
)

func (p Period) String() string {
	switch p {
	case PeriodMonth:
		return "month"
	case PeriodYear:
		return "year"
	case PeriodLife:
		return "life"
	default:
		return fmt.Sprintf("Period(%d)", int(p))
	}
}

// ParsePeriod accepts "month", "year" or "life" (case-insensitive) and the
// legacy numeric forms "0", "1", "2".
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "month", "0":
		return PeriodMonth, nil
	case "year", "1":
		return PeriodYear, nil
	case "life", "2":
		return PeriodLife, nil
	default:
		return PeriodMonth, fmt.Errorf("unknown period %q", s)
	}
}

// Subject identifies an aggregate report target.
type Subject struct {
	DeckID          int64 `json:"deckId"`
	WholeCollection bool  `json:"wholeCollection"`
}

func (s Subject) String() string {
	if s.WholeCollection {
		return "collection"
	}
	return fmt.Sprintf("deck:%d", s.DeckID)
}

// Selection is a value snapshot of the model.
//
// Subject and Period are active only for KindAggregate; CardID only for
// KindSingleCard. Inactive fields may hold stale values and are ignored by Equal.
type Selection struct {
	Kind    SubjectKind `json:"kind"`
	Subject Subject     `json:"subject"`
	Period  Period      `json:"period"`
	CardID  int64       `json:"cardId"`
}

// Equal compares the semantically active fields.
func (s Selection) Equal(o Selection) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case KindAggregate:
		return s.Subject == o.Subject && s.Period == o.Period
	case KindSingleCard:
		return s.CardID == o.CardID
	default:
		return true
	}
}

func (s Selection) String() string {
	switch s.Kind {
	case KindAggregate:
		return fmt.Sprintf("%s/%s", s.Subject, s.Period)
	case KindSingleCard:
		return fmt.Sprintf("card:%d", s.CardID)
	default:
		return "none"
	}
}
