package selection

// Model is the mutable selection. It performs no I/O and is not safe for
// concurrent use; the stats view only touches it from the UI loop.
//
// Every setter reports whether the active selection changed, so callers can skip
// a reload when it did not.
type Model struct {
	cur Selection
}

// NewModel returns an empty model. Its zero Kind matches neither subject kind
// until a deck or card is set.
func NewModel() *Model {
	return &Model{cur: Selection{Period: PeriodMonth}}
}

// Current returns a snapshot.
func (m *Model) Current() Selection {
	return m.cur
}

// Kind returns the active subject kind.
func (m *Model) Kind() SubjectKind {
	return m.cur.Kind
}

// SetDeck selects a single deck (not the whole collection) and makes the
// selection an aggregate one.
func (m *Model) SetDeck(deckID int64) bool {
	return m.apply(func(s *Selection) {
		s.Kind = KindAggregate
		s.Subject = Subject{DeckID: deckID}
		s.CardID = 0
	})
}

// SetSubject selects an aggregate subject with an explicit scope.
func (m *Model) SetSubject(subject Subject) bool {
	return m.apply(func(s *Selection) {
		s.Kind = KindAggregate
		s.Subject = subject
		s.CardID = 0
	})
}

// SetWholeCollection switches the aggregate scope. The deck is kept so the
// scope can be switched back.
func (m *Model) SetWholeCollection(whole bool) bool {
	return m.apply(func(s *Selection) {
		s.Subject.WholeCollection = whole
	})
}

// SetPeriod changes the reporting period.
func (m *Model) SetPeriod(p Period) bool {
	return m.apply(func(s *Selection) {
		s.Period = p
	})
}

// SetCard selects a single card. The deck stays recorded but inactive, so the
// card chooser can keep listing the deck's cards.
func (m *Model) SetCard(cardID int64) bool {
	return m.apply(func(s *Selection) {
		s.Kind = KindSingleCard
		s.CardID = cardID
	})
}

// Restore replaces the whole selection, for reverting a failed change.
func (m *Model) Restore(s Selection) {
	m.cur = s
}

func (m *Model) apply(mutate func(*Selection)) bool {
	next := m.cur
	mutate(&next)
	changed := !next.Equal(m.cur)
	m.cur = next
	return changed
}
