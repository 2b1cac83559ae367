package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_SetDeckStartsAggregate(t *testing.T) {
	m := NewModel()
	assert.True(t, m.SetDeck(42))

	got := m.Current()
	assert.Equal(t, KindAggregate, got.Kind)
	assert.Equal(t, Subject{DeckID: 42, WholeCollection: false}, got.Subject)
	assert.Equal(t, PeriodMonth, got.Period)

	assert.False(t, m.SetDeck(42), "same deck is not a change")
}

func TestModel_SetCardIgnoresDeck(t *testing.T) {
	m := NewModel()
	m.SetDeck(42)
	require.True(t, m.SetCard(777))

	got := m.Current()
	assert.Equal(t, KindSingleCard, got.Kind)
	assert.Equal(t, int64(777), got.CardID)

	// Deck changes are invisible while a card is active.
	other := got
	other.Subject.DeckID = 9
	assert.True(t, got.Equal(other))

	assert.True(t, m.SetDeck(42), "switching kind back is a change")
	assert.Equal(t, int64(0), m.Current().CardID)
}

func TestModel_PeriodAndScope(t *testing.T) {
	m := NewModel()
	m.SetDeck(1)

	assert.True(t, m.SetPeriod(PeriodYear))
	assert.False(t, m.SetPeriod(PeriodYear))
	assert.True(t, m.SetWholeCollection(true))
	assert.Equal(t, "collection/year", m.Current().String())

	m.SetCard(5)
	assert.False(t, m.SetPeriod(PeriodLife), "period is inactive for a single card")
}

func TestModel_Restore(t *testing.T) {
	m := NewModel()
	m.SetDeck(3)
	prior := m.Current()
	m.SetDeck(7)
	m.Restore(prior)
	assert.Equal(t, int64(3), m.Current().Subject.DeckID)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{in: "month", want: PeriodMonth},
		{in: "Year", want: PeriodYear},
		{in: " life ", want: PeriodLife},
		{in: "2", want: PeriodLife},
		{in: "decade", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriod(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
