package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator_English(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, "en", tr.Locale())
	assert.Equal(t, "Stats", tr.T(Stats))
	assert.Equal(t, "Saved.", tr.T(Saved))
	assert.Equal(t, "Deck: Spanish", tr.T(DeckStats, "Spanish"))
	assert.Equal(t, "21 days", tr.T(Days, "21"))
}

func TestTranslator_Japanese(t *testing.T) {
	tr, err := New("ja")
	require.NoError(t, err)

	assert.Equal(t, "ja", tr.Locale())
	assert.Equal(t, "統計", tr.T(Stats))
	assert.Equal(t, "21日", tr.T(Days, "21"))
}

func TestTranslator_FallbackAndUnknownKey(t *testing.T) {
	tr, err := New("xx")
	require.NoError(t, err)

	assert.Equal(t, "Stats", tr.T(Stats))
	assert.Equal(t, "no_such_key", tr.T("no_such_key"))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalog["en"] {
		_, ok := catalog["ja"][key]
		assert.True(t, ok, "missing ja message for %s", key)
	}
	assert.Len(t, catalog["ja"], len(catalog["en"]))
}
