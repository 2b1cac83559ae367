package surface

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/deckstats/internal/async"
)

func TestSlot_MountRejectsSecondSurface(t *testing.T) {
	var slot Slot
	host := &recordingHost{}
	require.NoError(t, slot.Mount(NewPaginated(host, async.NewLoop(), nil, Options{})))

	err := slot.Mount(NewLegacy(host, async.NewLoop(), nil, nil, Options{}))
	assert.ErrorIs(t, err, ErrSlotOccupied)
	assert.Equal(t, KindPaginated, slot.Kind())
}

func TestSlot_SwapDisposesBeforeCreate(t *testing.T) {
	var slot Slot
	host := &recordingHost{}
	loop := async.NewLoop()
	old := NewPaginated(host, loop, nil, Options{})
	require.NoError(t, slot.Mount(old))

	next, err := slot.Swap(func() (Surface, error) {
		assert.True(t, old.Disposed(), "old surface must be disposed before the new one exists")
		host.calls = append(host.calls, "create")
		return NewLegacy(host, loop, nil, nil, Options{}), nil
	})
	require.NoError(t, err)

	assert.Same(t, next, slot.Current())
	assert.Equal(t, []string{"reset", "create"}, host.calls)
}

func TestSlot_SwapCreateFailureLeavesSlotEmpty(t *testing.T) {
	var slot Slot
	require.NoError(t, slot.Mount(NewPaginated(&recordingHost{}, async.NewLoop(), nil, Options{})))

	_, err := slot.Swap(func() (Surface, error) { return nil, errors.New("no webview") })
	assert.Error(t, err)
	assert.Nil(t, slot.Current())
	assert.Equal(t, Kind(0), slot.Kind())
	assert.NoError(t, slot.Unmount())
}
