package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapticlab/tacton/internal/haptic"
)

func TestRecordingSink_RecordsInOrder(t *testing.T) {
	s := NewRecordingSink()

	for i := 0; i < 3; i++ {
		err := s.Dispatch(haptic.ActuatorEvent{ActuatorID: i, StartMs: int64(i * 10), DurationMs: 50, Intensity: 0.5})
		require.NoError(t, err)
	}

	events := s.Events()
	require.Len(t, events, 3)
	for i, ev := range events {
		assert.Equal(t, i, ev.ActuatorID)
	}
	assert.Len(t, s.DispatchTimes(), 3)
}

func TestRecordingSink_FailDispatch(t *testing.T) {
	s := NewRecordingSink()
	boom := errors.New("boom")
	s.FailDispatch(boom)

	err := s.Dispatch(haptic.ActuatorEvent{ActuatorID: 1, DurationMs: 40, Intensity: 1})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Events())

	s.FailDispatch(nil)
	require.NoError(t, s.Dispatch(haptic.ActuatorEvent{ActuatorID: 1, DurationMs: 40, Intensity: 1}))
	assert.Len(t, s.Events(), 1)
}

func TestRecordingSink_CountsReleases(t *testing.T) {
	s := NewRecordingSink()
	require.NoError(t, s.ReleaseAll())
	require.NoError(t, s.ReleaseAll())
	assert.Equal(t, 2, s.Releases())
}

func TestGridLayout_RowMajorIDs(t *testing.T) {
	layout := GridLayout(t, 3, 3, 40)

	assert.Equal(t, 9, layout.Len())
	act, ok := layout.Get(4)
	require.True(t, ok)
	assert.Equal(t, haptic.Point{X: 40, Y: 40}, act.Position)
	assert.Equal(t, "row1", act.ChainGroup)
}
