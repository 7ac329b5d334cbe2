package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapticlab/tacton/internal/haptic"
)

var testParams = haptic.GlobalParams{Intensity: 1.0, FrequencyCode: 4}

func TestSchedule_NonOverlapping(t *testing.T) {
	clips := []haptic.Clip{
		{ActuatorID: 1, Waveform: "wf", StartMs: 0, StopMs: 100},
		{ActuatorID: 1, Waveform: "wf", StartMs: 100, StopMs: 200},
		{ActuatorID: 2, Waveform: "wf", StartMs: 50, StopMs: 150},
	}

	res, err := Schedule(clips, testParams)
	require.NoError(t, err)

	assert.Empty(t, res.Conflicts)
	require.Len(t, res.Events, 3)

	// Globally sorted by start, tie broken by actuator id.
	assert.Equal(t, int64(0), res.Events[0].StartMs)
	assert.Equal(t, int64(50), res.Events[1].StartMs)
	assert.Equal(t, 2, res.Events[1].ActuatorID)
	assert.Equal(t, int64(100), res.Events[2].StartMs)
}

// The worked overlap example: A={act1, 0, 100}, B={act1, 50, 150}
// schedules to A'={act1, 0, 50}, B={act1, 50, 150}.
func TestSchedule_OverlapLastWriteWins(t *testing.T) {
	clips := []haptic.Clip{
		{ActuatorID: 1, Waveform: "wf", StartMs: 0, StopMs: 100},
		{ActuatorID: 1, Waveform: "wf", StartMs: 50, StopMs: 150},
	}

	res, err := Schedule(clips, testParams)
	require.NoError(t, err)

	require.Len(t, res.Events, 2)
	assert.Equal(t, int64(0), res.Events[0].StartMs)
	assert.Equal(t, int64(50), res.Events[0].DurationMs, "earlier clip truncated at later clip's start")
	assert.Equal(t, int64(50), res.Events[1].StartMs)
	assert.Equal(t, int64(100), res.Events[1].DurationMs, "later clip plays in full")

	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, 1, res.Conflicts[0].ActuatorID)
	assert.Equal(t, int64(50), res.Conflicts[0].TruncatedAtMs)
	assert.Equal(t, int64(100), res.Conflicts[0].OriginalStopMs)
	assert.False(t, res.Conflicts[0].Dropped)
}

func TestSchedule_FullyCoveredClipDropped(t *testing.T) {
	clips := []haptic.Clip{
		{ActuatorID: 1, Waveform: "a", StartMs: 0, StopMs: 100},
		{ActuatorID: 1, Waveform: "b", StartMs: 0, StopMs: 150},
	}

	res, err := Schedule(clips, testParams)
	require.NoError(t, err)

	require.Len(t, res.Events, 1)
	assert.Equal(t, haptic.WaveformRef("b"), res.Events[0].Waveform,
		"later input clip wins at equal starts")

	require.Len(t, res.Conflicts, 1)
	assert.True(t, res.Conflicts[0].Dropped)
}

func TestSchedule_Idempotent(t *testing.T) {
	clips := []haptic.Clip{
		{ActuatorID: 3, Waveform: "wf", StartMs: 200, StopMs: 300},
		{ActuatorID: 1, Waveform: "wf", StartMs: 0, StopMs: 100},
		{ActuatorID: 2, Waveform: "wf", StartMs: 100, StopMs: 250},
	}

	first, err := Schedule(clips, testParams)
	require.NoError(t, err)
	second, err := Schedule(clips, testParams)
	require.NoError(t, err)

	assert.Equal(t, first.Events, second.Events)
	assert.Empty(t, first.Conflicts)
}

func TestSchedule_ActuatorsIndependent(t *testing.T) {
	// Overlapping spans on different actuators are not conflicts.
	clips := []haptic.Clip{
		{ActuatorID: 1, Waveform: "wf", StartMs: 0, StopMs: 100},
		{ActuatorID: 2, Waveform: "wf", StartMs: 0, StopMs: 100},
		{ActuatorID: 3, Waveform: "wf", StartMs: 0, StopMs: 100},
	}

	res, err := Schedule(clips, testParams)
	require.NoError(t, err)
	assert.Len(t, res.Events, 3)
	assert.Empty(t, res.Conflicts)
}

func TestSchedule_NoPerActuatorOverlapInOutput(t *testing.T) {
	clips := []haptic.Clip{
		{ActuatorID: 1, Waveform: "wf", StartMs: 0, StopMs: 400},
		{ActuatorID: 1, Waveform: "wf", StartMs: 100, StopMs: 300},
		{ActuatorID: 1, Waveform: "wf", StartMs: 250, StopMs: 500},
		{ActuatorID: 1, Waveform: "wf", StartMs: 50, StopMs: 120},
	}

	res, err := Schedule(clips, testParams)
	require.NoError(t, err)

	byStart := map[int][]haptic.ActuatorEvent{}
	for _, e := range res.Events {
		byStart[e.ActuatorID] = append(byStart[e.ActuatorID], e)
	}
	for id, events := range byStart {
		for i := 1; i < len(events); i++ {
			assert.GreaterOrEqual(t, events[i].StartMs, events[i-1].EndMs(),
				"actuator %d events overlap", id)
		}
	}
}

func TestSchedule_InvalidClipRejected(t *testing.T) {
	_, err := Schedule([]haptic.Clip{{ActuatorID: 1, StartMs: 100, StopMs: 100}}, testParams)
	require.Error(t, err)
	assert.Equal(t, haptic.ErrCodeInvalidClip, haptic.ConfigCode(err))
}

func TestSchedule_InvalidParamsRejected(t *testing.T) {
	_, err := Schedule(nil, haptic.GlobalParams{Intensity: 2})
	require.Error(t, err)
	assert.True(t, haptic.IsConfigError(err))
}

func TestSchedule_Empty(t *testing.T) {
	res, err := Schedule(nil, testParams)
	require.NoError(t, err)
	assert.Empty(t, res.Events)
}
