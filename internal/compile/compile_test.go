package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapticlab/tacton/internal/haptic"
	"github.com/hapticlab/tacton/internal/phantom"
	"github.com/hapticlab/tacton/internal/stroke"
)

// grid3x3 is a 3x3 back grid, IDs row-major 0..8, 40mm pitch.
func grid3x3(t *testing.T) *haptic.Layout {
	t.Helper()
	var acts []haptic.Actuator
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			acts = append(acts, haptic.Actuator{
				ID:       row*3 + col,
				Position: haptic.Point{X: float64(col) * 40, Y: float64(row) * 40},
			})
		}
	}
	l, err := haptic.NewLayout(acts)
	require.NoError(t, err)
	return l
}

var testParams = haptic.GlobalParams{Intensity: 1.0, FrequencyCode: 4}

func newCompiler(t *testing.T) *Compiler {
	t.Helper()
	c, err := New(grid3x3(t), testParams)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadInput(t *testing.T) {
	_, err := New(nil, testParams)
	require.Error(t, err)
	assert.Equal(t, haptic.ErrCodeEmptyLayout, haptic.ConfigCode(err))

	_, err = New(grid3x3(t), haptic.GlobalParams{Intensity: 2})
	assert.Error(t, err)
}

func TestCompile_Stroke(t *testing.T) {
	c := newCompiler(t)

	src := StrokeSource{
		Trajectory: []haptic.TrajectoryPoint{
			{TimestampMs: 0, X: 10, Y: 10},
			{TimestampMs: 60, X: 30, Y: 30},
			{TimestampMs: 120, X: 50, Y: 50},
		},
		Params: stroke.Params{
			MaxPhantoms:        50,
			SamplingIntervalMs: 50,
			StepDurationMs:     60,
			Mode:               phantom.Phantom3,
			// Intensity/frequency deliberately unset: the compiler's
			// global parameters must take over.
		},
	}

	res, err := c.Compile(src)
	require.NoError(t, err)

	require.NotEmpty(t, res.Events)
	assert.Equal(t, 3, res.Rendered)
	for _, e := range res.Events {
		assert.Equal(t, 4, e.FrequencyCode, "global frequency code applied")
		assert.Greater(t, e.Intensity, 0.0, "global intensity applied")
	}
}

func TestCompile_ClipSet(t *testing.T) {
	c := newCompiler(t)

	res, err := c.Compile(ClipSetSource{Clips: []haptic.Clip{
		{ActuatorID: 1, Waveform: "wf", StartMs: 0, StopMs: 100},
		{ActuatorID: 1, Waveform: "wf", StartMs: 50, StopMs: 150},
	}})
	require.NoError(t, err)

	require.Len(t, res.Events, 2)
	assert.Len(t, res.Conflicts, 1, "overlap surfaced as warning")
}

func TestCompile_ClipSet_UnknownActuator(t *testing.T) {
	c := newCompiler(t)

	_, err := c.Compile(ClipSetSource{Clips: []haptic.Clip{
		{ActuatorID: 77, Waveform: "wf", StartMs: 0, StopMs: 100},
	}})
	require.Error(t, err)
	assert.Equal(t, haptic.ErrCodeUnknownActuator, haptic.ConfigCode(err))
}

func TestCompile_Premade_Known(t *testing.T) {
	c := newCompiler(t)

	for _, name := range TemplateNames() {
		t.Run(name, func(t *testing.T) {
			res, err := c.Compile(PremadeSource{Name: name})
			require.NoError(t, err)
			assert.NotEmpty(t, res.Events)

			// Deterministic across compiles.
			again, err := c.Compile(PremadeSource{Name: name})
			require.NoError(t, err)
			assert.Equal(t, res.Events, again.Events)
		})
	}
}

func TestCompile_Premade_CaseInsensitiveLookup(t *testing.T) {
	c := newCompiler(t)

	res, err := c.Compile(PremadeSource{Name: "  trio BURST "})
	require.NoError(t, err)
	assert.Len(t, res.Events, 9)
}

func TestCompile_Premade_UnknownName(t *testing.T) {
	c := newCompiler(t)

	_, err := c.Compile(PremadeSource{Name: "Spiral of Doom"})
	require.Error(t, err)
	assert.Equal(t, haptic.ErrCodeBadPatternDef, haptic.ConfigCode(err))
}

// A template compiled against a layout missing a referenced actuator must
// fail with a configuration error and produce zero events.
func TestCompile_Premade_LayoutMismatch(t *testing.T) {
	small, err := haptic.NewLayout([]haptic.Actuator{
		{ID: 0, Position: haptic.Point{X: 0, Y: 0}},
		{ID: 1, Position: haptic.Point{X: 40, Y: 0}},
	})
	require.NoError(t, err)

	c, err := New(small, testParams)
	require.NoError(t, err)

	res, err := c.Compile(PremadeSource{Name: "Trio Burst"})
	require.Error(t, err)
	assert.Equal(t, haptic.ErrCodeUnknownActuator, haptic.ConfigCode(err))
	assert.Empty(t, res.Events, "failed compile yields zero events")
}

func TestCompile_BackRing_Order(t *testing.T) {
	c := newCompiler(t)

	res, err := c.Compile(PremadeSource{Name: "Back Ring"})
	require.NoError(t, err)
	require.Len(t, res.Events, 8)

	wantOrder := []int{0, 1, 2, 5, 8, 7, 6, 3}
	for i, e := range res.Events {
		assert.Equal(t, wantOrder[i], e.ActuatorID, "perimeter position %d", i)
		assert.Equal(t, int64(i)*60, e.StartMs)
	}
}

func TestCompile_PulseTrain_AllEight(t *testing.T) {
	c := newCompiler(t)

	res, err := c.Compile(PremadeSource{Name: "Pulse Train (8-act)"})
	require.NoError(t, err)
	assert.Len(t, res.Events, 32, "4 pulses x 8 actuators")

	perPulse := map[int64]int{}
	for _, e := range res.Events {
		perPulse[e.StartMs]++
	}
	for start, n := range perPulse {
		assert.Equal(t, 8, n, "pulse at %dms", start)
	}
}
