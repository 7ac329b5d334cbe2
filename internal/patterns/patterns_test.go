package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapticlab/tacton/internal/compile"
	"github.com/hapticlab/tacton/internal/haptic"
	"github.com/hapticlab/tacton/internal/phantom"
)

const strokeDoc = `
version: 1
layout:
  actuators:
    - {id: 0, x: 0, y: 0, chain_group: row0}
    - {id: 1, x: 40, y: 0, chain_group: row0}
    - {id: 2, x: 0, y: 40, chain_group: row1}
params:
  intensity: 0.75
  frequency_code: 5
pattern:
  name: diagonal sweep
  type: stroke
  stroke:
    sampling_interval_ms: 60
    step_duration_ms: 60
    max_phantoms: 24
    mode: phantom3
    waveform: sine
    trajectory:
      - {t_ms: 0, x: 0, y: 0}
      - {t_ms: 150, x: 20, y: 20}
      - {t_ms: 300, x: 40, y: 0}
`

func TestParse_StrokeDocument(t *testing.T) {
	doc, errs := Parse("stroke.yaml", []byte(strokeDoc))
	require.Empty(t, errs)

	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, "diagonal sweep", doc.Pattern.Name)
	require.True(t, doc.HasLayout())

	layout, err := doc.BuildLayout()
	require.NoError(t, err)
	assert.Equal(t, 3, layout.Len())

	params := doc.MergeParams(haptic.GlobalParams{Intensity: 0.3, FrequencyCode: 1})
	assert.Equal(t, 0.75, params.Intensity)
	assert.Equal(t, 5, params.FrequencyCode)

	src, err := doc.BuildSource(params)
	require.NoError(t, err)

	strokeSrc, ok := src.(compile.StrokeSource)
	require.True(t, ok)
	assert.Len(t, strokeSrc.Trajectory, 3)
	assert.Equal(t, int64(150), strokeSrc.Trajectory[1].TimestampMs)
	assert.Equal(t, phantom.Phantom3, strokeSrc.Params.Mode)
	assert.Equal(t, 0.75, strokeSrc.Params.Intensity)
	assert.Equal(t, haptic.WaveformRef("sine"), strokeSrc.Params.Waveform)
}

func TestParse_ClipsDocument(t *testing.T) {
	doc, errs := Parse("clips.yaml", []byte(`
version: 1
pattern:
  type: clips
  clips:
    - {actuator_id: 0, start_ms: 0, stop_ms: 100}
    - {actuator_id: 1, start_ms: 50, stop_ms: 150, waveform: square}
`))
	require.Empty(t, errs)

	src, err := doc.BuildSource(haptic.GlobalParams{Intensity: 1, FrequencyCode: 0})
	require.NoError(t, err)

	clipSrc, ok := src.(compile.ClipSetSource)
	require.True(t, ok)
	require.Len(t, clipSrc.Clips, 2)
	assert.Equal(t, haptic.WaveformRef("square"), clipSrc.Clips[1].Waveform)
	assert.Equal(t, int64(150), clipSrc.Clips[1].StopMs)
}

func TestBuildSource_RejectsUnknownWaveform(t *testing.T) {
	doc, errs := Parse("clips.yaml", []byte(`
version: 1
pattern:
  type: clips
  clips:
    - {actuator_id: 0, start_ms: 0, stop_ms: 100, waveform: wobble}
`))
	require.Empty(t, errs)

	_, err := doc.BuildSource(haptic.GlobalParams{Intensity: 1, FrequencyCode: 0})
	assert.Equal(t, haptic.ErrCodeBadPatternDef, haptic.ConfigCode(err))
	assert.Contains(t, err.Error(), "wobble")
}

func TestParse_PremadeDocument(t *testing.T) {
	doc, errs := Parse("premade.yaml", []byte(`
version: 1
pattern:
  type: premade
  premade: Trio Burst
`))
	require.Empty(t, errs)

	src, err := doc.BuildSource(haptic.GlobalParams{Intensity: 1, FrequencyCode: 0})
	require.NoError(t, err)
	assert.Equal(t, compile.PremadeSource{Name: "Trio Burst"}, src)
}

func TestParse_SchemaViolationsCarryPositions(t *testing.T) {
	_, errs := Parse("bad.yaml", []byte(`
version: 1
pattern:
  type: stroke
  stroke:
    sampling_interval_ms: 60
    step_duration_ms: 120
    max_phantoms: 24
    trajectory:
      - {t_ms: 0, x: 0, y: 0}
`))
	require.NotEmpty(t, errs, "step_duration_ms above the ceiling must fail validation")

	var def *DefError
	require.ErrorAs(t, errs[0], &def)
	assert.Equal(t, ErrCodeSchema, def.Code)
}

func TestParse_RejectsSamplingIntervalAboveCeiling(t *testing.T) {
	_, errs := Parse("bad.yaml", []byte(`
version: 1
pattern:
  type: stroke
  stroke:
    sampling_interval_ms: 100
    step_duration_ms: 60
    max_phantoms: 24
    trajectory:
      - {t_ms: 0, x: 0, y: 0}
`))
	require.NotEmpty(t, errs, "a spacing floor above the ceiling must fail validation")

	var def *DefError
	require.ErrorAs(t, errs[0], &def)
	assert.Equal(t, ErrCodeSchema, def.Code)
}

func TestParse_RejectsUnknownPatternType(t *testing.T) {
	_, errs := Parse("bad.yaml", []byte(`
version: 1
pattern:
  type: spiral
`))
	require.NotEmpty(t, errs)
}

func TestParse_TypePayloadMismatch(t *testing.T) {
	_, errs := Parse("bad.yaml", []byte(`
version: 1
pattern:
  type: premade
`))
	require.NotEmpty(t, errs)

	var def *DefError
	require.ErrorAs(t, errs[0], &def)
	assert.Equal(t, ErrCodeBadDef, def.Code)
}

func TestParse_YAMLSyntaxError(t *testing.T) {
	_, errs := Parse("bad.yaml", []byte("pattern: [unclosed"))
	require.NotEmpty(t, errs)

	var def *DefError
	require.ErrorAs(t, errs[0], &def)
	assert.Equal(t, ErrCodeYAMLSyntax, def.Code)
}

func TestLoad_MissingFile(t *testing.T) {
	_, errs := Load("testdata/does-not-exist.yaml")
	require.Len(t, errs, 1)

	var def *DefError
	require.ErrorAs(t, errs[0], &def)
	assert.Equal(t, ErrCodeRead, def.Code)
}

func TestBuildLayout_WithoutSection(t *testing.T) {
	doc, errs := Parse("premade.yaml", []byte(`
version: 1
pattern:
  type: premade
  premade: 3x3 Sweep
`))
	require.Empty(t, errs)
	require.False(t, doc.HasLayout())

	_, err := doc.BuildLayout()
	assert.Equal(t, haptic.ErrCodeBadPatternDef, haptic.ConfigCode(err))
}
