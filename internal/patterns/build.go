package patterns

import (
	"fmt"

	"github.com/hapticlab/tacton/internal/compile"
	"github.com/hapticlab/tacton/internal/haptic"
	"github.com/hapticlab/tacton/internal/phantom"
	"github.com/hapticlab/tacton/internal/stroke"
	"github.com/hapticlab/tacton/internal/wave"
)

// checkWaveform rejects references to waveforms the bank does not ship.
// Empty refs are fine; events without a waveform play as plain bursts.
func checkWaveform(ref string) error {
	if ref == "" || wave.IsBuiltin(haptic.WaveformRef(ref)) {
		return nil
	}
	return haptic.NewBadPatternDefError(fmt.Sprintf("unknown waveform %q", ref))
}

// BuildLayout converts the document's layout section. Documents without a
// layout return a BAD_PATTERN_DEF error; callers that carry their own
// layout should check HasLayout first.
func (d *Document) BuildLayout() (*haptic.Layout, error) {
	if d.Layout == nil {
		return nil, haptic.NewBadPatternDefError("document has no layout section")
	}
	acts := make([]haptic.Actuator, 0, len(d.Layout.Actuators))
	for _, a := range d.Layout.Actuators {
		acts = append(acts, haptic.Actuator{
			ID:         a.ID,
			Position:   haptic.Point{X: a.X, Y: a.Y},
			ChainGroup: a.ChainGroup,
		})
	}
	return haptic.NewLayout(acts)
}

// HasLayout reports whether the document carries its own layout section.
func (d *Document) HasLayout() bool {
	return d.Layout != nil
}

// MergeParams overlays the document's parameter overrides onto base.
func (d *Document) MergeParams(base haptic.GlobalParams) haptic.GlobalParams {
	if d.Params == nil {
		return base
	}
	if d.Params.Intensity != nil {
		base.Intensity = *d.Params.Intensity
	}
	if d.Params.FrequencyCode != nil {
		base.FrequencyCode = *d.Params.FrequencyCode
	}
	return base
}

// BuildSource converts the pattern section into a compile source. params
// should already be merged via MergeParams; stroke sources get their
// intensity and frequency stamped from it.
func (d *Document) BuildSource(params haptic.GlobalParams) (compile.Source, error) {
	switch d.Pattern.Type {
	case "stroke":
		return d.buildStroke(params)
	case "clips":
		return d.buildClips()
	case "premade":
		return compile.PremadeSource{Name: d.Pattern.Premade}, nil
	default:
		return nil, haptic.NewBadPatternDefError(fmt.Sprintf("unknown pattern type %q", d.Pattern.Type))
	}
}

func (d *Document) buildStroke(params haptic.GlobalParams) (compile.Source, error) {
	def := d.Pattern.Stroke
	if def == nil {
		return nil, haptic.NewBadPatternDefError("stroke pattern without stroke section")
	}

	mode, err := phantom.ParseMode(def.Mode)
	if err != nil {
		return nil, haptic.NewBadPatternDefError(fmt.Sprintf("stroke mode: %v", err))
	}
	if err := checkWaveform(def.Waveform); err != nil {
		return nil, err
	}

	traj := make([]haptic.TrajectoryPoint, 0, len(def.Trajectory))
	for _, p := range def.Trajectory {
		traj = append(traj, haptic.TrajectoryPoint{TimestampMs: p.TMs, X: p.X, Y: p.Y})
	}

	return compile.StrokeSource{
		Trajectory: traj,
		Params: stroke.Params{
			MaxPhantoms:        def.MaxPhantoms,
			SamplingIntervalMs: def.SamplingIntervalMs,
			StepDurationMs:     def.StepDurationMs,
			Intensity:          params.Intensity,
			FrequencyCode:      params.FrequencyCode,
			Mode:               mode,
			Waveform:           haptic.WaveformRef(def.Waveform),
		},
	}, nil
}

func (d *Document) buildClips() (compile.Source, error) {
	clips := make([]haptic.Clip, 0, len(d.Pattern.Clips))
	for _, c := range d.Pattern.Clips {
		if err := checkWaveform(c.Waveform); err != nil {
			return nil, err
		}
		clips = append(clips, haptic.Clip{
			ActuatorID: c.ActuatorID,
			Waveform:   haptic.WaveformRef(c.Waveform),
			StartMs:    c.StartMs,
			StopMs:     c.StopMs,
		})
	}
	return compile.ClipSetSource{Clips: clips}, nil
}
