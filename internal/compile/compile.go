// Package compile is the top-level facade over the pattern pipeline. It
// accepts one of three authoring inputs (a drawn stroke, a timeline clip
// set, or a pre-made template) and produces the uniform intermediate
// representation playback consumes: an ordered ActuatorEvent stream.
//
// Sources are a closed tagged variant with one compilation path per tag,
// unified at the event-stream boundary. Adding a pattern kind means adding
// one Source type and one case below; nothing downstream changes.
package compile

import (
	"github.com/hapticlab/tacton/internal/haptic"
	"github.com/hapticlab/tacton/internal/schedule"
	"github.com/hapticlab/tacton/internal/stroke"
)

// Source is an authoring input the compiler can lower to events. The
// interface is sealed: exactly StrokeSource, ClipSetSource, and
// PremadeSource implement it.
type Source interface {
	sourceKind() string
}

// StrokeSource compiles a freehand trajectory through the resampler.
// Intensity and frequency in Params are overwritten from the compiler's
// global parameters so authoring UI state cannot leak in implicitly.
type StrokeSource struct {
	Trajectory []haptic.TrajectoryPoint
	Params     stroke.Params
}

func (StrokeSource) sourceKind() string { return "stroke" }

// ClipSetSource compiles timeline clips through the scheduler.
type ClipSetSource struct {
	Clips []haptic.Clip
}

func (ClipSetSource) sourceKind() string { return "clipset" }

// PremadeSource compiles a named pre-made template.
type PremadeSource struct {
	Name string
}

func (PremadeSource) sourceKind() string { return "premade" }

// Result is a compiled event stream plus the non-fatal reports accumulated
// along the way.
type Result struct {
	Events []haptic.ActuatorEvent

	// Rendered is the resample point count for stroke sources (the
	// authoring UI's "Rendered" display), zero otherwise.
	Rendered int

	// Truncated is set when a stroke hit its phantom budget.
	Truncated bool

	// Degraded is set when phantom resolution fell back to nearest-1.
	Degraded bool

	// Conflicts lists clip overlaps resolved by the scheduler.
	Conflicts []schedule.Conflict
}

// Compiler lowers sources against one layout and one set of global
// parameters. Both are fixed at construction: layout changes require a new
// compiler (and a stopped session).
type Compiler struct {
	layout *haptic.Layout
	params haptic.GlobalParams
}

// New creates a Compiler. The layout must be non-empty and the parameters
// in range.
func New(layout *haptic.Layout, params haptic.GlobalParams) (*Compiler, error) {
	if layout == nil || layout.Len() == 0 {
		return nil, haptic.NewEmptyLayoutError()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Compiler{layout: layout, params: params}, nil
}

// Compile lowers one source to an ordered event stream. Every produced
// event is validated against the layout before hand-off; a compile error
// yields zero events, never a partial stream.
func (c *Compiler) Compile(src Source) (Result, error) {
	var (
		res Result
		err error
	)

	switch s := src.(type) {
	case StrokeSource:
		res, err = c.compileStroke(s)
	case ClipSetSource:
		res, err = c.compileClipSet(s)
	case PremadeSource:
		res, err = c.compilePremade(s)
	default:
		return Result{}, haptic.NewInvalidParamsError("source", "unknown source kind")
	}
	if err != nil {
		return Result{}, err
	}

	for _, e := range res.Events {
		if err := e.Validate(); err != nil {
			return Result{}, err
		}
	}
	if err := c.layout.ValidateEvents(res.Events); err != nil {
		return Result{}, err
	}

	haptic.SortEvents(res.Events)
	return res, nil
}

func (c *Compiler) compileStroke(s StrokeSource) (Result, error) {
	params := s.Params
	params.Intensity = c.params.Intensity
	params.FrequencyCode = c.params.FrequencyCode

	out, err := stroke.Resample(s.Trajectory, c.layout, params)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Events:    out.Events,
		Rendered:  out.Rendered,
		Truncated: out.Truncated,
		Degraded:  out.Degraded,
	}, nil
}

func (c *Compiler) compileClipSet(s ClipSetSource) (Result, error) {
	out, err := schedule.Schedule(s.Clips, c.params)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Events:    out.Events,
		Conflicts: out.Conflicts,
	}, nil
}

func (c *Compiler) compilePremade(s PremadeSource) (Result, error) {
	tmpl, ok := LookupTemplate(s.Name)
	if !ok {
		return Result{}, &haptic.ConfigError{
			Code:    haptic.ErrCodeBadPatternDef,
			Message: "unknown pre-made pattern " + s.Name,
		}
	}

	events, err := tmpl.Generate(c.layout, c.params)
	if err != nil {
		return Result{}, err
	}
	return Result{Events: events}, nil
}
