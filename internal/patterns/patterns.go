// Package patterns loads pattern definition documents: YAML files carrying
// an optional actuator layout, optional parameter overrides, and exactly
// one pattern (stroke, clip set, or pre-made reference). Documents are
// checked against an embedded CUE schema before decoding, so malformed
// input fails with file positions rather than half-decoded structs.
package patterns

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSrc string

// Document is a decoded pattern definition file.
type Document struct {
	Version int        `yaml:"version"`
	Layout  *LayoutDef `yaml:"layout,omitempty"`
	Params  *ParamsDef `yaml:"params,omitempty"`
	Pattern PatternDef `yaml:"pattern"`
}

// LayoutDef is the layout section of a document.
type LayoutDef struct {
	Actuators []ActuatorDef `yaml:"actuators"`
}

// ActuatorDef is one actuator record.
type ActuatorDef struct {
	ID         int     `yaml:"id"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	ChainGroup string  `yaml:"chain_group,omitempty"`
}

// ParamsDef carries optional overrides of the session parameters. Nil
// pointers mean "keep the caller's value".
type ParamsDef struct {
	Intensity     *float64 `yaml:"intensity,omitempty"`
	FrequencyCode *int     `yaml:"frequency_code,omitempty"`
}

// PatternDef is the pattern section. Exactly one of Stroke, Clips or
// Premade is populated, selected by Type.
type PatternDef struct {
	Name    string     `yaml:"name,omitempty"`
	Type    string     `yaml:"type"`
	Stroke  *StrokeDef `yaml:"stroke,omitempty"`
	Clips   []ClipDef  `yaml:"clips,omitempty"`
	Premade string     `yaml:"premade,omitempty"`
}

// StrokeDef is a captured freehand trajectory plus its resampling knobs.
type StrokeDef struct {
	SamplingIntervalMs int64      `yaml:"sampling_interval_ms"`
	StepDurationMs     int64      `yaml:"step_duration_ms"`
	MaxPhantoms        int        `yaml:"max_phantoms"`
	Mode               string     `yaml:"mode,omitempty"`
	Waveform           string     `yaml:"waveform,omitempty"`
	Trajectory         []PointDef `yaml:"trajectory"`
}

// PointDef is one trajectory sample.
type PointDef struct {
	TMs int64   `yaml:"t_ms"`
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
}

// ClipDef is one timeline clip.
type ClipDef struct {
	ActuatorID int    `yaml:"actuator_id"`
	StartMs    int64  `yaml:"start_ms"`
	StopMs     int64  `yaml:"stop_ms"`
	Waveform   string `yaml:"waveform,omitempty"`
}

// Definition error codes.
const (
	ErrCodeRead       = "P001" // file unreadable
	ErrCodeYAMLSyntax = "P002" // YAML does not parse
	ErrCodeSchema     = "P003" // schema violation
	ErrCodeBadDef     = "P004" // structurally valid but semantically wrong
)

// DefError is a pattern definition error, carrying the file position when
// the CUE evaluator knows one.
type DefError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *DefError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads and validates a pattern definition file. On schema failure
// every violation is reported, not just the first.
func Load(path string) (*Document, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&DefError{Code: ErrCodeRead, Message: fmt.Sprintf("reading %s: %v", path, err)}}
	}
	return Parse(path, data)
}

// Parse validates raw document bytes against the embedded schema and
// decodes them. filename is used for error positions only.
func Parse(filename string, data []byte) (*Document, []error) {
	if errs := validateSchema(filename, data); len(errs) > 0 {
		return nil, errs
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, []error{&DefError{Code: ErrCodeYAMLSyntax, Message: fmt.Sprintf("decoding %s: %v", filename, err)}}
	}
	if errs := doc.check(); len(errs) > 0 {
		return nil, errs
	}
	return &doc, nil
}

// validateSchema unifies the YAML document with the embedded CUE schema.
func validateSchema(filename string, data []byte) []error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a build bug.
		panic(fmt.Sprintf("patterns: embedded schema invalid: %v", err))
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return []error{&DefError{Code: ErrCodeYAMLSyntax, Message: err.Error()}}
	}
	docVal := ctx.BuildFile(file)
	if err := docVal.Err(); err != nil {
		return []error{&DefError{Code: ErrCodeYAMLSyntax, Message: err.Error()}}
	}

	unified := schema.Unify(docVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var out []error
		for _, e := range cueerrors.Errors(err) {
			out = append(out, &DefError{
				Code:    ErrCodeSchema,
				Message: e.Error(),
				Pos:     e.Position(),
			})
		}
		return out
	}
	return nil
}

// check enforces the cross-field rules the schema cannot express: the
// pattern's type selects which payload field must be present.
func (d *Document) check() []error {
	var errs []error
	bad := func(msg string) {
		errs = append(errs, &DefError{Code: ErrCodeBadDef, Message: msg})
	}

	switch d.Pattern.Type {
	case "stroke":
		if d.Pattern.Stroke == nil {
			bad(`pattern type "stroke" requires a stroke section`)
		}
	case "clips":
		if len(d.Pattern.Clips) == 0 {
			bad(`pattern type "clips" requires a non-empty clips list`)
		}
	case "premade":
		if d.Pattern.Premade == "" {
			bad(`pattern type "premade" requires a premade template name`)
		}
	default:
		bad(fmt.Sprintf("unknown pattern type %q", d.Pattern.Type))
	}
	return errs
}
