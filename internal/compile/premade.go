package compile

import (
	"sort"

	"github.com/hapticlab/tacton/internal/haptic"
)

// Template is a fixed pre-made pattern: a parameterized generator that
// emits a deterministic event sequence for the current global parameters
// and connected layout. Templates address actuators by fixed IDs; a layout
// missing any referenced ID fails the whole generation with a configuration
// error rather than emitting a thinner pattern.
type Template struct {
	// Name is the display name ("Trio Burst").
	Name string

	// ActuatorIDs lists every ID the template drives.
	ActuatorIDs []int

	// Generate emits the event sequence. Called only after the layout is
	// known to contain every ID in ActuatorIDs.
	Generate func(layout *haptic.Layout, params haptic.GlobalParams) ([]haptic.ActuatorEvent, error)
}

// Step timing shared by the builtin templates: bursts of stepMs with a
// matching gap, safely inside the motion-continuity ceiling.
const (
	stepMs   = 60
	periodMs = 120
)

// templates is the builtin registry, keyed by canonical name.
var templates = map[string]Template{}

func register(t Template) {
	gen := t.Generate
	ids := t.ActuatorIDs
	t.Generate = func(layout *haptic.Layout, params haptic.GlobalParams) ([]haptic.ActuatorEvent, error) {
		for _, id := range ids {
			if !layout.Contains(id) {
				return nil, haptic.NewUnknownActuatorError(id)
			}
		}
		return gen(layout, params)
	}
	templates[haptic.CanonicalName(t.Name)] = t
}

// LookupTemplate finds a builtin template by name. Lookup is
// case-insensitive and Unicode-normalized.
func LookupTemplate(name string) (Template, bool) {
	t, ok := templates[haptic.CanonicalName(name)]
	return t, ok
}

// TemplateNames returns the builtin template display names, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// burst builds one template event.
func burst(startMs int64, id int, params haptic.GlobalParams) haptic.ActuatorEvent {
	return haptic.ActuatorEvent{
		StartMs:       startMs,
		DurationMs:    stepMs,
		ActuatorID:    id,
		Intensity:     params.Intensity,
		FrequencyCode: params.FrequencyCode,
	}
}

func init() {
	// Trio Burst: actuators 0..2 fire together, three times.
	register(Template{
		Name:        "Trio Burst",
		ActuatorIDs: []int{0, 1, 2},
		Generate: func(_ *haptic.Layout, params haptic.GlobalParams) ([]haptic.ActuatorEvent, error) {
			var events []haptic.ActuatorEvent
			for rep := int64(0); rep < 3; rep++ {
				for _, id := range []int{0, 1, 2} {
					events = append(events, burst(rep*periodMs, id, params))
				}
			}
			return events, nil
		},
	})

	// 3x3 Sweep: row-major walk across a nine-actuator grid.
	register(Template{
		Name:        "3x3 Sweep",
		ActuatorIDs: []int{0, 1, 2, 3, 4, 5, 6, 7, 8},
		Generate: func(_ *haptic.Layout, params haptic.GlobalParams) ([]haptic.ActuatorEvent, error) {
			var events []haptic.ActuatorEvent
			for i := 0; i < 9; i++ {
				events = append(events, burst(int64(i)*stepMs, i, params))
			}
			return events, nil
		},
	})

	// Back Ring: clockwise ring around the 3x3 back grid's perimeter.
	register(Template{
		Name:        "Back Ring",
		ActuatorIDs: []int{0, 1, 2, 3, 5, 6, 7, 8},
		Generate: func(_ *haptic.Layout, params haptic.GlobalParams) ([]haptic.ActuatorEvent, error) {
			ring := []int{0, 1, 2, 5, 8, 7, 6, 3}
			var events []haptic.ActuatorEvent
			for i, id := range ring {
				events = append(events, burst(int64(i)*stepMs, id, params))
			}
			return events, nil
		},
	})

	// Pulse Train (8-act): four synchronized pulses across eight actuators.
	register(Template{
		Name:        "Pulse Train (8-act)",
		ActuatorIDs: []int{0, 1, 2, 3, 4, 5, 6, 7},
		Generate: func(_ *haptic.Layout, params haptic.GlobalParams) ([]haptic.ActuatorEvent, error) {
			var events []haptic.ActuatorEvent
			for pulse := int64(0); pulse < 4; pulse++ {
				for id := 0; id < 8; id++ {
					events = append(events, burst(pulse*periodMs, id, params))
				}
			}
			return events, nil
		},
	})
}
