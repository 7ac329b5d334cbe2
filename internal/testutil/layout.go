package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hapticlab/tacton/internal/haptic"
)

// GridLayout builds a rows x cols actuator grid with the given pitch in
// millimeters. IDs run row-major from 0, matching the back-display wiring
// used throughout the test suites.
func GridLayout(t *testing.T, rows, cols int, pitchMm float64) *haptic.Layout {
	t.Helper()

	acts := make([]haptic.Actuator, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			acts = append(acts, haptic.Actuator{
				ID:         r*cols + c,
				Position:   haptic.Point{X: float64(c) * pitchMm, Y: float64(r) * pitchMm},
				ChainGroup: fmt.Sprintf("row%d", r),
			})
		}
	}
	layout, err := haptic.NewLayout(acts)
	require.NoError(t, err)
	return layout
}
