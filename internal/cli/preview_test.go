package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewCommand_PlaysToCompletion(t *testing.T) {
	path := writePattern(t, premadePatternYAML)

	out, _, err := execute(t, "preview", path)
	require.NoError(t, err)
	assert.Contains(t, out, "actuator")
	assert.Contains(t, out, "done:")
}

func TestPreviewCommand_InvalidPattern(t *testing.T) {
	path := writePattern(t, "version: 1\npattern:\n  type: spiral\n")

	_, _, err := execute(t, "preview", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
