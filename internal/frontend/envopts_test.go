package frontend

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvOptions(t *testing.T) {
	t.Setenv("ANVIL_SHELL_HISTORY", "/tmp/hist")
	t.Setenv("ANVIL_SHELL_PROMPT", "forge")
	t.Setenv("NO_COLOR", "1")

	opts, err := ParseEnvOptions()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/hist", opts.HistoryFile)
	assert.Equal(t, "forge", opts.Prompt)
	assert.True(t, opts.NoColor)
}

func TestParseEnvOptionsDefaults(t *testing.T) {
	// t.Setenv registers the restore; unsetting afterwards exercises the
	// true defaults.
	t.Setenv("ANVIL_SHELL_HISTORY", "x")
	t.Setenv("ANVIL_SHELL_PROMPT", "x")
	os.Unsetenv("ANVIL_SHELL_HISTORY")
	os.Unsetenv("ANVIL_SHELL_PROMPT")

	opts, err := ParseEnvOptions()
	require.NoError(t, err)
	assert.Equal(t, "anvil", opts.Prompt)
	assert.NotEmpty(t, opts.HistoryFile, "history defaults under the home directory")
}
