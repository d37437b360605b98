package cmd

import (
	"errors"
	"fmt"
	"testing"

	"anvil/internal/bootstrap"
	"anvil/internal/frontend"
	"anvil/internal/script"

	"github.com/stretchr/testify/assert"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "configuration error",
			err:  &bootstrap.ConfigurationError{Err: errors.New("both name and sname")},
			want: ExitCodeConfiguration,
		},
		{
			name: "wrapped configuration error",
			err:  fmt.Errorf("bootstrap: %w", &bootstrap.ConfigurationError{Err: errors.New("bad apps")}),
			want: ExitCodeConfiguration,
		},
		{
			name: "takeover error",
			err:  &frontend.TakeoverError{Step: "await-registration", Err: errors.New("timeout")},
			want: ExitCodeTakeover,
		},
		{
			name: "script error",
			err:  &script.Error{Path: "setup.bundle", Stage: script.StageInvoke, Err: errors.New("boom")},
			want: ExitCodeScript,
		},
		{
			name: "generic error",
			err:  errors.New("something else"),
			want: ExitCodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestShellCommandRegistered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"shell"})
	assert.NoError(t, err)
	assert.Equal(t, "shell", cmd.Use)
}
