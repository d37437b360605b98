package script

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBundle builds a zip bundle in dir with the given entries and returns
// its path.
func writeBundle(t *testing.T, dir string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, "setup.bundle")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

type envCapture struct {
	component string
	key       string
	value     any
}

func newRunner(captured *[]envCapture) *Runner {
	return NewRunner(&LuaLoader{Hooks: Hooks{
		SetEnv: func(component, key string, value any) {
			*captured = append(*captured, envCapture{component, key, value})
		},
	}})
}

func TestRunInvokesEntryPoint(t *testing.T) {
	var captured []envCapture
	path := writeBundle(t, t.TempDir(), map[string]string{
		"main.lua": `
function main()
  anvil.set_env("myapp", "prepared", true)
end
`,
	})

	require.NoError(t, newRunner(&captured).Run(path))
	require.Len(t, captured, 1)
	assert.Equal(t, "myapp", captured[0].component)
	assert.Equal(t, "prepared", captured[0].key)
	assert.Equal(t, true, captured[0].value)
}

func TestRunHonorsManifest(t *testing.T) {
	var captured []envCapture
	path := writeBundle(t, t.TempDir(), map[string]string{
		"manifest.yaml": "main: setup.lua\nentry: prepare\n",
		"setup.lua": `
function prepare()
  anvil.set_env("db", "pool_size", 8)
end
`,
	})

	require.NoError(t, newRunner(&captured).Run(path))
	require.Len(t, captured, 1)
	assert.Equal(t, "db", captured[0].component)
	assert.Equal(t, float64(8), captured[0].value)
}

func TestRunFailureStages(t *testing.T) {
	dir := t.TempDir()
	var captured []envCapture

	tests := []struct {
		name      string
		path      string
		wantStage Stage
	}{
		{
			name:      "missing bundle",
			path:      filepath.Join(dir, "nope.bundle"),
			wantStage: StageExtract,
		},
		{
			name: "missing chunk",
			path: writeBundle(t, t.TempDir(), map[string]string{
				"other.lua": "",
			}),
			wantStage: StageExtract,
		},
		{
			name: "syntax error",
			path: writeBundle(t, t.TempDir(), map[string]string{
				"main.lua": "function main( broken",
			}),
			wantStage: StageLoad,
		},
		{
			name: "missing entry point",
			path: writeBundle(t, t.TempDir(), map[string]string{
				"main.lua": "x = 1",
			}),
			wantStage: StageInvoke,
		},
		{
			name: "entry point raises",
			path: writeBundle(t, t.TempDir(), map[string]string{
				"main.lua": `
function main()
  error("setup failed")
end
`,
			}),
			wantStage: StageInvoke,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newRunner(&captured).Run(tt.path)
			require.Error(t, err)

			var scriptErr *Error
			require.ErrorAs(t, err, &scriptErr)
			assert.Equal(t, tt.wantStage, scriptErr.Stage)
			assert.NotEmpty(t, scriptErr.Path)
			assert.NotEmpty(t, scriptErr.Stack, "fatal script errors carry a stack trace")
		})
	}
}
