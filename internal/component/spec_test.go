package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpecsDelimitedString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Spec
	}{
		{
			name:  "mixed delimiters",
			input: "a,b:c",
			want:  []Spec{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		},
		{
			name:  "spaces and commas",
			input: "web db, cache",
			want:  []Spec{{Name: "web"}, {Name: "db"}, {Name: "cache"}},
		},
		{
			name:  "single component",
			input: "web",
			want:  []Spec{{Name: "web"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs, err := ParseSpecs(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, specs)
		})
	}
}

func TestParseSpecsStringList(t *testing.T) {
	specs, err := ParseSpecs([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []Spec{{Name: "a"}, {Name: "b"}}, specs)
}

func TestParseSpecsStructuredEntries(t *testing.T) {
	specs, err := ParseSpecs([]any{
		"plain",
		[]any{"versioned", "1.2.0"},
		[]any{"loadonly", "2.0.0", "load"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Spec{
		{Name: "plain"},
		{Name: "versioned", Version: "1.2.0"},
		{Name: "loadonly", Version: "2.0.0", LoadOnly: true},
	}, specs)
}

func TestParseSpecsRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "non-string name", input: []any{[]any{42}}},
		{name: "bad marker", input: []any{[]any{"a", "1.0", "start"}}},
		{name: "too many elements", input: []any{[]any{"a", "1.0", "load", "x"}}},
		{name: "unsupported type", input: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSpecs(tt.input)
			assert.Error(t, err)
		})
	}
}
