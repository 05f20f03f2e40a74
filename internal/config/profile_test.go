package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyUsesDefaults(t *testing.T) {
	p, err := Parse(nil, "empty.cue")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
	assert.Equal(t, 1000, p.Presses)
	assert.Equal(t, "fifo", p.Discipline)
	assert.Equal(t, 0, p.MaxPulses)
	assert.Empty(t, p.Wiring)
}

func TestParse_AllFields(t *testing.T) {
	src := `
presses:    250
discipline: "lifo"
max_pulses: 10000
wiring:     "race.txt"
`
	p, err := Parse([]byte(src), "race.cue")
	require.NoError(t, err)
	assert.Equal(t, Profile{
		Presses:    250,
		Discipline: "lifo",
		MaxPulses:  10000,
		Wiring:     "race.txt",
	}, p)
}

func TestParse_ZeroPresses(t *testing.T) {
	p, err := Parse([]byte("presses: 0\n"), "zero.cue")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Presses)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"negative presses", "presses: -1\n", "presses"},
		{"unknown discipline", "discipline: \"random\"\n", "discipline"},
		{"string presses", "presses: \"many\"\n", "presses"},
		{"unknown field", "colour: \"red\"\n", "colour"},
		{"empty wiring", "wiring: \"\"\n", "wiring"},
		{"syntax error", "presses: {\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.cue")
			require.Error(t, err)
			assert.True(t, IsConfigError(err), "got %T: %v", err, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestConfigError_Format(t *testing.T) {
	err := &ConfigError{Field: "presses", Message: "out of range"}
	assert.Equal(t, "presses: out of range", err.Error())
}

func TestLoad_ResolvesWiringRelativeToProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.cue")
	require.NoError(t, os.WriteFile(path, []byte(`wiring: "nets/example1.txt"`+"\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nets", "example1.txt"), p.Wiring)
	assert.Equal(t, 1000, p.Presses)
}

func TestLoad_AbsoluteWiringKept(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "elsewhere", "w.txt")
	path := filepath.Join(dir, "run.cue")
	require.NoError(t, os.WriteFile(path, []byte("wiring: \""+filepath.ToSlash(abs)+"\"\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(abs), p.Wiring)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.False(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "read profile")
}

func TestLoad_Fixture(t *testing.T) {
	p, err := Load(filepath.Join("..", "..", "testdata", "profiles", "race-lifo.cue"))
	require.NoError(t, err)
	assert.Equal(t, "lifo", p.Discipline)
	assert.Equal(t, 1000, p.Presses)
	assert.Equal(t, filepath.Join("..", "..", "testdata", "profiles", "..", "wiring", "race.txt"), p.Wiring)
}

func TestProfile_EngineOptions(t *testing.T) {
	opts, err := Profile{Discipline: "lifo", MaxPulses: 5}.EngineOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	_, err = Profile{Discipline: "stack"}.EngineOptions()
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}
