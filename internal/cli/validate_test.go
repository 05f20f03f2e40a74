package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/ir"
)

func TestValidate_Text(t *testing.T) {
	path := filepath.Join(wiringDir, "example2.txt")
	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)

	assert.Equal(t, "✓ "+path+" is valid\n"+
		"  Modules: 6 (1 broadcaster, 2 flip-flop, 2 conjunction, 1 sink)\n"+
		"  Sinks: output\n"+
		"  Conjunction inputs:\n"+
		"    con <- a, b\n"+
		"    inv <- a\n", out)
}

func TestValidate_VerboseShowsHash(t *testing.T) {
	path := filepath.Join(wiringDir, "example1.txt")
	text, err := os.ReadFile(path)
	require.NoError(t, err)

	out, _, err := execute(t, "-v", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "  Hash: "+ir.WiringHash(string(text))+"\n")
	assert.NotContains(t, out, "Sinks:", "example1 has no undeclared destinations")
}

func TestValidate_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "validate", filepath.Join(wiringDir, "race.txt"))
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 5, resp.Data.Modules)
	assert.Equal(t, map[string]int{"broadcaster": 1, "flip-flop": 2, "conjunction": 1, "sink": 1}, resp.Data.Kinds)
	assert.Equal(t, []string{"out"}, resp.Data.Sinks)
	assert.Equal(t, map[string][]string{"c": {"a", "b"}}, resp.Data.Inputs)
	assert.Len(t, resp.Data.Hash, 64)
}

func TestValidate_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.txt")
	require.NoError(t, os.WriteFile(path, []byte("broadcaster -> a\n%a -> b\n&a -> b\n"), 0o644))

	out, _, err := execute(t, "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeMalformed, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "line 3")
}

func TestValidate_MissingFile(t *testing.T) {
	_, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "wiring file not found")
}
