package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/wiring"
)

// RepoRoot returns the directory holding go.mod, searching upward from the
// working directory of the running test.
func RepoRoot(t testing.TB) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found above %s", dir)
		}
		dir = parent
	}
}

// WiringPath returns the path of testdata/wiring/<name>.
func WiringPath(t testing.TB, name string) string {
	t.Helper()
	return filepath.Join(RepoRoot(t), "testdata", "wiring", name)
}

// Wiring loads testdata/wiring/<name>, failing the test on error. Every
// call returns a freshly built network.
func Wiring(t testing.TB, name string) *circuit.Network {
	t.Helper()
	n, err := wiring.Load(WiringPath(t, name))
	if err != nil {
		t.Fatalf("load wiring %s: %v", name, err)
	}
	return n
}

// Parse builds a network from inline wiring text, failing the test on error.
func Parse(t testing.TB, text string) *circuit.Network {
	t.Helper()
	n, err := wiring.ParseString(text)
	if err != nil {
		t.Fatalf("parse wiring: %v", err)
	}
	return n
}
