package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDigestDeterminism(t *testing.T) {
	summary := map[string]any{
		"presses": 1000,
		"low":     int64(8000),
		"high":    int64(4000),
		"state":   map[string]string{"a": "off", "inv": "a=high"},
	}

	d1, err := RunDigest(summary)
	require.NoError(t, err)
	d2, err := RunDigest(summary)
	require.NoError(t, err)

	assert.Equal(t, d1, d2, "RunDigest must be deterministic")
	assert.Len(t, d1, 64, "SHA-256 hex is 64 characters")
}

func TestRunDigestChangesWithInput(t *testing.T) {
	d1 := MustRunDigest(map[string]any{"presses": 1, "low": 8})
	d2 := MustRunDigest(map[string]any{"presses": 2, "low": 8})
	d3 := MustRunDigest(map[string]any{"presses": 1, "low": 9})

	assert.NotEqual(t, d1, d2)
	assert.NotEqual(t, d1, d3)
}

func TestRunDigestRejectsFloats(t *testing.T) {
	_, err := RunDigest(map[string]any{"ratio": 0.5})
	assert.Error(t, err)
	assert.Panics(t, func() { MustRunDigest(map[string]any{"ratio": 0.5}) })
}

func TestDomainSeparation(t *testing.T) {
	// Same payload under different domains must not collide.
	data := []byte(`{"a":1}`)
	assert.NotEqual(t, hashWithDomain(DomainWiring, data), hashWithDomain(DomainRun, data))
}

func TestWiringHash(t *testing.T) {
	a := WiringHash("broadcaster -> a\n%a -> b\n")
	b := WiringHash("broadcaster -> a\n%a -> c\n")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, WiringHash("broadcaster -> a\n%a -> b\n"))
}
