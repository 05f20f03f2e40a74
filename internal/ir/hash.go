package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed digests.
// Version suffix enables future algorithm migration.
const (
	DomainWiring = "pulsenet/wiring/v1"
	DomainRun    = "pulsenet/run/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// WiringHash identifies a wiring description by its exact text.
func WiringHash(text string) string {
	return hashWithDomain(DomainWiring, []byte(text))
}

// RunDigest computes the digest of a run summary. Two runs over the same
// wiring with the same press count must produce the same digest.
func RunDigest(summary map[string]any) (string, error) {
	canonical, err := MarshalCanonical(summary)
	if err != nil {
		return "", fmt.Errorf("RunDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}

// MustRunDigest is like RunDigest but panics on error.
// Use only in tests or when the summary is known to be valid.
func MustRunDigest(summary map[string]any) string {
	d, err := RunDigest(summary)
	if err != nil {
		panic(err)
	}
	return d
}
