// Package ir provides the value types shared by every pulsenet package.
//
// This package contains type definitions and canonical encodings only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Levels form a closed set: Low and High, nothing else
//   - Module identity is a dense ModuleID assigned once at build time
//   - Pulses are ordered by a logical seq, never by wall-clock time
//   - Digests are SHA-256 over RFC 8785 canonical JSON
package ir
