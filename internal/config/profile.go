// Package config loads run profiles written in CUE.
//
// A profile fixes how a wiring is run: press count, queue discipline and the
// per-press pulse limit, optionally naming the wiring file itself. Profiles
// are unified against an embedded schema, so omitted fields take defaults and
// unknown fields are rejected.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/pulsenet/internal/engine"
)

//go:embed schema.cue
var schemaSource string

const schemaFilename = "profile_schema.cue"

// Profile is a decoded run profile.
type Profile struct {
	Presses    int    `json:"presses"`
	Discipline string `json:"discipline"`
	MaxPulses  int    `json:"max_pulses"`
	Wiring     string `json:"wiring,omitempty"`
}

// Default returns the profile an empty file decodes to.
func Default() Profile {
	return Profile{
		Presses:    1000,
		Discipline: engine.FIFO.String(),
	}
}

// Load reads and validates the profile at path. A relative wiring path is
// resolved against the profile's directory.
func Load(path string) (Profile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(src, path)
	if err != nil {
		return Profile{}, err
	}
	if p.Wiring != "" && !filepath.IsAbs(p.Wiring) {
		p.Wiring = filepath.Join(filepath.Dir(path), p.Wiring)
	}
	return p, nil
}

// Parse compiles src, unifies it with the schema and decodes the result.
// filename is used in error positions only.
func Parse(src []byte, filename string) (Profile, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename(schemaFilename))
	if err := schema.Err(); err != nil {
		return Profile{}, fmt.Errorf("compile profile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Profile"))

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Profile{}, formatCUEError(err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Profile{}, formatCUEError(err)
	}

	var p Profile
	if err := unified.Decode(&p); err != nil {
		return Profile{}, formatCUEError(err)
	}
	return p, nil
}

// EngineOptions converts the profile into engine options.
func (p Profile) EngineOptions() ([]engine.Option, error) {
	d, err := engine.ParseDiscipline(p.Discipline)
	if err != nil {
		return nil, &ConfigError{Field: "discipline", Message: err.Error()}
	}
	return []engine.Option{
		engine.WithDiscipline(d),
		engine.WithMaxPulses(p.MaxPulses),
	}, nil
}

// formatCUEError keeps the first CUE error and its source position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ConfigError{Field: "cue", Message: err.Error()}
	}

	first := errs[0]
	ce := &ConfigError{Field: "cue", Message: first.Error()}
	if path := first.Path(); len(path) > 0 {
		ce.Field = path[len(path)-1]
	}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
