package wiring

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/ir"
)

const arrow = "->"

// declaration is one parsed line, before ids exist.
type declaration struct {
	line  int
	text  string
	kind  circuit.Kind
	name  string
	dests []string
}

// Load reads and builds the wiring file at path.
func Load(path string) (*circuit.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open wiring %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// ParseString builds a network from wiring text.
func ParseString(text string) (*circuit.Network, error) {
	return Parse(strings.NewReader(text))
}

// Parse builds a network from wiring text read from r.
// The first malformed line aborts the build; no partial network is returned.
func Parse(r io.Reader) (*circuit.Network, error) {
	decls, err := scan(r)
	if err != nil {
		return nil, err
	}
	n, err := build(decls)
	if err != nil {
		return nil, err
	}
	slog.Debug("wiring parsed",
		"declarations", len(decls),
		"flip_flops", n.Count(circuit.KindFlipFlop),
		"conjunctions", n.Count(circuit.KindConjunction),
		"sinks", n.Count(circuit.KindSink))
	return n, nil
}

// scan is the first pass: one declaration per non-blank, non-comment line.
func scan(r io.Reader) ([]declaration, error) {
	var decls []declaration
	seen := make(map[string]int)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		d, err := parseLine(lineNo, text)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[d.name]; dup {
			return nil, malformed(lineNo, text, "module %q already declared at line %d", d.name, prev)
		}
		seen[d.name] = lineNo
		decls = append(decls, d)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read wiring")
	}

	if _, ok := seen[circuit.BroadcasterName]; !ok {
		return nil, &MalformedWiringError{Reason: "no " + circuit.BroadcasterName + " declared"}
	}
	return decls, nil
}

func parseLine(lineNo int, text string) (declaration, error) {
	head, tail, ok := strings.Cut(text, arrow)
	if !ok {
		return declaration{}, malformed(lineNo, text, "missing %q", arrow)
	}

	d := declaration{line: lineNo, text: text}
	spec := strings.TrimSpace(head)
	switch {
	case spec == circuit.BroadcasterName:
		d.kind, d.name = circuit.KindBroadcaster, spec
	case spec == "":
		return declaration{}, malformed(lineNo, text, "empty module name")
	case spec[0] == circuit.FlipFlopPrefix:
		d.kind, d.name = circuit.KindFlipFlop, spec[1:]
	case spec[0] == circuit.ConjunctionPrefix:
		d.kind, d.name = circuit.KindConjunction, spec[1:]
	default:
		return declaration{}, malformed(lineNo, text, "module %q has no kind prefix (%c or %c)",
			spec, circuit.FlipFlopPrefix, circuit.ConjunctionPrefix)
	}

	if d.kind != circuit.KindBroadcaster {
		if err := checkName(d.name); err != nil {
			return declaration{}, malformed(lineNo, text, "%s", err)
		}
		if d.name == circuit.BroadcasterName {
			return declaration{}, malformed(lineNo, text, "%q is reserved for the broadcaster", d.name)
		}
	}

	tail = strings.TrimSpace(tail)
	if tail == "" {
		return declaration{}, malformed(lineNo, text, "empty destination list")
	}
	for _, dest := range strings.Split(tail, ",") {
		dest = strings.TrimSpace(dest)
		if err := checkName(dest); err != nil {
			return declaration{}, malformed(lineNo, text, "destination: %s", err)
		}
		d.dests = append(d.dests, dest)
	}
	return d, nil
}

func checkName(name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	if name == circuit.ButtonName {
		return errors.Errorf("%q is reserved", name)
	}
	for _, r := range name {
		if unicode.IsSpace(r) || r == ',' {
			return errors.Errorf("invalid character %q in %q", r, name)
		}
	}
	return nil
}

// build is the second pass: ids, destination resolution and conjunction
// input sets from the reverse edges.
func build(decls []declaration) (*circuit.Network, error) {
	ids := make(map[string]ir.ModuleID, len(decls)+1)
	for i, d := range decls {
		ids[d.name] = ir.ModuleID(i)
	}
	button := ir.ModuleID(len(decls))
	ids[circuit.ButtonName] = button

	// Undeclared destinations get sink ids in first-reference order.
	var sinks []string
	resolve := func(name string) ir.ModuleID {
		if id, ok := ids[name]; ok {
			return id
		}
		id := ir.ModuleID(len(decls) + 1 + len(sinks))
		ids[name] = id
		sinks = append(sinks, name)
		return id
	}

	outputs := make([][]ir.ModuleID, len(decls))
	inputs := make(map[ir.ModuleID][]ir.ModuleID)
	for i, d := range decls {
		from := ir.ModuleID(i)
		outputs[i] = make([]ir.ModuleID, len(d.dests))
		for j, name := range d.dests {
			to := resolve(name)
			outputs[i][j] = to
			inputs[to] = append(inputs[to], from)
		}
	}

	modules := make([]circuit.Module, 0, len(decls)+1+len(sinks))
	for i, d := range decls {
		id := ir.ModuleID(i)
		switch d.kind {
		case circuit.KindBroadcaster:
			modules = append(modules, circuit.NewBroadcaster(id, d.name, outputs[i]))
		case circuit.KindFlipFlop:
			modules = append(modules, circuit.NewFlipFlop(id, d.name, outputs[i]))
		case circuit.KindConjunction:
			modules = append(modules, circuit.NewConjunction(id, d.name, outputs[i], inputs[id]))
		}
	}
	modules = append(modules, circuit.NewSource(button, circuit.ButtonName, ids[circuit.BroadcasterName]))
	for i, name := range sinks {
		modules = append(modules, circuit.NewSink(ir.ModuleID(len(decls)+1+i), name))
	}

	n, err := circuit.NewNetwork(modules)
	if err != nil {
		return nil, errors.Wrap(err, "build network")
	}
	return n, nil
}
