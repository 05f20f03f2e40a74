package wiring

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/ir"
)

const example2 = `broadcaster -> a
%a -> inv, con
&inv -> b
%b -> con
&con -> output
`

func names(n *circuit.Network, ids []ir.ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = n.Name(id)
	}
	return out
}

func TestParse_AssignsIDsInDeclarationOrder(t *testing.T) {
	n, err := ParseString(example2)
	require.NoError(t, err)

	// Declared modules, then the button, then sinks.
	want := []struct {
		name string
		kind circuit.Kind
	}{
		{"broadcaster", circuit.KindBroadcaster},
		{"a", circuit.KindFlipFlop},
		{"inv", circuit.KindConjunction},
		{"b", circuit.KindFlipFlop},
		{"con", circuit.KindConjunction},
		{"button", circuit.KindSource},
		{"output", circuit.KindSink},
	}
	require.Equal(t, len(want), n.Len())
	for i, w := range want {
		m := n.Module(ir.ModuleID(i))
		assert.Equal(t, w.name, m.Name, "module %d", i)
		assert.Equal(t, w.kind, m.Kind, "module %d", i)
	}
	assert.Equal(t, ir.ModuleID(5), n.Button())
	assert.Equal(t, ir.ModuleID(0), n.Broadcaster())
}

func TestParse_ResolvesDestinationsInOrder(t *testing.T) {
	n, err := ParseString(example2)
	require.NoError(t, err)

	a, _ := n.Lookup("a")
	assert.Equal(t, []string{"inv", "con"}, names(n, n.Module(a).Outputs))

	btn := n.Module(n.Button())
	assert.Equal(t, []string{"broadcaster"}, names(n, btn.Outputs))
}

func TestParse_ConjunctionInputsFromReverseEdges(t *testing.T) {
	n, err := ParseString(example2)
	require.NoError(t, err)

	con, _ := n.Lookup("con")
	assert.Equal(t, []string{"a", "b"}, names(n, n.Module(con).Inputs()))

	inv, _ := n.Lookup("inv")
	assert.Equal(t, []string{"a"}, names(n, n.Module(inv).Inputs()))

	for _, id := range n.Module(con).Inputs() {
		l, ok := n.Module(con).Remembered(id)
		require.True(t, ok)
		assert.Equal(t, ir.Low, l)
	}
}

func TestParse_ConjunctionDeclaredBeforeItsInputs(t *testing.T) {
	// The conjunction line comes first; its inputs are only known after the
	// whole text is read.
	n, err := ParseString(`&c -> out
broadcaster -> x, c
%x -> c
%y -> c, c
`)
	require.NoError(t, err)

	c, _ := n.Lookup("c")
	assert.Equal(t, []string{"broadcaster", "x", "y"}, names(n, n.Module(c).Inputs()))
}

func TestParse_SelfLoopAndDuplicates(t *testing.T) {
	n, err := ParseString(`broadcaster -> a, a
%a -> a, s
`)
	require.NoError(t, err)

	b := n.Module(n.Broadcaster())
	assert.Equal(t, []string{"a", "a"}, names(n, b.Outputs))

	a, _ := n.Lookup("a")
	assert.Equal(t, []string{"a", "s"}, names(n, n.Module(a).Outputs))
}

func TestParse_SinksInFirstReferenceOrder(t *testing.T) {
	n, err := ParseString(`broadcaster -> z, a
%a -> y, z
`)
	require.NoError(t, err)

	var sinks []string
	for i := range n.Modules {
		if n.Modules[i].Kind == circuit.KindSink {
			sinks = append(sinks, n.Modules[i].Name)
		}
	}
	assert.Equal(t, []string{"z", "y"}, sinks)
}

func TestParse_CommentsAndBlankLines(t *testing.T) {
	n, err := ParseString(`
# a comment
broadcaster -> a

   %a -> out
`)
	require.NoError(t, err)
	assert.Equal(t, 4, n.Len())
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		line   int
		reason string
	}{
		{"missing arrow", "broadcaster a, b", 1, `missing "->"`},
		{"empty name", " -> a", 1, "empty module name"},
		{"prefix only", "broadcaster -> a\n% -> a", 2, "empty name"},
		{"unknown prefix", "broadcaster -> a\nfoo -> a", 2, "no kind prefix"},
		{"empty destinations", "broadcaster ->", 1, "empty destination list"},
		{"empty destination entry", "broadcaster -> a, , b", 1, "destination: empty name"},
		{"trailing comma", "broadcaster -> a,", 1, "destination: empty name"},
		{"space in destination", "broadcaster -> a b", 1, "invalid character"},
		{"duplicate", "broadcaster -> a\n%a -> b\n&a -> c", 3, `"a" already declared at line 2`},
		{"reserved button", "broadcaster -> a\n%button -> a", 2, `"button" is reserved`},
		{"button as destination", "broadcaster -> button", 1, `"button" is reserved`},
		{"prefixed broadcaster", "broadcaster -> a\n&broadcaster -> a", 2, "reserved for the broadcaster"},
		{"no broadcaster", "%a -> b", 0, "no broadcaster declared"},
		{"empty input", "", 0, "no broadcaster declared"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseString(tt.text)
			require.Error(t, err)
			assert.Nil(t, n, "no partial network")
			assert.True(t, IsMalformedWiring(err))

			var me *MalformedWiringError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tt.line, me.Line)
			assert.Contains(t, me.Reason, tt.reason)
		})
	}
}

func TestMalformedWiringError_Message(t *testing.T) {
	err := &MalformedWiringError{Line: 3, Text: "%a", Reason: `missing "->"`}
	assert.Equal(t, `malformed wiring at line 3 ("%a"): missing "->"`, err.Error())

	err = &MalformedWiringError{Reason: "no broadcaster declared"}
	assert.Equal(t, "malformed wiring: no broadcaster declared", err.Error())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, os.ErrClosed }

func TestParse_ReaderError(t *testing.T) {
	_, err := Parse(failingReader{})
	require.Error(t, err)
	assert.False(t, IsMalformedWiring(err))
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.True(t, strings.HasPrefix(err.Error(), "read wiring"))
}

func TestLoad(t *testing.T) {
	n, err := Load(filepath.Join("..", "..", "testdata", "wiring", "example1.txt"))
	require.NoError(t, err)

	inv, ok := n.Lookup("inv")
	require.True(t, ok)
	assert.Equal(t, []string{"c"}, names(n, n.Module(inv).Inputs()))
	assert.Equal(t, 3, n.Count(circuit.KindFlipFlop))
	assert.Equal(t, 0, n.Count(circuit.KindSink))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
