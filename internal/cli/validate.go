package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/ir"
)

// ValidationResult describes a wiring that parsed cleanly.
type ValidationResult struct {
	Wiring  string              `json:"wiring"`
	Valid   bool                `json:"valid"`
	Hash    string              `json:"hash"`
	Modules int                 `json:"modules"`
	Kinds   map[string]int      `json:"kinds"`
	Sinks   []string            `json:"sinks"`
	Inputs  map[string][]string `json:"inputs"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <wiring-file>",
		Short: "Check a wiring file without running it",
		Long: `Parse a wiring file and report what it builds: modules by kind,
undeclared destinations (sinks) and the tracked inputs of every conjunction.

Exit codes:
  0 - Wiring is valid
  2 - File missing or malformed`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	net, err := loadNetwork(path)
	if err != nil {
		return failLoad(formatter, err)
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "read wiring", err)
	}

	result := describeNetwork(net)
	result.Wiring = path
	result.Hash = ir.WiringHash(string(text))

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	outputValidateText(cmd.OutOrStdout(), result, opts.Verbose)
	return nil
}

// describeNetwork summarizes the built network. The synthesized button is
// not counted as a module.
func describeNetwork(net *circuit.Network) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Kinds:  make(map[string]int),
		Sinks:  []string{},
		Inputs: make(map[string][]string),
	}

	for i := range net.Modules {
		m := &net.Modules[i]
		switch m.Kind {
		case circuit.KindSource:
			continue
		case circuit.KindSink:
			result.Sinks = append(result.Sinks, m.Name)
		case circuit.KindConjunction:
			names := make([]string, 0, len(m.Inputs()))
			for _, in := range m.Inputs() {
				names = append(names, net.Name(in))
			}
			result.Inputs[m.Name] = names
		}
		result.Modules++
		result.Kinds[m.Kind.String()]++
	}
	return result
}

func outputValidateText(w io.Writer, r ValidationResult, verbose bool) {
	fmt.Fprintf(w, "✓ %s is valid\n", r.Wiring)

	var kinds []string
	for _, k := range []circuit.Kind{circuit.KindBroadcaster, circuit.KindFlipFlop, circuit.KindConjunction, circuit.KindSink} {
		if n := r.Kinds[k.String()]; n > 0 {
			kinds = append(kinds, fmt.Sprintf("%d %s", n, k))
		}
	}
	fmt.Fprintf(w, "  Modules: %d (%s)\n", r.Modules, strings.Join(kinds, ", "))

	if len(r.Sinks) > 0 {
		fmt.Fprintf(w, "  Sinks: %s\n", strings.Join(r.Sinks, ", "))
	}

	if len(r.Inputs) > 0 {
		names := make([]string, 0, len(r.Inputs))
		for name := range r.Inputs {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(w, "  Conjunction inputs:")
		for _, name := range names {
			fmt.Fprintf(w, "    %s <- %s\n", name, strings.Join(r.Inputs[name], ", "))
		}
	}

	if verbose {
		fmt.Fprintf(w, "  Hash: %s\n", r.Hash)
	}
}
