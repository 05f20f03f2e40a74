package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/tally"
	"github.com/roach88/pulsenet/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Presses    int
	From       int
	Discipline string
	MaxPulses  int
}

// TraceResult holds the trace output.
type TraceResult struct {
	Wiring     string        `json:"wiring"`
	Presses    int           `json:"presses"`
	Discipline string        `json:"discipline"`
	Pulses     []trace.Entry `json:"pulses"`
	Counts     tally.Counts  `json:"counts"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <wiring-file>",
		Short: "Print every pulse delivered during the first presses",
		Long: `Press the button and print each pulse in delivery order as

  from -level-> to

When more than one press is shown, each press starts with a "# press N"
header. --from skips the log of earlier presses while still simulating
them, so state carries over.

Examples:
  pulsenet trace testdata/wiring/example2.txt
  pulsenet trace testdata/wiring/example2.txt --presses 4
  pulsenet trace testdata/wiring/race.txt --discipline lifo --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Presses, "presses", "n", 1, "number of button presses")
	cmd.Flags().IntVar(&opts.From, "from", 1, "first press to print")
	cmd.Flags().StringVar(&opts.Discipline, "discipline", engine.FIFO.String(), "queue drain order (fifo|lifo)")
	cmd.Flags().IntVar(&opts.MaxPulses, "max-pulses", 0, "pulses allowed per press, 0 for unlimited")

	return cmd
}

func runTrace(opts *TraceOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Presses < 0 || opts.From < 1 {
		return formatter.Fail(ExitCommandError, ErrCodeUsage,
			fmt.Sprintf("--presses must be >= 0 and --from >= 1, got %d and %d", opts.Presses, opts.From), nil)
	}
	discipline, err := engine.ParseDiscipline(opts.Discipline)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, err.Error(), nil)
	}

	net, err := loadNetwork(path)
	if err != nil {
		return failLoad(formatter, err)
	}

	rec := trace.NewRecorder(net, trace.WithPressWindow(opts.From, opts.Presses))
	eng := engine.New(net,
		engine.WithDiscipline(discipline),
		engine.WithMaxPulses(opts.MaxPulses),
		engine.WithObserver(rec),
	)

	ctx, stop := interruptContext(cmd)
	defer stop()

	run, err := eng.Run(ctx, opts.Presses)
	if err != nil {
		// Show what was recorded before the failure.
		if opts.Format != "json" {
			_, _ = rec.WriteTo(cmd.OutOrStdout())
		}
		return formatter.Fail(ExitFailure, runErrorCode(err), "trace failed", err)
	}

	if opts.Format == "json" {
		pulses := rec.Entries()
		if pulses == nil {
			pulses = []trace.Entry{}
		}
		return outputTraceJSON(cmd, TraceResult{
			Wiring:     path,
			Presses:    run.Presses,
			Discipline: run.Discipline,
			Pulses:     pulses,
			Counts:     run.Counts,
		})
	}

	if rec.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pulses recorded.")
		return nil
	}
	_, err = rec.WriteTo(cmd.OutOrStdout())
	return err
}

// outputTraceJSON outputs the trace result as indented JSON.
func outputTraceJSON(cmd *cobra.Command, result TraceResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}
