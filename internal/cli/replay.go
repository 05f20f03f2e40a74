package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/engine"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Presses    int
	Discipline string
	MaxPulses  int
	Runs       int
}

// ReplayRunResult holds the outcome of one replay.
type ReplayRunResult struct {
	RunID   string `json:"run_id"`
	Low     int64  `json:"low"`
	High    int64  `json:"high"`
	Product int64  `json:"product"`
	Digest  string `json:"digest"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Wiring        string            `json:"wiring"`
	Presses       int               `json:"presses"`
	Discipline    string            `json:"discipline"`
	Runs          []ReplayRunResult `json:"runs"`
	Deterministic bool              `json:"deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <wiring-file>",
		Short: "Run a wiring several times and verify determinism",
		Long: `Run the same wiring repeatedly from power-on, each run on its own copy of
the network, and check that every run produces the same digest.

The digest covers the press count, the discipline, both totals and the
final state of every flip-flop and conjunction.

Exit codes:
  0 - All runs are identical
  1 - Runs diverged, or a press did not settle
  2 - Command error (missing or malformed wiring)

Examples:
  pulsenet replay testdata/wiring/example2.txt
  pulsenet replay testdata/wiring/race.txt --runs 5 --discipline lifo`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Presses, "presses", "n", 1000, "number of button presses per run")
	cmd.Flags().StringVar(&opts.Discipline, "discipline", engine.FIFO.String(), "queue drain order (fifo|lifo)")
	cmd.Flags().IntVar(&opts.MaxPulses, "max-pulses", 0, "pulses allowed per press, 0 for unlimited")
	cmd.Flags().IntVar(&opts.Runs, "runs", 2, "number of runs to compare")

	return cmd
}

func runReplay(opts *ReplayOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Runs < 2 {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, fmt.Sprintf("--runs must be >= 2, got %d", opts.Runs), nil)
	}
	if opts.Presses < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, fmt.Sprintf("--presses must be >= 0, got %d", opts.Presses), nil)
	}
	discipline, err := engine.ParseDiscipline(opts.Discipline)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, err.Error(), nil)
	}

	base, err := loadNetwork(path)
	if err != nil {
		return failLoad(formatter, err)
	}

	ctx, stop := interruptContext(cmd)
	defer stop()

	result := ReplayResult{
		Wiring:        path,
		Presses:       opts.Presses,
		Discipline:    discipline.String(),
		Runs:          make([]ReplayRunResult, 0, opts.Runs),
		Deterministic: true,
	}

	for i := 1; i <= opts.Runs; i++ {
		runID := fmt.Sprintf("replay-%d", i)
		eng := engine.New(base.Clone(),
			engine.WithDiscipline(discipline),
			engine.WithMaxPulses(opts.MaxPulses),
			engine.WithRunIDGenerator(engine.NewFixedGenerator(runID)),
		)
		run, err := eng.Run(ctx, opts.Presses)
		if err != nil {
			return formatter.Fail(ExitFailure, runErrorCode(err), fmt.Sprintf("replay %d failed", i), err)
		}
		formatter.VerboseLog("Run %d: product %d, digest %s", i, run.Product, run.Digest)

		result.Runs = append(result.Runs, ReplayRunResult{
			RunID:   run.RunID,
			Low:     run.Counts.Low,
			High:    run.Counts.High,
			Product: run.Product,
			Digest:  run.Digest,
		})
		if run.Digest != result.Runs[0].Digest {
			result.Deterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result)
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if !result.Deterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeNonDeterminism,
			Message: "replays produced different digests",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, "non-deterministic replay detected")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replayed %s %d times (%d presses, %s)\n",
		result.Wiring, len(result.Runs), result.Presses, result.Discipline)
	for _, r := range result.Runs {
		fmt.Fprintf(w, "  %s: product %d, digest %s\n", r.RunID, r.Product, truncateDigest(r.Digest))
	}
	fmt.Fprintln(w)

	if !result.Deterministic {
		fmt.Fprintln(w, "✗ Runs diverged")
		return NewExitError(ExitFailure, "non-deterministic replay detected")
	}
	fmt.Fprintln(w, "✓ All runs identical")
	return nil
}

// truncateDigest shortens a digest for display.
func truncateDigest(d string) string {
	if len(d) <= 16 {
		return d
	}
	return d[:8] + "..." + d[len(d)-8:]
}
