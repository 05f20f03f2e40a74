package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/config"
	"github.com/roach88/pulsenet/internal/engine"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Presses    int
	Discipline string
	MaxPulses  int
	Profile    string

	// RunIDs overrides the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// RunOutput is the data payload of a successful run.
type RunOutput struct {
	Wiring     string `json:"wiring"`
	RunID      string `json:"run_id"`
	Presses    int    `json:"presses"`
	Discipline string `json:"discipline"`
	Low        int64  `json:"low"`
	High       int64  `json:"high"`
	Product    int64  `json:"product"`
	Digest     string `json:"digest"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [wiring-file]",
		Short: "Press the button N times and print low*high",
		Long: `Simulate N button presses on a wiring and print the product of the
total low and high pulse counts.

Settings come from the defaults, then the --profile file, then any flag
given explicitly. The wiring file may be named by the profile instead of
the argument.

Exit codes:
  0 - Run completed
  1 - A press did not settle within --max-pulses, or the run was interrupted
  2 - Command error (missing or malformed wiring, bad profile)

Examples:
  pulsenet run testdata/wiring/example1.txt
  pulsenet run testdata/wiring/race.txt --discipline lifo --presses 10
  pulsenet run --profile testdata/profiles/race-lifo.cue --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(opts, args, cmd)
		},
	}

	defaults := config.Default()
	cmd.Flags().IntVarP(&opts.Presses, "presses", "n", defaults.Presses, "number of button presses")
	cmd.Flags().StringVar(&opts.Discipline, "discipline", defaults.Discipline, "queue drain order (fifo|lifo)")
	cmd.Flags().IntVar(&opts.MaxPulses, "max-pulses", defaults.MaxPulses, "pulses allowed per press, 0 for unlimited")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "CUE run profile")

	return cmd
}

// resolveProfile merges defaults, the profile file and explicitly set flags.
func resolveProfile(opts *RunOptions, args []string, cmd *cobra.Command) (config.Profile, error) {
	p, err := loadProfile(opts.Profile)
	if err != nil {
		return config.Profile{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("presses") {
		p.Presses = opts.Presses
	}
	if flags.Changed("discipline") {
		p.Discipline = opts.Discipline
	}
	if flags.Changed("max-pulses") {
		p.MaxPulses = opts.MaxPulses
	}
	if len(args) == 1 {
		p.Wiring = args[0]
	}

	switch {
	case p.Wiring == "":
		return config.Profile{}, &LoadError{Code: ErrCodeUsage, Message: "no wiring file: pass one as an argument or set wiring in the profile"}
	case p.Presses < 0:
		return config.Profile{}, &LoadError{Code: ErrCodeUsage, Message: fmt.Sprintf("--presses must be >= 0, got %d", p.Presses)}
	case p.MaxPulses < 0:
		return config.Profile{}, &LoadError{Code: ErrCodeUsage, Message: fmt.Sprintf("--max-pulses must be >= 0, got %d", p.MaxPulses)}
	}
	if _, err := engine.ParseDiscipline(p.Discipline); err != nil {
		return config.Profile{}, &LoadError{Code: ErrCodeUsage, Message: err.Error(), Err: err}
	}
	return p, nil
}

func runSimulation(opts *RunOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	profile, err := resolveProfile(opts, args, cmd)
	if err != nil {
		return failLoad(formatter, err)
	}

	net, err := loadNetwork(profile.Wiring)
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("Loaded %d modules from %s", net.Len(), profile.Wiring)

	engineOpts, err := profile.EngineOptions()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeProfile, "invalid profile", err)
	}
	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = engine.UUIDv7Generator{}
	}
	engineOpts = append(engineOpts, engine.WithRunIDGenerator(runIDs))
	eng := engine.New(net, engineOpts...)

	ctx, stop := interruptContext(cmd)
	defer stop()

	result, err := eng.Run(ctx, profile.Presses)
	if err != nil {
		formatter.VerboseLog("Partial counts after %d presses: %d low, %d high",
			result.Presses, result.Counts.Low, result.Counts.High)
		return formatter.Fail(ExitFailure, runErrorCode(err), "run failed", err)
	}

	out := RunOutput{
		Wiring:     profile.Wiring,
		RunID:      result.RunID,
		Presses:    result.Presses,
		Discipline: result.Discipline,
		Low:        result.Counts.Low,
		High:       result.Counts.High,
		Product:    result.Product,
		Digest:     result.Digest,
	}

	if opts.Format == "json" {
		return formatter.Success(out)
	}

	formatter.VerboseLog("Run %s: %d presses (%s), %d low, %d high",
		out.RunID, out.Presses, out.Discipline, out.Low, out.High)
	formatter.VerboseLog("Digest: %s", out.Digest)
	return formatter.Success(out.Product)
}

// failLoad reports a LoadError with its code. Loading problems are command
// errors.
func failLoad(f *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	message := err.Error()
	var le *LoadError
	if errors.As(err, &le) {
		code = le.Code
		message = le.Message
	}
	return f.Fail(ExitCommandError, code, message, nil)
}

// interruptContext derives a context from the command's that is cancelled
// on SIGINT or SIGTERM. A press in progress still settles.
func interruptContext(cmd *cobra.Command) (context.Context, func()) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Warn("received signal, stopping after current press", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
