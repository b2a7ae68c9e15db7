// Package cli wires the workspace resolver, boundary and scaffold into the
// aicontext command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Cyclone1070/aicontext/internal/config"
	"github.com/Cyclone1070/aicontext/internal/workspace/root"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ErrCheckFailed is returned when a command ran but its check did not pass.
// The command has already reported why, so callers only set the exit status.
var ErrCheckFailed = errors.New("check failed")

// loadConfig is replaced in tests.
var loadConfig = config.Load

// options holds the persistent flags shared by every subcommand.
type options struct {
	debug      bool
	noManifest bool
	maxDepth   int
	timeoutMs  int
}

// app is the state built once per invocation before a subcommand runs.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	opts   *options
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRoot().Execute()
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	opts := &options{}
	a := &app{opts: opts}

	cmd := &cobra.Command{
		Use:           "aicontext",
		Short:         "Locate, validate and guard an AI context workspace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.noManifest, "no-manifest", false, "skip the project manifest strategy")
	flags.IntVar(&opts.maxDepth, "max-depth", 0, "maximum parent directories to search (default from config)")
	flags.IntVar(&opts.timeoutMs, "timeout-ms", 0, "resolution time budget in milliseconds (default from config)")

	cmd.AddCommand(
		resolveCmd(a),
		statusCmd(a),
		checkPathCmd(a),
		initCmd(a),
	)
	return cmd
}

// setup loads configuration and builds the logger. A broken config file is
// reported and replaced by defaults rather than aborting the command.
func (a *app) setup(errOut io.Writer) error {
	cfg, cfgErr := loadConfig()
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if a.opts.debug {
		level = zerolog.DebugLevel
	}

	a.cfg = cfg
	a.logger = newLogger(errOut, level)

	if cfgErr != nil {
		a.logger.Warn().Err(cfgErr).Msg("failed to load config; using defaults")
	}
	if a.opts.maxDepth < 0 || a.opts.timeoutMs < 0 {
		return fmt.Errorf("--max-depth and --timeout-ms must not be negative")
	}
	return nil
}

func newLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	w := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.NoColor = true
		w.TimeFormat = time.RFC3339
	})
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// request builds a resolution request for start from config and flags.
func (a *app) request(start string) root.Request {
	req := root.Request{
		StartPath:         start,
		MaxTraversalDepth: a.cfg.Workspace.MaxTraversalDepth,
		TimeoutMs:         a.cfg.Workspace.ResolveTimeoutMs,
		Validate:          a.cfg.Workspace.ValidateStructure,
		CheckManifest:     a.cfg.Workspace.CheckManifest && !a.opts.noManifest,
	}
	if a.opts.maxDepth > 0 {
		req.MaxTraversalDepth = a.opts.maxDepth
	}
	if a.opts.timeoutMs > 0 {
		req.TimeoutMs = a.opts.timeoutMs
	}
	return req
}

func (a *app) resolve(start string, validate bool) root.Result {
	req := a.request(start)
	req.Validate = req.Validate || validate
	return root.NewDefaultResolver(a.logger).Resolve(req)
}

// startPath returns the optional positional path, or the working directory.
func startPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	return os.Getwd()
}
