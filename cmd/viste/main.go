package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/SpacialCircumstances/viste/internal/config"
	"github.com/SpacialCircumstances/viste/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type contextKey struct{}

// env is what every command gets from the root command.
type env struct {
	config *config.Config
	logger *slog.Logger
}

func envFrom(cmd *cobra.Command) *env {
	if e, ok := cmd.Context().Value(contextKey{}).(*env); ok {
		return e
	}
	return &env{config: config.New(), logger: slog.Default()}
}

// rootOptions holds the persistent flags. main reads the error flags
// after the command has run.
type rootOptions struct {
	configPath  string
	verbose     bool
	noColor     bool
	errorFormat string
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line in args and returns the exit code. A
// failure is printed to stderr in the style chosen by --error-format.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &rootOptions{}
	root := newRootCmd(stdout, stderr, opts)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	style, perr := errors.ParseStyle(opts.errorFormat)
	if perr != nil {
		style = errors.StyleText
	}
	errors.Fprint(stderr, errors.FromError(err, "E162"), style, !opts.noColor)
	return 1
}

func newRootCmd(stdout, stderr io.Writer, opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "viste",
		Short: "Incremental reactive dataflow for Go",
		Long: `viste propagates changes through a graph of signals, recomputing
only what a reader pulls.

This command benchmarks propagation over fixed graph shapes and serves a
live inspector for a demo graph.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := errors.ParseStyle(opts.errorFormat); err != nil {
				return err
			}
			var (
				cfg *config.Config
				err error
			)
			if opts.configPath != "" {
				cfg, err = config.LoadFile(opts.configPath)
			} else {
				cfg, err = config.LoadFromWorkingDir()
			}
			if err != nil {
				return err
			}

			level, err := cfg.SlogLevel()
			if err != nil {
				return err
			}
			if opts.verbose {
				level = slog.LevelDebug
			}
			logger := newLogger(stderr, level, cfg.Log.Timestamps)
			slog.SetDefault(logger)
			logger.Debug("configuration loaded", "path", cfg.Path())

			cmd.SetContext(context.WithValue(cmd.Context(), contextKey{}, &env{config: cfg, logger: logger}))
			return nil
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to viste.toml or viste.json")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&opts.noColor, "no-color", os.Getenv("NO_COLOR") != "", "print errors without ANSI colors")
	flags.StringVar(&opts.errorFormat, "error-format", string(errors.StyleText), "error output: text, compact or json")

	root.AddCommand(
		benchCmd(),
		inspectCmd(),
		versionCmd(),
	)
	return root
}

// newLogger returns a slog logger backed by a charm handler.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level slog.Level, timestamps bool) *slog.Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: timestamps,
		TimeFormat:      "15:04:05.00",
		Level:           charmlog.Level(level),
	})
	return slog.New(handler)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
