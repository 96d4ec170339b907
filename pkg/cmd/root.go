package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/siyuan-infoblox/py-imports-sort/pkg/config"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/errors"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/formatter"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/sorter"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/std"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/version"
)

const (
	UseDescription   = "pis [flags] PATH..."
	ShortDescription = "Python imports sorter - A tool to sort the import block of Python files"
	LongDescription  = `pis is a command-line tool that sorts the leading import block of Python files.

Strategies (--type):
  structural    standard library, third-party and local imports in
                blank-line separated groups, each sorted by module (default)
  from-first    all from-imports before plain imports
  import-first  all plain imports before from-imports
  alphabetical  by module path only

Names inside a from-import are always sorted. Only the import block at the top
of a file is touched; everything after the first non-import statement is left
as is.

PATH can be a Python file or a directory. Directories are walked recursively
for .py and .pyi files, skipping hidden directories, virtualenvs and build
output.

Settings are read from .pis.toml or the [tool.pis] table of pyproject.toml,
found by walking up from the first PATH. Flags override the file.`
)

// Exit codes
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitChanges   = 2
	ExitCancelled = 130
)

var (
	strategyName string
	dryRun       bool
	check        bool
	local        []string
	exclude      []string
	jobs         int
	configPath   string
	watchMode    bool
	verbose      bool
	showVersion  bool
	versionStr   string
)

var rootCmd = &cobra.Command{
	Use:           UseDescription,
	Short:         ShortDescription,
	Long:          LongDescription,
	Args:          validateArgs,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&strategyName, "type", "t", sorter.DefaultStrategy.String(), "Sorting strategy: "+strings.Join(sorter.Strategies(), ", "))
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print a unified diff for each file instead of writing it")
	rootCmd.PersistentFlags().BoolVar(&check, "check", false, "Write nothing and exit with code 2 when any file would change")
	rootCmd.PersistentFlags().StringSliceVar(&local, "local", []string{}, "Comma-separated list of top-level packages to treat as local (e.g., myapp,tools)")
	rootCmd.PersistentFlags().StringSliceVar(&exclude, "exclude", []string{}, "Comma-separated glob patterns of files and directories to skip (e.g., migrations,*_pb2.py)")
	rootCmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", 0, "Number of files processed concurrently (default: number of CPUs)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a .pis.toml or pyproject.toml file")
	rootCmd.PersistentFlags().BoolVar(&watchMode, "watch", false, "Keep running and sort files again when they change")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log the original and sorted imports of every file")
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
}

// ExitError carries the process exit code for a failed run
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	if stderrors.Is(err, context.Canceled) {
		return ExitCancelled
	}
	return ExitFailure
}

func validateArgs(cmd *cobra.Command, args []string) error {
	// If version flag is set, we don't need path arguments
	if showVersion {
		return nil
	}
	return cobra.MinimumNArgs(1)(cmd, args)
}

// resolveConfig loads the config file that applies to args and lays the
// explicitly set flags over it.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover(args[0])
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("type") {
		cfg.Type = strategyName
	}
	if flags.Changed("local") {
		cfg.Local = local
	}
	if flags.Changed("exclude") {
		cfg.Exclude = exclude
	}
	if flags.Changed("jobs") {
		cfg.Jobs = jobs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFormatter(cfg *config.Config, logger *log.Logger) (*formatter.Formatter, error) {
	strategy, err := cfg.Strategy()
	if err != nil {
		return nil, err
	}
	return formatter.New(formatter.FormatterConfig{
		Strategy:    strategy,
		Local:       cfg.Local,
		DetectLocal: true,
		StdLib:      std.StandardModules.With(cfg.ExtraStdlib...),
		Exclude:     cfg.Exclude,
		DryRun:      dryRun || check,
		Jobs:        cfg.Jobs,
		Logger:      logger,
	}), nil
}

func run(cmd *cobra.Command, args []string) error {
	// Handle version flag
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
		return nil
	}

	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	if cfg.Path != "" {
		logger.Debug(errors.InfoMsgConfigLoaded, "path", cfg.Path, "type", cfg.Type)
	}

	f, err := newFormatter(cfg, logger)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	ctx := cmd.Context()
	out := newPrinter(cmd.OutOrStdout())
	if watchMode {
		return runWatch(ctx, f, cfg, args, out, logger)
	}

	report, err := f.ProcessPath(ctx, args...)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	out.printReport(report, dryRun, check)
	return exitFor(ctx, report)
}

// exitFor turns a finished report into the command result
func exitFor(ctx context.Context, report formatter.Report) error {
	if err := report.Err(); err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	if ctx.Err() != nil {
		return &ExitError{Code: ExitCancelled, Err: fmt.Errorf("%s: %w", errors.ErrMsgProcessingCancelled, ctx.Err())}
	}
	if check && report.Changed() > 0 {
		return &ExitError{Code: ExitChanges}
	}
	return nil
}

func versionString() string {
	return version.Get(versionStr).String()
}

func Execute(ctx context.Context, buildVersion string) error {
	versionStr = buildVersion
	return rootCmd.ExecuteContext(ctx)
}
