package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/diplomat/packages/core/config"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	envFile    string
	verbose    bool
	noColor    bool
	output     string
	history    string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "diplomat",
		Short: "Send HTTP requests and classify what comes back.",
		Long: `diplomat sends a request to a destination, runs the response through
a classifier and reports whether it errored, failed or succeeded.

The exit status follows the outcome: 0 successful, 1 failed, 2 errored,
3 configuration error, 64 usage error.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: .diplomat.{json,yaml,yml} in the current directory)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Path to .env file with DIPLOMAT_* settings")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show headers and debug logs")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.StringVarP(&opts.output, "output", "o", "console", "Output format: console, json")
	flags.StringVar(&opts.history, "history", "", "SQLite database to record calls in")

	for _, method := range requestMethods {
		rootCmd.AddCommand(newRequestCmd(opts, method))
	}
	rootCmd.AddCommand(newHistoryCmd(opts))
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func Execute(v, bt string) {
	version = v
	buildTime = bt

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	var exitErr *ExitError
	if err != nil && (!errors.As(err, &exitErr) || exitErr.Err != nil) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// loadConfig layers the config file, the .env file and DIPLOMAT_* variables.
// Command line flags are applied by the caller.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	overrides, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	cfg = cfg.Merge(overrides)

	if o.verbose {
		cfg.Verbose = config.BoolPtr(true)
	}
	if o.noColor {
		cfg.NoColor = config.BoolPtr(true)
	}
	if o.history != "" {
		cfg.History = o.history
	}
	return cfg, nil
}

// newLogger logs to w at debug level when verbose, warnings otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
