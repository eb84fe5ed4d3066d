package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/crucible/internal/config"
	"github.com/harrison/crucible/internal/display"
	"github.com/harrison/crucible/internal/export"
	"github.com/harrison/crucible/internal/logger"
	"github.com/harrison/crucible/internal/models"
	"github.com/harrison/crucible/internal/runner"
	"github.com/harrison/crucible/internal/store"
	"github.com/harrison/crucible/internal/suite"
)

// runOptions holds the flag values for the run command.
type runOptions struct {
	configPath string
	executor   string
	cmdPath    string
	storePath  string
	exportPath string
	timeout    time.Duration
	logLevel   string
	noStore    bool
}

// NewRunCommand creates the "run" subcommand.
func NewRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <suite-file>",
		Short: "Run an evaluation suite",
		Long: `Run parses the suite file, executes each case against the configured
backend, evaluates the outputs, and prints per-case results. Results are
persisted to the results database unless --no-store is given.

The per-case timeout wraps the whole run (baseline execution plus any
additional executions the evaluator issues).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", ".crucible/config.yaml", "harness configuration file")
	cmd.Flags().StringVar(&opts.executor, "executor", "", "execution backend: openai, ollama, or command")
	cmd.Flags().StringVar(&opts.cmdPath, "command-path", "", "binary for the command executor")
	cmd.Flags().StringVar(&opts.storePath, "store", "", "results database path")
	cmd.Flags().StringVar(&opts.exportPath, "export", "", "JSONL export path")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-case timeout (overrides config)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log verbosity: trace, debug, info, warn, error")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "skip persisting results")

	return cmd
}

func runSuite(cmd *cobra.Command, suitePath string, opts *runOptions) error {
	cfg, err := loadHarnessConfig(opts)
	if err != nil {
		return err
	}

	s, err := suite.NewMarkdownParser().ParseFile(suitePath)
	if err != nil {
		return fmt.Errorf("parse suite: %w", err)
	}

	exec, err := buildExecutor(cfg)
	if err != nil {
		return err
	}
	eval, err := buildEvaluator(s.Config.MetricConfig)
	if err != nil {
		return err
	}

	r, err := runner.NewTestRunner(exec, eval, s.Config)
	if err != nil {
		return err
	}
	r.SetLogger(logger.NewConsoleLogger(os.Stderr, cfg.LogLevel))

	var resultStore *store.Store
	if !opts.noStore && cfg.StorePath != "" {
		resultStore, err = store.NewStore(cfg.StorePath)
		if err != nil {
			return err
		}
		defer resultStore.Close()
	}

	var exporter *export.Writer
	if cfg.ExportPath != "" {
		exporter, err = export.NewWriter(cfg.ExportPath)
		if err != nil {
			return err
		}
	}

	renderer := display.NewRenderer(cmd.OutOrStdout())
	var statuses []models.MetricStatus
	failures := 0

	for _, c := range s.Cases {
		result, err := runCase(cmd.Context(), r, c, cfg.Timeout)
		if err != nil {
			renderer.Failure(c.Name, err)
			failures++
			continue
		}

		renderer.Result(c.Name, result)
		statuses = append(statuses, result.MetricOutput.Status)

		if resultStore != nil {
			if err := resultStore.Save(cmd.Context(), result); err != nil {
				return fmt.Errorf("persist result: %w", err)
			}
		}
		if exporter != nil {
			if err := exporter.Append(result); err != nil {
				return fmt.Errorf("export result: %w", err)
			}
		}
	}

	renderer.Summary(statuses, failures)

	if failures > 0 {
		return fmt.Errorf("%d case(s) did not complete", failures)
	}
	return nil
}

// runCase applies the per-case timeout around the whole run, as the runner
// itself implements none.
func runCase(ctx context.Context, r *runner.TestRunner, c suite.Case, timeout time.Duration) (*models.TestResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return r.Run(ctx, c.Input, c.Params, c.Override)
}

// loadHarnessConfig loads the config file and applies flag overrides.
func loadHarnessConfig(opts *runOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.executor != "" {
		cfg.Executor = opts.executor
	}
	if opts.cmdPath != "" {
		cfg.CommandPath = opts.cmdPath
	}
	if opts.storePath != "" {
		cfg.StorePath = opts.storePath
	}
	if opts.exportPath != "" {
		cfg.ExportPath = opts.exportPath
	}
	if opts.timeout > 0 {
		cfg.Timeout = opts.timeout
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	return cfg, nil
}
