package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for crucible
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crucible",
		Short: "Evaluation harness for LLM invocations",
		Long: `Crucible runs evaluation suites against configurable model backends
and scores the outputs with pluggable evaluators.

A suite file (Markdown with YAML frontmatter) defines a default
configuration and a set of input cases. For each case, crucible executes
the input once for a baseline, evaluates it (comparison, stability, rule
compliance, or ground truth accuracy), and records an auditable result.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
