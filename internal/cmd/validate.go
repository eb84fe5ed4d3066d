package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/crucible/internal/config"
	"github.com/harrison/crucible/internal/suite"
)

// NewValidateCommand creates the "validate" subcommand.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <suite-file>",
		Short: "Validate a suite file without running it",
		Long: `Validate parses the suite file and checks every configuration tree
in it, including per-case overrides, without invoking any backend.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := suite.NewMarkdownParser().ParseFile(args[0])
			if err != nil {
				return err
			}

			if err := config.ValidateTestConfig(s.Config); err != nil {
				return fmt.Errorf("suite config: %w", err)
			}
			for _, c := range s.Cases {
				if c.Override != nil {
					if err := config.ValidateTestConfig(*c.Override); err != nil {
						return fmt.Errorf("case %q: %w", c.Name, err)
					}
				}
			}

			if _, err := buildEvaluator(s.Config.MetricConfig); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d case(s), ok\n", s.Name, len(s.Cases))
			return nil
		},
	}
}
