package main

import (
	"fmt"

	"github.com/Veraticus/finanhome/internal/advisor"
	"github.com/Veraticus/finanhome/internal/cli"
	"github.com/spf13/cobra"
)

func adviseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advise",
		Short: "Ask the advisor for a tip based on the current numbers",
		Long: `Send the dashboard numbers to the configured provider and print a short
piece of advice. When the provider cannot answer, a fixed tip built from
the same numbers is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openUnlockedSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			adv, err := newAdvisor(s.app)
			if err != nil {
				return fmt.Errorf("failed to initialize advisor: %w", err)
			}

			advice, err := adv.Advise(ctx, advisor.SnapshotFrom(s.store.Dashboard()))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.RenderBox("💡 Conselho", advice.Text))
			if advice.NeedsCredential {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf(
					"No working API key for %s. Set advisor.api_key or the provider's API key variable.",
					s.app.Advisor.Provider)))
			}
			return nil
		},
	}
}
