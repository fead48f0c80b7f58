package main

import (
	"fmt"

	"github.com/Veraticus/finanhome/internal/tui"
	"github.com/Veraticus/finanhome/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Open the full-screen dashboard. Asks for the PIN first when locked.

Keys: tab/shift+tab switch views, a asks the advisor, r refreshes,
L locks, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			adv, err := newAdvisor(s.app)
			if err != nil {
				return fmt.Errorf("failed to initialize advisor: %w", err)
			}

			return tui.Run(ctx,
				tui.WithStore(s.store),
				tui.WithGate(s.gate),
				tui.WithAdvisor(adv),
				tui.WithTheme(themes.ByName(viper.GetString("ui.theme"))),
			)
		},
	}

	cmd.Flags().String("theme", "", "color theme (default, catppuccin)")
	_ = viper.BindPFlag("ui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}
