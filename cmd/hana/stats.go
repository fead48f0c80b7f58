package main

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/finanhome/internal/cli"
	"github.com/Veraticus/finanhome/internal/engine"
	"github.com/spf13/cobra"
)

// statsOutput is the JSON shape of 'hana stats --format json'.
type statsOutput struct {
	engine.Dashboard
	LeakageWarning bool `json:"leakageWarning"`
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show revenue, real profit, goal progress and leakage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")

			s, err := openUnlockedSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			dashboard := s.store.Dashboard()
			out := cmd.OutOrStdout()

			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(statsOutput{Dashboard: dashboard, LeakageWarning: dashboard.Stats.LeakageWarning()})
			case "table", "":
				fmt.Fprintln(out, cli.RenderDashboard(dashboard))
				return nil
			default:
				return fmt.Errorf("unknown format %q (use table or json)", format)
			}
		},
	}

	cmd.Flags().StringP("format", "o", "table", "output format (table, json)")
	return cmd
}
