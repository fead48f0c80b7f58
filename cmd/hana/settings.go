package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/finanhome/internal/cli"
	"github.com/Veraticus/finanhome/internal/common"
	"github.com/Veraticus/finanhome/internal/store"
	"github.com/spf13/cobra"
)

// settingCommands maps setting names to the command that stores them.
var settingCommands = map[string]func(string) store.Command{
	"pro-labore":      func(v string) store.Command { return store.SetProLabore{Value: v} },
	"allocation-rate": func(v string) store.Command { return store.SetAllocationRate{Value: v} },
	"tax-rate":        func(v string) store.Command { return store.SetTaxRate{Value: v} },
}

func settingNames() []string {
	names := make([]string, 0, len(settingCommands))
	for name := range settingCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change pro-labore, allocation rate and tax rate",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openUnlockedSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("⚙️  Settings"))
			fmt.Fprintln(out, cli.RenderSettings(s.store.Settings()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <name> <value>",
		Short: "Change a setting",
		Long: fmt.Sprintf(`Change a setting. Names: %s.

Values accept Brazilian formatting (8.000,50). Text that is not a number
is stored as 0.`, strings.Join(settingNames(), ", ")),
		Example: `  hana settings set pro-labore 8.000,00
  hana settings set allocation-rate 0.25`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			build, ok := settingCommands[strings.ToLower(args[0])]
			if !ok {
				return common.NewUserError(
					fmt.Sprintf("Unknown setting %q. Choose one of: %s", args[0], strings.Join(settingNames(), ", ")),
					common.ErrInvalidConfig)
			}

			s, err := openUnlockedSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.store.Dispatch(ctx, build(args[1]))
			if err != nil {
				return describeRejection(err)
			}

			out := cmd.OutOrStdout()
			if err := reportResult(out, res, args[0]+" updated"); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.RenderSettings(s.store.Settings()))
			return nil
		},
	})

	return cmd
}
