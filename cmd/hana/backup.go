package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Veraticus/finanhome/internal/cli"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up the database",
		Long: `Write a consistent copy of the database.

Without --output the copy goes to a timestamped file in a backups
directory next to the database.`,
		Example: `  hana backup
  hana backup --output ~/hana-2025.db --reason "year end"
  hana backup list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			output, _ := cmd.Flags().GetString("output")
			reason, _ := cmd.Flags().GetString("reason")

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.db.Backup(ctx, output, reason)
			if err != nil {
				return fmt.Errorf("failed to create backup: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("✓ Backup written to "+info.Path))
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "destination file (default: backups directory next to the database)")
	cmd.Flags().String("reason", "manual", "note stored with the backup")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			backups, err := s.db.Backups(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(backups) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No backups yet. Use 'hana backup' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tREASON\tPATH")
			for _, b := range backups {
				status := b.Path
				if _, statErr := os.Stat(b.Path); statErr != nil {
					status += " (missing)"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", b.ID, b.CreatedAt.Format("2006-01-02 15:04"), b.Reason, status)
			}
			return w.Flush()
		},
	})

	return cmd
}
