package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/finanhome/internal/auth"
	"github.com/Veraticus/finanhome/internal/cli"
	"github.com/Veraticus/finanhome/internal/common"
	"github.com/spf13/cobra"
)

func unlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Enter the PIN to unlock the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if s.gate.Unlocked() {
				fmt.Fprintln(out, cli.FormatInfo("Already unlocked."))
				return nil
			}

			pin, _ := cmd.Flags().GetString("pin")
			if pin == "" {
				pin, err = reader(cmd).Ask(ctx, "PIN", "")
				if err != nil {
					return err
				}
			}

			if err := s.gate.Unlock(ctx, pin); err != nil {
				if errors.Is(err, auth.ErrWrongPIN) {
					return common.NewUserError("🔒 Wrong PIN.", err)
				}
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess("🔓 Unlocked."))
			return nil
		},
	}

	cmd.Flags().String("pin", "", "PIN (asked interactively when omitted)")
	return cmd
}

func lockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Lock the dashboard until the PIN is entered again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.gate.Lock(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("🔒 Locked."))
			return nil
		},
	}
}
