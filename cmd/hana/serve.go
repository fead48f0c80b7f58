package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/finanhome/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard as a JSON API",
		Long: `Serve the records, dashboard and advisor over HTTP.

Every route except POST /unlock answers 423 until the PIN is given.`,
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

			addr := s.app.ServerAddr
			slog.Info("💎 Serving Hana Finance", "addr", addr, "locked", !s.gate.Unlocked())
			return server.New(s.store, s.gate, adv, slog.Default()).Run(ctx, addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from server.addr, :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
