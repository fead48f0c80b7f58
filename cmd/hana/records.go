package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/finanhome/internal/cli"
	"github.com/Veraticus/finanhome/internal/common"
	"github.com/Veraticus/finanhome/internal/model"
	"github.com/Veraticus/finanhome/internal/store"
	"github.com/spf13/cobra"
)

// field is one editable attribute of a record, exposed as a flag and as an
// interactive prompt.
type field struct {
	flag   string
	prompt string
	usage  string
}

// recordKind describes how one kind of record maps onto the generic
// add/list/edit/delete commands. D is the draft type, R the stored record.
type recordKind[D, R any] struct {
	use     string
	aliases []string
	noun    string
	fields  []field

	list   func(store.State) []R
	render func([]R) string
	lookup func(*store.Store, string) (R, bool)
	draft  func(R) D
	values func(D) map[string]string
	build  func(map[string]string) D

	create func(D) store.Command
	update func(string, D) store.Command
	remove func(string, bool) store.Command
}

func (k recordKind[D, R]) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:     k.use,
		Aliases: k.aliases,
		Short:   fmt.Sprintf("Manage %ss", k.noun),
	}

	cmd.AddCommand(k.addCmd())
	cmd.AddCommand(k.listCmd())
	cmd.AddCommand(k.editCmd())
	cmd.AddCommand(k.deleteCmd())

	return cmd
}

func (k recordKind[D, R]) bindFields(cmd *cobra.Command) {
	for _, f := range k.fields {
		cmd.Flags().String(f.flag, "", f.usage)
	}
}

func (k recordKind[D, R]) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Record a new %s", k.noun),
		Long: fmt.Sprintf(`Record a new %s.

Without flags every field is asked interactively. With flags, only the
flags given are used and the rest take their defaults.`, k.noun),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openUnlockedSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			values, err := k.collect(ctx, cmd, map[string]string{})
			if err != nil {
				return err
			}

			res, err := s.store.Dispatch(ctx, k.create(k.build(values)))
			if err != nil {
				return describeRejection(err)
			}

			return reportResult(cmd.OutOrStdout(), res, fmt.Sprintf("%s %s added", k.noun, res.ID))
		},
	}

	k.bindFields(cmd)
	return cmd
}

func (k recordKind[D, R]) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %ss", k.noun),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openUnlockedSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			records := k.list(s.store.Snapshot())
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("No %ss yet. Use 'hana %s add' to record one.", k.noun, k.use)))
				return nil
			}

			fmt.Fprintln(out, k.render(records))
			return nil
		},
	}
}

func (k recordKind[D, R]) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: fmt.Sprintf("Edit a %s", k.noun),
		Long: fmt.Sprintf(`Edit a %s.

Without flags every field is asked with its current value as the default.
With flags, only the flags given change.`, k.noun),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			s, err := openUnlockedSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			current, ok := k.lookup(s.store, id)
			if !ok {
				return common.NewUserError(fmt.Sprintf("No %s with id %s", k.noun, id), common.ErrNotFound)
			}

			values, err := k.collect(ctx, cmd, k.values(k.draft(current)))
			if err != nil {
				return err
			}

			res, err := s.store.Dispatch(ctx, k.update(id, k.build(values)))
			if err != nil {
				return describeRejection(err)
			}

			return reportResult(cmd.OutOrStdout(), res, fmt.Sprintf("%s %s updated", k.noun, id))
		},
	}

	k.bindFields(cmd)
	return cmd
}

func (k recordKind[D, R]) deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", k.noun),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			force, _ := cmd.Flags().GetBool("force")

			s, err := openUnlockedSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, ok := k.lookup(s.store, id); !ok {
				return common.NewUserError(fmt.Sprintf("No %s with id %s", k.noun, id), common.ErrNotFound)
			}

			out := cmd.OutOrStdout()
			if !force {
				confirmed, err := reader(cmd).Confirm(ctx, fmt.Sprintf("Are you sure you want to delete %s %s?", k.noun, id))
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, "Operation canceled.")
					return nil
				}
			}

			res, err := s.store.Dispatch(ctx, k.remove(id, true))
			if err != nil {
				return describeRejection(err)
			}

			return reportResult(out, res, fmt.Sprintf("%s %s deleted", k.noun, id))
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
	return cmd
}

// collect starts from base and applies the field flags that were set. When
// none were set it asks for every field instead.
func (k recordKind[D, R]) collect(ctx context.Context, cmd *cobra.Command, base map[string]string) (map[string]string, error) {
	values := make(map[string]string, len(k.fields))
	for key, v := range base {
		values[key] = v
	}

	anySet := false
	for _, f := range k.fields {
		if cmd.Flags().Changed(f.flag) {
			anySet = true
			values[f.flag], _ = cmd.Flags().GetString(f.flag)
		}
	}
	if anySet {
		return values, nil
	}

	r := reader(cmd)
	for _, f := range k.fields {
		answer, err := r.Ask(ctx, f.prompt, values[f.flag])
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.flag, err)
		}
		values[f.flag] = answer
	}
	return values, nil
}

func reader(cmd *cobra.Command) *cli.LineReader {
	return cli.NewLineReader(cmd.InOrStdin(), cmd.OutOrStdout())
}

// describeRejection turns a store rejection into a message for the terminal.
func describeRejection(err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return common.NewUserError(fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Reason), err)
	}
	return err
}

// reportResult prints the outcome of a dispatched command. A record that
// was kept in memory but not saved is reported as a warning.
func reportResult(out io.Writer, res store.Result, success string) error {
	if !res.Changed {
		fmt.Fprintln(out, cli.FormatInfo("Nothing changed."))
		return nil
	}

	fmt.Fprintln(out, cli.FormatSuccess("✓ "+success))
	if res.Warning != nil {
		fmt.Fprintln(os.Stderr, cli.FormatWarning(fmt.Sprintf("Not saved to disk: %v", res.Warning)))
	}
	return nil
}
