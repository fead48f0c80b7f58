package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/finanhome/internal/cli"
	"github.com/Veraticus/finanhome/internal/model"
	"github.com/Veraticus/finanhome/internal/money"
	"github.com/Veraticus/finanhome/internal/ofx"
	"github.com/Veraticus/finanhome/internal/storage"
	"github.com/Veraticus/finanhome/internal/store"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from bank files",
	}

	cmd.AddCommand(importOFXCmd())
	return cmd
}

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ofx [files...]",
		Short: "Import transactions from OFX/QFX statements",
		Long: `Import transactions from OFX or QFX statements exported by your bank.

Debits become expenses and credits become income. Every imported
transaction gets the nature given by --nature; --category overrides the
category guessed from the transaction type. Transactions already in the
ledger (same date, description, amount and type) are skipped.

A backup of the database is taken before anything is written.`,
		Example: `  # Import a business account statement
  hana import ofx ~/Downloads/extrato-pj.ofx

  # Import a personal card statement as personal spending
  hana import ofx --nature PERSONAL ~/Downloads/fatura-*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().String("nature", string(model.NatureBusiness), "nature for every imported transaction (BUSINESS, PERSONAL, MIXED)")
	cmd.Flags().String("category", "", "category for every imported transaction (default guessed per transaction)")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().Bool("no-backup", false, "Skip the backup taken before importing")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	nature, _ := cmd.Flags().GetString("nature")
	category, _ := cmd.Flags().GetString("category")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noBackup, _ := cmd.Flags().GetBool("no-backup")

	if _, err := model.ParseNature(nature); err != nil {
		return fmt.Errorf("invalid --nature: %w", err)
	}

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	s, err := openUnlockedSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	existing := make(map[string]bool)
	for _, t := range s.store.Snapshot().Transactions {
		existing[draftKey(t.Draft())] = true
	}

	drafts, err := parseStatements(ctx, out, files, ofx.Options{Nature: nature, Category: category}, existing)
	if err != nil {
		return err
	}

	if len(drafts) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No new transactions found."))
		return nil
	}

	fmt.Fprintln(out, renderPreview(drafts))

	if dryRun {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("🔍 Dry run: %d transactions would be imported.", len(drafts))))
		return nil
	}

	if !noBackup {
		info, err := backupBeforeImport(ctx, s.db)
		if err != nil {
			return fmt.Errorf("failed to back up before import: %w", err)
		}
		if info != nil {
			slog.Info("Backup created", "path", info.Path)
		}
	}

	res, err := s.store.Dispatch(ctx, store.ImportTransactions{Drafts: drafts})
	if err != nil {
		return describeRejection(err)
	}

	if skipped := len(drafts) - res.Count; skipped > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d transactions were invalid and skipped.", skipped)))
	}
	return reportResult(out, res, fmt.Sprintf("Imported %d transactions", res.Count))
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(args []string) ([]string, error) {
	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// parseStatements reads every file, skipping drafts whose key is already in
// seen. Files that cannot be read or parsed are logged and skipped.
func parseStatements(ctx context.Context, out io.Writer, files []string, opts ofx.Options, seen map[string]bool) ([]model.TransactionDraft, error) {
	parser := ofx.NewParser(slog.Default())

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Reading statements...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(out)
		}),
	)

	var drafts []model.TransactionDraft
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parsed, err := parseFile(ctx, parser, path, opts)
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
		}

		added := 0
		for _, d := range parsed {
			key := draftKey(d)
			if seen[key] {
				continue
			}
			seen[key] = true
			drafts = append(drafts, d)
			added++
		}
		slog.Debug("Processed file",
			"file", filepath.Base(path),
			"transactions_found", len(parsed),
			"added", added,
			"duplicates", len(parsed)-added)

		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	return drafts, nil
}

func parseFile(ctx context.Context, parser *ofx.Parser, path string, opts ofx.Options) ([]model.TransactionDraft, error) {
	f, err := os.Open(path) // #nosec G304 - user supplied statement path
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close file", "file", path, "error", closeErr)
		}
	}()

	return parser.ParseFile(ctx, f, opts)
}

// draftKey identifies a transaction for import deduplication.
func draftKey(d model.TransactionDraft) string {
	amount := money.Normalize(d.Amount).StringFixed(2)
	txType, _ := model.ParseTransactionType(d.Type)
	return fmt.Sprintf("%s|%s|%s|%s", d.Date, d.Description, amount, txType)
}

// renderPreview shows the drafts the way the ledger will list them.
func renderPreview(drafts []model.TransactionDraft) string {
	today := time.Now()
	preview := make([]model.Transaction, 0, len(drafts))
	for i, d := range drafts {
		t, err := model.NewTransaction(fmt.Sprintf("#%d", i+1), d, today)
		if err != nil {
			continue
		}
		preview = append(preview, t)
	}
	return cli.RenderTransactions(preview)
}

// backupBeforeImport snapshots the database. In-memory databases have
// nothing to protect.
func backupBeforeImport(ctx context.Context, db *storage.SQLiteStorage) (*storage.BackupInfo, error) {
	if db.Path() == storage.MemoryPath {
		return nil, nil
	}
	return db.Backup(ctx, "", "before OFX import")
}
