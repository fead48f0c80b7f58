package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrBackupExists is returned when the backup destination is already taken.
var ErrBackupExists = errors.New("backup already exists")

// BackupInfo describes one recorded backup.
type BackupInfo struct {
	CreatedAt time.Time
	Path      string
	Reason    string
	ID        int64
}

// Backup writes a consistent copy of the database to destPath and records it.
// An empty destPath places a timestamped file in a backups directory next to
// the database.
func (s *SQLiteStorage) Backup(ctx context.Context, destPath, reason string) (*BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	if destPath == "" {
		if s.dbPath == MemoryPath {
			return nil, fmt.Errorf("%w: destination path for in-memory database", ErrEmptyString)
		}
		destPath = filepath.Join(filepath.Dir(s.dbPath), "backups",
			fmt.Sprintf("hana-%s.db", time.Now().Format("2006-01-02-150405")))
	}

	destPath, err := filepath.Abs(destPath)
	if err != nil {
		return nil, fmt.Errorf("invalid destination path: %w", err)
	}
	if strings.ContainsAny(destPath, `'";`) {
		return nil, fmt.Errorf("invalid destination path: contains forbidden characters")
	}
	if _, statErr := os.Stat(destPath); statErr == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, destPath)
	}
	if mkErr := os.MkdirAll(filepath.Dir(destPath), 0750); mkErr != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", mkErr)
	}

	if s.dbPath != MemoryPath {
		if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			return nil, fmt.Errorf("failed to checkpoint WAL: %w", err)
		}
	}

	// #nosec G201 - destPath is validated above
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", destPath)); err != nil {
		return nil, fmt.Errorf("failed to back up database: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO backups (path, reason) VALUES (?, ?)`, destPath, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to record backup: %w", err)
	}
	id, _ := res.LastInsertId()

	return &BackupInfo{
		ID:        id,
		Path:      destPath,
		Reason:    reason,
		CreatedAt: time.Now(),
	}, nil
}

// Backups lists recorded backups, newest first.
func (s *SQLiteStorage) Backups(ctx context.Context) ([]BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, COALESCE(reason, ''), created_at FROM backups ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []BackupInfo
	for rows.Next() {
		var b BackupInfo
		if err := rows.Scan(&b.ID, &b.Path, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan backup: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
