package upload

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Kind distinguishes new uploads from appended parts.
type Kind string

const (
	KindUpload Kind = "upload"
	KindAppend Kind = "append"
)

// Entry is one uploaded file.
type Entry struct {
	Batch      string    `json:"batch"`
	Path       string    `json:"path"`
	VideoID    string    `json:"video_id"`
	Kind       Kind      `json:"kind"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// History persists upload entries in SQLite.
type History struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &History{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// Record stores e, replacing any earlier entry for the same batch and path.
func (h *History) Record(ctx context.Context, e Entry) error {
	if e.UploadedAt.IsZero() {
		e.UploadedAt = time.Now()
	}
	return retryOnBusy(ctx, func() error {
		_, err := h.db.ExecContext(ctx,
			`INSERT INTO uploads (batch, path, video_id, kind, uploaded_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (batch, path) DO UPDATE SET video_id = excluded.video_id, kind = excluded.kind, uploaded_at = excluded.uploaded_at`,
			e.Batch, e.Path, e.VideoID, string(e.Kind), e.UploadedAt.UTC().Format(time.RFC3339Nano),
		)
		return err
	})
}

// Batch returns the entries of batch in upload order.
func (h *History) Batch(ctx context.Context, batch string) ([]Entry, error) {
	rows, err := h.db.QueryContext(ctx,
		"SELECT batch, path, video_id, kind, uploaded_at FROM uploads WHERE batch = ? ORDER BY id", batch)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Recent returns the latest limit entries across batches, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		"SELECT batch, path, video_id, kind, uploaded_at FROM uploads ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var (
			e    Entry
			kind string
			at   string
		)
		if err := rows.Scan(&e.Batch, &e.Path, &e.VideoID, &kind, &at); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.Kind = Kind(kind)
		if parsed, err := time.Parse(time.RFC3339Nano, at); err == nil {
			e.UploadedAt = parsed
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
