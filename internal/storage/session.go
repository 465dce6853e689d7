/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"breakscreen/internal/domain"
	applog "breakscreen/internal/log"
	"breakscreen/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	SessionFileName = "session.sqlite"

	// sessionSchemaVersion tracks the local SQLite schema for the session
	// store. Bump this when you perform breaking schema changes and add
	// migrations.
	sessionSchemaVersion = 1
)

// SessionPath returns the full path of the session database for a design
// file.
func SessionPath(designPath string) string {
	return filepath.Join(filepath.Dir(designPath), SessionDirName, SessionFileName)
}

// Session is an open per-design snapshot store. One editor session holds one
// Session and closes it on exit.
type Session struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenSession ensures the per-design SQLite session store exists at
// .bsc/session.sqlite, opens the database, enables WAL mode, and ensures the
// meta/version and snapshot tables exist.
func OpenSession(designPath string) (*Session, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "session_open").With(
		slog.String("design", designPath),
	)
	if strings.TrimSpace(designPath) == "" {
		return nil, errors.New("design path is required")
	}
	dir := filepath.Join(filepath.Dir(designPath), SessionDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.Error("create .bsc dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .bsc dir: %w", err)
	}

	path := SessionPath(designPath)
	// Use a URI with shared cache and set busy timeout. Convert to forward slashes for SQLite URI.
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Set reasonable connection pool limits for embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := ensureSessionSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure session schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("session store ready", slog.String("path", path))
	return &Session{db: db, log: applog.WithComponent("storage")}, nil
}

// Close releases the underlying database.
func (s *Session) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureSessionSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			id          INTEGER PRIMARY KEY,
			ts          TEXT NOT NULL,
			reason      TEXT NOT NULL,
			design_blob BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	// Seed or update single-row version info
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, sessionSchemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(ts, reason, design_blob) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestSnapshotSQL = `SELECT ts, design_blob FROM snapshots ORDER BY ts DESC, id DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT ts, reason FROM snapshots ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldSnapshotsSQL = `DELETE FROM snapshots WHERE id NOT IN (
	SELECT id FROM snapshots ORDER BY ts DESC, id DESC LIMIT ?
)`

// SaveSnapshot persists the design as a timestamped snapshot. The reason tags
// what triggered it ("autosave", "crash", ...).
func (s *Session) SaveSnapshot(ctx context.Context, d domain.Design, reason string, ts time.Time) error {
	if s == nil || s.db == nil {
		return errors.New("nil session")
	}
	blob, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, insertSnapshotSQL, ts.UTC().Format(time.RFC3339Nano), reason, blob)
	return err
}

// LatestSnapshot returns the most recent snapshot, or nil when the store is
// empty.
func (s *Session) LatestSnapshot(ctx context.Context) (*domain.Design, time.Time, error) {
	if s == nil || s.db == nil {
		return nil, time.Time{}, errors.New("nil session")
	}
	var tsStr string
	var blob []byte
	err := s.db.QueryRowContext(ctx, selectLatestSnapshotSQL).Scan(&tsStr, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	var d domain.Design
	if err := json.Unmarshal(blob, &d); err != nil {
		return nil, time.Time{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	ts, perr := time.Parse(time.RFC3339Nano, tsStr)
	if perr != nil {
		return &d, time.Time{}, nil // return design even if ts parse fails
	}
	return &d, ts, nil
}

// SnapshotInfo describes one stored snapshot.
type SnapshotInfo struct {
	TS     time.Time
	Reason string
}

// ListSnapshots returns up to limit most recent snapshots, newest first.
func (s *Session) ListSnapshots(ctx context.Context, limit int) ([]SnapshotInfo, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("nil session")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, listSnapshotsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []SnapshotInfo
	for rows.Next() {
		var tsStr, reason string
		if err := rows.Scan(&tsStr, &reason); err != nil {
			return nil, err
		}
		ts, _ := time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, SnapshotInfo{TS: ts, Reason: reason})
	}
	return out, rows.Err()
}

// Prune keeps at most keepLast snapshots and deletes older ones.
func (s *Session) Prune(ctx context.Context, keepLast int) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("nil session")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, pruneOldSnapshotsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
