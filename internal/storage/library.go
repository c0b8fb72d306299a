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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "posterstudio/internal/log"
	"posterstudio/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// librarySchemaVersion tracks the template library schema. Bump it together
// with a new step in runMigrations.
const librarySchemaVersion = 2

// Entry is one exported template known to the library.
type Entry struct {
	ID          int64
	Name        string
	Path        string // exported JSON file
	Hash        string // sha256 of the exported JSON
	AspectRatio string
	Profile     bool
	Tags        []string
	Languages   []string
	CreatedAt   time.Time
}

// Query filters library entries. Text uses SQLite FTS5 syntax over names and
// tags; the remaining filters are exact matches. Zero values mean unset.
type Query struct {
	Text        string
	Tag         string
	Language    string
	AspectRatio string
	Profile     *bool
	Limit       int
	Offset      int
}

// Library is the local SQLite catalogue of exported templates.
type Library struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// OpenLibrary opens or creates the library database at path, enables WAL mode
// and migrates the schema.
func OpenLibrary(path string) (*Library, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "library_open").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("library path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureLibrarySchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("library ready")
	return &Library{db: db, path: path, log: applog.WithComponent("library")}, nil
}

// Close releases the database handle.
func (lib *Library) Close() error {
	if lib == nil || lib.db == nil {
		return nil
	}
	return lib.db.Close()
}

// SchemaVersion reports the schema version stored in the database.
func (lib *Library) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := lib.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&v)
	return v, err
}

func ensureLibrarySchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS templates (
			id         INTEGER PRIMARY KEY,
			name       TEXT    NOT NULL,
			path       TEXT    NOT NULL UNIQUE,
			hash       TEXT    NOT NULL,
			aspect     TEXT    NOT NULL,
			profile    INTEGER NOT NULL,
			tags       TEXT    NOT NULL,
			languages  TEXT    NOT NULL,
			created_at TEXT    NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure library schema: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// fresh databases start at 1 and migrate forward like old ones
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, 1, ?, ?, ?)`, version.String(), now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies schema steps up to librarySchemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < librarySchemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			// full-text search over names and tags
			stmts = []string{
				`CREATE VIRTUAL TABLE IF NOT EXISTS fts_templates USING fts5(name, tags, content='templates', content_rowid='id', tokenize='unicode61');`,
				`CREATE TRIGGER IF NOT EXISTS templates_ai AFTER INSERT ON templates BEGIN
					INSERT INTO fts_templates(rowid, name, tags) VALUES (new.id, new.name, new.tags);
				END;`,
				`CREATE TRIGGER IF NOT EXISTS templates_ad AFTER DELETE ON templates BEGIN
					INSERT INTO fts_templates(fts_templates, rowid, name, tags) VALUES ('delete', old.id, old.name, old.tags);
				END;`,
				`CREATE TRIGGER IF NOT EXISTS templates_au AFTER UPDATE ON templates BEGIN
					INSERT INTO fts_templates(fts_templates, rowid, name, tags) VALUES ('delete', old.id, old.name, old.tags);
					INSERT INTO fts_templates(rowid, name, tags) VALUES (new.id, new.name, new.tags);
				END;`,
				`INSERT INTO fts_templates(fts_templates) VALUES ('rebuild');`,
				`CREATE INDEX IF NOT EXISTS idx_templates_created ON templates(created_at);`,
			}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}

// joinList stores a list as ",a,b," so a single LIKE '%,a,%' matches one item.
func joinList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return "," + strings.Join(items, ",") + ","
}

func splitList(s string) []string {
	s = strings.Trim(s, ",")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// Record inserts an entry or updates the one with the same path and returns
// its id.
func (lib *Library) Record(ctx context.Context, e Entry) (int64, error) {
	if strings.TrimSpace(e.Path) == "" {
		return 0, errors.New("entry path is required")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	profile := 0
	if e.Profile {
		profile = 1
	}
	var id int64
	err := lib.db.QueryRowContext(ctx, `INSERT INTO templates(name, path, hash, aspect, profile, tags, languages, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET name=excluded.name, hash=excluded.hash, aspect=excluded.aspect,
			profile=excluded.profile, tags=excluded.tags, languages=excluded.languages, created_at=excluded.created_at
		RETURNING id`,
		e.Name, e.Path, e.Hash, e.AspectRatio, profile, joinList(e.Tags), joinList(e.Languages),
		e.CreatedAt.UTC().Format(time.RFC3339Nano)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("record template: %w", err)
	}
	lib.log.Debug("template recorded", slog.Int64("id", id), slog.String("path", e.Path))
	return id, nil
}

// Remove deletes the entry for path and reports whether one existed.
func (lib *Library) Remove(ctx context.Context, path string) (bool, error) {
	res, err := lib.db.ExecContext(ctx, `DELETE FROM templates WHERE path = ?`, path)
	if err != nil {
		return false, fmt.Errorf("remove template: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Search returns matching entries, newest first.
func (lib *Library) Search(ctx context.Context, q Query) ([]Entry, error) {
	var args []any
	var sb strings.Builder
	sb.WriteString("SELECT t.id, t.name, t.path, t.hash, t.aspect, t.profile, t.tags, t.languages, t.created_at\n")
	if strings.TrimSpace(q.Text) != "" {
		sb.WriteString("FROM fts_templates JOIN templates t ON fts_templates.rowid = t.id\nWHERE fts_templates MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("FROM templates t\nWHERE 1=1\n")
	}
	if s := strings.TrimSpace(q.Tag); s != "" {
		sb.WriteString(" AND t.tags LIKE ?\n")
		args = append(args, "%,"+s+",%")
	}
	if s := strings.TrimSpace(q.Language); s != "" {
		sb.WriteString(" AND t.languages LIKE ?\n")
		args = append(args, "%,"+s+",%")
	}
	if s := strings.TrimSpace(q.AspectRatio); s != "" {
		sb.WriteString(" AND t.aspect = ?\n")
		args = append(args, s)
	}
	if q.Profile != nil {
		sb.WriteString(" AND t.profile = ?\n")
		if *q.Profile {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := max(q.Offset, 0)
	sb.WriteString("ORDER BY t.created_at DESC, t.id DESC\nLIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := lib.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search templates: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Entry
	for rows.Next() {
		var e Entry
		var profile int
		var tags, langs, created string
		if err := rows.Scan(&e.ID, &e.Name, &e.Path, &e.Hash, &e.AspectRatio, &profile, &tags, &langs, &created); err != nil {
			return nil, err
		}
		e.Profile = profile == 1
		e.Tags = splitList(tags)
		e.Languages = splitList(langs)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}
