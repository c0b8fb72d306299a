/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package catalog publishes exported templates into a shared Postgres
// catalog that the mobile app backend reads from.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	applog "posterstudio/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	ErrEmptyDSN     = errors.New("catalog DSN is empty")
	ErrEmptyName    = errors.New("template name is empty")
	ErrNotPublished = errors.New("template not in catalog")
)

// Catalog is a handle on the shared template catalog.
type Catalog struct {
	db  *sql.DB
	log *slog.Logger
}

// Published is one catalog row. Version counts how often the same document
// was published.
type Published struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Hash        string    `json:"hash"`
	AspectRatio string    `json:"aspectRatio"`
	Profile     bool      `json:"profile"`
	Tags        []string  `json:"tags"`
	Languages   []string  `json:"languages"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Open connects to Postgres through the pgx stdlib driver, checks the
// connection and applies pending migrations.
func Open(ctx context.Context, dsn string) (*Catalog, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrEmptyDSN
	}
	l := applog.WithOperation(applog.WithComponent("catalog"), "open")
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := applyMigrations(ctx, db, l); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Catalog{db: db, log: applog.WithComponent("catalog")}, nil
}

// Close releases the connection pool.
func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Ping checks that the catalog is reachable.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// meta is the part of an export document the catalog indexes.
type meta struct {
	AspectRatio string   `json:"ar"`
	Profile     bool     `json:"t"`
	Categories  []string `json:"pc"`
	Languages   []string `json:"lg"`
}

func parseMeta(doc []byte) (meta, error) {
	var m meta
	if err := json.Unmarshal(doc, &m); err != nil {
		return meta{}, fmt.Errorf("parse template: %w", err)
	}
	if m.Categories == nil {
		m.Categories = []string{}
	}
	if m.Languages == nil {
		m.Languages = []string{}
	}
	return m, nil
}

// ContentHash is the hex SHA-256 of a serialized template.
func ContentHash(doc []byte) string {
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:])
}

// Publish upserts a serialized template keyed by its content hash.
// Publishing identical bytes again renames the entry and bumps its version.
func (c *Catalog) Publish(ctx context.Context, name string, doc []byte) (Published, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Published{}, ErrEmptyName
	}
	m, err := parseMeta(doc)
	if err != nil {
		return Published{}, err
	}
	p := Published{
		Name:        name,
		Hash:        ContentHash(doc),
		AspectRatio: m.AspectRatio,
		Profile:     m.Profile,
		Tags:        m.Categories,
		Languages:   m.Languages,
	}
	// dialect=PostgreSQL
	row := c.db.QueryRowContext(ctx, `INSERT INTO templates(name, content_hash, aspect_ratio, profile, tags, languages, doc)
		VALUES($1, $2, $3, $4, $5, $6, $7::jsonb)
		ON CONFLICT (content_hash) DO UPDATE SET
			name = EXCLUDED.name,
			version = templates.version + 1,
			updated_at = now()
		RETURNING id, version, created_at, updated_at`,
		p.Name, p.Hash, p.AspectRatio, p.Profile, p.Tags, p.Languages, string(doc))
	if err := row.Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Published{}, fmt.Errorf("publish template: %w", err)
	}
	c.log.Info("template published", slog.Int64("id", p.ID), slog.String("hash", p.Hash[:12]), slog.Int64("version", p.Version))
	return p, nil
}

// List returns published templates, newest first. A non-empty tag keeps
// only templates carrying it.
func (c *Catalog) List(ctx context.Context, tag string) ([]Published, error) {
	// dialect=PostgreSQL
	rows, err := c.db.QueryContext(ctx, `SELECT id, name, content_hash, aspect_ratio, profile,
			array_to_string(tags, E'\x1f'), array_to_string(languages, E'\x1f'),
			version, created_at, updated_at
		FROM templates
		WHERE $1 = '' OR $1 = ANY(tags)
		ORDER BY updated_at DESC, id DESC`, strings.TrimSpace(tag))
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := []Published{}
	for rows.Next() {
		var (
			p          Published
			tags, lang string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Hash, &p.AspectRatio, &p.Profile, &tags, &lang, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		p.Tags = splitList(tags)
		p.Languages = splitList(lang)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

// Document returns the stored JSON of the template with the given hash.
func (c *Catalog) Document(ctx context.Context, hash string) ([]byte, error) {
	var doc string
	err := c.db.QueryRowContext(ctx, `SELECT doc::text FROM templates WHERE content_hash = $1`, hash).Scan(&doc)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNotPublished
	case err != nil:
		return nil, fmt.Errorf("load template: %w", err)
	}
	return []byte(doc), nil
}

// Unpublish removes a template; it reports whether a row was deleted.
func (c *Catalog) Unpublish(ctx context.Context, hash string) (bool, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM templates WHERE content_hash = $1`, hash)
	if err != nil {
		return false, fmt.Errorf("unpublish template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\x1f")
}

// applyMigrations applies embedded SQL migrations in filename order and
// records each one in schema_migrations.
func applyMigrations(ctx context.Context, db *sql.DB, l *slog.Logger) error {
	files, err := migrationFiles()
	if err != nil {
		return err
	}
	// dialect=PostgreSQL
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied := map[int64]bool{}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("select schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			_ = rows.Close()
			return err
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	_ = rows.Close()

	for _, fname := range files {
		version, err := parseVersion(fname)
		if err != nil {
			return err
		}
		if applied[version] {
			continue
		}
		b, err := migrationsFS.ReadFile(path.Join("migrations", fname))
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(b)) == "" {
			continue
		}
		l.Info("applying migration", slog.String("file", fname))
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(b)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", fname, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version, name) VALUES($1, $2)`, version, fname); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", fname, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", fname, err)
		}
	}
	return nil
}

func migrationFiles() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name := e.Name(); strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

func parseVersion(name string) (int64, error) {
	base := path.Base(name)
	prefix, _, ok := strings.Cut(base, "_")
	if !ok {
		return 0, errors.New("invalid migration filename: " + name)
	}
	v, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse version from %s: %w", name, err)
	}
	return v, nil
}
