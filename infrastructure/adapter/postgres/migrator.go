package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/securematch/securematch/infrastructure/service/logger"
)

var ErrInvalidMigrationName = errors.New("migration file name must look like 001_name.up.sql")

const (
	directionUp   = "up"
	directionDown = "down"
)

type MigrationFile struct {
	Version   int
	Name      string
	Path      string
	Direction string
}

// MigrationStatus reports whether a known up migration has been applied.
type MigrationStatus struct {
	Version int
	Name    string
	Applied bool
}

// Migrator applies numbered SQL files from a directory and records applied
// versions in schema_migrations. Each file runs in its own transaction.
type Migrator struct {
	db     *sql.DB
	dir    string
	logger logger.Logger
}

func NewMigrator(db *sql.DB, dir string, log logger.Logger) *Migrator {
	return &Migrator{
		db:     db,
		dir:    dir,
		logger: log,
	}
}

// ParseMigrationName splits "001_create_auditors.up.sql" into its version,
// name and direction. Files without a direction suffix count as up.
func ParseMigrationName(filename string) (int, string, string, error) {
	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".sql") {
		return 0, "", "", ErrInvalidMigrationName
	}

	base := filename[:len(filename)-len(".sql")]
	direction := directionUp
	switch {
	case strings.HasSuffix(strings.ToLower(base), ".down"):
		direction = directionDown
		base = base[:len(base)-len(".down")]
	case strings.HasSuffix(strings.ToLower(base), ".up"):
		base = base[:len(base)-len(".up")]
	}

	parts := strings.SplitN(base, "_", 2)
	if len(parts) < 2 || parts[1] == "" {
		return 0, "", "", ErrInvalidMigrationName
	}
	for _, r := range parts[0] {
		if r < '0' || r > '9' {
			return 0, "", "", ErrInvalidMigrationName
		}
	}
	version, err := strconv.Atoi(parts[0])
	if err != nil || version <= 0 {
		return 0, "", "", ErrInvalidMigrationName
	}
	return version, parts[1], direction, nil
}

// Load lists the migration files in version order.
func (m *Migrator) Load(ctx context.Context) ([]MigrationFile, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations dir: %w", err)
	}

	var files []MigrationFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, name, direction, err := ParseMigrationName(e.Name())
		if err != nil {
			m.logger.Warn(ctx, "Skipping migration file", map[string]interface{}{
				"file": e.Name(),
			})
			continue
		}
		files = append(files, MigrationFile{
			Version:   version,
			Name:      name,
			Path:      filepath.Join(m.dir, e.Name()),
			Direction: direction,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// Up applies every pending up migration and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	files, err := m.Load(ctx)
	if err != nil {
		return 0, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, f := range files {
		if f.Direction != directionUp || applied[f.Version] {
			continue
		}
		m.logger.Info(ctx, "Applying migration", map[string]interface{}{
			"version": f.Version,
			"name":    f.Name,
		})
		err := m.run(ctx, f, `INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, $3)`,
			f.Version, f.Name, time.Now().UTC())
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Down reverts at most steps applied migrations, newest first. steps <= 0
// reverts all of them.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	files, err := m.Load(ctx)
	if err != nil {
		return 0, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		if f.Direction != directionDown || !applied[f.Version] {
			continue
		}
		if steps > 0 && count >= steps {
			break
		}
		m.logger.Info(ctx, "Reverting migration", map[string]interface{}{
			"version": f.Version,
			"name":    f.Name,
		})
		if err := m.run(ctx, f, `DELETE FROM schema_migrations WHERE version = $1`, f.Version); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	files, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var out []MigrationStatus
	for _, f := range files {
		if f.Direction != directionUp {
			continue
		}
		out = append(out, MigrationStatus{Version: f.Version, Name: f.Name, Applied: applied[f.Version]})
	}
	return out, nil
}

func (m *Migrator) run(ctx context.Context, f MigrationFile, bookkeeping string, args ...interface{}) error {
	body, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Path, err)
	}

	return withTx(ctx, m.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("failed to execute %s: %w", f.Path, err)
		}
		if _, err := tx.ExecContext(ctx, bookkeeping, args...); err != nil {
			return fmt.Errorf("failed to record migration %03d: %w", f.Version, err)
		}
		return nil
	})
}
