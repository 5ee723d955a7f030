package settings

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/dropDatabas3/pwfilter/migrations/postgres"
)

// Formato de archivo: {version}_{name}.sql (ej: 0001_settings.sql)
var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

// Migration es una migración individual.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationResult resume una corrida de Migrate.
type MigrationResult struct {
	Applied  []int
	Skipped  []int
	Duration time.Duration
}

// ParseMigrations lee las migraciones embebidas, ordenadas por versión.
func ParseMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	var out []Migration
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		m := migrationFilePattern.FindStringSubmatch(path.Base(p))
		if m == nil {
			return nil
		}
		version, _ := strconv.Atoi(m[1])
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		out = append(out, Migration{Version: version, Name: m[2], SQL: string(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Migrate creates the settings table and applies pending migrations,
// tracking them in _pwfilter_migrations.
func Migrate(ctx context.Context, db Execer) (*MigrationResult, error) {
	start := time.Now()
	res := &MigrationResult{}

	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS _pwfilter_migrations (
			version INT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`); err != nil {
		return nil, fmt.Errorf("creating migrations table: %w", err)
	}

	migs, err := ParseMigrations(postgres.SettingsFS, postgres.SettingsDir)
	if err != nil {
		return nil, fmt.Errorf("parsing migrations: %w", err)
	}

	for _, mig := range migs {
		var exists bool
		if err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM _pwfilter_migrations WHERE version = $1)`, mig.Version).Scan(&exists); err != nil {
			return nil, fmt.Errorf("checking migration %d: %w", mig.Version, err)
		}
		if exists {
			res.Skipped = append(res.Skipped, mig.Version)
			continue
		}
		if _, err := db.Exec(ctx, mig.SQL); err != nil {
			return nil, fmt.Errorf("applying migration %d_%s: %w", mig.Version, mig.Name, err)
		}
		if _, err := db.Exec(ctx, `INSERT INTO _pwfilter_migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name); err != nil {
			return nil, fmt.Errorf("recording migration %d: %w", mig.Version, err)
		}
		res.Applied = append(res.Applied, mig.Version)
	}
	res.Duration = time.Since(start)
	return res, nil
}
