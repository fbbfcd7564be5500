package shared

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migration is one schema step, paired up and down scripts sharing a version.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// migrationName matches {version}_{name}_{up|down}.sql, e.g. 0000_create_snapshots_up.sql.
var migrationName = regexp.MustCompile(`^(\d+)_(.+)_(up|down)\.sql$`)

// Migrator applies the embedded schema scripts to a database, tracking versions in schema_migrations.
type Migrator struct {
	db     *sql.DB
	source fs.FS
}

func NewMigrator(db *sql.DB) *Migrator {
	sub, _ := fs.Sub(migrationFiles, "sql")
	return &Migrator{db: db, source: sub}
}

// Migrations returns every known migration ordered by version.
func (m *Migrator) Migrations() ([]Migration, error) {
	names, err := fs.Glob(m.source, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	steps := map[int]*Migration{}
	for _, name := range names {
		parts := migrationName.FindStringSubmatch(name)
		if parts == nil {
			continue
		}
		version, _ := strconv.Atoi(parts[1])

		body, err := fs.ReadFile(m.source, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		step, ok := steps[version]
		if !ok {
			step = &Migration{Version: version, Name: parts[2]}
			steps[version] = step
		}
		if parts[3] == "up" {
			step.Up = string(body)
		} else {
			step.Down = string(body)
		}
	}

	out := make([]Migration, 0, len(steps))
	for _, step := range steps {
		if step.Up == "" || step.Down == "" {
			return nil, fmt.Errorf("migration %d is missing its up or down script", step.Version)
		}
		out = append(out, *step)
	}
	slices.SortFunc(out, func(a, b Migration) int { return a.Version - b.Version })
	return out, nil
}

// Applied returns the versions recorded in schema_migrations, oldest first.
func (m *Migrator) Applied() ([]int, error) {
	if _, err := m.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := m.db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// Up applies every pending migration and reports how many ran.
func (m *Migrator) Up() (int, error) {
	all, err := m.Migrations()
	if err != nil {
		return 0, err
	}
	applied, err := m.Applied()
	if err != nil {
		return 0, err
	}

	ran := 0
	for _, step := range all {
		if slices.Contains(applied, step.Version) {
			continue
		}
		if err := m.apply(step.Up, "INSERT INTO schema_migrations (version) VALUES (?)", step.Version); err != nil {
			return ran, fmt.Errorf("failed to apply migration %d (%s): %w", step.Version, step.Name, err)
		}
		ran++
	}
	return ran, nil
}

// Down reverts the newest applied migration and returns it.
func (m *Migrator) Down() (Migration, error) {
	applied, err := m.Applied()
	if err != nil {
		return Migration{}, err
	}
	if len(applied) == 0 {
		return Migration{}, ErrNoMigrations
	}
	newest := applied[len(applied)-1]

	all, err := m.Migrations()
	if err != nil {
		return Migration{}, err
	}
	i := slices.IndexFunc(all, func(step Migration) bool { return step.Version == newest })
	if i < 0 {
		return Migration{}, fmt.Errorf("applied migration %d has no script", newest)
	}

	if err := m.apply(all[i].Down, "DELETE FROM schema_migrations WHERE version = ?", newest); err != nil {
		return Migration{}, fmt.Errorf("failed to revert migration %d (%s): %w", newest, all[i].Name, err)
	}
	return all[i], nil
}

// Reset reverts every applied migration and then reapplies them all, leaving an empty schema.
func (m *Migrator) Reset() error {
	for {
		if _, err := m.Down(); errors.Is(err, ErrNoMigrations) {
			break
		} else if err != nil {
			return err
		}
	}
	_, err := m.Up()
	return err
}

// Version is the newest applied migration, or -1 on a fresh database.
func (m *Migrator) Version() (int, error) {
	applied, err := m.Applied()
	if err != nil || len(applied) == 0 {
		return -1, err
	}
	return applied[len(applied)-1], nil
}

// apply runs script and the bookkeeping statement in one transaction.
func (m *Migrator) apply(script, record string, version int) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements(script) {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("%w\nStatement: %s", err, stmt)
		}
	}
	if _, err := tx.Exec(record, version); err != nil {
		return err
	}
	return tx.Commit()
}

// statements splits a script on ";" after dropping "--" comments and blank lines.
func statements(script string) []string {
	var kept []string
	for line := range strings.Lines(script) {
		line, _, _ = strings.Cut(line, "--")
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}

	var out []string
	for stmt := range strings.SplitSeq(strings.Join(kept, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
