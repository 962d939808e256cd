// Package journal records CI gate runs in a local sqlite database.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rsclarke/mobsf/internal/models"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens (creating if needed) the journal at dbPath and applies pending
// migrations. WAL with a busy timeout lets a history listing read while a CI
// run is writing; NORMAL sync is enough for an append-only run log.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return db, nil
}

func applyMigrations(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var migrations []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			migrations = append(migrations, e.Name())
		}
	}
	sort.Strings(migrations)

	for _, name := range migrations {
		version, err := parseVersion(name)
		if err != nil {
			return fmt.Errorf("parse version from %s: %w", name, err)
		}

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", version, err)
		}
		if count > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile(path.Join("migrations", name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}

		if _, err := db.Exec("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, time.Now().Unix()); err != nil {
			return fmt.Errorf("record migration %d: %w", version, err)
		}
	}

	return nil
}

func parseVersion(filename string) (int, error) {
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid migration filename: %s", filename)
	}
	return strconv.Atoi(parts[0])
}

// Record inserts run. An empty ID or zero CreatedAt is filled in.
func Record(ctx context.Context, d *sql.DB, run *models.GateRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().Unix()
	}

	_, err := d.ExecContext(ctx, `
		INSERT INTO gate_runs (
			id, created_at, api_key_fingerprint, server, file_name, hash, scan_type,
			average_cvss, security_score, detected_trackers, total_trackers, passed, reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.APIKeyFingerprint, run.Server, run.FileName, run.Hash, run.ScanType,
		run.AverageCVSS, run.SecurityScore, run.DetectedTrackers, run.TotalTrackers, run.Passed, run.Reason,
	)
	if err != nil {
		return fmt.Errorf("record gate run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all runs.
func List(ctx context.Context, d *sql.DB, limit int) ([]models.GateRun, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := d.QueryContext(ctx, `
		SELECT id, created_at, api_key_fingerprint, server, file_name, hash, scan_type,
			average_cvss, security_score, detected_trackers, total_trackers, passed, reason
		FROM gate_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.GateRun
	for rows.Next() {
		var r models.GateRun
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.APIKeyFingerprint, &r.Server, &r.FileName, &r.Hash, &r.ScanType,
			&r.AverageCVSS, &r.SecurityScore, &r.DetectedTrackers, &r.TotalTrackers, &r.Passed, &r.Reason); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
