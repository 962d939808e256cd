package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rsclarke/mobsf/internal/models"
)

func openTestJournal(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "journal.db")
}

func TestOpenCreatesDatabase(t *testing.T) {
	dbPath := openTestJournal(t)

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='gate_runs'").Scan(&name)
	if err != nil {
		t.Errorf("table gate_runs not found: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dbPath := openTestJournal(t)

	for i := 0; i < 2; i++ {
		db, err := Open(dbPath)
		if err != nil {
			t.Fatalf("Open #%d failed: %v", i+1, err)
		}
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("count migrations: %v", err)
		}
		if count != 1 {
			t.Errorf("schema_migrations rows = %d, want 1", count)
		}
		_ = db.Close()
	}
}

func TestRecordAndList(t *testing.T) {
	db, err := Open(openTestJournal(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	detected, total := 3, 400

	first := &models.GateRun{
		CreatedAt:        100,
		FileName:         "old.apk",
		Hash:             "aaaa",
		ScanType:         "apk",
		AverageCVSS:      7.5,
		SecurityScore:    40,
		DetectedTrackers: &detected,
		TotalTrackers:    &total,
		Passed:           false,
		Reason:           "average CVSS 7.5 exceeds maximum 7.0",
	}
	second := &models.GateRun{
		CreatedAt:     200,
		FileName:      "new.ipa",
		Hash:          "bbbb",
		ScanType:      "ipa",
		AverageCVSS:   3.2,
		SecurityScore: 80,
		Passed:        true,
	}

	for _, run := range []*models.GateRun{first, second} {
		if err := Record(ctx, db, run); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if run.ID == "" {
			t.Error("Record did not assign an ID")
		}
	}

	runs, err := List(ctx, db, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("List returned %d runs, want 2", len(runs))
	}

	if runs[0].Hash != "bbbb" || !runs[0].Passed {
		t.Errorf("newest run = %+v", runs[0])
	}
	if runs[0].DetectedTrackers != nil || runs[0].TotalTrackers != nil {
		t.Error("tracker counts should be NULL for a run without trackers")
	}

	if runs[1].Passed || runs[1].Reason != first.Reason {
		t.Errorf("oldest run = %+v", runs[1])
	}
	if runs[1].DetectedTrackers == nil || *runs[1].DetectedTrackers != 3 {
		t.Errorf("DetectedTrackers = %v, want 3", runs[1].DetectedTrackers)
	}
	if runs[1].AverageCVSS != 7.5 {
		t.Errorf("AverageCVSS = %v, want 7.5", runs[1].AverageCVSS)
	}

	limited, err := List(ctx, db, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 1 || limited[0].Hash != "bbbb" {
		t.Errorf("limited list = %+v", limited)
	}
}

func TestParseVersion(t *testing.T) {
	if v, err := parseVersion("001_gate_runs.sql"); err != nil || v != 1 {
		t.Errorf("parseVersion = %d, %v", v, err)
	}
	if _, err := parseVersion("gate_runs.sql"); err == nil {
		t.Error("expected error for filename without version")
	}
}
