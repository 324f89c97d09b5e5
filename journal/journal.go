// Package journal persists backend launch attempts to a local sqlite
// database so startup behavior can be inspected across runs. It is
// optional: the supervisor operates statelessly when no journal is
// configured.
package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Outcomes recorded for a launch attempt.
const (
	OutcomeReused      = "reused"
	OutcomeReady       = "ready"
	OutcomeSpawnFailed = "spawn_failed"
	OutcomeTimeout     = "timeout"
)

// LaunchRecord is one row in the launches table.
type LaunchRecord struct {
	ID         string `db:"id"`
	Timestamp  int64  `db:"timestamp"`
	Outcome    string `db:"outcome"`
	Port       string `db:"port"`
	AppVersion string `db:"app_version"`
	ReadyMs    int64  `db:"ready_ms"`
}

// Journal records launch attempts in a sqlite database.
type Journal struct {
	db *sqlx.DB
}

// Open opens (creating if necessary) the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open launch journal: %w", err)
	}
	if err := dbInit(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize launch journal: %w", err)
	}
	return &Journal{db: db}, nil
}

func dbInit(db *sqlx.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS launches (
		id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		port TEXT NOT NULL,
		app_version TEXT,
		ready_ms INTEGER NOT NULL
	)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_launches_timestamp ON launches(timestamp)`)
	return err
}

// RecordLaunch inserts one launch attempt. It implements
// supervisor.Recorder.
func (j *Journal) RecordLaunch(outcome, port, version string, readyAfter time.Duration) error {
	_, err := j.db.Exec(`
		INSERT INTO launches (id, timestamp, outcome, port, app_version, ready_ms)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(),
		time.Now().Unix(),
		outcome,
		port,
		version,
		readyAfter.Milliseconds(),
	)
	return err
}

// RecentLaunches returns up to n launch records, newest first.
func (j *Journal) RecentLaunches(n int) ([]LaunchRecord, error) {
	records := []LaunchRecord{}
	err := j.db.Select(&records, `
		SELECT id, timestamp, outcome, port, app_version, ready_ms
		FROM launches ORDER BY timestamp DESC, rowid DESC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
