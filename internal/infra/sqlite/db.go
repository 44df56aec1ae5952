// Package sqlite provides SQLite-based checkpoint persistence for the
// standby engine's history store. Uses WAL mode for concurrent reads
// and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/lumenhost/standbyd/internal/domain"
)

// snapshotSchemaVersion is bumped whenever the on-disk row shape
// changes incompatibly (domain.ErrSnapshotVersion, §7).
const snapshotSchemaVersion = 1

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/standby.db. Enables
// WAL mode and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "standby.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := d.checkSchemaVersion(); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS schema_info (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS app_history (
			user_id                     INTEGER NOT NULL,
			package                     TEXT NOT NULL,
			current_bucket              INTEGER NOT NULL,
			current_reason              INTEGER NOT NULL,
			current_subtag              TEXT NOT NULL DEFAULT '',
			bucket_set_at_elapsed       INTEGER NOT NULL,
			used                        BOOLEAN NOT NULL DEFAULT 0,
			last_used_elapsed           INTEGER NOT NULL DEFAULT 0,
			last_used_screen_on_elapsed INTEGER NOT NULL DEFAULT 0,
			last_predicted_bucket       INTEGER,
			last_predicted_at_elapsed   INTEGER NOT NULL DEFAULT 0,
			forced_idle                 BOOLEAN NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, package)
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	_, err := d.db.Exec(
		`INSERT INTO schema_info (key, value) VALUES ('version', ?)
		 ON CONFLICT(key) DO NOTHING`, fmt.Sprintf("%d", snapshotSchemaVersion))
	return err
}

// checkSchemaVersion refuses to operate against a newer on-disk format
// than this binary understands (§7).
func (d *DB) checkSchemaVersion() error {
	var value string
	err := d.db.QueryRow(`SELECT value FROM schema_info WHERE key = 'version'`).Scan(&value)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	var on int
	fmt.Sscanf(value, "%d", &on)
	if on > snapshotSchemaVersion {
		return domain.ErrSnapshotVersion
	}
	return nil
}

// ─── Checkpoint persistence ─────────────────────────────────────────────────

// SaveSnapshot deletes every stored row and then inserts every record,
// all in one transaction — a full-replace checkpoint,
// not an incremental diff, matching the history store's own
// Snapshot()/Restore() pair.
func (d *DB) SaveSnapshot(records []domain.AppHistory) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM app_history`); err != nil {
		return fmt.Errorf("clear app_history: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO app_history (
			user_id, package, current_bucket, current_reason, current_subtag,
			bucket_set_at_elapsed, used, last_used_elapsed, last_used_screen_on_elapsed,
			last_predicted_bucket, last_predicted_at_elapsed, forced_idle
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range records {
		var predicted sql.NullInt64
		if h.LastPredictedBucket != nil {
			predicted = sql.NullInt64{Int64: int64(*h.LastPredictedBucket), Valid: true}
		}
		_, err := stmt.Exec(
			h.User, h.Package, int(h.CurrentBucket), int(h.CurrentReason.Reason), h.CurrentReason.Subtag,
			h.BucketSetAtElapsed, h.Used, h.LastUsedElapsed, h.LastUsedScreenOnElapsed,
			predicted, h.LastPredictedAtElapsed, h.ForcedIdle,
		)
		if err != nil {
			return fmt.Errorf("insert app_history %d/%s: %w", h.User, h.Package, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns every persisted record.
func (d *DB) LoadSnapshot() ([]domain.AppHistory, error) {
	rows, err := d.db.Query(
		`SELECT user_id, package, current_bucket, current_reason, current_subtag,
			bucket_set_at_elapsed, used, last_used_elapsed, last_used_screen_on_elapsed,
			last_predicted_bucket, last_predicted_at_elapsed, forced_idle
		 FROM app_history`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AppHistory
	for rows.Next() {
		var h domain.AppHistory
		var bucket, reason int
		var predicted sql.NullInt64
		if err := rows.Scan(
			&h.User, &h.Package, &bucket, &reason, &h.CurrentReason.Subtag,
			&h.BucketSetAtElapsed, &h.Used, &h.LastUsedElapsed, &h.LastUsedScreenOnElapsed,
			&predicted, &h.LastPredictedAtElapsed, &h.ForcedIdle,
		); err != nil {
			return nil, err
		}
		h.CurrentBucket = domain.Bucket(bucket)
		h.CurrentReason.Reason = domain.Reason(reason)
		if predicted.Valid {
			b := domain.Bucket(predicted.Int64)
			h.LastPredictedBucket = &b
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
