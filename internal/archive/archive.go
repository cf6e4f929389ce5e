// Package archive is the reference effect sink: it persists completed events,
// election results, and aggregated effect deltas to SQLite. The engine never
// touches it; the driver forwards each TickReport here and treats failures as
// apply failures to log, not to crash on.
package archive

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/galactic-events/internal/engine"
)

// DB wraps a SQLite connection for event history persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the archive database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS completed_events (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL,
		completed_at INTEGER NOT NULL,
		participants_json TEXT NOT NULL,
		success INTEGER NOT NULL,
		participation REAL NOT NULL,
		activities INTEGER NOT NULL,
		outcomes_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS participant_history (
		participant_id TEXT NOT NULL,
		event_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL,
		success INTEGER NOT NULL,
		PRIMARY KEY (participant_id, event_id)
	);

	CREATE TABLE IF NOT EXISTS elections (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		civilization_id TEXT NOT NULL,
		election_date INTEGER NOT NULL,
		winner TEXT NOT NULL,
		turnout REAL NOT NULL,
		results_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS effects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		applied_at INTEGER NOT NULL,
		system TEXT NOT NULL,
		key TEXT NOT NULL,
		delta REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_completed_type ON completed_events(type);
	CREATE INDEX IF NOT EXISTS idx_effects_system ON effects(system);
	CREATE INDEX IF NOT EXISTS idx_participant ON participant_history(participant_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// ApplyReport persists everything durable from one tick: completed events,
// their participant records, election results, and the aggregated effects.
func (db *DB) ApplyReport(rpt *engine.Report) error {
	if rpt == nil {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range rpt.Completed {
		if err := insertCompletion(tx, rpt.Timestamp, c); err != nil {
			return fmt.Errorf("insert completion %s: %w", c.EventID, err)
		}
	}

	for _, eu := range rpt.Elections {
		if eu.Results == nil {
			continue
		}
		resultsJSON, _ := json.Marshal(eu.Results)
		_, err := tx.Exec(`INSERT OR REPLACE INTO elections
			(id, type, civilization_id, election_date, winner, turnout, results_json)
			VALUES (?, ?, '', ?, ?, ?, ?)`,
			eu.ElectionID, eu.Type, rpt.Timestamp.Unix(),
			eu.Results.Winner, eu.Results.Turnout, string(resultsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert election %s: %w", eu.ElectionID, err)
		}
	}

	at := rpt.Timestamp.Unix()
	for system, keys := range rpt.Effects {
		for key, delta := range keys {
			if _, err := tx.Exec(
				"INSERT INTO effects (applied_at, system, key, delta) VALUES (?, ?, ?, ?)",
				at, system, key, delta,
			); err != nil {
				return fmt.Errorf("insert effect %s/%s: %w", system, key, err)
			}
		}
	}

	return tx.Commit()
}

func insertCompletion(tx *sqlx.Tx, at time.Time, c engine.EventCompletion) error {
	outcomesJSON, _ := json.Marshal(c.Outcomes)

	// The completion report doesn't carry the roster; SaveHistory later
	// replaces this sparse row with the full record.
	_, err := tx.Exec(`INSERT OR REPLACE INTO completed_events
		(id, type, start_time, end_time, completed_at, participants_json,
		 success, participation, activities, outcomes_json)
		VALUES (?, ?, 0, 0, ?, '[]', ?, ?, ?, ?)`,
		c.EventID, c.EventType, at.Unix(),
		boolToInt(c.Outcomes.Success), c.Outcomes.ParticipationLevel,
		c.Outcomes.ActivitiesCompleted, string(outcomesJSON),
	)
	return err
}

// SaveHistory persists full historical event records, replacing the sparse
// rows ApplyReport wrote for the same ids.
func (db *DB) SaveHistory(events []engine.HistoricalEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, h := range events {
		participantsJSON, _ := json.Marshal(h.Participants)
		outcomesJSON, _ := json.Marshal(h.Outcomes)

		_, err := tx.Exec(`INSERT OR REPLACE INTO completed_events
			(id, type, start_time, end_time, completed_at, participants_json,
			 success, participation, activities, outcomes_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.Type, h.StartTime.Unix(), h.EndTime.Unix(), h.CompletedAt.Unix(),
			string(participantsJSON), boolToInt(h.Outcomes.Success),
			h.Outcomes.ParticipationLevel, len(h.Activities), string(outcomesJSON),
		)
		if err != nil {
			return fmt.Errorf("insert history %s: %w", h.ID, err)
		}

		for _, pid := range h.Participants {
			_, err := tx.Exec(`INSERT OR REPLACE INTO participant_history
				(participant_id, event_id, event_type, start_time, end_time, success)
				VALUES (?, ?, ?, ?, ?, ?)`,
				pid, h.ID, h.Type, h.StartTime.Unix(), h.EndTime.Unix(),
				boolToInt(h.Outcomes.Success),
			)
			if err != nil {
				return fmt.Errorf("insert participant %s/%s: %w", pid, h.ID, err)
			}
		}
	}

	return tx.Commit()
}

// CompletedRow is one persisted completed event.
type CompletedRow struct {
	ID            string  `db:"id"`
	Type          string  `db:"type"`
	CompletedAt   int64   `db:"completed_at"`
	Success       int     `db:"success"`
	Activities    int     `db:"activities"`
	Participation float64 `db:"participation"`
}

// RecentCompleted returns the most recently completed events.
func (db *DB) RecentCompleted(limit int) ([]CompletedRow, error) {
	var rows []CompletedRow
	err := db.conn.Select(&rows,
		`SELECT id, type, completed_at, success, activities, participation
		 FROM completed_events ORDER BY completed_at DESC LIMIT ?`, limit)
	return rows, err
}

// EffectTotals sums persisted deltas per key for one target system.
func (db *DB) EffectTotals(system string) (map[string]float64, error) {
	rows, err := db.conn.Queryx(
		"SELECT key, SUM(delta) AS total FROM effects WHERE system = ? GROUP BY key", system)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var key string
		var total float64
		if err := rows.Scan(&key, &total); err != nil {
			return nil, err
		}
		out[key] = total
	}
	return out, rows.Err()
}

// CompletedCount returns the number of persisted completed events.
func (db *DB) CompletedCount() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM completed_events")
	return n, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// LogSummary writes a one-line archive summary, used by the driver at
// shutdown.
func (db *DB) LogSummary() {
	n, err := db.CompletedCount()
	if err != nil {
		slog.Warn("archive summary failed", "error", err)
		return
	}
	slog.Info("archive summary", "completed_events", n)
}
