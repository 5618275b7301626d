package fracturelog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fracturelabs/antifragile/go-engine/internal/engine"
	"github.com/fracturelabs/antifragile/go-engine/internal/policy"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS fracture_events (
	event_id           TEXT PRIMARY KEY,
	at                 TEXT NOT NULL,
	severity           REAL NOT NULL,
	context            TEXT NOT NULL,
	state_key          TEXT NOT NULL,
	fi_trend           REAL NOT NULL,
	critical_threshold REAL NOT NULL,
	factors_json       TEXT,
	interventions_json TEXT
);

CREATE TABLE IF NOT EXISTS engine_events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	at          TEXT NOT NULL,
	kind        TEXT NOT NULL,
	detail_json TEXT
);

CREATE INDEX IF NOT EXISTS idx_fracture_at ON fracture_events(at);
CREATE INDEX IF NOT EXISTS idx_fracture_context ON fracture_events(context);
`

// #endregion schema

// #region store

// Store journals fractures and engine events in SQLite. Purely an
// audit surface; the engine never reads learning state back from it.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for inspection tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region writes

// RecordFracture journals one fracture event.
func (s *Store) RecordFracture(ev engine.FractureEvent) error {
	factors, err := json.Marshal(ev.Analysis.Factors)
	if err != nil {
		return fmt.Errorf("marshal factors: %w", err)
	}
	interventions, err := json.Marshal(ev.Analysis.Interventions)
	if err != nil {
		return fmt.Errorf("marshal interventions: %w", err)
	}
	key := policy.FrameKey(ev.Analysis.Trigger)

	_, err = s.db.Exec(
		`INSERT INTO fracture_events
		   (event_id, at, severity, context, state_key, fi_trend, critical_threshold, factors_json, interventions_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.At.UTC().Format(time.RFC3339Nano), ev.Severity, ev.Context, key.String(),
		ev.Analysis.Pathway.FITrend, ev.Analysis.Pathway.CriticalThreshold,
		string(factors), string(interventions),
	)
	if err != nil {
		return fmt.Errorf("insert fracture: %w", err)
	}
	return nil
}

// RecordEvent journals one engine event with an arbitrary JSON-able
// detail payload.
func (s *Store) RecordEvent(kind EventKind, at time.Time, detail any) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal detail: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO engine_events (at, kind, detail_json) VALUES (?, ?, ?)`,
		at.UTC().Format(time.RFC3339Nano), string(kind), string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// RecordTick journals everything one engine tick produced.
func (s *Store) RecordTick(res engine.TickResult) error {
	if res.Fracture != nil {
		if err := s.RecordFracture(res.Fracture.Event); err != nil {
			return err
		}
	}
	if res.Policy != nil {
		if err := s.RecordEvent(KindPolicyUpdate, res.Frame.Timestamp, res.Policy); err != nil {
			return err
		}
	}
	if res.Structural != nil {
		if err := s.RecordEvent(KindMiningPass, res.Frame.Timestamp, res.Structural); err != nil {
			return err
		}
	}
	return nil
}

// #endregion writes

// #region reads

// ListFractures returns up to limit journaled fractures, newest first.
// limit <= 0 means no limit.
func (s *Store) ListFractures(limit int) ([]FractureRow, error) {
	q := `SELECT event_id, at, severity, context, state_key, fi_trend, critical_threshold, factors_json, interventions_json
	      FROM fracture_events ORDER BY at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query fractures: %w", err)
	}
	defer rows.Close()

	var out []FractureRow
	for rows.Next() {
		var r FractureRow
		var at, factors, interventions string
		if err := rows.Scan(&r.ID, &at, &r.Severity, &r.Context, &r.StateKey,
			&r.FITrend, &r.CriticalThreshold, &factors, &interventions); err != nil {
			return nil, fmt.Errorf("scan fracture: %w", err)
		}
		if r.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		if factors != "" {
			if err := json.Unmarshal([]byte(factors), &r.Factors); err != nil {
				return nil, fmt.Errorf("unmarshal factors: %w", err)
			}
		}
		if interventions != "" {
			if err := json.Unmarshal([]byte(interventions), &r.Interventions); err != nil {
				return nil, fmt.Errorf("unmarshal interventions: %w", err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListEvents returns up to limit engine events of one kind, newest
// first. Empty kind matches all kinds; limit <= 0 means no limit.
func (s *Store) ListEvents(kind EventKind, limit int) ([]EventRow, error) {
	q := `SELECT id, at, kind, detail_json FROM engine_events`
	args := []any{}
	if kind != "" {
		q += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	q += ` ORDER BY id DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []EventRow
	for rows.Next() {
		var r EventRow
		var at, kind string
		if err := rows.Scan(&r.ID, &at, &kind, &r.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if r.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		r.Kind = EventKind(kind)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summarize aggregates the journal for reporting.
func (s *Store) Summarize() (Summary, error) {
	var sum Summary
	row := s.db.QueryRow(`SELECT COUNT(*), COALESCE(AVG(severity), 0), COALESCE(MAX(severity), 0) FROM fracture_events`)
	if err := row.Scan(&sum.TotalFractures, &sum.MeanSeverity, &sum.MaxSeverity); err != nil {
		return Summary{}, fmt.Errorf("aggregate fractures: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT context, COUNT(*) AS n FROM fracture_events
		 GROUP BY context ORDER BY n DESC, context ASC LIMIT 5`)
	if err != nil {
		return Summary{}, fmt.Errorf("query contexts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cc ContextCount
		if err := rows.Scan(&cc.Context, &cc.Count); err != nil {
			return Summary{}, fmt.Errorf("scan context: %w", err)
		}
		sum.TopContexts = append(sum.TopContexts, cc)
	}
	return sum, rows.Err()
}

// #endregion reads
