// Package store archives completed runs in a local SQLite database so
// past judgments and experiments stay queryable after the report files
// are gone.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/decodestack/decode-gate/internal/engine"
	"github.com/decodestack/decode-gate/internal/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id                TEXT PRIMARY KEY,
	source                TEXT NOT NULL,
	matrix_schema_version TEXT NOT NULL,
	started_at            TEXT NOT NULL,
	completed_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS channel_results (
	run_id             TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	channel            TEXT NOT NULL,
	applicability_json TEXT NOT NULL,
	experiments_json   TEXT NOT NULL,
	PRIMARY KEY (run_id, channel)
);
`

// Store is the run archive. Safe for concurrent use; the underlying
// *sql.DB serializes access.
type Store struct {
	db *sql.DB
}

// Open creates or opens the archive at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, utils.NewAppError("store.Open", fmt.Sprintf("open %s", path), err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, utils.NewAppError("store.Open", "set pragmas", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, utils.NewAppError("store.Open", "apply schema", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun archives one run and all of its channel results atomically.
func (s *Store) SaveRun(run engine.RunResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return utils.NewAppError("store.SaveRun", "begin tx", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, source, matrix_schema_version, started_at, completed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		run.RunID, run.Source, run.MatrixSchemaVersion,
		run.StartedAt.Format(time.RFC3339Nano), run.CompletedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return utils.NewAppError("store.SaveRun", fmt.Sprintf("insert run %s", run.RunID), err)
	}

	for channel, result := range run.Channels {
		applicability, err := json.Marshal(result.Applicability)
		if err != nil {
			return utils.NewAppError("store.SaveRun", fmt.Sprintf("marshal applicability for %s", channel), err)
		}
		experiments, err := json.Marshal(result.Experiments)
		if err != nil {
			return utils.NewAppError("store.SaveRun", fmt.Sprintf("marshal experiments for %s", channel), err)
		}
		_, err = tx.Exec(
			`INSERT INTO channel_results (run_id, channel, applicability_json, experiments_json)
			 VALUES (?, ?, ?, ?)`,
			run.RunID, channel, string(applicability), string(experiments),
		)
		if err != nil {
			return utils.NewAppError("store.SaveRun", fmt.Sprintf("insert channel %s", channel), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return utils.NewAppError("store.SaveRun", "commit", err)
	}
	return nil
}

// RunSummary is one archived run's header row.
type RunSummary struct {
	RunID               string    `json:"run_id"`
	Source              string    `json:"source"`
	MatrixSchemaVersion string    `json:"matrix_schema_version"`
	StartedAt           time.Time `json:"started_at"`
	CompletedAt         time.Time `json:"completed_at"`
	Channels            int       `json:"channels"`
}

// ListRuns returns archived run headers, newest first, up to limit.
// A non-positive limit returns everything.
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	query := `
		SELECT r.run_id, r.source, r.matrix_schema_version, r.started_at, r.completed_at,
		       COUNT(c.channel)
		FROM runs r
		LEFT JOIN channel_results c ON c.run_id = r.run_id
		GROUP BY r.run_id
		ORDER BY r.started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, utils.NewAppError("store.ListRuns", "query runs", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var summary RunSummary
		var started, completed string
		if err := rows.Scan(&summary.RunID, &summary.Source, &summary.MatrixSchemaVersion,
			&started, &completed, &summary.Channels); err != nil {
			return nil, utils.NewAppError("store.ListRuns", "scan row", err)
		}
		if summary.StartedAt, err = utils.ParseRFC3339(started); err != nil {
			return nil, utils.NewAppError("store.ListRuns", "parse started_at", err)
		}
		if summary.CompletedAt, err = utils.ParseRFC3339(completed); err != nil {
			return nil, utils.NewAppError("store.ListRuns", "parse completed_at", err)
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// LoadRun reconstructs one archived run by id.
func (s *Store) LoadRun(runID string) (engine.RunResult, error) {
	var run engine.RunResult
	var started, completed string

	err := s.db.QueryRow(
		`SELECT run_id, source, matrix_schema_version, started_at, completed_at
		 FROM runs WHERE run_id = ?`, runID,
	).Scan(&run.RunID, &run.Source, &run.MatrixSchemaVersion, &started, &completed)
	if err != nil {
		return engine.RunResult{}, utils.NewAppError("store.LoadRun", fmt.Sprintf("load run %s", runID), err)
	}
	if run.StartedAt, err = utils.ParseRFC3339(started); err != nil {
		return engine.RunResult{}, utils.NewAppError("store.LoadRun", "parse started_at", err)
	}
	if run.CompletedAt, err = utils.ParseRFC3339(completed); err != nil {
		return engine.RunResult{}, utils.NewAppError("store.LoadRun", "parse completed_at", err)
	}

	rows, err := s.db.Query(
		`SELECT channel, applicability_json, experiments_json
		 FROM channel_results WHERE run_id = ?`, runID,
	)
	if err != nil {
		return engine.RunResult{}, utils.NewAppError("store.LoadRun", "query channels", err)
	}
	defer rows.Close()

	run.Channels = map[string]engine.ChannelResult{}
	for rows.Next() {
		var channel, applicability, experiments string
		if err := rows.Scan(&channel, &applicability, &experiments); err != nil {
			return engine.RunResult{}, utils.NewAppError("store.LoadRun", "scan channel row", err)
		}

		result := engine.ChannelResult{Channel: channel}
		if err := json.Unmarshal([]byte(applicability), &result.Applicability); err != nil {
			return engine.RunResult{}, utils.NewAppError("store.LoadRun", fmt.Sprintf("decode applicability for %s", channel), err)
		}
		if err := json.Unmarshal([]byte(experiments), &result.Experiments); err != nil {
			return engine.RunResult{}, utils.NewAppError("store.LoadRun", fmt.Sprintf("decode experiments for %s", channel), err)
		}
		run.Channels[channel] = result
	}
	return run, rows.Err()
}
