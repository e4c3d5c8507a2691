package scenario

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"orgtwin/internal/cascade"
)

// FormatVersion is stamped on every persisted result payload. Version 1
// payloads (or rows written before the version column was populated) carried
// a bare cascade result; they are still readable.
const FormatVersion = 2

// ErrNotFound marks a missing scenario or result.
var ErrNotFound = errors.New("not found")

// Store persists scenario definitions and run results in SQLite. Writes are
// last-write-wins; no further transactional guarantees are needed.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and migrates) the scenario database at path.
func OpenStore(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario store: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS scenarios (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	config     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	scenario_id    TEXT PRIMARY KEY,
	format_version INTEGER NOT NULL DEFAULT 1,
	payload        TEXT NOT NULL,
	saved_at       TEXT NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to migrate scenario store: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// SaveDefinition inserts or replaces a scenario definition.
func (s *Store) SaveDefinition(def Definition) error {
	cfg, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode scenario %s: %w", def.ID, err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO scenarios(id,name,created_at,config) VALUES (?,?,?,?)`,
		def.ID, def.Name, def.CreatedAt.UTC().Format(time.RFC3339), string(cfg))
	return err
}

// GetDefinition loads one scenario definition.
func (s *Store) GetDefinition(id string) (Definition, error) {
	var raw string
	err := s.db.QueryRow(`SELECT config FROM scenarios WHERE id=?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return Definition{}, fmt.Errorf("scenario %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Definition{}, err
	}
	var def Definition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		return Definition{}, fmt.Errorf("failed to decode scenario %s: %w", id, err)
	}
	return def, nil
}

// ScenarioSummary is one row of List.
type ScenarioSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SimulationType string    `json:"simulation_type"`
	ScopeName      string    `json:"scope_name"`
	CreatedAt      time.Time `json:"created_at"`
	HasResult      bool      `json:"has_result"`
}

// List returns all scenarios, newest first.
func (s *Store) List() ([]ScenarioSummary, error) {
	rows, err := s.db.Query(`
SELECT sc.config, r.scenario_id IS NOT NULL
FROM scenarios sc LEFT JOIN results r ON r.scenario_id = sc.id
ORDER BY sc.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScenarioSummary
	for rows.Next() {
		var raw string
		var hasResult bool
		if err := rows.Scan(&raw, &hasResult); err != nil {
			return nil, err
		}
		var def Definition
		if err := json.Unmarshal([]byte(raw), &def); err != nil {
			log.Warn().Err(err).Msg("Skipping undecodable scenario row")
			continue
		}
		out = append(out, ScenarioSummary{
			ID:             def.ID,
			Name:           def.Name,
			SimulationType: def.SimulationType,
			ScopeName:      def.ScopeName,
			CreatedAt:      def.CreatedAt,
			HasResult:      hasResult,
		})
	}
	return out, rows.Err()
}

// Delete removes a scenario and its result. Returns false when nothing was
// deleted.
func (s *Store) Delete(id string) (bool, error) {
	if _, err := s.db.Exec(`DELETE FROM results WHERE scenario_id=?`, id); err != nil {
		return false, err
	}
	res, err := s.db.Exec(`DELETE FROM scenarios WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SaveResult persists a run result, stamping the current format version.
func (s *Store) SaveResult(id string, result *RunResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result for %s: %w", id, err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO results(scenario_id,format_version,payload,saved_at) VALUES (?,?,?,?)`,
		id, FormatVersion, string(payload), time.Now().UTC().Format(time.RFC3339))
	return err
}

// LoadResult loads a run result, tolerating the legacy payload format:
// version 1 rows stored the bare cascade result, which is wrapped into a
// RunResult on the way out.
func (s *Store) LoadResult(id string) (*RunResult, error) {
	var version int
	var payload string
	err := s.db.QueryRow(
		`SELECT format_version, payload FROM results WHERE scenario_id=?`, id).
		Scan(&version, &payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("result for scenario %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if version < FormatVersion {
		var legacy cascade.Result
		if err := json.Unmarshal([]byte(payload), &legacy); err != nil {
			return nil, fmt.Errorf("failed to decode legacy result for %s: %w", id, err)
		}
		log.Debug().Str("scenario", id).Int("version", version).Msg("Upgraded legacy result payload")
		return &RunResult{ScenarioID: id, Cascade: &legacy}, nil
	}

	var result RunResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to decode result for %s: %w", id, err)
	}
	return &result, nil
}
