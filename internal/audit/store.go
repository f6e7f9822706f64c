package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/axiomhive/swarm-engine/internal/mapper"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS decision_log (
	id            TEXT PRIMARY KEY,
	proposal_id   TEXT NOT NULL,
	agent_id      TEXT,
	action        TEXT NOT NULL,
	status        TEXT NOT NULL,
	approvals     INTEGER NOT NULL,
	rejections    INTEGER NOT NULL,
	approval_rate REAL NOT NULL,
	note          TEXT,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decision_proposal ON decision_log(proposal_id);

CREATE TABLE IF NOT EXISTS topology_snapshots (
	id          TEXT PRIMARY KEY,
	nodes       INTEGER NOT NULL,
	edges       INTEGER NOT NULL,
	components  INTEGER NOT NULL,
	cycles      INTEGER NOT NULL,
	graph_json  TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region store

// Store persists consensus decisions and topology snapshots in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations. Parent directories
// are created as needed.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close shuts down the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion store

// #region decisions

// LogDecision appends a consensus outcome to the decision log.
func (s *Store) LogDecision(entry DecisionEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO decision_log (id, proposal_id, agent_id, action, status, approvals, rejections, approval_rate, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.ProposalID,
		nullIfEmpty(entry.AgentID),
		entry.Action,
		entry.Status,
		entry.Approvals,
		entry.Rejections,
		entry.ApprovalRate,
		nullIfEmpty(entry.Note),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// RecentDecisions returns up to limit entries, newest first.
func (s *Store) RecentDecisions(limit int) ([]DecisionEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, proposal_id, COALESCE(agent_id, ''), action, status, approvals, rejections, approval_rate, COALESCE(note, ''), created_at
		 FROM decision_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var entries []DecisionEntry
	for rows.Next() {
		var e DecisionEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.ProposalID, &e.AgentID, &e.Action, &e.Status,
			&e.Approvals, &e.Rejections, &e.ApprovalRate, &e.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DecisionsForProposal returns every logged outcome for one proposal id,
// oldest first.
func (s *Store) DecisionsForProposal(proposalID string) ([]DecisionEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, proposal_id, COALESCE(agent_id, ''), action, status, approvals, rejections, approval_rate, COALESCE(note, ''), created_at
		 FROM decision_log WHERE proposal_id = ? ORDER BY created_at ASC`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("query proposal decisions: %w", err)
	}
	defer rows.Close()

	var entries []DecisionEntry
	for rows.Next() {
		var e DecisionEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.ProposalID, &e.AgentID, &e.Action, &e.Status,
			&e.Approvals, &e.Rejections, &e.ApprovalRate, &e.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion decisions

// #region snapshots

// SaveSnapshot stores a mapper graph with its connectivity summary and
// returns the snapshot id.
func (s *Store) SaveSnapshot(g mapper.Graph) (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("marshal graph: %w", err)
	}
	sum := mapper.Summarize(g)
	id := uuid.New().String()
	_, err = s.db.Exec(
		`INSERT INTO topology_snapshots (id, nodes, edges, components, cycles, graph_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, sum.Nodes, sum.Edges, sum.Components, sum.Cycles, string(data),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recent snapshot, or nil if none exists.
func (s *Store) LatestSnapshot() (*SnapshotEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, nodes, edges, components, cycles, graph_json, created_at
		 FROM topology_snapshots ORDER BY created_at DESC LIMIT 1`)
	var e SnapshotEntry
	var createdAt string
	if err := row.Scan(&e.ID, &e.Nodes, &e.Edges, &e.Components, &e.Cycles, &e.GraphJSON, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &e, nil
}

// DecodeSnapshot unmarshals a stored graph.
func DecodeSnapshot(e *SnapshotEntry) (mapper.Graph, error) {
	var g mapper.Graph
	if err := json.Unmarshal([]byte(e.GraphJSON), &g); err != nil {
		return mapper.Graph{}, fmt.Errorf("decode snapshot %s: %w", e.ID, err)
	}
	return g, nil
}

// #endregion snapshots

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
