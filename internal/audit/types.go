package audit

import "time"

// #region decision-entry

// DecisionEntry is one row of the decision_log table: the outcome of a
// consensus check or approval event, kept for offline inspection and
// fixture export.
type DecisionEntry struct {
	ID           string
	ProposalID   string
	AgentID      string
	Action       string
	Status       string // "pending" | "approved" | "rejected"
	Approvals    int
	Rejections   int
	ApprovalRate float64
	Note         string
	CreatedAt    time.Time
}

// #endregion decision-entry

// #region snapshot-entry

// SnapshotEntry is one row of the topology_snapshots table: a mapper graph
// serialized as JSON plus its connectivity summary.
type SnapshotEntry struct {
	ID         string
	Nodes      int
	Edges      int
	Components int
	Cycles     int
	GraphJSON  string
	CreatedAt  time.Time
}

// #endregion snapshot-entry
