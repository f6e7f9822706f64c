package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/axiomhive/swarm-engine/internal/audit"
	"github.com/axiomhive/swarm-engine/internal/mapper"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to swarm.db")
	last := flag.Int("last", 20, "show N most recent decisions")
	proposal := flag.String("proposal", "", "show decision history for one proposal")
	snapshot := flag.Bool("snapshot", false, "show the latest topology snapshot")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/swarm.db [--last N] [--proposal id] [--snapshot] [--json]")
		os.Exit(2)
	}

	store, err := audit.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *snapshot:
		err = runSnapshotMode(store, *jsonOut)
	case *proposal != "":
		err = runProposalMode(store, *proposal, *jsonOut)
	default:
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type decisionRow struct {
	ProposalID   string  `json:"proposal_id"`
	AgentID      string  `json:"agent_id,omitempty"`
	Action       string  `json:"action"`
	Status       string  `json:"status"`
	Approvals    int     `json:"approvals"`
	Rejections   int     `json:"rejections"`
	ApprovalRate float64 `json:"approval_rate"`
	Note         string  `json:"note,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func toRows(entries []audit.DecisionEntry) []decisionRow {
	rows := make([]decisionRow, len(entries))
	for i, e := range entries {
		rows[i] = decisionRow{
			ProposalID:   e.ProposalID,
			AgentID:      e.AgentID,
			Action:       e.Action,
			Status:       e.Status,
			Approvals:    e.Approvals,
			Rejections:   e.Rejections,
			ApprovalRate: e.ApprovalRate,
			Note:         e.Note,
			CreatedAt:    e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	return rows
}

func runListMode(store *audit.Store, last int, jsonOut bool) error {
	entries, err := store.RecentDecisions(last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no decisions found")
		return nil
	}
	if jsonOut {
		return printJSON(toRows(entries))
	}
	printDecisionTable(entries)
	return nil
}

func runProposalMode(store *audit.Store, proposalID string, jsonOut bool) error {
	entries, err := store.DecisionsForProposal(proposalID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "no decisions found for proposal %s\n", proposalID)
		return nil
	}
	if jsonOut {
		return printJSON(toRows(entries))
	}
	printDecisionTable(entries)
	return nil
}

func printDecisionTable(entries []audit.DecisionEntry) {
	fmt.Printf("%-16s  %-10s  %-9s  %7s  %6s  %s\n",
		"Proposal", "Action", "Status", "Votes", "Rate", "Time")
	fmt.Printf("%-16s+-%-10s+-%-9s+-%7s+-%6s+-%s\n",
		"----------------", "----------", "---------", "-------", "------", "--------------------")
	for _, e := range entries {
		fmt.Printf("%-16s  %-10s  %-9s  %4d/%-2d  %6.3f  %s\n",
			e.ProposalID, e.Action, e.Status, e.Approvals, e.Rejections,
			e.ApprovalRate, e.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
}

// #endregion list-mode

// #region snapshot-mode

func runSnapshotMode(store *audit.Store, jsonOut bool) error {
	entry, err := store.LatestSnapshot()
	if err != nil {
		return err
	}
	if entry == nil {
		fmt.Fprintln(os.Stderr, "no snapshots found")
		return nil
	}

	g, err := audit.DecodeSnapshot(entry)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(struct {
			ID        string       `json:"id"`
			CreatedAt string       `json:"created_at"`
			Graph     mapper.Graph `json:"graph"`
		}{entry.ID, entry.CreatedAt.Format("2006-01-02T15:04:05Z"), g})
	}

	fmt.Printf("snapshot %s (%s)\n", entry.ID, entry.CreatedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Printf("  nodes=%d edges=%d components=%d cycles=%d\n",
		entry.Nodes, entry.Edges, entry.Components, entry.Cycles)
	for _, n := range g.Nodes {
		fmt.Printf("  node %-12s interval=%d size=%d\n", n.ID, n.Interval, n.Size)
	}
	for _, e := range g.Edges {
		fmt.Printf("  edge %s -- %s weight=%d\n", e.Source, e.Target, e.Weight)
	}
	return nil
}

// #endregion snapshot-mode

// #region output

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion output
