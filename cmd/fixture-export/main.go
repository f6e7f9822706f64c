package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/axiomhive/swarm-engine/internal/audit"
	"github.com/axiomhive/swarm-engine/internal/replay"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to swarm.db")
	last := flag.Int("last", 10, "number of most recent decisions to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	threshold := flag.Float64("threshold", 0.6, "approval threshold to embed in the fixture")
	minPart := flag.Int("min-participants", 3, "participation quorum to embed in the fixture")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/swarm.db --out path/to/fixture.json [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *last, *outPath, *threshold, *minPart); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

func run(dbPath string, last int, outPath string, threshold float64, minPart int) error {
	store, err := audit.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	entries, err := store.RecentDecisions(last)
	if err != nil {
		return fmt.Errorf("query decisions: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no decisions found in last %d rows", last)
	}

	// Keep the most recent entry per proposal, then restore chronological
	// order (RecentDecisions returns newest first).
	seen := make(map[string]bool, len(entries))
	var latest []audit.DecisionEntry
	for _, e := range entries {
		if seen[e.ProposalID] {
			continue
		}
		seen[e.ProposalID] = true
		latest = append(latest, e)
	}
	for i, j := 0, len(latest)-1; i < j; i, j = i+1, j-1 {
		latest[i], latest[j] = latest[j], latest[i]
	}

	fmt.Printf("Found %d distinct proposals\n", len(latest))

	fixture := buildFixture(latest, threshold, minPart)
	return writeFixture(fixture, outPath)
}

// #endregion extract

// #region output

// buildFixture reconstructs a replayable vote session from decision rows.
// The log keeps tallies rather than individual votes, so voters are
// synthesized: v1..vA approve, the rest reject. Payloads are likewise
// placeholders matching each action's variant.
func buildFixture(entries []audit.DecisionEntry, threshold float64, minPart int) replay.Fixture {
	proposals := make([]replay.FixtureProposal, len(entries))
	var votes []replay.FixtureVote
	expected := make([]replay.FixtureExpectedResult, len(entries))

	for i, e := range entries {
		proposals[i] = replay.FixtureProposal{
			ID:        e.ProposalID,
			AgentID:   e.AgentID,
			Action:    e.Action,
			Payload:   placeholderPayload(e.Action),
			Timestamp: e.CreatedAt.Unix(),
		}
		for v := 0; v < e.Approvals; v++ {
			votes = append(votes, replay.FixtureVote{
				ProposalID: e.ProposalID,
				AgentID:    fmt.Sprintf("v%d", v+1),
				Approve:    true,
			})
		}
		for v := 0; v < e.Rejections; v++ {
			votes = append(votes, replay.FixtureVote{
				ProposalID: e.ProposalID,
				AgentID:    fmt.Sprintf("v%d", e.Approvals+v+1),
				Approve:    false,
			})
		}
		expected[i] = replay.FixtureExpectedResult{
			ProposalID: e.ProposalID,
			Status:     e.Status,
		}
	}

	return replay.Fixture{
		Description: fmt.Sprintf("Audit log export: %d proposals with synthesized voters", len(entries)),
		Config: replay.FixtureConfig{
			Threshold:       threshold,
			MinParticipants: minPart,
		},
		Proposals:       proposals,
		Votes:           votes,
		ExpectedResults: expected,
	}
}

func placeholderPayload(action string) json.RawMessage {
	switch action {
	case "trade":
		return json.RawMessage(`{"symbol":"EXPORT","side":"buy","quantity":1}`)
	case "rebalance":
		return json.RawMessage(`{"target_weights":{"EXPORT":1.0}}`)
	default:
		return json.RawMessage(`{"channel":"export","content":"replayed from audit log"}`)
	}
}

func writeFixture(fixture replay.Fixture, outPath string) error {
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Printf("Wrote fixture to %s (%d bytes, %d proposals)\n", outPath, len(data), len(fixture.Proposals))
	return nil
}

// #endregion output
