package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/axiomhive/swarm-engine/internal/consensus"
)

// #region fixture-tests

// TestFixture_QuorumSession loads the quorum_session fixture, replays it
// through a fresh engine, and compares each proposal's final status against
// the expected status. Primary regression test for quorum arithmetic.
func TestFixture_QuorumSession(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "quorum_session.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	results, summary, err := Replay(f)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	if len(results) != len(f.ExpectedResults) {
		t.Fatalf("expected %d results, got %d", len(f.ExpectedResults), len(results))
	}
	for i, r := range results {
		if r.Expected == "" {
			t.Errorf("proposal %d (%s): fixture asserts no status", i, r.ProposalID)
			continue
		}
		if !r.Matched {
			t.Errorf("proposal %d (%s): expected status=%s, got %s (note: %s)",
				i, r.ProposalID, r.Expected, r.Result.Status, r.Result.Note)
		}
	}

	if summary.Approved != 1 || summary.Rejected != 1 || summary.Pending != 1 {
		t.Errorf("summary tallies: got %d/%d/%d, want 1/1/1",
			summary.Approved, summary.Rejected, summary.Pending)
	}
	if summary.Mismatches != 0 {
		t.Errorf("summary mismatches: got %d, want 0", summary.Mismatches)
	}
	if summary.TotalVotes != 6 {
		t.Errorf("summary votes: got %d, want 6", summary.TotalVotes)
	}
}

// TestReplay_MismatchCounted verifies that a wrong expectation shows up in
// the summary rather than failing the run.
func TestReplay_MismatchCounted(t *testing.T) {
	f := &Fixture{
		Config: FixtureConfig{Threshold: 0.6, MinParticipants: 1},
		Proposals: []FixtureProposal{
			{ID: "p1", AgentID: "a1", Action: "broadcast",
				Payload: []byte(`{"channel":"ops","content":"x"}`)},
		},
		Votes: []FixtureVote{
			{ProposalID: "p1", AgentID: "a1", Approve: true},
		},
		ExpectedResults: []FixtureExpectedResult{
			{ProposalID: "p1", Status: "rejected"},
		},
	}

	results, summary, err := Replay(f)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if results[0].Result.Status != consensus.StatusApproved {
		t.Fatalf("status: got %s, want approved", results[0].Result.Status)
	}
	if results[0].Matched {
		t.Error("expected mismatch against asserted rejected status")
	}
	if summary.Mismatches != 1 {
		t.Errorf("mismatches: got %d, want 1", summary.Mismatches)
	}
}

// TestReplay_BadConfig verifies engine config errors surface.
func TestReplay_BadConfig(t *testing.T) {
	f := &Fixture{Config: FixtureConfig{Threshold: 0, MinParticipants: 1}}
	if _, _, err := Replay(f); err == nil {
		t.Fatal("expected error for zero threshold")
	}
}

// TestReplay_UnknownAction verifies payload decoding rejects unknown actions.
func TestReplay_UnknownAction(t *testing.T) {
	f := &Fixture{
		Config: FixtureConfig{Threshold: 0.6, MinParticipants: 1},
		Proposals: []FixtureProposal{
			{ID: "p1", Action: "teleport", Payload: []byte(`{}`)},
		},
	}
	if _, _, err := Replay(f); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

// TestLoadFixture_NotFound verifies error on missing file.
func TestLoadFixture_NotFound(t *testing.T) {
	if _, err := LoadFixture("testdata/nonexistent.json"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

// TestLoadFixture_Malformed verifies error on invalid JSON.
func TestLoadFixture_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not valid json}"), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if _, err := LoadFixture(path); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

// #endregion fixture-tests
