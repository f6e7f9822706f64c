package replay

import (
	"fmt"

	"github.com/axiomhive/swarm-engine/internal/consensus"
)

// #region types

// ProposalResult captures the final consensus state of one replayed proposal
// alongside the fixture's expectation, when one was given.
type ProposalResult struct {
	ProposalID string
	Result     consensus.Result

	// Expectation check (empty Expected means the fixture did not assert
	// a status for this proposal).
	Expected string
	Matched  bool
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalProposals int
	TotalVotes     int
	Approved       int
	Rejected       int
	Pending        int
	Mismatches     int
}

// #endregion types

// #region replay

// Replay drives a fixture through a fresh consensus engine: submit every
// proposal, apply every vote in order, then check each proposal's final
// state against the fixture's expectations.
func Replay(f *Fixture) ([]ProposalResult, Summary, error) {
	engine, err := consensus.NewEngine(f.Config.ToConsensusConfig())
	if err != nil {
		return nil, Summary{}, fmt.Errorf("engine: %w", err)
	}

	for _, fp := range f.Proposals {
		p, err := fp.ToProposal()
		if err != nil {
			return nil, Summary{}, err
		}
		if err := engine.Submit(p); err != nil {
			return nil, Summary{}, fmt.Errorf("submit %s: %w", p.ID, err)
		}
	}

	for i, v := range f.Votes {
		if err := engine.Vote(v.ProposalID, v.AgentID, v.Approve); err != nil {
			return nil, Summary{}, fmt.Errorf("vote %d on %s: %w", i, v.ProposalID, err)
		}
	}

	expected := make(map[string]string, len(f.ExpectedResults))
	for _, er := range f.ExpectedResults {
		expected[er.ProposalID] = er.Status
	}

	results := make([]ProposalResult, 0, len(f.Proposals))
	summary := Summary{TotalProposals: len(f.Proposals), TotalVotes: len(f.Votes)}

	for _, fp := range f.Proposals {
		res, err := engine.Check(fp.ID)
		if err != nil {
			return nil, Summary{}, fmt.Errorf("check %s: %w", fp.ID, err)
		}
		pr := ProposalResult{ProposalID: fp.ID, Result: res}
		if want, ok := expected[fp.ID]; ok {
			pr.Expected = want
			pr.Matched = string(res.Status) == want
			if !pr.Matched {
				summary.Mismatches++
			}
		}
		switch res.Status {
		case consensus.StatusApproved:
			summary.Approved++
		case consensus.StatusRejected:
			summary.Rejected++
		case consensus.StatusPending:
			summary.Pending++
		}
		results = append(results, pr)
	}

	return results, summary, nil
}

// #endregion replay
