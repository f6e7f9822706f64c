package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/axiomhive/swarm-engine/internal/consensus"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Config          FixtureConfig           `json:"config"`
	Proposals       []FixtureProposal       `json:"proposals"`
	Votes           []FixtureVote           `json:"votes"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureConfig mirrors consensus.Config with JSON tags.
type FixtureConfig struct {
	Threshold       float64 `json:"threshold"`
	MinParticipants int     `json:"min_participants"`
	MaxProposals    int     `json:"max_proposals"`
}

// FixtureProposal mirrors consensus.Proposal with JSON tags. The payload is
// kept as raw JSON and decoded against the action's variant on conversion.
type FixtureProposal struct {
	ID        string          `json:"id"`
	AgentID   string          `json:"agent_id"`
	Action    string          `json:"action"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

// FixtureVote is one vote event in submission order.
type FixtureVote struct {
	ProposalID string `json:"proposal_id"`
	AgentID    string `json:"agent_id"`
	Approve    bool   `json:"approve"`
}

// FixtureExpectedResult captures the expected final status per proposal.
type FixtureExpectedResult struct {
	ProposalID string `json:"proposal_id"`
	Status     string `json:"status"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToConsensusConfig converts a FixtureConfig to a domain Config.
func (fc *FixtureConfig) ToConsensusConfig() consensus.Config {
	return consensus.Config{
		Threshold:       fc.Threshold,
		MinParticipants: fc.MinParticipants,
		MaxProposals:    fc.MaxProposals,
	}
}

// ToProposal converts a FixtureProposal to a domain Proposal.
func (fp *FixtureProposal) ToProposal() (consensus.Proposal, error) {
	p := consensus.Proposal{
		ID:        fp.ID,
		AgentID:   fp.AgentID,
		Action:    consensus.ActionType(fp.Action),
		Timestamp: fp.Timestamp,
	}
	if len(fp.Payload) == 0 {
		return p, nil
	}
	switch p.Action {
	case consensus.ActionTrade:
		var v consensus.TradePayload
		if err := json.Unmarshal(fp.Payload, &v); err != nil {
			return p, fmt.Errorf("proposal %s payload: %w", fp.ID, err)
		}
		p.Payload.Trade = &v
	case consensus.ActionRebalance:
		var v consensus.RebalancePayload
		if err := json.Unmarshal(fp.Payload, &v); err != nil {
			return p, fmt.Errorf("proposal %s payload: %w", fp.ID, err)
		}
		p.Payload.Rebalance = &v
	case consensus.ActionBroadcast:
		var v consensus.BroadcastPayload
		if err := json.Unmarshal(fp.Payload, &v); err != nil {
			return p, fmt.Errorf("proposal %s payload: %w", fp.ID, err)
		}
		p.Payload.Broadcast = &v
	default:
		return p, fmt.Errorf("proposal %s: unknown action %q", fp.ID, fp.Action)
	}
	return p, nil
}

// #endregion fixture-loader
