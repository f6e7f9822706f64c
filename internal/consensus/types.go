package consensus

import "errors"

// #region errors

// ErrInvalidConfig marks nonsensical threshold or quorum settings.
var ErrInvalidConfig = errors.New("invalid config")

// ErrInvalidProposal marks a proposal missing its id or payload variant.
var ErrInvalidProposal = errors.New("invalid proposal")

// ErrNotFound marks a vote or query against an unknown proposal id.
// Soft: callers recover and move on.
var ErrNotFound = errors.New("proposal not found")

// #endregion errors

// #region action-type

// ActionType classifies what a proposal wants the automation layer to do.
type ActionType string

const (
	ActionTrade     ActionType = "trade"
	ActionRebalance ActionType = "rebalance"
	ActionBroadcast ActionType = "broadcast"
)

// #endregion action-type

// #region payload

// Payload is a tagged union keyed by ActionType: exactly the variant
// matching the proposal's action must be set.
type Payload struct {
	Trade     *TradePayload     `json:"trade,omitempty"`
	Rebalance *RebalancePayload `json:"rebalance,omitempty"`
	Broadcast *BroadcastPayload `json:"broadcast,omitempty"`
}

// TradePayload describes a simulated trade for the external executor.
type TradePayload struct {
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"` // "buy" | "sell"
	Quantity   float64 `json:"quantity"`
	LimitPrice float64 `json:"limit_price,omitempty"`
}

// RebalancePayload describes a portfolio weight adjustment.
type RebalancePayload struct {
	TargetWeights map[string]float64 `json:"target_weights"`
}

// BroadcastPayload describes a swarm-wide message send.
type BroadcastPayload struct {
	Channel string `json:"channel"`
	Content string `json:"content"`
}

// variantFor reports whether the payload carries the variant the action requires.
func (p Payload) variantFor(action ActionType) bool {
	switch action {
	case ActionTrade:
		return p.Trade != nil
	case ActionRebalance:
		return p.Rebalance != nil
	case ActionBroadcast:
		return p.Broadcast != nil
	default:
		return false
	}
}

// #endregion payload

// #region proposal

// Proposal is an autonomous action awaiting multi-agent approval.
// Immutable after creation, identified uniquely by ID.
type Proposal struct {
	ID        string     `json:"id"`
	AgentID   string     `json:"agent_id"`
	Action    ActionType `json:"action"`
	Payload   Payload    `json:"payload"`
	Timestamp int64      `json:"timestamp"`
}

// #endregion proposal

// #region result

// Status is the third state alongside approved/rejected: consensus may
// simply not be determinable yet.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Result is computed on demand from accumulated votes. Recomputable
// idempotently as more votes arrive; never mutated in place.
type Result struct {
	ProposalID    string     `json:"proposal_id"`
	Action        ActionType `json:"action"`
	Status        Status     `json:"status"`
	Approved      bool       `json:"approved"`
	Score         float64    `json:"score"`
	Approvals     int        `json:"approvals"`
	Rejections    int        `json:"rejections"`
	ApprovalRate  float64    `json:"approval_rate"`
	Participating int        `json:"participating_agents"`
	Note          string     `json:"note"`
}

// #endregion result

// #region config

// Config holds engine-level quorum settings.
type Config struct {
	Threshold       float64 // approval rate needed, (0, 1]
	MinParticipants int     // votes needed before approval is possible
	MaxProposals    int     // retention cap; 0 = unlimited
}

// DefaultConfig returns the standard swarm quorum settings.
func DefaultConfig() Config {
	return Config{
		Threshold:       0.6,
		MinParticipants: 3,
		MaxProposals:    256,
	}
}

// #endregion config
