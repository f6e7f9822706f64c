package consensus

import (
	"fmt"
	"sync"
)

// #region engine

// Engine collects approve/reject votes on proposals and gates autonomous
// actions behind a quorum threshold. One explicit instance per coordination
// layer; all proposal and vote state lives in memory and is guarded by a
// single mutex.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	props    map[string]*proposalState
	order    []string // submission order, for retention eviction
	subs     map[int]func(Result)
	subOrder []int
	nextSub  int
}

type proposalState struct {
	proposal Proposal
	votes    map[string]bool // agentID → approve
	notified bool            // approval event already delivered
}

// NewEngine creates an engine with the given quorum settings.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %.4f must be in (0, 1]", ErrInvalidConfig, cfg.Threshold)
	}
	if cfg.MinParticipants < 1 {
		return nil, fmt.Errorf("%w: min participants %d must be at least 1", ErrInvalidConfig, cfg.MinParticipants)
	}
	if cfg.MaxProposals < 0 {
		return nil, fmt.Errorf("%w: max proposals %d must not be negative", ErrInvalidConfig, cfg.MaxProposals)
	}
	return &Engine{
		cfg:   cfg,
		props: make(map[string]*proposalState),
		subs:  make(map[int]func(Result)),
	}, nil
}

// #endregion engine

// #region submit

// Submit registers a proposal. Resubmitting an existing id is a no-op: the
// original proposal is never overwritten. When the retention cap is
// exceeded, the oldest unresolved proposal is evicted first; if every
// retained proposal has resolved, the oldest overall goes.
func (e *Engine) Submit(p Proposal) error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidProposal)
	}
	if !p.Payload.variantFor(p.Action) {
		return fmt.Errorf("%w: %s proposal %s missing matching payload", ErrInvalidProposal, p.Action, p.ID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.props[p.ID]; exists {
		return nil
	}

	if e.cfg.MaxProposals > 0 && len(e.props) >= e.cfg.MaxProposals {
		e.evictLocked()
	}

	e.props[p.ID] = &proposalState{
		proposal: p,
		votes:    make(map[string]bool),
	}
	e.order = append(e.order, p.ID)
	return nil
}

// evictLocked drops one proposal to make room. Caller holds the mutex.
func (e *Engine) evictLocked() {
	evictAt := -1
	for i, id := range e.order {
		st, ok := e.props[id]
		if !ok {
			continue
		}
		if e.resultLocked(st).Status != StatusApproved {
			evictAt = i
			break
		}
		if evictAt < 0 {
			evictAt = i // fallback: oldest overall
		}
	}
	if evictAt < 0 && len(e.order) > 0 {
		evictAt = 0
	}
	if evictAt >= 0 {
		delete(e.props, e.order[evictAt])
		e.order = append(e.order[:evictAt], e.order[evictAt+1:]...)
	}
}

// #endregion submit

// #region vote

// Vote records one vote per agent per proposal; a repeat vote from the same
// agent replaces its prior vote. Voting on an unknown id returns ErrNotFound.
// When the vote tips the proposal into approval, subscribers are notified
// synchronously before Vote returns, in subscription order, once per
// proposal.
func (e *Engine) Vote(proposalID, agentID string, approve bool) error {
	e.mu.Lock()
	st, ok := e.props[proposalID]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, proposalID)
	}
	st.votes[agentID] = approve

	var event *Result
	var listeners []func(Result)
	if res := e.resultLocked(st); res.Status == StatusApproved && !st.notified {
		st.notified = true
		event = &res
		listeners = make([]func(Result), 0, len(e.subOrder))
		for _, id := range e.subOrder {
			if fn, live := e.subs[id]; live {
				listeners = append(listeners, fn)
			}
		}
	}
	e.mu.Unlock()

	if event != nil {
		for _, fn := range listeners {
			deliver(fn, *event)
		}
	}
	return nil
}

// deliver isolates a panicking subscriber so later ones still run.
func deliver(fn func(Result), res Result) {
	defer func() { _ = recover() }()
	fn(res)
}

// #endregion vote

// #region check

// Check computes the current consensus state for a proposal. Unknown ids
// return ErrNotFound; a proposal with no votes yet is Pending.
func (e *Engine) Check(proposalID string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.props[proposalID]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, proposalID)
	}
	return e.resultLocked(st), nil
}

// resultLocked tallies votes for one proposal. Caller holds the mutex.
func (e *Engine) resultLocked(st *proposalState) Result {
	res := Result{
		ProposalID: st.proposal.ID,
		Action:     st.proposal.Action,
	}
	for _, approve := range st.votes {
		if approve {
			res.Approvals++
		} else {
			res.Rejections++
		}
	}
	res.Participating = res.Approvals + res.Rejections
	if res.Participating == 0 {
		res.Status = StatusPending
		res.Note = "no votes recorded"
		return res
	}

	res.ApprovalRate = float64(res.Approvals) / float64(res.Participating)
	res.Score = res.ApprovalRate

	switch {
	case res.ApprovalRate >= e.cfg.Threshold && res.Participating >= e.cfg.MinParticipants:
		res.Status = StatusApproved
		res.Approved = true
		res.Note = fmt.Sprintf("approved: rate %.2f >= %.2f with %d participants",
			res.ApprovalRate, e.cfg.Threshold, res.Participating)
	case res.Participating < e.cfg.MinParticipants:
		res.Status = StatusPending
		res.Note = fmt.Sprintf("pending: %d of %d required participants",
			res.Participating, e.cfg.MinParticipants)
	default:
		res.Status = StatusRejected
		res.Note = fmt.Sprintf("rejected: rate %.2f below threshold %.2f",
			res.ApprovalRate, e.cfg.Threshold)
	}
	return res
}

// #endregion check

// #region subscribe

// Subscribe registers a listener for approval transitions. Delivery is
// synchronous and follows subscription order; each proposal fires at most
// once unless the engine is Reset. The returned closure unsubscribes and is
// safe to call during a notification pass.
func (e *Engine) Subscribe(fn func(Result)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subOrder = append(e.subOrder, id)

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
		for i, sid := range e.subOrder {
			if sid == id {
				e.subOrder = append(e.subOrder[:i], e.subOrder[i+1:]...)
				break
			}
		}
	}
}

// #endregion subscribe

// #region reset

// Len returns the number of retained proposals.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.props)
}

// Reset clears proposals, votes, and delivered-notification marks.
// Subscribers stay registered.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.props = make(map[string]*proposalState)
	e.order = nil
}

// #endregion reset
