package swarm

import (
	"fmt"
	"sync"

	"github.com/axiomhive/swarm-engine/internal/audit"
	"github.com/axiomhive/swarm-engine/internal/consensus"
	"github.com/axiomhive/swarm-engine/internal/consistency"
	"github.com/axiomhive/swarm-engine/internal/lattice"
	"github.com/axiomhive/swarm-engine/internal/mapper"
)

// #region coordinator

// Coordinator owns the process-lifetime engine instances: one lattice, one
// consensus engine, and a bounded history of consistency scores. Upstream
// collaborators feed it vectors, messages, proposals, and votes; it hands
// back graphs, scores, and approval decisions.
type Coordinator struct {
	mu      sync.Mutex
	cfg     Config
	lat     *lattice.Lattice
	engine  *consensus.Engine
	rec     Recorder
	history []float64
}

// New wires a coordinator from config. rec may be nil to disable audit
// recording. Approval events are forwarded to the recorder as they fire.
func New(cfg Config, rec Recorder) (*Coordinator, error) {
	if cfg.SmoothingWindow <= 0 {
		cfg.SmoothingWindow = DefaultConfig().SmoothingWindow
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultConfig().HistoryLimit
	}

	lat, err := lattice.New(cfg.Lattice)
	if err != nil {
		return nil, fmt.Errorf("lattice: %w", err)
	}
	engine, err := consensus.NewEngine(cfg.Consensus)
	if err != nil {
		return nil, fmt.Errorf("consensus: %w", err)
	}

	c := &Coordinator{cfg: cfg, lat: lat, engine: engine, rec: rec}
	if rec != nil {
		engine.Subscribe(func(res consensus.Result) {
			// Recorder failures must not disturb the vote path.
			_ = rec.LogDecision(decisionEntry(res))
		})
	}
	return c, nil
}

func decisionEntry(res consensus.Result) audit.DecisionEntry {
	return audit.DecisionEntry{
		ProposalID:   res.ProposalID,
		Action:       string(res.Action),
		Status:       string(res.Status),
		Approvals:    res.Approvals,
		Rejections:   res.Rejections,
		ApprovalRate: res.ApprovalRate,
		Note:         res.Note,
	}
}

// #endregion coordinator

// #region agents

// RegisterAgent places an agent on the lattice. False means the grid had no
// free cell within the attempt budget.
func (c *Coordinator) RegisterAgent(agentID string) (lattice.Coord, bool) {
	return c.lat.Register(agentID)
}

// RegisterAgentAt prefers an explicit cell, falling back to random placement.
func (c *Coordinator) RegisterAgentAt(agentID string, x, y int) (lattice.Coord, bool) {
	return c.lat.RegisterAt(agentID, x, y)
}

// Propagate returns the lattice neighbors a message from senderID should
// reach. Locality rule for the message bus; the delivery itself is the
// bus's job.
func (c *Coordinator) Propagate(senderID string) []string {
	return c.lat.Neighbors(senderID)
}

// #endregion agents

// #region proposals

// Propose submits a proposal to the consensus engine.
func (c *Coordinator) Propose(p consensus.Proposal) error {
	return c.engine.Submit(p)
}

// Vote records one agent's vote on a proposal.
func (c *Coordinator) Vote(proposalID, agentID string, approve bool) error {
	return c.engine.Vote(proposalID, agentID, approve)
}

// Check returns the current consensus state for a proposal.
func (c *Coordinator) Check(proposalID string) (consensus.Result, error) {
	return c.engine.Check(proposalID)
}

// Subscribe forwards to the consensus engine's approval notifications.
func (c *Coordinator) Subscribe(fn func(consensus.Result)) func() {
	return c.engine.Subscribe(fn)
}

// #endregion proposals

// #region analysis

// Analyze runs the consistency detector over a message window and folds the
// score into the smoothing history. The smoothed score averages the most
// recent SmoothingWindow raw scores, damping single-window swings the way
// the upstream observer smoothed its state over time.
func (c *Coordinator) Analyze(messages []consistency.Message) (consistency.Report, float64) {
	report := consistency.Analyze(messages)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, report.Score)
	if len(c.history) > c.cfg.HistoryLimit {
		c.history = c.history[len(c.history)-c.cfg.HistoryLimit:]
	}
	return report, c.smoothedLocked()
}

// SmoothedScore returns the current smoothed consistency score, 1.0 when no
// analysis has run yet.
func (c *Coordinator) SmoothedScore() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.smoothedLocked()
}

func (c *Coordinator) smoothedLocked() float64 {
	if len(c.history) == 0 {
		return 1.0
	}
	window := c.history
	if len(window) > c.cfg.SmoothingWindow {
		window = window[len(window)-c.cfg.SmoothingWindow:]
	}
	var sum float64
	for _, s := range window {
		sum += s
	}
	return sum / float64(len(window))
}

// #endregion analysis

// #region frame

// BuildFrame runs the topology builder over a vector batch and packages the
// result with the current grid for visualization. The snapshot is also
// persisted when a recorder is attached.
func (c *Coordinator) BuildFrame(points []mapper.DataPoint) (Frame, error) {
	g, err := mapper.Run(points, c.cfg.Mapper)
	if err != nil {
		return Frame{}, err
	}
	if c.rec != nil {
		if _, err := c.rec.SaveSnapshot(g); err != nil {
			return Frame{}, fmt.Errorf("save snapshot: %w", err)
		}
	}
	return Frame{
		Graph:     g,
		Summary:   mapper.Summarize(g),
		Grid:      c.lat.Snapshot(),
		Occupancy: c.lat.Occupancy(),
	}, nil
}

// #endregion frame

// #region reset

// Reset clears the lattice, the consensus engine, and the score history.
// Test and restart hook; nothing here survives a process restart anyway.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.history = nil
	c.mu.Unlock()
	c.lat.Reset()
	c.engine.Reset()
}

// Lattice exposes the underlying grid for direct inspection.
func (c *Coordinator) Lattice() *lattice.Lattice {
	return c.lat
}

// #endregion reset
