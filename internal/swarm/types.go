package swarm

import (
	"github.com/axiomhive/swarm-engine/internal/audit"
	"github.com/axiomhive/swarm-engine/internal/consensus"
	"github.com/axiomhive/swarm-engine/internal/lattice"
	"github.com/axiomhive/swarm-engine/internal/mapper"
)

// #region config

// Config bundles the engine-level settings the coordinator owns.
type Config struct {
	Lattice   lattice.Config
	Consensus consensus.Config
	Mapper    mapper.Config

	// SmoothingWindow is how many recent consistency scores feed the
	// smoothed score; HistoryLimit caps retained scores.
	SmoothingWindow int
	HistoryLimit    int
}

// DefaultConfig returns the standard coordinator settings.
func DefaultConfig() Config {
	return Config{
		Lattice:         lattice.DefaultConfig(),
		Consensus:       consensus.DefaultConfig(),
		Mapper:          mapper.DefaultConfig(),
		SmoothingWindow: 5,
		HistoryLimit:    50,
	}
}

// #endregion config

// #region frame

// Frame aggregates everything a dashboard needs for one observation cycle:
// the reasoning topology, its connectivity summary, and the current grid.
type Frame struct {
	Graph     mapper.Graph     `json:"graph"`
	Summary   mapper.Summary   `json:"summary"`
	Grid      [][]lattice.Cell `json:"grid"`
	Occupancy int              `json:"occupancy"`
}

// #endregion frame

// #region recorder

// Recorder receives consensus outcomes and topology snapshots for offline
// inspection. Satisfied by *audit.Store; nil disables recording.
type Recorder interface {
	LogDecision(entry audit.DecisionEntry) error
	SaveSnapshot(g mapper.Graph) (string, error)
}

// #endregion recorder
