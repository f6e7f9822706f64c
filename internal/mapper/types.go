package mapper

import "errors"

// #region errors

// ErrInvalidInput marks malformed point data (empty or mismatched vectors).
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidConfig marks nonsensical mapper parameters.
var ErrInvalidConfig = errors.New("invalid config")

// #endregion errors

// #region data-point

// DataPoint is one labeled thought vector supplied by the agent loop.
// The mapper only reads it for the duration of a single Run call.
type DataPoint struct {
	ID       string
	Vector   []float64
	Metadata map[string]string
}

// #endregion data-point

// #region graph

// GraphNode is one overlapping cluster in the output graph. Immutable once produced.
type GraphNode struct {
	ID       string   `json:"id"`
	Size     int      `json:"size"`
	Members  []string `json:"members"`
	Interval int      `json:"interval"`
}

// GraphEdge links two clusters that share points. Weight is the overlap size.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// Graph bundles the mapper output.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// #endregion graph

// #region config

// Config holds the cover and clustering parameters for one Run.
type Config struct {
	Resolution int     // number of cover intervals
	Overlap    float64 // fraction of overlap between successive intervals, [0, 1)
	Epsilon    float64 // single-linkage merge distance, > 0
}

// DefaultConfig returns sensible defaults for agent thought-vector batches.
func DefaultConfig() Config {
	return Config{
		Resolution: 10,
		Overlap:    0.3,
		Epsilon:    0.5,
	}
}

// #endregion config

// #region summary

// Summary reports coarse connectivity counts for a mapper graph.
// Components and Cycles approximate beta-0 and beta-1 of the nerve;
// a cheap stand-in, not persistent homology.
type Summary struct {
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
	Components int `json:"components"`
	Cycles     int `json:"cycles"`
}

// #endregion summary
