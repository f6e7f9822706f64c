package consistency

// #region message

// Message is one entry of an ordered agent conversation log, as produced by
// the external message bus. The detector only reads it.
type Message struct {
	ID       string `json:"id"`
	SenderID string `json:"sender_id"`
	Channel  string `json:"channel"`
	Content  string `json:"content"`
	Priority int    `json:"priority"`
	// Unix milliseconds as assigned by the bus.
	Timestamp int64 `json:"timestamp"`
}

// #endregion message

// #region reasoning-node

// ReasoningNode is one step in the per-call reasoning graph. Connections
// hold neighbor node ids; Concept is a cosmetic content preview.
type ReasoningNode struct {
	ID          string   `json:"id"`
	Concept     string   `json:"concept"`
	Confidence  float64  `json:"confidence"`
	Connections []string `json:"connections"`
}

// #endregion reasoning-node

// #region report

// Report is the outcome of one Analyze call.
// GroundingScore mirrors Score; HallucinationRisk is its complement.
type Report struct {
	Score             float64         `json:"score"`
	GroundingScore    float64         `json:"grounding_score"`
	HallucinationRisk float64         `json:"hallucination_risk"`
	Flagged           []string        `json:"flagged,omitempty"`
	Nodes             []ReasoningNode `json:"nodes,omitempty"`
	Edges             int             `json:"edges"`
}

// #endregion report
