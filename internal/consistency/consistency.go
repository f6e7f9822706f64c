package consistency

import "strings"

// previewLen bounds the cosmetic concept preview per node.
const previewLen = 48

// #region analyze

// Analyze scores an ordered message sequence for logical consistency.
// It builds one reasoning node per message, chains temporally adjacent
// messages, and scores connectivity as edges / (nodes - 1). The ratio is a
// stand-in for the original's "persistence homology" scoring; it is a
// connectivity heuristic, not homology, and stays 1.0 for the pure chain.
// Pure: the graph lives only for the duration of the call.
func Analyze(messages []Message) Report {
	if len(messages) < 2 {
		// Nothing to cross-check; trivially consistent.
		return Report{Score: 1.0, GroundingScore: 1.0, HallucinationRisk: 0}
	}

	nodes, edges := buildChain(messages)

	score := clamp(float64(edges) / float64(max(1, len(nodes)-1)))

	var flagged []string
	for _, n := range nodes {
		if len(n.Connections) == 0 {
			flagged = append(flagged, n.ID)
		}
	}

	return Report{
		Score:             score,
		GroundingScore:    score,
		HallucinationRisk: clamp(1 - score),
		Flagged:           flagged,
		Nodes:             nodes,
		Edges:             edges,
	}
}

// #endregion analyze

// #region chain

// buildChain creates the linear reasoning graph: node i links back to node
// i-1. No concept extraction happens; richer cross-reference edges would
// raise the edge count past nodes-1 and the score saturates there.
func buildChain(messages []Message) ([]ReasoningNode, int) {
	nodes := make([]ReasoningNode, len(messages))
	edges := 0
	for i, m := range messages {
		nodes[i] = ReasoningNode{
			ID:         m.ID,
			Concept:    preview(m.Content),
			Confidence: confidence(m),
		}
	}
	for i := 1; i < len(nodes); i++ {
		nodes[i].Connections = append(nodes[i].Connections, nodes[i-1].ID)
		nodes[i-1].Connections = append(nodes[i-1].Connections, nodes[i].ID)
		edges++
	}
	return nodes, edges
}

// confidence estimates per-node confidence from message substance.
// Empty content reads as weak; anything substantive saturates quickly.
func confidence(m Message) float64 {
	words := len(strings.Fields(m.Content))
	return clamp(float64(words) / 10.0)
}

func preview(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= previewLen {
		return content
	}
	return content[:previewLen] + "..."
}

// #endregion chain

// #region helpers

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// #endregion helpers
