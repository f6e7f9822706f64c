package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/axiomhive/swarm-engine/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	os.Exit(run(*fixturePath))
}

func run(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	results, summary, err := replay.Replay(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	printComparison(results)

	fmt.Printf("\nSummary: %d proposals, %d votes, %d approved, %d rejected, %d pending, %d diverge\n",
		summary.TotalProposals, summary.TotalVotes,
		summary.Approved, summary.Rejected, summary.Pending, summary.Mismatches)

	if summary.Mismatches > 0 {
		return 1
	}
	return 0
}

// #endregion main

// #region output

// printComparison outputs a per-proposal table of expected vs replayed status.
func printComparison(results []replay.ProposalResult) {
	fmt.Printf("%-16s| %-10s| %-10s| %-7s| %s\n", "Proposal", "Expected", "Replayed", "Rate", "Match")
	fmt.Printf("%-16s+%-11s+%-11s+%-8s+%s\n",
		"----------------", "-----------", "-----------", "--------", "------")

	for _, r := range results {
		expected := r.Expected
		match := "OK"
		switch {
		case expected == "":
			expected = "-"
			match = "-"
		case !r.Matched:
			match = "DIFF"
		}
		fmt.Printf("%-16s| %-10s| %-10s| %-7.3f| %s\n",
			r.ProposalID, expected, r.Result.Status, r.Result.ApprovalRate, match)
	}
}

// #endregion output
