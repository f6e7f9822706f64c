package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/axiomhive/swarm-engine/internal/audit"
	"github.com/axiomhive/swarm-engine/internal/config"
	"github.com/axiomhive/swarm-engine/internal/consensus"
	"github.com/axiomhive/swarm-engine/internal/consistency"
	"github.com/axiomhive/swarm-engine/internal/logging"
	"github.com/axiomhive/swarm-engine/internal/mapper"
	"github.com/axiomhive/swarm-engine/internal/swarm"
)

// #region main
func main() {
	cfgPath := envOr("SWARM_CONFIG", "swarm.yaml")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var rec swarm.Recorder
	if cfg.Audit.Enabled {
		store, err := audit.NewStore(cfg.Audit.DatabasePath)
		if err != nil {
			logger.Fatal("open audit store", zap.Error(err))
		}
		defer store.Close()
		rec = store
	}

	coord, err := swarm.New(cfg.ToSwarmConfig(), rec)
	if err != nil {
		logger.Fatal("build coordinator", zap.Error(err))
	}

	fmt.Println("Swarm Engine console ready.")
	fmt.Printf("  Grid: %dx%d | Quorum: %.0f%% of >=%d agents | Audit: %s\n",
		cfg.Lattice.Width, cfg.Lattice.Height,
		cfg.Consensus.Threshold*100, cfg.Consensus.MinParticipants,
		auditLabel(cfg))
	fmt.Println("Commands: register, neighbors, propose, vote, check, say, analyze, point, topology, reset, quit")

	repl(coord, logger)
}

func auditLabel(cfg *config.Config) string {
	if cfg.Audit.Enabled {
		return cfg.Audit.DatabasePath
	}
	return "off"
}

// #endregion main

// #region repl

// repl reads commands line by line. Message and vector batches accumulate
// between analyze/topology calls so a session can be driven interactively.
func repl(coord *swarm.Coordinator, logger *zap.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	var messages []consistency.Message
	var points []mapper.DataPoint

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return

		case "register":
			if len(fields) < 2 {
				fmt.Println("usage: register <agent> [x y]")
				continue
			}
			cmdRegister(coord, fields[1:])

		case "neighbors":
			if len(fields) != 2 {
				fmt.Println("usage: neighbors <agent>")
				continue
			}
			fmt.Printf("neighbors of %s: %v\n", fields[1], coord.Propagate(fields[1]))

		case "propose":
			if len(fields) < 5 {
				fmt.Println("usage: propose <id> <agent> <action> <payload-json>")
				continue
			}
			cmdPropose(coord, logger, fields[1], fields[2], fields[3], strings.Join(fields[4:], " "))

		case "vote":
			if len(fields) != 4 || (fields[3] != "yes" && fields[3] != "no") {
				fmt.Println("usage: vote <proposal> <agent> yes|no")
				continue
			}
			if err := coord.Vote(fields[1], fields[2], fields[3] == "yes"); err != nil {
				logger.Warn("vote rejected", zap.String("proposal", fields[1]), zap.Error(err))
				continue
			}
			cmdCheck(coord, logger, fields[1])

		case "check":
			if len(fields) != 2 {
				fmt.Println("usage: check <proposal>")
				continue
			}
			cmdCheck(coord, logger, fields[1])

		case "say":
			if len(fields) < 3 {
				fmt.Println("usage: say <agent> <text>")
				continue
			}
			messages = append(messages, consistency.Message{
				ID:        fmt.Sprintf("m%d", len(messages)),
				SenderID:  fields[1],
				Content:   strings.Join(fields[2:], " "),
				Timestamp: time.Now().UnixMilli(),
			})
			fmt.Printf("buffered %d message(s)\n", len(messages))

		case "analyze":
			report, smoothed := coord.Analyze(messages)
			fmt.Printf("score=%.3f smoothed=%.3f grounding=%.3f risk=%.3f flagged=%v\n",
				report.Score, smoothed, report.GroundingScore, report.HallucinationRisk, report.Flagged)
			messages = nil

		case "point":
			if len(fields) != 3 {
				fmt.Println("usage: point <id> <v1,v2,...>")
				continue
			}
			p, err := parsePoint(fields[1], fields[2])
			if err != nil {
				fmt.Printf("bad point: %v\n", err)
				continue
			}
			points = append(points, p)
			fmt.Printf("buffered %d point(s)\n", len(points))

		case "topology":
			frame, err := coord.BuildFrame(points)
			if err != nil {
				logger.Warn("topology build failed", zap.Error(err))
				continue
			}
			fmt.Printf("nodes=%d edges=%d components=%d cycles=%d occupancy=%d\n",
				frame.Summary.Nodes, frame.Summary.Edges,
				frame.Summary.Components, frame.Summary.Cycles, frame.Occupancy)
			points = nil

		case "reset":
			coord.Reset()
			messages = nil
			points = nil
			fmt.Println("cleared")

		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

// #endregion repl

// #region commands

func cmdRegister(coord *swarm.Coordinator, args []string) {
	agentID := args[0]
	if len(args) == 3 {
		x, errX := strconv.Atoi(args[1])
		y, errY := strconv.Atoi(args[2])
		if errX != nil || errY != nil {
			fmt.Println("usage: register <agent> [x y]")
			return
		}
		c, placed := coord.RegisterAgentAt(agentID, x, y)
		printPlacement(agentID, c.X, c.Y, placed)
		return
	}
	c, placed := coord.RegisterAgent(agentID)
	printPlacement(agentID, c.X, c.Y, placed)
}

func printPlacement(agentID string, x, y int, placed bool) {
	if !placed {
		fmt.Printf("%s not placed: grid full\n", agentID)
		return
	}
	fmt.Printf("%s placed at (%d,%d)\n", agentID, x, y)
}

func cmdPropose(coord *swarm.Coordinator, logger *zap.Logger, id, agentID, action, payloadJSON string) {
	var payload consensus.Payload
	switch consensus.ActionType(action) {
	case consensus.ActionTrade:
		var v consensus.TradePayload
		if err := json.Unmarshal([]byte(payloadJSON), &v); err != nil {
			fmt.Printf("bad payload: %v\n", err)
			return
		}
		payload.Trade = &v
	case consensus.ActionRebalance:
		var v consensus.RebalancePayload
		if err := json.Unmarshal([]byte(payloadJSON), &v); err != nil {
			fmt.Printf("bad payload: %v\n", err)
			return
		}
		payload.Rebalance = &v
	case consensus.ActionBroadcast:
		var v consensus.BroadcastPayload
		if err := json.Unmarshal([]byte(payloadJSON), &v); err != nil {
			fmt.Printf("bad payload: %v\n", err)
			return
		}
		payload.Broadcast = &v
	default:
		fmt.Printf("unknown action %q (trade|rebalance|broadcast)\n", action)
		return
	}

	err := coord.Propose(consensus.Proposal{
		ID:        id,
		AgentID:   agentID,
		Action:    consensus.ActionType(action),
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		logger.Warn("proposal rejected", zap.String("proposal", id), zap.Error(err))
		return
	}
	fmt.Printf("proposal %s submitted\n", id)
}

func cmdCheck(coord *swarm.Coordinator, logger *zap.Logger, proposalID string) {
	res, err := coord.Check(proposalID)
	if err != nil {
		logger.Warn("check failed", zap.String("proposal", proposalID), zap.Error(err))
		return
	}
	fmt.Printf("[%s] status=%s rate=%.3f votes=%d/%d note=%s\n",
		res.ProposalID, res.Status, res.ApprovalRate, res.Approvals, res.Rejections, res.Note)
}

func parsePoint(id, csv string) (mapper.DataPoint, error) {
	parts := strings.Split(csv, ",")
	vec := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mapper.DataPoint{}, fmt.Errorf("component %q: %w", p, err)
		}
		vec = append(vec, f)
	}
	return mapper.DataPoint{ID: id, Vector: vec}, nil
}

// #endregion commands

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
