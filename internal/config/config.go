package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/axiomhive/swarm-engine/internal/consensus"
	"github.com/axiomhive/swarm-engine/internal/lattice"
	"github.com/axiomhive/swarm-engine/internal/mapper"
	"github.com/axiomhive/swarm-engine/internal/swarm"
)

// #region types

// Config holds all swarm-engine configuration.
type Config struct {
	Topology  TopologyConfig  `yaml:"topology"`
	Lattice   LatticeConfig   `yaml:"lattice"`
	Consensus ConsensusConfig `yaml:"consensus"`
	Swarm     SwarmConfig     `yaml:"swarm"`
	Audit     AuditConfig     `yaml:"audit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TopologyConfig configures the reasoning topology builder.
type TopologyConfig struct {
	Resolution int     `yaml:"resolution"`
	Overlap    float64 `yaml:"overlap"`
	Epsilon    float64 `yaml:"epsilon"`
}

// LatticeConfig configures the agent grid.
type LatticeConfig struct {
	Width             int `yaml:"width"`
	Height            int `yaml:"height"`
	PlacementAttempts int `yaml:"placement_attempts"`
}

// ConsensusConfig configures quorum voting.
type ConsensusConfig struct {
	Threshold       float64 `yaml:"threshold"`
	MinParticipants int     `yaml:"min_participants"`
	MaxProposals    int     `yaml:"max_proposals"`
}

// SwarmConfig configures the coordinator's score smoothing.
type SwarmConfig struct {
	SmoothingWindow int `yaml:"smoothing_window"`
	HistoryLimit    int `yaml:"history_limit"`
}

// AuditConfig configures the decision log store.
type AuditConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// #endregion types

// #region defaults

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	sw := swarm.DefaultConfig()
	return &Config{
		Topology: TopologyConfig{
			Resolution: sw.Mapper.Resolution,
			Overlap:    sw.Mapper.Overlap,
			Epsilon:    sw.Mapper.Epsilon,
		},
		Lattice: LatticeConfig{
			Width:             sw.Lattice.Width,
			Height:            sw.Lattice.Height,
			PlacementAttempts: sw.Lattice.PlacementAttempts,
		},
		Consensus: ConsensusConfig{
			Threshold:       sw.Consensus.Threshold,
			MinParticipants: sw.Consensus.MinParticipants,
			MaxProposals:    sw.Consensus.MaxProposals,
		},
		Swarm: SwarmConfig{
			SmoothingWindow: sw.SmoothingWindow,
			HistoryLimit:    sw.HistoryLimit,
		},
		Audit: AuditConfig{
			Enabled:      true,
			DatabasePath: "data/swarm.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ToSwarmConfig converts the file-level config to the coordinator's config.
func (c *Config) ToSwarmConfig() swarm.Config {
	return swarm.Config{
		Mapper: mapper.Config{
			Resolution: c.Topology.Resolution,
			Overlap:    c.Topology.Overlap,
			Epsilon:    c.Topology.Epsilon,
		},
		Lattice: lattice.Config{
			Width:             c.Lattice.Width,
			Height:            c.Lattice.Height,
			PlacementAttempts: c.Lattice.PlacementAttempts,
		},
		Consensus: consensus.Config{
			Threshold:       c.Consensus.Threshold,
			MinParticipants: c.Consensus.MinParticipants,
			MaxProposals:    c.Consensus.MaxProposals,
		},
		SmoothingWindow: c.Swarm.SmoothingWindow,
		HistoryLimit:    c.Swarm.HistoryLimit,
	}
}

// #endregion defaults

// #region load-save

// Load reads configuration from a YAML file, layered over defaults. A
// missing file is not an error: defaults plus env overrides apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnvOverrides layers environment variables over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SWARM_DB_PATH"); v != "" {
		c.Audit.DatabasePath = v
	}
	if v := os.Getenv("SWARM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// #endregion load-save
