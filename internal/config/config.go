package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"migctl/internal/model"
)

const (
	DefaultTasks       = 1
	DefaultSoakRestSec = 1
)

// Config holds cluster topology and run settings.
type Config struct {
	Cluster *ClusterConfig `yaml:"cluster,omitempty"`
	Run     *RunConfig     `yaml:"run,omitempty"`
}

// ClusterConfig describes the simulated cluster the coordinator runs
// against.
type ClusterConfig struct {
	// BootNode is where newly created threads start executing.
	BootNode int        `yaml:"boot_node"`
	Nodes    []NodeSpec `yaml:"nodes"`
}

// NodeSpec is one node entry. Nodes are online unless marked offline.
type NodeSpec struct {
	ID      int    `yaml:"id"`
	Arch    string `yaml:"arch"`
	Offline bool   `yaml:"offline,omitempty"`
}

// RunConfig holds operator settings for a run.
type RunConfig struct {
	Tasks       int `yaml:"tasks"`
	SoakRestSec int `yaml:"soak_rest_sec"`
	// SoakDurationSec bounds the soak variant; 0 means run until signalled.
	SoakDurationSec int    `yaml:"soak_duration_sec,omitempty"`
	ReportPath      string `yaml:"report_path,omitempty"`
	CSVPath         string `yaml:"csv_path,omitempty"`
}

// Load reads and parses a YAML config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	ApplyDefaults(&cfg)
	return cfg, nil
}

// Save writes a YAML config file to disk.
func Save(path string, cfg Config) error {
	ApplyDefaults(&cfg)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks topology consistency.
func Validate(cfg Config) error {
	if cfg.Cluster == nil {
		return fmt.Errorf("config must contain a cluster section")
	}
	if len(cfg.Cluster.Nodes) == 0 {
		return fmt.Errorf("cluster.nodes must not be empty")
	}
	if !model.NodeID(cfg.Cluster.BootNode).Valid() {
		return fmt.Errorf("cluster.boot_node %d out of range [0,%d)", cfg.Cluster.BootNode, model.MaxNodes)
	}

	seen := make(map[int]bool, len(cfg.Cluster.Nodes))
	for _, spec := range cfg.Cluster.Nodes {
		if !model.NodeID(spec.ID).Valid() {
			return fmt.Errorf("node id %d out of range [0,%d)", spec.ID, model.MaxNodes)
		}
		if seen[spec.ID] {
			return fmt.Errorf("duplicate node id %d", spec.ID)
		}
		seen[spec.ID] = true
		if _, err := model.ParseArchitecture(spec.Arch); err != nil {
			return fmt.Errorf("node %d: %w", spec.ID, err)
		}
	}
	return nil
}

// ApplyDefaults fills in default values when empty. The default topology is
// the canonical heterogeneous pair: x86-64 node 0 and arm64 node 1.
func ApplyDefaults(cfg *Config) {
	if cfg.Cluster == nil {
		cfg.Cluster = &ClusterConfig{}
	}
	if len(cfg.Cluster.Nodes) == 0 {
		cfg.Cluster.Nodes = []NodeSpec{
			{ID: 0, Arch: model.ArchX86_64.String()},
			{ID: 1, Arch: model.ArchAArch64.String()},
		}
	}

	if cfg.Run == nil {
		cfg.Run = &RunConfig{}
	}
	if cfg.Run.Tasks == 0 {
		cfg.Run.Tasks = DefaultTasks
	}
	if cfg.Run.SoakRestSec == 0 {
		cfg.Run.SoakRestSec = DefaultSoakRestSec
	}
}

// NodeTable converts the configured topology into the platform node table.
func (c *ClusterConfig) NodeTable() ([]model.Node, error) {
	nodes := make([]model.Node, 0, len(c.Nodes))
	for _, spec := range c.Nodes {
		arch, err := model.ParseArchitecture(spec.Arch)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", spec.ID, err)
		}
		liveness := model.Online
		if spec.Offline {
			liveness = model.Offline
		}
		nodes = append(nodes, model.Node{ID: model.NodeID(spec.ID), Arch: arch, Liveness: liveness})
	}
	return nodes, nil
}
