package config

import (
	"os"
	"path/filepath"
	"testing"

	"migctl/internal/model"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "migctl.yaml")
	if err := os.WriteFile(path, []byte("run:\n  tasks: 5\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Run.Tasks != 5 {
		t.Fatalf("tasks=%d", cfg.Run.Tasks)
	}
	if cfg.Run.SoakRestSec != DefaultSoakRestSec {
		t.Fatalf("soak_rest_sec=%d", cfg.Run.SoakRestSec)
	}
	if len(cfg.Cluster.Nodes) != 2 {
		t.Fatalf("default nodes=%d", len(cfg.Cluster.Nodes))
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "migctl.yaml")

	in := Config{
		Cluster: &ClusterConfig{
			BootNode: 0,
			Nodes: []NodeSpec{
				{ID: 0, Arch: "x86-64"},
				{ID: 1, Arch: "arm64", Offline: true},
			},
		},
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out.Cluster.Nodes) != 2 {
		t.Fatalf("nodes=%d", len(out.Cluster.Nodes))
	}
	if !out.Cluster.Nodes[1].Offline {
		t.Fatalf("offline flag lost: %+v", out.Cluster.Nodes[1])
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{Cluster: &ClusterConfig{Nodes: []NodeSpec{{ID: 0, Arch: "x86-64"}, {ID: 1, Arch: "arm64"}}}}
	if err := Validate(valid); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cases := []struct {
		name string
		cfg  Config
	}{
		{"no cluster", Config{}},
		{"no nodes", Config{Cluster: &ClusterConfig{}}},
		{"bad boot node", Config{Cluster: &ClusterConfig{BootNode: model.MaxNodes, Nodes: []NodeSpec{{ID: 0, Arch: "arm64"}}}}},
		{"node id out of range", Config{Cluster: &ClusterConfig{Nodes: []NodeSpec{{ID: model.MaxNodes, Arch: "arm64"}}}}},
		{"duplicate ids", Config{Cluster: &ClusterConfig{Nodes: []NodeSpec{{ID: 0, Arch: "arm64"}, {ID: 0, Arch: "x86-64"}}}}},
		{"bad arch", Config{Cluster: &ClusterConfig{Nodes: []NodeSpec{{ID: 0, Arch: "riscv"}}}}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := Validate(tc.cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNodeTable(t *testing.T) {
	t.Parallel()

	cluster := &ClusterConfig{Nodes: []NodeSpec{
		{ID: 0, Arch: "x86-64"},
		{ID: 1, Arch: "arm64", Offline: true},
	}}
	nodes, err := cluster.NodeTable()
	if err != nil {
		t.Fatalf("NodeTable: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("nodes=%d", len(nodes))
	}
	if nodes[0].Arch != model.ArchX86_64 || !nodes[0].Online() {
		t.Fatalf("node0=%+v", nodes[0])
	}
	if nodes[1].Arch != model.ArchAArch64 || nodes[1].Online() {
		t.Fatalf("node1=%+v", nodes[1])
	}
}
