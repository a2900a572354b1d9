package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/clemson-cal/gridiron-go/config"
)

func TestLoadDefaultsWithNoFile(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if cfg.PoolSize != 1 {
		t.Fatalf("PoolSize = %d, want 1", cfg.PoolSize)
	}
	if cfg.Transport != config.TransportTCP {
		t.Fatalf("Transport = %q, want %q", cfg.Transport, config.TransportTCP)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridiron.json")
	body := `{"rank":1,"size":2,"peers":["a:1","b:2"],"pool_size":4,"transport":"hpc"}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%s) returned error: %v", path, err)
	}
	if cfg.Rank != 1 || cfg.Size != 2 || cfg.PoolSize != 4 || cfg.Transport != config.TransportHPC {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Peers) != 2 || cfg.Peers[0] != "a:1" || cfg.Peers[1] != "b:2" {
		t.Fatalf("unexpected peers: %v", cfg.Peers)
	}
}

func TestLoadRejectsMismatchedPeerCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridiron.json")
	body := `{"rank":0,"size":3,"peers":["a:1","b:2"]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := config.Load(path); err == nil {
		t.Fatal("Load did not reject a peer table shorter than size")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridiron.json")
	body := `{"rank":0,"size":1,"peers":["a:1"],"pool_size":2,"transport":"tcp"}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv(config.Env.PoolSize, "8")
	t.Setenv(config.Env.Transport, "hpc")
	t.Setenv(config.Env.Affinity, "true")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%s) returned error: %v", path, err)
	}
	if cfg.PoolSize != 8 {
		t.Fatalf("PoolSize = %d, want 8 (env override)", cfg.PoolSize)
	}
	if cfg.Transport != config.TransportHPC {
		t.Fatalf("Transport = %q, want hpc (env override)", cfg.Transport)
	}
	if !cfg.Affinity {
		t.Fatal("Affinity = false, want true (env override)")
	}
}

func TestEnvRejectsBadInt(t *testing.T) {
	t.Setenv(config.Env.PoolSize, "not-a-number")
	if _, err := config.Load(""); err == nil {
		t.Fatal("Load did not reject a malformed GRIDIRON_POOL_SIZE")
	}
}
