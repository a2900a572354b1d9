package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Transport names which Communicator a Distributed executor should
// construct.
type Transport string

const (
	TransportTCP Transport = "tcp"
	TransportHPC Transport = "hpc"
)

// Config is the set of knobs a driver program needs to stand up a
// Distributed run. Rank/Size/Peers must be populated either from a file or
// from the environment for a multi-peer run; Load does not reject a config
// that leaves them unset (it checks only that Peers has Size entries when
// Size is non-zero).
type Config struct {
	Rank      int       `json:"rank"`
	Size      int       `json:"size"`
	Peers     []string  `json:"peers"`
	PoolSize  int       `json:"pool_size"`
	Affinity  bool      `json:"affinity"`
	Transport Transport `json:"transport"`
}

// Load reads a JSON config file at path, if path is non-empty, then
// applies any GRIDIRON_* environment variable overrides on top —
// environment always wins, matching the convention of letting
// orchestration (e.g. a job scheduler) override a checked-in file without
// editing it.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "config: reading %s", path)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "config: parsing %s", path)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if len(cfg.Peers) != cfg.Size && cfg.Size != 0 {
		return cfg, errors.Errorf("config: peer table has %d entries, want %d (size)", len(cfg.Peers), cfg.Size)
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 1
	}
	if cfg.Transport == "" {
		cfg.Transport = TransportTCP
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(Env.Rank); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "config: parsing %s", Env.Rank)
		}
		cfg.Rank = n
	}
	if v, ok := os.LookupEnv(Env.Size); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "config: parsing %s", Env.Size)
		}
		cfg.Size = n
	}
	if v, ok := os.LookupEnv(Env.Peers); ok {
		cfg.Peers = strings.Split(v, ",")
	}
	if v, ok := os.LookupEnv(Env.PoolSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "config: parsing %s", Env.PoolSize)
		}
		cfg.PoolSize = n
	}
	if v, ok := os.LookupEnv(Env.Affinity); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "config: parsing %s", Env.Affinity)
		}
		cfg.Affinity = b
	}
	if v, ok := os.LookupEnv(Env.Transport); ok {
		cfg.Transport = Transport(v)
	}
	return nil
}
