// Package config loads process configuration for a distributed run: this
// peer's rank, the full peer address table, pool sizing, and transport
// choice. None of it is consulted by coordinate.Coordinate itself — it
// exists purely to assemble the Communicator, Coder, and Pool an exec
// façade needs, the way a driver program would.
/*
 * Copyright (c) 2018-2024, gridiron-go authors.
 */
package config

// See also: docs/environment-vars.md in the teacher repo this table's
// shape is adapted from.
var Env = struct {
	Rank       string
	Size       string
	Peers      string
	PoolSize   string
	Affinity   string
	Transport  string
	ConfigFile string
}{
	Rank:       "GRIDIRON_RANK",
	Size:       "GRIDIRON_SIZE",
	Peers:      "GRIDIRON_PEERS",
	PoolSize:   "GRIDIRON_POOL_SIZE",
	Affinity:   "GRIDIRON_AFFINITY",
	Transport:  "GRIDIRON_TRANSPORT",
	ConfigFile: "GRIDIRON_CONFIG",
}
