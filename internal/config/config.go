// Package config declares the coordinator's command-line and environment
// configuration surface, parsed with github.com/jessevdk/go-flags:
// grouped structs with `long`/`env`/`default` tags.
package config

import (
	"fmt"
	"strings"

	flags "github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"
)

// PeerSpec is one entry of --peer, in "node_id=addr" form.
type PeerSpec struct {
	NodeID string
	Addr   string
}

// LogConfig controls process-wide structured logging.
type LogConfig struct {
	Level  string `long:"level" env:"LEVEL" default:"info" description:"logging level (trace|debug|info|warn|error)"`
	Format string `long:"format" env:"FORMAT" default:"text" description:"log encoding (text|json)"`
}

// Apply configures the standard logrus logger per lc.
func (lc LogConfig) Apply() error {
	lvl, err := log.ParseLevel(lc.Level)
	if err != nil {
		return fmt.Errorf("parsing --log.level %q: %w", lc.Level, err)
	}
	log.SetLevel(lvl)

	switch lc.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{})
	default:
		return fmt.Errorf("unrecognized --log.format %q", lc.Format)
	}
	return nil
}

// ServeCmd is the top-level "serve" subcommand configuration: every
// option a coordinator replica needs to join or bootstrap a cluster,
// plus the ambient logging group.
type ServeCmd struct {
	NodeID          string   `long:"node-id" env:"NODE_ID" required:"true" description:"this node's raft identity"`
	Peers           []string `long:"peer" env:"PEERS" env-delim:"," description:"node_id=addr of every initial cluster member, including self"`
	RaftAddr        string   `long:"raft-addr" env:"RAFT_ADDR" required:"true" description:"bind address for the peer transport"`
	CoordinatorAddr string   `long:"coordinator-addr" env:"COORDINATOR_ADDR" required:"true" description:"bind address for the coordinator gRPC API"`
	DataDir         string   `long:"data-dir" env:"DATA_DIR" required:"true" description:"directory for raft log, snapshots, and stable storage"`
	Bootstrap       bool     `long:"bootstrap" env:"BOOTSTRAP" description:"bootstrap a brand-new cluster from --peer (only one node in a fresh cluster should set this)"`

	ExecutorTTLSecs    int `long:"executor-ttl-secs" env:"EXECUTOR_TTL_SECS" default:"60" description:"seconds of silence before an executor is reaped"`
	HeartbeatMS        int `long:"heartbeat-ms" env:"HEARTBEAT_MS" default:"500" description:"raft leader heartbeat interval"`
	ElectionTimeoutMS  int `long:"election-timeout-ms" env:"ELECTION_TIMEOUT_MS" default:"1500" description:"raft election timeout low bound (high bound is 2x)"`

	Log LogConfig `group:"Logging" namespace:"log" env-namespace:"LOG"`
}

// ParsedPeers decodes every --peer entry, rejecting malformed ones.
func (c ServeCmd) ParsedPeers() ([]PeerSpec, error) {
	var out = make([]PeerSpec, 0, len(c.Peers))
	for _, raw := range c.Peers {
		nodeID, addr, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("malformed --peer %q, expected node_id=addr", raw)
		}
		out = append(out, PeerSpec{NodeID: nodeID, Addr: addr})
	}
	return out, nil
}

// Parse parses os.Args-style argv into a ServeCmd using a single
// flags.Parser for the whole entrypoint.
func Parse(argv []string) (*ServeCmd, error) {
	var cmd ServeCmd
	var parser = flags.NewParser(&cmd, flags.Default)
	if _, err := parser.ParseArgs(argv); err != nil {
		return nil, err
	}
	return &cmd, nil
}
