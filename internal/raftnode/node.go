package raftnode

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb/v2"
	log "github.com/sirupsen/logrus"

	"github.com/indexify/coordinator/internal/statemachine"
)

// Peer is one member of the initial cluster.
type Peer struct {
	NodeID string
	Addr   string
}

// Config configures the consensus driver. Defaults are a 500ms heartbeat
// and a 1500-3000ms election timeout.
type Config struct {
	NodeID    string
	RaftAddr  string
	DataDir   string
	Peers     []Peer
	Bootstrap bool // true only for the node that forms a brand-new cluster

	HeartbeatMS       int
	ElectionTimeoutMS int // the low end; high end is 2x this value
}

func (c Config) heartbeat() time.Duration {
	if c.HeartbeatMS == 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.HeartbeatMS) * time.Millisecond
}

func (c Config) electionTimeout() time.Duration {
	if c.ElectionTimeoutMS == 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(c.ElectionTimeoutMS) * time.Millisecond
}

// Node owns a *raft.Raft instance and the FSM it replicates to.
type Node struct {
	Raft    *raft.Raft
	FSM     *FSM
	Machine *statemachine.Machine

	transport *raft.NetworkTransport
}

// Start brings up the consensus driver: opens log/stable storage under
// cfg.DataDir, binds the peer transport (a raft.NetworkTransport over
// TCP), and, when cfg.Bootstrap is set, bootstraps a new cluster made of
// this node plus cfg.Peers. Without Bootstrap, cfg.Peers is not used and
// the node waits for an existing cluster to add it.
func Start(cfg Config) (*Node, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %q: %w", cfg.DataDir, err)
	}

	var machine = statemachine.NewMachine()
	var fsm = NewFSM(machine)

	var raftCfg = raft.DefaultConfig()
	raftCfg.LocalID = raft.ServerID(cfg.NodeID)
	raftCfg.HeartbeatTimeout = cfg.heartbeat()
	raftCfg.ElectionTimeout = cfg.electionTimeout()
	raftCfg.LeaderLeaseTimeout = cfg.heartbeat()
	raftCfg.Logger = newHCLogAdapter(cfg.NodeID)

	logStore, stableStore, err := openBoltStores(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	snapshotDir := filepath.Join(cfg.DataDir, "snapshot")
	if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir %q: %w", snapshotDir, err)
	}
	snapshotStore, err := raft.NewFileSnapshotStore(snapshotDir, 2, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}

	addr, err := net.ResolveTCPAddr("tcp", cfg.RaftAddr)
	if err != nil {
		return nil, fmt.Errorf("resolving raft-addr %q: %w", cfg.RaftAddr, err)
	}
	transport, err := raft.NewTCPTransport(cfg.RaftAddr, addr, 3, 10*time.Second, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("binding peer transport on %q: %w", cfg.RaftAddr, err)
	}

	r, err := raft.NewRaft(raftCfg, fsm, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		return nil, fmt.Errorf("starting raft: %w", err)
	}

	if cfg.Bootstrap {
		var servers []raft.Server
		servers = append(servers, raft.Server{
			ID:      raft.ServerID(cfg.NodeID),
			Address: raft.ServerAddress(cfg.RaftAddr),
		})
		for _, p := range cfg.Peers {
			if p.NodeID == cfg.NodeID {
				continue
			}
			servers = append(servers, raft.Server{ID: raft.ServerID(p.NodeID), Address: raft.ServerAddress(p.Addr)})
		}
		var future = r.BootstrapCluster(raft.Configuration{Servers: servers})
		if err := future.Error(); err != nil && err != raft.ErrCantBootstrap {
			return nil, fmt.Errorf("bootstrapping cluster: %w", err)
		}
	}

	return &Node{Raft: r, FSM: fsm, Machine: machine, transport: transport}, nil
}

func openBoltStores(dataDir string) (raft.LogStore, raft.StableStore, error) {
	var logDir = filepath.Join(dataDir, "log")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir %q: %w", logDir, err)
	}
	store, err := raftboltdb.NewBoltStore(filepath.Join(logDir, "raft.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening bolt log store: %w", err)
	}
	return store, store, nil
}

// Shutdown asks the Raft driver to step down and flush. It is safe to
// call even if Start never reached a leader.
func (n *Node) Shutdown() error {
	if err := n.Raft.Shutdown().Error(); err != nil {
		return fmt.Errorf("shutting down raft: %w", err)
	}
	if err := n.transport.Close(); err != nil {
		return fmt.Errorf("closing peer transport: %w", err)
	}
	return nil
}

// ErrForwardToLeader is returned by ClientWrite when this node is not the
// leader, carrying the current leader's id and address so the caller can
// retry there.
type ErrForwardToLeader struct {
	LeaderID   string
	LeaderAddr string
}

func (e *ErrForwardToLeader) Error() string {
	return fmt.Sprintf("not leader; forward to %s (%s)", e.LeaderID, e.LeaderAddr)
}

// ErrLeaderUnknown is returned when this node has no leader hint at all;
// callers should back off and retry rather than loop tightly.
var ErrLeaderUnknown = fmt.Errorf("no known leader")

// ClientWrite proposes cmd to the replicated log and blocks until it is
// applied or fails; timeout is passed to raft.Raft.Apply.
// Reads performed after a successful ClientWrite are linearizable.
func (n *Node) ClientWrite(cmd statemachine.Command, timeout time.Duration) (*statemachine.Response, error) {
	if n.Raft.State() != raft.Leader {
		return nil, n.forwardErr()
	}

	data, err := EncodeCommand(cmd)
	if err != nil {
		return nil, fmt.Errorf("encoding command: %w", err)
	}

	var future = n.Raft.Apply(data, timeout)
	if err := future.Error(); err != nil {
		if err == raft.ErrNotLeader || err == raft.ErrLeadershipLost {
			return nil, n.forwardErr()
		}
		return nil, fmt.Errorf("proposing command: %w", err)
	}

	resp, ok := future.Response().(*statemachine.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected apply response type %T", future.Response())
	}
	return resp, nil
}

func (n *Node) forwardErr() error {
	addr, id := n.Raft.LeaderWithID()
	if addr == "" {
		return ErrLeaderUnknown
	}
	return &ErrForwardToLeader{LeaderID: string(id), LeaderAddr: string(addr)}
}

// IsLeader reports whether this node currently holds leadership.
func (n *Node) IsLeader() bool { return n.Raft.State() == raft.Leader }

// LeaderCh forwards the library's own leadership-transition notifications;
// true on acquiring leadership, false on losing it.
func (n *Node) LeaderCh() <-chan bool { return n.Raft.LeaderCh() }

func logLevel() log.Level {
	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		return lvl
	}
	return log.InfoLevel
}
