package raftnode

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/indexify/coordinator/internal/statemachine"
)

func startSingleNode(t *testing.T) *Node {
	t.Helper()
	var cfg = Config{
		NodeID:    "node1",
		RaftAddr:  "127.0.0.1:0",
		DataDir:   t.TempDir(),
		Bootstrap: true,
	}
	node, err := Start(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, node.Shutdown()) })

	require.Eventually(t, node.IsLeader, 5*time.Second, 10*time.Millisecond)
	return node
}

func TestSingleNodeBecomesLeaderAndApplies(t *testing.T) {
	var node = startSingleNode(t)

	resp, err := node.ClientWrite(statemachine.Command{
		Kind:             statemachine.CmdCreateRepository,
		CreateRepository: &statemachine.CreateRepositoryCmd{Name: "r1"},
	}, time.Second)
	require.NoError(t, err)
	require.Nil(t, resp.Err)

	var names []string
	node.Machine.State().Read(func(s *statemachine.State) { names = s.RepositoryNames() })
	require.Equal(t, []string{"r1"}, names)
}

func TestClientWriteRejectsWhenNotLeader(t *testing.T) {
	var cfg = Config{
		NodeID:   "node1",
		RaftAddr: "127.0.0.1:0",
		DataDir:  t.TempDir(),
		// Bootstrap left false: this node never forms or joins a cluster,
		// so it never becomes leader.
	}
	node, err := Start(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, node.Shutdown()) })

	_, err = node.ClientWrite(statemachine.Command{
		Kind:             statemachine.CmdCreateRepository,
		CreateRepository: &statemachine.CreateRepositoryCmd{Name: "r1"},
	}, time.Second)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrLeaderUnknown)
}

func TestSnapshotAndRestoreRoundTrip(t *testing.T) {
	var node = startSingleNode(t)

	require.NoError(t, mustApply(t, node, statemachine.Command{
		Kind:             statemachine.CmdCreateRepository,
		CreateRepository: &statemachine.CreateRepositoryCmd{Name: "r1"},
	}))

	future := node.Raft.Snapshot()
	require.NoError(t, future.Error())

	var names []string
	node.Machine.State().Read(func(s *statemachine.State) { names = s.RepositoryNames() })
	require.Equal(t, []string{"r1"}, names)

	data, err := statemachine.Encode(node.Machine.Snapshot())
	require.NoError(t, err)
	var restored = NewFSM(statemachine.NewMachine())
	require.NoError(t, restored.Restore(io.NopCloser(bytes.NewReader(data))))

	var restoredNames []string
	restored.machine.State().Read(func(s *statemachine.State) { restoredNames = s.RepositoryNames() })
	require.Equal(t, []string{"r1"}, restoredNames)
}

func mustApply(t *testing.T, node *Node, cmd statemachine.Command) error {
	t.Helper()
	resp, err := node.ClientWrite(cmd, time.Second)
	if err != nil {
		return err
	}
	if resp.Err != nil {
		return resp.Err
	}
	return nil
}
