package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cmd, err := Parse([]string{
		"--node-id=n1",
		"--raft-addr=127.0.0.1:9001",
		"--coordinator-addr=127.0.0.1:9002",
		"--data-dir=/tmp/n1",
	})
	require.NoError(t, err)
	require.Equal(t, 60, cmd.ExecutorTTLSecs)
	require.Equal(t, 500, cmd.HeartbeatMS)
	require.Equal(t, 1500, cmd.ElectionTimeoutMS)
	require.Equal(t, "info", cmd.Log.Level)
}

func TestParsedPeersSplitsNodeIDAndAddr(t *testing.T) {
	cmd, err := Parse([]string{
		"--node-id=n1",
		"--raft-addr=127.0.0.1:9001",
		"--coordinator-addr=127.0.0.1:9002",
		"--data-dir=/tmp/n1",
		"--peer=n1=127.0.0.1:9001",
		"--peer=n2=127.0.0.1:9011",
	})
	require.NoError(t, err)

	peers, err := cmd.ParsedPeers()
	require.NoError(t, err)
	require.Equal(t, []PeerSpec{{NodeID: "n1", Addr: "127.0.0.1:9001"}, {NodeID: "n2", Addr: "127.0.0.1:9011"}}, peers)
}

func TestParsedPeersRejectsMalformedEntry(t *testing.T) {
	cmd, err := Parse([]string{
		"--node-id=n1",
		"--raft-addr=127.0.0.1:9001",
		"--coordinator-addr=127.0.0.1:9002",
		"--data-dir=/tmp/n1",
		"--peer=not-a-pair",
	})
	require.NoError(t, err)

	_, err = cmd.ParsedPeers()
	require.Error(t, err)
}

func TestLogConfigApplyRejectsUnknownFormat(t *testing.T) {
	var lc = LogConfig{Level: "info", Format: "xml"}
	require.Error(t, lc.Apply())
}
