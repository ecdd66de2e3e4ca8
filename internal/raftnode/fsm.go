// Package raftnode wraps github.com/hashicorp/raft as the coordinator's
// consensus driver: single-leader writes, log replication, snapshotting,
// and membership changes, with the replicated state machine of
// internal/statemachine as the FSM being replicated.
package raftnode

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/raft"
	log "github.com/sirupsen/logrus"

	"github.com/indexify/coordinator/internal/statemachine"
)

// FSM adapts *statemachine.Machine to raft.FSM. Apply is called by the
// hashicorp/raft library once per committed log entry, strictly in log
// order and from a single goroutine, matching the single-writer
// requirement of statemachine.Machine.Apply.
type FSM struct {
	machine *statemachine.Machine
}

// NewFSM returns an FSM backed by machine.
func NewFSM(machine *statemachine.Machine) *FSM {
	return &FSM{machine: machine}
}

// logEntry is the gob-encoded payload of every raft.Log.Data: the
// Command the proposer submitted. gob is used here (rather than the
// protobuf wire types used by the Coordinator API) to keep
// purely-internal wire shapes on the standard library, reserving the
// third-party codec for the externally-facing contract.
type logEntry struct {
	Cmd statemachine.Command
}

// EncodeCommand is called by proposers (internal/coordinatorapi,
// internal/scheduler) to build the []byte a raft.Raft.Apply call expects.
func EncodeCommand(cmd statemachine.Command) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(logEntry{Cmd: cmd}); err != nil {
		return nil, fmt.Errorf("encoding command: %w", err)
	}
	return buf.Bytes(), nil
}

// Apply implements raft.FSM. It decodes the log entry and applies it to
// the wrapped state machine, returning a *statemachine.Response so
// callers of raft.Raft.Apply().Response() get back the same shape
// apply-level callers expect.
func (f *FSM) Apply(log *raft.Log) interface{} {
	var entry logEntry
	if err := gob.NewDecoder(bytes.NewReader(log.Data)).Decode(&entry); err != nil {
		// A log entry that fails to decode indicates corruption in this
		// node's own proposal path, not a remote/network issue — this is
		// consensus-fatal. Apply runs on the raft library's internal
		// goroutine, so a plain panic here would only crash that
		// goroutine's caller with an unpredictable status; FatalApplyErr
		// gives cmd/coordinator a single hook to turn this into a
		// deterministic exit code.
		FatalApplyErr(fmt.Errorf("raftnode: corrupt log entry at index %d: %w", log.Index, err))
	}

	var resp = f.machine.Apply(int64(log.Index), entry.Cmd)
	return &resp
}

// FatalApplyErr is called on consensus-fatal FSM errors. It defaults to
// logging and exiting the process with code 3. It is a variable so it
// can be replaced; cmd/coordinator leaves it at its default.
var FatalApplyErr = func(err error) {
	log.WithError(err).Error("fatal FSM error, exiting")
	osExit(3)
}

var osExit = os.Exit

// Snapshot implements raft.FSM.
func (f *FSM) Snapshot() (raft.FSMSnapshot, error) {
	return &fsmSnapshot{snap: f.machine.Snapshot()}, nil
}

// Restore implements raft.FSM, replacing state wholesale from rc.
func (f *FSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	snap, err := statemachine.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	f.machine.Install(snap)
	return nil
}

type fsmSnapshot struct {
	snap statemachine.Snapshot
}

func (s *fsmSnapshot) Persist(sink raft.SnapshotSink) error {
	data, err := statemachine.Encode(s.snap)
	if err != nil {
		sink.Cancel()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if _, err := sink.Write(data); err != nil {
		sink.Cancel()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return sink.Close()
}

func (s *fsmSnapshot) Release() {}
