package statemachine

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Snapshot is a complete serialization of base entities only: derived
// tables are never written, only rebuilt on install. A Snapshot
// round-trip that doesn't rebuild derived tables identically is a bug.
type Snapshot struct {
	NextSeq int64

	Repositories map[string]Repository
	Extractors   map[string]ExtractorDescription
	Bindings     map[string]ExtractorBinding
	Content      map[string]ContentMetadata
	Executors    map[string]ExecutorMetadata
	Events       map[string]ExtractionEvent
	Tasks        map[string]Task
	// TaskAssignments is redundant with Task.AssignedExecutorID and is
	// written for symmetry with the rest of the schema; Install does not
	// rely on it, since rebuildDerived recomputes task assignments from
	// each Task's AssignedExecutorID.
	TaskAssignments map[string]map[string]struct{}
	Indexes         map[string]Index
}

// snapshotHeader is a fixed 16-byte prefix: magic, version, and the
// length of the gob-encoded body that follows. Version 1 is the only
// version this build understands; an unknown version is a fatal read
// error.
type snapshotHeader struct {
	Magic   [8]byte
	Version uint32
	Length  uint32
}

var snapshotMagic = [8]byte{'i', 'd', 'x', 'f', 'y', 's', 'n', 'p'}

const snapshotVersion = 1

// Snapshot returns a point-in-time copy of base entities, taken under the
// shared-read lock.
func (m *Machine) Snapshot() Snapshot {
	var snap Snapshot
	m.state.Read(func(s *State) {
		snap = Snapshot{
			NextSeq:         s.nextSeq,
			Repositories:    cloneMap(s.repositories),
			Extractors:      cloneMap(s.extractors),
			Bindings:        cloneMap(s.bindings),
			Content:         cloneMap(s.content),
			Executors:       cloneMap(s.executors),
			Events:          cloneMap(s.events),
			Tasks:           cloneMap(s.tasks),
			TaskAssignments: cloneAssignments(s.taskAssignments),
			Indexes:         cloneMap(s.indexes),
		}
	})
	return snap
}

// Install replaces state atomically with snap and rebuilds every derived
// table from scratch, then emits exactly one change notification.
func (m *Machine) Install(snap Snapshot) {
	m.state.mu.Lock()
	var s = m.state
	s.nextSeq = snap.NextSeq
	s.repositories = cloneMap(snap.Repositories)
	s.extractors = cloneMap(snap.Extractors)
	s.bindings = cloneMap(snap.Bindings)
	s.content = cloneMap(snap.Content)
	s.executors = cloneMap(snap.Executors)
	s.events = cloneMap(snap.Events)
	s.tasks = cloneMap(snap.Tasks)
	s.taskAssignments = cloneAssignments(snap.TaskAssignments)
	s.indexes = cloneMap(snap.Indexes)
	s.rebuildDerived()
	m.state.mu.Unlock()

	m.wake()
}

// Encode writes snap's wire form: a 16-byte fixed header followed by a
// gob-encoded body.
func Encode(snap Snapshot) ([]byte, error) {
	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(snap); err != nil {
		return nil, fmt.Errorf("encoding snapshot body: %w", err)
	}

	// The header is fixed binary layout, not gob, so its 16-byte size is
	// exact regardless of gob's own framing.
	var hdr = snapshotHeader{Magic: snapshotMagic, Version: snapshotVersion, Length: uint32(body.Len())}
	return encodeFixedHeader(hdr, body.Bytes()), nil
}

// Decode parses the wire form written by Encode. An unrecognized magic
// or version is a fatal read error.
func Decode(data []byte) (Snapshot, error) {
	var hdr, body, err = decodeFixedHeader(data)
	if err != nil {
		return Snapshot{}, err
	}
	if hdr.Magic != snapshotMagic {
		return Snapshot{}, fmt.Errorf("snapshot: bad magic %x", hdr.Magic)
	}
	if hdr.Version != snapshotVersion {
		return Snapshot{}, fmt.Errorf("snapshot: unsupported version %d", hdr.Version)
	}
	if uint32(len(body)) != hdr.Length {
		return Snapshot{}, fmt.Errorf("snapshot: length mismatch, header says %d, got %d", hdr.Length, len(body))
	}

	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot body: %w", err)
	}
	return snap, nil
}

func encodeFixedHeader(hdr snapshotHeader, body []byte) []byte {
	var out = make([]byte, 16+len(body))
	copy(out[0:8], hdr.Magic[:])
	putUint32(out[8:12], hdr.Version)
	putUint32(out[12:16], hdr.Length)
	copy(out[16:], body)
	return out
}

func decodeFixedHeader(data []byte) (snapshotHeader, []byte, error) {
	if len(data) < 16 {
		return snapshotHeader{}, nil, fmt.Errorf("snapshot: truncated header, got %d bytes", len(data))
	}
	var hdr snapshotHeader
	copy(hdr.Magic[:], data[0:8])
	hdr.Version = getUint32(data[8:12])
	hdr.Length = getUint32(data[12:16])
	return hdr, data[16:], nil
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	var out = make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneAssignments(in map[string]map[string]struct{}) map[string]map[string]struct{} {
	var out = make(map[string]map[string]struct{}, len(in))
	for k, v := range in {
		out[k] = cloneMap(v)
	}
	return out
}
