package raftnode

import (
	"io"

	"github.com/hashicorp/go-hclog"
	log "github.com/sirupsen/logrus"
)

// newHCLogAdapter satisfies raft.Config.Logger (an hclog.Logger) while
// routing everything through logrus: a single structured logger for the
// whole process rather than a second logging stack bolted on for one
// dependency.
func newHCLogAdapter(nodeID string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "raft",
		Level:  hclog.LevelFromString(logLevel().String()),
		Output: &logrusWriter{entry: log.WithField("node_id", nodeID)},
	})
}

// logrusWriter adapts hclog's io.Writer-based output sink onto a
// logrus.Entry, so raft's internal log lines carry the same fields
// (node_id) as the rest of the coordinator's logging.
type logrusWriter struct {
	entry *log.Entry
}

func (w *logrusWriter) Write(p []byte) (int, error) {
	w.entry.Info(string(p))
	return len(p), nil
}

var _ io.Writer = (*logrusWriter)(nil)
