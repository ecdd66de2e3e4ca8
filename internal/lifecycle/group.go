// Package lifecycle fans a single shutdown signal out to every background
// task a coordinator node runs (the RPC server, the scheduler loops) and
// joins them on the way down: the process joins all background tasks and
// reports any errors non-fatally, so failure of one join never prevents
// joining the rest.
package lifecycle

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Group runs a set of tasks, each a func(ctx context.Context) error,
// cancelling ctx for all of them when Shutdown is called. Unlike
// golang.org/x/sync/errgroup, a task returning does not cancel the
// others, and Wait never short-circuits on the first error: every task
// is joined, and every non-nil, non-context-cancelled error is
// collected and returned together.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc

	wg sync.Mutex // guards tasks during Run registration
	n  int

	done chan taskResult
}

type taskResult struct {
	name string
	err  error
}

// New returns a Group whose tasks observe parent's cancellation in
// addition to Shutdown.
func New(parent context.Context) *Group {
	var ctx, cancel = context.WithCancel(parent)
	return &Group{ctx: ctx, cancel: cancel, done: make(chan taskResult)}
}

// Context is passed to every task started with Run.
func (g *Group) Context() context.Context { return g.ctx }

// Run starts fn in its own goroutine under name (used only for logging).
func (g *Group) Run(name string, fn func(ctx context.Context) error) {
	g.wg.Lock()
	g.n++
	g.wg.Unlock()

	go func() {
		var err = fn(g.ctx)
		g.done <- taskResult{name: name, err: err}
	}()
}

// Shutdown cancels every running task's context. It does not block; call
// Wait afterward to join.
func (g *Group) Shutdown() { g.cancel() }

// Wait blocks until every task started with Run has returned, then
// returns the non-nil, non-cancellation errors collected along the way.
// A task failing to join never prevents the rest from being joined.
func (g *Group) Wait() []error {
	var errs []error
	for i := 0; i < g.n; i++ {
		var res = <-g.done
		if res.err != nil && res.err != context.Canceled {
			log.WithField("task", res.name).WithError(res.err).Warn("background task exited with error")
			errs = append(errs, res.err)
		}
	}
	return errs
}
