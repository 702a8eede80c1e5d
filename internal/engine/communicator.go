package engine

import (
	"sync"
	"sync/atomic"
)

// CommandKind identifies a message sent to the worker pool through a
// Communicator.
type CommandKind int

const (
	CmdStart CommandKind = iota
	CmdStop
	CmdQuit
	CmdNewPosition
)

// Command is a single instruction dispatched to the pool.
type Command struct {
	Kind CommandKind
}

// Communicator formalises the stop-notification and command-dispatch
// plumbing that SearchWithLimits/SearchWithUCILimits already do ad hoc
// with a shared atomic.Bool and result channels. It wraps the same
// atomic.Bool the engine uses for its per-node stop check, so every
// worker observes a Stop() through the identical fast path; the
// command queue and best-move channel exist for callers (e.g. a UCI
// front-end driving ponder/newPosition) that want a single serialized
// entry point instead of calling Engine methods directly.
type Communicator struct {
	stop *atomic.Bool

	cmds      chan Command
	bestMove  chan WorkerResult
	closeOnce sync.Once
}

// NewCommunicator builds a Communicator whose stop notification is
// backed by stop, typically &Engine.stopFlag so every worker created
// against that same pointer observes the identical signal.
func NewCommunicator(stop *atomic.Bool) *Communicator {
	return &Communicator{
		stop:     stop,
		cmds:     make(chan Command, 8),
		bestMove: make(chan WorkerResult, 8),
	}
}

// Stop signals every worker sharing this Communicator's stop flag.
func (c *Communicator) Stop() { c.stop.Store(true) }

// Stopped reports whether Stop has been called since the last Reset.
func (c *Communicator) Stopped() bool { return c.stop.Load() }

// Reset clears the stop flag ahead of a new search.
func (c *Communicator) Reset() { c.stop.Store(false) }

// Send enqueues a command for whatever goroutine is draining Commands.
// Never blocks longer than the channel's buffer allows; a full queue
// indicates the drain side has stalled, which is a caller bug.
func (c *Communicator) Send(cmd Command) { c.cmds <- cmd }

// Commands exposes the command channel for a dispatch loop to range over.
func (c *Communicator) Commands() <-chan Command { return c.cmds }

// PublishBestMove delivers a worker's result to anyone listening on
// BestMoves. Non-blocking: a caller that isn't draining the channel
// simply misses the update, matching UCI's "best effort info" semantics.
func (c *Communicator) PublishBestMove(r WorkerResult) {
	select {
	case c.bestMove <- r:
	default:
	}
}

// BestMoves exposes the best-move-update channel.
func (c *Communicator) BestMoves() <-chan WorkerResult { return c.bestMove }

// Close shuts down the command channel. Safe to call more than once.
func (c *Communicator) Close() {
	c.closeOnce.Do(func() {
		close(c.cmds)
	})
}

// ClusterTT asserts single-writer ownership over a TranspositionTable:
// only the owner goroutine may call the generation/clear management
// calls, while Probe/Store remain the table's existing lock-free path
// for every worker. It exists to make that ownership explicit rather
// than implicit in "whoever calls NewSearch first wins".
type ClusterTT struct {
	tt    *TranspositionTable
	mu    sync.Mutex
	owner bool
}

// NewClusterTT wraps tt, with no owner claimed yet.
func NewClusterTT(tt *TranspositionTable) *ClusterTT {
	return &ClusterTT{tt: tt}
}

// Claim grants exclusive management ownership to the caller. Returns
// false if another goroutine already holds it.
func (c *ClusterTT) Claim() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner {
		return false
	}
	c.owner = true
	return true
}

// Release gives up management ownership.
func (c *ClusterTT) Release() {
	c.mu.Lock()
	c.owner = false
	c.mu.Unlock()
}

// NewSearch bumps the table's generation. Only the claimed owner
// should call this between searches.
func (c *ClusterTT) NewSearch() { c.tt.NewSearch() }

// Clear empties the table. Only the claimed owner should call this.
func (c *ClusterTT) Clear() { c.tt.Clear() }

// Table returns the underlying table for the lock-free Probe/Store path.
func (c *ClusterTT) Table() *TranspositionTable { return c.tt }

// OrderedGate serialises N workers into round-robin turns, so a
// multi-worker search produces the same move/score sequence on every
// run. Worker i must call Wait(i) before doing depth-d work and Done()
// after, cycling back to worker 0 once all N have gone. Intended for
// deterministic regression tests, not production search (it defeats
// Lazy SMP's whole point of independent, staggered exploration).
//
// Assumes every worker reaches its Wait/Done pair: a worker that stops
// mid-search (stopFlag observed between Wait and Done) never calls
// Done and leaves the next worker's turn stuck until Enable resets the
// turn counter on the following search. Fine for tests, which call
// Enable per-search, but not a general-purpose scheduler guarantee.
type OrderedGate struct {
	n       int
	mu      sync.Mutex
	cond    *sync.Cond
	turn    int
	enabled bool
}

// NewOrderedGate builds a gate for n workers. Disabled by default;
// call Enable to turn on the round-robin constraint.
func NewOrderedGate(n int) *OrderedGate {
	g := &OrderedGate{n: n}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Enable turns on round-robin ordering, resetting the turn to worker 0.
func (g *OrderedGate) Enable() {
	g.mu.Lock()
	g.enabled = true
	g.turn = 0
	g.mu.Unlock()
	g.cond.Broadcast()
}

// Disable releases any waiting workers and stops enforcing order.
func (g *OrderedGate) Disable() {
	g.mu.Lock()
	g.enabled = false
	g.mu.Unlock()
	g.cond.Broadcast()
}

// Wait blocks worker id until it is its turn, or returns immediately
// when the gate is disabled.
func (g *OrderedGate) Wait(id int) {
	g.mu.Lock()
	for g.enabled && g.turn != id {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

// Done advances the turn to the next worker, wrapping modulo n.
func (g *OrderedGate) Done() {
	g.mu.Lock()
	g.turn = (g.turn + 1) % g.n
	g.mu.Unlock()
	g.cond.Broadcast()
}
