package engine

import (
	"sync/atomic"

	"github.com/texelcore/engine/internal/board"
)

// Search constants. MateScore follows the adjudicator's MATE0 = 32000
// convention: a winning mate in n plies is stored as MateScore-n, a
// losing one as -MateScore+n. IsMateScore reports whether a score is
// decisive enough to be treated as a forced mate within the searchable
// horizon.
const (
	Infinity  = 32001
	MateScore = 32000
	MaxPly    = 128
)

// IsMateScore reports whether score represents a forced mate (win or
// loss) reachable within MaxPly: |score| >= MateScore - MaxPly.
func IsMateScore(score int) bool {
	if score < 0 {
		score = -score
	}
	return score >= MateScore-MaxPly
}

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher wraps a single Worker for sequential (non-Lazy-SMP) use, such
// as the Multi-PV exclusion loop in SearchMultiPV.
type Searcher struct {
	worker   *Worker
	stopFlag atomic.Bool
}

// NewSearcher creates a legacy sequential searcher used for Multi-PV
// analysis: a single Worker driven depth-by-depth outside the Lazy SMP
// pool, with its own independent stop flag so stopping it never touches
// the pool's workers.
func NewSearcher(tt *TranspositionTable, pawnTable *PawnTable, sharedHistory *SharedHistory) *Searcher {
	s := &Searcher{}
	s.worker = NewWorker(0, tt, pawnTable, sharedHistory, &s.stopFlag)
	return s
}

// Stop signals this searcher's worker to stop, independent of any
// concurrently running Lazy SMP pool.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// IsStopped reports whether Stop has been called since the last Reset.
func (s *Searcher) IsStopped() bool {
	return s.stopFlag.Load()
}

// Reset resets the underlying worker for a new search.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.worker.Reset()
}

// Nodes returns the number of nodes searched by the underlying worker.
func (s *Searcher) Nodes() uint64 {
	return s.worker.Nodes()
}

// SetRootHistory forwards to the underlying worker.
func (s *Searcher) SetRootHistory(hashes []uint64) {
	s.worker.SetRootHistory(hashes)
}

// SetExcludedMoves forwards to the underlying worker.
func (s *Searcher) SetExcludedMoves(moves []board.Move) {
	s.worker.SetExcludedMoves(moves)
}

// ClearOrderer clears the underlying worker's move orderer.
func (s *Searcher) ClearOrderer() {
	s.worker.orderer.Clear()
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	return s.worker.GetPV()
}

// Search performs a full search at the given depth on a dedicated copy
// of pos, returning the best move and its score.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	s.worker.InitSearch(pos.Copy())
	return s.worker.SearchDepth(depth, -Infinity, Infinity)
}
