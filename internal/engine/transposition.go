package engine

import (
	"sync/atomic"

	"github.com/texelcore/engine/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTEmpty TTFlag = iota
	TTExact
	TTLowerBound
	TTUpperBound
)

// clusterSize is the number of entries sharing a bucket: a cluster of
// entries rather than one slot per hash bucket, so that several
// colliding keys can coexist before anything is evicted.
const clusterSize = 4

// packedEntry is the fixed-width atomic unit stored per cluster slot.
// All fields for one TT entry are packed into a single uint64 so a slot
// can be read and written with a single atomic load/store: a torn read
// under concurrent access produces, at worst, a word whose embedded key
// fingerprint (bits 0-31) does not match the probing hash, which Probe
// treats as a miss. A deliberately race-tolerant design, avoiding the
// cost of per-slot locking under concurrent worker access.
//
// Layout (low to high bit):
//
//	[0:32)  key fingerprint (upper 32 bits of the Zobrist hash)
//	[32:48) score, stored as AdjustScoreToTT, biased to be unsigned
//	[48:56) depth (0..127) biased to be unsigned
//	[56:58) bound flag
//	[58:59) isPV
//	[59:64) generation
type packedEntry uint64

const (
	scoreBias = 1 << 15
	depthBias = 1 << 6
)

func makePackedEntry(keyFp uint32, score int, depth int, flag TTFlag, isPV bool, gen uint8) packedEntry {
	s := uint64(uint16(score + scoreBias))
	d := uint64(uint8(depth + depthBias))
	var pv uint64
	if isPV {
		pv = 1
	}
	return packedEntry(uint64(keyFp) |
		s<<32 |
		d<<48 |
		uint64(flag)<<56 |
		pv<<58 |
		uint64(gen)<<59)
}

func (e packedEntry) keyFingerprint() uint32 { return uint32(e) }
func (e packedEntry) score() int             { return int(uint16(e>>32)) - scoreBias }
func (e packedEntry) depth() int             { return int(uint8(e>>48)) - depthBias }
func (e packedEntry) flag() TTFlag           { return TTFlag((e >> 56) & 0x3) }
func (e packedEntry) isPV() bool             { return (e>>58)&1 != 0 }
func (e packedEntry) generation() uint8      { return uint8(e >> 59) }

// TTEntry is the decoded, convenient view of a probe result plus the
// best move, which is not atomic with the packed score word (it is
// stored in a neighbouring plain field and is allowed to be briefly
// stale or mismatched under a race — a wrong best move from a
// concurrent write is merely a worse move-ordering hint, never
// observable as an incorrect score).
type TTEntry struct {
	Key      uint32
	BestMove board.Move
	Score    int16
	StaticEval int16
	Depth    int8
	Flag     TTFlag
	IsPV     bool
	Age      uint8
}

type ttSlot struct {
	packed     atomic.Uint64
	move       atomic.Uint32 // board.Move, widened
	staticEval atomic.Int32
}

type ttCluster [clusterSize]ttSlot

// TranspositionTable is a lock-free, cluster-of-entries hash table.
// Writers store without locking; readers verify the embedded key
// fingerprint. Memory ordering is relaxed for the packed word itself
// (a torn read is self-detecting) and the generation counter travels
// inside that same word, so no separate synchronisation is needed for
// "new search" visibility beyond the atomic store itself.
type TranspositionTable struct {
	clusters []ttCluster
	mask     uint64
	gen      atomic.Uint32

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewTranspositionTable creates a transposition table sized to the
// largest power-of-two cluster count that fits in sizeMB megabytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	clusterBytes := uint64(clusterSize) * 16 // packed(8) + move(4) + staticEval(4), rounded
	numClusters := (uint64(sizeMB) * 1024 * 1024) / clusterBytes
	numClusters = roundDownToPowerOf2(numClusters)
	if numClusters == 0 {
		numClusters = 1
	}

	return &TranspositionTable{
		clusters: make([]ttCluster, numClusters),
		mask:     numClusters - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Prefetch hints that the cache line backing hash's cluster will soon be
// read. This target has no portable prefetch intrinsic reachable from
// Go without cgo/assembly, so it is a documented no-op on platforms
// without a native prefetch.
func (tt *TranspositionTable) Prefetch(hash uint64) {
	_ = tt.clusters[hash&tt.mask]
}

// Probe returns the slot whose fingerprint matches hash, if any.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes.Add(1)
	cluster := &tt.clusters[hash&tt.mask]
	fp := uint32(hash >> 32)

	for i := range cluster {
		slot := &cluster[i]
		packed := packedEntry(slot.packed.Load())
		if packed == 0 {
			continue
		}
		if packed.keyFingerprint() == fp {
			tt.hits.Add(1)
			return TTEntry{
				Key:        fp,
				BestMove:   board.Move(slot.move.Load()),
				Score:      int16(packed.score()),
				StaticEval: int16(slot.staticEval.Load()),
				Depth:      int8(packed.depth()),
				Flag:       packed.flag(),
				IsPV:       packed.isPV(),
				Age:        packed.generation(),
			}, true
		}
	}
	return TTEntry{}, false
}

// betterThan implements the total preorder used for
// cluster replacement: same generation beats a different one, then
// greater depth, then exact bound beats a bound (lower/upper tie).
// gen is the current (5-bit) search generation.
func betterThan(candidate, incumbent packedEntry, gen uint8) bool {
	candidateCurrent := candidate.generation() == gen
	incumbentCurrent := incumbent.generation() == gen
	if candidateCurrent != incumbentCurrent {
		return candidateCurrent
	}
	if candidate.depth() != incumbent.depth() {
		return candidate.depth() > incumbent.depth()
	}
	candidateExact := candidate.flag() == TTExact
	incumbentExact := incumbent.flag() == TTExact
	if candidateExact != incumbentExact {
		return candidateExact
	}
	return false
}

// Store writes an entry into hash's cluster, picking the slot with the
// matching key if present, else the worst-ranked slot by betterThan.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move, isPV bool) {
	tt.store(hash, depth, score, flag, bestMove, isPV, 0)
}

// StoreWithEval is Store plus the static evaluation slot.
func (tt *TranspositionTable) StoreWithEval(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move, isPV bool, staticEval int) {
	tt.store(hash, depth, score, flag, bestMove, isPV, staticEval)
}

func (tt *TranspositionTable) store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move, isPV bool, staticEval int) {
	cluster := &tt.clusters[hash&tt.mask]
	fp := uint32(hash >> 32)
	gen := uint8(tt.gen.Load()) & 0x1F
	candidate := makePackedEntry(fp, score, depth, flag, isPV, gen)

	var worstIdx int
	var worstPacked packedEntry = ^packedEntry(0) // sentinel: "always worse than worst real entry" placeholder
	foundMatch := false

	for i := range cluster {
		slot := &cluster[i]
		packed := packedEntry(slot.packed.Load())
		if packed != 0 && packed.keyFingerprint() == fp {
			// Same position: refresh directly, preserving static eval if
			// the caller didn't supply a fresh one.
			if staticEval == 0 {
				staticEval = int(slot.staticEval.Load())
			}
			slot.packed.Store(uint64(candidate))
			slot.move.Store(uint32(bestMove))
			slot.staticEval.Store(int32(staticEval))
			foundMatch = true
			break
		}
		if packed == 0 {
			worstIdx = i
			worstPacked = 0
			break
		}
		if i == 0 || !betterThan(packed, worstPacked, gen) {
			worstPacked = packed
			worstIdx = i
		}
	}

	if foundMatch {
		return
	}

	// Never replace a strictly better incumbent with a worse candidate.
	if worstPacked != 0 && betterThan(worstPacked, candidate, gen) {
		return
	}

	slot := &cluster[worstIdx]
	slot.packed.Store(uint64(candidate))
	slot.move.Store(uint32(bestMove))
	slot.staticEval.Store(int32(staticEval))
}

// NewSearch increments the generation counter for a new search,
// invalidating replacement preference for stale entries without
// touching their contents.
func (tt *TranspositionTable) NewSearch() {
	tt.gen.Add(1)
}

// Clear wipes every cluster.
func (tt *TranspositionTable) Clear() {
	for i := range tt.clusters {
		for j := range tt.clusters[i] {
			tt.clusters[i][j].packed.Store(0)
			tt.clusters[i][j].move.Store(0)
			tt.clusters[i][j].staticEval.Store(0)
		}
	}
	tt.gen.Store(0)
	tt.hits.Store(0)
	tt.probes.Store(0)
}

// HashFull returns the permille of the table occupied by the current
// generation, sampled over the first 1000/clusterSize clusters.
func (tt *TranspositionTable) HashFull() int {
	sampleClusters := 1000 / clusterSize
	if sampleClusters > len(tt.clusters) {
		sampleClusters = len(tt.clusters)
	}
	if sampleClusters == 0 {
		return 0
	}

	used := 0
	total := 0
	gen := uint8(tt.gen.Load()) & 0x1F
	for i := 0; i < sampleClusters; i++ {
		for j := range tt.clusters[i] {
			total++
			packed := packedEntry(tt.clusters[i][j].packed.Load())
			if packed != 0 && packed.generation() == gen {
				used++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return (used * 1000) / total
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	probes := tt.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(tt.hits.Load()) / float64(probes) * 100
}

// Size returns the number of addressable entries (clusters * clusterSize).
func (tt *TranspositionTable) Size() uint64 {
	return uint64(len(tt.clusters)) * clusterSize
}

// AdjustScoreFromTT converts a stored mate score (relative to the
// storing node) back to one relative to the retrieving node's ply.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT converts a node-relative mate score to one relative
// to the storing node, so a later retrieval at a different ply can be
// re-dated by AdjustScoreFromTT.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
