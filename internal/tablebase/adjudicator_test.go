package tablebase

import (
	"testing"

	"github.com/texelcore/engine/internal/board"
)

// stubProber returns a fixed ProbeResult/RootResult for every query,
// regardless of the position probed.
type stubProber struct {
	result    ProbeResult
	root      RootResult
	maxPieces int
	available bool
}

func (s *stubProber) Probe(pos *board.Position) ProbeResult   { return s.result }
func (s *stubProber) ProbeRoot(pos *board.Position) RootResult { return s.root }
func (s *stubProber) MaxPieces() int                          { return s.maxPieces }
func (s *stubProber) Available() bool                          { return s.available }

// sideProber reports a win with White to move and a loss with Black to move.
type sideProber struct{ stubProber }

func (s *sideProber) Probe(pos *board.Position) ProbeResult {
	if pos.SideToMove == board.White {
		return ProbeResult{Found: true, WDL: WDLWin}
	}
	return ProbeResult{Found: true, WDL: WDLLoss}
}

func krkPosition(t *testing.T) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN("8/8/8/4k3/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	return pos
}

func TestTbProbeExactWin(t *testing.T) {
	prober := &stubProber{
		result:    ProbeResult{Found: true, WDL: WDLWin, DTZ: 10},
		maxPieces: 5,
		available: true,
	}
	a := NewAdjudicator(prober)
	pos := krkPosition(t)

	entry, ok := a.TbProbe(pos, 0, -MATE0, MATE0)
	if !ok {
		t.Fatalf("expected a tablebase result")
	}
	if entry.Bound != BoundExact {
		t.Fatalf("expected BoundExact, got %v", entry.Bound)
	}
	if entry.Score <= 0 {
		t.Fatalf("expected a positive (winning) score, got %d", entry.Score)
	}
}

func TestTbProbeCrossingZeroGuard(t *testing.T) {
	prober := &stubProber{
		result:    ProbeResult{Found: true, WDL: WDLWin, DTZ: 10},
		maxPieces: 5,
		available: true,
	}
	a := NewAdjudicator(prober)
	pos := krkPosition(t)
	pos.HalfMoveClock = 5 // check-bound: non-zero clock, non-draw WDL

	// beta <= 0 means a reported win can't move the window past zero,
	// so the result must downgrade to a draw-bound instead of a score.
	entry, ok := a.TbProbe(pos, 0, -100, 0)
	if !ok {
		t.Fatalf("expected a tablebase result")
	}
	if entry.Bound != BoundUpper || entry.Score != 0 {
		t.Fatalf("expected a zero upper bound, got score=%d bound=%v", entry.Score, entry.Bound)
	}
}

func TestTbProbeExactDrawGetsSwindleScore(t *testing.T) {
	prober := &stubProber{
		result:    ProbeResult{Found: true, WDL: WDLDraw, DTZ: 7},
		maxPieces: 5,
		available: true,
	}
	a := NewAdjudicator(prober)
	pos := krkPosition(t)

	entry, ok := a.TbProbe(pos, 0, -MATE0, MATE0)
	if !ok {
		t.Fatalf("expected a tablebase result")
	}
	if entry.Bound != BoundExact {
		t.Fatalf("expected BoundExact, got %v", entry.Bound)
	}
	if entry.Score != 7 {
		t.Fatalf("expected swindle score 7, got %d", entry.Score)
	}
}

func TestTbProbeUnavailableOrTooManyPieces(t *testing.T) {
	pos := board.NewPosition() // 32 pieces, far beyond any tablebase
	a := NewAdjudicator(&stubProber{maxPieces: 5, available: true})
	if _, ok := a.TbProbe(pos, 0, -MATE0, MATE0); ok {
		t.Fatalf("expected no result for a position beyond MaxPieces")
	}

	a2 := NewAdjudicator(&stubProber{maxPieces: 5, available: false})
	if _, ok := a2.TbProbe(krkPosition(t), 0, -MATE0, MATE0); ok {
		t.Fatalf("expected no result when the prober is unavailable")
	}
}

func TestTbProbeRefusesPositionsWithCastlingRights(t *testing.T) {
	pos := board.NewPosition()
	prober := &stubProber{result: ProbeResult{Found: true, WDL: WDLWin}, maxPieces: 32, available: true}
	a := NewAdjudicator(prober)
	if _, ok := a.TbProbe(pos, 0, -MATE0, MATE0); ok {
		t.Fatalf("a position with castling rights can never be tabled")
	}
}

func TestMaxSubMateIsMemoizedAndTerminates(t *testing.T) {
	a := NewAdjudicator(&stubProber{})
	var material board.MaterialID
	material = material.Add(board.White, board.Rook).Add(board.White, board.Pawn)

	first := a.maxSubMate(material, 3)
	second := a.maxSubMate(material, 3)
	if first != second {
		t.Fatalf("expected memoized result to be stable, got %d then %d", first, second)
	}
	if first <= 0 {
		t.Fatalf("expected a positive bound, got %d", first)
	}

	// A bare king (no non-king material) must terminate the recursion
	// rather than recursing forever trying to remove pieces it doesn't have.
	bare := a.maxSubMate(board.MaterialID(0), 0)
	if bare <= 0 {
		t.Fatalf("expected a positive bound for bare kings, got %d", bare)
	}
}

func TestGetSearchMovesRestrictsToWinPreserving(t *testing.T) {
	prober := &sideProber{stubProber{maxPieces: 5, available: true}}
	a := NewAdjudicator(prober)
	pos := krkPosition(t)
	legal := pos.GenerateLegalMoves()
	moves := make([]board.Move, legal.Len())
	for i := 0; i < legal.Len(); i++ {
		moves[i] = legal.Get(i)
	}

	// The root (White to move) probes as a win and every position after a
	// White move (Black to move) probes as a loss for Black: every move
	// should be reported win-preserving.
	result := a.GetSearchMoves(pos, moves)
	if len(result) != len(moves) {
		t.Fatalf("expected all %d moves preserved, got %d", len(moves), len(result))
	}
}

func TestGetSearchMovesNoRestrictionWhenNotAWin(t *testing.T) {
	prober := &stubProber{
		result:    ProbeResult{Found: true, WDL: WDLDraw},
		maxPieces: 5,
		available: true,
	}
	a := NewAdjudicator(prober)
	pos := krkPosition(t)
	legal := pos.GenerateLegalMoves()
	moves := make([]board.Move, legal.Len())
	for i := 0; i < legal.Len(); i++ {
		moves[i] = legal.Get(i)
	}

	if result := a.GetSearchMoves(pos, moves); result != nil {
		t.Fatalf("expected no restriction for a non-win root, got %d moves", len(result))
	}
}
