package board

import "testing"

// walkAndRestore applies every pseudo-legal move from pos, recursing to
// the given depth, and checks that unmake restores every incrementally
// maintained field exactly.
func walkAndRestore(t *testing.T, pos *Position, depth int) {
	t.Helper()
	if depth == 0 {
		return
	}

	moves := pos.GeneratePseudoLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)

		before := *pos
		undo := pos.MakeMove(m)
		if !undo.Valid {
			continue
		}

		if wantHash := pos.ComputeHash(); wantHash != pos.Hash {
			t.Fatalf("move %v: Hash %016x does not match recomputed %016x", m, pos.Hash, wantHash)
		}
		if wantPawn := pos.ComputePawnKey(); wantPawn != pos.PawnKey {
			t.Fatalf("move %v: PawnKey %016x does not match recomputed %016x", m, pos.PawnKey, wantPawn)
		}
		if wantMat := MaterialIDFromPosition(pos); wantMat != pos.MaterialID {
			t.Fatalf("move %v: MaterialID %d does not match recomputed %d", m, pos.MaterialID, wantMat)
		}

		walkAndRestore(t, pos, depth-1)

		pos.UnmakeMove(m, undo)
		if pos.Hash != before.Hash || pos.PawnKey != before.PawnKey || pos.MaterialID != before.MaterialID {
			t.Fatalf("move %v: unmake did not restore incremental state", m)
		}
		if pos.AllOccupied != before.AllOccupied || pos.CastlingRights != before.CastlingRights {
			t.Fatalf("move %v: unmake did not restore board state", m)
		}
	}
}

func TestMakeUnmakeRestoresIncrementalState(t *testing.T) {
	pos := NewPosition()
	walkAndRestore(t, pos, 3)
}

func TestMaterialIDRecompute(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if pos.MaterialID != MaterialIDFromPosition(pos) {
		t.Fatalf("MaterialID mismatch at parse: %d vs %d", pos.MaterialID, MaterialIDFromPosition(pos))
	}
}

func TestMaterialIDMirrorIsInvolution(t *testing.T) {
	id := MaterialID(0)
	id = id.Add(White, Pawn).Add(White, Pawn).Add(Black, Knight).Add(White, Queen)

	mirrored := id.Mirror()
	if mirrored.Count(Black, Pawn) != 2 || mirrored.Count(White, Knight) != 1 || mirrored.Count(Black, Queen) != 1 {
		t.Fatalf("mirror did not swap colour digits: %v", mirrored)
	}
	if mirrored.Mirror() != id {
		t.Fatalf("mirroring twice should return the original identifier")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	snap := pos.Serialize()
	restored := DeserializePosition(snap)

	if restored.Hash != pos.Hash {
		t.Fatalf("Hash mismatch after round trip: %016x vs %016x", restored.Hash, pos.Hash)
	}
	if restored.PawnKey != pos.PawnKey {
		t.Fatalf("PawnKey mismatch after round trip")
	}
	if restored.MaterialID != pos.MaterialID {
		t.Fatalf("MaterialID mismatch after round trip")
	}
	if restored.SideToMove != pos.SideToMove || restored.CastlingRights != pos.CastlingRights || restored.EnPassant != pos.EnPassant {
		t.Fatalf("header fields mismatch after round trip")
	}
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if restored.Pieces[c][pt] != pos.Pieces[c][pt] {
				t.Fatalf("piece bitboard mismatch for color=%v pt=%v", c, pt)
			}
		}
	}
}

func TestHistoryHashBucketsClock(t *testing.T) {
	pos := NewPosition()
	pos.HalfMoveClock = 10
	low := pos.HistoryHash()

	pos.HalfMoveClock = 45
	midA := pos.HistoryHash()
	pos.HalfMoveClock = 48
	midB := pos.HistoryHash()

	// Both 45 and 48 fall in the same /10 bucket for a 32-piece position
	// (above the tablebase piece limit), so they must hash identically.
	if midA != midB {
		t.Fatalf("expected clocks 45 and 48 to share a history-hash bucket")
	}
	if low == midA {
		t.Fatalf("expected clock 10 (unbucketed) to differ from the 40s bucket")
	}
}
