package engine

import "github.com/texelcore/engine/internal/board"

// Post-NN correction parameters, registered the same way as the search
// margins in config.go: a flat UCI-tunable knob per named bonus rather
// than a hardcoded constant.
var (
	knightVsQueenBonus1Param = DefaultParams.NewSpin("KnightVsQueenBonus1", 125, 0, 200)
	knightVsQueenBonus2Param = DefaultParams.NewSpin("KnightVsQueenBonus2", 380, 0, 600)
	knightVsQueenBonus3Param = DefaultParams.NewSpin("KnightVsQueenBonus3", 405, 0, 800)
	rookVsPawnBonusParam     = DefaultParams.NewSpin("RookVsPawnBonus", 107, 0, 400)
	contemptParam            = DefaultParams.NewSpin("Contempt", 0, -200, 200)
)

// halfMoveFactor scales the score down as the fifty-move clock
// advances, by ten-ply bucket; divide by 128 after multiplying.
var halfMoveFactor = [10]int{128, 128, 128, 128, 44, 35, 29, 25, 20, 17}

// correctionNvsQ compensates for knights being stronger relative to a
// lone queen than raw material values predict: n is the knight count
// on one side, q the opposing queen count.
func correctionNvsQ(n, q int) int {
	if n <= q+1 {
		return 0
	}
	var bonus int
	switch {
	case q == 1:
		bonus = knightVsQueenBonus1Param.Value
	case q == 2:
		bonus = knightVsQueenBonus2Param.Value
	case q >= 3:
		bonus = knightVsQueenBonus3Param.Value
	}
	return bonus * (n - q - 1)
}

// materialImbalanceCorrection folds in the N-vs-Q correction for both
// sides, signed from White's perspective.
func materialImbalanceCorrection(pos *board.Position) int {
	nWN := pos.MaterialID.Count(board.White, board.Knight)
	nBN := pos.MaterialID.Count(board.Black, board.Knight)
	nWQ := pos.MaterialID.Count(board.White, board.Queen)
	nBQ := pos.MaterialID.Count(board.Black, board.Queen)

	wCorr := correctionNvsQ(nWN, nBQ)
	bCorr := correctionNvsQ(nBN, nWQ)
	return wCorr - bCorr
}

// applyHalfMoveFactor dampens score as the fifty-move clock advances,
// matching the closed-form curve above.
func applyHalfMoveFactor(score int, halfMoveClock int) int {
	hmc := halfMoveClock / 10
	if hmc > 9 {
		hmc = 9
	}
	if hmc < 0 {
		hmc = 0
	}
	return score * halfMoveFactor[hmc] / 128
}

// applyContempt adds a piece-play-scaled bonus favouring White when
// the position isn't an endgame, discouraging the engine from
// steering toward drawish simplifications purely to bank a small
// edge. score is in White's perspective; contemptParam is signed, so
// a negative value favours Black instead.
func applyContempt(score int, pos *board.Position, isEndgame bool) int {
	contempt := contemptParam.Value
	if contempt == 0 || isEndgame {
		return score
	}

	nonPawnMaterial := 0
	for c := board.White; c <= board.Black; c++ {
		nonPawnMaterial += pos.MaterialID.Count(c, board.Knight) * KnightValue
		nonPawnMaterial += pos.MaterialID.Count(c, board.Bishop) * BishopValue
		nonPawnMaterial += pos.MaterialID.Count(c, board.Rook) * RookValue
		nonPawnMaterial += pos.MaterialID.Count(c, board.Queen) * QueenValue
	}
	hiMtrl := (RookValue + BishopValue*2 + KnightValue*2) * 2
	piecePlay := interpolate(nonPawnMaterial, 0, 64, hiMtrl, 128)

	return score + contempt*piecePlay/128
}

func interpolate(x, x1, y1, x2, y2 int) int {
	if x <= x1 {
		return y1
	}
	if x >= x2 {
		return y2
	}
	return y1 + (y2-y1)*(x-x1)/(x2-x1)
}

// isLightSquare reports whether sq is a light square (a1 is dark).
func isLightSquare(sq board.Square) bool {
	return (int(sq.File())+int(sq.Rank()))%2 == 1
}

// chebyshev returns the king-move (Chebyshev) distance between two squares.
func chebyshev(a, b board.Square) int {
	df := a.File() - b.File()
	if df < 0 {
		df = -df
	}
	dr := a.Rank() - b.Rank()
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}

// kbnkCornerDistance biases the defending king toward the mating corner that
// matches the attacking bishop's square colour, for a KBNK mate: the
// defender is mated in the corner the bishop controls, not the other
// one, so a king stuck in the wrong corner should be scored as closer
// to escaping than one in the right corner.
func kbnkCornerDistance(defenderKing board.Square, bishopIsLight bool) int {
	// a8 (light) and h1 (light) are one diagonal pair of corners;
	// a1 (dark) and h8 (dark) are the other.
	a8, h1 := board.Square(56), board.Square(7)
	a1, h8 := board.Square(0), board.Square(63)

	var c1, c2 board.Square
	if bishopIsLight {
		c1, c2 = a8, h1
	} else {
		c1, c2 = a1, h8
	}

	d1 := chebyshev(defenderKing, c1)
	d2 := chebyshev(defenderKing, c2)
	if d1 < d2 {
		return d1
	}
	return d2
}

// endgameKnowledge replaces or scales oldScore for material
// configurations with known closed-form behaviour, gated entirely by
// pos.MaterialID so it is only invoked for the exact configurations it
// understands. Returns oldScore unchanged for anything else.
func endgameKnowledge(pos *board.Position, oldScore int) int {
	wp := pos.MaterialID.Count(board.White, board.Pawn)
	bp := pos.MaterialID.Count(board.Black, board.Pawn)
	wn := pos.MaterialID.Count(board.White, board.Knight)
	bn := pos.MaterialID.Count(board.Black, board.Knight)
	wb := pos.MaterialID.Count(board.White, board.Bishop)
	bb := pos.MaterialID.Count(board.Black, board.Bishop)
	wr := pos.MaterialID.Count(board.White, board.Rook)
	br := pos.MaterialID.Count(board.Black, board.Rook)
	wq := pos.MaterialID.Count(board.White, board.Queen)
	bq := pos.MaterialID.Count(board.Black, board.Queen)

	noOtherWhite := wn == 0 && wb == 0 && wr == 0 && wq == 0
	noOtherBlack := bn == 0 && bb == 0 && br == 0 && bq == 0

	switch {
	// KBN vs K: drive the lone king to the bishop-colour corner.
	case wp == 0 && bp == 0 && wn == 1 && wb == 1 && wr == 0 && wq == 0 && noOtherBlack:
		bishopSq := pos.Pieces[board.White][board.Bishop].LSB()
		dist := kbnkCornerDistance(pos.KingSquare[board.Black], isLightSquare(bishopSq))
		return mateScoreBase - dist*10
	case bp == 0 && wp == 0 && bn == 1 && bb == 1 && br == 0 && bq == 0 && noOtherWhite:
		bishopSq := pos.Pieces[board.Black][board.Bishop].LSB()
		dist := kbnkCornerDistance(pos.KingSquare[board.White], isLightSquare(bishopSq))
		return -(mateScoreBase - dist*10)

	// KR vs KP: rook side is usually winning unless the pawn is far
	// advanced and defended by its own king (Tarrasch/KRKP drawing
	// zone); approximate with a king/pawn-race bonus.
	case wr == 1 && wn == 0 && wb == 0 && wq == 0 && bp == 1 && wp == 0 && noOtherBlackExceptPawn(bn, bb, br, bq):
		return oldScore + rookVsPawnBonusParam.Value
	case br == 1 && bn == 0 && bb == 0 && bq == 0 && wp == 1 && bp == 0 && noOtherWhiteExceptPawn(wn, wb, wr, wq):
		return oldScore - rookVsPawnBonusParam.Value

	// KBP vs KB, wrong rook-pawn: a lone rook-pawn defended only by a
	// bishop that doesn't control the queening square, with the
	// defending king reaching the corner, is a known fortress draw.
	case wp == 1 && wb == 1 && wn == 0 && wr == 0 && wq == 0 && bb == 1 && noOtherBlackExceptBishop(bn, br, bq, bp):
		if isWrongBishopRookPawnDraw(pos, board.White) {
			return oldScore / 8
		}
	case bp == 1 && bb == 1 && bn == 0 && br == 0 && bq == 0 && wb == 1 && noOtherWhiteExceptBishop(wn, wr, wq, wp):
		if isWrongBishopRookPawnDraw(pos, board.Black) {
			return oldScore / 8
		}

	// KNP vs K, rook pawn: a lone a/h-pawn with only a knight to
	// escort it draws if the defending king reaches the queening
	// corner first, since a knight alone cannot lose a tempo.
	case wp == 1 && wn == 1 && wb == 0 && wr == 0 && wq == 0 && noOtherBlack:
		if isWrongKnightRookPawnDraw(pos, board.White) {
			return oldScore / 8
		}
	case bp == 1 && bn == 1 && bb == 0 && br == 0 && bq == 0 && noOtherWhite:
		if isWrongKnightRookPawnDraw(pos, board.Black) {
			return oldScore / 8
		}
	}

	return oldScore
}

func noOtherBlackExceptPawn(n, b, r, q int) bool { return n == 0 && b == 0 && r == 0 && q == 0 }
func noOtherWhiteExceptPawn(n, b, r, q int) bool { return n == 0 && b == 0 && r == 0 && q == 0 }
func noOtherBlackExceptBishop(n, r, q, p int) bool { return n == 0 && r == 0 && q == 0 && p == 0 }
func noOtherWhiteExceptBishop(n, r, q, p int) bool { return n == 0 && r == 0 && q == 0 && p == 0 }

// isWrongBishopRookPawnDraw reports whether side's pawn is on the a-
// or h-file, promotes on a square the side's bishop can't control
// (wrong-coloured bishop), and the defending king can reach that
// corner. attacker is the side with the pawn and bishop.
func isWrongBishopRookPawnDraw(pos *board.Position, attacker board.Color) bool {
	pawnBB := pos.Pieces[attacker][board.Pawn]
	if pawnBB == 0 {
		return false
	}
	pawnSq := pawnBB.LSB()
	file := pawnSq.File()
	if file != 0 && file != 7 {
		return false
	}

	bishopSq := pos.Pieces[attacker][board.Bishop].LSB()
	promoRank := 7
	if attacker == board.Black {
		promoRank = 0
	}
	promoSq := board.Square(promoRank*8 + file)

	if isLightSquare(promoSq) == isLightSquare(bishopSq) {
		return false // right-coloured bishop controls the corner; not a draw
	}

	defender := board.Black
	if attacker == board.Black {
		defender = board.White
	}
	return chebyshev(pos.KingSquare[defender], promoSq) <= 1
}

// isWrongKnightRookPawnDraw reports the analogous draw for a lone
// knight escorting a rook-pawn: the defending king only needs to
// blockade the queening corner, since a knight can't lose a tempo to
// dislodge it.
func isWrongKnightRookPawnDraw(pos *board.Position, attacker board.Color) bool {
	pawnBB := pos.Pieces[attacker][board.Pawn]
	if pawnBB == 0 {
		return false
	}
	pawnSq := pawnBB.LSB()
	file := pawnSq.File()
	if file != 0 && file != 7 {
		return false
	}

	promoRank := 7
	if attacker == board.Black {
		promoRank = 0
	}
	promoSq := board.Square(promoRank*8 + file)

	defender := board.Black
	if attacker == board.Black {
		defender = board.White
	}
	return chebyshev(pos.KingSquare[defender], promoSq) <= 1
}

// mateScoreBase anchors the KBNK corner-distance score well below an
// actual forced mate score, so it orders correctly against real mate
// scores from search without being mistaken for one.
const mateScoreBase = 9000
