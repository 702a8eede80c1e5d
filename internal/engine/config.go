package engine

import "github.com/texelcore/engine/internal/params"

// DefaultParams is the process-wide parameter registry backing every
// tunable search, evaluation, and time-management knob. internal/uci's
// setoption handler is its only writer at runtime; everything else in
// this package only reads the backing arrays/vars below, which are kept
// current by each parameter's registration listener.
var DefaultParams = params.New()

// Search margin tables, individually registered as RazorMargin1..6,
// ReverseFutilityMargin1..6, FutilityMargin1..6 and LMPMoveCountLimit1..8.
// Slot 0 is unused padding so the tables can be indexed directly by
// depth (depth 1 -> slot 1), matching how the search loop reads them.
var (
	razorMargin           = make([]int, 6)
	reverseFutilityMargin = make([]int, 6)
	futilityMargin        = make([]int, 6)
	lmpThreshold          = make([]int, 8)
	lmrMoveCountLimit     = make([]int, 2)
)

// Scalar search knobs.
var (
	aspirationWindowParam  = DefaultParams.NewSpin("AspirationWindow", 25, 5, 200)
	rootLMRMoveCountParam  = DefaultParams.NewSpin("RootLMRMoveCount", 4, 1, 20)
	quiesceMaxSortMoves    = DefaultParams.NewSpin("QuiesceMaxSortMoves", 32, 4, 128)
	deltaPruningMarginParam = DefaultParams.NewSpin("DeltaPruningMargin", 200, 0, 1000)
)

// Time-management knobs, consumed by TimeManager.Init.
var (
	timeMaxRemainingMovesParam = DefaultParams.NewSpin("TimeMaxRemainingMoves", 50, 5, 100)
	bufferTimeMsParam          = DefaultParams.NewSpin("BufferTime", 50, 0, 2000)
	minTimeUsageParam          = DefaultParams.NewSpin("MinTimeUsage", 10, 1, 100)
	maxTimeUsageParam          = DefaultParams.NewSpin("MaxTimeUsage", 95, 10, 100)
	timePonderHitRateParam     = DefaultParams.NewSpin("TimePonderHitRate", 60, 0, 100)
)

func razorMarginDefaults() []int {
	d := make([]int, len(razorMargin))
	for i := 1; i < len(d); i++ {
		d[i] = 485 + 281*i*i
	}
	return d
}

func reverseFutilityMarginDefaults() []int {
	d := make([]int, len(reverseFutilityMargin))
	for i := 1; i < len(d); i++ {
		d[i] = 80 * i
	}
	return d
}

func init() {
	DefaultParams.NewTableWithDefaults("RazorMargin", razorMargin, razorMarginDefaults(), 50, 1200)
	DefaultParams.NewTableWithDefaults("ReverseFutilityMargin", reverseFutilityMargin, reverseFutilityMarginDefaults(), 20, 400)
	DefaultParams.NewTableWithDefaults("FutilityMargin", futilityMargin, []int{0, 200, 300, 500, 700, 900}, 20, 900)
	DefaultParams.NewTableWithDefaults("LMPMoveCountLimit", lmpThreshold, []int{0, 5, 8, 13, 20, 28, 37, 48}, 1, 64)
	DefaultParams.NewTable("LMRMoveCountLimit", lmrMoveCountLimit, 4, 1, 32)
}
