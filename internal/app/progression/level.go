package progression

import (
	"math"

	"github.com/wordkite/wordkite/internal/domain"
)

// MaxLevel caps the level table.
const MaxLevel = 100

// XPForLevel returns the cumulative XP required to reach a given level.
// The threshold table is an exponential curve: 100 * 1.2^(level-1) for
// level >= 2, monotonically non-decreasing by construction.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(100 * math.Pow(1.2, float64(level-1)))
}

// LevelForXP derives the level for a cumulative XP amount by walking
// the threshold table upward.
func LevelForXP(xp int64) int {
	level := 1
	for level < MaxLevel {
		if xp < XPForLevel(level+1) {
			return level
		}
		level++
	}
	return MaxLevel
}

// ApplyResult reports a level crossing after an XP credit.
type ApplyResult struct {
	State     domain.ProgressionState
	LeveledUp bool
	NewLevel  int
}

// ApplyExperience credits xpDelta and re-derives the level. Levels never
// regress: the stored level is kept if it somehow exceeds the derived
// one (the engine has no experience debits, so this only guards against
// imported state). A non-positive delta is a no-op.
func ApplyExperience(state domain.ProgressionState, xpDelta int64) ApplyResult {
	if state.Level < 1 {
		state.Level = 1
	}
	if xpDelta <= 0 {
		return ApplyResult{State: state, NewLevel: state.Level}
	}

	oldLevel := state.Level
	state.Experience += xpDelta

	derived := LevelForXP(state.Experience)
	if derived > state.Level {
		state.Level = derived
	}

	return ApplyResult{
		State:     state,
		LeveledUp: state.Level > oldLevel,
		NewLevel:  state.Level,
	}
}

// XPToNextLevel returns the XP remaining until the next level, or 0 at
// the cap.
func XPToNextLevel(state domain.ProgressionState) int64 {
	if state.Level >= MaxLevel {
		return 0
	}
	remaining := XPForLevel(state.Level+1) - state.Experience
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
