// Package progression implements the pure computations of the WordKite
// progression engine: streak accounting, reward lookup, milestone
// bonuses, and level/XP derivation. Nothing here performs I/O — every
// function maps old state to new state so the orchestrator can compose
// them over values read once per completion.
package progression

import "github.com/wordkite/wordkite/internal/domain"

// AdvanceResult is the outcome of one streak transition.
type AdvanceResult struct {
	State           domain.StreakState
	FreezesConsumed int
	// Increased is true when today's completion extended or restarted
	// the streak (false only for same-day repeats and clock skew).
	Increased bool
}

// Advance computes the streak transition for a completion on the given
// calendar day.
//
// Rules, in order:
//   - Same day as last activity: no-op (already counted).
//   - First-ever activity: streak starts at 1.
//   - Continued from yesterday: streak += 1.
//   - Gap of one or more missed days: if the player holds at least
//     gapDays freezes, exactly gapDays are consumed and continuity is
//     preserved — the freeze itself never adds a day, today's completion
//     adds the single increment. Otherwise the streak breaks and a new
//     streak of 1 begins. Coverage is all-or-nothing: a failed check
//     consumes no freezes.
//
// A negative gap (clock skew — today before the recorded last activity)
// clamps to a continued-yesterday advance rather than erroring; repeated
// calls on the same day remain no-ops via the same-day check.
func Advance(state domain.StreakState, today domain.Date) AdvanceResult {
	if state.CompletedToday(today) {
		return AdvanceResult{State: state}
	}

	next := state
	consumed := 0

	if state.LastActivityDate.IsZero() {
		// First-ever activity
		next.CurrentStreak = 1
	} else {
		gapDays := domain.DaysBetween(state.LastActivityDate, today) - 1
		if gapDays < 0 {
			gapDays = 0
		}

		switch {
		case gapDays == 0:
			// Continued from yesterday
			next.CurrentStreak++

		case state.StreakFreezes >= gapDays:
			// Freezes cover the gap: spend exactly gapDays, then count
			// today as a normal continuation.
			next.StreakFreezes -= gapDays
			next.LastFreezeUseDate = today
			consumed = gapDays
			next.CurrentStreak++

		default:
			// Not enough freezes — the streak breaks and a new one
			// begins today. No partial consumption.
			next.CurrentStreak = 1
		}
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastActivityDate = today

	return AdvanceResult{State: next, FreezesConsumed: consumed, Increased: true}
}

// GrantFreezes credits n grace tokens. Policy ceilings, if any, belong
// to the purchasing collaborator; the ledger only counts.
func GrantFreezes(state domain.StreakState, n int) domain.StreakState {
	if n <= 0 {
		return state
	}
	state.StreakFreezes += n
	return state
}
