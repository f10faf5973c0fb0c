package progression_test

import (
	"testing"

	"github.com/wordkite/wordkite/internal/app/progression"
	"github.com/wordkite/wordkite/internal/domain"
)

func TestXPForLevel_Base(t *testing.T) {
	if xp := progression.XPForLevel(0); xp != 0 {
		t.Errorf("level 0 should need 0 XP, got %d", xp)
	}
	if xp := progression.XPForLevel(1); xp != 0 {
		t.Errorf("level 1 should need 0 XP, got %d", xp)
	}
}

func TestXPForLevel_Exponential(t *testing.T) {
	// Level 2 = 100 * 1.2^1 = 120
	if xp := progression.XPForLevel(2); xp != 120 {
		t.Errorf("level 2 expected 120, got %d", xp)
	}

	// Each level requires more than the last
	prev := progression.XPForLevel(2)
	for lvl := 3; lvl <= 30; lvl++ {
		xp := progression.XPForLevel(lvl)
		if xp <= prev {
			t.Errorf("level %d XP (%d) not greater than level %d (%d)", lvl, xp, lvl-1, prev)
		}
		prev = xp
	}
}

func TestLevelForXP(t *testing.T) {
	// XP thresholds: L1=0, L2=120, L3=144, L4=172, ...
	tests := []struct {
		xp   int64
		want int
	}{
		{0, 1},
		{119, 1},
		{120, 2}, // exactly L2 threshold
		{143, 2},
		{144, 3},
		{500, 9},
	}
	for _, tt := range tests {
		if got := progression.LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestApplyExperience_LevelUp(t *testing.T) {
	state := domain.NewProgressionState()

	res := progression.ApplyExperience(state, 150)
	if res.State.Experience != 150 {
		t.Errorf("expected 150 XP, got %d", res.State.Experience)
	}
	// 150 >= L3 threshold (144)
	if res.NewLevel != 3 {
		t.Errorf("expected level 3 at 150 XP, got %d", res.NewLevel)
	}
	if !res.LeveledUp {
		t.Error("expected leveledUp = true")
	}
}

func TestApplyExperience_NoLevelUp(t *testing.T) {
	state := domain.NewProgressionState()

	res := progression.ApplyExperience(state, 50)
	if res.NewLevel != 1 {
		t.Errorf("expected level 1, got %d", res.NewLevel)
	}
	if res.LeveledUp {
		t.Error("expected no level up with 50 XP")
	}
}

func TestApplyExperience_NonPositiveNoOp(t *testing.T) {
	state := domain.ProgressionState{Experience: 200, Level: 3}

	res := progression.ApplyExperience(state, 0)
	if res.State.Experience != 200 || res.LeveledUp {
		t.Errorf("zero delta should be a no-op, got %+v", res)
	}

	res = progression.ApplyExperience(state, -10)
	if res.State.Experience != 200 {
		t.Errorf("negative delta should be a no-op, got %d XP", res.State.Experience)
	}
}

func TestApplyExperience_LevelNeverRegresses(t *testing.T) {
	// Imported state with a level above what the XP derives.
	state := domain.ProgressionState{Experience: 0, Level: 5}

	res := progression.ApplyExperience(state, 10)
	if res.NewLevel != 5 {
		t.Errorf("level should not regress, got %d", res.NewLevel)
	}
	if res.LeveledUp {
		t.Error("holding level is not a level up")
	}
}

func TestXPToNextLevel(t *testing.T) {
	state := domain.NewProgressionState()
	if got := progression.XPToNextLevel(state); got != 120 {
		t.Errorf("fresh state needs 120 to L2, got %d", got)
	}

	capped := domain.ProgressionState{Level: progression.MaxLevel}
	if got := progression.XPToNextLevel(capped); got != 0 {
		t.Errorf("capped level should report 0 remaining, got %d", got)
	}
}
