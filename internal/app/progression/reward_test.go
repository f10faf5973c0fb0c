package progression_test

import (
	"testing"

	"github.com/wordkite/wordkite/internal/app/progression"
	"github.com/wordkite/wordkite/internal/domain"
)

func TestComputeReward_FirstCompletionTiers(t *testing.T) {
	tests := []struct {
		kind         domain.ActivityKind
		wantXP       int64
		wantCurrency int64
	}{
		{domain.ActivityQuiz, 50, 50},
		{domain.ActivityMatching, 100, 100},
		{domain.ActivityReading, 150, 150},
	}
	for _, tt := range tests {
		reward, known := progression.ComputeReward(tt.kind, true)
		if !known {
			t.Errorf("%s should be a known kind", tt.kind)
		}
		if reward.XP != tt.wantXP || reward.Currency != tt.wantCurrency {
			t.Errorf("%s: got %+v, want {%d %d}", tt.kind, reward, tt.wantXP, tt.wantCurrency)
		}
	}
}

func TestComputeReward_RepeatFlatTier(t *testing.T) {
	for _, kind := range []domain.ActivityKind{domain.ActivityQuiz, domain.ActivityMatching, domain.ActivityReading} {
		reward, _ := progression.ComputeReward(kind, false)
		if reward.XP != 30 || reward.Currency != 20 {
			t.Errorf("%s repeat: got %+v, want {30 20}", kind, reward)
		}
	}
}

func TestComputeReward_UnknownKindFallback(t *testing.T) {
	reward, known := progression.ComputeReward("karaoke", true)
	if known {
		t.Error("karaoke should not be a known kind")
	}
	// Falls back to the medium tier rather than paying zero
	if reward.XP != 100 || reward.Currency != 100 {
		t.Errorf("unknown first: got %+v, want medium tier {100 100}", reward)
	}

	repeat, _ := progression.ComputeReward("karaoke", false)
	if repeat.XP != 30 || repeat.Currency != 20 {
		t.Errorf("unknown repeat: got %+v, want {30 20}", repeat)
	}
}
