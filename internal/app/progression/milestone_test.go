package progression_test

import (
	"testing"

	"github.com/wordkite/wordkite/internal/app/progression"
)

func TestCheckMilestone_ExactInterval(t *testing.T) {
	res := progression.CheckMilestone(6, 6, 0, 5)
	if !res.Awarded {
		t.Fatal("6th completion should award a milestone")
	}
	if res.ThresholdsHit != 1 {
		t.Errorf("expected 1 threshold, got %d", res.ThresholdsHit)
	}
	if res.BonusCurrency != 5 {
		t.Errorf("expected 5 gems, got %d", res.BonusCurrency)
	}
	if res.NewLastAwardedAt != 6 {
		t.Errorf("expected last awarded 6, got %d", res.NewLastAwardedAt)
	}
}

func TestCheckMilestone_BetweenThresholds(t *testing.T) {
	for _, count := range []int64{1, 5, 7, 11} {
		last := (count / 6) * 6
		res := progression.CheckMilestone(count, 6, last, 5)
		if res.Awarded {
			t.Errorf("count %d (last %d) should not award", count, last)
		}
		if res.NewLastAwardedAt != last {
			t.Errorf("count %d: last awarded moved to %d", count, res.NewLastAwardedAt)
		}
	}
}

func TestCheckMilestone_BatchJumpAwardsEach(t *testing.T) {
	// Jump from 5 to 13 crosses 6 and 12.
	res := progression.CheckMilestone(13, 6, 0, 5)
	if res.ThresholdsHit != 2 {
		t.Errorf("expected 2 thresholds, got %d", res.ThresholdsHit)
	}
	if res.BonusCurrency != 10 {
		t.Errorf("expected 10 gems, got %d", res.BonusCurrency)
	}
	if res.NewLastAwardedAt != 12 {
		t.Errorf("expected last awarded 12, got %d", res.NewLastAwardedAt)
	}
}

func TestCheckMilestone_IdempotentRecheck(t *testing.T) {
	first := progression.CheckMilestone(12, 6, 6, 5)
	if !first.Awarded || first.ThresholdsHit != 1 {
		t.Fatalf("expected one award at 12, got %+v", first)
	}

	again := progression.CheckMilestone(12, 6, first.NewLastAwardedAt, 5)
	if again.Awarded {
		t.Errorf("recheck with updated last awarded should award nothing, got %+v", again)
	}
}

func TestCheckMilestone_DegenerateInterval(t *testing.T) {
	res := progression.CheckMilestone(100, 0, 0, 5)
	if res.Awarded {
		t.Error("zero interval should never award")
	}
}
