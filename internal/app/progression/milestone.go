package progression

// Milestone bonus defaults: a fixed gem grant every Nth lifetime
// completion. Both are configurable via the [engine] config section.
const (
	DefaultMilestoneInterval = 6
	DefaultMilestoneBonus    = 5 // gems per crossed threshold
)

// MilestoneResult reports which milestone thresholds a count change
// crossed and the resulting bonus.
type MilestoneResult struct {
	Awarded          bool
	ThresholdsHit    int64 // number of interval multiples crossed
	NewLastAwardedAt int64 // highest threshold granted so far
	BonusCurrency    int64 // gems: ThresholdsHit * bonusPerMilestone
}

// CheckMilestone fires once per interval multiple in the half-open
// range (lastAwardedAt, lifetimeCompletedCount]. A batch jump that
// crosses several thresholds awards each of them; calling again with
// the updated lastAwardedAt awards nothing.
func CheckMilestone(lifetimeCompletedCount, interval, lastAwardedAt, bonusPerMilestone int64) MilestoneResult {
	if interval <= 0 || lifetimeCompletedCount <= lastAwardedAt {
		return MilestoneResult{NewLastAwardedAt: lastAwardedAt}
	}

	hit := lifetimeCompletedCount/interval - lastAwardedAt/interval
	if hit <= 0 {
		return MilestoneResult{NewLastAwardedAt: lastAwardedAt}
	}

	return MilestoneResult{
		Awarded:          true,
		ThresholdsHit:    hit,
		NewLastAwardedAt: (lifetimeCompletedCount / interval) * interval,
		BonusCurrency:    hit * bonusPerMilestone,
	}
}
