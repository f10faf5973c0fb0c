package progression

import "github.com/wordkite/wordkite/internal/domain"

// Reward tiers per activity kind. Repeats of an already-completed
// activity pay a flat low tier regardless of kind.
var (
	firstRewards = map[domain.ActivityKind]domain.Reward{
		domain.ActivityQuiz:     {XP: 50, Currency: 50},
		domain.ActivityMatching: {XP: 100, Currency: 100},
		domain.ActivityReading:  {XP: 150, Currency: 150},
	}

	repeatReward = domain.Reward{XP: 30, Currency: 20}
)

// ComputeReward maps (activity kind, first completion?) to a reward
// tuple. An unrecognized kind deliberately falls back to the medium
// tier rather than paying zero; known reports whether the kind matched
// the table so callers can log and count the fallback.
func ComputeReward(kind domain.ActivityKind, firstCompletion bool) (reward domain.Reward, known bool) {
	reward, known = firstRewards[kind]
	if !firstCompletion {
		return repeatReward, known
	}
	if !known {
		reward = firstRewards[domain.ActivityMatching]
	}
	return reward, known
}
