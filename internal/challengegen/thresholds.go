package challengegen

import "github.com/galacticode/galacticode/internal/challenge"

// DeriveThresholds spreads up to levels thresholds evenly over the pack's
// total points. The first threshold is always 0 and every threshold is
// strictly above the previous one, so small packs may get fewer levels.
func DeriveThresholds(challenges []challenge.Challenge, levels int) []int {
	if levels < 1 {
		levels = 1
	}
	total := 0
	for _, ch := range challenges {
		total += ch.Points
	}

	out := []int{0}
	for i := 1; i < levels; i++ {
		t := i * total / levels
		if t > out[len(out)-1] {
			out = append(out, t)
		}
	}
	return out
}
