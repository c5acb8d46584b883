package session

// Score grades one attempt from its two counters. Pass/fail depends
// strictly on fatha prompts: fewer than 4 passes. The returned score is
// guaranteed in [60,100] for a pass and [0,59] for a fail, so the
// verdict can always be read back off the score.
func Score(fatha, taradud int) (passed bool, score int) {
	fatha = clamp(fatha, 0, 10)
	if taradud < 0 {
		taradud = 0
	}

	passed = fatha < 4

	if passed {
		var tier int
		switch {
		case fatha >= 3:
			tier = 30
		case fatha == 2:
			tier = 20
		case fatha == 1:
			tier = 10
		}
		hesitation := min(10, max(0, taradud-3))
		return true, clamp(100-(tier+hesitation), 60, 100)
	}

	// Failed: severity below 60, driven by how far past the limit the
	// prompts went plus the hesitation count.
	base := 59 - max(0, fatha-4)*5 - min(20, taradud)
	return false, clamp(base, 0, 59)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
