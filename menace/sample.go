package menace

import "golang.org/x/exp/rand"

// sample draws a bead set with probability Count / Total. When every set is
// empty each one is equally likely, so a starved matchbox can still be
// played. beads must not be empty.
func sample(beads Matchbox, rng *rand.Rand) int {
	if len(beads) == 0 {
		panic("cannot sample from an empty matchbox")
	}

	total := beads.Total()
	if total == 0 {
		return rng.Intn(len(beads))
	}

	drawn := rng.Intn(total)
	cumulative := 0
	for i, bead := range beads {
		cumulative += bead.Count
		if drawn < cumulative {
			return i
		}
	}
	panic("bead draw fell outside the matchbox")
}
