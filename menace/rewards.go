package menace

import "menace/game"

// Rewards are the bead adjustments applied at the end of a game.
type Rewards struct {
	Win  int
	Draw int
	Lose int
}

var DefaultRewards = Rewards{Win: 3, Draw: 1, Lose: -1}

// For returns the adjustment for a finished game. There is no reward for a
// game that is still going.
func (r Rewards) For(status game.Status) int {
	switch status {
	case game.Won:
		return r.Win
	case game.Drawn:
		return r.Draw
	case game.Lost:
		return r.Lose
	default:
		panic("no reward for a game that is " + status.String())
	}
}
