package metrics

import (
	"sync/atomic"
	"time"

	"menace/game"
)

// GameMetric describes one finished game from MENACE's side.
type GameMetric struct {
	ID       int
	First    game.Symbol // Side that opened
	Outcome  game.Status
	Moves    int
	States   int // Matchboxes known after the game
	Duration time.Duration
}

type RunMetric struct {
	Games    int
	Wins     int
	Draws    int
	Losses   int
	States   int
	Duration time.Duration
}

// Rates returns the share of games won, drawn and lost.
func (r RunMetric) Rates() (win, draw, loss float64) {
	if r.Games == 0 {
		return 0, 0, 0
	}
	n := float64(r.Games)
	return float64(r.Wins) / n, float64(r.Draws) / n, float64(r.Losses) / n
}

// GamesPerSecond is the throughput of the run.
func (r RunMetric) GamesPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Games) / r.Duration.Seconds()
}

type Collector interface {
	Start()
	AddGame(metric GameMetric)
	Complete() RunMetric
}

type collector struct {
	startTime time.Time
	games     atomic.Int32
	wins      atomic.Int32
	draws     atomic.Int32
	losses    atomic.Int32
	states    atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
}

func (m *collector) AddGame(metric GameMetric) {
	m.games.Add(1)
	switch metric.Outcome {
	case game.Won:
		m.wins.Add(1)
	case game.Drawn:
		m.draws.Add(1)
	case game.Lost:
		m.losses.Add(1)
	}
	m.states.Store(int32(metric.States))
}

func (m *collector) Complete() RunMetric {
	return RunMetric{
		Games:    int(m.games.Load()),
		Wins:     int(m.wins.Load()),
		Draws:    int(m.draws.Load()),
		Losses:   int(m.losses.Load()),
		States:   int(m.states.Load()),
		Duration: time.Since(m.startTime),
	}
}
