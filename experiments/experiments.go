package experiments

import (
	"context"
	"fmt"

	"menace/engine"
	"menace/experiments/metrics"
	"menace/game"
	"menace/menace"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Setup describes a run of games between MENACE and a random opponent.
type Setup struct {
	RunID string `yaml:"run_id"`
	Games int    `yaml:"games"`

	// Window is the number of games per progress report and chart point.
	Window int `yaml:"window"`

	// Alternate switches the opening side every game. Otherwise MENACE opens.
	Alternate bool `yaml:"alternate"`

	// Seed seeds the opponent. Zero seeds from the clock.
	Seed uint64 `yaml:"seed"`

	Rewards menace.Rewards `yaml:"rewards"`

	// Output is the directory for run records. Empty writes none.
	Output string `yaml:"output"`

	StatesBefore int `yaml:"states_before"`
}

// Train plays setup.Games games against a random opponent, adjusting m after
// each one. It stops early, returning the metrics so far, if ctx is done.
// Zero rewards, which would teach nothing, fall back to menace.DefaultRewards.
func Train(ctx context.Context, m *menace.Menace, setup Setup) (metrics.RunMetric, error) {
	if setup.Rewards == (menace.Rewards{}) {
		log.Warn().Msgf("all rewards are zero, training with the defaults %+v", menace.DefaultRewards)
		setup.Rewards = menace.DefaultRewards
	}
	return run(ctx, "training", m, setup)
}

func run(ctx context.Context, name string, m *menace.Menace, setup Setup) (metrics.RunMetric, error) {
	if setup.RunID == "" {
		setup.RunID = uuid.NewString()
	}
	setup.Games = max(setup.Games, 0)
	if setup.Window <= 0 {
		setup.Window = max(setup.Games, 1)
	}
	setup.StatesBefore = m.Len()

	opponent := engine.NewRandomPlayer(setup.Seed)
	adapter := &engine.MenaceAdapter{Learner: m}
	collector := metrics.NewCollector()
	gameRecords := make([]metrics.GameMetric, 0, setup.Games)

	log.Info().Msgf("starting %s run %s with %d games...", name, setup.RunID, setup.Games)
	collector.Start()

	var runErr error
	for i := 0; i < setup.Games; i++ {
		first := game.X
		if setup.Alternate && i%2 == 1 {
			first = game.O
		}
		e := engine.LocalEngine(adapter, opponent, engine.WithFirst(first), engine.WithRewards(setup.Rewards))

		result, err := e.Run(ctx)
		if err != nil {
			runErr = fmt.Errorf("game %d: %w", i+1, err)
			break
		}

		gameMetric := metrics.GameMetric{
			ID:       i + 1,
			First:    first,
			Outcome:  result.StatusFor(game.X),
			Moves:    len(result.Moves),
			States:   m.Len(),
			Duration: result.Duration,
		}
		collector.AddGame(gameMetric)
		gameRecords = append(gameRecords, gameMetric)

		if (i+1)%setup.Window == 0 {
			rates := metrics.Rolling(gameRecords[i+1-setup.Window:], setup.Window)
			last := rates[len(rates)-1]
			log.Info().Msgf("completed game %d of %d: win %.2f draw %.2f loss %.2f over the last %d, %d matchboxes",
				i+1, setup.Games, last.Win, last.Draw, last.Loss, setup.Window, m.Len())
		}
	}

	runMetric := collector.Complete()
	win, draw, loss := runMetric.Rates()
	log.Info().Msgf("completed %s run %s: %d games, win %.2f draw %.2f loss %.2f, %.0f games/s",
		name, setup.RunID, runMetric.Games, win, draw, loss, runMetric.GamesPerSecond())

	if setup.Output != "" {
		if err := store(setup, gameRecords); err != nil {
			return runMetric, err
		}
	}
	return runMetric, runErr
}

func store(setup Setup, gameRecords []metrics.GameMetric) error {
	writer, err := metrics.NewWriter(setup.Output, setup.RunID)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteSetup(setup); err != nil {
		return fmt.Errorf("failed to store setup: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteChart(gameRecords, setup.Window); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	log.Info().Msgf("stored run records in %s", writer.Dir())
	return nil
}
