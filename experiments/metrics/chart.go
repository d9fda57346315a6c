package metrics

import (
	"fmt"
	"io"

	"menace/game"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Rates are the outcome shares over a window of games ending at Game.
type Rates struct {
	Game int
	Win  float64
	Draw float64
	Loss float64
}

// Rolling computes Rates over a sliding window, one point per game once the
// window is full. Fewer games than the window give a single point over all
// of them.
func Rolling(games []GameMetric, window int) []Rates {
	if len(games) == 0 || window <= 0 {
		return nil
	}
	window = min(window, len(games))

	var counts [4]int // Indexed by game.Status
	var rates []Rates
	for i, g := range games {
		counts[g.Outcome]++
		if i >= window {
			counts[games[i-window].Outcome]--
		}
		if i+1 < window {
			continue
		}
		n := float64(window)
		rates = append(rates, Rates{
			Game: g.ID,
			Win:  float64(counts[game.Won]) / n,
			Draw: float64(counts[game.Drawn]) / n,
			Loss: float64(counts[game.Lost]) / n,
		})
	}
	return rates
}

// RenderChart writes an HTML page plotting the rolling outcome rates.
func RenderChart(w io.Writer, games []GameMetric, window int) error {
	rates := Rolling(games, window)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "MENACE training",
			Subtitle: fmt.Sprintf("outcome rates over the last %d games", window),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	steps := make([]string, 0, len(rates))
	wins := make([]opts.LineData, 0, len(rates))
	draws := make([]opts.LineData, 0, len(rates))
	losses := make([]opts.LineData, 0, len(rates))
	for _, r := range rates {
		steps = append(steps, fmt.Sprintf("%d", r.Game))
		wins = append(wins, opts.LineData{Value: r.Win})
		draws = append(draws, opts.LineData{Value: r.Draw})
		losses = append(losses, opts.LineData{Value: r.Loss})
	}

	line = line.SetXAxis(steps)
	line.AddSeries("win", wins)
	line.AddSeries("draw", draws)
	line.AddSeries("loss", losses)

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
