package experiments

import (
	"context"

	"menace/experiments/metrics"
	"menace/menace"
)

// Evaluate measures how well table plays without changing it. The games are
// played by a copy of the learner with every reward set to zero, so the
// counts stay as they were for the whole run.
func Evaluate(ctx context.Context, table menace.Table, setup Setup, options ...menace.Option) (metrics.RunMetric, error) {
	m, err := menace.Restore(table, options...)
	if err != nil {
		return metrics.RunMetric{}, err
	}
	setup.Rewards = menace.Rewards{}
	return run(ctx, "evaluation", m, setup)
}
