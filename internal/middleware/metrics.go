package middleware

import (
	"context"
	"time"

	"aridcore/internal/command"
	"aridcore/internal/metrics"
)

// WithMetrics records the outcome and duration of every command run.
func WithMetrics(m *metrics.Metrics) command.Middleware {
	return func(c command.Command) command.Command {
		return command.Wrap(c, func(ctx context.Context, inv *command.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)
			m.ObserveCommand(c.Describe().Canonical(), err, time.Since(start))
			return err
		})
	}
}
