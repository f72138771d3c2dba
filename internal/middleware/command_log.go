package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aridcore/internal/command"
	"aridcore/internal/logging"
)

// Invoker is implemented by invocation payloads that know who ran the command.
type Invoker interface {
	InvokerID() string
}

// WithCommandLogger logs every command run at the Command Call stage, tagged
// with a fresh invocation id.
func WithCommandLogger(log *logging.Logger) command.Middleware {
	return func(c command.Command) command.Command {
		return command.Wrap(c, func(ctx context.Context, inv *command.Invocation) error {
			name := c.Describe().Canonical()
			fields := []zap.Field{
				zap.String("command", name),
				zap.String("invocation", uuid.NewString()),
			}
			if who, ok := inv.Data.(Invoker); ok {
				fields = append(fields, zap.String("user", who.InvokerID()))
			}
			l := log.With(fields...)

			start := time.Now()
			l.Debug(logging.CommandCall, "Command invoked.", zap.Strings("args", inv.Args))
			err := c.Run(ctx, inv)
			if err != nil {
				l.Error(logging.CommandCall, "Command failed.", err, zap.Duration("took", time.Since(start)))
				return err
			}
			l.Info(logging.CommandCall, "Command completed.", zap.Duration("took", time.Since(start)))
			return nil
		})
	}
}
