package command

import "context"

// Middleware wraps a command (logging, metrics, permission checks).
type Middleware func(Command) Command

// Apply wraps c so that the first middleware in mws is the outermost.
func Apply(c Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}

// Unwrappable is implemented by wrapped commands so adapters can reach the
// underlying command (e.g. to type-assert to an interaction provider).
type Unwrappable interface {
	Command
	Unwrap() Command
}

// Wrapped wraps a command with a custom Run. The inner command is exposed via
// Unwrap.
type Wrapped struct {
	Inner   Command
	RunFunc func(ctx context.Context, inv *Invocation) error
}

// Describe delegates to the inner command.
func (w *Wrapped) Describe() Descriptor { return w.Inner.Describe() }

func (w *Wrapped) Run(ctx context.Context, inv *Invocation) error {
	if w.RunFunc != nil {
		return w.RunFunc(ctx, inv)
	}
	return w.Inner.Run(ctx, inv)
}

func (w *Wrapped) Unwrap() Command { return w.Inner }

// Wrap returns a command that runs run instead of c.Run. Use this in middleware.
func Wrap(c Command, run func(ctx context.Context, inv *Invocation) error) Command {
	return &Wrapped{Inner: c, RunFunc: run}
}

// Root unwraps c until the underlying command is not Unwrappable.
func Root(c Command) Command {
	for {
		u, ok := c.(Unwrappable)
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}

type renamed struct {
	Command
	name string
}

// Rename returns c with name as its canonical alias. The previous aliases
// follow it, so Lookup still finds c by any of them.
func Rename(c Command, name string) Command {
	return &renamed{Command: c, name: name}
}

func (r *renamed) Describe() Descriptor {
	d := r.Command.Describe()
	aliases := []string{r.name}
	for _, a := range d.Aliases {
		if a != r.name {
			aliases = append(aliases, a)
		}
	}
	d.Aliases = aliases
	return d
}

func (r *renamed) Unwrap() Command { return r.Command }
