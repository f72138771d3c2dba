// Package command is the transport-agnostic command core: descriptors, the
// alias-indexed registry, message and interaction resolution, and help views.
// Sending anything back to a user is left to adapters.
package command

import (
	"context"
	"strings"
)

// Descriptor is the identity of a command. Aliases[0] is the canonical alias
// and the registry key.
type Descriptor struct {
	Name        string
	Aliases     []string
	Description string
	// Usage lines may contain {prefix}, replaced when rendered.
	Usage                      []string
	Module                     Module
	RequiresElevatedPermission bool
}

// Canonical returns Aliases[0], or "" when there are no aliases.
func (d Descriptor) Canonical() string {
	if len(d.Aliases) == 0 {
		return ""
	}
	return d.Aliases[0]
}

// HasAlias reports whether alias is one of d's aliases.
func (d Descriptor) HasAlias(alias string) bool {
	for _, a := range d.Aliases {
		if a == alias {
			return true
		}
	}
	return false
}

// Invocation carries the input of one command run: tokenized arguments and an
// adapter-specific payload (a discord message or interaction context).
type Invocation struct {
	Args []string
	Data any
}

// Command is the capability every registered command provides.
type Command interface {
	Describe() Descriptor
	Run(ctx context.Context, inv *Invocation) error
}

// Func adapts a plain function to Command.
type Func struct {
	Descriptor Descriptor
	RunFunc    func(ctx context.Context, inv *Invocation) error
}

// New returns a Command described by d that runs run.
func New(d Descriptor, run func(ctx context.Context, inv *Invocation) error) *Func {
	return &Func{Descriptor: d, RunFunc: run}
}

func (f *Func) Describe() Descriptor { return f.Descriptor }

func (f *Func) Run(ctx context.Context, inv *Invocation) error {
	if f.RunFunc == nil {
		return nil
	}
	return f.RunFunc(ctx, inv)
}

// ExpandUsage substitutes the prefix into a usage line.
func ExpandUsage(line, prefix string) string {
	return strings.ReplaceAll(line, "{prefix}", prefix)
}
