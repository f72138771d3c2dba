package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCommand(module Module, elevated bool, aliases ...string) *Func {
	return New(Descriptor{
		Name:                       aliases[0],
		Aliases:                    aliases,
		Description:                "does " + aliases[0],
		Usage:                      []string{"{prefix}" + aliases[0]},
		Module:                     module,
		RequiresElevatedPermission: elevated,
	}, nil)
}

func TestRegisterRejectsDuplicateCanonicalAlias(t *testing.T) {
	r := NewRegistry()
	first := testCommand(Generic, false, "help", "commands")
	got, err := r.Register(first)
	require.NoError(t, err)
	assert.Same(t, first, got)

	_, err = r.Register(testCommand(Fun, false, "help"))
	assert.ErrorIs(t, err, ErrDuplicateAlias)

	c, ok := r.Get("help")
	require.True(t, ok)
	assert.Same(t, first, c, "first registration must survive")
	assert.Equal(t, 1, r.Len())
}

func TestRegisterSameCommandTwiceIsNoop(t *testing.T) {
	r := NewRegistry()
	c := testCommand(Generic, false, "ping")
	_, err := r.Register(c)
	require.NoError(t, err)
	_, err = r.Register(c)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
}

func TestRegisterRequiresAlias(t *testing.T) {
	_, err := NewRegistry().Register(New(Descriptor{Name: "nameless"}, nil))
	assert.ErrorIs(t, err, ErrNoAlias)
}

func TestListByModuleKeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	for _, c := range []Command{
		testCommand(Fun, false, "roll"),
		testCommand(Generic, false, "help"),
		testCommand(Fun, false, "flip"),
		testCommand(Fun, false, "eightball"),
	} {
		_, err := r.Register(c)
		require.NoError(t, err)
	}

	var names []string
	for _, c := range r.ListByModule(Fun) {
		names = append(names, c.Describe().Canonical())
	}
	assert.Equal(t, []string{"roll", "flip", "eightball"}, names)
	assert.Empty(t, r.ListByModule(Music))
	assert.Len(t, r.All(), 4)
}

func TestApplyFirstMiddlewareIsOutermost(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Command) Command {
			return Wrap(next, func(ctx context.Context, inv *Invocation) error {
				order = append(order, name)
				return next.Run(ctx, inv)
			})
		}
	}
	inner := New(Descriptor{Aliases: []string{"x"}}, func(context.Context, *Invocation) error {
		order = append(order, "run")
		return nil
	})

	c := Apply(inner, mw("outer"), mw("inner"))
	require.NoError(t, c.Run(context.Background(), &Invocation{}))

	assert.Equal(t, []string{"outer", "inner", "run"}, order)
	assert.Same(t, inner, Root(c))
	assert.Equal(t, "x", c.Describe().Canonical())
}
