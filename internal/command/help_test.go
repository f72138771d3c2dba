package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helpRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, c := range []Command{
		New(Descriptor{
			Name:        "Help",
			Aliases:     []string{"help", "commands"},
			Description: "Lists commands.",
			Usage:       []string{"{prefix}help", "{prefix}help <command>", "{prefix}help <module>"},
		}, nil),
		testCommand(Fun, false, "roll"),
		testCommand(Fun, false, "flip"),
		New(Descriptor{Aliases: []string{"bare"}, Module: Utility}, nil),
	} {
		_, err := r.Register(c)
		require.NoError(t, err)
	}
	return r
}

func TestHelpSummaryHidesEmptyModules(t *testing.T) {
	view, err := helpRegistry(t).BuildHelpView(nil)
	require.NoError(t, err)

	assert.Equal(t, HelpSummary, view.Kind)
	assert.Equal(t, []ModuleSummary{
		{Module: Generic, Count: 1},
		{Module: Fun, Count: 2},
		{Module: Utility, Count: 1},
	}, view.Modules)
}

func TestHelpDetail(t *testing.T) {
	view, err := helpRegistry(t).BuildHelpView([]string{"commands"})
	require.NoError(t, err)

	assert.Equal(t, HelpDetail, view.Kind)
	assert.Equal(t, CommandDetail{
		Name:        "Help",
		Description: "Lists commands.",
		Aliases:     "help, commands",
		Usage:       "{prefix}help",
		MoreUsage:   []string{"{prefix}help <command>", "{prefix}help <module>"},
	}, view.Detail)
}

func TestHelpDetailFallbacks(t *testing.T) {
	view, err := helpRegistry(t).BuildHelpView([]string{"bare"})
	require.NoError(t, err)

	assert.Equal(t, NoName, view.Detail.Name)
	assert.Equal(t, NoDescription, view.Detail.Description)
	assert.Equal(t, NoUsage, view.Detail.Usage)
	assert.Empty(t, view.Detail.MoreUsage)
}

func TestHelpModuleMatchIsCaseInsensitiveSubstring(t *testing.T) {
	view, err := helpRegistry(t).BuildHelpView([]string{"FUN"})
	require.NoError(t, err)

	assert.Equal(t, HelpModule, view.Kind)
	assert.Equal(t, Fun, view.Module)
	require.Len(t, view.Commands, 2)
	assert.Equal(t, "roll", view.Commands[0].Canonical())
}

func TestHelpNotFound(t *testing.T) {
	r := helpRegistry(t)

	_, err := r.BuildHelpView([]string{"nonexistent"})
	assert.ErrorIs(t, err, ErrNotFound)

	// module exists but has no commands
	_, err = r.BuildHelpView([]string{"music"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpandUsage(t *testing.T) {
	assert.Equal(t, "e!help <command>", ExpandUsage("{prefix}help <command>", "e!"))
}
