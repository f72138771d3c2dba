package discord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aridcore/internal/command"
	"aridcore/internal/version"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestHelpEmbedSummary(t *testing.T) {
	e := HelpEmbed(command.HelpView{
		Kind: command.HelpSummary,
		Modules: []command.ModuleSummary{
			{Module: command.Generic, Count: 1},
			{Module: command.Fun, Count: 3},
		},
	}, "e!", fixedNow)

	assert.Equal(t, "Modules Supported", e.Title)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "Fun Commands", e.Fields[1].Name)
	assert.Equal(t, "3 commands active", e.Fields[1].Value)
	assert.True(t, e.Fields[1].Inline)
	assert.Equal(t, "Try `e!help [command]` for more.", e.Author.Name)
	assert.Equal(t, version.AppName+" by "+version.Author, e.Footer.Text)
	assert.Equal(t, "2024-05-01T12:00:00Z", e.Timestamp)
}

func TestHelpEmbedDetailExpandsPrefix(t *testing.T) {
	e := HelpEmbed(command.HelpView{
		Kind: command.HelpDetail,
		Detail: command.CommandDetail{
			Name:        "Help Command",
			Description: "Helps.",
			Aliases:     "help, commands",
			Usage:       "{prefix}help",
			MoreUsage:   []string{"{prefix}help ping"},
		},
	}, "!", fixedNow)

	assert.Equal(t, "Help Command", e.Title)
	require.Len(t, e.Fields, 4)
	assert.Equal(t, "Helps.", e.Fields[0].Name)
	assert.Equal(t, "help, commands", e.Fields[1].Value)
	assert.Equal(t, "!help", e.Fields[2].Value)
	assert.Equal(t, "!help ping", e.Fields[3].Value)
	for _, f := range e.Fields {
		assert.NotEmpty(t, f.Name)
		assert.NotEmpty(t, f.Value)
	}
}

func TestHelpEmbedModule(t *testing.T) {
	e := HelpEmbed(command.HelpView{
		Kind:     command.HelpModule,
		Module:   command.Fun,
		Commands: []command.Descriptor{{Aliases: []string{"roll"}}},
	}, "e!", fixedNow)

	assert.Equal(t, "Fun Commands", e.Title)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "roll", e.Fields[0].Name)
	assert.Equal(t, blank, e.Fields[0].Value)
}

func TestInfoEmbed(t *testing.T) {
	e := InfoEmbed("e!", fixedNow)
	require.Len(t, e.Fields, 3)
	assert.Equal(t, version.String(), e.Fields[0].Value)
	assert.Equal(t, "e!", e.Fields[1].Value)
}
