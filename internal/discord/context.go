// Package discord adapts the command core to Discord: it routes gateway
// events to registered commands, renders embeds, and provides the core
// commands every bot built on AridCore gets.
package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"aridcore/internal/app"
	"aridcore/internal/command"
)

// ErrUnsupportedContext is returned by a command invoked through a transport
// it does not handle.
var ErrUnsupportedContext = errors.New("discord: unsupported invocation context")

// TextContext is the invocation payload of a prefix command.
type TextContext struct {
	Session *discordgo.Session
	Event   *discordgo.MessageCreate
	App     *app.Context
	Match   command.Match
}

func (c *TextContext) InvokerID() string {
	if c.Event == nil || c.Event.Author == nil {
		return ""
	}
	return c.Event.Author.ID
}

// InteractionContext is the invocation payload of an interaction command.
type InteractionContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	App     *app.Context
}

func (c *InteractionContext) InvokerID() string {
	if u := interactionUser(c.Event); u != nil {
		return u.ID
	}
	return ""
}

// Option returns the string value of a top-level option.
func (c *InteractionContext) Option(name string) (string, bool) {
	for _, o := range c.Event.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue(), true
		}
	}
	return "", false
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i == nil || i.Interaction == nil {
		return nil
	}
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// InteractionProvider is implemented by commands that publish a custom
// application command definition.
type InteractionProvider interface {
	InteractionDefinition() *discordgo.ApplicationCommand
}

// Definition returns the application command published for c. Commands
// without their own definition get a chat command named after the canonical
// alias.
func Definition(c command.Command) *discordgo.ApplicationCommand {
	if p, ok := command.Root(c).(InteractionProvider); ok {
		if def := p.InteractionDefinition(); def != nil {
			if def.Type == 0 {
				def.Type = discordgo.ChatApplicationCommand
			}
			return def
		}
	}
	d := c.Describe()
	desc := d.Description
	if desc == "" {
		desc = command.NoDescription
	}
	return &discordgo.ApplicationCommand{
		Name:        d.Canonical(),
		Description: truncate(desc, 100),
		Type:        discordgo.ChatApplicationCommand,
	}
}

// Routable returns c keyed by the name it is published under, so the
// interaction registry resolves what the platform sends back.
func Routable(c command.Command) command.Command {
	if name := Definition(c).Name; name != "" && name != c.Describe().Canonical() {
		return command.Rename(c, name)
	}
	return c
}

// Definitions maps Definition over cs.
func Definitions(cs []command.Command) []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, 0, len(cs))
	for _, c := range cs {
		defs = append(defs, Definition(c))
	}
	return defs
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
