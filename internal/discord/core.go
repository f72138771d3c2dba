package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"aridcore/internal/command"
	"aridcore/internal/logging"
	"aridcore/internal/shutdown"
)

// HelpCommand lists modules and describes commands. Text invocations answer
// by direct message; interactions answer ephemerally.
type HelpCommand struct {
	now func() time.Time
}

func NewHelpCommand() *HelpCommand {
	return &HelpCommand{now: time.Now}
}

func (c *HelpCommand) Describe() command.Descriptor {
	return command.Descriptor{
		Name:        "Help Command",
		Aliases:     []string{"help", "commands"},
		Description: "Command that helps use all other commands!",
		Usage: []string{
			"{prefix}help   **OR**  {prefix}help *<command>*",
			"{prefix}help - returns the list of modules along with how many commands each has.",
			"{prefix}help <command> - returns the name, description, aliases and usage of a command. Aliases work as input too.",
			"{prefix}help <module> - lists the commands of a module.",
			"__Example:__ {prefix}help ping",
		},
		Module: command.Generic,
	}
}

func (c *HelpCommand) InteractionDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "help",
		Description: "Help from the bot.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "A command alias or module name",
			},
		},
	}
}

func (c *HelpCommand) Run(ctx context.Context, inv *command.Invocation) error {
	switch v := inv.Data.(type) {
	case *TextContext:
		return c.runText(v, inv.Args)
	case *InteractionContext:
		return c.runInteraction(v, inv.Args)
	}
	return ErrUnsupportedContext
}

func (c *HelpCommand) runText(tc *TextContext, args []string) error {
	s, m := tc.Session, tc.Event
	prefix := tc.App.Config.Prefix()

	if m.GuildID != "" {
		notice := fmt.Sprintf("Hey, %s: Help information was sent as a private message.", m.Author.Username)
		if err := SendMessage(s, m.ChannelID, notice); err != nil {
			tc.App.Log.Warn(logging.CommandCall, "Could not send help notice.", zap.Error(err))
		}
	}

	dm, err := OpenDirect(s, m.Author.ID)
	if err != nil {
		return fmt.Errorf("open direct message: %w", err)
	}

	view, err := tc.App.Registry.BuildHelpView(args)
	if errors.Is(err, command.ErrNotFound) {
		return SendMessage(s, dm, NotExistMessage(args[0], prefix))
	}
	if err != nil {
		return err
	}
	return SendEmbed(s, dm, HelpEmbed(view, prefix, c.now()))
}

func (c *HelpCommand) runInteraction(ic *InteractionContext, args []string) error {
	prefix := ic.App.Config.Prefix()
	view, err := ic.App.Registry.BuildHelpView(args)
	if errors.Is(err, command.ErrNotFound) {
		return RespondEphemeral(ic.Session, ic.Event, NotExistMessage(args[0], prefix))
	}
	if err != nil {
		return err
	}
	return RespondEmbedEphemeral(ic.Session, ic.Event, HelpEmbed(view, prefix, c.now()))
}

// NewPrefixCommand shows or changes the text command prefix.
func NewPrefixCommand() command.Command {
	return command.New(command.Descriptor{
		Name:        "Prefix Command",
		Aliases:     []string{"prefix", "setprefix"},
		Description: "Shows or changes the command prefix.",
		Usage: []string{
			"{prefix}prefix - shows the current prefix.",
			"{prefix}prefix <new prefix> - changes the prefix.",
		},
		Module:                     command.Admin,
		RequiresElevatedPermission: true,
	}, func(ctx context.Context, inv *command.Invocation) error {
		tc, ok := inv.Data.(*TextContext)
		if !ok {
			return ErrUnsupportedContext
		}
		cfg := tc.App.Config
		if len(inv.Args) == 0 {
			return SendMessage(tc.Session, tc.Event.ChannelID, "The prefix is "+cfg.Prefix())
		}
		if err := cfg.SetPrefix(inv.Args[0]); err != nil {
			return err
		}
		tc.App.Log.Info(logging.Configuration, "Prefix changed.", zap.String("prefix", inv.Args[0]))
		return SendMessage(tc.Session, tc.Event.ChannelID, "Prefix changed to `"+inv.Args[0]+"`.")
	})
}

// NewShutdownCommand ends the process with a friendly status.
func NewShutdownCommand() command.Command {
	return command.New(command.Descriptor{
		Name:                       "Shutdown Command",
		Aliases:                    []string{"shutdown", "stop"},
		Description:                "Shuts the bot down.",
		Usage:                      []string{"{prefix}shutdown"},
		Module:                     command.Admin,
		RequiresElevatedPermission: true,
	}, func(ctx context.Context, inv *command.Invocation) error {
		tc, ok := inv.Data.(*TextContext)
		if !ok {
			return ErrUnsupportedContext
		}
		if err := SendMessage(tc.Session, tc.Event.ChannelID, "Shutting down."); err != nil {
			tc.App.Log.Warn(logging.Shutdown, "Could not acknowledge shutdown.", zap.Error(err))
		}
		// the stopper exits the process; run it off the event goroutine
		go tc.App.Shutdown(shutdown.Friendly)
		return nil
	})
}
