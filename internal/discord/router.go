package discord

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"aridcore/internal/app"
	"aridcore/internal/command"
	"aridcore/internal/logging"
)

// Router dispatches gateway events: prefix messages to the app's text
// registry, application commands to the interaction registry, and bot
// mentions to the mention listener.
type Router struct {
	ctx          context.Context
	app          *app.Context
	interactions *command.Registry
	now          func() time.Time
}

// NewRouter returns a router whose command runs inherit ctx.
func NewRouter(ctx context.Context, a *app.Context, interactions *command.Registry) *Router {
	return &Router{ctx: ctx, app: a, interactions: interactions, now: time.Now}
}

// Handlers returns the event handlers to register on every connection.
func (r *Router) Handlers() []any {
	return []any{r.onMessageCreate, r.onInteractionCreate, r.onMention}
}

func (r *Router) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// own messages are dropped even with RespondToBots, so replies never loop
	if m.Author == nil || isSelf(s, m.Author.ID) {
		return
	}
	cfg := r.app.Config
	match, err := r.app.Registry.ResolveText(command.TextMessage{
		Content:     m.Content,
		AuthorID:    m.Author.ID,
		AuthorIsBot: m.Author.Bot,
	}, command.ResolveOptions{
		Prefix:        cfg.Prefix(),
		OwnerID:       cfg.OwnerID(),
		RespondToBots: r.app.Settings.RespondToBots,
	})
	switch {
	case errors.Is(err, command.ErrNotPermitted):
		r.app.Log.Debug(logging.CommandCall, "Command refused, elevated permission required.",
			zap.String("command", match.Command.Describe().Canonical()),
			zap.String("user", m.Author.ID))
		return
	case err != nil:
		return
	}

	inv := &command.Invocation{
		Args: match.Args,
		Data: &TextContext{Session: s, Event: m, App: r.app, Match: match},
	}
	if err := match.Command.Run(r.ctx, inv); err != nil {
		r.app.Log.Error(logging.CommandCall, "Error running command.", err,
			zap.String("command", match.Command.Describe().Canonical()))
		if sendErr := SendEmbed(s, m.ChannelID, ErrorEmbed(err)); sendErr != nil {
			r.app.Log.Warn(logging.CommandCall, "Could not report command failure.", zap.Error(sendErr))
		}
	}
}

func (r *Router) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := i.ApplicationCommandData().Name
	c, err := r.interactions.ResolveInteraction(name)
	if err != nil {
		r.app.Log.Warn(logging.CommandCall, "Unknown interaction command.", zap.String("command", name))
		return
	}

	ictx := &InteractionContext{Session: s, Event: i, App: r.app}
	if !command.Permitted(c.Describe(), ictx.InvokerID(), r.app.Config.OwnerID()) {
		if err := RespondEphemeral(s, i, "You do not have permission to use this command."); err != nil {
			r.app.Log.Warn(logging.CommandCall, "Could not refuse interaction.", zap.Error(err))
		}
		return
	}

	inv := &command.Invocation{Args: optionValues(i), Data: ictx}
	if err := c.Run(r.ctx, inv); err != nil {
		r.app.Log.Error(logging.CommandCall, "Error running interaction command.", err, zap.String("command", name))
		if sendErr := RespondEmbedEphemeral(s, i, ErrorEmbed(err)); sendErr != nil {
			r.app.Log.Warn(logging.CommandCall, "Could not report command failure.", zap.Error(sendErr))
		}
	}
}

// onMention answers "prefix" and "info" questions addressed to the bot.
func (r *Router) onMention(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || isSelf(s, m.Author.ID) || !mentionsSelf(s, m.Mentions) {
		return
	}
	prefix := r.app.Config.Prefix()

	var err error
	switch {
	case strings.Contains(m.Content, "prefix"):
		err = SendMessage(s, m.ChannelID, m.Author.Mention()+", the prefix is "+prefix)
	case strings.Contains(m.Content, "info"):
		err = SendEmbed(s, m.ChannelID, InfoEmbed(prefix, r.now()))
	default:
		return
	}
	if err != nil {
		r.app.Log.Warn(logging.CommandCall, "Could not answer mention.", zap.Error(err))
	}
}

func isSelf(s *discordgo.Session, userID string) bool {
	return s.State != nil && s.State.User != nil && s.State.User.ID == userID
}

func mentionsSelf(s *discordgo.Session, mentions []*discordgo.User) bool {
	for _, u := range mentions {
		if u != nil && isSelf(s, u.ID) {
			return true
		}
	}
	return false
}

// optionValues flattens string options into positional args.
func optionValues(i *discordgo.InteractionCreate) []string {
	var args []string
	for _, o := range i.ApplicationCommandData().Options {
		if o.Type == discordgo.ApplicationCommandOptionString {
			args = append(args, o.StringValue())
		}
	}
	return args
}
