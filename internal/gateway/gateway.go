// Package gateway is the boundary to the chat platform's real-time gateway.
// The lifecycle orchestrator only talks to Client and Conn, so tests can swap
// in doubles; Discord provides the discordgo-backed implementation.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
)

var (
	// ErrUnreachable means the remote service could not be reached.
	ErrUnreachable = errors.New("gateway: service unreachable")
	// ErrNoHandlers means there were no event handlers to remove.
	ErrNoHandlers = errors.New("gateway: no event handlers registered")
	// ErrGuildNotFound means the connection cannot see the guild.
	ErrGuildNotFound = errors.New("gateway: guild not found")
)

// RequiredIntents are requested on every connection. Message content is
// needed for prefix commands.
const RequiredIntents = discordgo.IntentGuilds |
	discordgo.IntentGuildMessages |
	discordgo.IntentDirectMessages |
	discordgo.IntentMessageContent

// DefaultReadyTimeout bounds how long AwaitReady waits when Options leaves it unset.
const DefaultReadyTimeout = 2 * time.Minute

// Options parameterize one connection.
type Options struct {
	Token         string
	Intents       discordgo.Intent
	AutoReconnect bool
	// ShardID and ShardCount select one shard; ShardCount 0 means unsharded.
	ShardID    int
	ShardCount int
	// ReadyTimeout bounds AwaitReady on top of the caller's context.
	ReadyTimeout time.Duration
}

// Client opens connections.
type Client interface {
	Connect(opts Options) (Conn, error)
}

// Conn is one gateway connection (one shard).
type Conn interface {
	ShardID() int
	// AddHandler registers a discordgo event handler,
	// e.g. func(*discordgo.Session, *discordgo.MessageCreate).
	AddHandler(handler any)
	// RemoveHandlers removes every handler added through AddHandler and
	// returns how many were removed, or ErrNoHandlers.
	RemoveHandlers() (int, error)
	Open() error
	// AwaitReady blocks until the shard reports ready.
	AwaitReady(ctx context.Context) error
	SelfUser() (*discordgo.User, error)
	SetAutoReconnect(enabled bool)
	SetActivity(text string) error
	HasGuild(guildID string) bool
	// PublishCommands replaces the application commands of a guild, or the
	// global commands when guildID is "".
	PublishCommands(ctx context.Context, guildID string, defs []*discordgo.ApplicationCommand) error
	Close() error
}
