package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"aridcore/pkg/retrylimit"
)

// Discord connects through discordgo sessions.
type Discord struct {
	// Limiter paces REST publication calls; nil disables pacing.
	Limiter *retrylimit.AdaptiveLimiter
	Retry   retrylimit.RetryConfig
}

// NewDiscord returns a client that retries rate-limited publications.
func NewDiscord() *Discord {
	retry := retrylimit.DefaultRetryConfig()
	retry.MaxAttempts = 5
	return &Discord{
		Limiter: retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
		Retry:   retry,
	}
}

// Connect builds a session for one shard. Nothing is dialed until Open.
func (d *Discord) Connect(opts Options) (Conn, error) {
	s, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.Identify.Intents = opts.Intents
	s.ShouldReconnectOnError = opts.AutoReconnect
	if opts.ShardCount > 0 {
		s.ShardID = opts.ShardID
		s.ShardCount = opts.ShardCount
	}

	timeout := opts.ReadyTimeout
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	c := &discordConn{
		s:            s,
		client:       d,
		ready:        make(chan struct{}),
		readyTimeout: timeout,
		published:    make(map[string]string),
	}
	// registered before Open, since discordgo dispatches READY from inside Open
	s.AddHandlerOnce(func(*discordgo.Session, *discordgo.Ready) {
		c.readyOnce.Do(func() { close(c.ready) })
	})
	return c, nil
}

type discordConn struct {
	s      *discordgo.Session
	client *Discord

	ready        chan struct{}
	readyOnce    sync.Once
	readyTimeout time.Duration

	mu        sync.Mutex
	removers  []func()
	published map[string]string // guild id ("" for global) -> definitions hash
}

func (c *discordConn) ShardID() int { return c.s.ShardID }

func (c *discordConn) AddHandler(handler any) {
	remove := c.s.AddHandler(handler)
	c.mu.Lock()
	c.removers = append(c.removers, remove)
	c.mu.Unlock()
}

func (c *discordConn) RemoveHandlers() (int, error) {
	c.mu.Lock()
	removers := c.removers
	c.removers = nil
	c.mu.Unlock()

	if len(removers) == 0 {
		return 0, ErrNoHandlers
	}
	for _, remove := range removers {
		remove()
	}
	return len(removers), nil
}

func (c *discordConn) Open() error {
	if err := c.s.Open(); err != nil {
		return fmt.Errorf("%w: shard %d: %v", ErrUnreachable, c.s.ShardID, err)
	}
	return nil
}

func (c *discordConn) AwaitReady(ctx context.Context) error {
	timer := time.NewTimer(c.readyTimeout)
	defer timer.Stop()

	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for shard %d: %w", c.s.ShardID, ctx.Err())
	case <-timer.C:
		return fmt.Errorf("shard %d not ready after %s: %w", c.s.ShardID, c.readyTimeout, context.DeadlineExceeded)
	}
}

func (c *discordConn) SelfUser() (*discordgo.User, error) {
	if c.s.State != nil && c.s.State.User != nil {
		return c.s.State.User, nil
	}
	return c.s.User("@me")
}

func (c *discordConn) SetAutoReconnect(enabled bool) {
	c.s.ShouldReconnectOnError = enabled
}

func (c *discordConn) SetActivity(text string) error {
	return c.s.UpdateWatchStatus(0, text)
}

func (c *discordConn) HasGuild(guildID string) bool {
	if guildID == "" {
		return false
	}
	if _, err := c.s.State.Guild(guildID); err == nil {
		return true
	}
	_, err := c.s.Guild(guildID)
	return err == nil
}

func (c *discordConn) PublishCommands(ctx context.Context, guildID string, defs []*discordgo.ApplicationCommand) error {
	self, err := c.SelfUser()
	if err != nil {
		return fmt.Errorf("resolve application id: %w", err)
	}

	hash := hashDefinitions(defs)
	c.mu.Lock()
	unchanged := c.published[guildID] == hash
	c.mu.Unlock()
	if unchanged {
		return nil
	}

	err = retrylimit.WithRetryConfig(ctx, func() error {
		_, err := c.s.ApplicationCommandBulkOverwrite(self.ID, guildID, defs)
		return classifyREST(err)
	}, c.client.Limiter, c.client.Retry)
	if err != nil {
		return fmt.Errorf("publish commands (guild %q): %w", guildID, err)
	}

	c.mu.Lock()
	c.published[guildID] = hash
	c.mu.Unlock()
	return nil
}

func (c *discordConn) Close() error {
	return c.s.Close()
}

// statusError exposes the HTTP status of a discordgo REST failure.
type statusError struct {
	err  *discordgo.RESTError
	code int
}

func (e *statusError) Error() string   { return e.err.Error() }
func (e *statusError) Unwrap() error   { return e.err }
func (e *statusError) StatusCode() int { return e.code }

// classifyREST marks client errors other than 429 as fatal, so they are not
// retried.
func classifyREST(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) || rest.Response == nil {
		return err
	}
	code := rest.Response.StatusCode
	if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
		return &retrylimit.FatalError{Err: err}
	}
	return &statusError{err: rest, code: code}
}
