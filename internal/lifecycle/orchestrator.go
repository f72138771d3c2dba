// Package lifecycle drives the bot from startup to exit: configuration gate,
// sequential shard bring-up, command publication, and ordered shutdown.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"aridcore/internal/app"
	"aridcore/internal/command"
	"aridcore/internal/discord"
	"aridcore/internal/gateway"
	"aridcore/internal/logging"
	"aridcore/internal/shutdown"
	"aridcore/pkg/jobmgr"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithGrace sets the pause between removing listeners and closing connections.
func WithGrace(d time.Duration) Option {
	return func(o *Orchestrator) { o.grace = d }
}

// WithIdentifyInterval sets the minimum time between two shard identifies.
func WithIdentifyInterval(d time.Duration) Option {
	return func(o *Orchestrator) { o.identifyInterval = d }
}

// WithExit replaces os.Exit.
func WithExit(exit func(code int)) Option {
	return func(o *Orchestrator) { o.exit = exit }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithMiddleware wraps every command added afterwards.
func WithMiddleware(mws ...command.Middleware) Option {
	return func(o *Orchestrator) { o.middleware = append(o.middleware, mws...) }
}

// WithWatch enables reloading the config document when it changes on disk.
func WithWatch(enabled bool) Option {
	return func(o *Orchestrator) { o.watch = enabled }
}

// WithMetricsAddr serves /metrics on addr while running; "" disables it.
func WithMetricsAddr(addr string) Option {
	return func(o *Orchestrator) { o.metricsAddr = addr }
}

// Orchestrator owns the gateway connections and the command collections of
// one bot process.
type Orchestrator struct {
	app    *app.Context
	client gateway.Client
	log    *logging.Logger

	grace            time.Duration
	identifyInterval time.Duration
	exit             func(int)
	now              func() time.Time
	middleware       []command.Middleware
	watch            bool
	metricsAddr      string

	mu      sync.Mutex
	state   State
	started time.Time
	conns   []gateway.Conn
	text    []command.Command
	global  []command.Command
	guild   []command.Command

	interactions *command.Registry
	router       *discord.Router

	runCtx context.Context
	cancel context.CancelFunc
	jobs   *jobmgr.Manager

	shutdownOnce sync.Once
	done         chan struct{}
}

// New builds an orchestrator and registers it as the app's stopper. The core
// help command is added as a text command and a global interaction command.
func New(a *app.Context, client gateway.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		app:              a,
		client:           client,
		log:              a.Log,
		grace:            a.Settings.ShutdownGrace,
		identifyInterval: a.Settings.IdentifyInterval,
		exit:             os.Exit,
		now:              time.Now,
		watch:            a.Settings.WatchConfig,
		metricsAddr:      a.Settings.MetricsAddr,
		interactions:     command.NewRegistry(),
		done:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.runCtx, o.cancel = context.WithCancel(context.Background())
	o.jobs = jobmgr.NewManager(o.runCtx, o.reportJob)
	o.router = discord.NewRouter(o.runCtx, a, o.interactions)
	a.SetStopper(o)
	a.Metrics.SetState(int(Created))

	help := discord.NewHelpCommand()
	o.AddCommand(help)
	o.AddGlobalInteractionCommand(help)
	return o
}

// AddCommand queues a prefix command; it is subscribed by PublishCommands.
func (o *Orchestrator) AddCommand(c command.Command) *Orchestrator {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.text = append(o.text, command.Apply(c, o.middleware...))
	return o
}

// AddGlobalInteractionCommand queues an interaction command published
// platform-wide.
func (o *Orchestrator) AddGlobalInteractionCommand(c command.Command) *Orchestrator {
	wrapped := o.addInteraction(c)
	o.mu.Lock()
	defer o.mu.Unlock()
	o.global = append(o.global, wrapped)
	return o
}

// AddGuildInteractionCommand queues an interaction command published to the
// guild passed to PublishCommands.
func (o *Orchestrator) AddGuildInteractionCommand(c command.Command) *Orchestrator {
	wrapped := o.addInteraction(c)
	o.mu.Lock()
	defer o.mu.Unlock()
	o.guild = append(o.guild, wrapped)
	return o
}

func (o *Orchestrator) addInteraction(c command.Command) command.Command {
	wrapped := discord.Routable(command.Apply(c, o.middleware...))
	if _, err := o.interactions.Register(wrapped); err != nil {
		// the same command added as both global and guild routes once
		existing, ok := o.interactions.Get(wrapped.Describe().Canonical())
		if !ok || !command.SameRoot(existing, wrapped) {
			o.log.Warn(logging.Init, "Interaction command not routed.", zap.Error(err))
		}
	}
	return wrapped
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Uptime is the time since PreInit, or 0 before it.
func (o *Orchestrator) Uptime() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started.IsZero() {
		return 0
	}
	return o.now().Sub(o.started)
}

// Done is closed once shutdown has finished.
func (o *Orchestrator) Done() <-chan struct{} { return o.done }

// Wait blocks until shutdown has finished or ctx is done.
func (o *Orchestrator) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// advance moves to the next state. Backward moves are ignored.
func (o *Orchestrator) advance(to State) bool {
	o.mu.Lock()
	if to <= o.state {
		o.mu.Unlock()
		return false
	}
	from := o.state
	o.state = to
	o.mu.Unlock()

	o.app.Metrics.SetState(int(to))
	o.log.Debug(stageOf(to), "Lifecycle state changed.", zap.Stringer("from", from), zap.Stringer("to", to))
	return true
}

func (o *Orchestrator) connections() []gateway.Conn {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]gateway.Conn(nil), o.conns...)
}

// Start runs PreInit, Init and PostInit and leaves the orchestrator Running.
// Every error it returns is a *FatalError; pass its Status to Shutdown.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.state != Created {
		o.mu.Unlock()
		return ErrAlreadyStarted
	}
	o.mu.Unlock()

	cfg := o.app.Config
	if err := cfg.CheckUsable(); err != nil {
		o.log.Error(logging.PreInit, "Configuration is not usable. Set a token in "+cfg.Path()+".", err)
		return fatal(shutdown.ConfigUnusable, err)
	}

	// PreInit
	o.advance(PreInit)
	if cfg.Debug() {
		o.log.Info(logging.PreInit, "Debug mode enabled.",
			zap.String("path", cfg.Path()),
			zap.Any("config", cfg.Snapshot()))
	}
	o.mu.Lock()
	o.started = o.now()
	o.mu.Unlock()

	token, _ := cfg.Token().Get()
	base := gateway.Options{
		Token:         strings.TrimSpace(token),
		Intents:       gateway.RequiredIntents,
		AutoReconnect: true,
	}

	// Init
	o.advance(Init)
	waitCtx, stop := context.WithCancel(ctx)
	defer stop()
	defer context.AfterFunc(o.runCtx, stop)()

	if err := o.connect(waitCtx, base, cfg.Shards()); err != nil {
		var fe *FatalError
		if errors.As(err, &fe) {
			o.log.Error(logging.Init, "Startup aborted.", fe.Err, zap.String("cause", fe.Status.Name()))
		}
		return err
	}
	if err := o.runCtx.Err(); err != nil {
		return fatal(shutdown.NoConnection, err)
	}

	// PostInit
	o.advance(PostInit)
	o.postInit()

	o.advance(Running)
	o.log.Info(logging.PostInit, "Startup complete.", zap.Int("connections", len(o.connections())))
	return nil
}

// connect opens n shards one after another, each waiting for readiness
// before the next identifies. n == 0 opens one unsharded connection.
func (o *Orchestrator) connect(ctx context.Context, base gateway.Options, n int) error {
	if n == 0 {
		o.log.Info(logging.Init, "Connecting without sharding.")
		conn, err := o.client.Connect(base)
		if err != nil {
			return fatal(shutdown.UnableToConnect, err)
		}
		o.addConn(conn)
		if err := conn.Open(); err != nil {
			return fatal(shutdown.UnableToConnect, err)
		}
		o.subscribe(conn)
		if err := conn.AwaitReady(ctx); err != nil {
			return fatal(shutdown.NoConnection, err)
		}
		o.app.Metrics.SetShardsReady(1)
		return nil
	}

	limiter := rate.NewLimiter(rate.Every(o.identifyInterval), 1)
	for i := 0; i < n; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return fatal(shutdown.NoConnection, err)
		}
		opts := base
		opts.ShardID, opts.ShardCount = i, n

		conn, err := o.client.Connect(opts)
		if err != nil {
			return fatal(shutdown.UnableToConnect, err)
		}
		o.addConn(conn)
		o.subscribe(conn)
		if err := conn.Open(); err != nil {
			return fatal(shutdown.UnableToConnect, err)
		}
		if err := conn.AwaitReady(ctx); err != nil {
			return fatal(shutdown.NoConnection, err)
		}
		o.app.Metrics.SetShardsReady(i + 1)
		o.log.Info(logging.Init, "Shard ready.", zap.Int("shard", i), zap.Int("shards", n))
	}
	return nil
}

func (o *Orchestrator) addConn(c gateway.Conn) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.conns = append(o.conns, c)
}

func (o *Orchestrator) subscribe(c gateway.Conn) {
	for _, h := range o.router.Handlers() {
		c.AddHandler(h)
	}
}

func (o *Orchestrator) postInit() {
	cfg := o.app.Config
	conns := o.connections()

	if self, err := conns[0].SelfUser(); err != nil {
		o.log.Warn(logging.PostInit, "Could not read bot identity.", zap.Error(err))
	} else {
		o.log.Info(logging.PostInit, "Logged in.", zap.String("user", self.Username), zap.String("id", self.ID))
	}

	o.applyPresence(conns, cfg.GameStatus())
	for _, c := range conns {
		c.SetAutoReconnect(true)
	}

	if o.watch {
		if err := o.jobs.StartAsync("config-watch", o.watchConfig); err != nil {
			o.log.Warn(logging.PostInit, "Could not watch configuration.", zap.Error(err))
		}
	}
	if o.metricsAddr != "" {
		o.log.Info(logging.PostInit, "Serving metrics.", zap.String("addr", o.metricsAddr))
		if err := o.jobs.StartAsync("metrics", func(ctx context.Context) error {
			return o.app.Metrics.Serve(ctx, o.metricsAddr)
		}); err != nil {
			o.log.Warn(logging.PostInit, "Could not serve metrics.", zap.Error(err))
		}
	}
}

// reportJob logs background job events. Failures are warnings: a job that
// dies leaves its feature (metrics, live reload) off for the rest of the run.
func (o *Orchestrator) reportJob(msg string) {
	if strings.HasPrefix(msg, "error:") {
		o.log.Warn(logging.PostInit, "Background job failed.", zap.String("event", msg))
		return
	}
	o.log.Debug(logging.PostInit, "Background job.", zap.String("event", msg))
}

func (o *Orchestrator) applyPresence(conns []gateway.Conn, status string) {
	for _, c := range conns {
		if err := c.SetActivity(status); err != nil {
			o.log.Warn(logging.PostInit, "Could not set presence.", zap.Int("shard", c.ShardID()), zap.Error(err))
		}
	}
}

// watchConfig reloads the store on external edits. A document that can no
// longer be read ends the process.
func (o *Orchestrator) watchConfig(ctx context.Context) error {
	cfg := o.app.Config
	return cfg.Watch(ctx, func(err error) {
		if err != nil {
			o.log.Error(logging.Configuration, "Configuration reload failed.", err)
			go o.Shutdown(shutdown.NoConfig)
			return
		}
		o.applyPresence(o.connections(), cfg.GameStatus())
	})
}

// PublishCommands subscribes the queued prefix commands to the registry,
// publishes guild interaction commands to guildID (skipped with an error
// log when no connection sees that guild) and publishes global interaction
// commands. Failures are logged and returned joined; none is fatal.
func (o *Orchestrator) PublishCommands(ctx context.Context, guildID string) error {
	o.mu.Lock()
	text := append([]command.Command(nil), o.text...)
	global := append([]command.Command(nil), o.global...)
	guild := append([]command.Command(nil), o.guild...)
	o.mu.Unlock()

	var errs []error
	for _, c := range text {
		if _, err := o.app.Registry.Register(c); err != nil {
			o.log.Warn(logging.PostInit, "Command not subscribed.", zap.Error(err))
			errs = append(errs, err)
		}
	}
	o.log.Info(logging.PostInit, "Subscribed text commands.", zap.Int("count", o.app.Registry.Len()))

	conns := o.connections()
	if len(conns) == 0 {
		return errors.Join(append(errs, ErrNotConnected)...)
	}

	if guildID == "" {
		o.log.Debug(logging.PostInit, "No guild configured, skipping guild commands.")
	} else if target := findGuild(conns, guildID); target == nil {
		o.log.Error(logging.PostInit, "Guild not found, skipping guild commands.", gateway.ErrGuildNotFound,
			zap.String("guild", guildID))
	} else if err := target.PublishCommands(ctx, guildID, discord.Definitions(guild)); err != nil {
		o.log.Error(logging.PostInit, "Could not publish guild commands.", err, zap.String("guild", guildID))
		errs = append(errs, err)
	} else {
		o.log.Info(logging.PostInit, "Published guild commands.", zap.String("guild", guildID), zap.Int("count", len(guild)))
	}

	if err := conns[0].PublishCommands(ctx, "", discord.Definitions(global)); err != nil {
		o.log.Error(logging.PostInit, "Could not publish global commands.", err)
		errs = append(errs, err)
	} else {
		o.log.Info(logging.PostInit, "Published global commands.", zap.Int("count", len(global)))
	}
	return errors.Join(errs...)
}

func findGuild(conns []gateway.Conn, guildID string) gateway.Conn {
	for _, c := range conns {
		if c.HasGuild(guildID) {
			return c
		}
	}
	return nil
}

// Shutdown stops the bot for status and exits with its code. Only the first
// call has an effect; later calls wait for it to finish.
func (o *Orchestrator) Shutdown(status shutdown.Status) {
	o.shutdownOnce.Do(func() { o.shutdown(status) })
	<-o.done
}

func (o *Orchestrator) shutdown(status shutdown.Status) {
	o.mu.Lock()
	o.state = ShuttingDown
	started := o.started
	o.mu.Unlock()
	o.app.Metrics.SetState(int(ShuttingDown))

	if !started.IsZero() {
		up := o.now().Sub(started)
		o.log.Info(logging.Shutdown, fmt.Sprintf("Active for %d minutes. (%d seconds)", int(up.Minutes()), int(up.Seconds())))
	}
	o.log.Info(logging.Shutdown, "Beginning shutdown.", zap.String("cause", status.Name()))

	conns := o.connections()
	removed := 0
	for _, c := range conns {
		n, err := c.RemoveHandlers()
		if err != nil {
			o.log.Debug(logging.Shutdown, "No Event Listeners to remove.", zap.Int("shard", c.ShardID()), zap.Error(err))
		}
		removed += n
	}
	if len(conns) == 0 {
		o.log.Debug(logging.Shutdown, "No Event Listeners to remove.")
	}

	o.log.Debug(logging.Shutdown, o.jobs.Status())
	o.cancel()
	o.jobs.StopAll()
	if o.grace > 0 {
		time.Sleep(o.grace)
	}

	if status.HasConnection() {
		for _, c := range conns {
			if err := c.Close(); err != nil {
				o.log.Warn(logging.Shutdown, "Could not close connection.", zap.Int("shard", c.ShardID()), zap.Error(err))
			}
		}
	}

	if status.IsError() {
		o.log.Warn(logging.Shutdown, "This shutdown was caused by an error. Please review the reason for shutdown:\n"+status.Reason(),
			zap.Int("code", status.Code()))
	}

	o.mu.Lock()
	o.state = Terminated
	o.mu.Unlock()
	o.app.Metrics.SetState(int(Terminated))
	o.log.Info(logging.Shutdown, "Shutdown complete.", zap.Int("listeners_removed", removed), zap.Int("code", status.Code()))
	_ = o.log.Sync()

	close(o.done)
	o.exit(status.Code())
}

// Terminate ends a process that failed before an orchestrator existed.
func Terminate(log *logging.Logger, status shutdown.Status, exit func(int)) {
	if status.IsError() {
		log.Warn(logging.Shutdown, "This shutdown was caused by an error. Please review the reason for shutdown:\n"+status.Reason(),
			zap.Int("code", status.Code()))
	}
	_ = log.Sync()
	exit(status.Code())
}

func stageOf(s State) logging.Stage {
	switch s {
	case PreInit:
		return logging.PreInit
	case Init:
		return logging.Init
	case PostInit, Running:
		return logging.PostInit
	default:
		return logging.Shutdown
	}
}
