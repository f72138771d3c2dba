// cmd/discord/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aridcore/internal/app"
	"aridcore/internal/config"
	"aridcore/internal/discord"
	"aridcore/internal/gateway"
	"aridcore/internal/lifecycle"
	"aridcore/internal/logging"
	"aridcore/internal/metrics"
	"aridcore/internal/middleware"
	"aridcore/internal/shutdown"
	v "aridcore/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile  string
		guildID     string
		metricsAddr string
		logLevel    string
		noWatch     bool
	)

	cmd := &cobra.Command{
		Use:           "aridcore",
		Short:         v.AppName + " Discord bot",
		Version:       v.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("config") {
				settings.ConfigFile = configFile
			}
			if flags.Changed("guild") {
				settings.GuildID = guildID
			}
			if flags.Changed("metrics-addr") {
				settings.MetricsAddr = metricsAddr
			}
			if flags.Changed("log-level") {
				settings.LogLevel = logLevel
			}
			if noWatch {
				settings.WatchConfig = false
			}
			return run(cmd.Context(), settings)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path of the JSON config document")
	cmd.Flags().StringVar(&guildID, "guild", "", "guild that receives guild interaction commands")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the config document on change")
	return cmd
}

func run(ctx context.Context, settings config.Settings) error {
	log, err := logging.New(settings.LogName, settings.LogLevel)
	if err != nil {
		return err
	}
	logging.Welcome(os.Stdout)
	log.Info(logging.PreInit, fmt.Sprintf("Starting %v bot...", v.AppName),
		zap.String("version", v.String()), zap.Bool("dotenv", settings.DotEnvLoaded))

	store, err := config.Open(settings.ConfigFile, settings.ConfigSection, log,
		config.WithBackups(settings.ConfigBackups))
	if err != nil {
		log.Error(logging.PreInit, "Configuration could not be opened.", err)
		lifecycle.Terminate(log, shutdown.NoConfig, os.Exit)
		return nil
	}

	m := metrics.New(nil)
	a := app.New(settings, store, log, m)

	orch := lifecycle.New(a, gateway.NewDiscord(),
		lifecycle.WithMiddleware(
			middleware.WithCommandLogger(log),
			middleware.WithMetrics(m),
		),
	)
	orch.AddCommand(discord.NewPrefixCommand()).
		AddCommand(discord.NewShutdownCommand())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := orch.Start(ctx); err != nil {
		var fe *lifecycle.FatalError
		if errors.As(err, &fe) {
			orch.Shutdown(fe.Status)
			return nil
		}
		return err
	}

	if err := orch.PublishCommands(ctx, settings.GuildID); err != nil {
		log.Warn(logging.PostInit, "Some commands were not published.", zap.Error(err))
	}

	select {
	case <-ctx.Done():
		log.Info(logging.Shutdown, "Received signal, shutting down...")
		orch.Shutdown(shutdown.Friendly)
	case <-orch.Done():
	}
	return nil
}
