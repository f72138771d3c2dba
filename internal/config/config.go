// /internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings are the process bootstrap options. They come from the environment
// (optionally seeded by a .env file); bot settings live in the config document.
type Settings struct {
	ConfigFile       string        `env:"ARIDCORE_CONFIG_FILE" envDefault:"config.json"`
	ConfigSection    string        `env:"ARIDCORE_CONFIG_SECTION" envDefault:"bot"`
	ConfigBackups    int           `env:"ARIDCORE_CONFIG_BACKUPS" envDefault:"3"`
	LogName          string        `env:"ARIDCORE_LOG_NAME" envDefault:"AridCore"`
	LogLevel         string        `env:"ARIDCORE_LOG_LEVEL" envDefault:"info"`
	GuildID          string        `env:"ARIDCORE_GUILD_ID"`
	MetricsAddr      string        `env:"ARIDCORE_METRICS_ADDR"`
	RespondToBots    bool          `env:"ARIDCORE_RESPOND_TO_BOTS" envDefault:"false"`
	WatchConfig      bool          `env:"ARIDCORE_WATCH_CONFIG" envDefault:"true"`
	ShutdownGrace    time.Duration `env:"ARIDCORE_SHUTDOWN_GRACE" envDefault:"1s"`
	IdentifyInterval time.Duration `env:"ARIDCORE_IDENTIFY_INTERVAL" envDefault:"5s"`

	// DotEnvLoaded records whether a .env file was found.
	DotEnvLoaded bool
}

// LoadSettings reads .env files (if any) and parses the environment.
func LoadSettings(files ...string) (Settings, error) {
	loaded := godotenv.Load(files...) == nil

	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse environment: %w", err)
	}
	s.DotEnvLoaded = loaded
	return s, nil
}
