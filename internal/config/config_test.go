package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aridcore/internal/logging"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.False(t, s.DotEnvLoaded)
	assert.Equal(t, "config.json", s.ConfigFile)
	assert.Equal(t, "bot", s.ConfigSection)
	assert.Equal(t, 3, s.ConfigBackups)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, time.Second, s.ShutdownGrace)
	assert.Equal(t, 5*time.Second, s.IdentifyInterval)
	assert.True(t, s.WatchConfig)
	assert.False(t, s.RespondToBots)
}

func TestLoadSettingsFromEnvironment(t *testing.T) {
	t.Setenv("ARIDCORE_CONFIG_FILE", "other.json")
	t.Setenv("ARIDCORE_SHUTDOWN_GRACE", "250ms")
	t.Setenv("ARIDCORE_RESPOND_TO_BOTS", "true")

	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "other.json", s.ConfigFile)
	assert.Equal(t, 250*time.Millisecond, s.ShutdownGrace)
	assert.True(t, s.RespondToBots)
}

func TestLoadSettingsRejectsBadDuration(t *testing.T) {
	t.Setenv("ARIDCORE_IDENTIFY_INTERVAL", "soon")
	_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}

func TestWatchReloadsExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s, err := Open(path, "bot", logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Watch(ctx, func(err error) {
			mu.Lock()
			results = append(results, err)
			mu.Unlock()
		})
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"bot": {"token": "t", "prefix": "$"}}`), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) > 0 && results[len(results)-1] == nil
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, "$", s.Prefix())
}
