// Package file provides the TOML-backed configuration store.
package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/core/ports/driven"
	"github.com/openclerk/rolodex/internal/logger"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// fileConfig is the on-disk TOML shape.
type fileConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
	Verbose bool   `toml:"verbose,omitempty"`

	Google struct {
		ClientID     string `toml:"client_id"`
		ClientSecret string `toml:"client_secret"`
	} `toml:"google"`

	Provider struct {
		RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`
		Burst             int     `toml:"burst,omitempty"`
		TimeoutSeconds    int     `toml:"timeout_seconds,omitempty"`
	} `toml:"provider"`
}

// ConfigStore is a file-based implementation of driven.ConfigStore
// using TOML. Configuration lives in the rolodex config directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewConfigStore creates a TOML-based config store.
// If configDir is empty, defaults to ~/.rolodex.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".rolodex")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Path returns the config file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Load reads settings from disk, applying defaults for anything unset.
// A missing file yields pure defaults.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return settings, err
	}

	settings.GoogleClientID = cfg.Google.ClientID
	settings.GoogleClientSecret = cfg.Google.ClientSecret
	settings.DataDir = cfg.DataDir
	settings.Verbose = cfg.Verbose
	if cfg.Provider.RequestsPerSecond > 0 {
		settings.RequestsPerSecond = cfg.Provider.RequestsPerSecond
	}
	if cfg.Provider.Burst > 0 {
		settings.Burst = cfg.Provider.Burst
	}
	if cfg.Provider.TimeoutSeconds > 0 {
		settings.ProviderTimeout = time.Duration(cfg.Provider.TimeoutSeconds) * time.Second
	}

	return settings, nil
}

// Save writes settings to the config file with owner-only permissions;
// the file holds the OAuth client secret.
func (s *ConfigStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg fileConfig
	cfg.Google.ClientID = settings.GoogleClientID
	cfg.Google.ClientSecret = settings.GoogleClientSecret
	cfg.DataDir = settings.DataDir
	cfg.Verbose = settings.Verbose
	cfg.Provider.RequestsPerSecond = settings.RequestsPerSecond
	cfg.Provider.Burst = settings.Burst
	cfg.Provider.TimeoutSeconds = int(settings.ProviderTimeout / time.Second)

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0600)
}

// Watch reloads settings whenever the config file changes and passes
// them to onChange. Blocks until ctx is cancelled. Editors often
// replace the file rather than write it in place, so the watcher is
// attached to the directory.
func (s *ConfigStore) Watch(ctx context.Context, onChange func(domain.Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != s.filePath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			settings, err := s.Load()
			if err != nil {
				logger.Warn("reloading config after change failed: %v", err)
				continue
			}
			onChange(settings)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error: %v", err)
		}
	}
}
