package domain

import "time"

// Settings is the host configuration. Persisted by the config adapter
// and loaded once at process start; serve mode may watch for changes.
type Settings struct {
	// GoogleClientID and GoogleClientSecret are the OAuth application
	// credentials from the provider's developer console. One app serves
	// every managed account.
	GoogleClientID     string
	GoogleClientSecret string

	// DataDir holds the token database. Empty means the default
	// (~/.rolodex/data).
	DataDir string

	// RequestsPerSecond and Burst bound People API traffic per account.
	RequestsPerSecond float64
	Burst             int

	// ProviderTimeout bounds each provider network call.
	ProviderTimeout time.Duration

	// Verbose enables debug logging.
	Verbose bool
}

// DefaultSettings returns the settings applied when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		RequestsPerSecond: 5.0,
		Burst:             10,
		ProviderTimeout:   30 * time.Second,
	}
}

// Validate checks that the settings can support authenticated operations.
func (s Settings) Validate() error {
	if s.GoogleClientID == "" || s.GoogleClientSecret == "" {
		return ErrInvalidInput
	}
	return nil
}
