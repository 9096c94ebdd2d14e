package driven

import (
	"context"

	"github.com/openclerk/rolodex/internal/core/domain"
)

// ConfigStore persists host settings.
type ConfigStore interface {
	// Load returns the current settings, with defaults applied for
	// anything unset.
	Load() (domain.Settings, error)

	// Save writes settings to durable storage.
	Save(settings domain.Settings) error

	// Watch invokes onChange with freshly loaded settings whenever the
	// underlying storage changes, until ctx is cancelled.
	Watch(ctx context.Context, onChange func(domain.Settings)) error
}
