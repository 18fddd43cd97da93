package factory

import (
	"fmt"

	"github.com/recapbot/recapbot/internal/config"
	"github.com/recapbot/recapbot/internal/providers"
	"github.com/recapbot/recapbot/internal/providers/anthropic"
	"github.com/recapbot/recapbot/internal/providers/openai"
)

// CreateProvider creates a provider instance based on configuration.
// Providers are keyed by id in the config map; the id picks the
// implementation.
func CreateProvider(id string, cfg config.ProviderConfig) (providers.Provider, error) {
	switch id {
	case "anthropic":
		return anthropic.NewProvider(id, cfg)
	case "openai":
		return openai.NewProvider(id, cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s", id)
	}
}
