package factory

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goldenaura/aura-server/internal/config"
	"github.com/goldenaura/aura-server/internal/store"
	"github.com/goldenaura/aura-server/internal/store/memory"
	"github.com/goldenaura/aura-server/internal/store/postgres"
	"github.com/goldenaura/aura-server/internal/store/sqlite"
)

// NewStore constructs the configured store driver.
func NewStore(cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.New(), nil
	case "sqlite":
		return sqlite.New(cfg.SQLitePath)
	case "postgres":
		return postgres.New(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
	}
}
