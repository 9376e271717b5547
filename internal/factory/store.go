package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/infohub-ai/knowledge-companion/internal/config"
	storepkg "github.com/infohub-ai/knowledge-companion/internal/store"
	storepg "github.com/infohub-ai/knowledge-companion/internal/store/postgres"
)

// NewStore returns a Postgres-backed store.Store.
// Opens the connection synchronously so health checks can probe immediately,
// then runs schema bootstrap in the background.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("COMPANION_POSTGRES_DSN is required")
	}

	db, err := storepg.Open(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	go func() {
		bootstrapTimeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
		bootstrapCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
		defer cancel()

		if err := storepg.EnsureSchema(bootstrapCtx, db); err != nil {
			log.Warn().Err(err).Msg("schema bootstrap failed")
		} else {
			log.Debug().Msg("schema bootstrap completed")
		}
	}()

	return storepg.NewWithDB(db), nil
}
