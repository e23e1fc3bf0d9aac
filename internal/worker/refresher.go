package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/customer-data-service/internal/auth"
)

// CredentialRefresher periodically reloads API credentials so rotated
// secrets take effect without a restart.
type CredentialRefresher struct {
	store    auth.Reloader
	interval time.Duration
}

func NewCredentialRefresher(store auth.Reloader, interval time.Duration) *CredentialRefresher {
	return &CredentialRefresher{
		store:    store,
		interval: interval,
	}
}

// Start blocks until ctx is cancelled.
func (c *CredentialRefresher) Start(ctx context.Context) error {
	log.Info().Msgf("starting credential refresher with interval %v", c.interval)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.refresh(ctx)
		case <-ctx.Done():
			log.Info().Msg("stopping credential refresher")
			return nil
		}
	}
}

func (c *CredentialRefresher) refresh(ctx context.Context) {
	// A failed reload keeps serving the previously loaded credentials.
	if err := c.store.Reload(ctx); err != nil {
		log.Error().Err(err).Msg("failed to refresh credentials")
		return
	}
	log.Debug().Msg("credentials refreshed")
}
