// Package retry re-runs calls that failed with a recoverable error, backing
// off exponentially between attempts.
package retry

import (
	"context"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	interrors "github.com/threatintel/client/internal/errors"
)

// Config bounds the retry loop. Zero values take the defaults.
type Config struct {
	MaxAttempts int           // default 5
	BaseBackoff time.Duration // default 500ms
	MaxInterval time.Duration // default 20s
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = 500 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 20 * time.Second
	}
	return c
}

// Do runs fn until it succeeds, fails with an error that is not
// recoverable, runs out of attempts or ctx is done. The last error is
// returned.
func Do(ctx context.Context, cfg Config, fn func(context.Context) error) error {
	cfg = cfg.withDefaults()
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = cfg.MaxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		// Fail fast on anything not known to be transient.
		if !interrors.IsRecoverable(err) {
			return err
		}
		if attempt >= cfg.MaxAttempts {
			return err
		}

		wait := exp.NextBackOff()
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("recoverable error, retrying")

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
