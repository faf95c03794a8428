package downloader

import (
	"context"
	"time"

	"github.com/sdl-cli/sdl/network"
)

var (
	retryBaseDelay = time.Second
	maxRetryDelay  = 10 * time.Second
)

// retry runs op until it succeeds or the error is not worth another try.
// retries counts re-attempts after the first failure; zero retries forever.
// Only errors network.Transient recognizes are retried, and a cancelled
// context always wins. onRetry observes every failed try before the
// backoff sleep.
func retry(ctx context.Context, retries int, onRetry func(tries int, err error), op func(context.Context) error) error {
	delay := retryBaseDelay
	for tries := 1; ; tries++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !network.Transient(err) {
			return err
		}
		if retries > 0 && tries > retries {
			return err
		}
		if onRetry != nil {
			onRetry(tries, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if delay *= 2; delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
}
