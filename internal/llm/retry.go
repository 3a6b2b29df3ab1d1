// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// RetryBaseDelay and RetryMaxDelay bound the randomized exponential
// backoff between attempts. Tests override these to avoid real sleeps.
var (
	RetryBaseDelay = 1 * time.Second
	RetryMaxDelay  = 60 * time.Second
)

const defaultMaxAttempts = 3

// CompleteWithRetry calls the backend up to maxAttempts times total,
// sleeping a randomized exponential duration between attempts: the ceiling
// starts at RetryBaseDelay, doubles each attempt, and is capped at
// RetryMaxDelay; the actual delay is drawn uniformly from
// [RetryBaseDelay, ceiling]. Any backend error counts as retryable. When
// maxAttempts is 0 the default (3) is used. If the context is cancelled
// during a backoff wait the function returns ctx.Err(). After exhausting
// attempts the last error is returned wrapped with the attempt count.
func CompleteWithRetry(ctx context.Context, backend Backend, req Request, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoffDelay(attempt - 1)):
			}
		}

		out, err := backend.Complete(ctx, req)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

// backoffDelay returns a random duration in [RetryBaseDelay, ceiling]
// where ceiling = RetryBaseDelay * 2^(attempt-1), capped at RetryMaxDelay.
func backoffDelay(attempt int) time.Duration {
	ceiling := RetryBaseDelay << uint(attempt-1)
	if ceiling > RetryMaxDelay || ceiling <= 0 {
		ceiling = RetryMaxDelay
	}
	if ceiling <= RetryBaseDelay {
		return RetryBaseDelay
	}
	return RetryBaseDelay + rand.N(ceiling-RetryBaseDelay)
}
