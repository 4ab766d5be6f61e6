package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const defaultBackoff = 300 * time.Millisecond

// requester issues a request built fresh for every attempt. Network errors
// and 5xx responses are retried up to maxRetries times with linear backoff.
// With unsentOnly set, only failures where the upstream cannot have acted on
// the request are retried: dial errors, 429 and 503.
type requester struct {
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	unsentOnly bool
}

func newRequester(timeout time.Duration, maxRetries int) *requester {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &requester{
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		backoff:    defaultBackoff,
	}
}

func (r *requester) do(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * r.backoff):
			}
		}

		req, err := build(ctx)
		if err != nil {
			return nil, fmt.Errorf("http new request: %w", err)
		}

		resp, err := r.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			lastErr = fmt.Errorf("http client do: %w", err)
			if r.unsentOnly && !isDialError(err) {
				return nil, lastErr
			}
			continue
		}

		if r.retryable(resp.StatusCode) && attempt < r.maxRetries {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
			resp.Body.Close()
			lastErr = fmt.Errorf("upstream error %d: %s", resp.StatusCode, string(b))
			continue
		}

		return resp, nil
	}
	return nil, lastErr
}

func (r *requester) retryable(status int) bool {
	if r.unsentOnly {
		return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
	}
	return status >= 500
}

func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
