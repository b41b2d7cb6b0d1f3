package cms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/MichalMitros/cms-sync/internal/platform/metrics"
	"github.com/rs/zerolog"
)

// Backoff returns delay before retry following zero-indexed attempt.
type Backoff func(attempt int) time.Duration

// MaxBackoff caps ExponentialBackoff delays.
const MaxBackoff = time.Minute

// ExponentialBackoff waits 2^attempt seconds, at most MaxBackoff.
func ExponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 6 {
		return MaxBackoff
	}
	return min(time.Duration(1<<attempt)*time.Second, MaxBackoff)
}

// fetcher issues bounded-time retried GET requests to CMS.
type fetcher struct {
	client        *http.Client
	adapter       Adapter
	timeout       time.Duration
	retryAttempts int
	backoff       Backoff
	logger        *zerolog.Logger
	metrics       *metrics.Metrics
}

// fetchWithTimeout returns body of single request bounded by configured timeout.
func (f *fetcher) fetchWithTimeout(ctx context.Context, url string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("can't build http request: %w", err)
	}
	req.Header = f.adapter.AuthHeaders()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.requestError(ctx, reqCtx, fmt.Errorf("can't get http response: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, f.requestError(ctx, reqCtx, fmt.Errorf("can't read http response: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		f.metrics.CMSRequest(string(f.adapter.Provider()), "status_"+strconv.Itoa(resp.StatusCode))
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	f.metrics.CMSRequest(string(f.adapter.Provider()), "success")

	return body, nil
}

// requestError reports expiry of request's own deadline as ErrTimeout.
func (f *fetcher) requestError(parent, reqCtx context.Context, err error) error {
	if parent.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		f.metrics.CMSRequest(string(f.adapter.Provider()), "timeout")
		return fmt.Errorf("%w after %s", ErrTimeout, f.timeout)
	}

	f.metrics.CMSRequest(string(f.adapter.Provider()), "error")

	return err
}

// fetchWithRetry makes up to 1+retryAttempts attempts, waiting backoff between them.
// Only transport errors, timeouts, 429 and 5xx responses are retried. Last failure is returned.
func (f *fetcher) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= f.retryAttempts; attempt++ {
		body, err := f.fetchWithTimeout(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt == f.retryAttempts || !retryable(ctx, err) {
			break
		}

		delay := f.backoff(attempt)
		f.logger.Warn().
			Err(err).
			Str("url", url).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("cms request failed, retrying")
		f.metrics.CMSRetry(string(f.adapter.Provider()))

		if err := wait(ctx, delay); err != nil {
			return nil, fmt.Errorf("%w (retry aborted: %w)", lastErr, err)
		}
	}

	return nil, lastErr
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	return true
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
