// Package httpfetch implements the retrying, rate-limited JSON fetcher used
// by every upstream call (spec.md §4.2, C2): acquire a permit, issue the
// request, classify the outcome, retry the retryable ones with exponential
// backoff, and never let a secret leak into a log line.
package httpfetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/observability"
	"github.com/riftlabs/ladder-pipeline/ratelimit"
)

// Outcome classifies the result of one fetch attempt sequence.
type Outcome string

const (
	OK                Outcome = "OK"
	HTTPNonRetryable  Outcome = "HTTP_NON_RETRYABLE"
	NonJSON           Outcome = "NON_JSON"
	RetryExhausted    Outcome = "RETRY_EXHAUSTED"
)

// Result is the outcome of one fetch. Data holds the raw JSON body on OK,
// left for the caller to unmarshal into whatever DTO it expects.
type Result struct {
	Data    json.RawMessage
	Outcome Outcome
	Status  int // 0 when no response was ever received
}

var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

const (
	maxAttempts  = 5
	minBackoff   = 1 * time.Second
	maxBackoff   = 10 * time.Second
	bodyPreview  = 200
)

// Fetcher issues rate-limited, retrying GET requests against the upstream
// game-data API, masking the api_key query parameter on every log line.
type Fetcher struct {
	client    *http.Client
	limiters  *ratelimit.Registry
	apiKey    string
	calls     int
	period    time.Duration
	metrics   *observability.FetchMetrics
	logger    zerolog.Logger
}

// New builds a Fetcher sharing limiters out of registry, one permit
// timeline per location (spec.md §4.2 "Acquires the per-location limiter
// before each attempt").
func New(registry *ratelimit.Registry, apiKey string, calls int, period time.Duration, metrics *observability.FetchMetrics, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		limiters: registry,
		apiKey:   apiKey,
		calls:    calls,
		period:   period,
		metrics:  metrics,
		logger:   logger.With().Str("component", "httpfetch").Logger(),
	}
}

// Fetch performs up to maxAttempts attempts of url, tagging rate-limiter
// acquisitions under location (a shard or super-shard name).
func (f *Fetcher) Fetch(ctx context.Context, url_, location string) Result {
	key := ratelimit.Key{Shard: location, Calls: f.calls, Period: f.period}

	var lastStatus int
	backoff := minBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		f.limiters.Acquire(key)

		result, retryable := f.attempt(ctx, url_)
		lastStatus = result.Status
		if result.Outcome == OK || result.Outcome == NonJSON || (result.Outcome == HTTPNonRetryable && !retryable) {
			return result
		}
		if !retryable {
			return result
		}
		if f.metrics != nil {
			f.metrics.NonOK(result.Status, "retryable")
		}
		if attempt == maxAttempts {
			break
		}
		f.logger.Debug().
			Str("url", maskSecret(url_)).
			Int("attempt", attempt).
			Int("status", result.Status).
			Dur("backoff", backoff).
			Msg("retrying fetch")
		sleepCtx(ctx, backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	return Result{Outcome: RetryExhausted, Status: lastStatus}
}

// attempt issues a single HTTP GET and classifies the response. The second
// return value reports whether the failure is retryable.
func (f *Fetcher) attempt(ctx context.Context, rawURL string) (Result, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, withAPIKey(rawURL, f.apiKey), nil)
	if err != nil {
		return Result{Outcome: HTTPNonRetryable}, false
	}
	req.Header.Set("X-Riot-Token", f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{Outcome: RetryExhausted}, true
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	if status < 200 || status >= 300 {
		if retryableStatus[status] {
			return Result{Outcome: RetryExhausted, Status: status}, true
		}
		if f.metrics != nil {
			f.metrics.NonOK(status, "unexpected")
		}
		return Result{Outcome: HTTPNonRetryable, Status: status}, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Outcome: RetryExhausted, Status: status}, true
	}

	if !json.Valid(body) {
		f.logger.Warn().
			Str("url", maskSecret(rawURL)).
			Str("preview", previewBody(body)).
			Msg("non-json response body")
		return Result{Outcome: NonJSON, Status: status}, false
	}

	return Result{Data: json.RawMessage(body), Outcome: OK, Status: status}, false
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func withAPIKey(rawURL, apiKey string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("api_key", apiKey)
	u.RawQuery = q.Encode()
	return u.String()
}

var apiKeyParam = regexp.MustCompile(`([?&]api_key=)[^&]+`)

// maskSecret redacts the api_key query parameter so fetch urls are safe to
// log (spec.md §4.2 "masks any api_key=... query parameter").
func maskSecret(rawURL string) string {
	return apiKeyParam.ReplaceAllString(rawURL, "${1}***")
}

// previewBody flattens newlines and truncates to bodyPreview runes for a
// WARN-level log line on unparseable JSON.
func previewBody(body []byte) string {
	s := strings.ReplaceAll(string(body), "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	r := []rune(s)
	if len(r) > bodyPreview {
		r = r[:bodyPreview]
	}
	return string(r)
}

