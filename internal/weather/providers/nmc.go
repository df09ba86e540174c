// Package providers holds upstream observation clients. The only production
// source today is the NMC (National Meteorological Centre) REST feed.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// BackoffConfig controls exponential backoff between fetch attempts.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

var (
	errUnexpectedStatus = errors.New("unexpected status code")
	errCircuitOpen      = errors.New("circuit breaker open")
)

// NMCProvider fetches raw observations from the NMC REST endpoint keyed by
// station id.
type NMCProvider struct {
	baseURL string
	client  *http.Client
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
}

// NewNMCProvider creates a provider. A nil client falls back to
// http.DefaultClient; an empty baseURL uses the public NMC host.
func NewNMCProvider(client *http.Client, baseURL string) *NMCProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = "https://www.nmc.cn"
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nmc",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &NMCProvider{
		baseURL: baseURL,
		client:  client,
		backoff: BackoffConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
	}
}

// Observation fetches the raw observation body for a station and decodes it
// without imposing a schema: shape varies by station and data availability.
func (p *NMCProvider) Observation(ctx context.Context, stationID string) (map[string]any, error) {
	values := url.Values{}
	values.Set("stationid", stationID)
	// Cache-busting timestamp the upstream expects.
	values.Set("_", fmt.Sprintf("%d", time.Now().UnixMilli()))

	resp, err := p.do(ctx, fmt.Sprintf("%s/rest/weather?%s", p.baseURL, values.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode observation body: %w", err)
	}
	return body, nil
}

// do executes the GET with exponential backoff behind the circuit breaker.
// Non-2xx statuses count as failures and trip the breaker like transport
// errors do.
func (p *NMCProvider) do(ctx context.Context, u string) (*http.Response, error) {
	var attempt int

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}

		result, err := p.circuit.Execute(func() (interface{}, error) {
			resp, execErr := p.client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		// An open breaker fails fast; waiting out the backoff would not help.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		if attempt >= p.backoff.MaxRetries {
			return nil, err
		}

		delay := p.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if p.backoff.MaxInterval > 0 && delay > p.backoff.MaxInterval {
			delay = p.backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}
