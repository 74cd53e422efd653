// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package steam

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/steamvault/internal/logging"
	"github.com/tomtom215/steamvault/internal/metrics"
)

// CircuitBreakerClient wraps Client with a circuit breaker so that a Steam
// outage fails a run quickly instead of timing out once per owned game.
//
// Only transport-level failures count against the breaker. Non-success
// payloads (no achievements, no store page) decode normally and are
// successes from the breaker's point of view.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

var _ API = (*CircuitBreakerClient)(nil)

// BreakerSettings tunes the breaker. Zero values select the defaults.
type BreakerSettings struct {
	// MinRequests before the failure ratio is considered (default 10).
	MinRequests uint32
	// FailureRatio that opens the circuit (default 0.6).
	FailureRatio float64
	// OpenTimeout before a half-open probe is allowed (default 2m).
	OpenTimeout time.Duration
}

// NewCircuitBreakerClient wraps client with a breaker named "steam-api".
func NewCircuitBreakerClient(client *Client, settings BreakerSettings) *CircuitBreakerClient {
	if settings.MinRequests == 0 {
		settings.MinRequests = 10
	}
	if settings.FailureRatio == 0 {
		settings.FailureRatio = 0.6
	}
	if settings.OpenTimeout == 0 {
		settings.OpenTimeout = 2 * time.Minute
	}

	cbName := "steam-api"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     settings.OpenTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= settings.FailureRatio
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// Cancellation is the caller giving up, not Steam failing.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{client: client, cb: cb, name: cbName}
}

// State returns the current breaker state.
func (cbc *CircuitBreakerClient) State() gobreaker.State {
	return cbc.cb.State()
}

// execute runs fn through the breaker and records the outcome.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(cbc.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return result, nil
}

// castResult type-asserts the breaker result.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// ResolveVanityURL calls Client.ResolveVanityURL with circuit breaker protection.
func (cbc *CircuitBreakerClient) ResolveVanityURL(ctx context.Context, vanity string) (*VanityURLResult, error) {
	return castResult[VanityURLResult](cbc.execute(func() (interface{}, error) {
		return cbc.client.ResolveVanityURL(ctx, vanity)
	}))
}

// GetPlayerSummaries calls Client.GetPlayerSummaries with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetPlayerSummaries(ctx context.Context, steamID string) (*PlayerSummaries, error) {
	return castResult[PlayerSummaries](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetPlayerSummaries(ctx, steamID)
	}))
}

// GetOwnedGames calls Client.GetOwnedGames with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetOwnedGames(ctx context.Context, steamID string, includePlayedFree bool) (*OwnedGames, error) {
	return castResult[OwnedGames](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetOwnedGames(ctx, steamID, includePlayedFree)
	}))
}

// GetPlayerAchievements calls Client.GetPlayerAchievements with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetPlayerAchievements(ctx context.Context, steamID string, appID int) (*PlayerStats, error) {
	return castResult[PlayerStats](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetPlayerAchievements(ctx, steamID, appID)
	}))
}

// GetAppList calls Client.GetAppList with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetAppList(ctx context.Context) (*AppList, error) {
	return castResult[AppList](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetAppList(ctx)
	}))
}

// GetAppDetails calls Client.GetAppDetails with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetAppDetails(ctx context.Context, appID int) (*AppDetails, error) {
	return castResult[AppDetails](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetAppDetails(ctx, appID)
	}))
}

// GetWishlistPage calls Client.GetWishlistPage with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetWishlistPage(ctx context.Context, steamID string, page int) (WishlistPage, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetWishlistPage(ctx, steamID, page)
	})
	if err != nil {
		return nil, err
	}
	typed, ok := result.(WishlistPage)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// GetCommunityGamesPage calls Client.GetCommunityGamesPage with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetCommunityGamesPage(ctx context.Context, profile ProfileRef) (string, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetCommunityGamesPage(ctx, profile)
	})
	if err != nil {
		return "", err
	}
	page, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return page, nil
}
