// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package steam

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/tomtom215/steamvault/internal/metrics"
)

// hostLimiter is a token bucket per upstream host. The Web API, the store
// and the community site are throttled independently by Steam, so one busy
// host must not slow requests to the others.
type hostLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newHostLimiter(rps float64, burst int) *hostLimiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &hostLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Wait blocks until a request to host is allowed or ctx is canceled.
func (h *hostLimiter) Wait(ctx context.Context, host string) error {
	limiter := h.get(host)
	if limiter.Tokens() < 1 {
		metrics.SteamRateLimitWaits.WithLabelValues(host).Inc()
	}
	return limiter.Wait(ctx)
}

func (h *hostLimiter) get(host string) *rate.Limiter {
	h.mu.RLock()
	limiter, ok := h.limiters[host]
	h.mu.RUnlock()
	if ok {
		return limiter
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if limiter, ok = h.limiters[host]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(h.limit, h.burst)
	h.limiters[host] = limiter
	return limiter
}
