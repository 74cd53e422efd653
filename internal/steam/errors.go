// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package steam

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is returned when Steam keeps answering HTTP 429 after
	// the configured number of retries.
	ErrRateLimited = errors.New("steam: rate limited")

	// ErrCircuitOpen is returned when the circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("steam: circuit breaker open")
)

// DecodeError reports a response body that could not be parsed into the
// shape an endpoint expects. It carries the HTTP status and the start of the
// body for diagnostics.
type DecodeError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("steam %s: decode response (status %d): %v: %s", e.Endpoint, e.StatusCode, e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
