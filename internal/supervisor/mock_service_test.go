// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// errSimulated is returned by MockService while it has failures left.
var errSimulated = errors.New("simulated failure")

// MockService is a suture.Service for supervisor tests. It fails the first
// failures times it is served and then runs until canceled.
type MockService struct {
	name       string
	failures   int32
	startCount atomic.Int32
	failCount  atomic.Int32
}

// NewMockService creates a mock service that never fails.
func NewMockService(name string) *MockService {
	return &MockService{name: name}
}

// NewFailingMockService creates a mock service that fails n times first.
func NewFailingMockService(name string, n int) *MockService {
	return &MockService{name: name, failures: int32(n)}
}

// Serve implements suture.Service.
func (m *MockService) Serve(ctx context.Context) error {
	m.startCount.Add(1)
	if m.failCount.Add(1) <= m.failures {
		return errSimulated
	}
	<-ctx.Done()
	return ctx.Err()
}

// StartCount returns how many times Serve was called.
func (m *MockService) StartCount() int32 {
	return m.startCount.Load()
}

// String implements fmt.Stringer. Suture uses it in log messages.
func (m *MockService) String() string {
	return m.name
}
