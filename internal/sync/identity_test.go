// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/steamvault/internal/steam/steamtest"
)

func TestIdentityResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		configured string
		username   string
		errors     map[string]error
		want       string
		wantErr    bool
		wantCalls  int
	}{
		{name: "vanity match", username: "gabe", want: testSteamID, wantCalls: 1},
		{name: "no match", username: "nobody", wantErr: true, wantCalls: 1},
		{name: "configured id skips lookup", configured: "76561197960265729", username: "gabe", want: "76561197960265729"},
		{name: "nothing configured", wantErr: true},
		{name: "request fails", username: "gabe", errors: map[string]error{"ResolveVanityURL": steamtest.ErrInjected}, wantErr: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			api := &steamtest.Fake{Vanity: map[string]string{"gabe": testSteamID}, Errors: tt.errors}
			got, err := NewIdentityResolver(api, tt.configured).Resolve(context.Background(), tt.username)

			if tt.wantErr {
				if !errors.Is(err, ErrUnresolvedIdentity) {
					t.Fatalf("Resolve() error = %v, want ErrUnresolvedIdentity", err)
				}
			} else if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
			if calls := api.Calls("ResolveVanityURL"); calls != tt.wantCalls {
				t.Errorf("ResolveVanityURL calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestIdentityResolverMemoizes(t *testing.T) {
	t.Parallel()

	api := &steamtest.Fake{Vanity: map[string]string{"gabe": testSteamID}}
	resolver := NewIdentityResolver(api, "")
	for i := 0; i < 3; i++ {
		if _, err := resolver.Resolve(context.Background(), "gabe"); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}
	if calls := api.Calls("ResolveVanityURL"); calls != 1 {
		t.Errorf("ResolveVanityURL calls = %d, want 1", calls)
	}
}
