// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package steam

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// apiRequest holds parameters for one Steam request.
type apiRequest struct {
	endpoint string // metrics and error label
	baseURL  string
	path     string
	withKey  bool
	params   url.Values
}

// newWebAPIRequest creates a request against the Web API, authenticated with the API key.
func (c *Client) newWebAPIRequest(endpoint, path string) *apiRequest {
	return &apiRequest{endpoint: endpoint, baseURL: c.apiBaseURL, path: path, withKey: true, params: url.Values{}}
}

// newStoreRequest creates an unauthenticated request against the store.
func (c *Client) newStoreRequest(endpoint, path string) *apiRequest {
	return &apiRequest{endpoint: endpoint, baseURL: c.storeBaseURL, path: path, params: url.Values{}}
}

// newCommunityRequest creates an unauthenticated request against the community site.
func (c *Client) newCommunityRequest(endpoint, path string) *apiRequest {
	return &apiRequest{endpoint: endpoint, baseURL: c.communityBaseURL, path: path, params: url.Values{}}
}

// addParam adds a parameter to the request (skipped when empty).
func (r *apiRequest) addParam(key, value string) *apiRequest {
	if value != "" {
		r.params.Set(key, value)
	}
	return r
}

// addIntParam adds an integer parameter to the request, including zero.
func (r *apiRequest) addIntParam(key string, value int) *apiRequest {
	r.params.Set(key, strconv.Itoa(value))
	return r
}

// addBoolParam adds a boolean as Steam expects it (1 or 0).
func (r *apiRequest) addBoolParam(key string, value bool) *apiRequest {
	if value {
		r.params.Set(key, "1")
	} else {
		r.params.Set(key, "0")
	}
	return r
}

// buildURL constructs the full URL. The API key is only attached to Web API requests.
func (r *apiRequest) buildURL(apiKey string) string {
	params := url.Values{}
	for key, values := range r.params {
		params[key] = values
	}
	if r.withKey {
		params.Set("key", apiKey)
	}

	u := strings.TrimRight(r.baseURL, "/") + r.path
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// executeAPIRequest fetches the request and decodes the body into T
// regardless of HTTP status. A body that does not decode is a *DecodeError.
func executeAPIRequest[T any](ctx context.Context, c *Client, req *apiRequest) (*T, error) {
	resp, err := c.fetch(ctx, req.endpoint, req.buildURL(c.apiKey))
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(resp.body, &result); err != nil {
		return nil, &DecodeError{
			Endpoint:   req.endpoint,
			StatusCode: resp.status,
			Body:       bodySnippet(resp.body),
			Err:        err,
		}
	}
	return &result, nil
}
