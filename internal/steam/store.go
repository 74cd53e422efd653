// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package steam

import (
	"context"
	"fmt"
	"strconv"
)

// GetAppList returns the full appid -> name catalog. It is a Web API
// endpoint but needs no key.
func (c *Client) GetAppList(ctx context.Context) (*AppList, error) {
	req := &apiRequest{
		endpoint: "app_list",
		baseURL:  c.apiBaseURL,
		path:     "/ISteamApps/GetAppList/v2/",
	}
	return executeAPIRequest[AppList](ctx, c, req)
}

// GetAppDetails returns the store details for one app. Steam answers
// {"<appid>":{"success":false}} (or null) for apps without a store page;
// both come back as a non-success AppDetails.
func (c *Client) GetAppDetails(ctx context.Context, appID int) (*AppDetails, error) {
	req := c.newStoreRequest("app_details", "/api/appdetails").
		addIntParam("appids", appID).
		addParam("l", c.language).
		addParam("cc", c.countryCode).
		addParam("filters", "basic")

	byID, err := executeAPIRequest[map[string]AppDetails](ctx, c, req)
	if err != nil {
		return nil, err
	}
	if byID == nil || *byID == nil {
		return &AppDetails{}, nil
	}
	details, ok := (*byID)[strconv.Itoa(appID)]
	if !ok {
		return &AppDetails{}, nil
	}
	return &details, nil
}

// GetWishlistPage returns one page (0-based) of the account's wishlist.
func (c *Client) GetWishlistPage(ctx context.Context, steamID string, page int) (WishlistPage, error) {
	req := c.newStoreRequest("wishlist", fmt.Sprintf("/wishlist/profiles/%s/wishlistdata/", steamID)).
		addIntParam("p", page)

	resp, err := c.fetch(ctx, req.endpoint, req.buildURL(c.apiKey))
	if err != nil {
		return nil, err
	}

	items, err := decodeWishlistPage(resp.body)
	if err != nil {
		return nil, &DecodeError{
			Endpoint:   req.endpoint,
			StatusCode: resp.status,
			Body:       bodySnippet(resp.body),
			Err:        err,
		}
	}
	return items, nil
}
