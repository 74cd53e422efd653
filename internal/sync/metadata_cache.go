// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package sync

import (
	"context"

	"github.com/tomtom215/steamvault/internal/logging"
	"github.com/tomtom215/steamvault/internal/metrics"
	"github.com/tomtom215/steamvault/internal/steam"
)

// AppMetadata is the descriptive data merged into a game document. Name and
// ShortDescription are empty when no source had them.
type AppMetadata struct {
	AppID            int
	Name             string
	ShortDescription string
}

// MetadataCache resolves appids to AppMetadata for the lifetime of one run.
//
// Lookup order:
//  1. Memoized result from earlier in the run
//  2. The GetAppList catalog index (name only), loaded on first use
//  3. Store appdetails (name and short description)
//
// Only successful resolutions are memoized; an app the store could not
// describe is asked about again the next time it comes up.
//
// Thread Safety: Not safe for concurrent use. A run is sequential.
type MetadataCache struct {
	api        steam.API
	useCatalog bool

	catalogAttempted bool
	catalog          map[int]string
	resolved         map[int]AppMetadata
}

// NewMetadataCache returns an empty cache. useCatalog enables the bulk
// catalog index.
func NewMetadataCache(api steam.API, useCatalog bool) *MetadataCache {
	return &MetadataCache{
		api:        api,
		useCatalog: useCatalog,
		resolved:   make(map[int]AppMetadata),
	}
}

// Resolve returns what is known about appID. It never fails: upstream
// errors degrade the result to name-only or bare metadata.
func (c *MetadataCache) Resolve(ctx context.Context, appID int) AppMetadata {
	if meta, ok := c.resolved[appID]; ok {
		metrics.MetadataCacheHits.Inc()
		return meta
	}

	c.loadCatalog(ctx)
	if name, ok := c.catalog[appID]; ok && name != "" {
		meta := AppMetadata{AppID: appID, Name: name}
		c.resolved[appID] = meta
		metrics.MetadataCacheMisses.WithLabelValues("catalog").Inc()
		return meta
	}

	meta := AppMetadata{AppID: appID}
	details, err := c.api.GetAppDetails(ctx, appID)
	switch {
	case err != nil:
		logging.Ctx(ctx).Warn().Err(err).Int("appid", appID).Msg("Store details lookup failed")
	case details.Success && details.Data != nil:
		meta.Name = details.Data.Name
		meta.ShortDescription = details.Data.ShortDescription
		c.resolved[appID] = meta
		metrics.MetadataCacheMisses.WithLabelValues("store").Inc()
		return meta
	}

	metrics.MetadataCacheMisses.WithLabelValues("unresolved").Inc()
	return meta
}

// loadCatalog fetches the catalog index once per cache. A failed load is
// not retried; lookups fall through to store details.
func (c *MetadataCache) loadCatalog(ctx context.Context) {
	if !c.useCatalog || c.catalogAttempted {
		return
	}
	c.catalogAttempted = true

	list, err := c.api.GetAppList(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("App catalog unavailable, falling back to store details")
		return
	}

	c.catalog = make(map[int]string, len(list.AppList.Apps))
	for _, app := range list.AppList.Apps {
		c.catalog[app.AppID] = app.Name
	}
	logging.Ctx(ctx).Debug().Int("apps", len(c.catalog)).Msg("Loaded app catalog index")
}
