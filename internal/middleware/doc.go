// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

/*
Package middleware provides HTTP middleware for the status API.

Key Components:

  - PrometheusMetrics: request count, latency and in-flight gauge per chi route
  - Compression: gzip for clients that accept it

Both take and return http.Handler so they plug into chi's Use:

	r := chi.NewRouter()
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

Request IDs, panic recovery and access logging come from chi's own
middleware and live in the api package.
*/
package middleware
