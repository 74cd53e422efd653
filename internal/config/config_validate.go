// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package config

import (
	"fmt"
	"net/url"

	"github.com/tomtom215/steamvault/internal/validation"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks struct-tag rules first, then the cross-field rules that
// tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateStorage checks the settings required by the selected backend.
func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "filesystem":
		if c.Storage.Filesystem.Path == "" {
			return fmt.Errorf("STORAGE_FS_PATH is required when STORAGE_BACKEND=filesystem")
		}
	case "s3":
		return c.validateS3()
	case "badger":
		if c.Storage.Badger.Path == "" {
			return fmt.Errorf("STORAGE_BADGER_PATH is required when STORAGE_BACKEND=badger")
		}
	}
	return nil
}

func (c *Config) validateS3() error {
	s3 := c.Storage.S3
	if s3.Bucket == "" {
		return fmt.Errorf("STORAGE_S3_BUCKET is required when STORAGE_BACKEND=s3")
	}
	if s3.Region == "" {
		return fmt.Errorf("STORAGE_S3_REGION is required when STORAGE_BACKEND=s3")
	}
	if (s3.AccessKeyID == "") != (s3.SecretAccessKey == "") {
		return fmt.Errorf("STORAGE_S3_ACCESS_KEY_ID and STORAGE_S3_SECRET_ACCESS_KEY must be set together")
	}
	if s3.Endpoint != "" {
		if err := validateHTTPURL(s3.Endpoint, "STORAGE_S3_ENDPOINT"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateHTTPURL checks that a URL is an http(s) base URL with a host and
// no query string.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}
