// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
)

// ErrGetConfigFile is returned when a configuration file cannot be read or fetched.
var ErrGetConfigFile = errors.New("failed to get config file")

const (
	goGetterPathSeparator   = "//"
	goGetterRefSeparator    = "?"
	goGetterForcedSeparator = "::"
	minimumGetterParts      = 3 // scheme, host and path
)

// isGetterURL reports whether location is something other than a plain local path.
func isGetterURL(location string) bool {
	return strings.Contains(location, "://") || strings.Contains(location, goGetterForcedSeparator)
}

// getterSource returns the go-getter source to download and the name of the file within it.
// Detected local paths are fetched as their directory; other sources need a "//" subdirectory.
func getterSource(location, pwd string) (string, string, error) {
	ok, err := getter.Detect(&getter.Request{Src: location, Pwd: pwd}, &getter.FileGetter{})
	if err != nil {
		return "", "", err //nolint:wrapcheck
	}

	if ok {
		return filepath.Dir(location), filepath.Base(location), nil
	}

	src, fileName := splitFileNameFromGetterURL(location)
	if src == "" || fileName == "" {
		return "", "", fmt.Errorf("invalid URL format: %s", location)
	}

	return src, fileName, nil
}

// splitFileNameFromGetterURL splits a go-getter URL into the directory URL and the file name.
// A "?ref=" style query is moved onto the returned URL.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]

	if before, after, found := strings.Cut(last, goGetterRefSeparator); found {
		ref = after
		last = before
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)

	if dir := filepath.Dir(last); dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	newURL := strings.Join(parts, goGetterPathSeparator)
	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
