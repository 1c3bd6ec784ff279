// Copyright 2026 t9a-dev. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package version holds the semantic version of the translator.
package version

import "github.com/blang/semver/v4"

// Version is the version of the built binary.
var Version = semver.MustParse("0.2.0")

// String returns the version as a string.
func String() string {
	return Version.String()
}
