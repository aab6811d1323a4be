// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package version

// Version is overridden at build time via -ldflags for releases.
var Version = "0.1.0"
