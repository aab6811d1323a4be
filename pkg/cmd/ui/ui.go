// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"io"
)

// UI is how commands talk to the user; rendered output never goes
// through it (that goes to stdout or a file), only diagnostics do.
type UI interface {
	Printf(str string, args ...interface{})
	Warnf(str string, args ...interface{})
	Debugf(str string, args ...interface{})
	DebugWriter() io.Writer
}
