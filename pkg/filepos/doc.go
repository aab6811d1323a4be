// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filepos provides the concept of Position: a source name (usually a
template file) and a line/column within that source.

Positions are crucial when reporting parse and render errors to the user:
a failing action deep inside a chart is useless to report without saying
where it came from.

Not all Position point within a source (e.g. a template string rendered via
the tpl function). The zero-value of Position (can be created using
NewUnknownPosition()) represents this case.
*/
package filepos
