// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package render evaluates parsed templates against a value context,
producing the final text output.

One render is one logical thread of evaluation: it owns its scope stack
and named-template registry, so independent renders can run concurrently
as long as they do not share those. The function library and an optional
cluster.Resolver are injected at engine construction; the resolver is the
only effectful dependency.

Any failure aborts the whole render with the first error encountered;
callers never observe partial output.
*/
package render
