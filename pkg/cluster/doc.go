// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package cluster is the boundary between the rendering engine and live
external state: the lookup template function delegates to a Resolver
injected at render start.

Production deployments plug in a resolver backed by a real API client (a
collaborator outside this module); offline renders use NewNoopResolver
and tests use StaticResolver.
*/
package cluster
