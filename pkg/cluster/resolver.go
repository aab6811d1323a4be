// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"chartfold.dev/chartfold/pkg/orderedmap"
)

// Resolver answers lookup queries against live external state. It is the
// single non-pure capability exposed to templates, injected at render
// start so everything else stays deterministic and testable offline.
//
// "Not found" is not an error: found=false with a nil error is the normal
// answer for a resource that does not exist. Errors are reserved for
// transport or authorization failures.
type Resolver interface {
	Lookup(apiVersion, kind, namespace, name string) (resource *orderedmap.Map, found bool, err error)
}

type noopResolver struct{}

// NewNoopResolver returns the resolver used for offline renders and dry
// runs: every query deterministically answers "not found".
func NewNoopResolver() Resolver { return noopResolver{} }

func (noopResolver) Lookup(apiVersion, kind, namespace, name string) (*orderedmap.Map, bool, error) {
	return nil, false, nil
}
