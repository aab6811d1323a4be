// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"chartfold.dev/chartfold/pkg/orderedmap"
	"chartfold.dev/chartfold/pkg/values"
)

// StaticResolver serves lookups from a fixed set of manifests. It backs
// tests and "render against a snapshot" workflows where hitting a live
// cluster is undesirable.
type StaticResolver struct {
	resources map[resourceKey]*orderedmap.Map
}

type resourceKey struct {
	apiVersion string
	kind       string
	namespace  string
	name       string
}

// NewStaticResolver indexes the given multi-document YAML manifests by
// apiVersion/kind/metadata.namespace/metadata.name.
func NewStaticResolver(manifests []byte) (*StaticResolver, error) {
	resolver := &StaticResolver{resources: map[resourceKey]*orderedmap.Map{}}

	dec := yaml.NewDecoder(bytes.NewReader(manifests))
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing manifest: %s", err)
		}

		tree, err := values.FromYAMLNode(&doc)
		if err != nil {
			return nil, err
		}
		resourceTree, ok := tree.(*orderedmap.Map)
		if !ok {
			continue
		}
		if err := resolver.Add(resourceTree); err != nil {
			return nil, err
		}
	}
	return resolver, nil
}

// Add indexes one already-parsed resource tree.
func (r *StaticResolver) Add(resource *orderedmap.Map) error {
	key := resourceKey{
		apiVersion: stringAt(resource, "apiVersion"),
		kind:       stringAt(resource, "kind"),
		namespace:  stringAt(resource, "metadata", "namespace"),
		name:       stringAt(resource, "metadata", "name"),
	}
	if key.kind == "" || key.name == "" {
		return fmt.Errorf("manifest is missing kind or metadata.name")
	}
	r.resources[key] = resource
	return nil
}

func (r *StaticResolver) Lookup(apiVersion, kind, namespace, name string) (*orderedmap.Map, bool, error) {
	resource, found := r.resources[resourceKey{apiVersion, kind, namespace, name}]
	if !found {
		return nil, false, nil
	}
	return resource, true, nil
}

func stringAt(m *orderedmap.Map, path ...string) string {
	val, presence := values.Resolve(m, path)
	if presence != values.Present {
		return ""
	}
	str, _ := val.(string)
	return str
}
