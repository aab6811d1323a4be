// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package values

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"chartfold.dev/chartfold/pkg/orderedmap"
)

// ParseTree decodes YAML into a value tree, preserving mapping key order.
// An empty document yields nil.
func ParseTree(data []byte) (interface{}, error) {
	var doc yaml.Node
	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	return fromYAMLNode(doc.Content[0])
}

// ParseMapping decodes YAML whose top level must be a mapping (the shape
// of a values file). An empty document yields an empty mapping.
func ParseMapping(data []byte) (*orderedmap.Map, error) {
	tree, err := ParseTree(data)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return orderedmap.NewMap(), nil
	}
	m, ok := tree.(*orderedmap.Map)
	if !ok {
		return nil, fmt.Errorf("expected top level of values to be a mapping, but was %s", KindOf(tree))
	}
	return m, nil
}

// FromYAMLNode converts an already-decoded yaml.Node into a value tree.
func FromYAMLNode(node *yaml.Node) (interface{}, error) {
	return fromYAMLNode(node)
}

func fromYAMLNode(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return fromYAMLNode(node.Content[0])

	case yaml.MappingNode:
		result := orderedmap.NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			var key string
			if err := keyNode.Decode(&key); err != nil {
				key = keyNode.Value
			}
			val, err := fromYAMLNode(valNode)
			if err != nil {
				return nil, err
			}
			result.Set(key, val)
		}
		return result, nil

	case yaml.SequenceNode:
		var result []interface{}
		for _, item := range node.Content {
			val, err := fromYAMLNode(item)
			if err != nil {
				return nil, err
			}
			result = append(result, val)
		}
		if result == nil {
			result = []interface{}{}
		}
		return result, nil

	case yaml.ScalarNode:
		var val interface{}
		if err := node.Decode(&val); err != nil {
			return nil, err
		}
		if intVal, ok := val.(int); ok {
			val = int64(intVal)
		}
		return val, nil

	case yaml.AliasNode:
		return fromYAMLNode(node.Alias)
	}
	return nil, fmt.Errorf("unsupported YAML node kind %d", node.Kind)
}

// AsYAMLNode converts a value tree into a yaml.Node so that encoding
// preserves mapping key insertion order (plain Go maps would not).
func AsYAMLNode(val interface{}) (*yaml.Node, error) {
	switch typedVal := val.(type) {
	case *orderedmap.Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		err := typedVal.IterateErr(func(k string, v interface{}) error {
			keyNode := &yaml.Node{}
			if err := keyNode.Encode(k); err != nil {
				return err
			}
			valNode, err := AsYAMLNode(v)
			if err != nil {
				return err
			}
			node.Content = append(node.Content, keyNode, valNode)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return node, nil

	case []interface{}:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typedVal {
			itemNode, err := AsYAMLNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, itemNode)
		}
		return node, nil

	case missingType:
		return AsYAMLNode(nil)

	default:
		node := &yaml.Node{}
		if err := node.Encode(typedVal); err != nil {
			return nil, err
		}
		return node, nil
	}
}
