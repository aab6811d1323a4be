// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"fmt"
	"sort"
)

// Conversion bridges value trees between this package's ordered maps and
// the plain Go maps produced/consumed by serialization libraries.
type Conversion struct {
	Object interface{}
}

// AsUnorderedStringMaps converts nested *Map values into
// map[string]interface{}, losing key order. Useful right before handing a
// tree to an encoder that understands plain maps.
func (c Conversion) AsUnorderedStringMaps() interface{} {
	return c.asUnorderedStringMaps(c.Object)
}

func (c Conversion) asUnorderedStringMaps(object interface{}) interface{} {
	switch typedObj := object.(type) {
	case *Map:
		result := map[string]interface{}{}
		typedObj.Iterate(func(k string, v interface{}) {
			result[k] = c.asUnorderedStringMaps(v)
		})
		return result

	case []interface{}:
		result := make([]interface{}, len(typedObj))
		for i, item := range typedObj {
			result[i] = c.asUnorderedStringMaps(item)
		}
		return result

	default:
		return typedObj
	}
}

// FromUnorderedMaps converts nested plain Go maps into *Map values. Since
// the source carries no ordering, keys are sorted so that repeated
// conversions of the same input stay deterministic.
func (c Conversion) FromUnorderedMaps() interface{} {
	return c.fromUnorderedMaps(c.Object)
}

func (c Conversion) fromUnorderedMaps(object interface{}) interface{} {
	switch typedObj := object.(type) {
	case map[string]interface{}:
		result := NewMap()
		for _, key := range c.sortedKeys(typedObj) {
			result.Set(key, c.fromUnorderedMaps(typedObj[key]))
		}
		return result

	case map[interface{}]interface{}:
		result := NewMap()
		strMap := map[string]interface{}{}
		for key, val := range typedObj {
			strKey, ok := key.(string)
			if !ok {
				strKey = fmt.Sprintf("%v", key)
			}
			strMap[strKey] = val
		}
		for _, key := range c.sortedKeys(strMap) {
			result.Set(key, c.fromUnorderedMaps(strMap[key]))
		}
		return result

	case []interface{}:
		result := make([]interface{}, len(typedObj))
		for i, item := range typedObj {
			result[i] = c.fromUnorderedMaps(item)
		}
		return result

	default:
		return typedObj
	}
}

func (c Conversion) sortedKeys(m map[string]interface{}) []string {
	var keys []string
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
