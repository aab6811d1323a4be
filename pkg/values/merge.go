// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package values

import (
	"chartfold.dev/chartfold/pkg/orderedmap"
)

// MergeMaps deep-merges src into a copy of dst: mapping values under the
// same key merge recursively, anything else in src overrides dst. Neither
// argument is mutated. Key order: dst keys first (in their order), then
// src-only keys in src order.
func MergeMaps(dst, src *orderedmap.Map) *orderedmap.Map {
	result := dst.DeepCopy()
	if src == nil {
		return result
	}
	src.Iterate(func(k string, srcVal interface{}) {
		dstVal, found := result.Get(k)
		if found {
			dstMap, dstIsMap := dstVal.(*orderedmap.Map)
			srcMap, srcIsMap := srcVal.(*orderedmap.Map)
			if dstIsMap && srcIsMap {
				result.Set(k, MergeMaps(dstMap, srcMap))
				return
			}
		}
		result.Set(k, orderedmap.DeepCopyValue(srcVal))
	})
	return result
}

// CoalesceLayers folds value-file layers into one tree; later layers win.
func CoalesceLayers(layers ...*orderedmap.Map) *orderedmap.Map {
	result := orderedmap.NewMap()
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		result = MergeMaps(result, layer)
	}
	return result
}
