// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package values

import (
	"strconv"

	"chartfold.dev/chartfold/pkg/orderedmap"
)

// Presence classifies the outcome of a path lookup.
type Presence int

const (
	Absent Presence = iota
	Null
	Present
)

// Resolve walks path (e.g. ["Values","image","tag"]) down from root.
// Absent intermediate keys short-circuit to (Missing, Absent) instead of
// failing: checking-then-defaulting is a first-class idiom and must not
// crash a render. Numeric segments index into sequences.
func Resolve(root interface{}, path []string) (interface{}, Presence) {
	cur := root
	for _, segment := range path {
		switch typedCur := cur.(type) {
		case *orderedmap.Map:
			val, found := typedCur.Get(segment)
			if !found {
				return Missing, Absent
			}
			cur = val

		case []interface{}:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(typedCur) {
				return Missing, Absent
			}
			cur = typedCur[idx]

		default:
			// descending into a scalar, null or missing value
			return Missing, Absent
		}
	}
	if cur == nil {
		return nil, Null
	}
	if IsMissing(cur) {
		return Missing, Absent
	}
	return cur, Present
}
