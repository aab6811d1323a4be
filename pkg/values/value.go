// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package values

import (
	"chartfold.dev/chartfold/pkg/orderedmap"
)

type missingType struct{}

// Missing is the sentinel carried through pipelines for references that
// resolved to a key that never existed. It is distinct from nil (an
// explicit null) so that hasKey can tell the two apart, while default,
// required and truthiness checks treat both as "needs a value".
var Missing = missingType{}

func IsMissing(val interface{}) bool {
	_, ok := val.(missingType)
	return ok
}

// IsEmpty reports whether val is absent, null, or the zero value of its
// type. This single predicate backs default, required, if and with.
func IsEmpty(val interface{}) bool {
	switch typedVal := val.(type) {
	case nil, missingType:
		return true
	case bool:
		return !typedVal
	case int:
		return typedVal == 0
	case int64:
		return typedVal == 0
	case float64:
		return typedVal == 0
	case string:
		return len(typedVal) == 0
	case []interface{}:
		return len(typedVal) == 0
	case *orderedmap.Map:
		return typedVal == nil || typedVal.Len() == 0
	}
	return false
}

// Truthy is IsEmpty negated; named separately because it reads better at
// branch-condition call sites.
func Truthy(val interface{}) bool { return !IsEmpty(val) }

// KindOf names the dynamic type of a value the way templates see it.
func KindOf(val interface{}) string {
	switch val.(type) {
	case nil:
		return "null"
	case missingType:
		return "null" // absent values present as null to templates
	case bool:
		return "bool"
	case int, int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case []interface{}:
		return "sequence"
	case *orderedmap.Map:
		return "mapping"
	}
	return "unknown"
}
