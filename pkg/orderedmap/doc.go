// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package orderedmap provides a map implementation where the order of keys is
maintained (unlike the native Go map).

Every mapping inside a value context is held in this flavor of map. This is
crucial in keeping rendered output deterministic and stable: serialization
and range iteration both follow key insertion order.
*/
package orderedmap
