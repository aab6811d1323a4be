// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package values holds the value context model: the tree of user-supplied
configuration plus built-in release/chart/capabilities metadata that one
render evaluates against.

Trees are built out of scalars, []interface{} sequences and
*orderedmap.Map mappings. Lookup is path based and three-way: a key can be
absent, explicitly null, or present. The distinction matters because the
default/required/hasKey family of functions treats those outcomes
differently.
*/
package values
