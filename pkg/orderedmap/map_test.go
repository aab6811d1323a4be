// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap_test

import (
	"testing"

	"chartfold.dev/chartfold/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapKeepsInsertionOrder(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("zebra", 1)
	m.Set("apple", 2)
	m.Set("mango", 3)

	assert.Equal(t, []string{"zebra", "apple", "mango"}, m.Keys())

	m.Set("apple", 20)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, m.Keys(),
		"overwriting an existing key must not move it")

	val, found := m.Get("apple")
	require.True(t, found)
	assert.Equal(t, 20, val)
}

func TestMapDistinguishesNullFromAbsent(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("present-null", nil)

	val, found := m.Get("present-null")
	assert.True(t, found)
	assert.Nil(t, val)

	_, found = m.Get("never-set")
	assert.False(t, found)
}

func TestDeepCopyDoesNotShareNestedMaps(t *testing.T) {
	inner := orderedmap.NewMap()
	inner.Set("a", 1)

	m := orderedmap.NewMap()
	m.Set("nested", inner)
	m.Set("list", []interface{}{"x"})

	copied := m.DeepCopy()
	copiedInner, _ := copied.Get("nested")
	copiedInner.(*orderedmap.Map).Set("a", 99)

	val, _ := inner.Get("a")
	assert.Equal(t, 1, val, "mutating the copy must not affect the original")
}

func TestFromUnorderedMapsSortsKeys(t *testing.T) {
	result := orderedmap.Conversion{Object: map[string]interface{}{
		"b": map[string]interface{}{"z": 1, "a": 2},
		"a": []interface{}{map[string]interface{}{"k": "v"}},
	}}.FromUnorderedMaps()

	m, ok := result.(*orderedmap.Map)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	bVal, _ := m.Get("b")
	assert.Equal(t, []string{"a", "z"}, bVal.(*orderedmap.Map).Keys())
}

func TestRoundTripThroughUnorderedMaps(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("name", "demo")
	m.Set("ports", []interface{}{80, 443})

	plain := orderedmap.Conversion{Object: m}.AsUnorderedStringMaps()
	back := orderedmap.Conversion{Object: plain}.FromUnorderedMaps()

	assert.Equal(t, []string{"name", "ports"}, back.(*orderedmap.Map).Keys())
}
