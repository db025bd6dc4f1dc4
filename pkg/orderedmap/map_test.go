// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap_test

import (
	"testing"

	"carvel.dev/liquid/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
)

func TestMapKeepsInsertionOrder(t *testing.T) {
	m := orderedmap.NewMap[int]()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	val, found := m.Get("b")
	assert.True(t, found)
	assert.Equal(t, 3, val)
}

func TestMapDeleteReindexes(t *testing.T) {
	m := orderedmap.NewMapWithItems([]orderedmap.MapItem[int]{{"a", 1}, {"b", 2}, {"c", 3}})

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))

	val, found := m.Get("c")
	assert.True(t, found)
	assert.Equal(t, 3, val)
	assert.Equal(t, 2, m.Len())
}

func TestMapCopyIsIndependent(t *testing.T) {
	m := orderedmap.NewMap[int]()
	m.Set("a", 1)

	c := m.Copy()
	c.Set("a", 2)
	c.Set("b", 3)

	val, _ := m.Get("a")
	assert.Equal(t, 1, val)
	assert.Equal(t, 1, m.Len())
}

func TestNilMapReads(t *testing.T) {
	var m *orderedmap.Map[int]

	_, found := m.Get("a")
	assert.False(t, found)
	assert.Equal(t, 0, m.Len())
}
