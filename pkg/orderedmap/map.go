// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"encoding/json"
)

type Map[V any] struct {
	items []MapItem[V]
	index map[string]int
}

type MapItem[V any] struct {
	Key   string
	Value V
}

func NewMap[V any]() *Map[V] {
	return &Map[V]{}
}

func NewMapWithItems[V any](items []MapItem[V]) *Map[V] {
	m := &Map[V]{}
	for _, item := range items {
		m.Set(item.Key, item.Value)
	}
	return m
}

func (m *Map[V]) Set(key string, value V) {
	if i, found := m.index[key]; found {
		m.items[i].Value = value
		return
	}
	if m.index == nil {
		m.index = map[string]int{}
	}
	m.index[key] = len(m.items)
	m.items = append(m.items, MapItem[V]{key, value})
}

func (m *Map[V]) Get(key string) (V, bool) {
	if m != nil {
		if i, found := m.index[key]; found {
			return m.items[i].Value, true
		}
	}
	var zero V
	return zero, false
}

func (m *Map[V]) Delete(key string) bool {
	i, found := m.index[key]
	if !found {
		return false
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	delete(m.index, key)
	for j := i; j < len(m.items); j++ {
		m.index[m.items[j].Key] = j
	}
	return true
}

func (m *Map[V]) Keys() (keys []string) {
	m.Iterate(func(k string, _ V) {
		keys = append(keys, k)
	})
	return
}

func (m *Map[V]) Iterate(iterFunc func(k string, v V)) {
	if m == nil {
		return
	}
	for _, item := range m.items {
		iterFunc(item.Key, item.Value)
	}
}

func (m *Map[V]) IterateErr(iterFunc func(k string, v V) error) error {
	if m == nil {
		return nil
	}
	for _, item := range m.items {
		err := iterFunc(item.Key, item.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.items)
}

// Copy returns a shallow copy that can be mutated independently of m.
func (m *Map[V]) Copy() *Map[V] {
	result := &Map[V]{items: make([]MapItem[V], len(m.items)), index: make(map[string]int, len(m.items))}
	copy(result.items, m.items)
	for k, i := range m.index {
		result.index[k] = i
	}
	return result
}

// Below methods disallow marshaling of Map directly
var _ []json.Marshaler = []json.Marshaler{&Map[int]{}}

func (*Map[V]) MarshalYAML() (interface{}, error) { panic("Unexpected marshaling of *orderedmap.Map") }
func (*Map[V]) MarshalJSON() ([]byte, error)      { panic("Unexpected marshaling of *orderedmap.Map") }
