// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"carvel.dev/liquid/pkg/orderedmap"
)

// Object maps keys to Values and iterates in insertion order.
// It is mutable only while being built; once wrapped by NewObject it must
// be treated as read-only (use Value.With to derive modified copies).
type Object struct {
	entries *orderedmap.Map[Value]
}

func NewEmptyObject() *Object {
	return &Object{entries: orderedmap.NewMap[Value]()}
}

// NewObjectFromMap builds an Object from a Go map with keys in sorted order.
func NewObjectFromMap(m map[string]Value) *Object {
	obj := NewEmptyObject()
	for _, key := range sortedKeys(m) {
		obj.Set(key, m[key])
	}
	return obj
}

func (o *Object) Set(key string, val Value) { o.entries.Set(key, val) }

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Nil, false
	}
	return o.entries.Get(key)
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return o.entries.Len()
}

func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.entries.Keys()
}

func (o *Object) Iterate(iterFunc func(key string, val Value)) {
	if o == nil {
		return
	}
	o.entries.Iterate(iterFunc)
}

func (o *Object) Copy() *Object {
	if o == nil {
		return NewEmptyObject()
	}
	return &Object{entries: o.entries.Copy()}
}
