// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"fmt"
	"time"
)

type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindDateTime
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindDateTime:
		return "DateTime"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	default:
		panic(fmt.Sprintf("unknown value kind %d", uint8(k)))
	}
}

// Value is the zero-value Nil.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	t     time.Time
	items []Value
	obj   *Object
}

var Nil = Value{}

func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

func NewInt(i int64) Value { return Value{kind: KindInteger, i: i} }

func NewFloat(f float64) Value { return Value{kind: KindFloat, f: f} }

func NewString(s string) Value { return Value{kind: KindString, s: s} }

func NewDateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// NewArray copies items into a new Array value.
func NewArray(items []Value) Value {
	return Value{kind: KindArray, items: append([]Value{}, items...)}
}

// NewObject wraps obj; obj must not be modified afterwards.
func NewObject(obj *Object) Value {
	if obj == nil {
		obj = NewEmptyObject()
	}
	return Value{kind: KindObject, obj: obj}
}

// newArrayOwned takes ownership of items without copying.
func newArrayOwned(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInteger }

func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

func (v Value) AsDateTime() (time.Time, bool) { return v.t, v.kind == KindDateTime }

// AsArray returns a copy of the items of an Array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return append([]Value{}, v.items...), true
}

// AsObject returns a copy of an Object; modifying it leaves v unchanged.
func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj.Copy(), true
}

// Truthy reports whether v counts as true in conditionals.
// Only Nil and Bool(false) are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.b
	default:
		return true
	}
}

// Len is the number of elements of an Array or Object, the byte length of a
// String, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindString:
		return len(v.s)
	case KindArray:
		return len(v.items)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Index returns the i-th Array element; negative i counts from the end.
func (v Value) Index(i int64) (Value, bool) {
	if v.kind != KindArray {
		return Nil, false
	}
	if i < 0 {
		i += int64(len(v.items))
	}
	if i < 0 || i >= int64(len(v.items)) {
		return Nil, false
	}
	return v.items[i], true
}

// Field returns the Object entry under key.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindObject {
		return Nil, false
	}
	return v.obj.Get(key)
}

// Append returns a new Array with vals added; v is left untouched.
func (v Value) Append(vals ...Value) Value {
	items := make([]Value, 0, len(v.items)+len(vals))
	items = append(items, v.items...)
	items = append(items, vals...)
	return newArrayOwned(items)
}

// With returns a new Object with key set to val; v is left untouched.
func (v Value) With(key string, val Value) Value {
	var obj *Object
	if v.kind == KindObject {
		obj = v.obj.Copy()
	} else {
		obj = NewEmptyObject()
	}
	obj.Set(key, val)
	return NewObject(obj)
}
