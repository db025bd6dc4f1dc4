// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"carvel.dev/liquid/pkg/orderedmap"
)

// GoValue converts plain Go data (as produced by YAML, JSON or TOML
// decoders) into Values.
type GoValue struct {
	val interface{}
}

func NewGoValue(val interface{}) GoValue {
	return GoValue{val}
}

func (e GoValue) AsValue() (Value, error) {
	return e.asValue(e.val)
}

// AsObject converts a top-level mapping; other kinds are rejected.
func (e GoValue) AsObject() (*Object, error) {
	val, err := e.asValue(e.val)
	if err != nil {
		return nil, err
	}
	if val.IsNil() {
		return NewEmptyObject(), nil
	}
	if val.Kind() != KindObject {
		return nil, fmt.Errorf("Expected top-level value to be a mapping, but was %s", val.Kind())
	}
	return val.obj, nil
}

func (e GoValue) asValue(val interface{}) (Value, error) {
	switch typedVal := val.(type) {
	case nil:
		return Nil, nil
	case Value:
		return typedVal, nil
	case *Object:
		return NewObject(typedVal), nil
	case bool:
		return NewBool(typedVal), nil
	case string:
		return NewString(typedVal), nil
	case int:
		return NewInt(int64(typedVal)), nil
	case int8:
		return NewInt(int64(typedVal)), nil
	case int16:
		return NewInt(int64(typedVal)), nil
	case int32:
		return NewInt(int64(typedVal)), nil
	case int64:
		return NewInt(typedVal), nil
	case uint:
		return e.uintValue(uint64(typedVal))
	case uint8:
		return NewInt(int64(typedVal)), nil
	case uint16:
		return NewInt(int64(typedVal)), nil
	case uint32:
		return NewInt(int64(typedVal)), nil
	case uint64:
		return e.uintValue(typedVal)
	case float32:
		return NewFloat(float64(typedVal)), nil
	case float64:
		return NewFloat(typedVal), nil
	case time.Time:
		return NewDateTime(typedVal), nil
	case []Value:
		return NewArray(typedVal), nil
	case []interface{}:
		items := make([]Value, len(typedVal))
		for i, item := range typedVal {
			itemVal, err := e.asValue(item)
			if err != nil {
				return Nil, err
			}
			items[i] = itemVal
		}
		return newArrayOwned(items), nil
	case *orderedmap.Map[interface{}]:
		obj := NewEmptyObject()
		err := typedVal.IterateErr(func(k string, v interface{}) error {
			itemVal, err := e.asValue(v)
			if err != nil {
				return err
			}
			obj.Set(k, itemVal)
			return nil
		})
		if err != nil {
			return Nil, err
		}
		return NewObject(obj), nil
	case map[string]interface{}, map[interface{}]interface{}:
		return e.asValue(orderedmap.Conversion{Object: typedVal}.FromUnorderedMaps())
	default:
		return e.reflectValue(val)
	}
}

func (GoValue) uintValue(u uint64) (Value, error) {
	if u > 1<<63-1 {
		return NewFloat(float64(u)), nil
	}
	return NewInt(int64(u)), nil
}

// reflectValue handles typed slices and maps (e.g. []string, map[string]int).
func (e GoValue) reflectValue(val interface{}) (Value, error) {
	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			itemVal, err := e.asValue(rv.Index(i).Interface())
			if err != nil {
				return Nil, err
			}
			items[i] = itemVal
		}
		return newArrayOwned(items), nil

	case reflect.Map:
		m := map[string]interface{}{}
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprintf("%v", iter.Key().Interface())] = iter.Value().Interface()
		}
		return e.asValue(m)

	case reflect.Pointer:
		if rv.IsNil() {
			return Nil, nil
		}
		return e.asValue(rv.Elem().Interface())

	default:
		return Nil, fmt.Errorf("Unknown type %T for conversion to template value", val)
	}
}

// AsGoValue converts v into plain Go data; Objects become
// *orderedmap.Map[interface{}] so that key order survives.
func (v Value) AsGoValue() interface{} {
	switch v.kind {
	case KindNil:
		return nil
	case KindBool:
		return v.b
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindDateTime:
		return v.t
	case KindArray:
		result := make([]interface{}, len(v.items))
		for i, item := range v.items {
			result[i] = item.AsGoValue()
		}
		return result
	case KindObject:
		result := orderedmap.NewMap[interface{}]()
		v.obj.Iterate(func(key string, val Value) {
			result.Set(key, val.AsGoValue())
		})
		return result
	default:
		panic(fmt.Sprintf("unknown value kind %s", v.kind))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
