// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

var _ json.Marshaler = Value{}

// MarshalJSON encodes v keeping Object key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNil:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindInteger:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		bs, err := json.Marshal(v.f)
		if err != nil {
			return err
		}
		buf.Write(bs)
	case KindString:
		return writeJSONString(buf, v.s)
	case KindDateTime:
		return writeJSONString(buf, v.t.Format(time.RFC3339))
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		first := true
		err := v.obj.entries.IterateErr(func(key string, val Value) error {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeJSONString(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			return val.writeJSON(buf)
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	bs, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(bs)
	return nil
}
