// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package values

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"chartfold.dev/chartfold/pkg/orderedmap"
)

// MarshalJSON serializes a value tree compactly, emitting mapping keys in
// insertion order. encoding/json would sort plain map keys, so composite
// nodes are written by hand and only scalars go through the encoder.
func MarshalJSON(val interface{}) ([]byte, error) {
	var buf bytes.Buffer
	err := marshalJSONValue(&buf, val)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalJSONValue(buf *bytes.Buffer, val interface{}) error {
	switch typedVal := val.(type) {
	case *orderedmap.Map:
		buf.WriteByte('{')
		first := true
		err := typedVal.IterateErr(func(k string, v interface{}) error {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			keyBs, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(keyBs)
			buf.WriteByte(':')
			return marshalJSONValue(buf, v)
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil

	case []interface{}:
		buf.WriteByte('[')
		for i, item := range typedVal {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalJSONValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case missingType:
		buf.WriteString("null")
		return nil

	default:
		bs, err := json.Marshal(typedVal)
		if err != nil {
			return err
		}
		buf.Write(bs)
		return nil
	}
}

// UnmarshalJSON decodes JSON into a value tree. JSON objects carry no
// reliable order through the decoder, so keys end up sorted.
func UnmarshalJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return normalizeJSON(orderedmap.Conversion{Object: raw}.FromUnorderedMaps()), nil
}

func normalizeJSON(val interface{}) interface{} {
	switch typedVal := val.(type) {
	case *orderedmap.Map:
		result := orderedmap.NewMap()
		typedVal.Iterate(func(k string, v interface{}) {
			result.Set(k, normalizeJSON(v))
		})
		return result
	case []interface{}:
		for i, item := range typedVal {
			typedVal[i] = normalizeJSON(item)
		}
		return typedVal
	case json.Number:
		if !strings.ContainsAny(typedVal.String(), ".eE") {
			if intVal, err := typedVal.Int64(); err == nil {
				return intVal
			}
		}
		floatVal, err := typedVal.Float64()
		if err != nil {
			return typedVal.String()
		}
		return floatVal
	default:
		return typedVal
	}
}

// Stringify is the string conversion applied to every action result
// before it is written into rendered output. Absent and null values print
// as nothing; composite values print as compact JSON.
func Stringify(val interface{}) string {
	switch typedVal := val.(type) {
	case nil, missingType:
		return ""
	case string:
		return typedVal
	case []interface{}, *orderedmap.Map:
		bs, err := MarshalJSON(typedVal)
		if err != nil {
			return fmt.Sprintf("%v", typedVal)
		}
		return string(bs)
	default:
		return fmt.Sprintf("%v", typedVal)
	}
}
