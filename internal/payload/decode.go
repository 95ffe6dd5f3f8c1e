package payload

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// ErrNotObject is returned when the document is valid JSON but its top
// level value is not an object.
var ErrNotObject = errors.New("top level value is not an object")

// Decode parses a JSON document whose top level value is an object.
func Decode(data []byte) (*Object, error) {
	if !json.Valid(data) {
		// Let encoding/json produce a positioned syntax error.
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("invalid JSON")
	}
	_, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, err
	}
	if typ != jsonparser.Object {
		return nil, ErrNotObject
	}
	return decodeObject(data)
}

func decodeObject(data []byte) (*Object, error) {
	obj := NewObject()
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, typ jsonparser.ValueType, _ int) error {
		k, err := jsonparser.ParseString(key)
		if err != nil {
			return fmt.Errorf("decoding key %q: %w", key, err)
		}
		v, err := decodeValue(value, typ)
		if err != nil {
			return fmt.Errorf("decoding %q: %w", k, err)
		}
		obj.Set(k, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeValue(value []byte, typ jsonparser.ValueType) (any, error) {
	switch typ {
	case jsonparser.String:
		return jsonparser.ParseString(value)
	case jsonparser.Number:
		return json.Number(string(value)), nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(value)
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Object:
		return decodeObject(value)
	case jsonparser.Array:
		return decodeArray(value)
	default:
		return nil, fmt.Errorf("unexpected value type %s", typ)
	}
}

func decodeArray(data []byte) ([]any, error) {
	out := []any{}
	var firstErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if firstErr != nil {
			return
		}
		if err != nil {
			firstErr = err
			return
		}
		v, err := decodeValue(value, typ)
		if err != nil {
			firstErr = err
			return
		}
		out = append(out, v)
	})
	if err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
