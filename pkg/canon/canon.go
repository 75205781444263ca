// Copyright 2026 Pangea Cyber Corporation
//
// Package canon produces the deterministic byte serialization of event
// records that feeds the hash primitives. Output follows RFC 8785 (JSON
// Canonicalization Scheme): keys sorted, no whitespace, UTF-8, ES6 number
// formatting. Values outside the JSON type set are coerced to their string
// form before serialization.
package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/gowebpki/jcs"

	"github.com/pangeacyber/go-pangea/pkg/errors"
)

// Canonicalize serializes v into canonical JSON bytes suitable for hashing.
// The result is invariant under map insertion order. Fails with a
// CANONICALIZATION_FAILED error if v contains NaN or Infinity.
func Canonicalize(v interface{}) ([]byte, error) {
	norm, err := normalize(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm); err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeCanonicalization, "event is not serializable")
	}
	encoded := bytes.TrimRight(buf.Bytes(), "\n")

	// The transform takes JSON containers; scalar values ride through
	// inside a single-element array.
	scalar := len(encoded) > 0 && encoded[0] != '{' && encoded[0] != '['
	if scalar {
		encoded = append(append([]byte{'['}, encoded...), ']')
	}

	out, err := jcs.Transform(encoded)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeCanonicalization, "canonical transform failed")
	}
	if scalar {
		out = out[1 : len(out)-1]
	}
	return out, nil
}

// normalize walks v and returns a value built only from JSON types,
// rejecting non-finite floats and coercing everything else to a string.
func normalize(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return v, nil
	case float32:
		return normalizeFloat(float64(t))
	case float64:
		return normalizeFloat(t)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := fmt.Sprint(iter.Key().Interface())
			n, err := normalize(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			n, err := normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem().Interface())
	}

	// Non-JSON value types are stringified.
	return fmt.Sprint(v), nil
}

func normalizeFloat(f float64) (interface{}, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.New(errors.ErrorCodeCanonicalization, "NaN and Infinity are not representable")
	}
	if f == 0 {
		// normalizes -0 to 0
		return float64(0), nil
	}
	return f, nil
}
