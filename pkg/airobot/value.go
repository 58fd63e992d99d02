// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Raw is a record as delivered by the device: wire field name to raw value.
//
// Values are integers (any Go integer type, json.Number, or an integral
// float64), numeric strings from lenient firmware, plain strings, or the
// one-element flag list.
type Raw map[string]interface{}

// DecodeRaw parses a JSON object from the device, keeping numbers exact.
func DecodeRaw(data []byte) (Raw, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty JSON payload")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw Raw
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("expected JSON object, got null")
	}
	return raw, nil
}

// Map value extraction helpers

// GetInt extracts an integer field, coercing numeric strings.
// Returns false if the key is missing or the value is not an integer.
func GetInt(r Raw, key string) (int64, bool) {
	v, ok := r[key]
	if !ok {
		return 0, false
	}
	n, err := coerceInt(key, v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// GetString extracts a string field.
func GetString(r Raw, key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, err := coerceString(key, v)
	if err != nil {
		return "", false
	}
	return s, true
}

// coerceInt converts a raw wire value to an integer.
func coerceInt(field string, v interface{}) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case uint:
		return uintToInt(field, v, uint64(val))
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		return uintToInt(field, v, val)
	case float32:
		return floatToInt(field, v, float64(val))
	case float64:
		return floatToInt(field, v, val)
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n, nil
		}
		f, err := val.Float64()
		if err != nil {
			return 0, malformed(field, v, "not a number")
		}
		return floatToInt(field, v, f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, malformed(field, v, "not an integer string")
		}
		return n, nil
	case nil:
		return 0, malformed(field, v, "null where a number is required")
	}
	return 0, malformed(field, v, fmt.Sprintf("unsupported type %T", v))
}

func uintToInt(field string, orig interface{}, u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, malformed(field, orig, "integer overflow")
	}
	return int64(u), nil
}

func floatToInt(field string, orig interface{}, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, malformed(field, orig, "not an integer")
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, malformed(field, orig, "integer overflow")
	}
	return int64(f), nil
}

// coerceString converts a raw wire value to a string.
func coerceString(field string, v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	}
	return "", malformed(field, v, fmt.Sprintf("expected string, got %T", v))
}
