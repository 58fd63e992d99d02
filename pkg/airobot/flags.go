// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

import "fmt"

// StatusFlags are the boolean status indicators (STATUS_FLAGS).
type StatusFlags struct {
	WindowOpenDetected bool
	HeatingOn          bool
}

// SettingFlags are the writable boolean settings (SETTING_FLAGS).
type SettingFlags struct {
	Reboot                   bool
	ActuatorExerciseDisabled bool
	RecalibrateCO2           bool
	ChildLockEnabled         bool
	BoostEnabled             bool
}

// Encode returns the wire form: a one-element list of 0/1 values.
func (f StatusFlags) Encode() []map[string]int {
	return []map[string]int{{
		FlagWindowOpenDetected: boolToInt(f.WindowOpenDetected),
		FlagHeatingOn:          boolToInt(f.HeatingOn),
	}}
}

// Encode returns the wire form: a one-element list of 0/1 values.
func (f SettingFlags) Encode() []map[string]int {
	return []map[string]int{{
		FlagReboot:                   boolToInt(f.Reboot),
		FlagActuatorExerciseDisabled: boolToInt(f.ActuatorExerciseDisabled),
		FlagRecalibrateCO2:           boolToInt(f.RecalibrateCO2),
		FlagChildLockEnabled:         boolToInt(f.ChildLockEnabled),
		FlagBoostEnabled:             boolToInt(f.BoostEnabled),
	}}
}

// DecodeStatusFlags decodes a STATUS_FLAGS value. A missing (nil) or empty
// list, or a value that is not a list, yields all flags false.
func DecodeStatusFlags(v interface{}) (StatusFlags, error) {
	var f StatusFlags
	m := flagRecord(v)
	if m == nil {
		return f, nil
	}

	var err error
	if f.WindowOpenDetected, err = flagBit(FieldStatusFlags, m, FlagWindowOpenDetected); err != nil {
		return StatusFlags{}, err
	}
	if f.HeatingOn, err = flagBit(FieldStatusFlags, m, FlagHeatingOn); err != nil {
		return StatusFlags{}, err
	}
	return f, nil
}

// DecodeSettingFlags decodes a SETTING_FLAGS value, see DecodeStatusFlags.
func DecodeSettingFlags(v interface{}) (SettingFlags, error) {
	var f SettingFlags
	m := flagRecord(v)
	if m == nil {
		return f, nil
	}

	bits := []struct {
		key string
		dst *bool
	}{
		{FlagReboot, &f.Reboot},
		{FlagActuatorExerciseDisabled, &f.ActuatorExerciseDisabled},
		{FlagRecalibrateCO2, &f.RecalibrateCO2},
		{FlagChildLockEnabled, &f.ChildLockEnabled},
		{FlagBoostEnabled, &f.BoostEnabled},
	}
	for _, b := range bits {
		on, err := flagBit(FieldSettingFlags, m, b.key)
		if err != nil {
			return SettingFlags{}, err
		}
		*b.dst = on
	}
	return f, nil
}

// flagRecord unwraps the first mapping of a flags list.
// Returns nil when there is nothing to decode.
func flagRecord(v interface{}) map[string]interface{} {
	switch list := v.(type) {
	case []interface{}:
		if len(list) > 0 {
			return flagMapping(list[0])
		}
	case []map[string]interface{}:
		if len(list) > 0 {
			return list[0]
		}
	case []Raw:
		if len(list) > 0 {
			return list[0]
		}
	case []map[string]int:
		if len(list) > 0 {
			return flagMapping(list[0])
		}
	}
	return nil
}

// flagMapping normalizes the mapping shapes JSON and CBOR decoding produce.
func flagMapping(v interface{}) map[string]interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		return m
	case Raw:
		return m
	case map[string]int:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			if key, ok := k.(string); ok {
				out[key] = val
			}
		}
		return out
	}
	return nil
}

func flagBit(field string, m map[string]interface{}, key string) (bool, error) {
	v, ok := m[key]
	if !ok {
		return false, nil
	}
	if b, ok := v.(bool); ok {
		return b, nil
	}
	n, err := coerceInt(fmt.Sprintf("%s.%s", field, key), v)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
