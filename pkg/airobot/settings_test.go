// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func sampleSettings() Raw {
	return Raw{
		"DEVICE_ID":          "T01TEST123",
		"MODE":               1,
		"SETPOINT_TEMP":      220,
		"SETPOINT_TEMP_AWAY": 180,
		"HYSTERESIS_BAND":    1,
		"DEVICE_NAME":        "Living Room",
		"SETTING_FLAGS": []interface{}{map[string]interface{}{
			"REBOOT":                     0,
			"ACTUATOR_EXERCISE_DISABLED": 0,
			"RECALIBRATE_CO2":            0,
			"CHILDLOCK_ENABLED":          1,
			"BOOST_ENABLED":              0,
		}},
	}
}

// ============================================================
// Decoding
// ============================================================

func TestDecodeSettings(t *testing.T) {
	s, err := DecodeSettings(sampleSettings(), DecodeOptions{Strict: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Settings{
		DeviceID:         "T01TEST123",
		Mode:             ModeHome,
		SetpointTemp:     22.0,
		SetpointTempAway: 18.0,
		HysteresisBand:   0.1,
		DeviceName:       "Living Room",
		Flags:            SettingFlags{ChildLockEnabled: true},
	}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("expected %+v, got %+v", want, s)
	}
	if !s.IsHomeMode() || s.IsAwayMode() {
		t.Errorf("expected HOME mode")
	}
	if s.ActiveSetpoint() != 22.0 {
		t.Errorf("ActiveSetpoint: expected 22.0, got %v", s.ActiveSetpoint())
	}
}

func TestDecodeSettingsAwayMode(t *testing.T) {
	raw := sampleSettings()
	raw["MODE"] = "2"

	s, err := DecodeSettings(raw, DecodeOptions{Strict: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsAwayMode() || s.IsHomeMode() {
		t.Errorf("expected AWAY mode, got %s", s.Mode)
	}
	if s.ActiveSetpoint() != 18.0 {
		t.Errorf("ActiveSetpoint: expected 18.0, got %v", s.ActiveSetpoint())
	}
}

func TestDecodeSettingsFlagsMissing(t *testing.T) {
	raw := sampleSettings()
	delete(raw, "SETTING_FLAGS")

	s, err := DecodeSettings(raw, DecodeOptions{Strict: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Flags != (SettingFlags{}) {
		t.Errorf("expected all flags false, got %+v", s.Flags)
	}
}

// ============================================================
// Validation policy
// ============================================================

func TestDecodeSettingsValidation(t *testing.T) {
	tests := []struct {
		name  string
		patch Raw
		field string
		kind  CheckType
	}{
		{"mode zero", Raw{"MODE": 0}, FieldMode, CheckEnum},
		{"mode three", Raw{"MODE": 3}, FieldMode, CheckEnum},
		{"home setpoint low", Raw{"SETPOINT_TEMP": 49}, FieldSetpointTemp, CheckInterval},
		{"home setpoint high", Raw{"SETPOINT_TEMP": 351}, FieldSetpointTemp, CheckInterval},
		{"away setpoint low", Raw{"SETPOINT_TEMP_AWAY": 10}, FieldSetpointTempAway, CheckInterval},
		{"hysteresis high", Raw{"HYSTERESIS_BAND": 6}, FieldHysteresisBand, CheckInterval},
		{"hysteresis negative", Raw{"HYSTERESIS_BAND": -1}, FieldHysteresisBand, CheckInterval},
		{"empty name", Raw{"DEVICE_NAME": ""}, FieldDeviceName, CheckLength},
		{"long name", Raw{"DEVICE_NAME": strings.Repeat("x", 21)}, FieldDeviceName, CheckLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := sampleSettings()
			for k, v := range tt.patch {
				raw[k] = v
			}

			// Strict: rejected
			s, err := DecodeSettings(raw, DecodeOptions{Strict: true})
			if s != nil {
				t.Errorf("strict: expected no record")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("strict: expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.field || verr.Type != tt.kind {
				t.Errorf("strict: expected %s/%s, got %s/%s", tt.field, tt.kind, verr.Field, verr.Type)
			}
			if !strings.Contains(verr.Error(), tt.field) {
				t.Errorf("strict: expected message naming %s, got %q", tt.field, verr.Error())
			}

			// Permissive: kept, one warning
			var w Warnings
			s, err = DecodeSettings(raw, DecodeOptions{OnWarning: w.Collect})
			if err != nil {
				t.Fatalf("permissive: unexpected error: %v", err)
			}
			if s == nil {
				t.Fatal("permissive: expected a record")
			}
			if len(w) != 1 || w[0].Field != tt.field {
				t.Errorf("permissive: expected one warning for %s, got %v", tt.field, w.Fields())
			}
		})
	}
}

func TestDecodeSettingsKeepsOutOfRangeMode(t *testing.T) {
	raw := sampleSettings()
	raw["MODE"] = 3

	var w Warnings
	s, err := DecodeSettings(raw, DecodeOptions{OnWarning: w.Collect})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Mode != Mode(3) || s.Mode.Valid() {
		t.Errorf("expected invalid mode 3 kept, got %v", s.Mode)
	}
	if s.IsHomeMode() || s.IsAwayMode() {
		t.Errorf("expected neither HOME nor AWAY")
	}
	if !strings.Contains(w[0].Message, "MODE") || !strings.Contains(w[0].Message, "3") {
		t.Errorf("expected warning naming MODE and 3, got %q", w[0].Message)
	}
}

func TestDecodeSettingsNameLengthCountsCharacters(t *testing.T) {
	raw := sampleSettings()
	raw["DEVICE_NAME"] = strings.Repeat("ü", 20) // 40 bytes

	if _, err := DecodeSettings(raw, DecodeOptions{Strict: true}); err != nil {
		t.Errorf("20 characters should be accepted: %v", err)
	}
}

func TestDecodeSettingsStrictOrder(t *testing.T) {
	raw := sampleSettings()
	raw["DEVICE_NAME"] = ""
	raw["HYSTERESIS_BAND"] = 9
	raw["MODE"] = 5

	_, err := DecodeSettings(raw, DecodeOptions{Strict: true})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Field != FieldMode {
		t.Errorf("expected MODE first, got %s", verr.Field)
	}
}

// ============================================================
// Encoding
// ============================================================

func TestSettingsPayload(t *testing.T) {
	s := &Settings{
		DeviceID:         "T01TEST123",
		Mode:             ModeAway,
		SetpointTemp:     23.5,
		SetpointTempAway: 16.5,
		HysteresisBand:   0.3,
		DeviceName:       "Kitchen",
		Flags:            SettingFlags{ChildLockEnabled: true},
	}

	want := Raw{
		"MODE":               2,
		"SETPOINT_TEMP":      235,
		"SETPOINT_TEMP_AWAY": 165,
		"HYSTERESIS_BAND":    3,
		"DEVICE_NAME":        "Kitchen",
		"SETTING_FLAGS": []map[string]int{{
			"REBOOT":                     0,
			"ACTUATOR_EXERCISE_DISABLED": 0,
			"RECALIBRATE_CO2":            0,
			"CHILDLOCK_ENABLED":          1,
			"BOOST_ENABLED":              0,
		}},
	}

	got := s.Payload()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if _, ok := got["DEVICE_ID"]; ok {
		t.Error("payload must not contain DEVICE_ID")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	records := []Settings{
		{Mode: ModeHome, SetpointTemp: 22.0, SetpointTempAway: 18.0, HysteresisBand: 0.1, DeviceName: "Living Room"},
		{Mode: ModeAway, SetpointTemp: 23.5, SetpointTempAway: 16.5, HysteresisBand: 0.3, DeviceName: "Kitchen",
			Flags: SettingFlags{ChildLockEnabled: true}},
		{Mode: ModeHome, SetpointTemp: 5.0, SetpointTempAway: 35.0, HysteresisBand: 0.0, DeviceName: "a",
			Flags: SettingFlags{Reboot: true, ActuatorExerciseDisabled: true, RecalibrateCO2: true, ChildLockEnabled: true, BoostEnabled: true}},
		{Mode: ModeAway, SetpointTemp: 21.7, SetpointTempAway: 12.3, HysteresisBand: 0.5, DeviceName: strings.Repeat("z", 20)},
	}

	for _, want := range records {
		t.Run(want.DeviceName, func(t *testing.T) {
			got, err := DecodeSettings(want.Payload(), DecodeOptions{Strict: true})
			if err != nil {
				t.Fatalf("decode(encode) failed: %v", err)
			}
			if *got != want {
				t.Errorf("decode(encode(s)) != s\nexpected %+v\ngot      %+v", want, *got)
			}
		})
	}
}

func TestSettingsRawRoundTrip(t *testing.T) {
	raw := Raw{
		"MODE":               2,
		"SETPOINT_TEMP":      217,
		"SETPOINT_TEMP_AWAY": 50,
		"HYSTERESIS_BAND":    5,
		"DEVICE_NAME":        "Bedroom",
		"SETTING_FLAGS": []map[string]int{{
			"REBOOT":                     0,
			"ACTUATOR_EXERCISE_DISABLED": 1,
			"RECALIBRATE_CO2":            0,
			"CHILDLOCK_ENABLED":          0,
			"BOOST_ENABLED":              1,
		}},
	}

	s, err := DecodeSettings(raw, DecodeOptions{Strict: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Payload(); !reflect.DeepEqual(got, raw) {
		t.Errorf("encode(decode(raw)) != raw\nexpected %v\ngot      %v", raw, got)
	}

	// DEVICE_ID is dropped on encode
	withID := sampleSettings()
	s, err = DecodeSettings(withID, DecodeOptions{Strict: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload := s.Payload()
	if _, ok := payload["DEVICE_ID"]; ok {
		t.Error("payload must not contain DEVICE_ID")
	}
	if len(payload) != len(withID)-1 {
		t.Errorf("expected %d keys, got %d", len(withID)-1, len(payload))
	}
}
