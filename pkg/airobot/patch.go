// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

import (
	"fmt"
	"unicode/utf8"
)

// Patch builder functions create single-key setSettings payloads.
// Inputs are validated strictly: a rejected value is never sent to the device.

// ModePatch creates a MODE update.
func ModePatch(mode Mode) (Raw, error) {
	if !mode.Valid() {
		return nil, &ValidationError{
			Type:     CheckEnum,
			Field:    FieldMode,
			Value:    int64(mode),
			Expected: "{1=HOME, 2=AWAY}",
			Message:  "Mode must be between 1 and 2",
		}
	}
	return Raw{FieldMode: int(mode)}, nil
}

// HomeTemperaturePatch creates a SETPOINT_TEMP update. The temperature is
// rounded to tenths of a degree (see ToTenths) before it is checked.
func HomeTemperaturePatch(celsius float64) (Raw, error) {
	raw, err := setpointRaw(FieldSetpointTemp, "HOME", celsius)
	if err != nil {
		return nil, err
	}
	return Raw{FieldSetpointTemp: raw}, nil
}

// AwayTemperaturePatch creates a SETPOINT_TEMP_AWAY update.
func AwayTemperaturePatch(celsius float64) (Raw, error) {
	raw, err := setpointRaw(FieldSetpointTempAway, "AWAY", celsius)
	if err != nil {
		return nil, err
	}
	return Raw{FieldSetpointTempAway: raw}, nil
}

func setpointRaw(field, label string, celsius float64) (int, error) {
	raw := ToTenths(celsius)
	if raw < SetpointRawMin || raw > SetpointRawMax {
		return 0, &ValidationError{
			Type:     CheckInterval,
			Field:    field,
			Value:    celsius,
			Expected: fmt.Sprintf("[%.1f, %.1f]", SetpointMin, SetpointMax),
			Message: fmt.Sprintf("%s temperature must be between %.1f°C and %.1f°C",
				label, SetpointMin, SetpointMax),
		}
	}
	return int(raw), nil
}

// HysteresisBandPatch creates a HYSTERESIS_BAND update.
func HysteresisBandPatch(celsius float64) (Raw, error) {
	raw := ToTenths(celsius)
	if raw < HysteresisRawMin || raw > HysteresisRawMax {
		return nil, &ValidationError{
			Type:     CheckInterval,
			Field:    FieldHysteresisBand,
			Value:    celsius,
			Expected: fmt.Sprintf("[%.1f, %.1f]", HysteresisMin, HysteresisMax),
			Message: fmt.Sprintf("Hysteresis band must be between %.1f°C and %.1f°C",
				HysteresisMin, HysteresisMax),
		}
	}
	return Raw{FieldHysteresisBand: int(raw)}, nil
}

// DeviceNamePatch creates a DEVICE_NAME update.
func DeviceNamePatch(name string) (Raw, error) {
	n := utf8.RuneCountInString(name)
	if n < NameMinLength || n > NameMaxLength {
		return nil, &ValidationError{
			Type:     CheckLength,
			Field:    FieldDeviceName,
			Value:    name,
			Expected: fmt.Sprintf("[%d, %d]", NameMinLength, NameMaxLength),
			Message: fmt.Sprintf("Device name length must be between %d and %d characters",
				NameMinLength, NameMaxLength),
		}
	}
	return Raw{FieldDeviceName: name}, nil
}

// ChildLockPatch enables or disables the child lock.
func ChildLockPatch(enabled bool) Raw {
	return Raw{FlagChildLockEnabled: boolToInt(enabled)}
}

// BoostPatch enables or disables boost mode.
func BoostPatch(enabled bool) Raw {
	return Raw{FlagBoostEnabled: boolToInt(enabled)}
}

// ActuatorExercisePatch sets ACTUATOR_EXERCISE_DISABLED.
// Pass true to disable the periodic valve exercise.
func ActuatorExercisePatch(disabled bool) Raw {
	return Raw{FlagActuatorExerciseDisabled: boolToInt(disabled)}
}

// RebootPatch requests a device restart.
func RebootPatch() Raw {
	return Raw{FlagReboot: 1}
}

// RecalibrateCO2Patch requests a CO2 sensor recalibration.
func RecalibrateCO2Patch() Raw {
	return Raw{FlagRecalibrateCO2: 1}
}
