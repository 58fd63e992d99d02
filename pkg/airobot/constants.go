// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package airobot provides a Go client for the local REST API of Airobot thermostats.
//
// The device reports telemetry and configuration as flat JSON objects of raw
// integers: temperatures in tenths of a degree, sentinel values for sensors
// that are not attached, and boolean flags wrapped in a one-element list. This
// package translates those records into typed values, validates them against
// the documented ranges, and encodes settings back into the wire form.
package airobot

import (
	"fmt"
	"strings"
	"time"
)

// API endpoints
const (
	APIBasePath          = "/api/thermostat"
	EndpointGetStatuses  = "/getStatuses"
	EndpointGetSettings  = "/getSettings"
	EndpointSetSettings  = "/setSettings"
	DefaultPort          = 80
	DefaultTimeout       = 10 * time.Second
	MinPollInterval      = 30 * time.Second // device updates its readings every 30s
	DefaultRetryWaitTime = 500 * time.Millisecond
)

// Common fields
const (
	FieldDeviceID     = "DEVICE_ID"
	FieldSetpointTemp = "SETPOINT_TEMP"
)

// Status fields (getStatuses)
const (
	FieldHWVersion     = "HW_VERSION"
	FieldFWVersion     = "FW_VERSION"
	FieldTempAir       = "TEMP_AIR"
	FieldTempFloor     = "TEMP_FLOOR"
	FieldHumAir        = "HUM_AIR"
	FieldCO2           = "CO2"
	FieldAQI           = "AQI"
	FieldDeviceUptime  = "DEVICE_UPTIME"
	FieldHeatingUptime = "HEATING_UPTIME"
	FieldErrors        = "ERRORS"
	FieldStatusFlags   = "STATUS_FLAGS"
)

// Settings fields (getSettings / setSettings)
const (
	FieldMode             = "MODE"
	FieldSetpointTempAway = "SETPOINT_TEMP_AWAY"
	FieldHysteresisBand   = "HYSTERESIS_BAND"
	FieldDeviceName       = "DEVICE_NAME"
	FieldSettingFlags     = "SETTING_FLAGS"
)

// Status flag keys
const (
	FlagWindowOpenDetected = "WINDOW_OPEN_DETECTED"
	FlagHeatingOn          = "HEATING_ON"
)

// Setting flag keys
const (
	FlagReboot                   = "REBOOT"
	FlagActuatorExerciseDisabled = "ACTUATOR_EXERCISE_DISABLED"
	FlagRecalibrateCO2           = "RECALIBRATE_CO2"
	FlagChildLockEnabled         = "CHILDLOCK_ENABLED"
	FlagBoostEnabled             = "BOOST_ENABLED"
)

// Sensor-not-attached sentinels
const (
	Int16SensorNotAttached  = 32767 // TEMP_AIR, TEMP_FLOOR
	Uint16SensorNotAttached = 65535 // HUM_AIR, CO2
)

// Status ranges (decoded units)
const (
	TempMin         = -40.0
	TempMax         = 80.0
	HumidityMin     = 0.0
	HumidityMax     = 100.0
	SetpointMin     = 5.0
	SetpointMax     = 35.0
	CO2Min          = 0
	CO2Max          = 10000
	AQIMin          = 0
	AQIMax          = 5
	VersionMin      = 256
	VersionMax      = 999
	UptimeMin       = 0
	UptimeMax       = 4294967295
	NoError         = 0
	NameMinLength   = 1
	NameMaxLength   = 20
	HysteresisMin   = 0.0
	HysteresisMax   = 0.5
	TemperatureStep = 0.1
)

// Settings ranges (raw tenths)
const (
	SetpointRawMin   = 50
	SetpointRawMax   = 350
	HysteresisRawMin = 0
	HysteresisRawMax = 5
)

// Factory defaults (raw tenths)
const (
	DefaultHomeSetpointRaw = 220
	DefaultAwaySetpointRaw = 180
	DefaultHysteresisRaw   = 1
)

// Mode is the thermostat operating mode.
type Mode int

// Operating modes
const (
	ModeHome Mode = 1
	ModeAway Mode = 2
)

// Valid reports whether m is a mode the device accepts.
func (m Mode) Valid() bool {
	return m == ModeHome || m == ModeAway
}

func (m Mode) String() string {
	switch m {
	case ModeHome:
		return "HOME"
	case ModeAway:
		return "AWAY"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(m))
	}
}

// ParseMode parses "home"/"away" (any case) or the numeric wire value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home", "1":
		return ModeHome, nil
	case "away", "2":
		return ModeAway, nil
	}
	return 0, fmt.Errorf("unknown mode %q (use home or away)", s)
}
