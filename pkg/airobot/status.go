// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

// Status is a telemetry snapshot from getStatuses.
//
// Pointer fields are nil when the sensor is not attached (or the device did
// not report it). AQI is nil whenever CO2 is nil.
type Status struct {
	DeviceID      string
	HWVersion     int
	FWVersion     int
	TempAir       *float64 // °C
	TempFloor     *float64 // °C
	HumAir        *float64 // %
	SetpointTemp  float64  // °C
	CO2           *int     // ppm
	AQI           *int
	DeviceUptime  int64 // seconds
	HeatingUptime int64 // seconds
	Errors        int
	Flags         StatusFlags
}

// IsHeating reports whether the heating output is active.
func (s *Status) IsHeating() bool { return s.Flags.HeatingOn }

// HasError reports a non-zero device error code.
func (s *Status) HasError() bool { return s.Errors != NoError }

// HasFloorSensor reports whether a floor probe is attached.
func (s *Status) HasFloorSensor() bool { return s.TempFloor != nil }

// HasCO2Sensor reports whether the CO2 sensor is fitted.
func (s *Status) HasCO2Sensor() bool { return s.CO2 != nil }

// statusFields is checked in this order; in strict mode the first failure wins.
var statusFields = []fieldSpec[Status]{
	{name: FieldDeviceID, kind: kindString,
		set: func(s *Status, r reading) { s.DeviceID = r.s }},
	{name: FieldHWVersion, kind: kindInt, check: interval(VersionMin, VersionMax),
		set: func(s *Status, r reading) { s.HWVersion = int(r.i) }},
	{name: FieldFWVersion, kind: kindInt, check: interval(VersionMin, VersionMax),
		set: func(s *Status, r reading) { s.FWVersion = int(r.i) }},
	{name: FieldTempAir, kind: kindTenths, sentinel: Int16SensorNotAttached, check: scaledInterval(TempMin, TempMax),
		set: func(s *Status, r reading) { s.TempAir = floatPtr(r.f) }},
	{name: FieldTempFloor, kind: kindTenths, sentinel: Int16SensorNotAttached, check: scaledInterval(TempMin, TempMax),
		set: func(s *Status, r reading) { s.TempFloor = floatPtr(r.f) }},
	{name: FieldHumAir, kind: kindTenths, sentinel: Uint16SensorNotAttached, check: scaledInterval(HumidityMin, HumidityMax),
		set: func(s *Status, r reading) { s.HumAir = floatPtr(r.f) }},
	{name: FieldSetpointTemp, kind: kindTenths, check: scaledInterval(SetpointMin, SetpointMax),
		set: func(s *Status, r reading) { s.SetpointTemp = r.f }},
	{name: FieldCO2, kind: kindInt, sentinel: Uint16SensorNotAttached, check: interval(CO2Min, CO2Max),
		set: func(s *Status, r reading) { s.CO2 = intPtr(int(r.i)) }},
	{name: FieldAQI, kind: kindInt, requires: FieldCO2, check: interval(AQIMin, AQIMax),
		set: func(s *Status, r reading) { s.AQI = intPtr(int(r.i)) }},
	{name: FieldDeviceUptime, kind: kindInt, check: interval(UptimeMin, UptimeMax),
		set: func(s *Status, r reading) { s.DeviceUptime = r.i }},
	{name: FieldHeatingUptime, kind: kindInt, check: interval(UptimeMin, UptimeMax),
		set: func(s *Status, r reading) { s.HeatingUptime = r.i }},
	{name: FieldErrors, kind: kindInt,
		set: func(s *Status, r reading) { s.Errors = int(r.i) }},
}

// DecodeStatus builds a Status from a getStatuses record.
//
// Malformed values always fail. Out-of-range values fail in strict mode and
// are reported through opts otherwise. No partial record is returned.
func DecodeStatus(raw Raw, opts DecodeOptions) (*Status, error) {
	s := &Status{}
	if err := decodeFields(raw, statusFields, opts, s); err != nil {
		return nil, err
	}

	flags, err := DecodeStatusFlags(raw[FieldStatusFlags])
	if err != nil {
		return nil, err
	}
	s.Flags = flags

	return s, nil
}
