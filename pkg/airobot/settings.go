// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

// Settings is the writable configuration from getSettings.
type Settings struct {
	DeviceID         string // read-only, never encoded
	Mode             Mode
	SetpointTemp     float64 // HOME setpoint, °C
	SetpointTempAway float64 // °C
	HysteresisBand   float64 // °C
	DeviceName       string
	Flags            SettingFlags
}

// IsHomeMode reports whether the thermostat is in HOME mode.
func (s *Settings) IsHomeMode() bool { return s.Mode == ModeHome }

// IsAwayMode reports whether the thermostat is in AWAY mode.
func (s *Settings) IsAwayMode() bool { return s.Mode == ModeAway }

// ActiveSetpoint returns the setpoint the current mode regulates to.
func (s *Settings) ActiveSetpoint() float64 {
	if s.IsAwayMode() {
		return s.SetpointTempAway
	}
	return s.SetpointTemp
}

// settingsFields are range-checked in raw tenths, in this order.
var settingsFields = []fieldSpec[Settings]{
	{name: FieldDeviceID, kind: kindString,
		set: func(s *Settings, r reading) { s.DeviceID = r.s }},
	{name: FieldMode, kind: kindInt, check: enum("{1=HOME, 2=AWAY}", int64(ModeHome), int64(ModeAway)),
		set: func(s *Settings, r reading) { s.Mode = Mode(r.i) }},
	{name: FieldSetpointTemp, kind: kindTenths, check: interval(SetpointRawMin, SetpointRawMax),
		set: func(s *Settings, r reading) { s.SetpointTemp = r.f }},
	{name: FieldSetpointTempAway, kind: kindTenths, check: interval(SetpointRawMin, SetpointRawMax),
		set: func(s *Settings, r reading) { s.SetpointTempAway = r.f }},
	{name: FieldHysteresisBand, kind: kindTenths, check: interval(HysteresisRawMin, HysteresisRawMax),
		set: func(s *Settings, r reading) { s.HysteresisBand = r.f }},
	{name: FieldDeviceName, kind: kindString, check: length(NameMinLength, NameMaxLength),
		set: func(s *Settings, r reading) { s.DeviceName = r.s }},
}

// DecodeSettings builds Settings from a getSettings record.
// See DecodeStatus for the error policy.
func DecodeSettings(raw Raw, opts DecodeOptions) (*Settings, error) {
	s := &Settings{}
	if err := decodeFields(raw, settingsFields, opts, s); err != nil {
		return nil, err
	}

	flags, err := DecodeSettingFlags(raw[FieldSettingFlags])
	if err != nil {
		return nil, err
	}
	s.Flags = flags

	return s, nil
}

// Payload encodes every writable field for setSettings.
// DEVICE_ID is never included. Values are not range-checked here;
// SetSettings rejects a payload whose raw values are out of range.
func (s *Settings) Payload() Raw {
	return Raw{
		FieldMode:             int(s.Mode),
		FieldSetpointTemp:     int(ToTenths(s.SetpointTemp)),
		FieldSetpointTempAway: int(ToTenths(s.SetpointTempAway)),
		FieldHysteresisBand:   int(ToTenths(s.HysteresisBand)),
		FieldDeviceName:       s.DeviceName,
		FieldSettingFlags:     s.Flags.Encode(),
	}
}
