// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

import (
	"fmt"
	"sort"
	"strings"
)

// FormatStatus formats a status record into a human-readable string
func FormatStatus(s *Status) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Device: %s (HW %d, FW %d)\n", s.DeviceID, s.HWVersion, s.FWVersion)
	fmt.Fprintf(&b, "  Air Temperature: %s\n", formatOptionalFloat(s.TempAir, "°C"))
	fmt.Fprintf(&b, "  Floor Temperature: %s\n", formatOptionalFloat(s.TempFloor, "°C"))
	fmt.Fprintf(&b, "  Humidity: %s\n", formatOptionalFloat(s.HumAir, "%"))
	fmt.Fprintf(&b, "  Setpoint: %.1f°C\n", s.SetpointTemp)
	fmt.Fprintf(&b, "  CO2: %s, AQI: %s\n", formatOptionalInt(s.CO2, " ppm"), formatOptionalInt(s.AQI, ""))
	fmt.Fprintf(&b, "  Heating: %s, Window Open: %s\n", formatBool(s.Flags.HeatingOn), formatBool(s.Flags.WindowOpenDetected))
	fmt.Fprintf(&b, "  Uptime: %s (heating %s)\n", FormatUptime(s.DeviceUptime), FormatUptime(s.HeatingUptime))

	errStr := "None"
	if s.HasError() {
		errStr = fmt.Sprintf("0x%02X", s.Errors)
	}
	fmt.Fprintf(&b, "  Errors: %s\n", errStr)

	return b.String()
}

// FormatSettings formats a settings record into a human-readable string
func FormatSettings(s *Settings) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Device: %s (%q)\n", s.DeviceID, s.DeviceName)
	fmt.Fprintf(&b, "  Mode: %s (%d)\n", s.Mode, int(s.Mode))
	fmt.Fprintf(&b, "  Home Setpoint: %.1f°C, Away Setpoint: %.1f°C\n", s.SetpointTemp, s.SetpointTempAway)
	fmt.Fprintf(&b, "  Hysteresis: %.1f°C\n", s.HysteresisBand)
	fmt.Fprintf(&b, "  Child Lock: %s, Boost: %s, Actuator Exercise: %s\n",
		formatBool(s.Flags.ChildLockEnabled), formatBool(s.Flags.BoostEnabled), formatBool(!s.Flags.ActuatorExerciseDisabled))
	if s.Flags.Reboot || s.Flags.RecalibrateCO2 {
		fmt.Fprintf(&b, "  Pending: reboot=%s, recalibrate CO2=%s\n", formatBool(s.Flags.Reboot), formatBool(s.Flags.RecalibrateCO2))
	}

	return b.String()
}

// FormatRaw formats an undecoded record with sorted keys, one per line
func FormatRaw(r Raw) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %v\n", k, r[k])
	}
	return b.String()
}

// FormatUptime formats seconds as "1 day, 2 hours, and 3 seconds".
func FormatUptime(seconds int64) string {
	if seconds <= 0 {
		return "0 seconds"
	}

	const (
		secondsPerMinute = 60
		secondsPerHour   = 60 * secondsPerMinute
		secondsPerDay    = 24 * secondsPerHour
		secondsPerYear   = 365 * secondsPerDay
	)

	units := []struct {
		size int64
		name string
	}{
		{secondsPerYear, "year"},
		{secondsPerDay, "day"},
		{secondsPerHour, "hour"},
		{secondsPerMinute, "minute"},
		{1, "second"},
	}

	parts := []string{}
	for _, u := range units {
		n := seconds / u.size
		seconds %= u.size
		switch {
		case n == 1:
			parts = append(parts, "1 "+u.name)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %ss", n, u.name))
		}
	}

	// Join parts with commas and "and"
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		last := parts[len(parts)-1]
		rest := parts[:len(parts)-1]
		return strings.Join(rest, ", ") + ", and " + last
	}
}

func formatOptionalFloat(v *float64, unit string) string {
	if v == nil {
		return "not attached"
	}
	return fmt.Sprintf("%.1f%s", *v, unit)
}

func formatOptionalInt(v *int, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d%s", *v, unit)
}

func formatBool(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}
