// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

import "math"

// halfTolerance absorbs binary representation error so that decimal halves
// such as 22.45 (stored as 22.449999...) still round up.
const halfTolerance = 1e-9

// FromTenths converts a raw tenths-of-a-unit integer to its physical value.
func FromTenths(raw int64) float64 {
	return float64(raw) / 10
}

// ToTenths converts a physical value to tenths of a unit for outbound payloads.
//
// Rounding is half away from zero: 22.45 -> 225, 22.44 -> 224, -0.05 -> -1.
// Values already aligned to 0.1 convert exactly.
func ToTenths(v float64) int64 {
	x := v * 10
	if x < 0 {
		return -int64(math.Floor(-x + 0.5 + halfTolerance))
	}
	return int64(math.Floor(x + 0.5 + halfTolerance))
}
