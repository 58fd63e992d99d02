// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

// valueKind is the wire representation of a field
type valueKind int

const (
	kindInt    valueKind = iota // plain integer
	kindTenths                  // integer in tenths of a unit, decoded /10
	kindString
)

// reading is a decoded field value
type reading struct {
	i int64   // raw integer (kindInt, kindTenths)
	f float64 // scaled value (kindTenths)
	s string  // kindString
}

// fieldSpec is one row of a record's field table.
type fieldSpec[T any] struct {
	name     string
	kind     valueKind
	sentinel int64  // raw value meaning "sensor not attached", 0 for none
	requires string // field that must be present for this one to be meaningful
	check    *rangeCheck
	set      func(*T, reading)
}

// decodeFields runs the field table over raw in table order.
//
// A missing key leaves the destination's zero value. A sentinel leaves it
// absent. Range failures are reported through opts; the first one aborts
// decoding in strict mode.
func decodeFields[T any](raw Raw, table []fieldSpec[T], opts DecodeOptions, dst *T) error {
	available := make(map[string]bool, len(table))

	for _, f := range table {
		if f.requires != "" && !available[f.requires] {
			continue
		}

		v, ok := raw[f.name]
		if !ok {
			continue
		}

		rd, present, err := readField(f.name, f.kind, f.sentinel, v)
		if err != nil {
			return err
		}
		if !present {
			continue
		}
		available[f.name] = true

		if verr := f.check.validate(f.name, rd); verr != nil {
			if err := opts.report(verr); err != nil {
				return err
			}
		}

		f.set(dst, rd)
	}

	return nil
}

// readField coerces a raw value. present is false when the value is the
// field's sentinel; the sentinel is checked before scaling.
func readField(name string, kind valueKind, sentinel int64, v interface{}) (reading, bool, error) {
	if kind == kindString {
		s, err := coerceString(name, v)
		if err != nil {
			return reading{}, false, err
		}
		return reading{s: s}, true, nil
	}

	n, err := coerceInt(name, v)
	if err != nil {
		return reading{}, false, err
	}
	if sentinel != 0 && n == sentinel {
		return reading{}, false, nil
	}

	rd := reading{i: n}
	if kind == kindTenths {
		rd.f = FromTenths(n)
	}
	return rd, true, nil
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
