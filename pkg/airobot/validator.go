// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CheckType identifies how a field's range is expressed
type CheckType int

const (
	CheckInterval CheckType = iota // inclusive [min, max]
	CheckLength                    // character count of a string
	CheckEnum                      // closed set of values
)

func (c CheckType) String() string {
	switch c {
	case CheckInterval:
		return "interval"
	case CheckLength:
		return "length"
	case CheckEnum:
		return "enum"
	}
	return fmt.Sprintf("CheckType(%d)", int(c))
}

// ValidationError describes a field whose value is outside its expected range.
//
// In strict mode it is returned from decode. In permissive mode it is handed
// to DecodeOptions.OnWarning and the value is kept.
type ValidationError struct {
	Type     CheckType
	Field    string
	Value    interface{}
	Expected string
	Message  string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// Is matches ErrOutOfRange
func (v *ValidationError) Is(target error) bool {
	return target == ErrOutOfRange
}

// WarningFunc receives permissive-mode range warnings.
type WarningFunc func(ValidationError)

// DecodeOptions selects the validation policy for DecodeStatus and DecodeSettings.
type DecodeOptions struct {
	// Strict rejects the first out-of-range field instead of warning.
	Strict bool

	// OnWarning receives permissive-mode warnings. When nil, warnings are
	// logged through the global zap logger.
	OnWarning WarningFunc
}

func (o DecodeOptions) warn(v ValidationError) {
	if o.OnWarning != nil {
		o.OnWarning(v)
		return
	}
	LogWarning(zap.L(), v)
}

// report applies the policy to a failed check.
func (o DecodeOptions) report(v *ValidationError) error {
	if o.Strict {
		return v
	}
	o.warn(*v)
	return nil
}

// LogWarning writes a range warning to logger.
func LogWarning(logger *zap.Logger, v ValidationError) {
	logger.Warn(v.Message,
		zap.String("field", v.Field),
		zap.Any("value", v.Value),
		zap.String("expected", v.Expected),
	)
}

// Warnings accumulates permissive-mode warnings.
//
//	var w airobot.Warnings
//	status, err := airobot.DecodeStatus(raw, airobot.DecodeOptions{OnWarning: w.Collect})
type Warnings []ValidationError

// Collect appends v. Use the method value as a WarningFunc.
func (w *Warnings) Collect(v ValidationError) {
	*w = append(*w, v)
}

// Fields lists the offending field names in the order they were reported.
func (w Warnings) Fields() []string {
	fields := make([]string, 0, len(w))
	for _, v := range w {
		fields = append(fields, v.Field)
	}
	return fields
}

// rangeCheck is a declared valid range for one field.
type rangeCheck struct {
	kind     CheckType
	min, max float64
	scaled   bool    // compare the decoded value instead of the raw integer
	allowed  []int64 // CheckEnum
	label    string  // CheckEnum description
}

func interval(min, max float64) *rangeCheck {
	return &rangeCheck{kind: CheckInterval, min: min, max: max}
}

func scaledInterval(min, max float64) *rangeCheck {
	return &rangeCheck{kind: CheckInterval, min: min, max: max, scaled: true}
}

func length(min, max int) *rangeCheck {
	return &rangeCheck{kind: CheckLength, min: float64(min), max: float64(max)}
}

func enum(label string, allowed ...int64) *rangeCheck {
	return &rangeCheck{kind: CheckEnum, allowed: allowed, label: label}
}

// expected renders the range for messages
func (c *rangeCheck) expected() string {
	switch c.kind {
	case CheckEnum:
		return c.label
	case CheckInterval:
		if c.scaled {
			return fmt.Sprintf("[%.1f, %.1f]", c.min, c.max)
		}
	}
	return fmt.Sprintf("[%.0f, %.0f]", c.min, c.max)
}

// validate returns nil if the reading is inside the range.
func (c *rangeCheck) validate(field string, rd reading) *ValidationError {
	if c == nil {
		return nil
	}

	var value interface{}
	ok := true

	switch c.kind {
	case CheckInterval:
		if c.scaled {
			value = rd.f
			ok = rd.f >= c.min && rd.f <= c.max
		} else {
			value = rd.i
			n := float64(rd.i)
			ok = n >= c.min && n <= c.max
		}
	case CheckLength:
		n := len([]rune(rd.s))
		value = rd.s
		ok = float64(n) >= c.min && float64(n) <= c.max
		if !ok {
			return &ValidationError{
				Type:     CheckLength,
				Field:    field,
				Value:    rd.s,
				Expected: c.expected(),
				Message: fmt.Sprintf("%s length=%d (value=%q) outside expected range %s",
					field, n, rd.s, c.expected()),
			}
		}
	case CheckEnum:
		value = rd.i
		ok = false
		for _, a := range c.allowed {
			if rd.i == a {
				ok = true
				break
			}
		}
	}

	if ok {
		return nil
	}
	return &ValidationError{
		Type:     c.kind,
		Field:    field,
		Value:    value,
		Expected: c.expected(),
		Message:  fmt.Sprintf("%s value=%v outside expected range %s", field, value, c.expected()),
	}
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(w []ValidationError) string {
	var b strings.Builder
	for i, v := range w {
		fmt.Fprintf(&b, "Issue %d: %s\n", i+1, v.Message)
	}
	return b.String()
}
