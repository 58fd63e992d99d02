// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

import (
	"errors"
	"fmt"
)

// Decode errors
var (
	ErrMalformedValue = errors.New("malformed value")
	ErrOutOfRange     = errors.New("value out of range")
)

// Transport errors
var (
	ErrAuth       = errors.New("authentication error")
	ErrTimeout    = errors.New("request timed out")
	ErrConnection = errors.New("connection error")
)

// MalformedValueError is returned when a raw value cannot be coerced to the
// field's type. It is returned in both permissive and strict mode.
type MalformedValueError struct {
	Field  string
	Value  interface{}
	Reason string
}

func malformed(field string, value interface{}, reason string) *MalformedValueError {
	return &MalformedValueError{Field: field, Value: value, Reason: reason}
}

// Error implements the error interface
func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("Malformed %s value=%#v (%s)", e.Field, e.Value, e.Reason)
}

// Is matches ErrMalformedValue
func (e *MalformedValueError) Is(target error) bool {
	return target == ErrMalformedValue
}

// APIError is returned for non-2xx responses other than 401/403.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d", e.StatusCode)
}

// authError carries the device's reason while matching ErrAuth.
type authError struct {
	msg string
}

func (e *authError) Error() string { return e.msg }

func (e *authError) Unwrap() error { return ErrAuth }
