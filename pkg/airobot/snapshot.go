// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot is a captured pair of raw device records, stored as CBOR so the
// decoders can be re-run offline against real device output.
type Snapshot struct {
	CapturedAt int64  `cbor:"1,keyasint"` // unix milliseconds
	Host       string `cbor:"2,keyasint"`
	Status     Raw    `cbor:"3,keyasint,omitempty"`
	Settings   Raw    `cbor:"4,keyasint,omitempty"`
}

var snapshotDecMode cbor.DecMode

func init() {
	var err error
	snapshotDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// NewSnapshot stamps a snapshot with the current time.
func NewSnapshot(host string, status, settings Raw) *Snapshot {
	return &Snapshot{
		CapturedAt: time.Now().UnixMilli(),
		Host:       host,
		Status:     status,
		Settings:   settings,
	}
}

// Time returns the capture time.
func (s *Snapshot) Time() time.Time {
	return time.UnixMilli(s.CapturedAt)
}

// MarshalSnapshot encodes s as CBOR. JSON numbers are stored as CBOR
// integers or floats rather than text.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	out := *s
	out.Status = nativeRecord(s.Status)
	out.Settings = nativeRecord(s.Settings)

	data, err := cbor.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

func nativeRecord(r Raw) Raw {
	if r == nil {
		return nil
	}
	out := make(Raw, len(r))
	for k, v := range r {
		out[k] = nativeValue(v)
	}
	return out
}

func nativeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return string(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = nativeValue(e)
		}
		return out
	case map[string]interface{}:
		return map[string]interface{}(nativeRecord(Raw(t)))
	}
	return v
}

// UnmarshalSnapshot decodes a CBOR snapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty CBOR payload")
	}

	var s Snapshot
	if err := snapshotDecMode.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode CBOR: %w", err)
	}
	return &s, nil
}

// Decode runs both decoders over the captured records. A record that was not
// captured decodes to nil.
func (s *Snapshot) Decode(opts DecodeOptions) (*Status, *Settings, error) {
	var (
		status   *Status
		settings *Settings
		err      error
	)

	if s.Status != nil {
		if status, err = DecodeStatus(s.Status, opts); err != nil {
			return nil, nil, fmt.Errorf("status: %w", err)
		}
	}
	if s.Settings != nil {
		if settings, err = DecodeSettings(s.Settings, opts); err != nil {
			return nil, nil, fmt.Errorf("settings: %w", err)
		}
	}
	return status, settings, nil
}
