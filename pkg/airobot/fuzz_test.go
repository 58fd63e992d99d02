// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

import (
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// randomWireValue returns a value in one of the shapes lenient firmware produces
func randomWireValue(rng *rand.Rand) interface{} {
	n := int64(rng.Intn(70000) - 2000)
	switch rng.Intn(9) {
	case 0:
		return int(n)
	case 1:
		return json.Number(strconv.FormatInt(n, 10))
	case 2:
		return strconv.FormatInt(n, 10)
	case 3:
		return float64(n)
	case 4:
		return rng.Float64() * 1000
	case 5:
		return nil
	case 6:
		return "abc"
	case 7:
		return []int{Int16SensorNotAttached, Uint16SensorNotAttached}[rng.Intn(2)]
	default:
		return uint64(rng.Intn(100000))
	}
}

func randomFlags(rng *rand.Rand, keys ...string) interface{} {
	switch rng.Intn(4) {
	case 0:
		return nil
	case 1:
		return []interface{}{}
	case 2:
		return 0
	}
	m := map[string]interface{}{}
	for _, k := range keys {
		if rng.Intn(4) > 0 {
			m[k] = rng.Intn(2)
		}
	}
	return []interface{}{m}
}

func randomStatus(rng *rand.Rand) Raw {
	raw := Raw{}
	for _, f := range statusFields {
		if f.kind == kindString || rng.Intn(8) == 0 {
			continue
		}
		raw[f.name] = randomWireValue(rng)
	}
	raw[FieldStatusFlags] = randomFlags(rng, FlagWindowOpenDetected, FlagHeatingOn)
	return raw
}

// ============================================================
// Decoder Fuzz Tests
// ============================================================

// TestFuzzDecodeStatus_RandomRecords decodes random records in both modes and
// checks the invariants that must hold for any successful decode
func TestFuzzDecodeStatus_RandomRecords(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		raw := randomStatus(rng)

		var w Warnings
		lenient, lerr := DecodeStatus(raw, DecodeOptions{OnWarning: w.Collect})
		strict, serr := DecodeStatus(raw, DecodeOptions{Strict: true})

		if lerr != nil {
			if !errors.Is(lerr, ErrMalformedValue) {
				t.Errorf("Round %d: permissive decode failed with %v", i, lerr)
			}
			if !errors.Is(serr, ErrMalformedValue) && !errors.Is(serr, ErrOutOfRange) {
				t.Errorf("Round %d: strict decode should also fail, got %v", i, serr)
			}
			continue
		}

		if lenient.CO2 == nil && lenient.AQI != nil {
			t.Errorf("Round %d: AQI present without CO2", i)
		}

		switch {
		case serr == nil && len(w) != 0:
			t.Errorf("Round %d: strict accepted a record with warnings %v", i, w.Fields())
		case serr != nil && len(w) == 0:
			t.Errorf("Round %d: strict rejected a record without warnings: %v", i, serr)
		case serr != nil:
			var verr *ValidationError
			if !errors.As(serr, &verr) || verr.Field != w[0].Field {
				t.Errorf("Round %d: strict failure %v does not match first warning %s", i, serr, w[0].Field)
			}
		case strict == nil:
			t.Errorf("Round %d: strict returned nil record without error", i)
		}
	}
}

// TestFuzzSettings_RoundTrip encodes random in-range settings and decodes them back
func TestFuzzSettings_RoundTrip(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		want := Settings{
			Mode:             Mode(rng.Intn(2) + 1),
			SetpointTemp:     FromTenths(int64(rng.Intn(SetpointRawMax-SetpointRawMin+1) + SetpointRawMin)),
			SetpointTempAway: FromTenths(int64(rng.Intn(SetpointRawMax-SetpointRawMin+1) + SetpointRawMin)),
			HysteresisBand:   FromTenths(int64(rng.Intn(HysteresisRawMax + 1))),
			DeviceName:       strings.Repeat("r", rng.Intn(NameMaxLength)+1),
			Flags: SettingFlags{
				Reboot:                   rng.Intn(2) == 1,
				ActuatorExerciseDisabled: rng.Intn(2) == 1,
				RecalibrateCO2:           rng.Intn(2) == 1,
				ChildLockEnabled:         rng.Intn(2) == 1,
				BoostEnabled:             rng.Intn(2) == 1,
			},
		}

		payload := want.Payload()

		// Through JSON, as the device would see it
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Round %d: marshal: %v", i, err)
		}
		raw, err := DecodeRaw(data)
		if err != nil {
			t.Fatalf("Round %d: DecodeRaw: %v", i, err)
		}

		got, err := DecodeSettings(raw, DecodeOptions{Strict: true})
		if err != nil {
			t.Errorf("Round %d: decode failed: %v", i, err)
			continue
		}
		if *got != want {
			t.Errorf("Round %d: expected %+v, got %+v", i, want, *got)
		}
	}
}

// TestFuzzSnapshot_RandomBytes feeds random bytes to the snapshot decoder
// and verifies it doesn't crash or panic
func TestFuzzSnapshot_RandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		length := rng.Intn(256) + 1
		data := make([]byte, length)
		rng.Read(data)

		snap, err := UnmarshalSnapshot(data)
		if err == nil {
			snap.Decode(DecodeOptions{OnWarning: func(ValidationError) {}})
		}
	}
}

// TestFuzzSnapshot_RandomRecords round-trips random status records through CBOR
func TestFuzzSnapshot_RandomRecords(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	quiet := DecodeOptions{OnWarning: func(ValidationError) {}}

	for i := 0; i < rounds; i++ {
		raw := randomStatus(rng)
		for k, v := range raw {
			// CBOR has no json.Number; the device only ever sends JSON
			if n, ok := v.(json.Number); ok {
				raw[k] = string(n)
			}
		}

		data, err := cbor.Marshal(&Snapshot{Host: "fuzz", Status: raw})
		if err != nil {
			t.Fatalf("Round %d: marshal: %v", i, err)
		}
		snap, err := UnmarshalSnapshot(data)
		if err != nil {
			t.Fatalf("Round %d: unmarshal: %v", i, err)
		}

		want, werr := DecodeStatus(raw, quiet)
		got, _, gerr := snap.Decode(quiet)
		if (werr == nil) != (gerr == nil) {
			t.Errorf("Round %d: direct err=%v, snapshot err=%v", i, werr, gerr)
			continue
		}
		if werr == nil && FormatStatus(want) != FormatStatus(got) {
			t.Errorf("Round %d: records differ\n%s\n%s", i, FormatStatus(want), FormatStatus(got))
		}
	}
}
