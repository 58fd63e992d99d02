// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package airobot

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks decode outcomes across repeated reads
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalReads        uint64
	CleanReads        uint64
	ReadsWithWarnings uint64
	MalformedReads    uint64
	FailedReads       uint64 // transport, auth or HTTP errors
	RangeWarnings     uint64
	IntervalWarnings  uint64
	LengthWarnings    uint64
	EnumWarnings      uint64

	// Rates (calculated)
	ReadRate    float64 // reads/min
	WarningRate float64 // warnings/min
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records one read. err is the decode or request error, warnings the
// permissive-mode warnings collected during the read. A strict-mode
// ValidationError counts as a warning.
func (s *Statistics) Update(err error, warnings []ValidationError) {
	s.TotalReads++
	s.LastUpdateTime = time.Now()

	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			s.ReadsWithWarnings++
			s.countWarning(*verr)
		case errors.Is(err, ErrMalformedValue):
			s.MalformedReads++
		default:
			s.FailedReads++
		}
		return
	}

	if len(warnings) == 0 {
		s.CleanReads++
		return
	}

	s.ReadsWithWarnings++
	for _, w := range warnings {
		s.countWarning(w)
	}
}

func (s *Statistics) countWarning(v ValidationError) {
	s.RangeWarnings++
	switch v.Type {
	case CheckInterval:
		s.IntervalWarnings++
	case CheckLength:
		s.LengthWarnings++
	case CheckEnum:
		s.EnumWarnings++
	}
}

// CalculateRates calculates read and warning rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Minutes()
	if elapsed > 0 {
		s.ReadRate = float64(s.TotalReads) / elapsed
		s.WarningRate = float64(s.RangeWarnings) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	percent := func(n uint64) float64 {
		if s.TotalReads == 0 {
			return 0
		}
		return float64(n) * 100.0 / float64(s.TotalReads)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Reads:     %8d\n", s.TotalReads)
	result += fmt.Sprintf("Clean Reads:     %8d (%.1f%%)\n", s.CleanReads, percent(s.CleanReads))

	if s.ReadsWithWarnings > 0 {
		result += fmt.Sprintf("With Warnings:   %8d (%.1f%%)\n", s.ReadsWithWarnings, percent(s.ReadsWithWarnings))
		if s.IntervalWarnings > 0 {
			result += fmt.Sprintf("  Out of Range:     %5d\n", s.IntervalWarnings)
		}
		if s.LengthWarnings > 0 {
			result += fmt.Sprintf("  Bad Length:       %5d\n", s.LengthWarnings)
		}
		if s.EnumWarnings > 0 {
			result += fmt.Sprintf("  Unknown Value:    %5d\n", s.EnumWarnings)
		}
	}
	if s.MalformedReads > 0 {
		result += fmt.Sprintf("Malformed Reads: %8d (%.1f%%)\n", s.MalformedReads, percent(s.MalformedReads))
	}
	if s.FailedReads > 0 {
		result += fmt.Sprintf("Failed Reads:    %8d (%.1f%%)\n", s.FailedReads, percent(s.FailedReads))
	}

	result += fmt.Sprintf("Read Rate:       %8.1f reads/min\n", s.ReadRate)
	result += fmt.Sprintf("Warning Rate:    %8.1f warnings/min\n", s.WarningRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	*s = *NewStatistics()
}
