package monitor

import (
	"testing"
	"time"
)

func TestSampleReadings(t *testing.T) {
	fields := []string{"temperature", "humidity", "vibration", "current", "voltage"}
	end := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)

	readings := SampleReadings(fields, end)

	if len(readings) != sampleLength {
		t.Fatalf("SampleReadings() returned %d readings, want %d", len(readings), sampleLength)
	}

	// Daily cadence ending at the most recent UTC midnight.
	last := readings[len(readings)-1]
	wantLast := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	if !last.Time.Equal(wantLast) {
		t.Errorf("last reading time = %v, want %v", last.Time, wantLast)
	}
	for i := 1; i < len(readings); i++ {
		if got := readings[i].Time.Sub(readings[i-1].Time); got != 24*time.Hour {
			t.Errorf("gap between readings %d and %d = %v, want 24h", i-1, i, got)
		}
	}

	// All requested fields are populated on every reading.
	for i, r := range readings {
		for _, field := range fields {
			if _, ok := r.Values[field]; !ok {
				t.Errorf("reading %d missing field %q", i, field)
			}
		}
	}

	if readings[0].Values["temperature"] != 28 {
		t.Errorf("first temperature = %v, want 28", readings[0].Values["temperature"])
	}
	if readings[9].Values["voltage"] != 230 {
		t.Errorf("last voltage = %v, want 230", readings[9].Values["voltage"])
	}
}

func TestSampleReadings_UnknownFieldOmitted(t *testing.T) {
	readings := SampleReadings([]string{"temperature", "pressure"}, time.Now())

	for i, r := range readings {
		if _, ok := r.Values["pressure"]; ok {
			t.Errorf("reading %d has value for unknown field", i)
		}
		if _, ok := r.Values["temperature"]; !ok {
			t.Errorf("reading %d missing known field", i)
		}
	}
}
