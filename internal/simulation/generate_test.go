package simulation

import (
	"path/filepath"
	"testing"
)

func TestGenerateSeries(t *testing.T) {
	file := GenerateSeries(2)

	wantReadings := 2 * 60 * 2 // two devices, one reading per minute
	if len(file.Readings) != wantReadings {
		t.Fatalf("generated %d readings, want %d", len(file.Readings), wantReadings)
	}
	if file.Metadata.ReadingCount != wantReadings {
		t.Errorf("metadata readingCount = %d, want %d", file.Metadata.ReadingCount, wantReadings)
	}
	if file.Metadata.DeviceCount != 2 {
		t.Errorf("metadata deviceCount = %d, want 2", file.Metadata.DeviceCount)
	}
	if file.Metadata.DurationHours != 2 {
		t.Errorf("metadata durationHours = %d, want 2", file.Metadata.DurationHours)
	}

	for i, r := range file.Readings {
		if r.DeviceID != "living-room/thermostat/wall-01" && r.DeviceID != "bedroom/thermostat/wall-01" {
			t.Fatalf("reading %d has unexpected deviceId %q", i, r.DeviceID)
		}
		// Base temps are 20 and 22; cycle, noise, and HVAC pull stay
		// well inside this envelope.
		if r.CurrentTemp < 15 || r.CurrentTemp > 27 {
			t.Errorf("reading %d currentTemp = %v, outside plausible range", i, r.CurrentTemp)
		}
		if r.Humidity < 35 || r.Humidity > 55 {
			t.Errorf("reading %d humidity = %v, want within 35..55", i, r.Humidity)
		}
	}

	// Readings alternate devices minute by minute in timestamp order.
	if !file.Readings[0].Timestamp.Before(file.Readings[2].Timestamp) {
		t.Error("readings are not in ascending timestamp order")
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensor-data.json")

	generated := GenerateSeries(1)
	if err := WriteFile(path, generated); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(loaded) != len(generated.Readings) {
		t.Fatalf("loaded %d readings, want %d", len(loaded), len(generated.Readings))
	}
	if loaded[0].DeviceID != generated.Readings[0].DeviceID {
		t.Errorf("first reading deviceId = %q, want %q", loaded[0].DeviceID, generated.Readings[0].DeviceID)
	}
}
