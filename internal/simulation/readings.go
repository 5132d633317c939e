package simulation

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ReadingFile is the on-disk schema of the generated sensor series.
type ReadingFile struct {
	Metadata Metadata             `json:"metadata"`
	Readings []TemperatureReading `json:"temperatureReadings"`
}

// Metadata describes how the series was generated.
type Metadata struct {
	GeneratedAt   time.Time `json:"generatedAt"`
	IntervalSec   int       `json:"intervalSec"`
	DurationHours int       `json:"durationHours"`
	DeviceCount   int       `json:"deviceCount"`
	ReadingCount  int       `json:"readingCount"`
}

// TemperatureReading is one observation for one thermostat.
type TemperatureReading struct {
	Timestamp   time.Time `json:"timestamp"`
	DeviceID    string    `json:"deviceId"`
	Name        string    `json:"name"`
	CurrentTemp float64   `json:"currentTemp"`
	TargetTemp  float64   `json:"targetTemp"`
	Humidity    float64   `json:"humidity"`
}

// LoadFile reads and parses a reading file.
//
// A missing file returns an empty slice and no error so the caller can
// degrade to a no-op loop. A present but unparsable file is an error.
func LoadFile(path string) ([]TemperatureReading, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sensor data file: %w", err)
	}

	var file ReadingFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing sensor data file: %w", err)
	}

	return file.Readings, nil
}
