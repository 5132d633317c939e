package simulation

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"
)

// Generation parameters. The series models two rooms with mild daily
// drift, sensor noise, and a thermostat pulling the room toward its
// set point.
const (
	// dailyCycleAmplitude is the peak deviation of the day/night swing
	// in degrees, coolest around 06:00.
	dailyCycleAmplitude = 1.2

	// sensorNoise bounds the per-reading random fluctuation in degrees.
	sensorNoise = 0.3

	// hvacDeadband is the temperature gap below which the thermostat
	// does nothing.
	hvacDeadband = 0.5

	// hvacPullRate is the fraction of the remaining gap closed per
	// minute while the thermostat is active.
	hvacPullRate = 0.02

	// targetChangeChance is the per-minute probability of a simulated
	// occupant adjusting the set point.
	targetChangeChance = 0.001

	// baseHumidity and humiditySpread bound the reported humidity.
	baseHumidity   = 45
	humiditySpread = 10
)

// generatorProfile describes one simulated thermostat.
type generatorProfile struct {
	deviceID   string
	name       string
	baseTemp   float64
	targetTemp float64
}

func defaultProfiles() []generatorProfile {
	return []generatorProfile{
		{
			deviceID:   "living-room/thermostat/wall-01",
			name:       "Living Room Thermostat",
			baseTemp:   22.0,
			targetTemp: 22.0,
		},
		{
			deviceID:   "bedroom/thermostat/wall-01",
			name:       "Bedroom Thermostat",
			baseTemp:   20.0,
			targetTemp: 20.0,
		},
	}
}

// GenerateSeries produces a reading file covering the given number of
// hours at one reading per device per minute, starting at midnight UTC
// of the current day.
func GenerateSeries(hours int) ReadingFile {
	profiles := defaultProfiles()

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	readings := make([]TemperatureReading, 0, hours*60*len(profiles))

	for minute := 0; minute < hours*60; minute++ {
		at := start.Add(time.Duration(minute) * time.Minute)
		hourOfDay := float64(at.Hour()) + float64(at.Minute())/60.0

		for i := range profiles {
			p := &profiles[i]

			dailyCycle := math.Sin((hourOfDay-6)*math.Pi/12) * dailyCycleAmplitude
			noise := (rand.Float64()*2 - 1) * sensorNoise //nolint:gosec // Simulation noise, not security-sensitive
			currentTemp := p.baseTemp + dailyCycle + noise

			if gap := p.targetTemp - currentTemp; math.Abs(gap) > hvacDeadband {
				currentTemp += gap * hvacPullRate
			}

			if rand.Float64() < targetChangeChance { //nolint:gosec // Simulation noise, not security-sensitive
				p.targetTemp = p.baseTemp + (rand.Float64()*4 - 2) //nolint:gosec // Simulation noise, not security-sensitive
			}

			readings = append(readings, TemperatureReading{
				Timestamp:   at,
				DeviceID:    p.deviceID,
				Name:        p.name,
				CurrentTemp: round1(currentTemp),
				TargetTemp:  round1(p.targetTemp),
				Humidity:    float64(baseHumidity + rand.Intn(2*humiditySpread+1) - humiditySpread), //nolint:gosec // Simulation noise, not security-sensitive
			})
		}
	}

	return ReadingFile{
		Metadata: Metadata{
			GeneratedAt:   now,
			IntervalSec:   60,
			DurationHours: hours,
			DeviceCount:   len(profiles),
			ReadingCount:  len(readings),
		},
		Readings: readings,
	}
}

// WriteFile serialises a reading file to disk in the format LoadFile
// reads back.
func WriteFile(path string, file ReadingFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sensor data: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing sensor data file: %w", err)
	}
	return nil
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
