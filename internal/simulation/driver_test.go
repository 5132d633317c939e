package simulation

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/homesim/homesim-core/internal/device"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

func seedRegistry(t *testing.T) *device.Registry {
	t.Helper()
	r := device.NewRegistry()
	if err := r.Seed(device.DefaultDevices()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return r
}

func thermostatReadings() []TemperatureReading {
	return []TemperatureReading{
		{DeviceID: "living-room/thermostat/wall-01", CurrentTemp: 21.3, TargetTemp: 22},
		{DeviceID: "bedroom/thermostat/wall-01", CurrentTemp: 19.1, TargetTemp: 20},
	}
}

func TestDriverLifecycle(t *testing.T) {
	registry := seedRegistry(t)
	d := NewDriver(registry, thermostatReadings(), testLogger{}, WithInterval(time.Hour))

	if got := d.Status(); got != StatusIdle {
		t.Errorf("initial status = %q, want %q", got, StatusIdle)
	}

	d.Start(context.Background())
	if got := d.Status(); got != StatusRunning {
		t.Errorf("status after Start = %q, want %q", got, StatusRunning)
	}

	// Idempotent: a second Start must not spawn a second loop.
	d.Start(context.Background())
	if got := d.Status(); got != StatusRunning {
		t.Errorf("status after second Start = %q, want %q", got, StatusRunning)
	}

	d.Stop()
	if got := d.Status(); got != StatusStopped {
		t.Errorf("status after Stop = %q, want %q", got, StatusStopped)
	}

	// Stopped is terminal.
	d.Start(context.Background())
	if got := d.Status(); got != StatusStopped {
		t.Errorf("status after Start on stopped driver = %q, want %q", got, StatusStopped)
	}
}

func TestDriverStop_BeforeStart(t *testing.T) {
	d := NewDriver(seedRegistry(t), nil, testLogger{})
	d.Stop()
	if got := d.Status(); got != StatusStopped {
		t.Errorf("status = %q, want %q", got, StatusStopped)
	}
}

func TestDriverTick_AppliesPerturbedReadings(t *testing.T) {
	registry := seedRegistry(t)

	var (
		mu      sync.Mutex
		updates []*device.Device
	)
	registry.SetNotifier(device.NotifierFunc(func(_ string, d *device.Device) {
		mu.Lock()
		updates = append(updates, d)
		mu.Unlock()
	}))

	d := NewDriver(registry, thermostatReadings(), testLogger{}, WithInterval(time.Hour))
	d.tick(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(updates) != 2 {
		t.Fatalf("tick produced %d updates, want 2", len(updates))
	}

	// Replayed 21.3 with at most ±1 perturbation rounds to 20..22.
	first := updates[0]
	if first.ID != "living-room/thermostat/wall-01" {
		t.Errorf("first update id = %q", first.ID)
	}
	if *first.CurrentTemp < 20 || *first.CurrentTemp > 22 {
		t.Errorf("currentTemp = %d, want within 20..22", *first.CurrentTemp)
	}
	if *first.TargetTemp != 22 {
		t.Errorf("targetTemp = %d, simulation must not touch the set point", *first.TargetTemp)
	}
}

func TestDriverTick_WrapsAround(t *testing.T) {
	registry := seedRegistry(t)
	d := NewDriver(registry, thermostatReadings(), testLogger{}, WithInterval(time.Hour))

	// Three ticks over a two-entry sequence exercise the wrap.
	for i := 0; i < 3; i++ {
		d.tick(context.Background())
	}

	d.mu.Lock()
	cursor := d.next
	d.mu.Unlock()
	if cursor != 0 {
		t.Errorf("cursor = %d after consuming six of two readings, want 0", cursor)
	}
}

func TestDriverTick_SkipsUnknownDevice(t *testing.T) {
	registry := seedRegistry(t)

	calls := 0
	registry.SetNotifier(device.NotifierFunc(func(string, *device.Device) { calls++ }))

	readings := []TemperatureReading{
		{DeviceID: "garage/thermostat/wall-01", CurrentTemp: 18},
		{DeviceID: "bedroom/thermostat/wall-01", CurrentTemp: 19},
	}
	d := NewDriver(registry, readings, testLogger{}, WithInterval(time.Hour))
	d.tick(context.Background())

	if calls != 1 {
		t.Errorf("notifier fired %d times, want 1 (unknown id skipped)", calls)
	}
}

func TestDriverTick_ClampsExtremeValues(t *testing.T) {
	registry := seedRegistry(t)

	readings := []TemperatureReading{
		{DeviceID: "bedroom/thermostat/wall-01", CurrentTemp: 99},
		{DeviceID: "living-room/thermostat/wall-01", CurrentTemp: -99},
	}
	d := NewDriver(registry, readings, testLogger{}, WithInterval(time.Hour))
	d.tick(context.Background())

	hot, err := registry.Get("bedroom/thermostat/wall-01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *hot.CurrentTemp != device.MaxCurrentTemp {
		t.Errorf("currentTemp = %d, want clamped to %d", *hot.CurrentTemp, device.MaxCurrentTemp)
	}

	cold, err := registry.Get("living-room/thermostat/wall-01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *cold.CurrentTemp != device.MinCurrentTemp {
		t.Errorf("currentTemp = %d, want clamped to %d", *cold.CurrentTemp, device.MinCurrentTemp)
	}
}

func TestDriver_EmptyReadings(t *testing.T) {
	registry := seedRegistry(t)

	calls := 0
	registry.SetNotifier(device.NotifierFunc(func(string, *device.Device) { calls++ }))

	d := NewDriver(registry, nil, testLogger{}, WithInterval(time.Millisecond))
	d.Start(context.Background())

	time.Sleep(20 * time.Millisecond)
	d.Stop()

	if calls != 0 {
		t.Errorf("empty reading source produced %d mutations, want 0", calls)
	}
	// Registry remains fully usable.
	if registry.Count() != 10 {
		t.Errorf("Count() = %d, want 10", registry.Count())
	}
}

func TestDriverRun_PeriodicTicks(t *testing.T) {
	registry := seedRegistry(t)

	var (
		mu    sync.Mutex
		calls int
	)
	registry.SetNotifier(device.NotifierFunc(func(string, *device.Device) {
		mu.Lock()
		calls++
		mu.Unlock()
	}))

	d := NewDriver(registry, thermostatReadings(), testLogger{}, WithInterval(10*time.Millisecond))
	d.Start(context.Background())

	time.Sleep(100 * time.Millisecond)
	d.Stop()

	mu.Lock()
	defer mu.Unlock()
	if calls < 2 {
		t.Errorf("loop produced %d updates in 100ms at 10ms interval, want at least 2", calls)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sensor-data.json")

	content := `{
		"metadata": {"intervalSec": 60, "deviceCount": 2, "readingCount": 2},
		"temperatureReadings": [
			{"timestamp": "2026-01-15T10:00:00Z", "deviceId": "living-room/thermostat/wall-01", "name": "Smart Thermostat", "currentTemp": 21.4, "targetTemp": 22, "humidity": 44.1},
			{"timestamp": "2026-01-15T10:01:00Z", "deviceId": "bedroom/thermostat/wall-01", "name": "Bedroom Thermostat", "currentTemp": 19.2, "targetTemp": 20, "humidity": 47.9}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing test file: %v", err)
	}

	readings, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("LoadFile() returned %d readings, want 2", len(readings))
	}
	if readings[0].DeviceID != "living-room/thermostat/wall-01" || readings[0].CurrentTemp != 21.4 {
		t.Errorf("first reading = %+v", readings[0])
	}
}

func TestLoadFile_Missing(t *testing.T) {
	readings, err := LoadFile("/nonexistent/sensor-data.json")
	if err != nil {
		t.Fatalf("LoadFile() on missing file error = %v, want nil", err)
	}
	if readings != nil {
		t.Errorf("LoadFile() = %v, want nil for missing file", readings)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sensor-data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("writing test file: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() on malformed file error = nil, want error")
	}
}
