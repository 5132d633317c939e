package device

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// RoomAll is the sentinel room filter value that bypasses filtering.
const RoomAll = "all"

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Notifier receives one callback per committed mutation.
//
// DeviceUpdated is invoked while the registry lock is held so that
// per-device notification order matches commit order; implementations
// must be non-blocking (enqueue, never wait).
type Notifier interface {
	DeviceUpdated(id string, d *Device)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(id string, d *Device)

// DeviceUpdated implements Notifier.
func (f NotifierFunc) DeviceUpdated(id string, d *Device) { f(id, d) }

// MultiNotifier fans a mutation out to several notifiers in order.
type MultiNotifier []Notifier

// DeviceUpdated implements Notifier.
func (m MultiNotifier) DeviceUpdated(id string, d *Device) {
	for _, n := range m {
		n.DeviceUpdated(id, d)
	}
}

// Registry owns the id→device map and is the exclusive source of truth
// for device state. It is seeded once at startup and mutated in place
// for the process lifetime; nothing persists across restarts.
//
// All public methods are thread-safe. Returned devices are clones;
// callers can safely modify them.
type Registry struct {
	mu       sync.RWMutex
	devices  map[string]*Device
	order    []string // insertion order for deterministic listing
	notifier Notifier
	logger   Logger
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]*Device),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// SetNotifier sets the notifier invoked on every committed mutation.
// Must be called before the registry is shared between goroutines.
func (r *Registry) SetNotifier(n Notifier) {
	r.notifier = n
}

// Seed bulk-initialises the registry. It is intended to be called once
// at startup; seeding an identifier that already exists fails with
// ErrExists and leaves the registry unchanged.
func (r *Registry) Seed(devices []*Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range devices {
		if _, exists := r.devices[d.ID]; exists {
			return fmt.Errorf("%w: %s", ErrExists, d.ID)
		}
	}
	for _, d := range devices {
		r.devices[d.ID] = d.Clone()
		r.order = append(r.order, d.ID)
	}

	r.logger.Info("device registry seeded", "count", len(devices))
	return nil
}

// All returns every device in insertion order.
func (r *Registry) All() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]*Device, 0, len(r.order))
	for _, id := range r.order {
		devices = append(devices, r.devices[id].Clone())
	}
	return devices
}

// Get retrieves a device by identifier.
// Returns ErrNotFound if the identifier does not exist.
func (r *Registry) Get(id string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d.Clone(), nil
}

// ByRoom returns devices whose first identifier segment matches the
// given room, in insertion order. The sentinel RoomAll bypasses
// filtering. Underscores in the query match hyphens in identifiers.
func (r *Registry) ByRoom(room string) []*Device {
	if room == RoomAll {
		return r.All()
	}
	room = NormaliseRoom(room)

	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]*Device, 0)
	for _, id := range r.order {
		d := r.devices[id]
		if d.Room() == room {
			devices = append(devices, d.Clone())
		}
	}
	return devices
}

// ByKind returns devices of the given kind in insertion order. An
// unknown kind yields an empty slice, never an error.
func (r *Registry) ByKind(kind Kind) []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]*Device, 0)
	for _, id := range r.order {
		d := r.devices[id]
		if d.Kind == kind {
			devices = append(devices, d.Clone())
		}
	}
	return devices
}

// Subscribe invokes fn with a snapshot of every device while holding
// the registry read lock. No mutation can commit between snapshot
// construction and fn returning, so a subscriber registered inside fn
// observes every later mutation and none earlier than its snapshot.
func (r *Registry) Subscribe(fn func(devices []*Device)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]*Device, 0, len(r.order))
	for _, id := range r.order {
		devices = append(devices, r.devices[id].Clone())
	}
	fn(devices)
}

// Count returns the number of registered devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// Apply validates and merges a sparse patch into the identified device.
//
// This is the single mutation entry point for every write path (API
// PATCH, telemetry ingestion, simulation driver). On success the merge
// is all-or-nothing, lastUpdated is stamped with the current UTC time,
// the notifier fires exactly once, and the post-mutation device is
// returned. On any validation failure the stored device is untouched.
func (r *Registry) Apply(id string, patch Patch) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := ValidatePatch(d.Kind, patch); err != nil {
		return nil, err
	}

	patch.apply(d)
	d.LastUpdated = time.Now().UTC()

	updated := d.Clone()
	if r.notifier != nil {
		// Under the lock: notification order per device must match
		// commit order. Notifier sends are non-blocking.
		r.notifier.DeviceUpdated(id, updated)
	}

	r.logger.Debug("device updated", "id", id, "kind", d.Kind)
	return updated, nil
}

// Stats holds derived system statistics in the shape the API reports.
type Stats struct {
	Lighting      string `json:"lighting"`
	Temperature   string `json:"temperature"`
	Security      string `json:"security"`
	TotalDevices  int    `json:"totalDevices"`
	OnlineDevices int    `json:"onlineDevices"`
}

// GetStats derives current system statistics: lights on vs total, mean
// thermostat current temperature rounded to the nearest integer (0 when
// no thermostats exist), and whether every lock is locked (vacuously
// true with no locks).
func (r *Registry) GetStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		lights, lightsOn int
		thermostats      int
		tempSum          int
	)
	allLocked := true

	for _, d := range r.devices {
		switch d.Kind {
		case KindLight:
			lights++
			if d.IsOn {
				lightsOn++
			}
		case KindThermostat:
			thermostats++
			if d.CurrentTemp != nil {
				tempSum += *d.CurrentTemp
			}
		case KindLock:
			if d.IsLocked == nil || !*d.IsLocked {
				allLocked = false
			}
		}
	}

	avgTemp := 0
	if thermostats > 0 {
		avgTemp = int(math.Round(float64(tempSum) / float64(thermostats)))
	}

	security := "All Locked"
	if !allLocked {
		security = "Some Unlocked"
	}

	return Stats{
		Lighting:      fmt.Sprintf("%d/%d Active", lightsOn, lights),
		Temperature:   fmt.Sprintf("%d°C Average", avgTemp),
		Security:      security,
		TotalDevices:  len(r.devices),
		OnlineDevices: len(r.devices), // all simulated devices are online
	}
}
