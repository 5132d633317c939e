package device

import (
	"errors"
	"testing"
	"time"
)

func seedRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Seed(DefaultDevices()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return r
}

func TestRegistrySeed(t *testing.T) {
	r := seedRegistry(t)

	if got := r.Count(); got != 10 {
		t.Errorf("Count() = %d, want 10", got)
	}

	// Listing preserves seed order.
	all := r.All()
	if len(all) != 10 {
		t.Fatalf("All() returned %d devices, want 10", len(all))
	}
	if all[0].ID != "living-room/lock/front-door-01" {
		t.Errorf("first device = %q, want front door lock", all[0].ID)
	}
	if all[9].ID != "bathroom/light/shower-01" {
		t.Errorf("last device = %q, want shower light", all[9].ID)
	}
}

func TestRegistrySeed_DuplicateID(t *testing.T) {
	r := NewRegistry()
	d, err := NewLock("hall/lock/door-01", "Hall Door", true)
	if err != nil {
		t.Fatalf("NewLock() error = %v", err)
	}

	if err := r.Seed([]*Device{d, d}); !errors.Is(err, ErrExists) {
		t.Fatalf("Seed() with duplicate error = %v, want ErrExists", err)
	}
	if got := r.Count(); got != 0 {
		t.Errorf("Count() after failed seed = %d, want 0", got)
	}
}

func TestRegistryGet(t *testing.T) {
	r := seedRegistry(t)

	d, err := r.Get("kitchen/light/ceiling-01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if d.Name != "Kitchen Ceiling Light" {
		t.Errorf("Name = %q, want %q", d.Name, "Kitchen Ceiling Light")
	}

	if _, err := r.Get("kitchen/light/no-such-01"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestRegistryGet_ReturnsClone(t *testing.T) {
	r := seedRegistry(t)

	d, err := r.Get("living-room/light/ceiling-01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	*d.Brightness = 1
	d.Name = "mutated"

	again, err := r.Get("living-room/light/ceiling-01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *again.Brightness != 65 || again.Name != "Living Room Light" {
		t.Error("mutating a returned device leaked into the registry")
	}
}

func TestRegistryByRoom(t *testing.T) {
	r := seedRegistry(t)

	tests := []struct {
		room string
		want int
	}{
		{room: "kitchen", want: 2},
		{room: "living-room", want: 3},
		{room: "living_room", want: 3}, // underscore form matches
		{room: "bedroom", want: 3},
		{room: "bathroom", want: 2},
		{room: RoomAll, want: 10},
		{room: "garage", want: 0},
	}

	for _, tt := range tests {
		if got := len(r.ByRoom(tt.room)); got != tt.want {
			t.Errorf("ByRoom(%q) returned %d devices, want %d", tt.room, got, tt.want)
		}
	}

	// No-match filters yield an empty slice, not nil, so API responses
	// serialise as a JSON array.
	if r.ByRoom("garage") == nil {
		t.Error("ByRoom() with no matches returned nil, want empty slice")
	}
}

func TestRegistryByKind(t *testing.T) {
	r := seedRegistry(t)

	tests := []struct {
		kind Kind
		want int
	}{
		{kind: KindLight, want: 7},
		{kind: KindThermostat, want: 2},
		{kind: KindLock, want: 1},
		{kind: Kind("camera"), want: 0},
	}

	for _, tt := range tests {
		devices := r.ByKind(tt.kind)
		if len(devices) != tt.want {
			t.Errorf("ByKind(%q) returned %d devices, want %d", tt.kind, len(devices), tt.want)
		}
		if devices == nil {
			t.Errorf("ByKind(%q) returned nil, want empty slice", tt.kind)
		}
		for _, d := range devices {
			if d.Kind != tt.kind {
				t.Errorf("ByKind(%q) returned device %q of kind %q", tt.kind, d.ID, d.Kind)
			}
		}
	}
}

func TestRegistryApply(t *testing.T) {
	r := seedRegistry(t)

	brightness := 40
	off := false
	d, err := r.Apply("kitchen/light/ceiling-01", Patch{IsOn: &off, Brightness: &brightness})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if d.IsOn {
		t.Error("IsOn = true, want false")
	}
	if *d.Brightness != 40 {
		t.Errorf("Brightness = %d, want 40", *d.Brightness)
	}
	if *d.ColorTemp != "warm-white" {
		t.Errorf("ColorTemp = %q, want untouched %q", *d.ColorTemp, "warm-white")
	}
	if d.LastUpdated.IsZero() || d.LastUpdated.Location() != time.UTC {
		t.Errorf("LastUpdated = %v, want non-zero UTC", d.LastUpdated)
	}
}

func TestRegistryApply_NotFound(t *testing.T) {
	r := seedRegistry(t)

	on := true
	if _, err := r.Apply("attic/light/none-01", Patch{IsOn: &on}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Apply(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestRegistryApply_AllOrNothing(t *testing.T) {
	r := seedRegistry(t)

	before, err := r.Get("kitchen/light/ceiling-01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	// One valid field plus one out-of-range field: nothing may change.
	off := false
	brightness := 150
	_, err = r.Apply("kitchen/light/ceiling-01", Patch{IsOn: &off, Brightness: &brightness})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Apply() error = %v, want ErrOutOfRange", err)
	}

	d, err := r.Get("kitchen/light/ceiling-01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !d.IsOn || *d.Brightness != 80 {
		t.Error("failed patch partially applied")
	}
	if !d.LastUpdated.Equal(before.LastUpdated) {
		t.Error("failed patch stamped lastUpdated")
	}
}

func TestRegistryApply_NotifierFiresOnce(t *testing.T) {
	r := seedRegistry(t)

	var (
		calls int
		gotID string
		gotD  *Device
	)
	r.SetNotifier(NotifierFunc(func(id string, d *Device) {
		calls++
		gotID = id
		gotD = d
	}))

	locked := false
	if _, err := r.Apply("living-room/lock/front-door-01", Patch{IsLocked: &locked}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if calls != 1 {
		t.Fatalf("notifier fired %d times, want 1", calls)
	}
	if gotID != "living-room/lock/front-door-01" {
		t.Errorf("notifier id = %q", gotID)
	}
	if gotD.IsLocked == nil || *gotD.IsLocked {
		t.Error("notifier received pre-mutation state")
	}
}

func TestRegistryApply_NoNotifyOnFailure(t *testing.T) {
	r := seedRegistry(t)

	calls := 0
	r.SetNotifier(NotifierFunc(func(string, *Device) { calls++ }))

	brightness := -5
	if _, err := r.Apply("kitchen/light/ceiling-01", Patch{Brightness: &brightness}); err == nil {
		t.Fatal("Apply() error = nil, want validation failure")
	}
	if calls != 0 {
		t.Errorf("notifier fired %d times on rejected patch, want 0", calls)
	}
}

func TestMultiNotifier(t *testing.T) {
	var order []string
	first := NotifierFunc(func(string, *Device) { order = append(order, "first") })
	second := NotifierFunc(func(string, *Device) { order = append(order, "second") })

	m := MultiNotifier{first, second}
	m.DeviceUpdated("x/y/z", nil)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("fan-out order = %v, want [first second]", order)
	}
}

func TestGetStats(t *testing.T) {
	r := seedRegistry(t)

	stats := r.GetStats()
	if stats.Lighting != "4/7 Active" {
		t.Errorf("Lighting = %q, want %q", stats.Lighting, "4/7 Active")
	}
	if stats.Temperature != "20°C Average" {
		t.Errorf("Temperature = %q, want %q", stats.Temperature, "20°C Average")
	}
	if stats.Security != "All Locked" {
		t.Errorf("Security = %q, want %q", stats.Security, "All Locked")
	}
	if stats.TotalDevices != 10 || stats.OnlineDevices != 10 {
		t.Errorf("totals = %d/%d, want 10/10", stats.TotalDevices, stats.OnlineDevices)
	}
}

func TestGetStats_SomeUnlocked(t *testing.T) {
	r := seedRegistry(t)

	unlocked := false
	if _, err := r.Apply("living-room/lock/front-door-01", Patch{IsLocked: &unlocked}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if got := r.GetStats().Security; got != "Some Unlocked" {
		t.Errorf("Security = %q, want %q", got, "Some Unlocked")
	}
}

func TestGetStats_Empty(t *testing.T) {
	r := NewRegistry()

	stats := r.GetStats()
	if stats.Lighting != "0/0 Active" {
		t.Errorf("Lighting = %q, want %q", stats.Lighting, "0/0 Active")
	}
	if stats.Temperature != "0°C Average" {
		t.Errorf("Temperature = %q, want %q", stats.Temperature, "0°C Average")
	}
	if stats.Security != "All Locked" {
		t.Errorf("Security = %q, want %q", stats.Security, "All Locked")
	}
}
