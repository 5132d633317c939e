// Package device provides the device registry for homesim-core.
//
// The registry is the single source of truth for simulated smart-home
// device state. All mutations — whether triggered by an API request, a
// telemetry ingestion, or the simulation driver — flow through
// Registry.Apply, which validates the sparse patch against the device's
// kind, merges it all-or-nothing, stamps the update time, and notifies
// the configured Notifier exactly once per committed change.
//
// # Key Types
//
//   - Device: one simulated device; a closed tagged union over the three
//     kinds (light, thermostat, lock) with kind-specific pointer fields
//   - Patch: a sparse partial update; nil fields are left untouched
//   - Registry: mutex-guarded id→device map with insertion-order listing
//   - Notifier: receives one callback per committed mutation
//
// # Usage
//
//	registry := device.NewRegistry()
//	registry.SetLogger(log)
//	if err := registry.Seed(device.DefaultDevices()); err != nil {
//	    return err
//	}
//
//	target := 18
//	dev, err := registry.Apply("living-room/thermostat/wall-01", device.Patch{
//	    TargetTemp: &target,
//	})
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. The notifier is
// invoked while the registry lock is held so that per-device notification
// order matches commit order; implementations must not block.
package device
