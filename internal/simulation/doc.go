// Package simulation drives autonomous device state changes.
//
// The Driver replays a pre-generated temperature series against the
// device registry on a fixed period, emulating live thermostat sensors.
// Every change goes through the registry's single mutation entry point,
// so WebSocket subscribers observe simulated updates exactly as they
// observe client-issued ones.
//
// Key Types:
//   - Driver: the cancellable periodic loop (Idle -> Running -> Stopped)
//   - ReadingFile: the on-disk schema produced by cmd/gendata
//
// A missing or empty reading file is not an error: the driver logs once
// and parks, leaving the rest of the service fully functional.
package simulation
