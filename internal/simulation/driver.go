package simulation

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/homesim/homesim-core/internal/device"
	"github.com/homesim/homesim-core/internal/telemetry"
)

// Status is the driver's lifecycle state.
type Status string

// Driver lifecycle states.
const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// DefaultInterval is the tick period when none is configured.
const DefaultInterval = 60 * time.Second

// readingsPerTick is how many readings each tick consumes from the
// cyclic sequence.
const readingsPerTick = 2

// maxPerturbation bounds the random offset applied to each replayed
// reading, in degrees.
const maxPerturbation = 1

// Logger defines the logging interface used by the Driver.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Driver replays temperature readings against the registry on a fixed
// period.
//
// The lifecycle is Idle -> Running -> Stopped. Start is idempotent and
// Stop is observed at the next timer wait, never mid-mutation. A tick
// failure is logged and isolated to that tick.
type Driver struct {
	registry  *device.Registry
	telemetry *telemetry.Store // optional; readings recorded when set
	logger    Logger
	interval  time.Duration
	readings  []TemperatureReading

	mu     sync.Mutex
	status Status
	next   int // cursor into the cyclic reading sequence
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Driver.
type Option func(*Driver)

// WithInterval overrides the tick period.
func WithInterval(d time.Duration) Option {
	return func(drv *Driver) {
		if d > 0 {
			drv.interval = d
		}
	}
}

// WithTelemetry records each replayed reading to the given store.
func WithTelemetry(store *telemetry.Store) Option {
	return func(drv *Driver) {
		drv.telemetry = store
	}
}

// NewDriver creates an idle driver over a preloaded reading sequence.
func NewDriver(registry *device.Registry, readings []TemperatureReading, logger Logger, opts ...Option) *Driver {
	d := &Driver{
		registry: registry,
		logger:   logger,
		interval: DefaultInterval,
		readings: readings,
		status:   StatusIdle,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Status returns the driver's current lifecycle state.
func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Start launches the periodic loop. Starting a running or stopped
// driver is a no-op; there is never a second concurrent loop.
//
// With an empty reading sequence the driver logs once and parks until
// stopped, performing no work.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	if d.status != StatusIdle {
		d.mu.Unlock()
		return
	}
	d.status = StatusRunning

	var loopCtx context.Context
	loopCtx, d.cancel = context.WithCancel(ctx)
	d.mu.Unlock()

	go d.run(loopCtx)
}

// Stop cancels the loop and waits for it to exit. Safe to call more
// than once and before Start.
func (d *Driver) Stop() {
	d.mu.Lock()
	if d.status != StatusRunning {
		d.status = StatusStopped
		d.mu.Unlock()
		return
	}
	cancel := d.cancel
	d.mu.Unlock()

	cancel()
	<-d.done

	d.mu.Lock()
	d.status = StatusStopped
	d.mu.Unlock()
}

// run is the loop body. It exits when the context is cancelled.
func (d *Driver) run(ctx context.Context) {
	defer close(d.done)

	if len(d.readings) == 0 {
		d.logger.Info("no sensor readings loaded, simulation parked")
		<-ctx.Done()
		return
	}

	d.logger.Info("simulation started",
		"readings", len(d.readings),
		"interval", d.interval.String(),
	)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("simulation stopped")
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

// tick consumes the next pair of readings and routes each through the
// registry. Unknown device identifiers and per-reading failures are
// skipped; nothing in a tick is fatal.
func (d *Driver) tick(ctx context.Context) {
	for i := 0; i < readingsPerTick; i++ {
		r := d.nextReading()
		if err := d.applyReading(ctx, r); err != nil {
			d.logger.Warn("simulated reading skipped",
				"device_id", r.DeviceID,
				"error", err,
			)
		}
	}
}

// nextReading returns the next entry of the cyclic sequence.
func (d *Driver) nextReading() TemperatureReading {
	d.mu.Lock()
	defer d.mu.Unlock()

	r := d.readings[d.next]
	d.next = (d.next + 1) % len(d.readings)
	return r
}

// applyReading perturbs one reading and commits it through the
// registry's mutation path.
func (d *Driver) applyReading(ctx context.Context, r TemperatureReading) error {
	if _, err := d.registry.Get(r.DeviceID); err != nil {
		if errors.Is(err, device.ErrNotFound) {
			// Reading for a device this registry does not simulate.
			return nil
		}
		return err
	}

	value := perturb(r.CurrentTemp)
	current := clamp(int(math.Round(value)), device.MinCurrentTemp, device.MaxCurrentTemp)

	updated, err := d.registry.Apply(r.DeviceID, device.Patch{CurrentTemp: &current})
	if err != nil {
		return err
	}

	d.logger.Debug("simulated temperature applied",
		"device_id", r.DeviceID,
		"current_temp", current,
	)

	if d.telemetry != nil {
		err := d.telemetry.Record(ctx, telemetry.Reading{
			DeviceID:   updated.ID,
			SensorKind: "temperature",
			Value:      value,
			Unit:       "celsius",
		})
		if err != nil {
			d.logger.Warn("recording simulated reading failed",
				"device_id", r.DeviceID,
				"error", err,
			)
		}
	}

	return nil
}

// perturb applies a bounded random offset to a replayed value.
func perturb(value float64) float64 {
	return value + (rand.Float64()*2-1)*maxPerturbation //nolint:gosec // Simulation noise, not security-sensitive
}

// clamp bounds v to the inclusive range [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
