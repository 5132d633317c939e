package influxdb

import (
	"github.com/homesim/homesim-core/internal/device"
)

// metricWriter is the write surface MetricExporter needs. *Client
// satisfies it; tests substitute a fake.
type metricWriter interface {
	WriteDeviceMetric(deviceID string, field string, value float64)
}

// MetricExporter translates device state changes into metric points.
//
// It implements device.Notifier. DeviceUpdated runs under the registry
// write lock; the underlying write API batches asynchronously, so each
// call only appends to an in-memory buffer and never blocks on network
// I/O.
type MetricExporter struct {
	writer metricWriter
}

// NewMetricExporter wraps a writer in a device.Notifier adapter.
func NewMetricExporter(writer metricWriter) *MetricExporter {
	return &MetricExporter{writer: writer}
}

// DeviceUpdated writes the numeric fields of the updated device.
// Boolean state is encoded as 0/1 so dashboards can graph it.
func (e *MetricExporter) DeviceUpdated(id string, d *device.Device) {
	if d == nil {
		return
	}

	e.writer.WriteDeviceMetric(id, "is_on", boolToFloat(d.IsOn))
	if d.Brightness != nil {
		e.writer.WriteDeviceMetric(id, "brightness", float64(*d.Brightness))
	}
	if d.TargetTemp != nil {
		e.writer.WriteDeviceMetric(id, "target_temp", float64(*d.TargetTemp))
	}
	if d.CurrentTemp != nil {
		e.writer.WriteDeviceMetric(id, "current_temp", float64(*d.CurrentTemp))
	}
	if d.IsLocked != nil {
		e.writer.WriteDeviceMetric(id, "is_locked", boolToFloat(*d.IsLocked))
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
