// Package influxdb provides optional metric export for HomeSim.
//
// This package manages:
//   - Connection to InfluxDB v2 with token authentication
//   - Non-blocking batched writes of device state metrics
//   - Health monitoring with active pings
//
// # Architecture
//
// The exporter is a secondary, opt-in sink. Device state history lives
// in the SQLite telemetry store regardless; InfluxDB adds long-term
// time-series storage for external dashboards when enabled.
//
// MetricExporter adapts committed device mutations into points on the
// device_state measurement, tagged by device_id. Numeric fields are
// written as-is and boolean state as 0/1. Writes append to the client
// library's in-memory batch and never block the mutation path.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	exporter := influxdb.NewMetricExporter(client)
//	// exporter satisfies device.Notifier; wire it through device.MultiNotifier.
package influxdb
