// Package mqtt provides optional MQTT connectivity for HomeSim.
//
// This package manages:
//   - Connection to an MQTT broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//   - Mirroring device state changes onto retained topics
//
// # Architecture
//
// HomeSim's primary real-time surface is the WebSocket hub; MQTT is a
// secondary, opt-in transport for external consumers (dashboards, home
// automation controllers) that already speak MQTT. Every committed
// device mutation is published retained to homesim/state/<device-id>,
// so a late subscriber immediately sees current state.
//
//	HomeSim Core → MQTT Broker → External consumers
//
// StatePublisher decouples the registry's mutation path from broker
// I/O: updates are queued and published by a dedicated worker, and a
// full queue drops rather than blocks.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	pub := mqtt.NewStatePublisher(client, logger)
//	defer pub.Close()
//	// pub satisfies device.Notifier; wire it through device.MultiNotifier.
package mqtt
