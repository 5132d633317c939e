package mqtt

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/homesim/homesim-core/internal/device"
)

// defaultQueueSize bounds the publisher's in-flight update queue.
const defaultQueueSize = 256

// publisher is the broker surface StatePublisher needs. *Client
// satisfies it; tests substitute a fake.
type publisher interface {
	PublishRetained(topic string, payload []byte) error
}

// statePayload is the JSON document published per device update.
type statePayload struct {
	DeviceID  string         `json:"deviceId"`
	Device    *device.Device `json:"device"`
	Timestamp string         `json:"timestamp"`
}

// StatePublisher mirrors device state changes onto retained MQTT topics.
//
// It implements device.Notifier. DeviceUpdated runs under the registry
// write lock, so it only enqueues; a single worker goroutine performs
// the blocking broker I/O. When the queue is full the update is dropped
// and counted, never waited on.
type StatePublisher struct {
	client publisher
	topics Topics
	logger Logger

	queue chan statePayload
	done  chan struct{}

	mu      sync.Mutex
	dropped uint64
	closed  bool
}

// NewStatePublisher starts the worker and returns a ready publisher.
func NewStatePublisher(client publisher, logger Logger) *StatePublisher {
	p := &StatePublisher{
		client: client,
		logger: logger,
		queue:  make(chan statePayload, defaultQueueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// DeviceUpdated enqueues a device state update for publishing.
// It never blocks the caller.
func (p *StatePublisher) DeviceUpdated(id string, d *device.Device) {
	payload := statePayload{
		DeviceID:  id,
		Device:    d,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}

	// The lock covers the closed check and the send so Close cannot
	// close the queue between them. The send has a default case and
	// never blocks under the lock.
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	select {
	case p.queue <- payload:
		p.mu.Unlock()
	default:
		p.dropped++
		n := p.dropped
		p.mu.Unlock()
		if p.logger != nil {
			p.logger.Warn("state publish queue full, update dropped",
				"device_id", id,
				"dropped_total", n,
			)
		}
	}
}

// Dropped returns how many updates were discarded on a full queue.
func (p *StatePublisher) Dropped() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Close stops accepting updates, drains the queue, and waits for the
// worker to exit.
func (p *StatePublisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
}

// run is the worker loop. Publish failures are logged and the update
// discarded; the broker's retained state catches up on the next change.
func (p *StatePublisher) run() {
	defer close(p.done)

	for payload := range p.queue {
		data, err := json.Marshal(payload)
		if err != nil {
			if p.logger != nil {
				p.logger.Error("marshaling state payload failed",
					"device_id", payload.DeviceID,
					"error", err,
				)
			}
			continue
		}

		topic := p.topics.DeviceState(payload.DeviceID)
		if err := p.client.PublishRetained(topic, data); err != nil {
			if p.logger != nil {
				p.logger.Warn("publishing device state failed",
					"topic", topic,
					"error", err,
				)
			}
		}
	}
}
