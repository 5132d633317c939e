// Package api implements the HTTP REST API and WebSocket server for HomeSim Core.
//
// This package provides:
//   - REST endpoints for device listing, retrieval, and partial updates
//   - Derived statistics and room listing endpoints
//   - Telemetry ingestion and recent-readings queries
//   - WebSocket hub for real-time state change broadcasts
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Architecture
//
// The API server sits between user interfaces and the device registry.
// Every write goes through the registry's single mutation entry point,
// which notifies the WebSocket hub, so connected clients observe one
// update per committed change regardless of origin (API, telemetry
// ingestion, or the simulation driver).
//
// # Real-Time Ordering
//
// A WebSocket client receives a full state snapshot on connect, before
// any incremental update. Snapshot construction and hub registration
// happen inside Registry.Subscribe, under the registry read lock, so no
// mutation can slip between a client's baseline and its first delta.
package api
