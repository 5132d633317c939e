package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homesim/homesim-core/internal/device"
)

// handleListDevices returns all devices, optionally filtered by room
// or kind. When both filters are given, room wins.
//
// GET /api/v1/devices?room=kitchen
// GET /api/v1/devices?type=light
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	var devices []*device.Device
	switch {
	case r.URL.Query().Get("room") != "":
		devices = s.registry.ByRoom(r.URL.Query().Get("room"))
	case r.URL.Query().Get("type") != "":
		devices = s.registry.ByKind(device.Kind(r.URL.Query().Get("type")))
	default:
		devices = s.registry.All()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleGetDevice returns a single device by identifier.
//
// GET /api/v1/devices/{location}/{kind}/{instance}
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := s.deviceIDFromPath(w, r)
	if !ok {
		return
	}

	d, err := s.registry.Get(id)
	if err != nil {
		writeNotFound(w, "device not found: "+id)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// handleUpdateDevice applies a sparse patch to a device.
//
// PATCH /api/v1/devices/{location}/{kind}/{instance}
//
// The merge is all-or-nothing: any illegal or out-of-range field
// rejects the whole patch and leaves the device unchanged.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := s.deviceIDFromPath(w, r)
	if !ok {
		return
	}

	var patch device.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if patch.IsEmpty() {
		writeBadRequest(w, "patch contains no fields")
		return
	}

	updated, err := s.registry.Apply(id, patch)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, updated)
	case errors.Is(err, device.ErrNotFound):
		writeNotFound(w, "device not found: "+id)
	case device.IsValidationError(err):
		writeValidationError(w, err.Error())
	default:
		s.logger.Error("device update failed", "id", id, "error", err)
		writeInternalError(w, "device update failed")
	}
}

// handleStats returns derived system statistics.
//
// GET /api/v1/stats
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.GetStats())
}

// handleListRooms returns the known room list.
//
// GET /api/v1/rooms
func (s *Server) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rooms": device.DefaultRooms(),
	})
}

// deviceIDFromPath extracts and normalises the device identifier from
// the route's trailing wildcard. Writes a validation error and returns
// ok=false when the identifier is malformed.
func (s *Server) deviceIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "*")
	id, err := device.ValidateID(raw)
	if err != nil {
		writeValidationError(w, err.Error())
		return "", false
	}
	return id, true
}
