package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/homesim/homesim-core/internal/device"
	"github.com/homesim/homesim-core/internal/telemetry"
)

// ingestRequest is the body accepted by the telemetry ingestion endpoint.
type ingestRequest struct {
	DeviceID   string    `json:"deviceId"`
	SensorKind string    `json:"sensorKind"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Timestamp  time.Time `json:"timestamp"`
}

// handleIngestTelemetry appends a sensor reading and, for thermostat
// temperature readings, routes the value through the registry's
// mutation path so subscribers observe the change.
//
// POST /api/v1/telemetry
func (s *Server) handleIngestTelemetry(w http.ResponseWriter, r *http.Request) {
	if s.telemetry == nil {
		writeNotFound(w, "telemetry store not configured")
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if req.SensorKind == "" {
		writeValidationError(w, "sensorKind is required")
		return
	}

	id, err := device.ValidateID(req.DeviceID)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := s.telemetry.Record(r.Context(), telemetry.Reading{
		DeviceID:   id,
		SensorKind: req.SensorKind,
		Value:      req.Value,
		Unit:       req.Unit,
		Timestamp:  req.Timestamp,
	}); err != nil {
		s.logger.Error("telemetry record failed", "id", id, "error", err)
		writeInternalError(w, "recording reading failed")
		return
	}

	// Thermostat temperature readings also update live device state.
	updated := false
	if req.SensorKind == "temperature" {
		if d, err := s.registry.Get(id); err == nil && d.Kind == device.KindThermostat {
			current := int(math.Round(req.Value))
			if _, err := s.registry.Apply(id, device.Patch{CurrentTemp: &current}); err != nil {
				writeValidationError(w, err.Error())
				return
			}
			updated = true
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":        "recorded",
		"deviceUpdated": updated,
	})
}

// handleGetTelemetry returns recent readings for one device, newest first.
//
// GET /api/v1/telemetry/{location}/{kind}/{instance}?limit=50
func (s *Server) handleGetTelemetry(w http.ResponseWriter, r *http.Request) {
	if s.telemetry == nil {
		writeNotFound(w, "telemetry store not configured")
		return
	}

	raw := chi.URLParam(r, "*")
	id, err := device.ValidateID(raw)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
	}

	readings, err := s.telemetry.Recent(r.Context(), id, limit)
	if err != nil {
		if errors.Is(err, telemetry.ErrInvalidReading) {
			writeBadRequest(w, err.Error())
			return
		}
		s.logger.Error("telemetry query failed", "id", id, "error", err)
		writeInternalError(w, "querying readings failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"deviceId": id,
		"readings": readings,
		"count":    len(readings),
	})
}
