// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API surface. Handlers stay thin:
// they decode requests, call services, and translate typed service
// errors into HTTP status codes. Response bodies are raw JSON — any
// envelope convention a frontend variant expects can be layered here
// without touching the engine.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"treecms/internal/service"
)

// respondJSON writes v as a JSON response. It marshals before writing
// headers so an encoding failure cannot produce a half-written body.
func respondJSON(w http.ResponseWriter, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("response encoding failed", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// respondError maps service errors onto HTTP status codes:
// validation → 400, not found → 404, conflict → 409, auth → 401.
// Anything unrecognized is a 500 and gets logged.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		respondJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}

	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeJSON decodes a request body, rejecting unknown fields and
// mapping decode failures to validation errors.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", service.ErrValidation, err)
	}
	return nil
}

// pathID parses the {id} URL parameter as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed id %q", service.ErrValidation, raw)
	}
	return id, nil
}

// emptyList substitutes an empty slice for nil so listings always
// serialize as [] rather than null.
func emptyList[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
