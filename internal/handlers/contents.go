// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"treecms/internal/markdown"
	"treecms/internal/service"
)

// Contents groups the content HTTP handlers.
type Contents struct {
	svc            *service.ContentService
	uploadMaxBytes int64
}

// NewContents creates the content handler group.
func NewContents(svc *service.ContentService, uploadMaxBytes int64) *Contents {
	return &Contents{svc: svc, uploadMaxBytes: uploadMaxBytes}
}

// List serves GET /contents?status=&categoryId=&skip=&limit=.
func (h *Contents) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var categoryID *uuid.UUID
	if raw := q.Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, fmt.Errorf("%w: malformed categoryId %q", service.ErrValidation, raw))
			return
		}
		categoryID = &id
	}

	skip := intQuery(q.Get("skip"), 0)
	limit := intQuery(q.Get("limit"), 0)

	items, err := h.svc.List(r.Context(), q.Get("status"), categoryID, skip, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, emptyList(items))
}

// Get serves GET /contents/{id}.
func (h *Contents) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Create serves POST /contents.
func (h *Contents) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateContentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	c, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// Update serves PUT /contents/{id}.
func (h *Contents) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req service.UpdateContentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	c, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Delete serves DELETE /contents/{id}.
func (h *Contents) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Publish serves POST /contents/{id}/publish.
func (h *Contents) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	c, err := h.svc.Publish(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Unpublish serves POST /contents/{id}/unpublish.
func (h *Contents) Unpublish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	c, err := h.svc.Unpublish(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Upload serves POST /contents/upload: a multipart file whose text is
// extracted into markdown for the editor. Nothing is persisted here —
// the client decides what to do with the text.
func (h *Contents) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, fmt.Errorf("%w: missing file field: %v", service.ErrValidation, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, fmt.Errorf("%w: reading upload: %v", service.ErrValidation, err))
		return
	}

	text, err := markdown.Extract(header.Filename, data)
	if err != nil {
		if errors.Is(err, markdown.ErrUnsupportedFile) {
			respondError(w, fmt.Errorf("%w: %v", service.ErrValidation, err))
			return
		}
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"filename": header.Filename,
		"markdown": text,
	})
}

// intQuery parses a non-negative integer query value, falling back on
// absent or malformed input.
func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
