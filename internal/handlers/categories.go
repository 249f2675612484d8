// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"treecms/internal/models"
	"treecms/internal/service"
)

// Categories groups the category HTTP handlers.
type Categories struct {
	svc *service.CategoryService
}

// NewCategories creates the category handler group.
func NewCategories(svc *service.CategoryService) *Categories {
	return &Categories{svc: svc}
}

// List serves GET /categories as a flat list. Deployments that prefer a
// nested default can route it to Tree instead; both shapes stay
// available under /categories/flat and /categories/tree.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Flat(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, emptyList(items))
}

// Tree serves GET /categories/tree: the full forest, children nested.
func (h *Categories) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.Tree(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, emptyList(tree))
}

// Flat serves GET /categories/flat.
func (h *Categories) Flat(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Flat(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, emptyList(items))
}

// Get serves GET /categories/{id}.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	cat, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cat)
}

// Children serves GET /categories/{id}/children.
func (h *Categories) Children(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	items, err := h.svc.Children(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, emptyList(items))
}

// Descendants serves GET /categories/{id}/descendants.
func (h *Categories) Descendants(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	items, err := h.svc.Descendants(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, emptyList(items))
}

// Create serves POST /categories.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	cat, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cat)
}

// optionalUUID distinguishes "field absent" from "field null" in a
// PUT body: an explicit null moves a category to the root, while an
// absent parentId leaves the parent untouched.
type optionalUUID struct {
	Set bool
	ID  *uuid.UUID
}

func (o *optionalUUID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.ID = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	o.ID = &id
	return nil
}

// updateCategoryPayload is the wire shape of PUT /categories/{id}.
type updateCategoryPayload struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	SortOrder   *int         `json:"sortOrder"`
	ParentID    optionalUUID `json:"parentId"`
}

// Update serves PUT /categories/{id}. A present parentId (even null)
// requests a move.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var payload updateCategoryPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, err)
		return
	}

	req := service.UpdateCategoryRequest{
		Name:        payload.Name,
		Description: payload.Description,
		SortOrder:   payload.SortOrder,
	}
	if payload.ParentID.Set {
		req.Parent = &service.ParentChange{ID: payload.ParentID.ID}
	}

	cat, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cat)
}

// Delete serves DELETE /categories/{id}?handleChildren=&handleContent=.
// Both policies default to PREVENT.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	handleChildren, ok := models.ParseDeletePolicy(r.URL.Query().Get("handleChildren"))
	if !ok {
		respondError(w, fmt.Errorf("%w: unknown handleChildren value", service.ErrValidation))
		return
	}
	handleContent, ok := models.ParseDeletePolicy(r.URL.Query().Get("handleContent"))
	if !ok {
		respondError(w, fmt.Errorf("%w: unknown handleContent value", service.ErrValidation))
		return
	}

	if err := h.svc.Delete(r.Context(), id, handleChildren, handleContent); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
