// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service implements the content engine: the category tree with
// its deletion policies, and the content publication lifecycle. Services
// return typed errors; translating them into HTTP status codes or
// response envelopes is the API layer's job.
package service

import "errors"

// Sentinel errors returned by all services. Callers match with
// errors.Is; services wrap them with context via fmt.Errorf and %w.
var (
	// ErrValidation marks missing or malformed input fields.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced category or content id that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks operations rejected by current state: cyclic
	// moves, PREVENT-policy deletions, repeated publish/unpublish.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized marks failed credential or token checks.
	ErrUnauthorized = errors.New("unauthorized")
)
