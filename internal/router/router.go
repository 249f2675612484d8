// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// TreeCMS API. Reads are public; mutations require an authenticated,
// 2FA-complete bearer token.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"treecms/internal/handlers"
	"treecms/internal/middleware"
	"treecms/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	sessionStore *session.Store,
	auth *handlers.Auth,
	categories *handlers.Categories,
	contents *handlers.Contents,
	allowedOrigins []string,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Login sits behind a rate limit to slow down credential stuffing.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	r.Route("/auth", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categories.List)
		r.Get("/tree", categories.Tree)
		r.Get("/flat", categories.Flat)
		r.Get("/{id}", categories.Get)
		r.Get("/{id}/children", categories.Children)
		r.Get("/{id}/descendants", categories.Descendants)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Post("/", categories.Create)
			r.Put("/{id}", categories.Update)
			r.Delete("/{id}", categories.Delete)
		})
	})

	r.Route("/contents", func(r chi.Router) {
		r.Get("/", contents.List)
		r.Get("/{id}", contents.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Post("/", contents.Create)
			r.Post("/upload", contents.Upload)
			r.Put("/{id}", contents.Update)
			r.Delete("/{id}", contents.Delete)
			r.Post("/{id}/publish", contents.Publish)
			r.Post("/{id}/unpublish", contents.Unpublish)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
