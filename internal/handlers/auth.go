// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"treecms/internal/middleware"
	"treecms/internal/service"
	"treecms/internal/session"
	"treecms/internal/store"
)

// Auth groups all authentication-related HTTP handlers. Tokens are
// opaque bearer credentials the frontends keep in localStorage.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login serves POST /auth/login. On success it issues a bearer token;
// accounts with TOTP enabled get a token that must pass /auth/2fa/verify
// before it can reach mutating routes.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := a.userStore.FindByUsername(req.Username)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		// Same answer for unknown user and wrong password.
		respondError(w, fmt.Errorf("%w: invalid username or password", service.ErrUnauthorized))
		return
	}

	token, err := a.sessions.Create(r.Context(), &session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		TwoFADone: !user.TOTPEnabled,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("user logged in", "username", user.Username, "totp_required", user.TOTPEnabled)
	respondJSON(w, http.StatusOK, map[string]any{
		"token":        token,
		"totpRequired": user.TOTPEnabled,
	})
}

// Logout serves POST /auth/logout, revoking the presented token.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	token := session.TokenFromRequest(r)
	if token != "" {
		if err := a.sessions.Revoke(r.Context(), token); err != nil {
			respondError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// TwoFASetup serves POST /auth/2fa/setup: it generates a fresh TOTP
// secret for the logged-in user and returns the provisioning URI plus a
// QR code PNG for authenticator apps. Enrollment completes on the first
// successful verify.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "TreeCMS",
		AccountName: sess.Username,
	})
	if err != nil {
		respondError(w, fmt.Errorf("totp generate: %w", err))
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		respondError(w, err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		respondError(w, fmt.Errorf("qr encode: %w", err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"secret":     key.Secret(),
		"otpauthUrl": key.URL(),
		"qrPng":      base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type twoFAVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify serves POST /auth/2fa/verify: it checks a TOTP code,
// finishes enrollment if needed, and marks the session 2FA-complete.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req twoFAVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil || user.TOTPSecret == nil {
		respondError(w, fmt.Errorf("%w: 2FA is not set up", service.ErrConflict))
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondError(w, fmt.Errorf("%w: invalid verification code", service.ErrUnauthorized))
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			respondError(w, err)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), session.TokenFromRequest(r), sess); err != nil {
		respondError(w, err)
		return
	}

	slog.Info("2fa verified", "username", user.Username)
	respondJSON(w, http.StatusOK, map[string]bool{"verified": true})
}
