package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"treecms/internal/session"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func withSession(r *http.Request, data *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), SessionKey, data))
}

func TestRequireAuth(t *testing.T) {
	next, called := okHandler()
	h := RequireAuth(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/categories", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no session: status = %d, want 401", rec.Code)
	}
	if *called {
		t.Error("handler must not run without a session")
	}

	rec = httptest.NewRecorder()
	r := withSession(httptest.NewRequest("POST", "/categories", nil), &session.Data{Username: "alice"})
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Errorf("with session: status = %d, want 200", rec.Code)
	}
	if !*called {
		t.Error("handler should run with a session")
	}
}

func TestRequire2FA(t *testing.T) {
	next, called := okHandler()
	h := Require2FA(next)

	rec := httptest.NewRecorder()
	r := withSession(httptest.NewRequest("POST", "/categories", nil), &session.Data{Username: "alice", TwoFADone: false})
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("2fa pending: status = %d, want 401", rec.Code)
	}
	if *called {
		t.Error("handler must not run before 2FA completes")
	}

	rec = httptest.NewRecorder()
	r = withSession(httptest.NewRequest("POST", "/categories", nil), &session.Data{Username: "alice", TwoFADone: true})
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Errorf("2fa done: status = %d, want 200", rec.Code)
	}
}

func TestSessionFromCtx(t *testing.T) {
	if got := SessionFromCtx(context.Background()); got != nil {
		t.Errorf("empty context returned %+v", got)
	}

	data := &session.Data{Username: "bob"}
	ctx := context.WithValue(context.Background(), SessionKey, data)
	if got := SessionFromCtx(ctx); got != data {
		t.Error("stored session not returned")
	}
}
