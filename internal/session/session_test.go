package session

import (
	"net/http/httptest"
	"testing"
)

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Bearer   abc123  ", "abc123"},
		{"Basic abc123", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		if got := TokenFromRequest(r); got != tt.want {
			t.Errorf("TokenFromRequest(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestGenerateTokenIsUniqueHex(t *testing.T) {
	a, err := generateToken()
	if err != nil {
		t.Fatal(err)
	}
	b, err := generateToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != idLength*2 {
		t.Errorf("token length = %d, want %d hex chars", len(a), idLength*2)
	}
	if a == b {
		t.Error("two generated tokens collided")
	}
}
