package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/llmwatch/console/internal/config"
)

func authConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:    "test-secret",
		ConsoleToken: "console-token",
		SessionTTL:   time.Hour,
	}
}

func doLogin(t *testing.T, cfg config.AuthConfig, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"token":"`+token+`"}`))
	rec := httptest.NewRecorder()
	Login(cfg)(rec, req)
	return rec
}

func TestLoginIssuesSessionToken(t *testing.T) {
	rec := doLogin(t, authConfig(), "console-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp["session_token"] == "" {
		t.Fatalf("no session token in response: %v", resp)
	}
}

func TestLoginRejectsWrongToken(t *testing.T) {
	if rec := doLogin(t, authConfig(), "guess"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginDisabledWithoutSecret(t *testing.T) {
	if rec := doLogin(t, config.AuthConfig{}, "anything"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRequireSession(t *testing.T) {
	cfg := authConfig()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireSession(cfg)(ok)

	// No token.
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", rec.Code)
	}

	// Garbage token.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d, want 401", rec.Code)
	}

	// Token issued by Login.
	var resp map[string]string
	json.Unmarshal(doLogin(t, cfg, "console-token").Body.Bytes(), &resp)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+resp["session_token"])
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, want 200", rec.Code)
	}
}

func TestRequireSessionOpenWithoutSecret(t *testing.T) {
	guarded := RequireSession(config.AuthConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("open mode status = %d, want 200", rec.Code)
	}
}
