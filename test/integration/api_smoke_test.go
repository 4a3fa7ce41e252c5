package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/ivankudzin/profilehub/internal/app/apiapp"
	"github.com/ivankudzin/profilehub/internal/config"
)

func TestPing(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.Addr = ":0"

	app, err := apiapp.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	ts := httptest.NewServer(app.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ping")
	if err != nil {
		t.Fatalf("get ping: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusOK)
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != "OK" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestUsersRoutesRequireAuth(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.Addr = ":0"

	app, err := apiapp.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	ts := httptest.NewServer(app.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/users/profiles")
	if err != nil {
		t.Fatalf("get profiles: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}
