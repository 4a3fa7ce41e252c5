package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "github.com/ivankudzin/profilehub/internal/services/auth"
)

func newSignedTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()

	signer := authsvc.NewHMACSigner("supersecret")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts := r.Header.Get("X-Timestamp")
		sig := r.Header.Get("X-Signature")
		if err := signer.Verify(ts, sig); err != nil {
			t.Errorf("request arrived unsigned: %v", err)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}))

	client, err := NewClient(server.URL, signer, 5*time.Second)
	if err != nil {
		t.Fatalf("create api client: %v", err)
	}

	return server, client
}

func TestCreateProfileSignsRequest(t *testing.T) {
	server, client := newSignedTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/profiles" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var payload ProfilePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.TelegramID != 42 || payload.Name != "Adam" {
			t.Errorf("unexpected payload %+v", payload)
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]int64{"telegram_id": payload.TelegramID})
	})
	defer server.Close()

	err := client.CreateProfile(context.Background(), ProfilePayload{
		TelegramID: 42,
		Name:       "Adam",
		Age:        99,
		City:       "Eden",
		Sex:        "male",
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
}

func TestCreateProfileConflict(t *testing.T) {
	server, client := newSignedTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "profile already exists"})
	})
	defer server.Close()

	err := client.CreateProfile(context.Background(), ProfilePayload{TelegramID: 42, Name: "Adam", Age: 1, City: "X"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	server, client := newSignedTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/42/profiles" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(profileResponse{
			TelegramID: 42,
			Name:       "Adam",
			Age:        99,
			City:       "Eden",
			Sex:        "male",
		})
	})
	defer server.Close()

	profile, err := client.GetProfile(context.Background(), 42)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.Name != "Adam" || profile.City != "Eden" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	server, client := newSignedTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "profile not found"})
	})
	defer server.Close()

	if _, err := client.GetProfile(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteProfile(t *testing.T) {
	server, client := newSignedTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/users/42/profiles" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	defer server.Close()

	if err := client.DeleteProfile(context.Background(), 42); err != nil {
		t.Fatalf("delete profile: %v", err)
	}
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	signer := authsvc.NewHMACSigner("supersecret")

	if _, err := NewClient("", signer, time.Second); err == nil {
		t.Fatalf("expected error on empty base url")
	}
	if _, err := NewClient("not-a-url", signer, time.Second); err == nil {
		t.Fatalf("expected error on url without scheme")
	}
	if _, err := NewClient("http://localhost:8080", nil, time.Second); err == nil {
		t.Fatalf("expected error on nil signer")
	}
}
