package auth

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestHMACVerifyAcceptsFreshSignature(t *testing.T) {
	signer := NewHMACSigner("supersecret")
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return fixed }

	ts := strconv.FormatInt(fixed.Unix(), 10)
	if err := signer.Verify(ts, signer.Sign(ts)); err != nil {
		t.Fatalf("verify fresh signature: %v", err)
	}
}

func TestHMACVerifyRejectsStaleTimestamp(t *testing.T) {
	signer := NewHMACSigner("supersecret")
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return fixed }

	ts := strconv.FormatInt(fixed.Add(-31*time.Second).Unix(), 10)
	err := signer.Verify(ts, signer.Sign(ts))
	if !errors.Is(err, ErrStaleTimestamp) {
		t.Fatalf("expected stale timestamp error, got %v", err)
	}
}

func TestHMACVerifyRejectsWrongSecret(t *testing.T) {
	signer := NewHMACSigner("supersecret")
	other := NewHMACSigner("othersecret")
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return fixed }

	ts := strconv.FormatInt(fixed.Unix(), 10)
	err := signer.Verify(ts, other.Sign(ts))
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestHMACVerifyRejectsGarbageTimestamp(t *testing.T) {
	signer := NewHMACSigner("supersecret")

	if err := signer.Verify("not-a-number", "deadbeef"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := signer.Verify("", ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized on empty headers, got %v", err)
	}
}

func TestHMACVerifyRejectsAbsurdTimestamp(t *testing.T) {
	signer := NewHMACSigner("supersecret")
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return fixed }

	// A drift this large used to wrap the skew arithmetic.
	ts := strconv.FormatInt(fixed.Unix()+10_000_000_000, 10)
	err := signer.Verify(ts, signer.Sign(ts))
	if !errors.Is(err, ErrStaleTimestamp) {
		t.Fatalf("expected stale timestamp error, got %v", err)
	}

	ts = strconv.FormatInt(-9_000_000_000_000_000_000, 10)
	err = signer.Verify(ts, signer.Sign(ts))
	if !errors.Is(err, ErrStaleTimestamp) {
		t.Fatalf("expected stale timestamp error on huge negative, got %v", err)
	}
}

func TestServiceUsesConfiguredTokenTTL(t *testing.T) {
	svc := NewService("supersecret", "profilehub", "hmacsecret", 2*time.Hour)

	before := time.Now()
	_, expiresAt, err := svc.JWT.Generate("telegram-bot")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	lifetime := expiresAt.Sub(before)
	if lifetime < 2*time.Hour-time.Minute || lifetime > 2*time.Hour+time.Minute {
		t.Fatalf("expected roughly 2h lifetime, got %s", lifetime)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	mgr := NewJWTManager("supersecret", "profilehub", time.Hour)

	token, expiresAt, err := mgr.Generate("telegram-bot")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := mgr.Parse(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.BotID != "telegram-bot" {
		t.Fatalf("unexpected bot id %q", claims.BotID)
	}
}

func TestJWTRejectsWrongIssuer(t *testing.T) {
	issuerA := NewJWTManager("supersecret", "profilehub", time.Hour)
	issuerB := NewJWTManager("supersecret", "someone-else", time.Hour)

	token, _, err := issuerB.Generate("telegram-bot")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := issuerA.Parse(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized on issuer mismatch, got %v", err)
	}
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	mgr := NewJWTManager("supersecret", "profilehub", time.Hour)
	mgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := mgr.Generate("telegram-bot")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	fresh := NewJWTManager("supersecret", "profilehub", time.Hour)
	if _, err := fresh.Parse(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized on expired token, got %v", err)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	mgr := NewJWTManager("supersecret", "profilehub", time.Hour)
	other := NewJWTManager("othersecret", "profilehub", time.Hour)

	token, _, err := other.Generate("telegram-bot")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := mgr.Parse(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized on secret mismatch, got %v", err)
	}
}
