package auth

import (
	"errors"
	"time"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrStaleTimestamp = errors.New("timestamp is too old or too far in future")
)

// Service bundles the two request credential schemes: bot tokens for
// long-lived integrations and per-request HMAC signatures for everyone else.
type Service struct {
	JWT    *JWTManager
	Signer *HMACSigner
}

// NewService wires both schemes from config. A non-positive jwtTTL falls
// back to the manager's default lifetime.
func NewService(jwtSecret, issuer, hmacSecret string, jwtTTL time.Duration) *Service {
	return &Service{
		JWT:    NewJWTManager(jwtSecret, issuer, jwtTTL),
		Signer: NewHMACSigner(hmacSecret),
	}
}
