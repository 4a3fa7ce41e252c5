package auth

import (
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type botClaims struct {
	BotID string `json:"bot_id"`
	jwt.RegisteredClaims
}

type BotClaims struct {
	BotID     string
	ExpiresAt time.Time
}

func NewJWTManager(secret, issuer string, ttl time.Duration) *JWTManager {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate issues a service token for a bot identity. Every token carries
// a fresh jti so issued tokens stay distinguishable in logs.
func (m *JWTManager) Generate(botID string) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("jwt secret is empty")
	}
	if strings.TrimSpace(botID) == "" {
		return "", time.Time{}, fmt.Errorf("bot id is required")
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := botClaims{
		BotID: botID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

func (m *JWTManager) Parse(raw string) (BotClaims, error) {
	if strings.TrimSpace(raw) == "" {
		return BotClaims{}, ErrUnauthorized
	}

	claims := &botClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || token == nil || !token.Valid {
		return BotClaims{}, ErrUnauthorized
	}

	if strings.TrimSpace(claims.BotID) == "" {
		return BotClaims{}, ErrUnauthorized
	}
	if claims.ExpiresAt == nil {
		return BotClaims{}, ErrUnauthorized
	}

	return BotClaims{
		BotID:     claims.BotID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
