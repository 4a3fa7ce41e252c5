package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ivankudzin/profilehub/internal/config"
	authsvc "github.com/ivankudzin/profilehub/internal/services/auth"
)

// tokengen prints a signed bot token for calling the profile API.
func main() {
	var (
		botID = flag.String("bot-id", "telegram-bot", "bot identity to embed in the token")
		ttl   = flag.Duration("ttl", 0, "token lifetime (defaults to auth.jwt_ttl from config)")
	)
	flag.Parse()

	cfg, err := config.Load(os.Getenv("APP_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = cfg.Auth.JWTTTL
	}

	mgr := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, lifetime)
	token, expiresAt, err := mgr.Generate(*botID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires at:", expiresAt.UTC().Format(time.RFC3339))
}
