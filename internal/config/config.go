package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          int
	LibraryRoot   string
	StaticDir     string
	PublicDir     string
	AdminPassword string // plain text or bcrypt hash
	AdminSecret   string
	TokenTTL      time.Duration
	CacheTTL      time.Duration
	CacheSize     int
	CORSOrigin    string
}

func Load() *Config {
	cfg := &Config{
		Port:          envInt("PORT", 8080),
		LibraryRoot:   env("LIBRARY_ROOT", "."),
		StaticDir:     env("STATIC_DIR", "static"),
		PublicDir:     env("PUBLIC_DIR", "public"),
		AdminPassword: env("ADMIN_PASSWORD", ""),
		AdminSecret:   env("ADMIN_SECRET", ""),
		TokenTTL:      time.Duration(envInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		CacheTTL:      time.Duration(envInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		CacheSize:     envInt("CACHE_MAX_ENTRIES", 100),
		CORSOrigin:    env("CORS_ORIGIN", "*"),
	}

	if cfg.AdminPassword == "" {
		log.Println("config: ADMIN_PASSWORD not set, admin login is disabled")
	}
	if cfg.AdminSecret == "" {
		// Tokens signed with a random secret stop working on restart,
		// which is acceptable for an unset deployment.
		cfg.AdminSecret = randomSecret()
		log.Println("config: ADMIN_SECRET not set, generated a random token secret for this run")
	}
	return cfg
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("config: could not generate token secret: %v", err)
	}
	return hex.EncodeToString(b)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
