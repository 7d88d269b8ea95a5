package config

import "os"

// JwtKey signs and verifies the HMAC login tokens.
var JwtKey = []byte(Getenv("JWT_SECRET", "dev-secret-change-me"))

// Getenv returns the environment variable or a fallback when unset.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
