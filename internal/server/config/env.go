package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables, loading a local
// .env file first when one exists. Unset variables leave the corresponding
// fields untouched.
//
// Recognized variables:
//
//	ADDRESS                — HTTP bind address
//	DATABASE_DSN           — PostgreSQL DSN
//	JWT_SECRET             — token signing secret
//	TOKEN_VALIDITY_MINUTES — session token lifetime, minutes
//	ALLOWED_ORIGINS        — comma-separated CORS origin allow-list
func parseEnv(config *Config) {
	// missing .env is fine, env vars may come from the process environment
	_ = godotenv.Load()

	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("TOKEN_VALIDITY_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			config.TokenValidityDuration = minutesToDuration(minutes)
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			config.AllowedOrigins = origins
		}
	}
}
