package config

import (
	"os"
	"strconv"
	"time"
)

// GetEnv returns the value of the environment variable or the fallback
// when it is unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetEnvInt parses an integer environment variable, falling back on
// missing or malformed values.
func GetEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvFloat parses a float environment variable, falling back on
// missing or malformed values.
func GetEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// GetEnvDuration parses a duration environment variable ("30m", "24h"),
// falling back on missing or malformed values.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// WarningThreshold returns the shortfall percentage above which a monthly
// report raises its warning flag. The same threshold is used everywhere a
// report is generated.
func WarningThreshold() float64 {
	return GetEnvFloat("REPORT_WARNING_THRESHOLD", 15.0)
}

// EstimateTTL returns how long a cached portion estimate stays valid.
func EstimateTTL() time.Duration {
	return GetEnvDuration("ESTIMATE_CACHE_TTL", 24*time.Hour)
}

// ReportTTL returns how long a cached monthly report stays valid.
func ReportTTL() time.Duration {
	return GetEnvDuration("REPORT_CACHE_TTL", 30*24*time.Hour)
}

// JWTSecret returns the key used to sign and validate auth tokens.
func JWTSecret() []byte {
	return []byte(GetEnv("JWT_SECRET", "dev-secret-change-me"))
}
