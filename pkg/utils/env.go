package utils

import "os"

// Normalized deployment environments returned by GetEnvironment
const (
	EnvProduction  = "prod"
	EnvDevelopment = "dev"
)

// GetEnv retrieves environment variable or returns default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvironment returns the normalized deployment environment based on GO_ENV
// GO_ENV=prod or production → prod
// Any other value → dev
func GetEnvironment() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "prod" || goEnv == "production" {
		return EnvProduction
	}
	return EnvDevelopment
}

// IsProduction reports whether a normalized environment name is production
func IsProduction(env string) bool {
	return env == EnvProduction
}
