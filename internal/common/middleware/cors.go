package middleware

import (
	"os"
	"strings"
	"time"

	"codekick-backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupCORS configures CORS middleware with environment-specific settings.
// The headers match what the web client sends to the verification endpoints.
func SetupCORS(env string) (gin.HandlerFunc, error) {
	allowOrigins, err := getAllowedOrigins(env)
	if err != nil {
		return nil, err
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Client-Info", "Apikey"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !containsWildcard(allowOrigins),
		MaxAge:           12 * time.Hour,
	}), nil
}

func getAllowedOrigins(env string) ([]string, error) {
	if originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS"); originsEnv != "" {
		return parseOrigins(originsEnv), nil
	}

	if utils.IsProduction(env) {
		return nil, errCORSOriginsRequired
	}

	return []string{"*"}, nil
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	var result []string

	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// gin-contrib/cors rejects AllowCredentials together with a "*" origin
func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
