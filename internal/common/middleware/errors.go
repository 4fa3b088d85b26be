package middleware

import "errors"

var errCORSOriginsRequired = errors.New("CORS_ALLOWED_ORIGINS must be set in production")
