package middleware

import (
	"net/http"
	"strings"

	"codekick-backend/internal/common/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ownerIDKey  = "owner_id"
	identityKey = "identity"
)

// RequireAuth resolves the Bearer token into the caller identity and aborts with 401 otherwise
func RequireAuth(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "No authorization header",
				"code":  "unauthorized",
			})
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
				"code":  "unauthorized",
			})
			return
		}

		c.Set(ownerIDKey, identity.UserID)
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OwnerID returns the authenticated caller's id, or uuid.Nil when RequireAuth did not run
func OwnerID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ownerIDKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

// CurrentIdentity returns the identity stored by RequireAuth
func CurrentIdentity(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*auth.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
