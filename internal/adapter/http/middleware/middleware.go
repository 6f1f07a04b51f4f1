// Package middleware holds the request-scoped guards between the JWT
// layer and the handlers: identity resolution and admin authority.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskvault/internal/adapter/http/helper"
	"taskvault/internal/core/domain"
	"taskvault/internal/core/port"
	"taskvault/pkg/auth"
)

const contextOwnerKey = "x-owner"

// RequestIDMiddleware guarantees every request carries an X-Request-ID,
// echoing the client's when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")

		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

// OwnerMiddleware resolves the authenticated principal into its user
// record. Tokens for suspended or deleted accounts stop here; handlers
// downstream can rely on the owner being a live user.
func OwnerMiddleware(users port.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := users.ResolveOwner(c.Request.Context(), auth.UserID(c))

		if err != nil {
			helper.SendDomainError(c, err)
			c.Abort()
			return
		}

		c.Set(contextOwnerKey, owner)
		c.Next()
	}
}

// AdminMiddleware allows only resolved owners with the admin role through.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := CurrentOwner(c)

		if !ok || !owner.IsAdmin() {
			helper.SendForbiddenError(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

func CurrentOwner(c *gin.Context) (domain.User, bool) {
	raw, exists := c.Get(contextOwnerKey)

	if !exists {
		return domain.User{}, false
	}

	owner, ok := raw.(domain.User)

	return owner, ok
}
