// Package auth issues and verifies the access tokens the API runs on,
// and carries the gin middleware that turns a bearer token into the
// x-user-id context key.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultAccessTokenTTL = 3 * time.Hour

// ContextUserKey is where the middleware stores the authenticated user id.
const ContextUserKey = "x-user-id"

type JWT struct {
	Secret string
	TTL    time.Duration
}

func NewJWT() *JWT {
	return &JWT{Secret: os.Getenv("JWT_SECRET"), TTL: DefaultAccessTokenTTL}
}

func (j *JWT) Issue(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(j.TTL).Unix(),
	})

	return token.SignedString([]byte(j.Secret))
}

func (j *JWT) Verify(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.Secret), nil
	})

	if err != nil {
		slog.Error("Error verifying token", "error", err)
		return 0, err
	}

	if !token.Valid {
		return 0, fmt.Errorf("invalid access token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["user_id"].(float64)

	if !ok {
		return 0, fmt.Errorf("invalid token subject")
	}

	return int64(sub), nil
}

// GinJwtMiddleware rejects requests without a valid bearer token and sets
// the authenticated user id on the gin context.
func (j *JWT) GinJwtMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Unauthorized request"},
			})

			c.Abort()
			return
		}

		if !strings.HasPrefix(bearer, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Invalid authorization format"},
			})

			c.Abort()
			return
		}

		userID, err := j.Verify(bearer[len("Bearer "):])

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Unauthorized request", err.Error()},
			})

			c.Abort()
			return
		}

		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// UserID reads the authenticated user id the middleware stored.
func UserID(c *gin.Context) int64 {
	id, _ := c.Get(ContextUserKey)

	userID, _ := id.(int64)

	return userID
}
