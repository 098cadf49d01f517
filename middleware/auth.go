package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dtinth/auden/services"
)

// AuthMiddleware validates the bearer token and exposes the actor identity
// (uid, display name) to handlers. The uid is the key for every
// private-subtree write.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			c.Abort()
			return
		}

		uid, name, err := ParseToken(token, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("uid", uid)
		c.Set("display_name", name)
		c.Next()
	}
}

// AdminMiddleware rejects users without the /admins/{uid} flag. Must run
// after AuthMiddleware.
func AdminMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("uid")
		if uid == "" || !auth.IsAdmin(uid) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ParseToken verifies a signed token and returns the uid and display name
// claims.
func ParseToken(tokenString string, jwtSecret string) (uid string, name string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	uid, _ = claims["uid"].(string)
	name, _ = claims["name"].(string)
	if uid == "" {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	return uid, name, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// Websocket clients cannot set headers from the browser; accept the
	// token as a query parameter there.
	return c.Query("token")
}
