package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/car-rental-bff/internal/backend"
)

// SessionHeader carries the anonymous session ID between browser and service.
const SessionHeader = "X-Session-ID"

// Session identifies the caller for every request.
// A bearer token keys the session by its subject and is forwarded to the
// backend. Without one, the X-Session-ID header is used, and a fresh ID is
// minted when it is missing or malformed.
func Session(reader *ClaimsReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "invalid Authorization header format",
				})
				return
			}

			tokenStr := parts[1]
			claims, err := reader.Read(tokenStr)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "invalid or expired token",
				})
				return
			}

			// Store user info into Gin context for later handlers.
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxUserEmail, claims.Email)
			c.Set(ctxUserRole, claims.Role)
			c.Set(ctxSessionID, "user:"+claims.UserID)
			c.Request = c.Request.WithContext(backend.WithToken(c.Request.Context(), tokenStr))

			c.Next()
			return
		}

		sid := c.GetHeader(SessionHeader)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
		}
		c.Header(SessionHeader, sid)
		c.Set(ctxSessionID, "anon:"+sid)

		c.Next()
	}
}

// AuthRequired rejects requests that did not present a bearer token.
// It MUST be used after Session.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin limits a route to tokens carrying the admin role. The backend
// still authorizes every mutation; this only keeps the admin screens closed.
// It MUST be used after AuthRequired.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "admin role required",
			})
			return
		}
		c.Next()
	}
}
