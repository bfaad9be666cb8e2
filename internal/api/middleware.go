// internal/api/middleware.go
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const authorIDKey = "author_id"

// corsMiddleware allows the reader app origin to call the draft API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestIDMiddleware tags every request for log correlation.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// bearerAuthMiddleware resolves the author from the Authorization header.
// Session issuance lives in the platform's auth service; here the bearer
// token is the opaque author credential it hands out.
func bearerAuthMiddleware(rh *ResponseHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			rh.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}
		if !validAuthorToken(token) {
			rh.Unauthorized(c, "invalid bearer token")
			c.Abort()
			return
		}

		c.Set(authorIDKey, token)
		c.Next()
	}
}

// queryTokenAuthMiddleware authenticates the beacon variant of the draft
// save. The browser beacon transport cannot set headers, so the token rides
// in the query string for this one endpoint.
func queryTokenAuthMiddleware(rh *ResponseHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			rh.Unauthorized(c, "missing token")
			c.Abort()
			return
		}
		if !validAuthorToken(token) {
			rh.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(authorIDKey, token)
		c.Next()
	}
}

// validAuthorToken screens the opaque credential before it doubles as the
// author's storage identifier. Path separators and dot segments would let a
// forged token address another author's drafts, so they are rejected here in
// addition to the encoding the stores apply.
func validAuthorToken(token string) bool {
	if token == "." || token == ".." {
		return false
	}
	return !strings.ContainsAny(token, "/\\")
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	token := strings.TrimPrefix(header, "Bearer ")
	return strings.TrimSpace(token)
}

func authorID(c *gin.Context) string {
	return c.GetString(authorIDKey)
}
