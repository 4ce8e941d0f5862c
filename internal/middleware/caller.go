package middleware

import "github.com/gin-gonic/gin"

// Caller identity arrives from the upstream auth gateway as trusted
// headers. Authentication itself is out of scope for this service.
const (
	headerCallerID   = "X-Caller-ID"
	headerCallerRole = "X-Caller-Role"

	ctxCallerID   = "callerID"
	ctxCallerRole = "callerRole"
)

// CallerContext copies the caller identity headers into the request
// context. Missing headers leave the caller empty; role checks happen
// in the services.
func CallerContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxCallerID, c.GetHeader(headerCallerID))
		c.Set(ctxCallerRole, c.GetHeader(headerCallerRole))
		c.Next()
	}
}

// CallerID returns the caller's ID, or empty if none was supplied.
func CallerID(c *gin.Context) string {
	return c.GetString(ctxCallerID)
}

// CallerRole returns the caller's role, or empty if none was supplied.
func CallerRole(c *gin.Context) string {
	return c.GetString(ctxCallerRole)
}
