package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/waste3d/pianoplatform-api/internal/infrastructure/security"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminOnly guards the admin route group. With no key hash configured the
// group answers 404 as if it did not exist.
func AdminOnly(verifier *security.AdminKeyVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifier.Enabled() {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if !verifier.Verify(c.GetHeader(AdminKeyHeader)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid admin key"})
			return
		}
		c.Next()
	}
}
