package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/ferrarijessie/j.money.api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// credentialRoute reports whether the request body carries secrets that
// must never reach the audit trail.
func credentialRoute(path string) bool {
	switch path {
	case "/api/auth/signup", "/api/auth/login", "/api/me/password":
		return true
	}
	return false
}

// AuditMiddleware records mutating requests of authenticated users into the
// audit trail. Reads are not logged, and bodies of credential routes are
// dropped from the action text.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint
		if user, ok := CurrentUser(c); ok {
			userID = user.ID
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		if userID == 0 || c.Request.Method == http.MethodGet {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < 2000 && !credentialRoute(path) {
			action += " " + string(bodyBytes)
		}

		log := models.AuditLog{
			UserID:    &userID,
			Method:    c.Request.Method,
			Path:      path,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&log).Error
	}
}
