package middleware

import (
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"docverify-backend/internal/shared/server/respond"
	"docverify-backend/internal/shared/telemetry"
)

// Recovery turns a panic inside a handler into a 500 error body. The panic is
// logged with the client and transaction ids known at that point.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		telemetry.Error("panic", map[string]any{
			"request_id":     RequestIDFromContext(c),
			"client_id":      c.GetString("clientId"),
			"transaction_id": c.GetString("transactionId"),
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"error":          rec,
			"stack":          string(debug.Stack()),
		})
		respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		c.Abort()
	})
}
