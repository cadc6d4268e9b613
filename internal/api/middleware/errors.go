package middleware

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/hottakes/hottakes-api/internal/apperr"
)

// ErrorHandler renders the last error recorded with c.Error. Handlers never
// write error bodies themselves.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := apperr.Render(err)
		if status >= 500 {
			LoggerFrom(c).WithError(err).Error("request failed")
		}
		c.JSON(status, body)
	}
}

// Recovery turns a panic into an unknown error so ErrorHandler answers with
// the generic 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		LoggerFrom(c).WithField("stack", string(debug.Stack())).Errorf("panic recovered: %v", rec)
		_ = c.Error(fmt.Errorf("panic: %v", rec))
		c.Abort()
	})
}
