package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/pkg"
)

// Recovery returns a gin middleware that recovers from panics, logs the
// panic value with its stack trace and answers with the standard JSON error
// envelope:
//
//	{"code": 500, "message": "internal error", "data": null}
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("panic", err),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				_ = c.Error(fmt.Errorf("panic: %v", err))
				c.Abort()
				if !c.Writer.Written() {
					pkg.Error(c, domain.ErrInternal)
				}
			}
		}()
		c.Next()
	}
}
