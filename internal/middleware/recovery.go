package middleware

import (
	"fmt"
	"net/http"

	"github.com/gatherhq/gatherspace/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery is the single top-level error handler. Anything a handler did not
// deal with locally ends up here as a generic 500; internals are only exposed
// outside production mode.
func Recovery(isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("Unhandled panic in request handler",
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.Any("panic", r),
				)

				body := gin.H{"message": "An unexpected error occurred."}
				if !isProduction {
					body["error"] = fmt.Sprint(r)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}
