package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/logger"
)

// abortWithError stops the chain with the standard error envelope.
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// ErrorHandler renders errors attached with c.Error once the handler chain
// returns. AppErrors keep their code and status; anything else is logged and
// reported as INTERNAL_ERROR. Responses already written are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		log := logger.Named("http")

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				log.Errorw("app error",
					"request_id", RequestID(c),
					"code", appErr.Code,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			abortWithError(c, appErr.StatusCode, appErr.Code, appErr.Message)
			return
		}

		log.Errorw("unexpected error",
			"request_id", RequestID(c),
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		abortWithError(c, apperrors.ErrInternalServer.StatusCode,
			apperrors.ErrInternalServer.Code, apperrors.ErrInternalServer.Message)
	}
}

// NoRoute answers unknown paths with the JSON envelope instead of gin's
// plain-text 404.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	}
}

// NoMethod answers a known path hit with an unsupported verb.
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWithError(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	}
}

// Recovery converts a panic into a logged INTERNAL_ERROR response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Named("http").Errorw("panic recovered",
			"request_id", RequestID(c),
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		abortWithError(c, apperrors.ErrInternalServer.StatusCode,
			apperrors.ErrInternalServer.Code, apperrors.ErrInternalServer.Message)
	})
}
