package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/logger"
)

// abortWithError stops the chain and writes the standard error envelope.
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// abortWithAppError is abortWithError for an AppError sentinel.
func abortWithAppError(c *gin.Context, appErr *apperrors.AppError) {
	abortWithError(c, appErr.StatusCode, appErr.Code, appErr.Message)
}

// ErrorHandler renders the last error attached to the context unless a
// handler already wrote a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		RespondError(c, c.Errors.Last().Err)
	}
}

// RespondError writes err as the standard error envelope and aborts the chain.
// AppErrors keep their code and message; anything else becomes INTERNAL_ERROR
// so internals never reach the client. Server-side failures are logged with
// the request ID.
func RespondError(c *gin.Context, err error) {
	log := logger.Get().With(
		"request_id", c.GetString(requestIDKey),
		"method", c.Request.Method,
		"route", c.FullPath(),
	)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Errorw("unexpected error", "error", err.Error())
		abortWithAppError(c, apperrors.ErrInternalServer)
		return
	}

	switch {
	case appErr.StatusCode >= http.StatusInternalServerError:
		log.Errorw("request failed", "code", appErr.Code, "internal", internalMessage(appErr))
	case appErr.Internal != nil:
		log.Warnw("request rejected", "code", appErr.Code, "internal", appErr.Internal.Error())
	}
	abortWithAppError(c, appErr)
}

func internalMessage(appErr *apperrors.AppError) string {
	if appErr.Internal == nil {
		return ""
	}
	return appErr.Internal.Error()
}
