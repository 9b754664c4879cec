package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/middleware"
	"sportfund/internal/uuid"
)

// ErrorDetail is the body of an error envelope.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope every failed request returns.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// getUserID returns the authenticated caller, or ErrUnauthorized when the
// route was mounted without the auth middleware.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID reads a UUID path parameter in canonical form.
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

func respondWithError(c *gin.Context, err error) {
	middleware.RespondError(c, err)
}
