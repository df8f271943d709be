package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tuhmaz/edu/internal/app/models/dto"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
	"github.com/tuhmaz/edu/internal/pkg/logger"
)

// HandleAPIError maps an application error onto the HTTP response
func HandleAPIError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		respondError(c, http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
				WithDetails(dto.FieldErrorsFromMap(verr.Fields)))
		return
	}

	var custom *apperrors.CustomError
	message := ""
	if errors.As(err, &custom) {
		message = custom.Message
	}
	orDefault := func(fallback string) string {
		if message != "" {
			return message
		}
		return fallback
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		respondError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed"))
	case errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, orDefault("Bad request")))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, orDefault("Resource not found")))
	case errors.Is(err, apperrors.ErrPartitionUnknown):
		respondError(c, http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Unknown database"))
	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, orDefault("Resource already exists")))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"))
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		respondError(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"))
	case errors.Is(err, apperrors.ErrStorageFailure):
		logServerError(c, err)
		respondError(c, http.StatusBadGateway,
			dto.NewErrorDetail(dto.ErrorCodeStorageError, "File storage failed").
				WithSeverity(dto.ErrorSeverityCritical))
	case errors.Is(err, apperrors.ErrTransactionFailed):
		logServerError(c, err)
		respondError(c, http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Operation was rolled back"))
	default:
		logServerError(c, err)
		respondError(c, http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"))
	}
}

// RespondBadRequest rejects a malformed path or query parameter
func RespondBadRequest(c *gin.Context, message, details string) {
	respondError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, message).WithDetails(details))
}

func respondError(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.AbortWithStatusJSON(status, dto.APIResponse{
		Error:     detail,
		Timestamp: time.Now(),
	})
}

func logServerError(c *gin.Context, err error) {
	logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("requestID", GetRequestID(c)).
		Msg("Request failed")
}
