package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/rosterhub/internal/app/models/dto"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
	"github.com/yigit/rosterhub/internal/pkg/logger"
)

// HandleAPIError maps service-layer errors onto HTTP responses. Controllers
// call this instead of switching on error types themselves, so the mapping
// from the error taxonomy to status codes lives in one place.
func HandleAPIError(c *gin.Context, err error) {
	// The wrapped message carries the specific context (which field, which
	// state); the sentinel decides the status code.
	message := err.Error()

	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrStudentNotFound,
		apperrors.ErrCourseNotFound,
		apperrors.ErrParentNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message)

	case apperrors.Is(err, apperrors.ErrConflict,
		apperrors.ErrStudentIDExists,
		apperrors.ErrCourseCodeExists,
		apperrors.ErrParentEmailExists):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message)

	case errors.Is(err, apperrors.ErrInvalidLinkState):
		respondError(c, http.StatusConflict, dto.ErrorCodeInvalidLinkState, message)

	case errors.Is(err, apperrors.ErrInvalidBatchInput):
		respondError(c, http.StatusUnprocessableEntity, dto.ErrorCodeUnusableBatch, message)

	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrBadRequest,
		apperrors.ErrInvalidStudentID,
		apperrors.ErrEmptyReason,
		apperrors.ErrEmptyActor):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message)

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")

	case apperrors.Is(err, apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid or expired token")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
