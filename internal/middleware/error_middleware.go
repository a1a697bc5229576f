package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/aiu/stimulus/internal/app/models/dto"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
	"github.com/aiu/stimulus/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Errors carrying a
// user-facing message keep it; the message may be Russian for workflow and
// validation guards.
func HandleAPIError(c *gin.Context, err error) {
	detail := func(code dto.ErrorCode, fallback string) *dto.ErrorDetail {
		message := apperrors.MessageOf(err)
		if message == "" {
			message = fallback
		}
		errorDetail := dto.NewErrorDetail(code, message)
		if field := apperrors.FieldOf(err); field != "" {
			errorDetail = errorDetail.WithField(field)
		}
		return errorDetail
	}

	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrApplicationNotFound,
		apperrors.ErrPaperNotFound,
		apperrors.ErrCoauthorNotFound,
		apperrors.ErrUserNotFound):
		c.JSON(404, dto.APIResponse{
			Error: detail(dto.ErrorCodeResourceNotFound, "Resource not found"),
		})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: detail(dto.ErrorCodeForbidden, "Permission denied"),
		})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: detail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case errors.Is(err, apperrors.ErrAccountDisabled):
		c.JSON(401, dto.APIResponse{
			Error: detail(dto.ErrorCodeInvalidCredentials, "Account is disabled"),
		})
	case apperrors.Is(err, apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.APIResponse{
			Error: detail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case errors.Is(err, apperrors.ErrPreconditionFailed):
		c.JSON(400, dto.APIResponse{
			Error: detail(dto.ErrorCodePreconditionFailed, "Precondition failed"),
		})
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: detail(dto.ErrorCodeValidationFailed, "Validation failed"),
		})
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: detail(dto.ErrorCodeResourceAlreadyExists, "Email already exists"),
		})
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
