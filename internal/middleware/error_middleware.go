package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/lifelearn/lifelearn/internal/app/models/dto"
	"github.com/lifelearn/lifelearn/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to HTTP responses
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrCourseNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Course not found"),
		})
	case errors.Is(err, apperrors.ErrUserNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "User not found"),
		})
	case errors.Is(err, apperrors.ErrSelectionNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Selection not found"),
		})
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found"),
		})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied"),
		})
	case errors.Is(err, apperrors.ErrUnauthenticated):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case errors.Is(err, apperrors.ErrSoldOut):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeSoldOut, "No seats remaining"),
		})
	case errors.Is(err, apperrors.ErrCourseAlreadyDecided):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "Course status has already been decided"),
		})
	case errors.Is(err, apperrors.ErrSelectionExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Course already selected"),
		})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "Conflict"),
		})
	case errors.Is(err, apperrors.ErrPaymentDeclined):
		c.JSON(402, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodePaymentDeclined, "Payment declined"),
		})
	case errors.Is(err, apperrors.ErrCourseNotApproved):
		c.JSON(422, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Course is not approved for enrollment"),
		})
	case errors.Is(err, apperrors.ErrInvalidPaymentAmount):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Payment amount must be positive"),
		})
	case errors.Is(err, apperrors.ErrInvalidRole):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid role"),
		})
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(err.Error()),
		})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
