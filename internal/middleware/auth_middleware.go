package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "github.com/lifelearn/lifelearn/internal/app/auth"
	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/app/models/dto"
	"github.com/lifelearn/lifelearn/internal/pkg/apperrors"
	"github.com/lifelearn/lifelearn/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextEmailKey = "email"
	ContextRoleKey  = "role"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	authorizer *appauth.AuthorizationService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, authorizer *appauth.AuthorizationService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		authorizer: authorizer,
	}
}

// JWTAuth validates the bearer token and stores the caller's email in the
// request context. Only the identity is taken from the token; roles are
// resolved from the store by RoleRequired.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			errorDetail = errorDetail.WithDetails(errorDetails)
			errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityError)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

// RoleRequired checks the caller's stored role. It must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(requiredRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, exists := c.Get(ContextEmailKey)
		if !exists {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Caller identity not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if err := m.authorizer.RequireRole(c.Request.Context(), email.(string), requiredRole); err != nil {
			if errors.Is(err, apperrors.ErrPermissionDenied) {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
				errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
				errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityError)
				c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
				return
			}

			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
			errorDetail = errorDetail.WithDetails("Failed to resolve caller role")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextRoleKey, string(requiredRole))
		c.Next()
	}
}

// CallerEmail returns the authenticated email set by JWTAuth
func CallerEmail(c *gin.Context) string {
	email, _ := c.Get(ContextEmailKey)
	s, _ := email.(string)
	return s
}
