package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lifelearn/lifelearn/internal/app/models/dto"
	"github.com/lifelearn/lifelearn/internal/app/services"
	"github.com/lifelearn/lifelearn/internal/middleware"
)

// UserController handles user and role management
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetRole reports the role attached to an email
// @Summary Get a user's role
// @Description Returns the role stored for the caller's own email. Unknown emails resolve to role none.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param email path string true "User email"
// @Success 200 {object} dto.APIResponse{data=dto.RoleResponse} "Role retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the owner"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{email}/role [get]
func (c *UserController) GetRole(ctx *gin.Context) {
	resp, err := c.userService.GetRole(ctx, middleware.CallerEmail(ctx), ctx.Param("email"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// UpdateRole changes a user's role
// @Summary Update a user's role
// @Description Sets a user's role. Admin only; roles are never self-service.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID" Format(int64) minimum(1)
// @Param request body dto.UpdateRoleRequest true "New role"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Role updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin role required"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id}/role [patch]
func (c *UserController) UpdateRole(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid user ID")
		errorDetail = errorDetail.WithDetails("User ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid role data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.userService.UpdateRole(ctx, id, req.Role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Role updated"},
		Timestamp: time.Now(),
	})
}

// DeleteUser removes a user account
// @Summary Delete a user
// @Description Removes a user account entirely. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "User deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin role required"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid user ID")
		errorDetail = errorDetail.WithDetails("User ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.userService.DeleteUser(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "User deleted"},
		Timestamp: time.Now(),
	})
}

// ListUsers retrieves all users
// @Summary List all users
// @Description Returns every registered user. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Users retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.userService.ListUsers(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      users,
		Timestamp: time.Now(),
	})
}

// ListInstructors retrieves all instructors
// @Summary List instructors
// @Description Returns users holding the instructor role. Public catalog view.
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Instructors retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /instructors [get]
func (c *UserController) ListInstructors(ctx *gin.Context) {
	instructors, err := c.userService.ListInstructors(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      instructors,
		Timestamp: time.Now(),
	})
}
