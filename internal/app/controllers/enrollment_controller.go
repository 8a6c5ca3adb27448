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

// EnrollmentController handles the select, pay, enroll path
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// CreateSelection records a course selection
// @Summary Select a course
// @Description Records the caller's interest in a course. No seat is held until enrollment completes.
// @Tags enrollment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSelectionRequest true "Selection"
// @Success 201 {object} dto.APIResponse{data=models.Selection} "Selection created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course already selected"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /selections [post]
func (c *EnrollmentController) CreateSelection(ctx *gin.Context) {
	var req dto.CreateSelectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid selection data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	selection, err := c.enrollmentService.Select(ctx, middleware.CallerEmail(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      selection,
		Timestamp: time.Now(),
	})
}

// ListSelections returns the caller's selections
// @Summary List selections
// @Description Returns the selections for an email. Only the owner may list them.
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param email query string true "Owner email"
// @Success 200 {object} dto.APIResponse{data=[]models.Selection} "Selections retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the owner"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /selections [get]
func (c *EnrollmentController) ListSelections(ctx *gin.Context) {
	email := ctx.Query("email")
	if email == "" {
		email = middleware.CallerEmail(ctx)
	}

	selections, err := c.enrollmentService.ListSelections(ctx, middleware.CallerEmail(ctx), email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      selections,
		Timestamp: time.Now(),
	})
}

// DeleteSelection removes a selection
// @Summary Delete a selection
// @Description Removes a selection. Only the owner may delete it.
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param id path int true "Selection ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Selection deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Selection not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /selections/{id} [delete]
func (c *EnrollmentController) DeleteSelection(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid selection ID")
		errorDetail = errorDetail.WithDetails("Selection ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.enrollmentService.DeleteSelection(ctx, middleware.CallerEmail(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Selection deleted"},
		Timestamp: time.Now(),
	})
}

// CreatePaymentIntent authorizes a charge with the payment processor
// @Summary Create a payment intent
// @Description Converts the price to minor currency units and asks the processor to authorize the charge. Returns a client secret used to complete payment out-of-band.
// @Tags enrollment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PaymentIntentRequest true "Charge amount in major units"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentIntentResponse} "Intent created"
// @Failure 400 {object} dto.ErrorResponse "Invalid amount"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 402 {object} dto.ErrorResponse "Payment declined"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments/intent [post]
func (c *EnrollmentController) CreatePaymentIntent(ctx *gin.Context) {
	var req dto.PaymentIntentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid payment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.enrollmentService.AuthorizePayment(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// CompleteEnrollment records a finished payment and claims a seat
// @Summary Complete an enrollment
// @Description Verifies the confirmed payment, then atomically takes a seat and records the payment. Fails with a conflict when the course is sold out.
// @Tags enrollment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CompleteEnrollmentRequest true "Payment details"
// @Success 201 {object} dto.APIResponse{data=models.Payment} "Enrollment completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 402 {object} dto.ErrorResponse "Payment declined"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "No seats remaining"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments [post]
func (c *EnrollmentController) CompleteEnrollment(ctx *gin.Context) {
	var req dto.CompleteEnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid payment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	record, err := c.enrollmentService.CompleteEnrollment(ctx, middleware.CallerEmail(ctx), &req)
	if err != nil {
		middleware.CountEnrollment("failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	middleware.CountEnrollment("completed")

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      record,
		Timestamp: time.Now(),
	})
}

// ListEnrolled returns the caller's payment history
// @Summary List enrolled courses
// @Description Returns payment records for an email, newest first. Only the owner may list them.
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param email query string true "Owner email"
// @Success 200 {object} dto.APIResponse{data=[]models.Payment} "Payments retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the owner"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments [get]
func (c *EnrollmentController) ListEnrolled(ctx *gin.Context) {
	email := ctx.Query("email")
	if email == "" {
		email = middleware.CallerEmail(ctx)
	}

	payments, err := c.enrollmentService.ListEnrolled(ctx, middleware.CallerEmail(ctx), email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      payments,
		Timestamp: time.Now(),
	})
}
