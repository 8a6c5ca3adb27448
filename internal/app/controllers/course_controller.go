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

// CourseController handles the course approval lifecycle and catalog views
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// SubmitCourse handles course submission by an instructor
// @Summary Submit a course
// @Description Creates a course in pending state awaiting admin approval. Instructor only.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Instructor role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) SubmitCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course, err := c.courseService.Submit(ctx, middleware.CallerEmail(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// DecideCourse applies an admin approval or denial
// @Summary Approve or deny a course
// @Description Transitions a pending course to approved or denied. Re-deciding a course is rejected as a conflict. Admin only.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.DecideCourseRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Decision applied"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course already decided"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/decision [patch]
func (c *CourseController) DecideCourse(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course ID")
		errorDetail = errorDetail.WithDetails("Course ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.DecideCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid decision data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.courseService.Decide(ctx, id, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Decision applied"},
		Timestamp: time.Now(),
	})
}

// GetCourse retrieves a single course
// @Summary Get course details
// @Description Retrieves a course by ID
// @Tags courses
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course ID")
		errorDetail = errorDetail.WithDetails("Course ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course, err := c.courseService.GetCourse(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// ListApproved lists the public course catalog
// @Summary List approved courses
// @Description Returns all approved courses. Public catalog view.
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) ListApproved(ctx *gin.Context) {
	courses, err := c.courseService.ListApproved(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      courses,
		Timestamp: time.Now(),
	})
}

// ListPopular lists the most-enrolled approved courses
// @Summary List popular courses
// @Description Returns the most-enrolled approved courses, capped at a fixed count. Public catalog view.
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/popular [get]
func (c *CourseController) ListPopular(ctx *gin.Context) {
	courses, err := c.courseService.ListPopular(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      courses,
		Timestamp: time.Now(),
	})
}

// ListPending lists courses awaiting a decision
// @Summary List pending courses
// @Description Returns courses awaiting an admin decision. Admin only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/pending [get]
func (c *CourseController) ListPending(ctx *gin.Context) {
	courses, err := c.courseService.ListPending(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      courses,
		Timestamp: time.Now(),
	})
}

// ListMine lists the caller's submitted courses
// @Summary List own courses
// @Description Returns every course the calling instructor has submitted, whatever its status. Instructor only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Instructor role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/mine [get]
func (c *CourseController) ListMine(ctx *gin.Context) {
	courses, err := c.courseService.ListByInstructor(ctx, middleware.CallerEmail(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      courses,
		Timestamp: time.Now(),
	})
}
