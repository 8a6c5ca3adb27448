package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifelearn/lifelearn/internal/app/controllers"
	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	courseController *controllers.CourseController,
	enrollmentController *controllers.EnrollmentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the LifeLearn server"})
	})

	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Catalog views are public
	v1.GET("/courses", courseController.ListApproved)
	v1.GET("/courses/popular", courseController.ListPopular)
	v1.GET("/instructors", userController.ListInstructors)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/users/:email/role", userController.GetRole)

		// Course detail requires only authentication; pending courses are
		// visible to their instructor and admins through their own views.
		authenticated.GET("/courses/:id", courseController.GetCourse)

		// Selection and payment routes enforce ownership in the service
		selections := authenticated.Group("/selections")
		{
			selections.POST("", enrollmentController.CreateSelection)
			selections.GET("", enrollmentController.ListSelections)
			selections.DELETE("/:id", enrollmentController.DeleteSelection)
		}

		payments := authenticated.Group("/payments")
		{
			payments.POST("/intent", enrollmentController.CreatePaymentIntent)
			payments.POST("", enrollmentController.CompleteEnrollment)
			payments.GET("", enrollmentController.ListEnrolled)
		}

		// Instructor routes
		instructorProtected := authenticated.Group("")
		instructorProtected.Use(authMiddleware.RoleRequired(models.RoleInstructor))
		{
			instructorProtected.POST("/courses", courseController.SubmitCourse)
			instructorProtected.GET("/courses/mine", courseController.ListMine)
		}

		// Admin routes
		adminProtected := authenticated.Group("")
		adminProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			adminProtected.GET("/courses/pending", courseController.ListPending)
			adminProtected.PATCH("/courses/:id/decision", courseController.DecideCourse)
			adminProtected.GET("/users", userController.ListUsers)
			adminProtected.PATCH("/users/:id/role", userController.UpdateRole)
			adminProtected.DELETE("/users/:id", userController.DeleteUser)
		}
	}
}
