package services

import (
	"context"

	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/app/repositories"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them in production; tests substitute in-memory implementations.

// UserStore persists user accounts and their roles
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetRoleByEmail(ctx context.Context, email string) (models.Role, error)
	UpdateRole(ctx context.Context, id int64, role models.Role) error
	DeleteUser(ctx context.Context, id int64) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	GetUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error)
}

// CourseStore persists courses through their approval lifecycle
type CourseStore interface {
	CreateCourse(ctx context.Context, course *models.Course) (int64, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	UpdateStatus(ctx context.Context, id int64, status models.CourseStatus, feedback *string) error
	ListCourses(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, error)
}

// SelectionStore persists students' course selections
type SelectionStore interface {
	CreateSelection(ctx context.Context, selection *models.Selection) (int64, error)
	GetSelectionByID(ctx context.Context, id int64) (*models.Selection, error)
	GetSelectionsByEmail(ctx context.Context, email string) ([]*models.Selection, error)
	DeleteSelection(ctx context.Context, id int64) error
}

// PaymentStore reads recorded payments
type PaymentStore interface {
	GetPaymentsByEmail(ctx context.Context, email string) ([]*models.Payment, error)
}

// EnrollmentStore performs the atomic seat-taking transaction
type EnrollmentStore interface {
	CompleteEnrollment(ctx context.Context, payment *models.Payment, selectionID int64) error
}
