package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Shared repository errors
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	CourseRepository     *CourseRepository
	SelectionRepository  *SelectionRepository
	PaymentRepository    *PaymentRepository
	EnrollmentRepository *EnrollmentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		CourseRepository:     NewCourseRepository(db),
		SelectionRepository:  NewSelectionRepository(db),
		PaymentRepository:    NewPaymentRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
	}
}
