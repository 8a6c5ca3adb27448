package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/pkg/logger"
)

// Course error types
var (
	// ErrCourseNotFound is returned when a course is not found.
	ErrCourseNotFound = ErrNotFound
	// ErrCourseAlreadyDecided is returned when trying to decide a course
	// whose status is no longer pending.
	ErrCourseAlreadyDecided = errors.New("course status has already been decided")
)

const courseColumns = "id, name, image_url, instructor_name, instructor_email, price, seats, enrolled, status, feedback, created_at, updated_at"

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateCourse inserts a newly submitted course. Status and enrolled are
// forced to their initial values regardless of what the caller set.
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO courses (name, image_url, instructor_name, instructor_email, price, seats, enrolled, status)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
		RETURNING id`,
		course.Name, course.ImageURL, course.InstructorName, course.InstructorEmail,
		course.Price, course.Seats, models.CourseStatusPending).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	return id, nil
}

// GetCourseByID retrieves a course by ID
func (r *CourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	course := &models.Course{}
	err := r.db.QueryRow(ctx, `
		SELECT `+courseColumns+`
		FROM courses
		WHERE id = $1`,
		id).Scan(
		&course.ID, &course.Name, &course.ImageURL, &course.InstructorName,
		&course.InstructorEmail, &course.Price, &course.Seats, &course.Enrolled,
		&course.Status, &course.Feedback, &course.CreatedAt, &course.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("error getting course by id: %w", err)
	}

	return course, nil
}

// UpdateStatus applies an admin decision to a pending course. The update is
// conditional on the current status so that a second decision on the same
// course fails instead of silently overwriting the first.
func (r *CourseRepository) UpdateStatus(ctx context.Context, id int64, status models.CourseStatus, feedback *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE courses
		SET status = $1, feedback = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4`,
		status, feedback, id, models.CourseStatusPending)

	if err != nil {
		return fmt.Errorf("error updating course status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a missing course from one already decided
		var current models.CourseStatus
		err := r.db.QueryRow(ctx, `SELECT status FROM courses WHERE id = $1`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("error checking course status: %w", err)
		}
		return ErrCourseAlreadyDecided
	}

	return nil
}

// ListCourses retrieves courses filtered by the given options
type CourseFilter struct {
	Status          models.CourseStatus
	InstructorEmail string
	OrderByEnrolled bool
	Limit           uint64
}

// ListCourses retrieves courses matching the filter
func (r *CourseRepository) ListCourses(ctx context.Context, filter CourseFilter) ([]*models.Course, error) {
	q := r.sb.Select(courseColumns).From("courses")

	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.InstructorEmail != "" {
		q = q.Where(squirrel.Eq{"instructor_email": filter.InstructorEmail})
	}
	if filter.OrderByEnrolled {
		q = q.OrderBy("enrolled DESC")
	} else {
		q = q.OrderBy("created_at DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course := &models.Course{}
		if err := rows.Scan(
			&course.ID, &course.Name, &course.ImageURL, &course.InstructorName,
			&course.InstructorEmail, &course.Price, &course.Seats, &course.Enrolled,
			&course.Status, &course.Feedback, &course.CreatedAt, &course.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}
