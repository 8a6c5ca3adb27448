package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/pkg/dberrors"
)

// Selection error types
var (
	// ErrSelectionNotFound is returned when a selection is not found.
	ErrSelectionNotFound = ErrNotFound
	// ErrSelectionExists is returned when the student has already selected
	// the same course.
	ErrSelectionExists = errors.New("course is already selected")
)

// SelectionRepository handles cart selection database operations
type SelectionRepository struct {
	db *pgxpool.Pool
}

// NewSelectionRepository creates a new SelectionRepository
func NewSelectionRepository(db *pgxpool.Pool) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// CreateSelection records a student's course selection
func (r *SelectionRepository) CreateSelection(ctx context.Context, selection *models.Selection) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO selections (email, course_id)
		VALUES ($1, $2)
		RETURNING id`,
		selection.Email, selection.CourseID).Scan(&id)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, ErrSelectionExists
		}
		return 0, fmt.Errorf("error creating selection: %w", err)
	}

	return id, nil
}

// GetSelectionByID retrieves a selection by ID
func (r *SelectionRepository) GetSelectionByID(ctx context.Context, id int64) (*models.Selection, error) {
	selection := &models.Selection{}
	err := r.db.QueryRow(ctx, `
		SELECT id, email, course_id, created_at
		FROM selections
		WHERE id = $1`,
		id).Scan(&selection.ID, &selection.Email, &selection.CourseID, &selection.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSelectionNotFound
		}
		return nil, fmt.Errorf("error getting selection by id: %w", err)
	}

	return selection, nil
}

// GetSelectionsByEmail retrieves a student's selections with the selected
// course joined in.
func (r *SelectionRepository) GetSelectionsByEmail(ctx context.Context, email string) ([]*models.Selection, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.email, s.course_id, s.created_at,
		       c.id, c.name, c.image_url, c.instructor_name, c.instructor_email,
		       c.price, c.seats, c.enrolled, c.status, c.feedback, c.created_at, c.updated_at
		FROM selections s
		JOIN courses c ON c.id = s.course_id
		WHERE s.email = $1
		ORDER BY s.created_at DESC`,
		email)
	if err != nil {
		return nil, fmt.Errorf("error getting selections by email: %w", err)
	}
	defer rows.Close()

	var selections []*models.Selection
	for rows.Next() {
		selection := &models.Selection{Course: &models.Course{}}
		c := selection.Course
		if err := rows.Scan(
			&selection.ID, &selection.Email, &selection.CourseID, &selection.CreatedAt,
			&c.ID, &c.Name, &c.ImageURL, &c.InstructorName, &c.InstructorEmail,
			&c.Price, &c.Seats, &c.Enrolled, &c.Status, &c.Feedback, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning selection row: %w", err)
		}
		selections = append(selections, selection)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating selection rows: %w", err)
	}

	return selections, nil
}

// DeleteSelection removes a selection
func (r *SelectionRepository) DeleteSelection(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM selections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting selection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSelectionNotFound
	}
	return nil
}
