package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/pkg/logger"
)

// Enrollment error types
var (
	// ErrCourseSoldOut is returned when a course has no seats left.
	ErrCourseSoldOut = errors.New("course has no available seats")
	// ErrCourseNotApproved is returned when enrolling into a course that
	// was never approved.
	ErrCourseNotApproved = errors.New("course is not approved")
)

// EnrollmentRepository performs the enrollment transaction: it takes a seat,
// records the payment, and clears the triggering selection atomically.
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// CompleteEnrollment takes one seat on the course and records the payment in
// a single transaction. The seat decrement is conditional on seats being
// available, so concurrent enrollments past capacity fail with
// ErrCourseSoldOut and leave nothing behind.
func (r *EnrollmentRepository) CompleteEnrollment(ctx context.Context, payment *models.Payment, selectionID int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("error beginning enrollment transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.Error().Err(rbErr).Msg("Error rolling back enrollment transaction")
		}
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE courses
		SET seats = seats - 1, enrolled = enrolled + 1, updated_at = NOW()
		WHERE id = $1 AND status = $2 AND seats > 0`,
		payment.CourseID, models.CourseStatusApproved)
	if err != nil {
		return fmt.Errorf("error taking course seat: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// The guarded update matched nothing; find out why.
		var status models.CourseStatus
		var seats int
		err := tx.QueryRow(ctx, `SELECT status, seats FROM courses WHERE id = $1`,
			payment.CourseID).Scan(&status, &seats)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("error checking course availability: %w", err)
		}
		if status != models.CourseStatusApproved {
			return ErrCourseNotApproved
		}
		return ErrCourseSoldOut
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO payments (email, course_id, course_name, amount_minor, currency, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, paid_at`,
		payment.Email, payment.CourseID, payment.CourseName,
		payment.AmountMinor, payment.Currency, payment.TransactionID).
		Scan(&payment.ID, &payment.PaidAt)
	if err != nil {
		return fmt.Errorf("error recording payment: %w", err)
	}

	if selectionID > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM selections WHERE id = $1`, selectionID); err != nil {
			return fmt.Errorf("error clearing selection: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing enrollment transaction: %w", err)
	}

	return nil
}
