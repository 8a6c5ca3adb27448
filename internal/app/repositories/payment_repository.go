package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifelearn/lifelearn/internal/app/models"
)

// PaymentRepository handles payment history database operations
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetPaymentsByEmail retrieves a student's payment history, newest first
func (r *PaymentRepository) GetPaymentsByEmail(ctx context.Context, email string) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, email, course_id, course_name, amount_minor, currency, transaction_id, paid_at
		FROM payments
		WHERE email = $1
		ORDER BY paid_at DESC`,
		email)
	if err != nil {
		return nil, fmt.Errorf("error getting payments by email: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(
			&payment.ID, &payment.Email, &payment.CourseID, &payment.CourseName,
			&payment.AmountMinor, &payment.Currency, &payment.TransactionID, &payment.PaidAt); err != nil {
			return nil, fmt.Errorf("error scanning payment row: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}

	return payments, nil
}
