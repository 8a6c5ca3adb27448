package models

import (
	"time"
)

// Payment defines an append-only payment record based on the 'payments'
// table. Rows are created exactly once, inside the same transaction as the
// seat decrement, and never mutated afterwards.
type Payment struct {
	ID            int64     `json:"id" db:"id" example:"1"`                          // Unique identifier for the payment
	Email         string    `json:"email" db:"email"`                                // Owning student identity
	CourseID      int64     `json:"courseId" db:"course_id" example:"1"`             // Paid course
	CourseName    string    `json:"courseName" db:"course_name"`                     // Course title at time of payment
	AmountMinor   int64     `json:"amountMinor" db:"amount_minor" example:"2000"`    // Charged amount in minor currency units
	Currency      string    `json:"currency" db:"currency" example:"usd"`            // ISO currency code
	TransactionID string    `json:"transactionId" db:"transaction_id"`               // Processor transaction reference
	PaidAt        time.Time `json:"paidAt" db:"paid_at"`                             // Timestamp when the payment was recorded
}
