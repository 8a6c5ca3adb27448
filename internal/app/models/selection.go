package models

import (
	"time"
)

// Selection defines a student's intent-to-enroll record based on the
// 'selections' table. A selection is advisory: it does not hold a seat.
// It is readable and deletable only by the owning identity.
type Selection struct {
	ID        int64     `json:"id" db:"id" example:"1"`                    // Unique identifier for the selection
	Email     string    `json:"email" db:"email"`                          // Owning student identity
	CourseID  int64     `json:"courseId" db:"course_id" example:"1"`       // Selected course
	Course    *Course   `json:"course,omitempty"`                          // Relation, no db tag
	CreatedAt time.Time `json:"createdAt" db:"created_at"`                 // Timestamp when the selection was created
}
