package models

import (
	"time"
)

// CourseStatus defines a course's publication status
type CourseStatus string

const (
	// CourseStatusPending is the initial status of every submitted course
	CourseStatusPending CourseStatus = "pending"
	// CourseStatusApproved marks a course visible in the public catalog
	CourseStatusApproved CourseStatus = "approved"
	// CourseStatusDenied marks a rejected course
	CourseStatusDenied CourseStatus = "denied"
)

// IsValid reports whether s is one of the closed set of statuses.
func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseStatusPending, CourseStatusApproved, CourseStatusDenied:
		return true
	default:
		return false
	}
}

// Course defines the course model based on the 'courses' table.
// Seats is never negative: the enrollment transaction only decrements it
// through a conditional update guarded by seats > 0.
type Course struct {
	ID              int64        `json:"id" db:"id" example:"1"`                              // Unique identifier for the course
	Name            string       `json:"name" db:"name" example:"Watercolor Basics"`          // Course title
	ImageURL        *string      `json:"imageUrl,omitempty" db:"image_url"`                   // Cover image (nullable)
	InstructorName  string       `json:"instructorName" db:"instructor_name"`                 // Display name of the submitting instructor
	InstructorEmail string       `json:"instructorEmail" db:"instructor_email"`               // Email identity of the submitting instructor
	Price           float64      `json:"price" db:"price" example:"20.00"`                    // Price in major currency units
	Seats           int          `json:"seats" db:"seats" example:"25"`                       // Remaining seats, always >= 0
	Enrolled        int          `json:"enrolled" db:"enrolled" example:"5"`                  // Number of completed enrollments
	Status          CourseStatus `json:"status" db:"status" example:"pending"`                // Publication status
	Feedback        *string      `json:"feedback,omitempty" db:"feedback"`                    // Admin note attached on denial (nullable)
	CreatedAt       time.Time    `json:"createdAt" db:"created_at"`                           // Timestamp when the course was submitted
	UpdatedAt       time.Time    `json:"updatedAt" db:"updated_at"`                           // Timestamp when the course was last updated
}
